package signature

import "github.com/viant/typeguess/types"

// score weights for overload resolution: exact class match scores high,
// member-of-union scores low, unknown argument scores neutral.
const (
	scoreExact       = 3
	scoreUnionMember = 1
	scoreNeutral     = 0
	scoreMismatch    = -1
)

// Pick chooses the best-matching overload for call arguments argTypes and
// hasBlock. Ties favor the first declared overload. Returns a zero Overload
// and false if overloads is empty.
func Pick(overloads []Overload, argTypes []*types.Type, hasBlock bool) (Overload, bool) {
	if len(overloads) == 0 {
		return Overload{}, false
	}

	bestIdx := -1
	bestScore := scoreMismatch - 1
	for i, o := range overloads {
		s := scoreOverload(o, argTypes, hasBlock)
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < 0 {
		return overloads[0], true
	}
	return overloads[bestIdx], true
}

func scoreOverload(o Overload, argTypes []*types.Type, hasBlock bool) int {
	total := 0
	positional := positionalParams(o.Params)
	for i, arg := range argTypes {
		if i >= len(positional) {
			break
		}
		total += scoreArg(arg, positional[i].Type)
	}
	if hasBlock != (o.Block != nil) {
		total -= 1
	}
	return total
}

func positionalParams(params []types.Param) []types.Param {
	var out []types.Param
	for _, p := range params {
		switch p.Kind {
		case types.ParamRequired, types.ParamOptional, types.ParamRest:
			out = append(out, p)
		}
	}
	return out
}

func scoreArg(arg, param *types.Type) int {
	if arg == nil || arg.Kind == types.KindUnknown {
		return scoreNeutral
	}
	if param == nil || param.Kind == types.KindUnknown {
		return scoreNeutral
	}
	if types.Equal(arg, param) {
		return scoreExact
	}
	if param.Kind == types.KindUnion {
		for _, member := range param.Types {
			if types.Equal(arg, member) {
				return scoreUnionMember
			}
		}
	}
	if arg.Kind == types.KindInstance && param.Kind == types.KindInstance && arg.Name == param.Name {
		return scoreExact
	}
	return scoreMismatch
}
