package signature

import "github.com/viant/typeguess/types"

// Substitution maps a TypeVar name (e.g. "Elem", "K", "V") to a concrete
// type, built from the receiver's element/key/value types at a call site.
type Substitution map[string]*types.Type

// ElemSubstitution builds the substitution for a container receiver:
// {"Elem": elem} for Array/Range, {"Elem": Union(elems)} for Tuple, and
// {"K": key, "V": value} for Hash; nil for any other receiver.
func ElemSubstitution(receiver *types.Type) Substitution {
	if receiver == nil {
		return nil
	}
	switch receiver.Kind {
	case types.KindArray, types.KindRange:
		return Substitution{"Elem": receiver.Elem}
	case types.KindHash:
		return Substitution{"K": receiver.Key, "V": receiver.Value}
	case types.KindTuple:
		return Substitution{"Elem": types.NewUnion(receiver.Elems...)}
	}
	return nil
}

// Substitute recursively replaces TypeVar occurrences in t using subs; it
// applies to a declared overload's return type and block parameter types,
// given a map of TypeVar name -> Type, with substitutions applied
// recursively.
func Substitute(t *types.Type, subs Substitution) *types.Type {
	if t == nil || len(subs) == 0 {
		return t
	}
	switch t.Kind {
	case types.KindTypeVar:
		if repl, ok := subs[t.Name]; ok {
			return repl
		}
		return t
	case types.KindArray:
		return types.NewArray(Substitute(t.Elem, subs))
	case types.KindRange:
		return types.NewRange(Substitute(t.Elem, subs))
	case types.KindHash:
		return types.NewHash(Substitute(t.Key, subs), Substitute(t.Value, subs))
	case types.KindTuple:
		elems := make([]*types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Substitute(e, subs)
		}
		return types.NewTuple(elems...)
	case types.KindHashShape:
		fields := make([]types.HashField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.HashField{Name: f.Name, Type: Substitute(f.Type, subs)}
		}
		return types.NewHashShape(fields...)
	case types.KindUnion:
		elems := make([]*types.Type, len(t.Types))
		for i, e := range t.Types {
			elems[i] = Substitute(e, subs)
		}
		return types.NewUnion(elems...)
	default:
		return t
	}
}

// SubstituteSignature applies Substitute to a MethodSignature's return and
// block-parameter types.
func SubstituteSignature(sig *types.MethodSignature, subs Substitution) *types.MethodSignature {
	if sig == nil {
		return nil
	}
	params := make([]types.Param, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = types.Param{Name: p.Name, Kind: p.Kind, Type: Substitute(p.Type, subs)}
	}
	return &types.MethodSignature{
		Params: params,
		Return: Substitute(sig.Return, subs),
		Block:  SubstituteSignature(sig.Block, subs),
	}
}
