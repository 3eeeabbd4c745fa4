package resolver

import (
	"strings"

	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/types"
)

// methodCallSetHeuristic guesses the type of a receiver whose declared type
// is Unknown from the set of method names called on it: every user-defined
// class whose method set is a superset of calls is a candidate, then
// ancestry narrows the candidates to only the most general matches (a
// subclass candidate is dropped when its ancestor is also a candidate,
// since the ancestor already accounts for every method the subclass has).
// Empty candidates -> Unknown, one -> Instance(class), two or three ->
// Union(Instance...), more than three -> Unknown (too ambiguous to be a
// useful hover hint).
func (q *query) methodCallSetHeuristic(calls *ir.CallSet) InferenceResult {
	if calls == nil || len(calls.Methods) == 0 || q.r.methods == nil {
		return unknown()
	}

	var candidates []string
	for _, scope := range q.r.methods.Classes() {
		if isSingletonScope(scope) {
			continue
		}
		names := q.r.methods.MethodNames(scope)
		if hasAllMethods(names, calls.Methods) {
			candidates = append(candidates, scope)
		}
	}
	if len(candidates) == 0 {
		return unknown()
	}

	candidates = narrowByAncestors(candidates, q.r.provider)

	switch {
	case len(candidates) == 0:
		return unknown()
	case len(candidates) == 1:
		return known(types.NewInstance(candidates[0]), ProvDuckTyping)
	case len(candidates) <= 3:
		elems := make([]*types.Type, len(candidates))
		for i, c := range candidates {
			elems[i] = types.NewInstance(c)
		}
		return known(q.simplify(types.NewUnion(elems...)), ProvDuckTyping)
	default:
		return unknown()
	}
}

func hasAllMethods(names map[string]bool, want []string) bool {
	if len(names) < len(want) {
		return false
	}
	for _, m := range want {
		if !names[m] {
			return false
		}
	}
	return true
}

// narrowByAncestors drops a candidate class when one of its ancestors is
// also a candidate -- the ancestor is the more general match.
func narrowByAncestors(candidates []string, provider interface{ Ancestors(string) []string }) []string {
	if provider == nil {
		return candidates
	}
	set := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		set[c] = true
	}
	var kept []string
	for _, c := range candidates {
		redundant := false
		for _, anc := range provider.Ancestors(c) {
			if anc != c && set[anc] {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, c)
		}
	}
	return kept
}

func isSingletonScope(scope string) bool {
	return strings.Contains(scope, "<Class:")
}
