package resolver

import (
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/types"
)

// dispatch is the node-kind switch every query.resolve call bottoms out
// in. Each case returns its own cyclic flag, propagated up from whichever
// dependency it recursed through (a node is only as acyclic as its most
// cyclic dependency).
func (q *query) dispatch(node ir.Node) (InferenceResult, bool) {
	switch n := node.(type) {
	case *ir.Literal:
		return q.resolveLiteral(n)

	case *ir.LocalWrite:
		return q.resolve(n.Value)

	case *ir.LocalRead:
		if n.Write != nil {
			return q.resolve(n.Write)
		}
		return q.methodCallSetHeuristic(n.CalledMethods), false

	case *ir.IvarRead:
		writes := make([]ir.Node, len(n.Writes))
		for i, w := range n.Writes {
			writes[i] = w
		}
		return q.resolveFromWrites(writes)

	case *ir.CvarRead:
		writes := make([]ir.Node, len(n.Writes))
		for i, w := range n.Writes {
			writes[i] = w
		}
		return q.resolveFromWrites(writes)

	case *ir.IvarWrite:
		return q.resolve(n.Value)

	case *ir.CvarWrite:
		return q.resolve(n.Value)

	case *ir.Param:
		if n.Default != nil {
			return q.resolve(n.Default)
		}
		return q.methodCallSetHeuristic(n.CalledMethods), false

	case *ir.BlockParamSlot:
		return q.resolveBlockParamSlot(n)

	case *ir.Call:
		return q.resolveCall(n)

	case *ir.Def:
		return q.resolveDef(n)

	case *ir.Return:
		return q.resolve(n.Value)

	case *ir.Merge:
		return q.resolveMerge(n)

	case *ir.Or:
		return q.resolveOr(n)

	case *ir.And:
		return q.resolveAnd(n)

	case *ir.Narrow:
		return q.resolveNarrow(n)

	case *ir.Constant:
		return q.resolveConstant(n, 0)

	case *ir.Self:
		if n.InSingleton {
			return known(types.NewSingleton(n.Class), ProvDuckTyping), false
		}
		return known(types.NewInstance(n.Class), ProvDuckTyping), false

	case *ir.ClassModule:
		return unknown(), false
	}
	return unknown(), false
}

// resolveLiteral reconstructs a literal's real type from its resolved
// dependency nodes: lowering only ever records a structurally-correct
// skeleton with Unknown leaves (arity for a Tuple, field names for a
// HashShape, nothing at all for a Hash/Range's key/value/elem), since it
// runs before any sub-expression has a resolved type. Scalar literals
// (Int/String/.../Bool/Nil) carry no composite leaves and resolve to
// Shape verbatim.
func (q *query) resolveLiteral(n *ir.Literal) (InferenceResult, bool) {
	switch n.Shape.Kind {
	case types.KindTuple:
		return q.resolveTupleLiteral(n)
	case types.KindHashShape:
		return q.resolveHashShapeLiteral(n)
	case types.KindHash:
		return q.resolveHashLiteral(n)
	case types.KindRange:
		return q.resolveRangeLiteral(n)
	default:
		return known(n.Shape, ProvLiteral), false
	}
}

// resolveTupleLiteral resolves an array literal's elements positionally:
// Deps()[i] is the value node for lit.Elements[i], a nil entry (an element
// lowering couldn't produce a node for) resolving to Unknown like any other
// nil dependency.
func (q *query) resolveTupleLiteral(n *ir.Literal) (InferenceResult, bool) {
	deps := n.Deps()
	elems := make([]*types.Type, len(deps))
	cyclic := false
	for i, d := range deps {
		res, c := q.resolve(d)
		cyclic = cyclic || c
		elems[i] = res.Type
	}
	return known(types.NewTuple(elems...), ProvLiteral), cyclic
}

// resolveHashShapeLiteral resolves a symbol-keyed hash literal's fields,
// zipping Deps() with the parallel FieldNames lowering recorded -- Shape's
// own Fields are sorted by name at construction time and so can't be
// walked positionally against pair-order Deps().
func (q *query) resolveHashShapeLiteral(n *ir.Literal) (InferenceResult, bool) {
	deps := n.Deps()
	fields := make([]types.HashField, len(deps))
	cyclic := false
	for i, d := range deps {
		res, c := q.resolve(d)
		cyclic = cyclic || c
		name := ""
		if i < len(n.FieldNames) {
			name = n.FieldNames[i]
		}
		fields[i] = types.HashField{Name: name, Type: res.Type}
	}
	return known(types.NewHashShape(fields...), ProvLiteral), cyclic
}

// resolveHashLiteral resolves a non-symbol-keyed hash literal's nominal
// Hash(key, value) by unioning every pair's key type and every pair's
// value type in turn. Deps() holds exactly two entries per pair (key,
// value), so it's walked two at a time.
func (q *query) resolveHashLiteral(n *ir.Literal) (InferenceResult, bool) {
	deps := n.Deps()
	var keys, vals []*types.Type
	cyclic := false
	for i := 0; i+1 < len(deps); i += 2 {
		kRes, c1 := q.resolve(deps[i])
		vRes, c2 := q.resolve(deps[i+1])
		cyclic = cyclic || c1 || c2
		keys = append(keys, kRes.Type)
		vals = append(vals, vRes.Type)
	}
	key, val := types.Unknown, types.Unknown
	if len(keys) > 0 {
		key = q.simplify(types.NewUnion(keys...))
		val = q.simplify(types.NewUnion(vals...))
	}
	return known(types.NewHash(key, val), ProvLiteral), cyclic
}

// resolveRangeLiteral resolves a range literal's element type as the union
// of whichever bounds are present -- an endless/beginless range simply
// contributes fewer members, rather than needing to track which of Deps()'
// two positional slots is absent.
func (q *query) resolveRangeLiteral(n *ir.Literal) (InferenceResult, bool) {
	deps := n.Deps()
	var bounds []*types.Type
	cyclic := false
	for _, d := range deps {
		if d == nil {
			continue
		}
		res, c := q.resolve(d)
		cyclic = cyclic || c
		bounds = append(bounds, res.Type)
	}
	elem := types.Unknown
	if len(bounds) > 0 {
		elem = q.simplify(types.NewUnion(bounds...))
	}
	return known(types.NewRange(elem), ProvLiteral), cyclic
}

// resolveFromWrites unions the resolved type of every write visible at a
// read (ivar/cvar reads carry every class-wide write as a dependency,
// since any of them may be the one that executed before this read).
func (q *query) resolveFromWrites(writes []ir.Node) (InferenceResult, bool) {
	if len(writes) == 0 {
		return unknown(), false
	}
	var elems []*types.Type
	cyclic := false
	for _, w := range writes {
		res, c := q.resolve(w)
		cyclic = cyclic || c
		elems = append(elems, res.Type)
	}
	if len(elems) == 1 {
		return known(elems[0], ProvInferredCall), cyclic
	}
	return known(q.simplify(types.NewUnion(elems...)), ProvInferredCall), cyclic
}

func (q *query) resolveMerge(n *ir.Merge) (InferenceResult, bool) {
	if len(n.Branches) == 0 {
		return unknown(), false
	}
	var elems []*types.Type
	cyclic := false
	for _, b := range n.Branches {
		res, c := q.resolve(b)
		cyclic = cyclic || c
		elems = append(elems, res.Type)
	}
	if len(elems) == 1 {
		return known(elems[0], ProvInferredCall), cyclic
	}
	return known(q.simplify(types.NewUnion(elems...)), ProvInferredCall), cyclic
}

func (q *query) resolveOr(n *ir.Or) (InferenceResult, bool) {
	lhs, c1 := q.resolve(n.LHS)
	rhs, c2 := q.resolve(n.RHS)
	narrowedLHS := narrowTruthy(lhs.Type)
	return known(q.simplify(types.NewUnion(narrowedLHS, rhs.Type)), ProvInferredCall), c1 || c2
}

func (q *query) resolveAnd(n *ir.And) (InferenceResult, bool) {
	lhs, c1 := q.resolve(n.LHS)
	rhs, c2 := q.resolve(n.RHS)
	return known(q.simplify(types.NewUnion(lhs.Type, rhs.Type)), ProvInferredCall), c1 || c2
}

func (q *query) resolveNarrow(n *ir.Narrow) (InferenceResult, bool) {
	src, cyclic := q.resolve(n.Source)
	if n.Kind == ir.NarrowFalsy {
		return known(narrowFalsy(src.Type), src.Provenance), cyclic
	}
	return known(narrowTruthy(src.Type), src.Provenance), cyclic
}

// narrowTruthy removes NilClass and FalseClass from t (Narrow(x, truthy) /
// the LHS of an `||`), collapsing a TrueClass|FalseClass alias to
// TrueClass since only the truthy half survives.
func narrowTruthy(t *types.Type) *types.Type {
	return filterUnion(t, func(member *types.Type) bool {
		return !isFalsyInstance(member)
	})
}

// narrowFalsy keeps only NilClass/FalseClass members (Narrow(x, falsy)).
func narrowFalsy(t *types.Type) *types.Type {
	return filterUnion(t, isFalsyInstance)
}

func isFalsyInstance(t *types.Type) bool {
	if t == nil || t.Kind != types.KindInstance {
		return false
	}
	return t.Name == "NilClass" || t.Name == "FalseClass"
}

func filterUnion(t *types.Type, keep func(*types.Type) bool) *types.Type {
	if t == nil {
		return types.Unknown
	}
	if t.Kind != types.KindUnion {
		if keep(t) {
			return t
		}
		return types.Unknown
	}
	var kept []*types.Type
	for _, m := range t.Types {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	return types.NewUnion(kept...)
}

func (q *query) resolveConstant(n *ir.Constant, depth int) (InferenceResult, bool) {
	if n.Binding == nil {
		return unknown(), false
	}
	if next, ok := n.Binding.(*ir.Constant); ok {
		if depth >= q.r.cfg.MaxAliasDepth {
			return unknown(), false
		}
		return q.resolveConstant(next, depth+1)
	}
	return q.resolve(n.Binding)
}

func (q *query) resolveDef(n *ir.Def) (InferenceResult, bool) {
	ret, cyclic := q.resolve(n.ReturnNode)
	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		pres, c := q.resolve(p)
		cyclic = cyclic || c
		params[i] = types.Param{Name: p.Name, Kind: p.Kind, Type: pres.Type}
	}
	sig := &types.MethodSignature{Params: params, Return: ret.Type}
	return known(types.NewMethodSignature(sig), ProvInferredCall), cyclic
}

func (q *query) resolveBlockParamSlot(n *ir.BlockParamSlot) (InferenceResult, bool) {
	if n.Call == nil || n.Call.Receiver == nil {
		return unknown(), false
	}
	recv, cyclic := q.resolve(n.Call.Receiver)
	argTypes := make([]*types.Type, len(n.Call.Args))
	for i, a := range n.Call.Args {
		res, c := q.resolve(a)
		argTypes[i] = res.Type
		cyclic = cyclic || c
	}
	overload, ok := q.lookupOverload(recv.Type, n.Call.Method, argTypes, n.Call.HasBlock)
	if !ok || overload.Block == nil || n.Index >= len(overload.Block.Params) {
		return unknown(), cyclic
	}
	subs := elemSubstitutionFor(recv.Type)
	paramType := substituteType(overload.Block.Params[n.Index].Type, subs)
	return known(paramType, ProvDeclaredSignature), cyclic
}
