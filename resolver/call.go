package resolver

import (
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/signature"
	"github.com/viant/typeguess/types"
)

// resolveCall implements the four-step Call inference chain: declared
// signature first, then a user-defined Def, then the method-call-set
// heuristic on an Unknown receiver (retrying step 1 with the heuristic's
// guess), and finally Unknown.
func (q *query) resolveCall(n *ir.Call) (InferenceResult, bool) {
	var recvType *types.Type
	cyclic := false
	if n.Receiver != nil {
		recv, c := q.resolve(n.Receiver)
		recvType = recv.Type
		cyclic = c
	} else if n.InSelfContext {
		recvType = types.Self
	} else {
		recvType = types.Unknown
	}

	if res, ok, c2 := q.resolveContainerMutation(n, recvType); ok {
		return res, cyclic || c2
	}

	res, ok, c2 := q.resolveCallOnReceiver(n, recvType)
	cyclic = cyclic || c2
	if ok {
		return res, cyclic
	}

	if recvType == nil || recvType.Kind == types.KindUnknown {
		if receiverRead, isRead := n.Receiver.(*ir.LocalRead); isRead {
			guess := q.methodCallSetHeuristic(receiverRead.CalledMethods)
			if guess.Type.Kind != types.KindUnknown {
				res, ok, c3 := q.resolveCallOnReceiver(n, guess.Type)
				cyclic = cyclic || c3
				if ok {
					return res, cyclic
				}
			}
		} else if receiverParam, isParam := n.Receiver.(*ir.Param); isParam {
			guess := q.methodCallSetHeuristic(receiverParam.CalledMethods)
			if guess.Type.Kind != types.KindUnknown {
				res, ok, c3 := q.resolveCallOnReceiver(n, guess.Type)
				cyclic = cyclic || c3
				if ok {
					return res, cyclic
				}
			}
		}
	}

	return unknown(), cyclic
}

// resolveCallOnReceiver tries steps 1-2 of Call inference against a
// specific receiver type: a declared-signature overload, then a
// user-defined Def on the receiver's class.
func (q *query) resolveCallOnReceiver(n *ir.Call, recvType *types.Type) (InferenceResult, bool, bool) {
	argTypes := make([]*types.Type, len(n.Args))
	cyclic := false
	for i, a := range n.Args {
		res, c := q.resolve(a)
		argTypes[i] = res.Type
		cyclic = cyclic || c
	}

	var blockType *types.Type
	if n.HasBlock && n.BlockBody != nil {
		res, c := q.resolve(n.BlockBody)
		blockType = res.Type
		cyclic = cyclic || c
	}

	if overload, ok := q.lookupOverload(recvType, n.Method, argTypes, n.HasBlock); ok {
		subs := elemSubstitutionFor(recvType)
		if blockType != nil {
			subs = mergeSubs(subs, signature.ElemSubstitution(blockType))
		}
		ret := substituteType(overload.Return, subs)
		if ret != nil && ret.Kind != types.KindUnknown {
			return known(ret, ProvDeclaredSignature), true, cyclic
		}
	}

	if def := q.lookupDef(recvType, n.Method); def != nil {
		res, c := q.resolve(def)
		cyclic = cyclic || c
		sig := res.Type.AsMethodSignature()
		if sig == nil {
			return unknown(), true, cyclic
		}
		ret := substituteSelf(sig.Return, recvType)
		return known(ret, ProvInferredCall), true, cyclic
	}

	return unknown(), false, cyclic
}

// resolveContainerMutation implements spec's container-mutation merge
// rules for a `[]=`/`<<` call on a hash-like or array-like receiver: the
// merged type is recomputed directly from recvType and the resolved
// argument types, rather than taken from the mutating method's declared
// return type (Hash#[]= returns its value argument, not the mutated hash).
// handled is false for any (Method, recvType.Kind, arity) combination the
// rules don't cover, letting the caller fall back to ordinary
// overload/Def resolution -- e.g. String#<< or a user-defined #<<.
func (q *query) resolveContainerMutation(n *ir.Call, recvType *types.Type) (res InferenceResult, handled bool, cyclic bool) {
	if recvType == nil {
		return unknown(), false, false
	}

	argTypes := make([]*types.Type, len(n.Args))
	for i, a := range n.Args {
		r, c := q.resolve(a)
		argTypes[i] = r.Type
		cyclic = cyclic || c
	}

	var merged *types.Type
	switch recvType.Kind {
	case types.KindHashShape:
		if n.Method != "[]=" || len(n.Args) != 2 {
			return unknown(), false, cyclic
		}
		if name, ok := symbolKeyName(n.Args[0]); ok {
			merged = recvType.WithField(name, argTypes[1])
		} else {
			vals := make([]*types.Type, 0, len(recvType.Fields)+1)
			for _, f := range recvType.Fields {
				vals = append(vals, f.Type)
			}
			vals = append(vals, argTypes[1])
			key := q.simplify(types.NewUnion(types.NewInstance("Symbol"), argTypes[0]))
			val := q.simplify(types.NewUnion(vals...))
			merged = types.NewHash(key, val)
		}
	case types.KindHash:
		if n.Method != "[]=" || len(n.Args) != 2 {
			return unknown(), false, cyclic
		}
		key := q.simplify(types.NewUnion(recvType.Key, argTypes[0]))
		val := q.simplify(types.NewUnion(recvType.Value, argTypes[1]))
		merged = types.NewHash(key, val)
	case types.KindTuple:
		switch {
		case n.Method == "[]=" && len(n.Args) == 2:
			merged = recvType.TupleExtend(len(recvType.Elems), argTypes[1])
		case n.Method == "<<" && len(n.Args) == 1:
			// a same-scope `<<` on a Tuple still grows it one element at a
			// time -- it only widens all the way to Array when crossing a
			// block boundary (the OuterMutation check below).
			merged = recvType.TupleExtend(len(recvType.Elems), argTypes[0])
		default:
			return unknown(), false, cyclic
		}
	case types.KindArray:
		if n.Method != "<<" || len(n.Args) != 1 {
			return unknown(), false, cyclic
		}
		merged = types.NewArray(q.simplify(types.NewUnion(recvType.Elem, argTypes[0])))
	default:
		return unknown(), false, cyclic
	}

	if n.OuterMutation && merged.Kind == types.KindTuple {
		merged = merged.ToArray()
	}
	return known(merged, ProvInferredCall), true, cyclic
}

// symbolKeyName reports the field name a `[]=` key argument names, if it's
// a symbol literal whose name lowering recovered. Only a compile-time
// known symbol key can update a single HashShape field; any other key
// widens the whole shape to a nominal Hash.
func symbolKeyName(key ir.Node) (string, bool) {
	lit, ok := key.(*ir.Literal)
	if !ok || lit.SymbolName == "" {
		return "", false
	}
	return lit.SymbolName, true
}

func substituteSelf(t, self *types.Type) *types.Type {
	if t == nil {
		return types.Unknown
	}
	if t.Kind == types.KindSelf {
		return self
	}
	return t
}

func elemSubstitutionFor(recvType *types.Type) signature.Substitution {
	return signature.ElemSubstitution(recvType)
}

func substituteType(t *types.Type, subs signature.Substitution) *types.Type {
	return signature.Substitute(t, subs)
}

func mergeSubs(a, b signature.Substitution) signature.Substitution {
	if a == nil {
		return b
	}
	out := make(signature.Substitution, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// lookupOverload asks the declared-signature provider for overloads of
// method on recvType's class and picks the best match for argTypes.
func (q *query) lookupOverload(recvType *types.Type, method string, argTypes []*types.Type, hasBlock bool) (signature.Overload, bool) {
	if q.r.provider == nil || recvType == nil {
		return signature.Overload{}, false
	}
	class, singleton := classOf(recvType)
	if class == "" {
		return signature.Overload{}, false
	}
	overloads, err := q.r.provider.Overloads(class, method, singleton)
	if err != nil || len(overloads) == 0 {
		return signature.Overload{}, false
	}
	return signature.Pick(overloads, argTypes, hasBlock)
}

// lookupDef asks the method registry for a user-defined method on
// recvType's class.
func (q *query) lookupDef(recvType *types.Type, method string) *ir.Def {
	if q.r.methods == nil || recvType == nil {
		return nil
	}
	class, singleton := classOf(recvType)
	if class == "" {
		return nil
	}
	scope := class
	if singleton {
		scope = singletonScopeOf(class)
	}
	return q.r.methods.Lookup(scope, method)
}

// classOf maps a resolved receiver type to the declared-signature/method-
// registry class name a call against it should look up. The built-in
// container kinds carry no Name of their own, so they map to the stdlib
// class their literal syntax constructs: Array/Tuple -> "Array", Hash/
// HashShape -> "Hash" (a HashShape is a structural record over the same
// nominal Hash class), Range -> "Range".
func classOf(t *types.Type) (class string, singleton bool) {
	switch t.Kind {
	case types.KindInstance:
		return t.Name, false
	case types.KindSingleton:
		return t.Name, true
	case types.KindArray, types.KindTuple:
		return "Array", false
	case types.KindHash, types.KindHashShape:
		return "Hash", false
	case types.KindRange:
		return "Range", false
	}
	return "", false
}

// singletonScopeOf mirrors lowering's singletonClassScope encoding:
// "Outer::<Class:Inner>" for a nested class, "<Class:Name>" for a
// top-level one -- the same split lowering.Context.ScopeID applies to a
// singleton method's owning class.
func singletonScopeOf(class string) string {
	outer, inner := splitOuterInner(class)
	return outer + "<Class:" + inner + ">"
}

// splitOuterInner splits "Outer::Inner" into ("Outer::", "Inner"); for an
// unqualified class name it returns ("", name). Mirrors
// lowering.splitOuterInner, duplicated here since that helper is
// unexported and resolver has no other reason to import lowering.
func splitOuterInner(class string) (outer, inner string) {
	idx := -1
	for i := len(class) - 1; i >= 1; i-- {
		if class[i] == ':' && class[i-1] == ':' {
			idx = i - 1
			break
		}
	}
	if idx < 0 {
		return "", class
	}
	return class[:idx+2], class[idx+2:]
}
