package lowering

import (
	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/types"
)

// assignTo binds value to target (Ident/Ivar/Cvar/Const), performing the
// same registry bookkeeping lowerAssign does, and returns the write node
// (or value itself for a constant, which has no dedicated write kind).
func (l *Lowerer) assignTo(target ast.Node, value ir.Node, ctx *Context, offset int) ir.Node {
	scope := ctx.ScopeID()
	switch t := target.(type) {
	case *ast.Ident:
		write := ir.NewLocalWrite(scope, t.Name, offset, value)
		l.file.Add(write)
		ctx.BindVariable(t.Name, write)
		return write
	case *ast.Ivar:
		write := ir.NewIvarWrite(scope, ctx.ClassName(), t.Name, offset, value)
		l.file.Add(write)
		ctx.RegisterIvarWrite(t.Name, write)
		if l.ivars != nil {
			l.ivars.RegisterWrite(ctx.ClassName(), t.Name, write)
		}
		ctx.NarrowIvar(t.Name, write)
		return write
	case *ast.Cvar:
		write := ir.NewCvarWrite(scope, ctx.ClassName(), t.Name, offset, value)
		l.file.Add(write)
		if l.cvars != nil {
			l.cvars.RegisterWrite(ctx.ClassName(), t.Name, write)
		}
		return write
	case *ast.Const:
		ctx.BindConstant(t.Name, value)
		return value
	}
	return value
}

func (l *Lowerer) lowerAssign(a *ast.Assign, ctx *Context) ir.Node {
	value := l.lowerExpr(a.Value, ctx)
	return l.assignTo(a.Target, value, ctx, offsetOf(a))
}

// lowerOpAssign lowers `||=`, `&&=` and binary op-assign forms, each
// modeled as an ordinary assignment whose Value node expresses the
// operation over the target's current binding:
//
//	a ||= b   ->  a = Or(a, b)
//	a &&= b   ->  a = And(a, b)
//	a op= b   ->  a = a.op(b)
func (l *Lowerer) lowerOpAssign(o *ast.OpAssign, ctx *Context) ir.Node {
	scope := ctx.ScopeID()
	offset := offsetOf(o)
	current := l.lowerExpr(o.Target, ctx)
	rhs := l.lowerExpr(o.Value, ctx)

	var value ir.Node
	switch o.Kind {
	case ast.OpAssignOr:
		or := ir.NewOr(scope, offset, current, rhs)
		l.file.Add(or)
		value = or
	case ast.OpAssignAnd:
		and := ir.NewAnd(scope, offset, current, rhs)
		l.file.Add(and)
		value = and
	default:
		call := ir.NewCall(scope, o.Op, offset, current, []ir.Node{rhs}, nil, false, false)
		l.file.Add(call)
		value = call
	}
	return l.assignTo(o.Target, value, ctx, offset)
}

// lowerMultiAssign decomposes `a, *b, c = expr` into per-target indexing
// calls against the right-hand-side value, reusing the "[]" method the
// declared-signature adapter already knows for Array/Hash so the resolver
// can type each target the same way it types any other indexing call.
func (l *Lowerer) lowerMultiAssign(m *ast.MultiAssign, ctx *Context) ir.Node {
	scope := ctx.ScopeID()
	offset := offsetOf(m)
	value := l.lowerExpr(m.Value, ctx)

	var last ir.Node
	for _, target := range m.Targets {
		idx := ir.NewLiteral(scope, offset, types.NewInstance("Integer"))
		l.file.Add(idx)
		call := ir.NewCall(scope, "[]", offset, value, []ir.Node{idx}, nil, false, false)
		l.file.Add(call)
		last = l.assignTo(target, call, ctx, offset)
	}
	if m.Rest != nil {
		call := ir.NewCall(scope, "[]", offset, value, nil, nil, false, false)
		l.file.Add(call)
		last = l.assignTo(m.Rest, call, ctx, offset)
	}
	for _, target := range m.Post {
		call := ir.NewCall(scope, "[]", offset, value, nil, nil, false, false)
		l.file.Add(call)
		last = l.assignTo(target, call, ctx, offset)
	}
	return last
}

// lowerIndexAssign lowers `recv[key] = value` and `recv << value`, the two
// in-place container-mutation forms. Both become a Call on the mutating
// method name; when the receiver is a plain local variable, lowering
// rebinds it to a synthetic write over that call so later reads observe
// the merged HashShape/Hash/Tuple/Array type
// (resolver.resolveContainerMutation) once the resolver evaluates the
// call, rather than the call's own declared return type. A mutation whose
// receiver was bound outside the innermost block also gets rebound in that
// outer scope (Context.RebindOuter), so the merged type stays visible past
// the block, and is flagged OuterMutation for the resolver's more
// conservative Tuple-to-Array widening.
func (l *Lowerer) lowerIndexAssign(a *ast.IndexAssign, ctx *Context) ir.Node {
	scope := ctx.ScopeID()
	offset := offsetOf(a)
	recv := l.lowerExpr(a.Receiver, ctx)
	value := l.lowerExpr(a.Value, ctx)

	method := a.Op
	var args []ir.Node
	if a.Key != nil {
		key := l.lowerExpr(a.Key, ctx)
		if method == "" {
			method = "[]="
		}
		args = []ir.Node{key, value}
	} else {
		if method == "" {
			method = "<<"
		}
		args = []ir.Node{value}
	}

	call := ir.NewCall(scope, method, offset, recv, args, nil, false, false)
	if read, ok := recv.(*ir.LocalRead); ok {
		call.OuterMutation = ctx.IsInsideBlock() && read.Write != nil && ctx.DefinedInOuterScope(read.Write)
	}
	l.file.Add(call)

	if read, ok := recv.(*ir.LocalRead); ok && read.Write != nil {
		newWrite := ir.NewLocalWrite(scope, read.Name, offset, call)
		l.file.Add(newWrite)
		if call.OuterMutation {
			ctx.RebindOuter(read.Name, newWrite)
		}
		ctx.BindVariable(read.Name, newWrite)
		return newWrite
	}
	return call
}
