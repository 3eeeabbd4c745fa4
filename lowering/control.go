package lowering

import (
	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/types"
)

// if/unless and case/when don't introduce a new lexical scope (an `if`
// body can bind a local that's visible after the `if`), so branch lowering
// runs in the caller's own Context and variable bindings are snapshotted
// and restored around each branch, then reconciled by mergeVarsN.

func snapshotVars(ctx *Context) map[string]*ir.LocalWrite {
	out := make(map[string]*ir.LocalWrite, len(ctx.variables))
	for k, v := range ctx.variables {
		out[k] = v
	}
	return out
}

func restoreVars(ctx *Context, snap map[string]*ir.LocalWrite) {
	ctx.variables = make(map[string]*ir.LocalWrite, len(snap))
	for k, v := range snap {
		ctx.variables[k] = v
	}
}

// mergeVarsN reconciles variable bindings across N sibling branches: a
// variable rebound identically (or not at all) in every live branch keeps
// its single binding; one rebound differently across live branches gets a
// fresh LocalWrite over a Merge of each branch's binding. A terminated
// branch (termList[i]) contributes nothing, since its rebindings never
// reach the code after the construct.
func (l *Lowerer) mergeVarsN(ctx *Context, pre map[string]*ir.LocalWrite, varsList []map[string]*ir.LocalWrite, termList []bool, offset int) {
	names := map[string]bool{}
	for i, vars := range varsList {
		if termList[i] {
			continue
		}
		for n := range vars {
			names[n] = true
		}
	}
	scope := ctx.ScopeID()
	for name := range names {
		var branches []ir.Node
		var last *ir.LocalWrite
		allSame := true
		for i, vars := range varsList {
			if termList[i] {
				continue
			}
			w, ok := vars[name]
			if !ok {
				w = pre[name]
			}
			if w == nil {
				continue
			}
			if last != nil && w != last {
				allSame = false
			}
			last = w
			branches = append(branches, w)
		}
		if len(branches) == 0 {
			continue
		}
		if allSame {
			ctx.BindVariable(name, last)
			continue
		}
		merge := ir.NewMerge(scope, offset, branches...)
		l.file.Add(merge)
		mw := ir.NewLocalWrite(scope, name, offset, merge)
		l.file.Add(mw)
		ctx.BindVariable(name, mw)
	}
}

func allTerminated(termList []bool) bool {
	for _, t := range termList {
		if !t {
			return false
		}
	}
	return len(termList) > 0
}

func (l *Lowerer) lowerIf(n *ast.If, ctx *Context) (ir.Node, bool) {
	scope := ctx.ScopeID()
	offset := offsetOf(n)
	cond := l.lowerExpr(n.Cond, ctx)
	pre := snapshotVars(ctx)

	l.narrowCondInto(cond, ctx, offset, ir.NarrowTruthy)
	thenLast, thenTerm := l.lowerBody(n.Then, ctx)
	thenVars := snapshotVars(ctx)
	restoreVars(ctx, pre)

	l.narrowCondInto(cond, ctx, offset, ir.NarrowFalsy)
	elseLast, elseTerm := l.lowerBody(n.Else, ctx)
	elseVars := snapshotVars(ctx)
	restoreVars(ctx, pre)

	l.mergeVarsN(ctx, pre, []map[string]*ir.LocalWrite{thenVars, elseVars}, []bool{thenTerm, elseTerm}, offset)

	switch {
	case thenTerm && elseTerm:
		return nil, true
	case thenTerm:
		return elseLast, false
	case elseTerm:
		return thenLast, false
	default:
		var branches []ir.Node
		if thenLast != nil {
			branches = append(branches, thenLast)
		}
		if elseLast != nil {
			branches = append(branches, elseLast)
		}
		switch len(branches) {
		case 0:
			return nil, false
		case 1:
			return branches[0], false
		default:
			merge := ir.NewMerge(scope, offset, branches...)
			l.file.Add(merge)
			return merge, false
		}
	}
}

// narrowCondInto rebinds cond's underlying local (if it is one) to a
// Narrow wrapping it, for the duration of one branch.
func (l *Lowerer) narrowCondInto(cond ir.Node, ctx *Context, offset int, kind ir.NarrowKind) {
	read, ok := cond.(*ir.LocalRead)
	if !ok {
		return
	}
	scope := ctx.ScopeID()
	narrow := ir.NewNarrow(scope, offset, cond, kind)
	l.file.Add(narrow)
	w := ir.NewLocalWrite(scope, read.Name, offset, narrow)
	l.file.Add(w)
	ctx.BindVariable(read.Name, w)
}

func (l *Lowerer) lowerCase(c *ast.Case, ctx *Context) (ir.Node, bool) {
	scope := ctx.ScopeID()
	offset := offsetOf(c)

	var subject ir.Node
	if c.Subject != nil {
		subject = l.lowerExpr(c.Subject, ctx)
	}

	pre := snapshotVars(ctx)
	var lasts []ir.Node
	var varsList []map[string]*ir.LocalWrite
	var termList []bool
	hasElse := false

	for _, clause := range c.Clauses {
		restoreVars(ctx, pre)
		if len(clause.When) == 0 {
			hasElse = true
		}
		for _, w := range clause.When {
			cand := l.lowerExpr(w, ctx)
			if subject != nil && cand != nil {
				cmp := ir.NewCall(scope, "===", offsetOf(w), cand, []ir.Node{subject}, nil, false, false)
				l.file.Add(cmp)
			}
		}
		last, term := l.lowerBody(clause.Body, ctx)
		lasts = append(lasts, last)
		varsList = append(varsList, snapshotVars(ctx))
		termList = append(termList, term)
	}
	restoreVars(ctx, pre)

	l.mergeVarsN(ctx, pre, varsList, termList, offset)

	if allTerminated(termList) {
		return nil, true
	}

	var branches []ir.Node
	for i, last := range lasts {
		if termList[i] {
			continue
		}
		if last != nil {
			branches = append(branches, last)
		}
	}
	if !hasElse {
		nilLit := ir.NewLiteral(scope, offset, types.NewInstance("NilClass"))
		l.file.Add(nilLit)
		branches = append(branches, nilLit)
	}

	switch len(branches) {
	case 0:
		return nil, false
	case 1:
		return branches[0], false
	default:
		merge := ir.NewMerge(scope, offset, branches...)
		l.file.Add(merge)
		return merge, false
	}
}

func (l *Lowerer) lowerAnd(a *ast.And, ctx *Context) ir.Node {
	lhs := l.lowerExpr(a.LHS, ctx)
	rhs := l.lowerExpr(a.RHS, ctx)
	node := ir.NewAnd(ctx.ScopeID(), offsetOf(a), lhs, rhs)
	l.file.Add(node)
	return node
}

func (l *Lowerer) lowerOr(o *ast.Or, ctx *Context) ir.Node {
	lhs := l.lowerExpr(o.LHS, ctx)
	rhs := l.lowerExpr(o.RHS, ctx)
	node := ir.NewOr(ctx.ScopeID(), offsetOf(o), lhs, rhs)
	l.file.Add(node)
	return node
}

// lowerGuardReturn handles `return/raise/fail/exit/abort unless V` (and the
// `if !V` equivalent): the statement itself is conditional, so it never
// terminates the enclosing body unconditionally, but code after it only
// runs once V has been narrowed to whichever side doesn't trigger the
// early exit.
func (l *Lowerer) lowerGuardReturn(g *ast.GuardReturn, ctx *Context) ir.Node {
	scope := ctx.ScopeID()
	offset := offsetOf(g)
	cond := l.lowerExpr(g.Cond, ctx)

	kind := ir.NarrowFalsy
	if g.Unless {
		kind = ir.NarrowTruthy
	}
	narrow := ir.NewNarrow(scope, offset, cond, kind)
	l.file.Add(narrow)

	if read, ok := cond.(*ir.LocalRead); ok {
		w := ir.NewLocalWrite(scope, read.Name, offset, narrow)
		l.file.Add(w)
		ctx.BindVariable(read.Name, w)
	}
	return narrow
}
