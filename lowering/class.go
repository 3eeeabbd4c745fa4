package lowering

import (
	"fmt"

	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/types"
)

func (l *Lowerer) lowerCall(c *ast.Call, ctx *Context) (ir.Node, bool) {
	scope := ctx.ScopeID()
	offset := offsetOf(c)

	var receiver ir.Node
	inSelf := false
	if c.Receiver != nil {
		receiver = l.lowerExpr(c.Receiver, ctx)
	} else {
		inSelf = ctx.ClassName() != ""
	}

	args := make([]ir.Node, len(c.Args))
	for i, a := range c.Args {
		args[i] = l.lowerExpr(a, ctx)
	}

	if read, ok := receiver.(*ir.LocalRead); ok && read.CalledMethods != nil {
		read.CalledMethods.Add(c.Method)
	}

	call := ir.NewCall(scope, c.Method, offset, receiver, args, nil, c.HasBlock, inSelf)
	l.file.Add(call)

	if c.HasBlock {
		blockCtx := ctx.forkBlock()
		for i, paramName := range c.BlockArgs {
			slot := ir.NewBlockParamSlot(scope, i, offset, call)
			l.file.Add(slot)
			w := ir.NewLocalWrite(blockCtx.ScopeID(), paramName, offset, slot)
			l.file.Add(w)
			blockCtx.BindVariable(paramName, w)
		}
		blockLast, _ := l.lowerBody(c.BlockBody, blockCtx)
		call.BlockBody = blockLast
	}

	if nonLocalExitMethods[c.Method] {
		return call, true
	}
	return call, false
}

func (l *Lowerer) lowerReturn(r *ast.Return, ctx *Context) ir.Node {
	var value ir.Node
	if r.Value != nil {
		value = l.lowerExpr(r.Value, ctx)
	}
	node := ir.NewReturn(ctx.ScopeID(), offsetOf(r), value)
	l.file.Add(node)
	l.recordReturn(node)
	return node
}

func (l *Lowerer) pushReturns() {
	l.returnsStack = append(l.returnsStack, nil)
}

func (l *Lowerer) popReturns() []*ir.Return {
	n := len(l.returnsStack)
	top := l.returnsStack[n-1]
	l.returnsStack = l.returnsStack[:n-1]
	return top
}

func (l *Lowerer) recordReturn(r *ir.Return) {
	if n := len(l.returnsStack); n > 0 {
		l.returnsStack[n-1] = append(l.returnsStack[n-1], r)
	}
}

func (l *Lowerer) nilLiteral(scope string, offset int) ir.Node {
	lit := ir.NewLiteral(scope, offset, types.NewInstance("NilClass"))
	l.file.Add(lit)
	return lit
}

// lowerMethodDef lowers a method body in its own forked Context, assembles
// its return type from every explicit return plus the body's implicit last
// expression, and registers the resulting Def with the shared method
// registry under the owning class (or singleton-class) scope.
func (l *Lowerer) lowerMethodDef(m *ast.MethodDef, ctx *Context) {
	offset := offsetOf(m)
	singleton := m.Singleton || ctx.isSingleton
	methodCtx := ctx.forkMethod(m.Name, singleton)

	params := make([]*ir.Param, len(m.Params))
	for i, p := range m.Params {
		var def ir.Node
		if p.Default != nil {
			def = l.lowerExpr(p.Default, methodCtx)
		}
		kind := types.ParamKind(p.Kind)
		param := ir.NewParam(methodCtx.ScopeID(), p.Name, kind, offset, def)
		l.file.Add(param)
		write := ir.NewLocalWrite(methodCtx.ScopeID(), p.Name, offset, param)
		write.CalledMethods = param.CalledMethods
		l.file.Add(write)
		methodCtx.BindVariable(p.Name, write)
		params[i] = param
	}

	l.pushReturns()
	var bodyNodes []ir.Node
	var lastExpr ir.Node
	terminated := false
	for _, stmt := range m.Body {
		node, term := l.lowerNode(stmt, methodCtx)
		if node != nil {
			bodyNodes = append(bodyNodes, node)
			lastExpr = node
		}
		if term {
			terminated = true
			break
		}
	}
	returns := l.popReturns()

	var branches []ir.Node
	for _, r := range returns {
		if r.Value != nil {
			branches = append(branches, r.Value)
		} else {
			branches = append(branches, l.nilLiteral(methodCtx.ScopeID(), r.Offset()))
		}
	}
	if !terminated {
		if lastExpr != nil {
			branches = append(branches, lastExpr)
		} else {
			branches = append(branches, l.nilLiteral(methodCtx.ScopeID(), offset))
		}
	}

	var retNode ir.Node
	switch len(branches) {
	case 0:
		retNode = l.nilLiteral(methodCtx.ScopeID(), offset)
	case 1:
		retNode = branches[0]
	default:
		merge := ir.NewMerge(methodCtx.ScopeID(), offset, branches...)
		l.file.Add(merge)
		retNode = merge
	}

	def := ir.NewDef(ctx.ScopeID(), m.Name, ctx.ClassName(), offset, params, retNode, bodyNodes, singleton, m.ModuleFunction)
	def.Visibility = ir.Visibility(m.Visibility)
	l.file.Add(def)

	classScope := ctx.ScopeID()
	if singleton {
		classScope = singletonClassScope(ctx)
	}
	if l.methods != nil {
		l.methods.Register(classScope, def)
		if m.ModuleFunction {
			l.methods.Register(singletonClassScope(ctx), def)
		}
	}
}

func singletonClassScope(ctx *Context) string {
	outer, inner := splitOuterInner(ctx.ClassName())
	return fmt.Sprintf("%s<Class:%s>", outer, inner)
}

func (l *Lowerer) lowerClassModule(cm *ast.ClassModule, ctx *Context) ir.Node {
	classCtx := ctx.forkClass(cm.Name)
	var members []ir.Node
	for _, m := range cm.Members {
		node, _ := l.lowerNode(m, classCtx)
		if node != nil {
			members = append(members, node)
		}
	}
	node := ir.NewClassModule(ctx.ScopeID(), cm.Name, offsetOf(cm), members)
	l.file.Add(node)
	ctx.BindConstant(cm.Name, node)
	return node
}

func (l *Lowerer) lowerSingletonBlock(s *ast.SingletonClassBlock, ctx *Context) {
	singletonCtx := ctx.fork(ScopeClass)
	singletonCtx.isSingleton = true
	for _, m := range s.Members {
		l.lowerNode(m, singletonCtx)
	}
}

// lowerRescue lowers `begin...rescue...else...ensure...end` (and a method
// body wrapping the same shape). Each rescue clause starts from the
// protected body's pre-execution bindings, since an exception may
// interrupt the body at any point; the else body, by contrast, only runs
// once the body has completed normally, so it starts from the body's
// post-execution bindings.
func (l *Lowerer) lowerRescue(r *ast.Rescue, ctx *Context) (ir.Node, bool) {
	scope := ctx.ScopeID()
	offset := offsetOf(r)

	pre := snapshotVars(ctx)
	bodyLast, bodyTerm := l.lowerBody(r.Body, ctx)
	bodyVars := snapshotVars(ctx)
	restoreVars(ctx, pre)

	var clauseLasts []ir.Node
	var varsList []map[string]*ir.LocalWrite
	var termList []bool
	for _, clause := range r.Clauses {
		restoreVars(ctx, pre)

		var excType *types.Type
		switch len(clause.Exceptions) {
		case 0:
			excType = types.NewInstance(l.rootExc())
		case 1:
			excType = types.NewInstance(clause.Exceptions[0])
		default:
			elems := make([]*types.Type, len(clause.Exceptions))
			for i, e := range clause.Exceptions {
				elems[i] = types.NewInstance(e)
			}
			excType = types.NewUnion(elems...)
		}
		if clause.Var != "" {
			lit := ir.NewLiteral(scope, offset, excType)
			l.file.Add(lit)
			w := ir.NewLocalWrite(scope, clause.Var, offset, lit)
			l.file.Add(w)
			ctx.BindVariable(clause.Var, w)
		}

		last, term := l.lowerBody(clause.Body, ctx)
		clauseLasts = append(clauseLasts, last)
		varsList = append(varsList, snapshotVars(ctx))
		termList = append(termList, term)
	}
	restoreVars(ctx, pre)

	mainVars, mainTerm, mainLast := bodyVars, bodyTerm, bodyLast
	if len(r.Else) > 0 {
		restoreVars(ctx, bodyVars)
		elseLast, elseTerm := l.lowerBody(r.Else, ctx)
		mainVars, mainTerm, mainLast = snapshotVars(ctx), bodyTerm || elseTerm, elseLast
		restoreVars(ctx, pre)
	}

	allVars := append([]map[string]*ir.LocalWrite{mainVars}, varsList...)
	allTerm := append([]bool{mainTerm}, termList...)
	l.mergeVarsN(ctx, pre, allVars, allTerm, offset)

	if len(r.Ensure) > 0 {
		l.lowerBody(r.Ensure, ctx)
	}

	var results []ir.Node
	if !mainTerm && mainLast != nil {
		results = append(results, mainLast)
	}
	for i, last := range clauseLasts {
		if !termList[i] && last != nil {
			results = append(results, last)
		}
	}

	switch len(results) {
	case 0:
		return nil, mainTerm && allTerminated(termList)
	case 1:
		return results[0], false
	default:
		merge := ir.NewMerge(scope, offset, results...)
		l.file.Add(merge)
		return merge, false
	}
}
