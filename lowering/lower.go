package lowering

import (
	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/types"
)

// nonLocalExitMethods are call sites lowering treats as unconditional exits
// for the purpose of Merge-branch elision: a statement calling one of these
// never falls through to the rest of its enclosing body.
var nonLocalExitMethods = map[string]bool{
	"raise": true, "fail": true, "exit": true, "abort": true,
}

// Lowerer turns one file's ast.Program into an ir.File, registering method
// definitions and ivar/cvar writes into the shared registries as it goes.
// Grounded on analyzer.Analyzer, which drives a single recursive walk over
// one parsed file and populates its project-wide maps as a side effect of
// that walk rather than in a separate pass.
type Lowerer struct {
	file    *ir.File
	methods *registry.MethodRegistry
	ivars   *registry.VarRegistry
	cvars   *registry.VarRegistry
	rootExc func() string

	// returnsStack tracks explicit `return` nodes seen while lowering the
	// body of the innermost enclosing method, for return-type assembly.
	returnsStack [][]*ir.Return
}

// New returns a Lowerer that will populate file and the given registries.
// rootExc supplies the well-known root exception class name for an
// unqualified rescue clause; pass nil to default to "StandardError".
func New(path string, methods *registry.MethodRegistry, ivars, cvars *registry.VarRegistry, rootExc func() string) *Lowerer {
	if rootExc == nil {
		rootExc = func() string { return "StandardError" }
	}
	return &Lowerer{
		file:    ir.NewFile(path),
		methods: methods,
		ivars:   ivars,
		cvars:   cvars,
		rootExc: rootExc,
	}
}

// LowerProgram lowers every top-level statement and returns the populated
// file arena.
func (l *Lowerer) LowerProgram(prog *ast.Program) *ir.File {
	ctx := NewTopLevel(l.file)
	l.lowerBody(prog.Body, ctx)
	return l.file
}

func offsetOf(n ast.Node) int { return n.Span().Start }

// lowerBody lowers a statement sequence in order. terminated reports
// whether the sequence unconditionally exits (a bare/valued return, or a
// raise/fail/exit/abort call used as a statement) -- callers constructing a
// Merge use this to elide a non-returning branch entirely.
func (l *Lowerer) lowerBody(body []ast.Node, ctx *Context) (last ir.Node, terminated bool) {
	for _, n := range body {
		v, term := l.lowerNode(n, ctx)
		if v != nil {
			last = v
		}
		if term {
			return last, true
		}
	}
	return last, false
}

// lowerExpr lowers n as a value-producing expression, discarding any
// terminated signal (only statement-level constructs can terminate a
// body).
func (l *Lowerer) lowerExpr(n ast.Node, ctx *Context) ir.Node {
	if n == nil {
		return nil
	}
	v, _ := l.lowerNode(n, ctx)
	return v
}

func (l *Lowerer) lowerNode(n ast.Node, ctx *Context) (ir.Node, bool) {
	switch v := n.(type) {
	case *ast.Literal:
		return l.lowerLiteral(v, ctx), false
	case *ast.Ident:
		return l.lowerIdentRead(v, ctx), false
	case *ast.Ivar:
		return l.lowerIvarRead(v, ctx), false
	case *ast.Cvar:
		return l.lowerCvarRead(v, ctx), false
	case *ast.Const:
		return l.lowerConstRead(v, ctx), false
	case *ast.SelfExpr:
		return l.lowerSelf(v, ctx), false
	case *ast.Assign:
		return l.lowerAssign(v, ctx), false
	case *ast.OpAssign:
		return l.lowerOpAssign(v, ctx), false
	case *ast.MultiAssign:
		return l.lowerMultiAssign(v, ctx), false
	case *ast.IndexAssign:
		return l.lowerIndexAssign(v, ctx), false
	case *ast.If:
		return l.lowerIf(v, ctx)
	case *ast.Case:
		return l.lowerCase(v, ctx)
	case *ast.And:
		return l.lowerAnd(v, ctx), false
	case *ast.Or:
		return l.lowerOr(v, ctx), false
	case *ast.GuardReturn:
		return l.lowerGuardReturn(v, ctx), false
	case *ast.Call:
		return l.lowerCall(v, ctx)
	case *ast.Return:
		return l.lowerReturn(v, ctx), true
	case *ast.MethodDef:
		l.lowerMethodDef(v, ctx)
		return nil, false
	case *ast.ClassModule:
		return l.lowerClassModule(v, ctx), false
	case *ast.SingletonClassBlock:
		l.lowerSingletonBlock(v, ctx)
		return nil, false
	case *ast.Rescue:
		return l.lowerRescue(v, ctx)
	}
	return nil, false
}

func (l *Lowerer) lowerLiteral(lit *ast.Literal, ctx *Context) ir.Node {
	scope := ctx.ScopeID()
	offset := offsetOf(lit)

	var shape *types.Type
	var deps []ir.Node
	var fieldNames []string
	var symbolName string

	switch lit.Kind {
	case ast.LitInt:
		shape = types.NewInstance("Integer")
	case ast.LitFloat:
		shape = types.NewInstance("Float")
	case ast.LitString:
		shape = types.NewInstance("String")
	case ast.LitSymbol:
		shape = types.NewInstance("Symbol")
		symbolName = symbolLiteralName(lit)
	case ast.LitBool:
		// the ast contract doesn't distinguish true from false literals, so
		// the conservative shape is the two-member boolean union.
		shape = types.NewUnion(types.NewInstance("TrueClass"), types.NewInstance("FalseClass"))
	case ast.LitNil:
		shape = types.NewInstance("NilClass")
	case ast.LitArray:
		elems := make([]*types.Type, len(lit.Elements))
		deps = make([]ir.Node, len(lit.Elements))
		for i, e := range lit.Elements {
			deps[i] = l.lowerExpr(e, ctx) // may be nil; resolver skips a nil dep
			elems[i] = types.Unknown     // resolver fills the precise element type from deps
		}
		shape = types.NewTuple(elems...)
	case ast.LitHash:
		allSymbolKeys := len(lit.Pairs) > 0
		for _, p := range lit.Pairs {
			if keyLit, ok := p.Key.(*ast.Literal); !ok || keyLit.Kind != ast.LitSymbol {
				allSymbolKeys = false
			}
		}
		if allSymbolKeys {
			fields := make([]types.HashField, len(lit.Pairs))
			fieldNames = make([]string, len(lit.Pairs))
			deps = make([]ir.Node, len(lit.Pairs))
			for i, p := range lit.Pairs {
				keyLit := p.Key.(*ast.Literal)
				deps[i] = l.lowerExpr(p.Value, ctx) // may be nil
				name := symbolLiteralName(keyLit)
				fieldNames[i] = name
				fields[i] = types.HashField{Name: name, Type: types.Unknown}
			}
			shape = types.NewHashShape(fields...)
		} else {
			// deps holds exactly two entries per pair (key, value, in that
			// order), even when a lowerExpr call returns nil, so the
			// resolver can walk deps two at a time without losing alignment.
			deps = make([]ir.Node, 0, 2*len(lit.Pairs))
			for _, p := range lit.Pairs {
				deps = append(deps, l.lowerExpr(p.Key, ctx), l.lowerExpr(p.Value, ctx))
			}
			shape = types.NewHash(types.Unknown, types.Unknown)
		}
	case ast.LitRange:
		// deps is always exactly [lo, hi], even when one or both bounds are
		// absent (an endless/beginless range), so the resolver can read
		// deps[0]/deps[1] positionally instead of guessing which bound a
		// single present dep belongs to.
		var loNode, hiNode ir.Node
		if lit.RangeLo != nil {
			loNode = l.lowerExpr(lit.RangeLo, ctx)
		}
		if lit.RangeHi != nil {
			hiNode = l.lowerExpr(lit.RangeHi, ctx)
		}
		deps = []ir.Node{loNode, hiNode}
		shape = types.NewRange(types.Unknown)
	default:
		shape = types.Unknown
	}

	var node *ir.Literal
	if fieldNames != nil {
		node = ir.NewHashShapeLiteral(scope, offset, shape, fieldNames, deps...)
	} else {
		node = ir.NewLiteral(scope, offset, shape, deps...)
	}
	node.SymbolName = symbolName
	l.file.Add(node)
	return node
}

// symbolLiteralName extracts a symbol literal's name. ast.Literal models a
// symbol purely by Kind, with no dedicated name field, so a symbol-literal
// adapter carries the name as the literal's single Element: a one-element
// []Node{*ast.Ident}. This is the narrowest bridge that avoids widening the
// closed ast.Literal vocabulary just for symbol names.
func symbolLiteralName(l *ast.Literal) string {
	if len(l.Elements) == 1 {
		if id, ok := l.Elements[0].(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}

func (l *Lowerer) lowerIdentRead(id *ast.Ident, ctx *Context) ir.Node {
	write := ctx.LookupVariable(id.Name)
	read := ir.NewLocalRead(ctx.ScopeID(), id.Name, offsetOf(id), write)
	l.file.Add(read)
	return read
}

func (l *Lowerer) lowerIvarRead(v *ast.Ivar, ctx *Context) ir.Node {
	narrowed, writes := ctx.LookupIvar(v.Name)
	if narrowed != nil {
		return narrowed
	}
	read := ir.NewIvarRead(ctx.ScopeID(), ctx.ClassName(), v.Name, offsetOf(v), writes)
	l.file.Add(read)
	return read
}

func (l *Lowerer) lowerCvarRead(v *ast.Cvar, ctx *Context) ir.Node {
	writes := l.cvarWritesFor(ctx.ClassName(), v.Name)
	deps := make([]*ir.CvarWrite, len(writes))
	for i, w := range writes {
		deps[i] = w
	}
	read := ir.NewCvarRead(ctx.ScopeID(), ctx.ClassName(), v.Name, offsetOf(v), deps)
	l.file.Add(read)
	return read
}

func (l *Lowerer) cvarWritesFor(class, name string) []*ir.CvarWrite {
	if l.cvars == nil {
		return nil
	}
	nodes := l.cvars.Writes(class, name)
	out := make([]*ir.CvarWrite, 0, len(nodes))
	for _, n := range nodes {
		if w, ok := n.(*ir.CvarWrite); ok {
			out = append(out, w)
		}
	}
	return out
}

func (l *Lowerer) lowerConstRead(c *ast.Const, ctx *Context) ir.Node {
	binding := ctx.LookupConstant(c.Name)
	node := ir.NewConstant(ctx.ScopeID(), c.Name, offsetOf(c), binding)
	l.file.Add(node)
	return node
}

func (l *Lowerer) lowerSelf(s *ast.SelfExpr, ctx *Context) ir.Node {
	node := ir.NewSelf(ctx.ScopeID(), ctx.ClassName(), offsetOf(s), ctx.isSingleton)
	l.file.Add(node)
	return node
}
