package ir

import "github.com/viant/typeguess/types"

// Literal is a literal value node; Shape is the precomputed tuple/hash-shape
// type for array/hash literals (empty array -> Tuple(), empty hash ->
// HashShape({})), or the scalar instance type otherwise, with Unknown
// leaves wherever a sub-expression's real type isn't known until resolve
// time. The resolver rebuilds the precise element/field/bound types from
// Deps() (and FieldNames, for a symbol-keyed hash) rather than trusting
// Shape's placeholder leaves verbatim.
type Literal struct {
	base
	Shape *types.Type
	// FieldNames parallels Deps() one-for-one when Shape.Kind is
	// types.KindHashShape: FieldNames[i] names the field whose value type
	// Deps()[i] resolves to. Left nil for every other literal kind, where
	// Deps() lines up positionally with Shape.Elems (Tuple) or a [lo, hi]
	// pair (Range) instead.
	FieldNames []string
	// SymbolName is the literal's name when Shape.Kind is types.KindInstance
	// with Name "Symbol" and the symbol's text was recoverable at lowering
	// time; empty otherwise. Used by container-mutation tracking to tell a
	// `h[:key] = v` symbol-keyed write (updates one HashShape field) apart
	// from `h[k] = v` with a dynamic key (widens to a nominal Hash).
	SymbolName string
}

func NewLiteral(scope string, offset int, shape *types.Type, deps ...Node) *Literal {
	l := &Literal{Shape: shape}
	l.base = newBase(scope, "Literal", shape.Kind.String(), offset, deps...)
	return l
}

// NewHashShapeLiteral is NewLiteral for a symbol-keyed hash literal, also
// recording the field name each positional dep in deps resolves the value
// of.
func NewHashShapeLiteral(scope string, offset int, shape *types.Type, fieldNames []string, deps ...Node) *Literal {
	l := NewLiteral(scope, offset, shape, deps...)
	l.FieldNames = fieldNames
	return l
}

// LocalWrite binds a local variable name to a value node.
type LocalWrite struct {
	base
	Name         string
	Value        Node
	CalledMethods *CallSet
}

func NewLocalWrite(scope, name string, offset int, value Node) *LocalWrite {
	w := &LocalWrite{Name: name, Value: value, CalledMethods: &CallSet{}}
	w.base = newBase(scope, "LocalWrite", name, offset, value)
	return w
}

// LocalRead reads a local variable; CalledMethods is the *same* CallSet
// instance as its Write's.
type LocalRead struct {
	base
	Name          string
	Write         *LocalWrite
	CalledMethods *CallSet
}

func NewLocalRead(scope, name string, offset int, write *LocalWrite) *LocalRead {
	r := &LocalRead{Name: name, Write: write}
	if write != nil {
		r.CalledMethods = write.CalledMethods
	} else {
		r.CalledMethods = &CallSet{}
	}
	r.base = newBase(scope, "LocalRead", name, offset, write)
	return r
}

// IvarWrite / IvarRead model `@name` access; Class is the lowering scope's
// enclosing class, since ivar writes are registered at class level.
type IvarWrite struct {
	base
	Class, Name string
	Value       Node
}

func NewIvarWrite(scope, class, name string, offset int, value Node) *IvarWrite {
	w := &IvarWrite{Class: class, Name: name, Value: value}
	w.base = newBase(scope, "IvarWrite", class+"."+name, offset, value)
	return w
}

type IvarRead struct {
	base
	Class, Name string
	Writes      []*IvarWrite // all writes visible at this read (class-wide)
}

func NewIvarRead(scope, class, name string, offset int, writes []*IvarWrite) *IvarRead {
	deps := make([]Node, len(writes))
	for i, w := range writes {
		deps[i] = w
	}
	r := &IvarRead{Class: class, Name: name, Writes: writes}
	r.base = newBase(scope, "IvarRead", class+"."+name, offset, deps...)
	return r
}

// CvarWrite / CvarRead model `@@name` access.
type CvarWrite struct {
	base
	Class, Name string
	Value       Node
}

func NewCvarWrite(scope, class, name string, offset int, value Node) *CvarWrite {
	w := &CvarWrite{Class: class, Name: name, Value: value}
	w.base = newBase(scope, "CvarWrite", class+"."+name, offset, value)
	return w
}

type CvarRead struct {
	base
	Class, Name string
	Writes      []*CvarWrite
}

func NewCvarRead(scope, class, name string, offset int, writes []*CvarWrite) *CvarRead {
	deps := make([]Node, len(writes))
	for i, w := range writes {
		deps[i] = w
	}
	r := &CvarRead{Class: class, Name: name, Writes: writes}
	r.base = newBase(scope, "CvarRead", class+"."+name, offset, deps...)
	return r
}

// Param is one formal parameter of a Def; Kind reuses types.ParamKind so a
// Param's inferred type and a declared-signature Param are directly
// comparable by the resolver.
type Param struct {
	base
	Name          string
	Kind          types.ParamKind
	Default       Node
	CalledMethods *CallSet
}

func NewParam(scope, name string, kind types.ParamKind, offset int, def Node) *Param {
	p := &Param{Name: name, Kind: kind, Default: def, CalledMethods: &CallSet{}}
	var deps []Node
	if def != nil {
		deps = []Node{def}
	}
	p.base = newBase(scope, "Param", name, offset, deps...)
	return p
}

// BlockParamSlot is the i-th parameter of a block attached to Call.
type BlockParamSlot struct {
	base
	Index int
	Call  *Call
}

func NewBlockParamSlot(scope string, index int, offset int, call *Call) *BlockParamSlot {
	s := &BlockParamSlot{Index: index, Call: call}
	s.base = newBase(scope, "BlockParamSlot", "", offset, call)
	return s
}

// Call models a method call, optionally with an implicit-self receiver and
// an attached block. InSelfContext records whether the call occurred with
// an implicit receiver inside a class body.
type Call struct {
	base
	Method        string
	Receiver      Node // nil for implicit self
	Args          []Node
	BlockBody     Node // the block body's resolved-value node, or nil
	HasBlock      bool
	InSelfContext bool
	// OuterMutation marks a `[]=`/`<<` call whose receiver is a local bound
	// outside the innermost block, reached by crossing at least one block
	// boundary. The resolver widens these more conservatively than a
	// same-scope mutation, since the block body may run zero or many times.
	OuterMutation bool
}

func NewCall(scope, method string, offset int, receiver Node, args []Node, blockBody Node, hasBlock, inSelf bool) *Call {
	c := &Call{Method: method, Receiver: receiver, Args: args, BlockBody: blockBody, HasBlock: hasBlock, InSelfContext: inSelf}
	deps := make([]Node, 0, len(args)+2)
	if receiver != nil {
		deps = append(deps, receiver)
	}
	deps = append(deps, args...)
	if blockBody != nil {
		deps = append(deps, blockBody)
	}
	c.base = newBase(scope, "Call", method, offset, deps...)
	return c
}

// Def is a method definition; ReturnNode is synthesized by lowering from
// the explicit-return collection plus the implicit last expression.
// Visibility mirrors ast.Visibility (public/private/protected); kept as a
// plain int here so ir doesn't need to import the ast package.
type Visibility int

const (
	VisPublic Visibility = iota
	VisPrivate
	VisProtected
)

type Def struct {
	base
	Name           string
	Class          string
	Params         []*Param
	ReturnNode     Node
	Body           []Node
	Singleton      bool
	ModuleFunction bool
	Visibility     Visibility
}

func NewDef(scope, name, class string, offset int, params []*Param, ret Node, body []Node, singleton, moduleFn bool) *Def {
	d := &Def{Name: name, Class: class, Params: params, ReturnNode: ret, Body: body, Singleton: singleton, ModuleFunction: moduleFn}
	deps := make([]Node, 0, len(params)+1)
	for _, p := range params {
		deps = append(deps, p)
	}
	if ret != nil {
		deps = append(deps, ret)
	}
	d.base = newBase(scope, "Def", name, offset, deps...)
	return d
}

// Return wraps a returned value expression.
type Return struct {
	base
	Value Node // nil for bare `return`
}

func NewReturn(scope string, offset int, value Node) *Return {
	r := &Return{Value: value}
	var deps []Node
	if value != nil {
		deps = []Node{value}
	}
	r.base = newBase(scope, "Return", "", offset, deps...)
	return r
}

// ClassModule is a class/module declaration; nested classes are ordinary
// members.
type ClassModule struct {
	base
	Name    string
	Members []Node
}

func NewClassModule(scope, name string, offset int, members []Node) *ClassModule {
	c := &ClassModule{Name: name, Members: members}
	c.base = newBase(scope, "ClassModule", name, offset, members...)
	return c
}

// Constant is a reference to a class/module-level constant; Binding is the
// write node that last assigned it (nil if unresolved in this file).
type Constant struct {
	base
	Name    string
	Binding Node
}

func NewConstant(scope, name string, offset int, binding Node) *Constant {
	c := &Constant{Name: name, Binding: binding}
	var deps []Node
	if binding != nil {
		deps = []Node{binding}
	}
	c.base = newBase(scope, "Constant", name, offset, deps...)
	return c
}

// Self resolves relative to the enclosing class context.
type Self struct {
	base
	Class       string
	InSingleton bool
}

func NewSelf(scope, class string, offset int, inSingleton bool) *Self {
	s := &Self{Class: class, InSingleton: inSingleton}
	s.base = newBase(scope, "Self", class, offset)
	return s
}

// Merge is a control-flow join point; branches never contain non-returning
// calls -- raise/fail/exit/abort branches are elided during lowering
// before a Merge is constructed.
type Merge struct {
	base
	Branches []Node
}

func NewMerge(scope string, offset int, branches ...Node) *Merge {
	m := &Merge{Branches: branches}
	m.base = newBase(scope, "Merge", "", offset, branches...)
	return m
}

// Or models `a || b`; the resolver narrows LHS to truthy when evaluating.
type Or struct {
	base
	LHS, RHS Node
}

func NewOr(scope string, offset int, lhs, rhs Node) *Or {
	o := &Or{LHS: lhs, RHS: rhs}
	o.base = newBase(scope, "Or", "", offset, lhs, rhs)
	return o
}

// And models `a && b`; the resolver treats it as a Merge of both sides.
type And struct {
	base
	LHS, RHS Node
}

func NewAnd(scope string, offset int, lhs, rhs Node) *And {
	a := &And{LHS: lhs, RHS: rhs}
	a.base = newBase(scope, "And", "", offset, lhs, rhs)
	return a
}

// NarrowKind selects which falsy/truthy components Narrow removes.
type NarrowKind int

const (
	NarrowTruthy NarrowKind = iota
	NarrowFalsy
)

// Narrow restricts source's type after a guard clause (`return unless V`)
// or an `Or` LHS evaluation.
type Narrow struct {
	base
	Source Node
	Kind   NarrowKind
}

func NewNarrow(scope string, offset int, source Node, kind NarrowKind) *Narrow {
	n := &Narrow{Source: source, Kind: kind}
	disc := "truthy"
	if kind == NarrowFalsy {
		disc = "falsy"
	}
	n.base = newBase(scope, "Narrow", disc, offset, source)
	return n
}
