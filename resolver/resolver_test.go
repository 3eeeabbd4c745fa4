package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/lowering"
	"github.com/viant/typeguess/registry"
	"github.com/viant/typeguess/signature"
	"github.com/viant/typeguess/types"
)

func newTestResolver(methods *registry.MethodRegistry, provider signature.Provider) *Resolver {
	if methods == nil {
		methods = registry.NewMethodRegistry()
	}
	return New(registry.NewLocationIndex(), methods, provider, DefaultConfig())
}

func TestResolveLiteralTuple(t *testing.T) {
	// Elements resolve through real dependency nodes, as real lowering
	// produces them -- not a pre-filled Tuple shape lowering never builds.
	elem0 := ir.NewLiteral("main", 0, types.NewInstance("Integer"))
	elem1 := ir.NewLiteral("main", 1, types.NewInstance("String"))
	shape := types.NewTuple(types.Unknown, types.Unknown)
	lit := ir.NewLiteral("main", 2, shape, elem0, elem1)

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", lit)

	require.Equal(t, types.KindTuple, res.Type.Kind)
	require.Len(t, res.Type.Elems, 2)
	assert.Equal(t, "Integer", res.Type.Elems[0].Name)
	assert.Equal(t, "String", res.Type.Elems[1].Name)
	assert.Equal(t, ProvLiteral, res.Provenance)
}

// TestResolveRealArrayLiteralInfersElementTypes lowers an actual
// ast.LitArray (`nums = [1, 2, 3]`) rather than hand-building a Tuple
// shape, and asserts the resolver recovers every element's real type from
// the literal's dependency nodes.
func TestResolveRealArrayLiteralInfersElementTypes(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "nums"}, Value: &ast.Literal{Kind: ast.LitArray, Elements: []ast.Node{
			&ast.Literal{Kind: ast.LitInt},
			&ast.Literal{Kind: ast.LitInt},
			&ast.Literal{Kind: ast.LitInt},
		}}},
		&ast.Ident{Name: "nums"},
	}}

	methods := registry.NewMethodRegistry()
	l := lowering.New("test.rb", methods, registry.NewVarRegistry(), registry.NewVarRegistry(), nil)
	file := l.LowerProgram(prog)

	nodes := file.Nodes()
	require.NotEmpty(t, nodes)
	read := nodes[len(nodes)-1]

	r := newTestResolver(methods, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", read)

	require.Equal(t, types.KindTuple, res.Type.Kind)
	require.Len(t, res.Type.Elems, 3)
	for _, e := range res.Type.Elems {
		assert.Equal(t, types.KindInstance, e.Kind)
		assert.Equal(t, "Integer", e.Name)
	}
}

// TestResolveRealHashLiteralInfersFieldTypes lowers an actual ast.LitHash
// (`{a: 1}`) and asserts the resolver recovers the field's real value type.
func TestResolveRealHashLiteralInfersFieldTypes(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "h"}, Value: &ast.Literal{Kind: ast.LitHash, Pairs: []ast.HashPair{
			{
				Key:   &ast.Literal{Kind: ast.LitSymbol, Elements: []ast.Node{&ast.Ident{Name: "a"}}},
				Value: &ast.Literal{Kind: ast.LitInt},
			},
		}}},
		&ast.Ident{Name: "h"},
	}}

	methods := registry.NewMethodRegistry()
	l := lowering.New("test.rb", methods, registry.NewVarRegistry(), registry.NewVarRegistry(), nil)
	file := l.LowerProgram(prog)

	nodes := file.Nodes()
	require.NotEmpty(t, nodes)
	read := nodes[len(nodes)-1]

	r := newTestResolver(methods, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", read)

	require.Equal(t, types.KindHashShape, res.Type.Kind)
	require.Len(t, res.Type.Fields, 1)
	assert.Equal(t, "a", res.Type.Fields[0].Name)
	assert.Equal(t, "Integer", res.Type.Fields[0].Type.Name)
}

// TestResolveHashShapeWidensOnNonSymbolMutation lowers
//
//	h = { a: 1 }
//	h["k"] = 2
//	h
//
// (spec §8 scenario 2) end to end and asserts the post-mutation hover type
// is the widened nominal Hash(Union(String, Symbol), Integer), not the
// `[]=` call's own declared return type.
func TestResolveHashShapeWidensOnNonSymbolMutation(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "h"}, Value: &ast.Literal{Kind: ast.LitHash, Pairs: []ast.HashPair{
			{
				Key:   &ast.Literal{Kind: ast.LitSymbol, Elements: []ast.Node{&ast.Ident{Name: "a"}}},
				Value: &ast.Literal{Kind: ast.LitInt},
			},
		}}},
		&ast.IndexAssign{
			Receiver: &ast.Ident{Name: "h"},
			Key:      &ast.Literal{Kind: ast.LitString},
			Value:    &ast.Literal{Kind: ast.LitInt},
		},
		&ast.Ident{Name: "h"},
	}}

	methods := registry.NewMethodRegistry()
	l := lowering.New("test.rb", methods, registry.NewVarRegistry(), registry.NewVarRegistry(), nil)
	file := l.LowerProgram(prog)

	nodes := file.Nodes()
	require.NotEmpty(t, nodes)
	read := nodes[len(nodes)-1]

	r := newTestResolver(methods, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", read)

	require.Equal(t, types.KindHash, res.Type.Kind)
	require.Equal(t, types.KindUnion, res.Type.Key.Kind)
	require.Len(t, res.Type.Key.Types, 2)
	keyNames := []string{res.Type.Key.Types[0].Name, res.Type.Key.Types[1].Name}
	assert.Contains(t, keyNames, "String")
	assert.Contains(t, keyNames, "Symbol")
	assert.Equal(t, "Integer", res.Type.Value.Name)
}

// TestResolveTupleExtendsOnPush lowers `a = [1]; a << "x"; a` and asserts
// the post-push hover type is the grown Tuple(Integer, String): a
// same-scope `<<` extends the tuple one element at a time, only widening
// all the way to Array when the mutation crosses a block boundary.
func TestResolveTupleExtendsOnPush(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "a"}, Value: &ast.Literal{Kind: ast.LitArray, Elements: []ast.Node{
			&ast.Literal{Kind: ast.LitInt},
		}}},
		&ast.IndexAssign{
			Receiver: &ast.Ident{Name: "a"},
			Op:       "<<",
			Value:    &ast.Literal{Kind: ast.LitString},
		},
		&ast.Ident{Name: "a"},
	}}

	methods := registry.NewMethodRegistry()
	l := lowering.New("test.rb", methods, registry.NewVarRegistry(), registry.NewVarRegistry(), nil)
	file := l.LowerProgram(prog)

	nodes := file.Nodes()
	require.NotEmpty(t, nodes)
	read := nodes[len(nodes)-1]

	r := newTestResolver(methods, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", read)

	require.Equal(t, types.KindTuple, res.Type.Kind)
	require.Len(t, res.Type.Elems, 2)
	assert.Equal(t, "Integer", res.Type.Elems[0].Name)
	assert.Equal(t, "String", res.Type.Elems[1].Name)
}

func TestResolveMergeWidensHashShapes(t *testing.T) {
	// Field values resolve through real dependency nodes, as lowering builds
	// a symbol-keyed hash literal: an Unknown-leaf shape plus FieldNames.
	idVal := ir.NewLiteral("main", 0, types.NewInstance("Integer"))
	nameVal := ir.NewLiteral("main", 1, types.NewInstance("String"))
	shape := types.NewHashShape(types.HashField{Name: "id", Type: types.Unknown})
	branch1 := ir.NewHashShapeLiteral("main", 2, shape, []string{"id"}, idVal)
	branch2 := ir.NewHashShapeLiteral("main", 3, shape, []string{"id"}, nameVal)
	merge := ir.NewMerge("main", 4, branch1, branch2)

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", merge)

	assert.Equal(t, types.KindUnion, res.Type.Kind)
	assert.Len(t, res.Type.Types, 2)
}

func TestResolveConditionalMerge(t *testing.T) {
	branch1 := ir.NewLiteral("main", 0, types.NewInstance("Integer"))
	branch2 := ir.NewLiteral("main", 1, types.NewInstance("String"))
	merge := ir.NewMerge("main", 2, branch1, branch2)
	write := ir.NewLocalWrite("main", "x", 3, merge)
	read := ir.NewLocalRead("main", "x", 4, write)

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", read)

	assert.Equal(t, types.KindUnion, res.Type.Kind)
	assert.Len(t, res.Type.Types, 2)
}

func TestResolveMethodCallSetHeuristic(t *testing.T) {
	methods := registry.NewMethodRegistry()
	methods.Register("Foo", ir.NewDef("Foo", "bar", "Foo", 0, nil, nil, nil, false, false))
	methods.Register("Foo", ir.NewDef("Foo", "baz", "Foo", 1, nil, nil, nil, false, false))

	read := ir.NewLocalRead("main", "x", 0, nil)
	read.CalledMethods.Add("bar")
	read.CalledMethods.Add("baz")

	r := newTestResolver(methods, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", read)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Foo", res.Type.Name)
	assert.Equal(t, ProvDuckTyping, res.Provenance)
}

func TestResolveMethodCallSetHeuristicKeepsMostGeneralAncestor(t *testing.T) {
	methods := registry.NewMethodRegistry()
	methods.Register("Animal", ir.NewDef("Animal", "speak", "Animal", 0, nil, nil, nil, false, false))
	methods.Register("Dog", ir.NewDef("Dog", "speak", "Dog", 1, nil, nil, nil, false, false))

	provider := signature.NewStaticProvider()
	provider.DefineAncestors("Dog", "Dog", "Animal", "Object")
	provider.DefineAncestors("Animal", "Animal", "Object")

	read := ir.NewLocalRead("main", "x", 0, nil)
	read.CalledMethods.Add("speak")

	r := newTestResolver(methods, provider)
	res := r.Resolve(context.Background(), "test.rb", read)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Animal", res.Type.Name)
}

func TestResolveGuardNarrowsNilFromUnion(t *testing.T) {
	union := types.NewUnion(types.NewInstance("NilClass"), types.NewInstance("Integer"))
	write := ir.NewLocalWrite("main", "x", 0, ir.NewLiteral("main", 0, union))
	read := ir.NewLocalRead("main", "x", 1, write)
	narrow := ir.NewNarrow("main", 2, read, ir.NarrowTruthy)

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", narrow)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Integer", res.Type.Name)
}

func TestResolveBlockParamSubstitution(t *testing.T) {
	provider := signature.NewStaticProvider()
	provider.Define("Array", "each", false, signature.Overload{
		Block: &types.MethodSignature{
			Params: []types.Param{{Name: "x", Kind: types.ParamRequired, Type: types.NewTypeVar("Elem")}},
		},
		Return: types.Self,
	})

	recv := ir.NewLiteral("main", 0, types.NewArray(types.NewInstance("Integer")))
	call := ir.NewCall("main", "each", 1, recv, nil, nil, true, false)
	slot := ir.NewBlockParamSlot("main", 0, 2, call)

	r := newTestResolver(nil, provider)
	res := r.Resolve(context.Background(), "test.rb", slot)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Integer", res.Type.Name)
	assert.Equal(t, ProvDeclaredSignature, res.Provenance)
}

func TestResolveCallDeclaredSignature(t *testing.T) {
	provider := signature.NewStaticProvider()
	provider.Define("Integer", "+", false, signature.Overload{
		Params: []types.Param{{Name: "other", Kind: types.ParamRequired, Type: types.NewInstance("Integer")}},
		Return: types.NewInstance("Integer"),
	})

	recv := ir.NewLiteral("main", 0, types.NewInstance("Integer"))
	arg := ir.NewLiteral("main", 1, types.NewInstance("Integer"))
	call := ir.NewCall("main", "+", 2, recv, []ir.Node{arg}, nil, false, false)

	r := newTestResolver(nil, provider)
	res := r.Resolve(context.Background(), "test.rb", call)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Integer", res.Type.Name)
	assert.Equal(t, ProvDeclaredSignature, res.Provenance)
}

func TestResolveCallUserDefinedMethodOnSelf(t *testing.T) {
	methods := registry.NewMethodRegistry()
	ret := ir.NewLiteral("Widget#size", 0, types.NewInstance("Integer"))
	def := ir.NewDef("Widget", "size", "Widget", 1, nil, ret, nil, false, false)
	methods.Register("Widget", def)

	self := ir.NewSelf("Widget#size", "Widget", 0, false)
	call := ir.NewCall("Widget#size", "size", 1, self, nil, nil, false, true)

	r := newTestResolver(methods, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", call)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Integer", res.Type.Name)
	assert.Equal(t, ProvInferredCall, res.Provenance)
}

func TestResolveCallUnknownWhenNothingMatches(t *testing.T) {
	call := ir.NewCall("main", "mystery", 0, nil, nil, nil, false, false)

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", call)

	assert.Equal(t, types.KindUnknown, res.Type.Kind)
	assert.Equal(t, ProvUnknown, res.Provenance)
}

func TestResolveCyclicIvarDoesNotHang(t *testing.T) {
	write := ir.NewIvarWrite("main", "C", "v", 0, nil)
	read := ir.NewIvarRead("main", "C", "v", 1, []*ir.IvarWrite{write})
	write.Value = read

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", write)

	assert.Equal(t, types.KindUnknown, res.Type.Kind)
}

func TestResolveConstantFollowsAliasChain(t *testing.T) {
	root := ir.NewLiteral("main", 0, types.NewInstance("Integer"))
	c1 := ir.NewConstant("main", "A", 1, root)
	c2 := ir.NewConstant("main", "B", 2, c1)

	r := newTestResolver(nil, signature.NewStaticProvider())
	res := r.Resolve(context.Background(), "test.rb", c2)

	assert.Equal(t, types.KindInstance, res.Type.Kind)
	assert.Equal(t, "Integer", res.Type.Name)
}
