package lowering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/ir"
	"github.com/viant/typeguess/registry"
)

func newLowerer() *Lowerer {
	return New("test.rb", registry.NewMethodRegistry(), registry.NewVarRegistry(), registry.NewVarRegistry(), nil)
}

func lastLocalWrite(nodes []ir.Node) *ir.LocalWrite {
	for i := len(nodes) - 1; i >= 0; i-- {
		if v, ok := nodes[i].(*ir.LocalWrite); ok {
			return v
		}
	}
	return nil
}

func lastLocalRead(nodes []ir.Node) *ir.LocalRead {
	for i := len(nodes) - 1; i >= 0; i-- {
		if v, ok := nodes[i].(*ir.LocalRead); ok {
			return v
		}
	}
	return nil
}

func TestLowerAssignAndRead(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.Ident{Name: "x"},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	write := lastLocalWrite(file.Nodes())
	read := lastLocalRead(file.Nodes())
	assert.Equal(t, "x", write.Name)
	assert.Equal(t, write, read.Write)
	assert.Same(t, write.CalledMethods, read.CalledMethods)
}

func TestLowerCallTracksCalledMethods(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.Call{Method: "to_s", Receiver: &ast.Ident{Name: "x"}},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	write := lastLocalWrite(file.Nodes())
	assert.Contains(t, write.CalledMethods.Methods, "to_s")
}

func TestLowerIfMergesDivergentBranches(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.If{
			Cond: &ast.Ident{Name: "cond"},
			Then: []ast.Node{&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}}},
			Else: []ast.Node{&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitString}}},
		},
		&ast.Ident{Name: "x"},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	read := lastLocalRead(file.Nodes())
	assert.NotNil(t, read.Write)
	merge, ok := read.Write.Value.(*ir.Merge)
	assert.True(t, ok, "expected x's post-if binding to wrap a Merge")
	assert.Len(t, merge.Branches, 2)
}

func TestLowerIfKeepsSingleBindingWhenBranchesAgree(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.If{
			Cond: &ast.Ident{Name: "cond"},
			Then: []ast.Node{},
			Else: []ast.Node{},
		},
		&ast.Ident{Name: "x"},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	read := lastLocalRead(file.Nodes())
	_, isMerge := read.Write.Value.(*ir.Merge)
	assert.False(t, isMerge, "untouched variable should not be wrapped in a Merge")
}

func TestLowerGuardReturnNarrowsVariable(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.GuardReturn{Cond: &ast.Ident{Name: "x"}, Unless: true},
		&ast.Ident{Name: "x"},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	read := lastLocalRead(file.Nodes())
	narrow, ok := read.Write.Value.(*ir.Narrow)
	assert.True(t, ok, "x should be rebound to a Narrow after the guard")
	assert.Equal(t, ir.NarrowTruthy, narrow.Kind)
}

func TestLowerMethodDefAssemblesMergedReturn(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.ClassModule{Name: "Widget", Members: []ast.Node{
			&ast.MethodDef{
				Name: "size",
				Body: []ast.Node{
					&ast.If{
						Cond: &ast.Ident{Name: "big"},
						Then: []ast.Node{&ast.Return{Value: &ast.Literal{Kind: ast.LitInt}}},
						Else: nil,
					},
					&ast.Literal{Kind: ast.LitString},
				},
			},
		}},
	}}
	methods := registry.NewMethodRegistry()
	l := New("test.rb", methods, registry.NewVarRegistry(), registry.NewVarRegistry(), nil)
	l.LowerProgram(prog)

	def := methods.Lookup("Widget", "size")
	assert.NotNil(t, def)
	merge, ok := def.ReturnNode.(*ir.Merge)
	assert.True(t, ok, "explicit return plus implicit last expression should merge")
	assert.Len(t, merge.Branches, 2)
}

func TestLowerIndexAssignRebindsReceiver(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "arr"}, Value: &ast.Literal{Kind: ast.LitArray}},
		&ast.IndexAssign{Receiver: &ast.Ident{Name: "arr"}, Op: "<<", Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.Ident{Name: "arr"},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	read := lastLocalRead(file.Nodes())
	call, ok := read.Write.Value.(*ir.Call)
	assert.True(t, ok, "arr should be rebound over the `<<` call")
	assert.Equal(t, "<<", call.Method)
}

func TestLowerIvarWriteVisibleAcrossMethods(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.ClassModule{Name: "Counter", Members: []ast.Node{
			&ast.MethodDef{Name: "initialize", Body: []ast.Node{
				&ast.Assign{Target: &ast.Ivar{Name: "count"}, Value: &ast.Literal{Kind: ast.LitInt}},
			}},
			&ast.MethodDef{Name: "count", Body: []ast.Node{
				&ast.Ivar{Name: "count"},
			}},
		}},
	}}
	ivars := registry.NewVarRegistry()
	l := New("test.rb", registry.NewMethodRegistry(), ivars, registry.NewVarRegistry(), nil)
	l.LowerProgram(prog)

	writes := ivars.Writes("Counter", "count")
	assert.Len(t, writes, 1)
}

func TestLowerRescueDefaultsToRootException(t *testing.T) {
	prog := &ast.Program{Body: []ast.Node{
		&ast.Rescue{
			Body: []ast.Node{&ast.Call{Method: "risky"}},
			Clauses: []ast.RescueClause{
				{Var: "e", Body: []ast.Node{&ast.Ident{Name: "e"}}},
			},
		},
	}}
	l := newLowerer()
	file := l.LowerProgram(prog)

	read := lastLocalRead(file.Nodes())
	assert.Equal(t, "e", read.Name)
	lit, ok := read.Write.Value.(*ir.Literal)
	assert.True(t, ok)
	assert.Equal(t, "StandardError", lit.Shape.Name)
}
