package rbparser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/typeguess/ast"
)

func TestParseAssignmentAndRead(t *testing.T) {
	prog, err := Parse(context.Background(), []byte("x = 1\nx\n"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	assign, ok := prog.Body[0].(*ast.Assign)
	require.True(t, ok)
	target, ok := assign.Target.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "x", target.Name)

	lit, ok := assign.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, ast.LitInt, lit.Kind)

	read, ok := prog.Body[1].(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "x", read.Name)
}

func TestParseMethodDefWithParamsAndReturn(t *testing.T) {
	prog, err := Parse(context.Background(), []byte("def add(a, b)\n  return a + b\nend\n"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	def, ok := prog.Body[0].(*ast.MethodDef)
	require.True(t, ok)
	assert.Equal(t, "add", def.Name)
	require.Len(t, def.Params, 2)
	assert.Equal(t, "a", def.Params[0].Name)
	assert.Equal(t, "b", def.Params[1].Name)
}

func TestParseCallWithReceiverAndArgs(t *testing.T) {
	prog, err := Parse(context.Background(), []byte("widget.resize(10, 20)\n"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	call, ok := prog.Body[0].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "resize", call.Method)
	require.NotNil(t, call.Receiver)
	recv, ok := call.Receiver.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "widget", recv.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseIfUnless(t *testing.T) {
	prog, err := Parse(context.Background(), []byte("if ready\n  x = 1\nelse\n  x = 2\nend\n"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	ifNode, ok := prog.Body[0].(*ast.If)
	require.True(t, ok)
	assert.False(t, ifNode.Unless)
	assert.NotEmpty(t, ifNode.Then)
	assert.NotEmpty(t, ifNode.Else)
}

func TestParseNormalizesUnicodeIdentifierToNFC(t *testing.T) {
	// precomposed e-acute (U+00E9) and bare e plus a combining acute
	// accent (U+0065 U+0301) render identically in an editor but are
	// distinct byte sequences; both must parse to the same identifier name.
	precomposed := "caf\u00e9 = 1\n"
	decomposed := "cafe\u0301 = 1\n"

	want, err := Parse(context.Background(), []byte(precomposed))
	require.NoError(t, err)
	got, err := Parse(context.Background(), []byte(decomposed))
	require.NoError(t, err)

	wantName := want.Body[0].(*ast.Assign).Target.(*ast.Ident).Name
	gotName := got.Body[0].(*ast.Assign).Target.(*ast.Ident).Name
	assert.Equal(t, wantName, gotName)
	assert.Equal(t, "caf\u00e9", gotName)
}

func TestParseInstanceAndClassVariable(t *testing.T) {
	prog, err := Parse(context.Background(), []byte("@size = 1\n@@count = 0\n"))
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	iv, ok := prog.Body[0].(*ast.Assign)
	require.True(t, ok)
	ivar, ok := iv.Target.(*ast.Ivar)
	require.True(t, ok)
	assert.Equal(t, "size", ivar.Name)

	cv, ok := prog.Body[1].(*ast.Assign)
	require.True(t, ok)
	cvar, ok := cv.Target.(*ast.Cvar)
	require.True(t, ok)
	assert.Equal(t, "count", cvar.Name)
}
