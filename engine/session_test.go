package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/typeguess/ast"
	"github.com/viant/typeguess/signature"
)

func TestLowerFileThenHoverReportsGuessedType(t *testing.T) {
	s := New(nil, nil, DefaultConfig())

	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.Ident{Name: "x"},
	}}
	require.NoError(t, s.LowerFile("widget.rb", []byte("x = 1\nx\n"), prog))

	res, err := s.Hover(context.Background(), "widget.rb", 1, 1)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Contains(t, res.Markdown, "Guessed Type: Integer")
}

func TestHoverMissReturnsEmptyNotError(t *testing.T) {
	s := New(nil, nil, DefaultConfig())
	res, err := s.Hover(context.Background(), "unknown.rb", 1, 1)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.Markdown)
}

func TestHoverDebugIncludesReason(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	s := New(nil, nil, cfg)

	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.Ident{Name: "x"},
	}}
	require.NoError(t, s.LowerFile("widget.rb", []byte("x = 1\nx\n"), prog))

	res, err := s.Hover(context.Background(), "widget.rb", 1, 1)
	require.NoError(t, err)
	assert.True(t, strings.Contains(res.Markdown, "Reason:"))
}

func TestCoverageReflectsLoweredFile(t *testing.T) {
	s := New(nil, nil, DefaultConfig())
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
	}}
	require.NoError(t, s.LowerFile("widget.rb", []byte("x = 1\n"), prog))

	report := s.Coverage(context.Background())
	assert.Greater(t, len(report.ByKind), 0)
}

func TestLowerFileSkipsRelowerOnUnchangedContent(t *testing.T) {
	s := New(nil, nil, DefaultConfig())
	src := []byte("x = 1\nx\n")
	prog := &ast.Program{Body: []ast.Node{
		&ast.Assign{Target: &ast.Ident{Name: "x"}, Value: &ast.Literal{Kind: ast.LitInt}},
		&ast.Ident{Name: "x"},
	}}

	require.NoError(t, s.LowerFile("widget.rb", src, prog))
	first, ok := s.ContentHash("widget.rb")
	require.True(t, ok)

	require.NoError(t, s.LowerFile("widget.rb", src, prog))
	second, ok := s.ContentHash("widget.rb")
	require.True(t, ok)
	assert.Equal(t, first, second)

	require.NoError(t, s.LowerFile("widget.rb", []byte("x = 2\nx\n"), prog))
	third, ok := s.ContentHash("widget.rb")
	require.True(t, ok)
	assert.NotEqual(t, first, third)
}

func TestNewSeedsProviderBeforeFirstUse(t *testing.T) {
	seeded := false
	s := New(func(p *signature.StaticProvider) {
		p.Define("Integer", "+", false, signature.Overload{})
		seeded = true
	}, nil, DefaultConfig())
	require.True(t, seeded)
	_ = s
}
