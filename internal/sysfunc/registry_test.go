package sysfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/script/internal/parser/ast"
	"github.com/hassan/script/internal/value"
)

// fakeHost is a minimal Host for exercising callbacks that only need
// to evaluate literal nodes.
type fakeHost struct {
	file        string
	line, col   int
	names       []string
	appended    map[string]*ast.Node
}

func (f *fakeHost) Eval(n *ast.Node) (*value.Value, error) { return value.FromLiteral(n) }
func (f *fakeHost) Position() (string, int, int)           { return f.file, f.line, f.col }
func (f *fakeHost) FuncNames() []string                    { return f.names }
func (f *fakeHost) AppendSyntax(name string, body *ast.Node) {
	if f.appended == nil {
		f.appended = map[string]*ast.Node{}
	}
	f.appended[name] = body
}

func literalNode(kind ast.LiteralKind, raw string) *ast.Node {
	return &ast.Node{Kind: ast.KindLiteral, LiteralKind: kind, Raw: raw}
}

func TestReflectionPrimitives(t *testing.T) {
	r := New()
	h := &fakeHost{file: "main.script", line: 4, col: 2, names: []string{"add", "main"}}

	v, err := r.Call(h, "file", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "main.script", v.S)

	v, err = r.Call(h, "line", nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, v.U)

	v, err = r.Call(h, "func_lists", nil, nil)
	require.NoError(t, err)
	assert.Len(t, v.Arr, 2)
}

func TestStrCoercion(t *testing.T) {
	r := New()
	h := &fakeHost{}
	v, err := r.Call(h, "str", []*ast.Node{literalNode(ast.LiteralInt, "5")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "5", v.S)
}

func TestAsCoercion(t *testing.T) {
	r := New()
	h := &fakeHost{}
	v, err := r.Call(h, "as", []*ast.Node{
		literalNode(ast.LiteralInt, "5"),
		literalNode(ast.LiteralString, "f64"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, value.KindF64, v.Kind)
	assert.Equal(t, 5.0, v.F)
}

func TestSinOfZero(t *testing.T) {
	r := New()
	h := &fakeHost{}
	v, err := r.Call(h, "sin", []*ast.Node{literalNode(ast.LiteralInt, "0")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.F)
}

func TestUnknownSystemFunctionErrors(t *testing.T) {
	r := New()
	_, err := r.Call(&fakeHost{}, "does_not_exist", nil, nil)
	assert.Error(t, err)
}

func TestSyntaxAppendsToHost(t *testing.T) {
	r := New()
	h := &fakeHost{}
	nameNode := &ast.Node{Kind: ast.KindVariable, Name: "repeat"}
	bodyNode := &ast.Node{Kind: ast.KindBlock}
	_, err := r.Call(h, "syntax", []*ast.Node{nameNode, bodyNode}, nil)
	require.NoError(t, err)
	assert.Same(t, bodyNode, h.appended["repeat"])
}
