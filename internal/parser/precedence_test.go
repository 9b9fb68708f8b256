package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/hassan/script/internal/lexer"
	"github.com/hassan/script/internal/parser/ast"
)

func parseExprString(t *testing.T, src string) *ast.Node {
	t.Helper()
	l := lexer.New(src+";", "t.scr")
	p := New(l)
	n := p.parseExprStatement()
	assert.Empty(t, p.errors)
	return n
}

func TestPrecedenceArithmeticBeforeComparison(t *testing.T) {
	n := parseExprString(t, "1 + 2 == 3")
	assert.Equal(t, ast.KindCompareOp, n.Kind)
	assert.Equal(t, ast.KindBinaryOp, n.Left.Kind)
}

func TestPrecedenceMulBeforeAdd(t *testing.T) {
	n := parseExprString(t, "1 + 2 * 3")
	assert.Equal(t, ast.KindBinaryOp, n.Kind)
	assert.Equal(t, lexer.TokenPlus, n.Operator)
	assert.Equal(t, ast.KindBinaryOp, n.Right.Kind)
	assert.Equal(t, lexer.TokenStar, n.Right.Operator)
}

func TestPrecedenceLogicalAndBeforeOr(t *testing.T) {
	n := parseExprString(t, "a || b && c")
	assert.Equal(t, lexer.TokenOrOr, n.Operator)
	assert.Equal(t, lexer.TokenAndAnd, n.Right.Operator)
}

func TestRangeParsesAsRangeOp(t *testing.T) {
	n := parseExprString(t, "0..3")
	assert.Equal(t, ast.KindRangeOp, n.Kind)
}

func TestCallAndMemberChain(t *testing.T) {
	n := parseExprString(t, "foo.bar()")
	assert.Equal(t, ast.KindMemberAccess, n.Kind)
	assert.Equal(t, "bar", n.Name)
}

func TestScopeResolutionChain(t *testing.T) {
	n := parseExprString(t, "P::mag()")
	assert.Equal(t, ast.KindScopeResolution, n.Kind)
	assert.Equal(t, []string{"P", "mag"}, n.Path)
}
