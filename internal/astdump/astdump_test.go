package astdump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/script/internal/lexer"
	"github.com/hassan/script/internal/parser"
)

func TestBuildAndTextRendersDecl(t *testing.T) {
	l := lexer.New("let a = 1 + 2;", "t.txt")
	p := parser.New(l)
	program, errs := p.ParseFile("t.txt")
	require.Empty(t, errs)

	dump := Build("t.txt", program)
	require.NotEmpty(t, dump.Entries)

	text := dump.Text()
	assert.Contains(t, text, "var_decl")
	assert.Contains(t, text, "binop")
	assert.True(t, strings.Contains(text, `"a"`))
}

func TestJSONRoundTrips(t *testing.T) {
	l := lexer.New("let a = 1;", "t.txt")
	p := parser.New(l)
	program, errs := p.ParseFile("t.txt")
	require.Empty(t, errs)

	data, err := Build("t.txt", program).JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file": "t.txt"`)
}
