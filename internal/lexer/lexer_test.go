package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(source string) []Token {
	l := New(source, "test.scr")
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == TokenEOF || tok.Type == TokenInvalid {
			break
		}
	}
	return toks
}

func TestLexerKeywordsAndAliases(t *testing.T) {
	toks := collect("let l var v fn func function mod module pub public")
	for _, tok := range toks[:4] {
		assert.Equal(t, TokenLet, tok.Type)
	}
	for _, tok := range toks[4:7] {
		assert.Equal(t, TokenFunc, tok.Type)
	}
	for _, tok := range toks[7:9] {
		assert.Equal(t, TokenModule, tok.Type)
	}
	for _, tok := range toks[9:11] {
		assert.Equal(t, TokenPublic, tok.Type)
	}
}

func TestLexerOperators(t *testing.T) {
	toks := collect("+ - * / % == != <= >= << >> .. :: && || &")
	want := []TokenType{
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent,
		TokenEq, TokenNe, TokenLe, TokenGe, TokenShl, TokenShr,
		TokenRange, TokenColonColon, TokenAndAnd, TokenOrOr, TokenRef,
		TokenEOF,
	}
	if assert.Len(t, toks, len(want)) {
		for i, tt := range want {
			assert.Equalf(t, tt, toks[i].Type, "token %d", i)
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := collect(`"hello\nworld"`)
	assert.Equal(t, TokenString, toks[0].Type)
	assert.Equal(t, "hello\nworld", toks[0].Lexeme)
}

func TestLexerComments(t *testing.T) {
	toks := collect("// line\n/* block */")
	assert.Equal(t, TokenComment, toks[0].Type)
	assert.Equal(t, " line", toks[0].Lexeme)
	assert.Equal(t, TokenMultiComment, toks[1].Type)
	assert.Equal(t, " block ", toks[1].Lexeme)
}

func TestLexerNumberAndPosition(t *testing.T) {
	toks := collect("100\n3.5")
	assert.Equal(t, "100", toks[0].Lexeme)
	assert.Equal(t, 1, toks[0].Position.Line)
	assert.Equal(t, "3.5", toks[1].Lexeme)
	assert.Equal(t, 2, toks[1].Position.Line)
}

func TestReservedWordsIncludeAliasGroups(t *testing.T) {
	assert.True(t, ReservedWords["let"])
	assert.True(t, ReservedWords["v"])
	assert.True(t, ReservedWords["function"])
	assert.True(t, ReservedWords["main"])
	assert.False(t, ReservedWords["customName"])
}
