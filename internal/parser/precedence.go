package parser

import "github.com/hassan/script/internal/lexer"

// precedence ranks binding power for Pratt-style expression parsing,
// lowest to highest.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precRange
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precComparison
	precShift
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

var tokenPrecedence = map[lexer.TokenType]precedence{
	lexer.TokenAssign:    precAssignment,
	lexer.TokenRange:     precRange,
	lexer.TokenOrOr:      precLogicalOr,
	lexer.TokenAndAnd:    precLogicalAnd,
	lexer.TokenPipe:      precBitOr,
	lexer.TokenCaret:     precBitXor,
	lexer.TokenAmp:       precBitAnd,
	lexer.TokenRef:       precBitAnd,
	lexer.TokenEq:        precEquality,
	lexer.TokenNe:        precEquality,
	lexer.TokenLt:        precComparison,
	lexer.TokenGt:        precComparison,
	lexer.TokenLe:        precComparison,
	lexer.TokenGe:        precComparison,
	lexer.TokenShl:       precShift,
	lexer.TokenShr:       precShift,
	lexer.TokenPlus:      precTerm,
	lexer.TokenMinus:     precTerm,
	lexer.TokenStar:      precFactor,
	lexer.TokenSlash:     precFactor,
	lexer.TokenPercent:   precFactor,
	lexer.TokenLeftParen: precCall,
	lexer.TokenDot:       precCall,
	lexer.TokenColonColon: precCall,
	lexer.TokenLeftBracket: precCall,
	lexer.TokenPlusPlus:    precCall,
	lexer.TokenMinusMinus:  precCall,
}

func precedenceOf(tt lexer.TokenType) precedence {
	if p, ok := tokenPrecedence[tt]; ok {
		return p
	}
	return precNone
}
