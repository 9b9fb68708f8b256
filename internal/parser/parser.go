// Package parser implements a recursive-descent parser with Pratt-style
// expression parsing, producing the ast.Node chain the evaluator walks.
package parser

import (
	"fmt"
	"strings"

	"github.com/hassan/script/internal/lexer"
	"github.com/hassan/script/internal/parser/ast"
)

// Parser converts a token stream into an ast.Node statement chain.
type Parser struct {
	lex      *lexer.Lexer
	cur      lexer.Token
	prev     lexer.Token
	errors   []error
	filename string

	// braceDepth tracks nesting so declarations can pre-compute IsLocal,
	// per spec.md's "pre-computed flag carried on the declaration node".
	braceDepth int

	// noStructLiteral suppresses `IDENT { ... }` struct-instance parsing
	// while parsing an if/while/for condition, where `{` opens the body.
	noStructLiteral bool
}

// ParseError is a single parser diagnostic with source position.
type ParseError struct {
	Msg string
	Pos lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Pos.String(), e.Msg)
}

// New creates a Parser over l, priming the first token.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.prev = p.cur
	for {
		tok := p.lex.Next()
		if tok.Type == lexer.TokenInvalid {
			p.error(tok.Lexeme)
			continue
		}
		p.cur = tok
		return
	}
}

func (p *Parser) error(msg string) {
	p.errors = append(p.errors, &ParseError{Msg: msg, Pos: p.cur.Position})
}

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur.Type == tt }

func (p *Parser) match(tt lexer.TokenType) bool {
	if !p.check(tt) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, bool) {
	if p.check(tt) {
		t := p.cur
		p.advance()
		return t, true
	}
	p.error("expected " + what + ", got " + p.cur.Type.String())
	return p.cur, false
}

// synchronize skips tokens until a likely statement boundary, so one
// syntax error does not abort the whole file.
func (p *Parser) synchronize() {
	for !p.check(lexer.TokenEOF) {
		if p.prev.Type == lexer.TokenSemicolon {
			return
		}
		switch p.cur.Type {
		case lexer.TokenFunc, lexer.TokenLet, lexer.TokenConst, lexer.TokenStruct,
			lexer.TokenImpl, lexer.TokenIf, lexer.TokenWhile, lexer.TokenFor,
			lexer.TokenLoop, lexer.TokenReturn, lexer.TokenUse, lexer.TokenInclude:
			return
		}
		p.advance()
	}
}

func nodeAt(kind ast.Kind, tok lexer.Token) *ast.Node { return ast.New(kind, tok) }

// ParseFile parses an entire source file into a statement chain.
func (p *Parser) ParseFile(filename string) (*ast.Node, []error) {
	p.filename = filename
	var head, tail *ast.Node
	for !p.check(lexer.TokenEOF) {
		stmt := p.parseDeclOrStatement()
		if stmt == nil {
			continue
		}
		for cur := stmt; cur != nil; cur = cur.Next {
			if head == nil {
				head = cur
			} else {
				tail.Next = cur
			}
			tail = cur
			if cur.Next == nil {
				break
			}
		}
	}
	return head, p.errors
}

func (p *Parser) parseDeclOrStatement() (result *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
			result = nil
		}
	}()

	switch p.cur.Type {
	case lexer.TokenComment:
		return p.parseComment(ast.KindSingleComment)
	case lexer.TokenMultiComment:
		return p.parseComment(ast.KindMultiComment)
	case lexer.TokenLet, lexer.TokenConst:
		return p.parseVarDecl()
	case lexer.TokenFunc:
		return p.parseFuncDecl(false)
	case lexer.TokenCallback:
		p.advance()
		return p.parseFuncDecl(true)
	case lexer.TokenStruct:
		return p.parseStructDecl()
	case lexer.TokenImpl:
		return p.parseImplDecl()
	case lexer.TokenType_:
		return p.parseTypeAliasDecl()
	case lexer.TokenUse:
		return p.parseUseDecl()
	case lexer.TokenInclude:
		return p.parseIncludeDecl()
	case lexer.TokenPublic:
		p.advance()
		decl := p.parseDeclOrStatement()
		if decl != nil {
			decl.IsPublic = true
		}
		return decl
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseComment(kind ast.Kind) *ast.Node {
	tok := p.cur
	n := nodeAt(kind, tok)
	n.Raw = tok.Lexeme
	p.advance()
	return n
}

func (p *Parser) isLocal() bool { return p.braceDepth > 0 }

func (p *Parser) parseVarDecl() *ast.Node {
	tok := p.cur
	isConst := tok.Type == lexer.TokenConst
	kind := ast.KindVarDecl
	if isConst {
		kind = ast.KindConstDecl
	}
	p.advance()

	mut := p.match(lexer.TokenMut)

	nameTok, _ := p.expect(lexer.TokenIdentifier, "variable name")
	if lexer.ReservedWords[nameTok.Lexeme] {
		p.error("'" + nameTok.Lexeme + "' is a reserved word and cannot be declared")
	}
	n := nodeAt(kind, tok)
	n.Name = nameTok.Lexeme
	n.IsStatement = true
	n.IsLocal = p.isLocal()
	n.IsMutable = mut && !isConst
	if isConst {
		n.IsMutable = false
	}

	if p.match(lexer.TokenColon) {
		n.DeclaredType = p.parseTypeName()
	}

	if _, ok := p.expect(lexer.TokenAssign, "'='"); ok {
		if p.check(lexer.TokenRef) {
			p.advance()
			refMut := p.match(lexer.TokenMut)
			ref := p.parseExpr(precUnary)
			n.Init = ref
			n.IsReference = true
			if refMut {
				n.IsMutable = true
			}
		} else {
			n.Init = p.parseExpr(precAssignment)
		}
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return n
}

func (p *Parser) parseTypeName() *ast.Node {
	tok, _ := p.expect(lexer.TokenIdentifier, "type name")
	n := nodeAt(ast.KindTypeName, tok)
	n.Name = tok.Lexeme
	if p.match(lexer.TokenLt) {
		for {
			n.TypeParams = append(n.TypeParams, p.parseTypeName())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.expect(lexer.TokenGt, "'>'")
	}
	return n
}

func (p *Parser) parseBlock() *ast.Node {
	lb, _ := p.expect(lexer.TokenLeftBrace, "'{'")
	p.braceDepth++
	n := nodeAt(ast.KindBlock, lb)
	var head, tail *ast.Node
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		stmt := p.parseDeclOrStatement()
		if stmt == nil {
			continue
		}
		for cur := stmt; cur != nil; {
			nxt := cur.Next
			cur.Next = nil
			if head == nil {
				head = cur
			} else {
				tail.Next = cur
			}
			tail = cur
			cur = nxt
		}
	}
	p.expect(lexer.TokenRightBrace, "'}'")
	p.braceDepth--
	n.Statements = head
	return n
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.cur.Type {
	case lexer.TokenLeftBrace:
		return p.parseBlock()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenLoop:
		return p.parseLoop()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenBreak:
		tok := p.cur
		p.advance()
		p.expect(lexer.TokenSemicolon, "';'")
		n := nodeAt(ast.KindBreak, tok)
		n.IsStatement = true
		return n
	case lexer.TokenContinue:
		tok := p.cur
		p.advance()
		p.expect(lexer.TokenSemicolon, "';'")
		n := nodeAt(ast.KindContinue, tok)
		n.IsStatement = true
		return n
	case lexer.TokenSemicolon:
		tok := p.cur
		p.advance()
		n := nodeAt(ast.KindEndStatement, tok)
		return n
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseExprStatement() *ast.Node {
	tok := p.cur
	expr := p.parseExpr(precAssignment + 1)

	if p.check(lexer.TokenAssign) && isAssignable(expr) {
		p.advance()
		rhs := p.parseExpr(precAssignment)
		n := nodeAt(ast.KindAssign, tok)
		n.Target = expr
		if expr.Kind == ast.KindIndex {
			n.Target = expr.Base
			n.Index = expr.Index
		}
		n.Init = rhs
		n.IsStatement = true
		p.expect(lexer.TokenSemicolon, "';'")
		return n
	}

	expr.IsStatement = true
	// A trailing semicolon is optional on the last expression before a
	// closing brace or end of file: that tail expression becomes the
	// value of the enclosing block/program, Rust-style (spec.md §8's
	// seed scenarios rely on this — e.g. `add(2,3)` with no `;`).
	if p.check(lexer.TokenRightBrace) || p.check(lexer.TokenEOF) {
		p.match(lexer.TokenSemicolon)
		return expr
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return expr
}

func isAssignable(n *ast.Node) bool {
	return n.Kind == ast.KindVariable || n.Kind == ast.KindIndex || n.Kind == ast.KindMemberAccess
}

// parseIf parses `if`/`else if`/`else` into a chain of sibling nodes
// linked through Next, rather than nesting ElseIf/Else under the If
// node as children of Then/Else fields.
//
// DESIGN CHOICE: chain-via-Next rather than a nested Else *Node field
// because:
//   - ParseFile/parseBlock already walk every statement list through
//     Next; reusing that link means the caller doesn't need a second
//     kind of tree edge just for else-chains
//   - it matches how this parser already represents any "sequence of
//     things to try in order" (an ast.Node's own statement list)
//
// The cost lands on the evaluator: because the whole chain ends up
// spliced into the enclosing block's statement list, evalChain cannot
// evaluate one statement at a time here — see evalIfChain's comment in
// internal/eval/callexpr.go for how that is handled.
func (p *Parser) parseIf() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindIf, tok)
	p.noStructLiteral = true
	n.Cond = p.parseExpr(precAssignment + 1)
	p.noStructLiteral = false
	n.Then = p.parseBlock()

	if p.check(lexer.TokenElse) {
		elseTok := p.cur
		p.advance()
		if p.check(lexer.TokenIf) {
			elseIf := nodeAt(ast.KindElseIf, elseTok)
			inner := p.parseIf()
			elseIf.Cond = inner.Cond
			elseIf.Then = inner.Then
			elseIf.Next = inner.Next
			n.Next = elseIf
		} else {
			elseNode := nodeAt(ast.KindElse, elseTok)
			elseNode.Body = p.parseBlock()
			n.Next = elseNode
		}
	}
	return n
}

func (p *Parser) parseWhile() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindWhile, tok)
	p.noStructLiteral = true
	n.Cond = p.parseExpr(precAssignment + 1)
	p.noStructLiteral = false
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseLoop() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindLoop, tok)
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseFor() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindFor, tok)
	nameTok, _ := p.expect(lexer.TokenIdentifier, "loop variable")
	n.Name = nameTok.Lexeme
	p.expect(lexer.TokenIn, "'in'")
	p.noStructLiteral = true
	n.IterOf = p.parseExpr(precAssignment + 1)
	p.noStructLiteral = false
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindReturn, tok)
	n.IsStatement = true
	if !p.check(lexer.TokenSemicolon) {
		n.Result = p.parseExpr(precAssignment)
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return n
}

func (p *Parser) parseFuncDecl(isCallback bool) *ast.Node {
	tok := p.cur
	p.expect(lexer.TokenFunc, "'fn'")
	kind := ast.KindFuncDecl
	if isCallback {
		kind = ast.KindCallbackFuncDecl
	}
	nameTok, _ := p.expect(lexer.TokenIdentifier, "function name")
	n := nodeAt(kind, tok)
	n.Name = nameTok.Lexeme
	n.IsLocal = p.isLocal()

	p.expect(lexer.TokenLeftParen, "'('")
	for !p.check(lexer.TokenRightParen) && !p.check(lexer.TokenEOF) {
		pNameTok, _ := p.expect(lexer.TokenIdentifier, "parameter name")
		param := ast.Param{Name: pNameTok.Lexeme}
		if p.match(lexer.TokenColon) {
			param.Type = p.parseTypeName()
		}
		n.Params = append(n.Params, param)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRightParen, "')'")

	if p.match(lexer.TokenArrow) {
		n.ReturnType = p.parseTypeName()
	}
	n.Body = p.parseBlock()
	return n
}

func (p *Parser) parseStructDecl() *ast.Node {
	tok := p.cur
	p.advance()
	nameTok, _ := p.expect(lexer.TokenIdentifier, "struct name")
	n := nodeAt(ast.KindStructDecl, tok)
	n.Name = nameTok.Lexeme
	p.expect(lexer.TokenLeftBrace, "'{'")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		fNameTok, _ := p.expect(lexer.TokenIdentifier, "field name")
		field := ast.FieldInit{Name: fNameTok.Lexeme}
		if p.match(lexer.TokenColon) {
			field.Value = p.parseTypeName()
		}
		n.Fields = append(n.Fields, field)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRightBrace, "'}'")
	return n
}

func (p *Parser) parseImplDecl() *ast.Node {
	tok := p.cur
	p.advance()
	nameTok, _ := p.expect(lexer.TokenIdentifier, "struct name")
	n := nodeAt(ast.KindImplDecl, tok)
	n.StructName = nameTok.Lexeme
	p.expect(lexer.TokenLeftBrace, "'{'")
	var methods []*ast.Node
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		if p.check(lexer.TokenComment) || p.check(lexer.TokenMultiComment) {
			p.advance()
			continue
		}
		methods = append(methods, p.parseFuncDecl(false))
	}
	p.expect(lexer.TokenRightBrace, "'}'")
	n.Elements = methods
	return n
}

func (p *Parser) parseTypeAliasDecl() *ast.Node {
	tok := p.cur
	p.advance()
	nameTok, _ := p.expect(lexer.TokenIdentifier, "type alias name")
	n := nodeAt(ast.KindTypeAliasDecl, tok)
	n.Name = nameTok.Lexeme
	n.IsLocal = p.isLocal()
	p.expect(lexer.TokenAssign, "'='")
	n.DeclaredType = p.parseTypeName()
	p.expect(lexer.TokenSemicolon, "';'")
	return n
}

func (p *Parser) parseUseDecl() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindUse, tok)
	for {
		seg, _ := p.expect(lexer.TokenIdentifier, "module path segment")
		n.ModulePath = append(n.ModulePath, seg.Lexeme)
		if !p.match(lexer.TokenColonColon) {
			break
		}
		if p.check(lexer.TokenString) {
			pathTok := p.cur
			p.advance()
			n.FilePath = pathTok.Lexeme
			break
		}
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return n
}

func (p *Parser) parseIncludeDecl() *ast.Node {
	tok := p.cur
	p.advance()
	pathTok, _ := p.expect(lexer.TokenString, "file path string")
	n := nodeAt(ast.KindInclude, tok)
	n.FilePath = pathTok.Lexeme
	p.expect(lexer.TokenSemicolon, "';'")
	return n
}

// --- expressions (Pratt) ---

func (p *Parser) parseExpr(minPrec precedence) *ast.Node {
	left := p.parsePrefix()
	for {
		prec := precedenceOf(p.cur.Type)
		if prec < minPrec || prec == precNone {
			break
		}
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() *ast.Node {
	tok := p.cur
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		n := nodeAt(ast.KindLiteral, tok)
		n.Raw = tok.Lexeme
		if strings.Contains(tok.Lexeme, ".") {
			n.LiteralKind = ast.LiteralFloat
		} else {
			n.LiteralKind = ast.LiteralInt
		}
		return n
	case lexer.TokenString:
		p.advance()
		n := nodeAt(ast.KindLiteral, tok)
		n.Raw = tok.Lexeme
		n.LiteralKind = ast.LiteralString
		return n
	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		n := nodeAt(ast.KindLiteral, tok)
		n.Raw = tok.Lexeme
		n.LiteralKind = ast.LiteralBool
		return n
	case lexer.TokenNull:
		p.advance()
		n := nodeAt(ast.KindLiteral, tok)
		n.LiteralKind = ast.LiteralNull
		return n
	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenTilde:
		p.advance()
		n := nodeAt(ast.KindUnaryNot, tok)
		n.Operator = tok.Type
		n.Operand = p.parseExpr(precUnary)
		return n
	case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		p.advance()
		n := nodeAt(ast.KindIncDec, tok)
		n.Operator = tok.Type
		n.Operand = p.parseExpr(precUnary)
		n.IsPostfix = false
		return n
	case lexer.TokenLeftParen:
		p.advance()
		inner := p.parseExpr(precAssignment)
		p.expect(lexer.TokenRightParen, "')'")
		return inner
	case lexer.TokenLeftBracket:
		return p.parseArrayLiteral()
	case lexer.TokenAt:
		return p.parseSystemCall()
	case lexer.TokenIdentifier:
		return p.parsePostfix(p.parseIdentOrStructInstance())
	default:
		p.error("unexpected token in expression: " + tok.Type.String())
		p.advance()
		return nodeAt(ast.KindLiteral, tok)
	}
}

func (p *Parser) parseArrayLiteral() *ast.Node {
	tok := p.cur
	p.advance()
	n := nodeAt(ast.KindArrayLiteral, tok)
	for !p.check(lexer.TokenRightBracket) && !p.check(lexer.TokenEOF) {
		n.Elements = append(n.Elements, p.parseExpr(precAssignment+1))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRightBracket, "']'")
	return p.parsePostfix(n)
}

func (p *Parser) parseSystemCall() *ast.Node {
	tok := p.cur
	p.advance()
	nameTok, _ := p.expect(lexer.TokenIdentifier, "system function name")
	n := nodeAt(ast.KindCall, tok)
	n.Name = nameTok.Lexeme
	n.IsSystem = true
	p.expect(lexer.TokenLeftParen, "'('")
	n.Args = p.parseArgList()
	n.IsCall = true
	return n
}

func (p *Parser) parseArgList() []*ast.Node {
	var args []*ast.Node
	for !p.check(lexer.TokenRightParen) && !p.check(lexer.TokenEOF) {
		args = append(args, p.parseExpr(precAssignment+1))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRightParen, "')'")
	return args
}

func (p *Parser) parseIdentOrStructInstance() *ast.Node {
	tok := p.cur
	p.advance()
	if !p.noStructLiteral && p.check(lexer.TokenLeftBrace) {
		return p.parseStructInstance(tok)
	}
	n := nodeAt(ast.KindVariable, tok)
	n.Name = tok.Lexeme
	return n
}

func (p *Parser) parseStructInstance(nameTok lexer.Token) *ast.Node {
	n := nodeAt(ast.KindStructInstance, nameTok)
	n.StructName = nameTok.Lexeme
	p.expect(lexer.TokenLeftBrace, "'{'")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		fNameTok, _ := p.expect(lexer.TokenIdentifier, "field name")
		p.expect(lexer.TokenColon, "':'")
		val := p.parseExpr(precAssignment + 1)
		n.Fields = append(n.Fields, ast.FieldInit{Name: fNameTok.Lexeme, Value: val})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRightBrace, "'}'")
	return n
}

// parsePostfix handles call/index/member/scope chains and trailing ++/--.
//
// DESIGN CHOICE: every branch that parses a `(...)` argument list also
// sets IsCall = true on the node it produces, instead of letting
// callers infer "was this actually called" from Args != nil. A
// zero-argument call parses to a nil Args slice (parseArgList never
// allocates when the list is empty), which is indistinguishable from
// "no parens at all" unless the parser records the distinction
// directly. `foo.bar()` and `foo.bar` must evaluate differently even
// though both produce a MemberAccess node with Args == nil.
func (p *Parser) parsePostfix(base *ast.Node) *ast.Node {
	for {
		switch p.cur.Type {
		case lexer.TokenLeftParen:
			tok := p.cur
			p.advance()
			call := nodeAt(ast.KindCall, tok)
			call.Callee = base
			if base.Kind == ast.KindVariable {
				call.Name = base.Name
			}
			call.Args = p.parseArgList()
			call.IsCall = true
			base = call
		case lexer.TokenLeftBracket:
			tok := p.cur
			p.advance()
			idxNode := p.parseExpr(precAssignment + 1)
			p.expect(lexer.TokenRightBracket, "']'")
			idx := nodeAt(ast.KindIndex, tok)
			idx.Base = base
			idx.Index = idxNode
			base = idx
		case lexer.TokenDot:
			tok := p.cur
			p.advance()
			nameTok, _ := p.expect(lexer.TokenIdentifier, "member name")
			m := nodeAt(ast.KindMemberAccess, tok)
			m.Base = base
			m.Name = nameTok.Lexeme
			if p.match(lexer.TokenLeftParen) {
				m.Args = p.parseArgList()
				m.IsCall = true
			}
			base = m
		case lexer.TokenColonColon:
			tok := p.cur
			p.advance()
			nameTok, _ := p.expect(lexer.TokenIdentifier, "scope member name")
			s := nodeAt(ast.KindScopeResolution, tok)
			s.Base = base
			s.Path = append([]string{}, collectPath(base)...)
			s.Path = append(s.Path, nameTok.Lexeme)
			if p.match(lexer.TokenLeftParen) {
				s.Args = p.parseArgList()
				s.IsCall = true
				s.IsStatement = false
			}
			base = s
		case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
			tok := p.cur
			p.advance()
			n := nodeAt(ast.KindIncDec, tok)
			n.Operator = tok.Type
			n.Operand = base
			n.IsPostfix = true
			base = n
		default:
			return base
		}
	}
}

func collectPath(n *ast.Node) []string {
	switch n.Kind {
	case ast.KindVariable:
		return []string{n.Name}
	case ast.KindScopeResolution:
		return n.Path
	default:
		return nil
	}
}

func (p *Parser) parseInfix(left *ast.Node) *ast.Node {
	tok := p.cur
	prec := precedenceOf(tok.Type)
	p.advance()

	var kind ast.Kind
	switch tok.Type {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		kind = ast.KindBinaryOp
	case lexer.TokenAmp, lexer.TokenRef, lexer.TokenPipe, lexer.TokenCaret, lexer.TokenShl, lexer.TokenShr:
		kind = ast.KindBitwiseOp
	case lexer.TokenEq, lexer.TokenNe, lexer.TokenLt, lexer.TokenGt, lexer.TokenLe, lexer.TokenGe:
		kind = ast.KindCompareOp
	case lexer.TokenAndAnd, lexer.TokenOrOr:
		kind = ast.KindLogicalOp
	case lexer.TokenRange:
		kind = ast.KindRangeOp
	default:
		kind = ast.KindBinaryOp
	}

	n := nodeAt(kind, tok)
	n.Operator = tok.Type
	if tok.Type == lexer.TokenRef {
		// a bare '&' after an operand is bitwise AND, not a reference
		n.Operator = lexer.TokenAmp
	}
	n.Left = left
	n.Right = p.parseExpr(prec + 1)
	return n
}
