package expr

import (
	"fmt"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// MaxStatementLength is the maximum allowed length for a single statement.
const MaxStatementLength = 4096

// Parser is a recursive descent parser for one statement. It resolves
// identifiers against, and records declarations in, its symbol table.
type Parser struct {
	tokens  []Token
	pos     int
	symbols *SymbolTable
}

// ParseStatement parses a complete statement. A successful declaration or
// reassignment is committed to ctx.Symbols; a failing statement leaves the
// table untouched.
func ParseStatement(input string, ctx *Context) (Stmt, error) {
	if len(input) > MaxStatementLength {
		return nil, types.NewSyntaxError(0, fmt.Sprintf("statement exceeds maximum length of %d characters", MaxStatementLength))
	}

	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens, symbols: ctx.Symbols}
	return p.parseStatement()
}

// ParseExpression parses a standalone expression. Identifiers resolve
// against symbols, which may be nil when no variables are in scope.
func ParseExpression(input string, symbols *SymbolTable) (Node, error) {
	tokens, err := NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = NewSymbolTable()
	}

	p := &Parser{tokens: tokens, symbols: symbols}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return node, nil
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming it.
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// advance consumes the current token and returns it.
func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// expect consumes a token of the expected type or returns a syntax error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != tt {
		return tok, types.NewSyntaxError(tok.Pos, fmt.Sprintf("expected %s but got %s at position %d", tt.describe(), tok.Type.describe(), tok.Pos))
	}
	p.advance()
	return tok, nil
}

// expectEnd accepts an optional trailing ';' followed by end of input.
func (p *Parser) expectEnd() error {
	if p.current().Type == TokenSemicolon {
		p.advance()
	}
	tok := p.current()
	if tok.Type != TokenEOF {
		return types.NewSyntaxError(tok.Pos, fmt.Sprintf("unexpected %s at position %d", tok.Type.describe(), tok.Pos))
	}
	return nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch {
	case p.current().Type == TokenVar:
		return p.parseDeclaration()
	case p.current().Type == TokenIdent && p.peek().Type == TokenAssign:
		return p.parseReassignment()
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: node}, nil
}

func (p *Parser) parseDeclaration() (Stmt, error) {
	p.advance() // var

	var typ types.Type
	switch tok := p.current(); tok.Type {
	case TokenIntType:
		typ = types.Int
	case TokenBoolType:
		typ = types.Bool
	default:
		return nil, types.NewSyntaxError(tok.Pos, fmt.Sprintf("expected type name but got %s at position %d", tok.Type.describe(), tok.Pos))
	}
	p.advance()

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, ok := p.symbols.Find(name.Value); ok {
		return nil, types.NewDeclarationError(fmt.Sprintf("variable '%s' is already declared", name.Value))
	}
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}

	decl, err := p.parseInitializer(name.Value, typ)
	if err != nil {
		return nil, err
	}
	p.symbols.Insert(decl)
	return &DeclStmt{Decl: decl}, nil
}

func (p *Parser) parseReassignment() (Stmt, error) {
	name := p.advance()
	p.advance() // =

	prev, ok := p.symbols.Find(name.Value)
	if !ok {
		return nil, types.NewDeclarationError(fmt.Sprintf("variable '%s' is not declared", name.Value))
	}

	decl, err := p.parseInitializer(name.Value, prev.Type)
	if err != nil {
		return nil, err
	}
	if err := p.symbols.Update(name.Value, decl); err != nil {
		return nil, err
	}
	return &DeclStmt{Decl: decl, Reassign: true}, nil
}

// parseInitializer parses the right-hand side of a declaration and builds
// the declaration. The whole statement must be consumed before anything is
// committed.
func (p *Parser) parseInitializer(name string, typ types.Type) (*Decl, error) {
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return NewDecl(name, typ, init)
}

// parseExpression is the entry point: handles the lowest precedence operators.
// Precedence (low to high):
//
//	? :
//	||
//	&&
//	|
//	^
//	&
//	==, !=
//	<, >, <=, >=
//	+, -
//	*, /, %
//	unary !, -, ~
func (p *Parser) parseExpression() (Node, error) {
	return p.parseCond()
}

func (p *Parser) parseCond() (Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenQuery {
		return cond, nil
	}
	p.advance()

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	els, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return NewCond(cond, then, els)
}

// parseBinaryLevel parses a left-associative run of the given operators,
// with operands parsed by next.
func (p *Parser) parseBinaryLevel(next func() (Node, error), ops ...TokenType) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.matches(ops) {
		op := p.advance().Type
		right, err := next()
		if err != nil {
			return nil, err
		}
		left, err = NewBinary(op, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) matches(ops []TokenType) bool {
	cur := p.current().Type
	for _, op := range ops {
		if cur == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseOr() (Node, error) {
	return p.parseBinaryLevel(p.parseAnd, TokenOrOr)
}

func (p *Parser) parseAnd() (Node, error) {
	return p.parseBinaryLevel(p.parseBitOr, TokenAndAnd)
}

func (p *Parser) parseBitOr() (Node, error) {
	return p.parseBinaryLevel(p.parseBitXor, TokenPipe)
}

func (p *Parser) parseBitXor() (Node, error) {
	return p.parseBinaryLevel(p.parseBitAnd, TokenCaret)
}

func (p *Parser) parseBitAnd() (Node, error) {
	return p.parseBinaryLevel(p.parseEquality, TokenAmp)
}

func (p *Parser) parseEquality() (Node, error) {
	return p.parseBinaryLevel(p.parseOrdering, TokenEq, TokenNeq)
}

func (p *Parser) parseOrdering() (Node, error) {
	return p.parseBinaryLevel(p.parseAddition, TokenLt, TokenGt, TokenLte, TokenGte)
}

func (p *Parser) parseAddition() (Node, error) {
	return p.parseBinaryLevel(p.parseMultiplication, TokenPlus, TokenMinus)
}

func (p *Parser) parseMultiplication() (Node, error) {
	return p.parseBinaryLevel(p.parseUnary, TokenStar, TokenSlash, TokenPercent)
}

func (p *Parser) parseUnary() (Node, error) {
	switch p.current().Type {
	case TokenBang, TokenMinus, TokenTilde:
		op := p.advance().Type
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(op, operand)
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenInt:
		p.advance()
		return NewIntLit(tok.IntVal), nil
	case TokenBool:
		p.advance()
		return NewBoolLit(tok.BoolVal), nil
	case TokenIdent:
		p.advance()
		decl, ok := p.symbols.Find(tok.Value)
		if !ok {
			return nil, types.NewDeclarationError(fmt.Sprintf("variable '%s' is not declared", tok.Value))
		}
		return NewVarRef(decl), nil
	case TokenLParen:
		p.advance()
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, types.NewSyntaxError(tok.Pos, fmt.Sprintf("unexpected %s at position %d", tok.Type.describe(), tok.Pos))
	}
}
