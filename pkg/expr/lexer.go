package expr

import (
	"fmt"
	"strconv"

	"github.com/cznic/mathutil"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// Lexer tokenizes a single source line.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the entire input and returns all tokens, ending with
// TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return l.tokens, nil
}

// next returns the next token from the input.
func (l *Lexer) next() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	ch := l.input[l.pos]

	if isDigit(ch) {
		return l.readNumber()
	}
	if isIdentStart(ch) {
		return l.readIdentifier(), nil
	}

	// Two-character operators
	two := l.input[l.pos:mathutil.Clamp(l.pos+2, l.pos, len(l.input))]
	switch two {
	case "==":
		return l.emit(TokenEq, 2), nil
	case "!=":
		return l.emit(TokenNeq, 2), nil
	case "<=":
		return l.emit(TokenLte, 2), nil
	case ">=":
		return l.emit(TokenGte, 2), nil
	case "&&":
		return l.emit(TokenAndAnd, 2), nil
	case "||":
		return l.emit(TokenOrOr, 2), nil
	}

	// Single-character operators
	switch ch {
	case '+':
		return l.emit(TokenPlus, 1), nil
	case '-':
		return l.emit(TokenMinus, 1), nil
	case '*':
		return l.emit(TokenStar, 1), nil
	case '/':
		return l.emit(TokenSlash, 1), nil
	case '%':
		return l.emit(TokenPercent, 1), nil
	case '&':
		return l.emit(TokenAmp, 1), nil
	case '|':
		return l.emit(TokenPipe, 1), nil
	case '^':
		return l.emit(TokenCaret, 1), nil
	case '~':
		return l.emit(TokenTilde, 1), nil
	case '!':
		return l.emit(TokenBang, 1), nil
	case '<':
		return l.emit(TokenLt, 1), nil
	case '>':
		return l.emit(TokenGt, 1), nil
	case '=':
		return l.emit(TokenAssign, 1), nil
	case '?':
		return l.emit(TokenQuery, 1), nil
	case ':':
		return l.emit(TokenColon, 1), nil
	case '(':
		return l.emit(TokenLParen, 1), nil
	case ')':
		return l.emit(TokenRParen, 1), nil
	case ';':
		return l.emit(TokenSemicolon, 1), nil
	}

	return Token{}, types.NewLexicalError(l.pos,
		fmt.Sprintf("invalid character %q at position %d", string(ch), l.pos))
}

// emit consumes width bytes as a token of type tt.
func (l *Lexer) emit(tt TokenType, width int) Token {
	start := l.pos
	l.pos += width
	return Token{Type: tt, Value: l.input[start:l.pos], Pos: start}
}

// readNumber reads a decimal, 0x hexadecimal or 0b binary integer literal.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	base := 10

	if l.input[l.pos] == '0' && l.pos+1 < len(l.input) {
		switch l.input[l.pos+1] {
		case 'x', 'X':
			base = 16
			l.pos += 2
		case 'b', 'B':
			base = 2
			l.pos += 2
		}
	}

	digitsStart := l.pos
	for l.pos < len(l.input) && isBaseDigit(l.input[l.pos], base) {
		l.pos++
	}

	raw := l.input[start:l.pos]
	digits := l.input[digitsStart:l.pos]
	if digits == "" {
		return Token{}, types.NewLexicalError(start,
			fmt.Sprintf("malformed integer literal %q at position %d", raw, start))
	}

	n, err := strconv.ParseInt(digits, base, 64)
	if err != nil || n > int64(types.MaxInt) {
		return Token{}, types.NewLexicalError(start,
			fmt.Sprintf("integer literal %q at position %d is out of range", raw, start))
	}
	return Token{Type: TokenInt, Value: raw, IntVal: int32(n), Pos: start}, nil
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}

	word := l.input[start:l.pos]
	tt, ok := keywords[word]
	if !ok {
		return Token{Type: TokenIdent, Value: word, Pos: start}
	}
	return Token{Type: tt, Value: word, BoolVal: word == "true", Pos: start}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			l.pos++
		default:
			return
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isBaseDigit(ch byte, base int) bool {
	switch base {
	case 2:
		return ch == '0' || ch == '1'
	case 16:
		return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
	default:
		return isDigit(ch)
	}
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
