package expr

import (
	"errors"
	"testing"

	"github.com/jac259/CompilerDesign/pkg/types"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{"1 + 2", []TokenType{TokenInt, TokenPlus, TokenInt, TokenEOF}},
		{"a<=b", []TokenType{TokenIdent, TokenLte, TokenIdent, TokenEOF}},
		{"x == y != z", []TokenType{TokenIdent, TokenEq, TokenIdent, TokenNeq, TokenIdent, TokenEOF}},
		{"!a && b || ~c", []TokenType{TokenBang, TokenIdent, TokenAndAnd, TokenIdent, TokenOrOr, TokenTilde, TokenIdent, TokenEOF}},
		{"a & b | c ^ d", []TokenType{TokenIdent, TokenAmp, TokenIdent, TokenPipe, TokenIdent, TokenCaret, TokenIdent, TokenEOF}},
		{"var int n = 0;", []TokenType{TokenVar, TokenIntType, TokenIdent, TokenAssign, TokenInt, TokenSemicolon, TokenEOF}},
		{"var bool ok = true", []TokenType{TokenVar, TokenBoolType, TokenIdent, TokenAssign, TokenBool, TokenEOF}},
		{"c ? (a) : b", []TokenType{TokenIdent, TokenQuery, TokenLParen, TokenIdent, TokenRParen, TokenColon, TokenIdent, TokenEOF}},
		{"5 % 3 / 2 * 1 - 0", []TokenType{TokenInt, TokenPercent, TokenInt, TokenSlash, TokenInt, TokenStar, TokenInt, TokenMinus, TokenInt, TokenEOF}},
		{"  \t", []TokenType{TokenEOF}},
		{"variable", []TokenType{TokenIdent, TokenEOF}},
		{"_x1", []TokenType{TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err != nil {
				t.Fatalf("lexer error: %v", err)
			}
			if len(tokens) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(tt.want), tokens)
			}
			for i, tok := range tokens {
				if tok.Type != tt.want[i] {
					t.Errorf("token %d: got %s, want %s", i, tok.Type, tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"0", 0},
		{"42", 42},
		{"0x1A", 26},
		{"0xff", 255},
		{"0b11010", 26},
		{"0B1", 1},
		{"2147483647", types.MaxInt},
		{"0x7fffffff", types.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewLexer(tt.input).Tokenize()
			if err != nil {
				t.Fatalf("lexer error: %v", err)
			}
			if tokens[0].Type != TokenInt || tokens[0].IntVal != tt.want {
				t.Errorf("got %+v, want INT %d", tokens[0], tt.want)
			}
			if tokens[0].Value != tt.input {
				t.Errorf("raw text = %q, want %q", tokens[0].Value, tt.input)
			}
		})
	}

	tokens, err := NewLexer("false true").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if tokens[0].BoolVal || !tokens[1].BoolVal {
		t.Errorf("bool literals decoded as %v, %v", tokens[0].BoolVal, tokens[1].BoolVal)
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := NewLexer("ab  + 0x10").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 4, 6, 10}
	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%s) at %d, want %d", i, tok.Type, tok.Pos, want[i])
		}
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"1 $ 2", `invalid character "$" at position 2`},
		{"a @", `invalid character "@" at position 2`},
		{"2147483648", `integer literal "2147483648" at position 0 is out of range`},
		{"0xffffffff", `integer literal "0xffffffff" at position 0 is out of range`},
		{"0x", `malformed integer literal "0x" at position 0`},
		{"1 + 0bz", `malformed integer literal "0b" at position 4`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := NewLexer(tt.input).Tokenize()
			var e *types.Error
			if !errors.As(err, &e) || e.Kind() != types.TagLexicalError {
				t.Fatalf("expected LexicalError, got %v", err)
			}
			if e.Message != tt.msg {
				t.Errorf("message = %q, want %q", e.Message, tt.msg)
			}
		})
	}
}

func TestTokenFormat(t *testing.T) {
	tokens, err := NewLexer("var int x = 26 + true").Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		radix types.Radix
		tok   Token
		want  string
	}{
		{types.Decimal, tokens[2], "IDENT: x"},
		{types.Decimal, tokens[4], "INT: 26"},
		{types.Hex, tokens[4], "INT: 0x1a"},
		{types.Binary, tokens[4], "INT: 0b11010"},
		{types.Decimal, tokens[6], "BOOL: true"},
		{types.Decimal, tokens[5], "PLUS"},
	}

	for _, tt := range tests {
		if got := tt.tok.Format(tt.radix); got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.radix, got, tt.want)
		}
	}
}
