// Package expr implements the typed expression language: tokens, lexer,
// typed AST builders, parser, evaluator and printer.
package expr

import (
	"fmt"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota // end of input

	// Arithmetic
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %

	// Bitwise
	TokenAmp   // &
	TokenPipe  // |
	TokenCaret // ^
	TokenTilde // ~

	// Logical
	TokenAndAnd // &&
	TokenOrOr   // ||
	TokenBang   // !

	// Relational
	TokenEq  // ==
	TokenNeq // !=
	TokenLt  // <
	TokenGt  // >
	TokenLte // <=
	TokenGte // >=

	// Punctuation
	TokenAssign    // =
	TokenQuery     // ?
	TokenColon     // :
	TokenLParen    // (
	TokenRParen    // )
	TokenSemicolon // ;

	// Literals and names
	TokenBool  // true, false
	TokenInt   // integer literal
	TokenIdent // identifier

	// Keywords
	TokenVar      // var
	TokenIntType  // int
	TokenBoolType // bool
)

var tokenSymbols = [...]string{
	TokenEOF:       "",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenAmp:       "&",
	TokenPipe:      "|",
	TokenCaret:     "^",
	TokenTilde:     "~",
	TokenAndAnd:    "&&",
	TokenOrOr:      "||",
	TokenBang:      "!",
	TokenEq:        "==",
	TokenNeq:       "!=",
	TokenLt:        "<",
	TokenGt:        ">",
	TokenLte:       "<=",
	TokenGte:       ">=",
	TokenAssign:    "=",
	TokenQuery:     "?",
	TokenColon:     ":",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenSemicolon: ";",
	TokenBool:      "",
	TokenInt:       "",
	TokenIdent:     "",
	TokenVar:       "var",
	TokenIntType:   "int",
	TokenBoolType:  "bool",
}

var tokenNames = [...]string{
	TokenEOF:       "EOF",
	TokenPlus:      "PLUS",
	TokenMinus:     "MINUS",
	TokenStar:      "STAR",
	TokenSlash:     "SLASH",
	TokenPercent:   "PERCENT",
	TokenAmp:       "AMP",
	TokenPipe:      "PIPE",
	TokenCaret:     "CARET",
	TokenTilde:     "TILDE",
	TokenAndAnd:    "AMPAMP",
	TokenOrOr:      "PIPEPIPE",
	TokenBang:      "BANG",
	TokenEq:        "EQ",
	TokenNeq:       "NEQ",
	TokenLt:        "LT",
	TokenGt:        "GT",
	TokenLte:       "LTE",
	TokenGte:       "GTE",
	TokenAssign:    "ASSIGN",
	TokenQuery:     "QUERY",
	TokenColon:     "COLON",
	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenSemicolon: "SEMICOLON",
	TokenBool:      "BOOL",
	TokenInt:       "INT",
	TokenIdent:     "IDENT",
	TokenVar:       "VAR",
	TokenIntType:   "INT_TYPE",
	TokenBoolType:  "BOOL_TYPE",
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"true":  TokenBool,
	"false": TokenBool,
	"var":   TokenVar,
	"int":   TokenIntType,
	"bool":  TokenBoolType,
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return "UNKNOWN"
	}
	return tokenNames[t]
}

// Symbol returns the source text of fixed-spelling tokens, or "" for EOF,
// literals and identifiers.
func (t TokenType) Symbol() string {
	if t < 0 || int(t) >= len(tokenSymbols) {
		return ""
	}
	return tokenSymbols[t]
}

// describe names a token type the way syntax errors mention it.
func (t TokenType) describe() string {
	switch t {
	case TokenEOF:
		return "end of input"
	case TokenBool:
		return "boolean literal"
	case TokenInt:
		return "integer literal"
	case TokenIdent:
		return "identifier"
	}
	return fmt.Sprintf("'%s'", t.Symbol())
}

// Token represents a single lexical token.
type Token struct {
	Type    TokenType
	Value   string // raw source text
	IntVal  int32  // parsed value (for TokenInt)
	BoolVal bool   // parsed value (for TokenBool)
	Pos     int    // byte offset in source
}

// Format renders the token for a token dump, printing integer literals in
// the given radix.
func (t Token) Format(r types.Radix) string {
	switch t.Type {
	case TokenInt:
		return fmt.Sprintf("%s: %s", t.Type, types.NewInt(t.IntVal).Format(r))
	case TokenBool:
		return fmt.Sprintf("%s: %t", t.Type, t.BoolVal)
	case TokenIdent:
		return fmt.Sprintf("%s: %s", t.Type, t.Value)
	}
	return t.Type.String()
}
