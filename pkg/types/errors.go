package types

import "fmt"

// Error tag constants. The first tag of an Error names its kind; later tags
// name broader categories it also belongs to.
const (
	TagLexicalError      = "LexicalError"
	TagSyntaxError       = "SyntaxError"
	TagTypeError         = "TypeError"
	TagDeclarationError  = "DeclarationError"
	TagOverflowError     = "OverflowError"
	TagZeroDivisionError = "ZeroDivisionError"
	TagArithmeticError   = "ArithmeticError"

	TagResourceLimitError = "ResourceLimitError"
)

// Error is a failure raised while lexing, parsing, type-checking or
// evaluating a statement. Every Error aborts only the statement that raised it.
type Error struct {
	Message string
	Tags    []string
	Pos     int // byte offset in the source line, -1 when unknown
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Tags) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Tags[0], e.Message)
}

// Kind returns the primary tag.
func (e *Error) Kind() string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

// HasTag returns true if the error has the specified tag.
func (e *Error) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NewLexicalError creates a LexicalError at the given position.
func NewLexicalError(pos int, msg string) *Error {
	return &Error{Message: msg, Tags: []string{TagLexicalError}, Pos: pos}
}

// NewSyntaxError creates a SyntaxError at the given position.
func NewSyntaxError(pos int, msg string) *Error {
	return &Error{Message: msg, Tags: []string{TagSyntaxError}, Pos: pos}
}

// NewTypeError creates a TypeError.
func NewTypeError(msg string) *Error {
	return &Error{Message: msg, Tags: []string{TagTypeError}, Pos: -1}
}

// NewDeclarationError creates a DeclarationError.
func NewDeclarationError(msg string) *Error {
	return &Error{Message: msg, Tags: []string{TagDeclarationError}, Pos: -1}
}

// NewDeclaredTypeError creates the error for an initializer whose type does
// not match the variable's declared type.
func NewDeclaredTypeError(name string, declared, got Type) *Error {
	return &Error{
		Message: fmt.Sprintf("cannot assign %s value to %s variable '%s'", got, declared, name),
		Tags:    []string{TagTypeError, TagDeclarationError},
		Pos:     -1,
	}
}

// NewOverflowError creates an OverflowError for the named operation.
func NewOverflowError(op string) *Error {
	return &Error{
		Message: fmt.Sprintf("integer overflow in %s", op),
		Tags:    []string{TagOverflowError, TagArithmeticError},
		Pos:     -1,
	}
}

// NewZeroDivisionError creates a ZeroDivisionError.
func NewZeroDivisionError(op string) *Error {
	return &Error{
		Message: fmt.Sprintf("%s by zero", op),
		Tags:    []string{TagZeroDivisionError, TagArithmeticError},
		Pos:     -1,
	}
}

// NewUndefinedArithmeticError creates an ArithmeticError for results that are
// not defined for the operands, such as division by INT_MIN.
func NewUndefinedArithmeticError(msg string) *Error {
	return &Error{Message: msg, Tags: []string{TagArithmeticError}, Pos: -1}
}

// NewResourceLimitError creates a ResourceLimitError.
func NewResourceLimitError(msg string) *Error {
	return &Error{Message: msg, Tags: []string{TagResourceLimitError}, Pos: -1}
}
