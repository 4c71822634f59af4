// Package types defines the static types, runtime values and output radix
// shared by the expression front end.
package types

import (
	"fmt"
	"math"
	"strconv"
)

// Type is the static type of an expression. The language has exactly two.
type Type int

const (
	Bool Type = iota // bool
	Int              // 32-bit signed integer
)

// String returns the type name as written in declarations.
func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	default:
		return "unknown"
	}
}

// Integer limits of the language's int type.
const (
	MaxInt int32 = math.MaxInt32
	MinInt int32 = math.MinInt32
)

// Value is the result of evaluating an expression: a tagged union over the
// two types.
type Value struct {
	typ     Type
	boolVal bool
	intVal  int32
}

// NewBool creates a bool value.
func NewBool(b bool) Value {
	return Value{typ: Bool, boolVal: b}
}

// NewInt creates an int value.
func NewInt(i int32) Value {
	return Value{typ: Int, intVal: i}
}

// Type returns the value's type.
func (v Value) Type() Type { return v.typ }

// AsBool returns the bool payload. Only meaningful for Bool values.
func (v Value) AsBool() bool { return v.boolVal }

// AsInt returns the int payload. Only meaningful for Int values.
func (v Value) AsInt() int32 { return v.intVal }

// Bits returns the integer encoding of the value; bools encode as 0 or 1.
func (v Value) Bits() int32 {
	if v.typ == Bool {
		if v.boolVal {
			return 1
		}
		return 0
	}
	return v.intVal
}

// Equal reports whether two values have the same type and payload.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	if v.typ == Bool {
		return v.boolVal == other.boolVal
	}
	return v.intVal == other.intVal
}

// String formats the value in decimal.
func (v Value) String() string {
	return v.Format(Decimal)
}

// Format renders the value for display. Bools print as true/false; ints
// print in the given radix with a leading '-' for negative values and the
// magnitude after the 0x/0b prefix.
func (v Value) Format(r Radix) string {
	if v.typ == Bool {
		return strconv.FormatBool(v.boolVal)
	}
	n := int64(v.intVal)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	switch r {
	case Hex:
		return sign + "0x" + strconv.FormatInt(n, 16)
	case Binary:
		return sign + "0b" + strconv.FormatInt(n, 2)
	default:
		return sign + strconv.FormatInt(n, 10)
	}
}

// Radix selects how integer results are formatted.
type Radix byte

const (
	Decimal Radix = 'd'
	Hex     Radix = 'h'
	Binary  Radix = 'b'
)

// String returns the single-letter radix code.
func (r Radix) String() string {
	return string(r)
}

// Name returns a human-readable radix name.
func (r Radix) Name() string {
	switch r {
	case Hex:
		return "hex"
	case Binary:
		return "binary"
	default:
		return "decimal"
	}
}

// ParseRadix accepts d/h/b, their long names, and the numeric bases 10/16/2.
func ParseRadix(s string) (Radix, error) {
	switch s {
	case "d", "dec", "decimal", "10":
		return Decimal, nil
	case "h", "x", "hex", "16":
		return Hex, nil
	case "b", "bin", "binary", "2":
		return Binary, nil
	}
	return Decimal, fmt.Errorf("invalid radix %q (want d, h or b)", s)
}
