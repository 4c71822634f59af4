package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		v     Value
		radix Radix
		want  string
	}{
		{NewInt(26), Decimal, "26"},
		{NewInt(26), Hex, "0x1a"},
		{NewInt(26), Binary, "0b11010"},
		{NewInt(-5), Decimal, "-5"},
		{NewInt(-5), Hex, "-0x5"},
		{NewInt(-5), Binary, "-0b101"},
		{NewInt(0), Decimal, "0"},
		{NewInt(0), Hex, "0x0"},
		{NewInt(0), Binary, "0b0"},
		{NewInt(MaxInt), Hex, "0x7fffffff"},
		{NewInt(MinInt), Decimal, "-2147483648"},
		{NewInt(MinInt), Hex, "-0x80000000"},
		{NewBool(true), Hex, "true"},
		{NewBool(false), Binary, "false"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%s", tt.v, tt.radix), func(t *testing.T) {
			if got := tt.v.Format(tt.radix); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	if !NewInt(1).Equal(NewInt(1)) {
		t.Error("1 != 1")
	}
	if NewInt(1).Equal(NewBool(true)) {
		t.Error("values of different types compared equal")
	}
	if NewBool(true).Bits() != 1 || NewBool(false).Bits() != 0 {
		t.Error("bool encoding is not 0/1")
	}
}

func TestParseRadix(t *testing.T) {
	tests := []struct {
		in   string
		want Radix
	}{
		{"d", Decimal},
		{"decimal", Decimal},
		{"10", Decimal},
		{"h", Hex},
		{"x", Hex},
		{"16", Hex},
		{"b", Binary},
		{"bin", Binary},
		{"2", Binary},
	}
	for _, tt := range tests {
		got, err := ParseRadix(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseRadix(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseRadix("octal"); err == nil {
		t.Error("expected error for unknown radix")
	}
}

func TestErrorRendering(t *testing.T) {
	err := error(NewOverflowError("addition"))
	if got := err.Error(); got != "OverflowError: integer overflow in addition" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := fmt.Errorf("line 3: %w", NewDeclaredTypeError("x", Int, Bool))
	var e *Error
	if !errors.As(wrapped, &e) {
		t.Fatal("errors.As failed on wrapped error")
	}
	if e.Kind() != TagTypeError || !e.HasTag(TagDeclarationError) {
		t.Errorf("tags = %v", e.Tags)
	}
	if e.Message != "cannot assign bool value to int variable 'x'" {
		t.Errorf("Message = %q", e.Message)
	}
}
