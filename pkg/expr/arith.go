package expr

import "github.com/jac259/CompilerDesign/pkg/types"

// The checked operations below never rely on wraparound: every result they
// return is the exact mathematical result, or an error.

func checkedAdd(a, b int32) (int32, error) {
	if a > 0 && b > 0 && types.MaxInt-b < a {
		return 0, types.NewOverflowError("addition")
	}
	if a < 0 && b < 0 && types.MinInt-b > a {
		return 0, types.NewOverflowError("addition")
	}
	return a + b, nil
}

func checkedSub(a, b int32) (int32, error) {
	if a < 0 && b > 0 && types.MinInt+b > a {
		return 0, types.NewOverflowError("subtraction")
	}
	// a == 0 is included: 0 - INT_MIN is not representable.
	if a >= 0 && b < 0 && types.MaxInt+b < a {
		return 0, types.NewOverflowError("subtraction")
	}
	return a - b, nil
}

func checkedMul(a, b int32) (int32, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a == -1 {
		return checkedNeg(b)
	}
	if b == -1 {
		return checkedNeg(a)
	}

	switch {
	case a > 0 && b > 0:
		if types.MaxInt/b < a {
			return 0, types.NewOverflowError("multiplication")
		}
	case a < 0 && b < 0:
		if types.MaxInt/b > a {
			return 0, types.NewOverflowError("multiplication")
		}
	case a < 0:
		if types.MinInt/b > a {
			return 0, types.NewOverflowError("multiplication")
		}
	default:
		if types.MinInt/a > b {
			return 0, types.NewOverflowError("multiplication")
		}
	}
	return a * b, nil
}

// checkDivisor rejects the divisor/dividend pairs for which / and % are
// undefined on int32.
func checkDivisor(op string, a, b int32) error {
	switch {
	case b == 0:
		return types.NewZeroDivisionError(op)
	case b == types.MinInt:
		return types.NewUndefinedArithmeticError(op + " by INT_MIN is undefined")
	case a == types.MinInt && b == -1:
		return types.NewOverflowError(op)
	}
	return nil
}

func checkedDiv(a, b int32) (int32, error) {
	if err := checkDivisor("division", a, b); err != nil {
		return 0, err
	}
	return a / b, nil
}

func checkedRem(a, b int32) (int32, error) {
	if err := checkDivisor("remainder", a, b); err != nil {
		return 0, err
	}
	return a % b, nil
}

func checkedNeg(a int32) (int32, error) {
	if a == types.MinInt {
		return 0, types.NewOverflowError("negation")
	}
	return -a, nil
}
