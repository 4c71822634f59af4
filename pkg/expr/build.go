package expr

import (
	"fmt"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// NewBoolLit builds a boolean literal.
func NewBoolLit(b bool) *BoolLit {
	return &BoolLit{val: b}
}

// NewIntLit builds an integer literal.
func NewIntLit(i int32) *IntLit {
	return &IntLit{val: i}
}

// NewVarRef builds a reference to a declaration.
func NewVarRef(d *Decl) *VarRef {
	return &VarRef{decl: d}
}

// NewUnary builds a prefix operator node, checking the operand type:
//
//	!  bool -> bool
//	-  int  -> int
//	~  T    -> T
func NewUnary(op TokenType, operand Node) (Node, error) {
	t := operand.Type()
	switch op {
	case TokenBang:
		if t != types.Bool {
			return nil, unaryTypeError(op, types.Bool, t)
		}
	case TokenMinus:
		if t != types.Int {
			return nil, unaryTypeError(op, types.Int, t)
		}
	case TokenTilde:
	default:
		return nil, fmt.Errorf("unsupported unary operator: %s", op)
	}
	return &UnaryNode{op: op, operand: operand, typ: t}, nil
}

// NewBinary builds an infix operator node, checking operand types:
//
//	&& ||              bool, bool -> bool
//	& | ^              T, T       -> T
//	== !=              T, T       -> bool
//	< > <= >=          int, int   -> bool
//	+ - * / %          int, int   -> int
func NewBinary(op TokenType, left, right Node) (Node, error) {
	lt, rt := left.Type(), right.Type()
	var typ types.Type

	switch op {
	case TokenAndAnd, TokenOrOr:
		if lt != types.Bool || rt != types.Bool {
			return nil, binaryTypeError(op, "bool operands", lt, rt)
		}
		typ = types.Bool
	case TokenAmp, TokenPipe, TokenCaret:
		if lt != rt {
			return nil, binaryTypeError(op, "operands of the same type", lt, rt)
		}
		typ = lt
	case TokenEq, TokenNeq:
		if lt != rt {
			return nil, binaryTypeError(op, "operands of the same type", lt, rt)
		}
		typ = types.Bool
	case TokenLt, TokenGt, TokenLte, TokenGte:
		if lt != types.Int || rt != types.Int {
			return nil, binaryTypeError(op, "int operands", lt, rt)
		}
		typ = types.Bool
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent:
		if lt != types.Int || rt != types.Int {
			return nil, binaryTypeError(op, "int operands", lt, rt)
		}
		typ = types.Int
	default:
		return nil, fmt.Errorf("unsupported binary operator: %s", op)
	}

	return &BinaryNode{op: op, left: left, right: right, typ: typ}, nil
}

// NewCond builds cond ? then : els. The condition must be bool and both
// branches must share a type, which becomes the node's type.
func NewCond(cond, then, els Node) (Node, error) {
	if cond.Type() != types.Bool {
		return nil, types.NewTypeError(
			fmt.Sprintf("condition of ?: must be bool, got %s", cond.Type()))
	}
	if then.Type() != els.Type() {
		return nil, types.NewTypeError(
			fmt.Sprintf("branches of ?: must have the same type, got %s and %s", then.Type(), els.Type()))
	}
	return &CondNode{cond: cond, then: then, els: els, typ: then.Type()}, nil
}

func unaryTypeError(op TokenType, want, got types.Type) error {
	return types.NewTypeError(
		fmt.Sprintf("operator %s requires a %s operand, got %s", op.Symbol(), want, got))
}

func binaryTypeError(op TokenType, want string, lt, rt types.Type) error {
	return types.NewTypeError(
		fmt.Sprintf("operator %s requires %s, got %s and %s", op.Symbol(), want, lt, rt))
}
