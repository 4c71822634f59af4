package expr

import (
	"fmt"

	"github.com/jac259/CompilerDesign/pkg/types"
)

// Evaluate evaluates an expression node. Type errors cannot occur here;
// the only failures are arithmetic ones that depend on runtime values.
func Evaluate(node Node) (types.Value, error) {
	switch n := node.(type) {
	case *BoolLit:
		return types.NewBool(n.val), nil
	case *IntLit:
		return types.NewInt(n.val), nil
	case *VarRef:
		return Evaluate(n.decl.Value)
	case *UnaryNode:
		return evalUnary(n)
	case *BinaryNode:
		return evalBinary(n)
	case *CondNode:
		return evalCond(n)
	default:
		return types.Value{}, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func evalUnary(n *UnaryNode) (types.Value, error) {
	operand, err := Evaluate(n.operand)
	if err != nil {
		return types.Value{}, err
	}

	switch n.op {
	case TokenBang:
		return types.NewBool(!operand.AsBool()), nil
	case TokenMinus:
		v, err := checkedNeg(operand.AsInt())
		if err != nil {
			return types.Value{}, err
		}
		return types.NewInt(v), nil
	case TokenTilde:
		if operand.Type() == types.Bool {
			return types.NewBool(!operand.AsBool()), nil
		}
		return types.NewInt(^operand.AsInt()), nil
	default:
		return types.Value{}, fmt.Errorf("unsupported unary operator: %s", n.op)
	}
}

func evalBinary(n *BinaryNode) (types.Value, error) {
	// Short-circuit for logical operators
	if n.op == TokenAndAnd || n.op == TokenOrOr {
		left, err := Evaluate(n.left)
		if err != nil {
			return types.Value{}, err
		}
		if left.AsBool() == (n.op == TokenOrOr) {
			return left, nil
		}
		return Evaluate(n.right)
	}

	left, err := Evaluate(n.left)
	if err != nil {
		return types.Value{}, err
	}
	right, err := Evaluate(n.right)
	if err != nil {
		return types.Value{}, err
	}

	switch n.op {
	case TokenAmp:
		return bitwise(n.typ, left.Bits()&right.Bits()), nil
	case TokenPipe:
		return bitwise(n.typ, left.Bits()|right.Bits()), nil
	case TokenCaret:
		return bitwise(n.typ, left.Bits()^right.Bits()), nil
	case TokenEq:
		return types.NewBool(left.Equal(right)), nil
	case TokenNeq:
		return types.NewBool(!left.Equal(right)), nil
	case TokenLt:
		return types.NewBool(left.AsInt() < right.AsInt()), nil
	case TokenGt:
		return types.NewBool(left.AsInt() > right.AsInt()), nil
	case TokenLte:
		return types.NewBool(left.AsInt() <= right.AsInt()), nil
	case TokenGte:
		return types.NewBool(left.AsInt() >= right.AsInt()), nil
	case TokenPlus:
		return evalArith(left, right, checkedAdd)
	case TokenMinus:
		return evalArith(left, right, checkedSub)
	case TokenStar:
		return evalArith(left, right, checkedMul)
	case TokenSlash:
		return evalArith(left, right, checkedDiv)
	case TokenPercent:
		return evalArith(left, right, checkedRem)
	default:
		return types.Value{}, fmt.Errorf("unsupported binary operator: %s", n.op)
	}
}

func evalArith(left, right types.Value, op func(int32, int32) (int32, error)) (types.Value, error) {
	v, err := op(left.AsInt(), right.AsInt())
	if err != nil {
		return types.Value{}, err
	}
	return types.NewInt(v), nil
}

// bitwise wraps the result of a bitwise operation in the operand type. Bool
// operands are encoded as 0/1, so the result is 0 or 1 as well.
func bitwise(typ types.Type, bits int32) types.Value {
	if typ == types.Bool {
		return types.NewBool(bits != 0)
	}
	return types.NewInt(bits)
}

func evalCond(n *CondNode) (types.Value, error) {
	cond, err := Evaluate(n.cond)
	if err != nil {
		return types.Value{}, err
	}
	if cond.AsBool() {
		return Evaluate(n.then)
	}
	return Evaluate(n.els)
}

// Fold evaluates a node and returns an equivalent literal. Folding a literal
// returns it unchanged.
func Fold(node Node) (Node, error) {
	switch node.(type) {
	case *BoolLit, *IntLit:
		return node, nil
	}
	v, err := Evaluate(node)
	if err != nil {
		return nil, err
	}
	if v.Type() == types.Bool {
		return NewBoolLit(v.AsBool()), nil
	}
	return NewIntLit(v.AsInt()), nil
}
