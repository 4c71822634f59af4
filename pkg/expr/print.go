package expr

import (
	"strconv"
	"strings"
)

// Weight returns the number of nodes in the subtree. Operands of weight 1
// are atomic and print without parentheses.
func Weight(node Node) int {
	switch n := node.(type) {
	case *UnaryNode:
		return 1 + Weight(n.operand)
	case *BinaryNode:
		return 1 + Weight(n.left) + Weight(n.right)
	case *CondNode:
		return 1 + Weight(n.cond) + Weight(n.then) + Weight(n.els)
	default:
		return 1
	}
}

// Print renders a node in infix form, parenthesizing every operand whose
// weight is greater than one.
func Print(node Node) string {
	var sb strings.Builder
	writeNode(&sb, node)
	return sb.String()
}

func writeNode(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *BoolLit:
		sb.WriteString(strconv.FormatBool(n.val))
	case *IntLit:
		sb.WriteString(strconv.FormatInt(int64(n.val), 10))
	case *VarRef:
		sb.WriteString(n.decl.Name)
	case *UnaryNode:
		sb.WriteString(n.op.Symbol())
		writeOperand(sb, n.operand)
	case *BinaryNode:
		writeOperand(sb, n.left)
		sb.WriteByte(' ')
		sb.WriteString(n.op.Symbol())
		sb.WriteByte(' ')
		writeOperand(sb, n.right)
	case *CondNode:
		writeOperand(sb, n.cond)
		sb.WriteString(" ? ")
		writeOperand(sb, n.then)
		sb.WriteString(" : ")
		writeOperand(sb, n.els)
	}
}

func writeOperand(sb *strings.Builder, operand Node) {
	if Weight(operand) > 1 {
		sb.WriteByte('(')
		writeNode(sb, operand)
		sb.WriteByte(')')
		return
	}
	writeNode(sb, operand)
}

// PrintStmt renders a statement in canonical form.
func PrintStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *ExprStmt:
		return Print(s.Expr)
	case *DeclStmt:
		if s.Reassign {
			return s.Decl.Name + " = " + Print(s.Decl.Init)
		}
		return "var " + s.Decl.Type.String() + " " + s.Decl.Name + " = " + Print(s.Decl.Init)
	}
	return ""
}
