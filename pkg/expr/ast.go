package expr

import "github.com/jac259/CompilerDesign/pkg/types"

// Node is a typed expression tree node. Nodes are built only through the
// NewXxx builders, which type-check their operands; a Node is immutable
// once built and its Type never changes.
type Node interface {
	// Type returns the static result type fixed at construction.
	Type() types.Type
	node()
}

// BoolLit is a boolean literal.
type BoolLit struct {
	val bool
}

// IntLit is an integer literal.
type IntLit struct {
	val int32
}

// UnaryNode is a prefix operator: ! - ~.
type UnaryNode struct {
	op      TokenType
	operand Node
	typ     types.Type
}

// BinaryNode is an infix operator.
type BinaryNode struct {
	op    TokenType
	left  Node
	right Node
	typ   types.Type
}

// CondNode is the ternary cond ? then : else.
type CondNode struct {
	cond Node
	then Node
	els  Node
	typ  types.Type
}

// VarRef is a reference to a declared variable. It evaluates to the
// declaration's folded value.
type VarRef struct {
	decl *Decl
}

func (n *BoolLit) Type() types.Type    { return types.Bool }
func (n *IntLit) Type() types.Type     { return types.Int }
func (n *UnaryNode) Type() types.Type  { return n.typ }
func (n *BinaryNode) Type() types.Type { return n.typ }
func (n *CondNode) Type() types.Type   { return n.typ }
func (n *VarRef) Type() types.Type     { return n.decl.Type }

func (n *BoolLit) node()    {}
func (n *IntLit) node()     {}
func (n *UnaryNode) node()  {}
func (n *BinaryNode) node() {}
func (n *CondNode) node()   {}
func (n *VarRef) node()     {}

// Value returns the literal's value.
func (n *BoolLit) Value() bool { return n.val }

// Value returns the literal's value.
func (n *IntLit) Value() int32 { return n.val }

// Op returns the operator token type.
func (n *UnaryNode) Op() TokenType { return n.op }

// Operand returns the operand.
func (n *UnaryNode) Operand() Node { return n.operand }

// Op returns the operator token type.
func (n *BinaryNode) Op() TokenType { return n.op }

// Left returns the left operand.
func (n *BinaryNode) Left() Node { return n.left }

// Right returns the right operand.
func (n *BinaryNode) Right() Node { return n.right }

// Cond returns the condition.
func (n *CondNode) Cond() Node { return n.cond }

// Then returns the branch taken when the condition is true.
func (n *CondNode) Then() Node { return n.then }

// Else returns the branch taken when the condition is false.
func (n *CondNode) Else() Node { return n.els }

// Decl returns the referenced declaration.
func (n *VarRef) Decl() *Decl { return n.decl }

// Name returns the referenced variable name.
func (n *VarRef) Name() string { return n.decl.Name }

// Decl is a variable declaration. Init is the initializer as written and is
// kept for display; Value is Init folded to a literal and is what references
// evaluate. A reassignment produces a new Decl rather than mutating this one.
type Decl struct {
	Name  string
	Type  types.Type
	Init  Node
	Value Node
}

// NewDecl type-checks init against the declared type and folds it. Any
// evaluation failure in the initializer is reported here, once.
func NewDecl(name string, typ types.Type, init Node) (*Decl, error) {
	if init.Type() != typ {
		return nil, types.NewDeclaredTypeError(name, typ, init.Type())
	}
	value, err := Fold(init)
	if err != nil {
		return nil, err
	}
	return &Decl{Name: name, Type: typ, Init: init, Value: value}, nil
}

// Stmt is a parsed statement: *ExprStmt or *DeclStmt.
type Stmt interface {
	stmt()
}

// ExprStmt is an expression evaluated for its value.
type ExprStmt struct {
	Expr Node
}

// DeclStmt is a `var` declaration, or a reassignment when Reassign is set.
type DeclStmt struct {
	Decl     *Decl
	Reassign bool
}

func (s *ExprStmt) stmt() {}
func (s *DeclStmt) stmt() {}
