package ast

import "lox/interpreter-go/pkg/token"

type NodeType string

const (
	NodeLiteral    NodeType = "Literal"
	NodeGrouping   NodeType = "Grouping"
	NodeUnary      NodeType = "Unary"
	NodeBinary     NodeType = "Binary"
	NodeLogical    NodeType = "Logical"
	NodeVariable   NodeType = "Variable"
	NodeAssign     NodeType = "Assign"
	NodeCall       NodeType = "Call"
	NodeExpression NodeType = "ExpressionStatement"
	NodePrint      NodeType = "PrintStatement"
	NodeVar        NodeType = "VarStatement"
	NodeBlock      NodeType = "BlockStatement"
	NodeIf         NodeType = "IfStatement"
	NodeWhile      NodeType = "WhileStatement"
	NodeFunction   NodeType = "FunctionStatement"
	NodeReturn     NodeType = "ReturnStatement"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// NodeID identifies an expression node independently of its structure, so
// two occurrences of the same name resolve independently. IDs are unique
// within one parse and assigned in the order nodes are built, so parsing
// the same tokens twice yields the same IDs.
type NodeID int

// IDs hands out NodeIDs. The zero value is ready to use; the first ID is 1.
type IDs struct {
	next NodeID
}

// Next returns a fresh NodeID.
func (g *IDs) Next() NodeID {
	g.next++
	return g.next
}

// Expr is implemented by every expression variant.
type Expr interface {
	Node
	ID() NodeID
	exprNode()
}

type exprImpl struct {
	nodeImpl
	id NodeID
}

func newExprImpl(kind NodeType, id NodeID) exprImpl {
	return exprImpl{nodeImpl: newNodeImpl(kind), id: id}
}

func (e exprImpl) ID() NodeID { return e.id }
func (exprImpl) exprNode()    {}

// Literal embeds a constant: nil, bool, float64 or string.
type Literal struct {
	exprImpl

	Value any
}

func NewLiteral(id NodeID, value any) *Literal {
	return &Literal{exprImpl: newExprImpl(NodeLiteral, id), Value: value}
}

type Grouping struct {
	exprImpl

	Inner Expr
}

func NewGrouping(id NodeID, inner Expr) *Grouping {
	return &Grouping{exprImpl: newExprImpl(NodeGrouping, id), Inner: inner}
}

type Unary struct {
	exprImpl

	Operator token.Token
	Operand  Expr
}

func NewUnary(id NodeID, operator token.Token, operand Expr) *Unary {
	return &Unary{exprImpl: newExprImpl(NodeUnary, id), Operator: operator, Operand: operand}
}

type Binary struct {
	exprImpl

	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewBinary(id NodeID, left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{exprImpl: newExprImpl(NodeBinary, id), Left: left, Operator: operator, Right: right}
}

// Logical is a short-circuiting `and`/`or`.
type Logical struct {
	exprImpl

	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewLogical(id NodeID, left Expr, operator token.Token, right Expr) *Logical {
	return &Logical{exprImpl: newExprImpl(NodeLogical, id), Left: left, Operator: operator, Right: right}
}

type Variable struct {
	exprImpl

	Name token.Token
}

func NewVariable(id NodeID, name token.Token) *Variable {
	return &Variable{exprImpl: newExprImpl(NodeVariable, id), Name: name}
}

type Assign struct {
	exprImpl

	Name  token.Token
	Value Expr
}

func NewAssign(id NodeID, name token.Token, value Expr) *Assign {
	return &Assign{exprImpl: newExprImpl(NodeAssign, id), Name: name, Value: value}
}

// Call keeps the closing paren for error locations.
type Call struct {
	exprImpl

	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

func NewCall(id NodeID, callee Expr, paren token.Token, arguments []Expr) *Call {
	return &Call{exprImpl: newExprImpl(NodeCall, id), Callee: callee, Paren: paren, Arguments: arguments}
}
