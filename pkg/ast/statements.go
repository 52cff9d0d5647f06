package ast

import "lox/interpreter-go/pkg/token"

// Stmt is implemented by every statement variant.
type Stmt interface {
	Node
	stmtNode()
}

type stmtImpl struct {
	nodeImpl
}

func newStmtImpl(kind NodeType) stmtImpl {
	return stmtImpl{nodeImpl: newNodeImpl(kind)}
}

func (stmtImpl) stmtNode() {}

type ExpressionStmt struct {
	stmtImpl

	Expression Expr
}

func NewExpressionStmt(expr Expr) *ExpressionStmt {
	return &ExpressionStmt{stmtImpl: newStmtImpl(NodeExpression), Expression: expr}
}

type PrintStmt struct {
	stmtImpl

	Expression Expr
}

func NewPrintStmt(expr Expr) *PrintStmt {
	return &PrintStmt{stmtImpl: newStmtImpl(NodePrint), Expression: expr}
}

// VarStmt declares Name; Initializer is nil when omitted.
type VarStmt struct {
	stmtImpl

	Name        token.Token
	Initializer Expr
}

func NewVarStmt(name token.Token, initializer Expr) *VarStmt {
	return &VarStmt{stmtImpl: newStmtImpl(NodeVar), Name: name, Initializer: initializer}
}

type BlockStmt struct {
	stmtImpl

	Statements []Stmt
}

func NewBlockStmt(statements []Stmt) *BlockStmt {
	return &BlockStmt{stmtImpl: newStmtImpl(NodeBlock), Statements: statements}
}

// IfStmt has a nil Else when there is no else branch.
type IfStmt struct {
	stmtImpl

	Condition Expr
	Then      Stmt
	Else      Stmt
}

func NewIfStmt(condition Expr, then Stmt, otherwise Stmt) *IfStmt {
	return &IfStmt{stmtImpl: newStmtImpl(NodeIf), Condition: condition, Then: then, Else: otherwise}
}

type WhileStmt struct {
	stmtImpl

	Condition Expr
	Body      Stmt
}

func NewWhileStmt(condition Expr, body Stmt) *WhileStmt {
	return &WhileStmt{stmtImpl: newStmtImpl(NodeWhile), Condition: condition, Body: body}
}

type FunctionStmt struct {
	stmtImpl

	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func NewFunctionStmt(name token.Token, params []token.Token, body []Stmt) *FunctionStmt {
	return &FunctionStmt{stmtImpl: newStmtImpl(NodeFunction), Name: name, Params: params, Body: body}
}

// ReturnStmt keeps the keyword for error locations; Value may be nil.
type ReturnStmt struct {
	stmtImpl

	Keyword token.Token
	Value   Expr
}

func NewReturnStmt(keyword token.Token, value Expr) *ReturnStmt {
	return &ReturnStmt{stmtImpl: newStmtImpl(NodeReturn), Keyword: keyword, Value: value}
}
