package ast

import (
	"sync/atomic"

	"lox/interpreter-go/pkg/token"
)

// Builders for hand-written trees, mostly used by tests. Nodes built here
// draw their IDs from a shared counter, so they never collide with each
// other but may collide with IDs from a parse.

var dslIDs atomic.Int64

func nextID() NodeID {
	return NodeID(dslIDs.Add(1))
}

var operatorKinds = map[string]token.Kind{
	"-":   token.Minus,
	"+":   token.Plus,
	"/":   token.Slash,
	"*":   token.Star,
	"!":   token.Bang,
	"!=":  token.BangEqual,
	"==":  token.EqualEqual,
	">":   token.Greater,
	">=":  token.GreaterEqual,
	"<":   token.Less,
	"<=":  token.LessEqual,
	"and": token.And,
	"or":  token.Or,
}

// Op builds an operator token from its lexeme. Unknown lexemes panic.
func Op(lexeme string) token.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		panic("ast: unknown operator " + lexeme)
	}
	return token.New(kind, lexeme, 0)
}

// Name builds an identifier token.
func Name(name string) token.Token {
	return token.New(token.Identifier, name, 0)
}

// Literal and identifier helpers.

func Num(value float64) *Literal { return NewLiteral(nextID(), value) }

func Str(value string) *Literal { return NewLiteral(nextID(), value) }

func Bool(value bool) *Literal { return NewLiteral(nextID(), value) }

func Nil() *Literal { return NewLiteral(nextID(), nil) }

func ID(name string) *Variable { return NewVariable(nextID(), Name(name)) }

// Expression helpers.

func Group(inner Expr) *Grouping { return NewGrouping(nextID(), inner) }

func Neg(operand Expr) *Unary { return NewUnary(nextID(), Op("-"), operand) }

func Not(operand Expr) *Unary { return NewUnary(nextID(), Op("!"), operand) }

func Bin(op string, left, right Expr) *Binary {
	return NewBinary(nextID(), left, Op(op), right)
}

func And(left, right Expr) *Logical { return NewLogical(nextID(), left, Op("and"), right) }

func Or(left, right Expr) *Logical { return NewLogical(nextID(), left, Op("or"), right) }

func Set(name string, value Expr) *Assign { return NewAssign(nextID(), Name(name), value) }

func CallExpr(callee Expr, args ...Expr) *Call {
	return NewCall(nextID(), callee, token.New(token.RightParen, ")", 0), args)
}

// Statement helpers.

func Expression(expr Expr) *ExpressionStmt { return NewExpressionStmt(expr) }

func Print(expr Expr) *PrintStmt { return NewPrintStmt(expr) }

func Var(name string, initializer Expr) *VarStmt { return NewVarStmt(Name(name), initializer) }

func Block(stmts ...Stmt) *BlockStmt { return NewBlockStmt(stmts) }

func If(condition Expr, then Stmt, otherwise Stmt) *IfStmt {
	return NewIfStmt(condition, then, otherwise)
}

func While(condition Expr, body Stmt) *WhileStmt { return NewWhileStmt(condition, body) }

func Fn(name string, params []string, body ...Stmt) *FunctionStmt {
	tokens := make([]token.Token, len(params))
	for i, param := range params {
		tokens[i] = Name(param)
	}
	return NewFunctionStmt(Name(name), tokens, body)
}

func Ret(value Expr) *ReturnStmt {
	return NewReturnStmt(token.New(token.Return, "return", 0), value)
}
