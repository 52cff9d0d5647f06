package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format renders a program as one parenthesized form per statement, one
// statement per line. The output is stable for a given tree and is meant
// for tests and debugging, not for round-tripping.
func Format(stmts []Stmt) string {
	var b strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeStmt(&b, stmt)
	}
	return b.String()
}

// FormatExpr renders a single expression.
func FormatExpr(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeStmt(b *strings.Builder, stmt Stmt) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		writeForm(b, ";", func() { writeExpr(b, s.Expression) })
	case *PrintStmt:
		writeForm(b, "print", func() { writeExpr(b, s.Expression) })
	case *VarStmt:
		writeForm(b, "var", func() {
			b.WriteString(s.Name.Lexeme)
			if s.Initializer != nil {
				b.WriteByte(' ')
				writeExpr(b, s.Initializer)
			}
		})
	case *BlockStmt:
		writeForm(b, "block", func() { writeStmts(b, s.Statements) })
	case *IfStmt:
		writeForm(b, "if", func() {
			writeExpr(b, s.Condition)
			b.WriteByte(' ')
			writeStmt(b, s.Then)
			if s.Else != nil {
				b.WriteByte(' ')
				writeStmt(b, s.Else)
			}
		})
	case *WhileStmt:
		writeForm(b, "while", func() {
			writeExpr(b, s.Condition)
			b.WriteByte(' ')
			writeStmt(b, s.Body)
		})
	case *FunctionStmt:
		writeForm(b, "fun", func() {
			b.WriteString(s.Name.Lexeme)
			b.WriteString(" (")
			for i, param := range s.Params {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(param.Lexeme)
			}
			b.WriteByte(')')
			if len(s.Body) > 0 {
				b.WriteByte(' ')
				writeStmts(b, s.Body)
			}
		})
	case *ReturnStmt:
		b.WriteString("(return")
		if s.Value != nil {
			b.WriteByte(' ')
			writeExpr(b, s.Value)
		}
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<unknown %T>", stmt)
	}
}

func writeStmts(b *strings.Builder, stmts []Stmt) {
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeStmt(b, stmt)
	}
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		b.WriteString(formatLiteral(e.Value))
	case *Grouping:
		writeForm(b, "group", func() { writeExpr(b, e.Inner) })
	case *Unary:
		writeForm(b, e.Operator.Lexeme, func() { writeExpr(b, e.Operand) })
	case *Binary:
		writeForm(b, e.Operator.Lexeme, func() {
			writeExpr(b, e.Left)
			b.WriteByte(' ')
			writeExpr(b, e.Right)
		})
	case *Logical:
		writeForm(b, e.Operator.Lexeme, func() {
			writeExpr(b, e.Left)
			b.WriteByte(' ')
			writeExpr(b, e.Right)
		})
	case *Variable:
		b.WriteString(e.Name.Lexeme)
	case *Assign:
		writeForm(b, "=", func() {
			b.WriteString(e.Name.Lexeme)
			b.WriteByte(' ')
			writeExpr(b, e.Value)
		})
	case *Call:
		writeForm(b, "call", func() {
			writeExpr(b, e.Callee)
			for _, arg := range e.Arguments {
				b.WriteByte(' ')
				writeExpr(b, arg)
			}
		})
	case nil:
		b.WriteString("<nil>")
	default:
		fmt.Fprintf(b, "<unknown %T>", expr)
	}
}

func writeForm(b *strings.Builder, head string, body func()) {
	b.WriteByte('(')
	b.WriteString(head)
	b.WriteByte(' ')
	body()
	b.WriteByte(')')
}

func formatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		switch {
		case math.IsInf(v, 1):
			return "inf"
		case math.IsInf(v, -1):
			return "-inf"
		case math.IsNaN(v):
			return "NaN"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
