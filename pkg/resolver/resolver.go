// Package resolver performs the static pass between parsing and evaluation.
// It binds every local variable reference to the number of scopes between
// the reference and its declaration, and reports the scoping errors that
// can be detected without running the program.
//
// The top level is not a scope here: names that are not found in any
// enclosing local scope are left unbound and looked up dynamically as
// globals at run time.
package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

type DiagnosticKind string

const (
	SelfReferentialInitializer DiagnosticKind = "SelfReferentialInitializer"
	DuplicateVariableInScope   DiagnosticKind = "DuplicateVariableInScope"
	ReturnOutsideFunction      DiagnosticKind = "ReturnOutsideFunction"
)

// Diagnostic is a static scoping error.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Token   token.Token
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Token.Line, d.Token.Where(), d.Message)
}

// Bindings maps a Variable or Assign node to its scope distance. Nodes that
// have no entry refer to globals.
type Bindings map[ast.NodeID]int

// Distance returns the recorded hop count for expr.
func (b Bindings) Distance(expr ast.Expr) (int, bool) {
	depth, ok := b[expr.ID()]
	return depth, ok
}

type functionKind int

const (
	functionNone functionKind = iota
	functionBody
)

// scope tracks each local name as declared (false) or defined (true).
type scope map[string]bool

// Resolver walks a program once per Resolve call.
type Resolver struct {
	scopes      []scope
	function    functionKind
	bindings    Bindings
	diagnostics []*Diagnostic
}

func New() *Resolver {
	return &Resolver{}
}

// Resolve is a convenience wrapper for New().Resolve(stmts).
func Resolve(stmts []ast.Stmt) (Bindings, []*Diagnostic) {
	return New().Resolve(stmts)
}

// Resolve walks stmts and returns the distance map together with any
// diagnostics. The map is complete even when diagnostics were reported.
func (r *Resolver) Resolve(stmts []ast.Stmt) (Bindings, []*Diagnostic) {
	r.scopes = nil
	r.function = functionNone
	r.bindings = make(Bindings)
	r.diagnostics = nil
	r.resolveStatements(stmts)
	return r.bindings, r.diagnostics
}

func (r *Resolver) resolveStatements(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *ast.FunctionStmt:
		// Defined before the body so the function can call itself.
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s)
	case *ast.ExpressionStmt:
		r.resolveExpression(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpression(s.Expression)
	case *ast.IfStmt:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.ReturnStmt:
		if r.function == functionNone {
			r.report(ReturnOutsideFunction, s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt) {
	enclosing := r.function
	r.function = functionBody
	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()
	r.function = enclosing
}

func (r *Resolver) resolveExpression(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.report(SelfReferentialInitializer, e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Logical:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Unary:
		r.resolveExpression(e.Operand)
	case *ast.Grouping:
		r.resolveExpression(e.Inner)
	case *ast.Call:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.Literal:
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
// Names found in no local scope are left to the global lookup.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.bindings[expr.ID()] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	current := r.scopes[len(r.scopes)-1]
	if _, exists := current[name.Lexeme]; exists {
		r.report(DuplicateVariableInScope, name, "Already a variable with this name in this scope.")
	}
	current[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) report(kind DiagnosticKind, tok token.Token, message string) {
	r.diagnostics = append(r.diagnostics, &Diagnostic{Kind: kind, Message: message, Token: tok})
}
