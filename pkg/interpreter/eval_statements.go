package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

// completion reports how a statement finished. A return statement unwinds
// through enclosing blocks and loops as a completion, never as an error.
type completion struct {
	returning bool
	value     runtime.Value
}

var normal = completion{}

func (i *Interpreter) execute(stmt ast.Stmt, env *runtime.Environment) (completion, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluateExpression(s.Expression, env)
		return normal, err
	case *ast.PrintStmt:
		return i.executePrint(s, env)
	case *ast.VarStmt:
		return i.executeVar(s, env)
	case *ast.BlockStmt:
		return i.executeBlock(s.Statements, runtime.NewEnvironment(env))
	case *ast.IfStmt:
		return i.executeIf(s, env)
	case *ast.WhileStmt:
		return i.executeWhile(s, env)
	case *ast.FunctionStmt:
		env.Define(s.Name.Lexeme, &runtime.FunctionValue{Declaration: s, Closure: env})
		return normal, nil
	case *ast.ReturnStmt:
		var value runtime.Value = runtime.NilValue{}
		if s.Value != nil {
			v, err := i.evaluateExpression(s.Value, env)
			if err != nil {
				return normal, err
			}
			value = v
		}
		return completion{returning: true, value: value}, nil
	default:
		return normal, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

// executeBlock runs stmts in env and stops at the first return or error.
// The caller's environment is untouched, so nothing needs restoring.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *runtime.Environment) (completion, error) {
	for _, stmt := range stmts {
		done, err := i.execute(stmt, env)
		if err != nil || done.returning {
			return done, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executePrint(s *ast.PrintStmt, env *runtime.Environment) (completion, error) {
	value, err := i.evaluateExpression(s.Expression, env)
	if err != nil {
		return normal, err
	}
	if _, err := fmt.Fprintln(i.out, runtime.ValueToString(value)); err != nil {
		return normal, fmt.Errorf("print: %w", err)
	}
	return normal, nil
}

func (i *Interpreter) executeVar(s *ast.VarStmt, env *runtime.Environment) (completion, error) {
	var value runtime.Value = runtime.NilValue{}
	if s.Initializer != nil {
		// A global initializer that names the variable being declared sees
		// nil rather than failing. The placeholder goes away if the
		// initializer fails.
		prebound := env == i.global && !env.Has(s.Name.Lexeme)
		if prebound {
			env.Define(s.Name.Lexeme, runtime.NilValue{})
		}
		v, err := i.evaluateExpression(s.Initializer, env)
		if err != nil {
			if prebound {
				env.Delete(s.Name.Lexeme)
			}
			return normal, err
		}
		value = v
	}
	env.Define(s.Name.Lexeme, value)
	return normal, nil
}

func (i *Interpreter) executeIf(s *ast.IfStmt, env *runtime.Environment) (completion, error) {
	condition, err := i.evaluateExpression(s.Condition, env)
	if err != nil {
		return normal, err
	}
	if runtime.IsTruthy(condition) {
		return i.execute(s.Then, env)
	}
	if s.Else != nil {
		return i.execute(s.Else, env)
	}
	return normal, nil
}

func (i *Interpreter) executeWhile(s *ast.WhileStmt, env *runtime.Environment) (completion, error) {
	for {
		condition, err := i.evaluateExpression(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if !runtime.IsTruthy(condition) {
			return normal, nil
		}
		done, err := i.execute(s.Body, env)
		if err != nil || done.returning {
			return done, err
		}
	}
}
