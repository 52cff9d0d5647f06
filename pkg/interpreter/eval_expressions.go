package interpreter

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return runtime.FromLiteral(n.Value), nil
	case *ast.Grouping:
		return i.evaluateExpression(n.Inner, env)
	case *ast.Unary:
		return i.evaluateUnary(n, env)
	case *ast.Binary:
		return i.evaluateBinary(n, env)
	case *ast.Logical:
		return i.evaluateLogical(n, env)
	case *ast.Variable:
		return i.lookUpVariable(n, n.Name, env)
	case *ast.Assign:
		return i.evaluateAssign(n, env)
	case *ast.Call:
		return i.evaluateCall(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", node)
	}
}

func (i *Interpreter) evaluateUnary(n *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(operand)}, nil
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, i.fail(OperandMustBeNumber, n.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", n.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinary(n *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Kind {
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.ValuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.ValuesEqual(left, right)}, nil
	case token.Plus:
		if ls, ok := left.(runtime.StringValue); ok {
			if rs, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		l, r, ok := numberOperands(left, right)
		if !ok {
			return nil, i.fail(OperandsMustBeNumbersOrStrings, n.Operator, "Operands must be two numbers or two strings.")
		}
		return runtime.NumberValue{Val: l + r}, nil
	}

	l, r, ok := numberOperands(left, right)
	if !ok {
		return nil, i.fail(OperandsMustBeNumbers, n.Operator, "Operands must be numbers.")
	}
	switch n.Operator.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		// IEEE semantics: x/0 is ±inf and 0/0 is NaN.
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", n.Operator.Lexeme)
	}
}

func numberOperands(left, right runtime.Value) (float64, float64, bool) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	return l.Val, r.Val, lok && rok
}

func (i *Interpreter) evaluateLogical(n *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	truthy := runtime.IsTruthy(left)
	if n.Operator.Kind == token.Or && truthy {
		return left, nil
	}
	if n.Operator.Kind == token.And && !truthy {
		return left, nil
	}
	return i.evaluateExpression(n.Right, env)
}

func (i *Interpreter) lookUpVariable(expr ast.Expr, name token.Token, env *runtime.Environment) (runtime.Value, error) {
	var (
		value runtime.Value
		err   error
	)
	if distance, ok := i.locals[expr.ID()]; ok {
		value, err = env.GetAt(distance, name.Lexeme)
	} else {
		value, err = i.global.Get(name.Lexeme)
	}
	if err != nil {
		return nil, i.undefined(name, err)
	}
	return value, nil
}

func (i *Interpreter) evaluateAssign(n *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(n.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[n.ID()]; ok {
		err = env.AssignAt(distance, n.Name.Lexeme, value)
	} else {
		err = i.global.Assign(n.Name.Lexeme, value)
	}
	if err != nil {
		return nil, i.undefined(n.Name, err)
	}
	return value, nil
}

func (i *Interpreter) undefined(name token.Token, err error) error {
	if errors.Is(err, runtime.ErrUndefinedVariable) {
		return i.fail(UndefinedVariable, name, "Undefined variable '%s'.", name.Lexeme)
	}
	return err
}

func (i *Interpreter) evaluateCall(n *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, argExpr := range n.Arguments {
		arg, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, i.fail(NotCallable, n.Paren, "Can only call functions.")
	}
	if len(args) != fn.Arity() {
		return nil, i.fail(ArityMismatch, n.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	switch f := fn.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(f, args, n.Paren)
	case *runtime.NativeFunctionValue:
		return i.callNative(f, args, n.Paren)
	default:
		return nil, fmt.Errorf("unsupported callable %T", fn)
	}
}

// callFunction binds arguments in a fresh environment whose parent is the
// closure, not the caller's environment.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	if i.depth >= i.maxDepth {
		return nil, i.fail(StackOverflow, paren, "Stack overflow.")
	}
	i.depth++
	defer func() { i.depth-- }()

	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}
	done, err := i.executeBlock(fn.Declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if done.returning {
		return done.value, nil
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) callNative(fn *runtime.NativeFunctionValue, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	ctx := &runtime.NativeCallContext{Env: i.global, Output: i.out}
	result, err := fn.Impl(ctx, args)
	if err != nil {
		rerr := i.fail(NativeFailure, paren, "%s: %s", fn.Name, err.Error())
		rerr.Cause = err
		return nil, rerr
	}
	if result == nil {
		return runtime.NilValue{}, nil
	}
	return result, nil
}
