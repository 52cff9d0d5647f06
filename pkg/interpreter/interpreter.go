package interpreter

import (
	"fmt"
	"io"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// DefaultMaxCallDepth is used when Options.MaxCallDepth is not positive.
const DefaultMaxCallDepth = 2048

type ErrorKind string

const (
	OperandMustBeNumber            ErrorKind = "OperandMustBeNumber"
	OperandsMustBeNumbers          ErrorKind = "OperandsMustBeNumbers"
	OperandsMustBeNumbersOrStrings ErrorKind = "OperandsMustBeNumbersOrStrings"
	UndefinedVariable              ErrorKind = "UndefinedVariable"
	NotCallable                    ErrorKind = "NotCallable"
	ArityMismatch                  ErrorKind = "ArityMismatch"
	StackOverflow                  ErrorKind = "StackOverflow"
	NativeFailure                  ErrorKind = "NativeFailure"
)

// RuntimeError aborts the current Interpret call. Token locates the
// offending operator, name or call.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Token   token.Token
	// Cause is set for NativeFailure.
	Cause error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] Runtime error: %s", e.Token.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

// Options configures a new Interpreter.
type Options struct {
	// Output receives print statements; nil discards them.
	Output io.Writer
	// MaxCallDepth bounds nested user function calls.
	MaxCallDepth int
	// Natives are bound in the global environment before anything runs.
	Natives []*runtime.NativeFunctionValue
}

// Interpreter evaluates resolved programs against one global environment
// that survives across Interpret calls.
type Interpreter struct {
	global   *runtime.Environment
	out      io.Writer
	locals   map[ast.NodeID]int
	depth    int
	maxDepth int
}

// New returns an interpreter with the configured natives installed.
func New(opts Options) *Interpreter {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	maxDepth := opts.MaxCallDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	i := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		out:      out,
		locals:   make(map[ast.NodeID]int),
		maxDepth: maxDepth,
	}
	for _, native := range opts.Natives {
		i.DefineNative(native)
	}
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// DefineNative binds a host function under its name.
func (i *Interpreter) DefineNative(native *runtime.NativeFunctionValue) {
	i.global.Define(native.Name, native)
}

// Interpret executes stmts in order. bindings must come from resolving
// stmts; their entries are kept so functions declared by earlier calls keep
// resolving correctly. The first runtime error stops execution and is
// returned; statements before it have taken effect.
func (i *Interpreter) Interpret(stmts []ast.Stmt, bindings resolver.Bindings) error {
	for id, depth := range bindings {
		i.locals[id] = depth
	}
	i.depth = 0
	for _, stmt := range stmts {
		done, err := i.execute(stmt, i.global)
		if err != nil {
			return err
		}
		if done.returning {
			// Only reachable when resolution was skipped.
			return nil
		}
	}
	return nil
}

func (i *Interpreter) fail(kind ErrorKind, tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Token: tok}
}
