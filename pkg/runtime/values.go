package runtime

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"lox/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// FromLiteral converts a parsed literal payload into a Value.
func FromLiteral(literal any) Value {
	switch v := literal.(type) {
	case bool:
		return BoolValue{Val: v}
	case float64:
		return NumberValue{Val: v}
	case string:
		return StringValue{Val: v}
	default:
		return NilValue{}
	}
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// Callable is implemented by the two function kinds. It is sealed.
type Callable interface {
	Value
	Arity() int
	callable()
}

// FunctionValue is a user function paired with the environment it was
// declared in.
type FunctionValue struct {
	Declaration *ast.FunctionStmt
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind   { return KindFunction }
func (v *FunctionValue) Arity() int   { return len(v.Declaration.Params) }
func (v *FunctionValue) Name() string { return v.Declaration.Name.Lexeme }
func (*FunctionValue) callable()      {}

// NativeCallContext gives natives access to the interpreter's globals and
// output sink.
type NativeCallContext struct {
	Env    *Environment
	Output io.Writer
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue wraps a host function. Natives are compared by
// identity, so they are always handled through a pointer.
type NativeFunctionValue struct {
	Name       string
	ParamCount int
	Impl       NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }
func (v *NativeFunctionValue) Arity() int { return v.ParamCount }
func (*NativeFunctionValue) callable()    {}

//-----------------------------------------------------------------------------
// Semantics shared by the interpreter and its callers
//-----------------------------------------------------------------------------

// IsTruthy reports false for nil and false, true for everything else.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// ValuesEqual compares without coercion. Values of different kinds are never
// equal, and functions are equal only to themselves. NaN is not equal to
// itself.
func ValuesEqual(a, b Value) bool {
	if a == nil {
		a = NilValue{}
	}
	if b == nil {
		b = NilValue{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NilValue:
		return true
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case *FunctionValue:
		return av == b.(*FunctionValue)
	case *NativeFunctionValue:
		return av == b.(*NativeFunctionValue)
	default:
		return false
	}
}

// ValueToString renders a value the way print shows it.
func ValueToString(v Value) string {
	switch val := v.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case NumberValue:
		return FormatNumber(val.Val)
	case StringValue:
		return val.Val
	case *FunctionValue:
		return fmt.Sprintf("<fn %s>", val.Name())
	case *NativeFunctionValue:
		return "<native fn>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
