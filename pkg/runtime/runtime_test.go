package runtime

import (
	"errors"
	"math"
	"testing"

	"lox/interpreter-go/pkg/ast"
)

func TestEnvironmentDefineGetAssign(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", NumberValue{Val: 1})
	local := NewEnvironment(global)

	got, err := local.Get("a")
	if err != nil || got != (NumberValue{Val: 1}) {
		t.Fatalf("expected to read a through the chain, got %v %v", got, err)
	}
	if err := local.Assign("a", StringValue{Val: "x"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if local.Has("a") {
		t.Fatalf("assign must update the defining scope, not create a local")
	}
	if got, _ := global.Get("a"); got != (StringValue{Val: "x"}) {
		t.Fatalf("expected global to be updated, got %v", got)
	}
}

func TestEnvironmentUndefined(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))
	if _, err := env.Get("missing"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
	if err := env.Assign("missing", NilValue{}); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable on assign, got %v", err)
	}
	if env.Has("missing") || env.Parent().Has("missing") {
		t.Fatalf("failed assignment must not declare the name")
	}
}

func TestEnvironmentDeleteOnlyTouchesCurrentScope(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", NumberValue{Val: 1})
	local := NewEnvironment(global)
	local.Define("a", NumberValue{Val: 2})

	local.Delete("a")
	local.Delete("never-bound")
	if local.Has("a") {
		t.Fatalf("expected local binding to be removed")
	}
	if got, err := local.Get("a"); err != nil || got != (NumberValue{Val: 1}) {
		t.Fatalf("expected outer binding to survive, got %v %v", got, err)
	}
}

func TestEnvironmentDistanceAccess(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", NumberValue{Val: 1})
	middle := NewEnvironment(global)
	middle.Define("x", NumberValue{Val: 2})
	inner := NewEnvironment(middle)

	if inner.Ancestor(2) != global || inner.Ancestor(0) != inner {
		t.Fatalf("unexpected ancestors")
	}
	if inner.Ancestor(3) != nil {
		t.Fatalf("expected nil past the root")
	}
	if got, _ := inner.GetAt(2, "x"); got != (NumberValue{Val: 1}) {
		t.Fatalf("GetAt(2) should skip the shadowing binding, got %v", got)
	}
	if err := inner.AssignAt(1, "x", NumberValue{Val: 5}); err != nil {
		t.Fatalf("AssignAt: %v", err)
	}
	if got, _ := middle.Get("x"); got != (NumberValue{Val: 5}) {
		t.Fatalf("expected middle x to be 5, got %v", got)
	}
	if _, err := inner.GetAt(0, "x"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("GetAt must not search outward, got %v", err)
	}
	if err := inner.AssignAt(5, "x", NilValue{}); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("AssignAt past the root should fail, got %v", err)
	}
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		value Value
		want  bool
	}{
		{NilValue{}, false},
		{nil, false},
		{BoolValue{Val: false}, false},
		{BoolValue{Val: true}, true},
		{NumberValue{Val: 0}, true},
		{StringValue{Val: ""}, true},
		{&NativeFunctionValue{Name: "clock"}, true},
	}
	for _, tc := range cases {
		if got := IsTruthy(tc.value); got != tc.want {
			t.Fatalf("IsTruthy(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestValuesEqual(t *testing.T) {
	fn := &FunctionValue{Declaration: ast.Fn("f", nil)}
	other := &FunctionValue{Declaration: fn.Declaration}
	native := &NativeFunctionValue{Name: "clock"}
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil nil", NilValue{}, NilValue{}, true},
		{"nil false", NilValue{}, BoolValue{Val: false}, false},
		{"numbers", NumberValue{Val: 1}, NumberValue{Val: 1}, true},
		{"number string", NumberValue{Val: 1}, StringValue{Val: "1"}, false},
		{"strings", StringValue{Val: "a"}, StringValue{Val: "a"}, true},
		{"bools", BoolValue{Val: true}, BoolValue{Val: false}, false},
		{"nan", NumberValue{Val: math.NaN()}, NumberValue{Val: math.NaN()}, false},
		{"same function", fn, fn, true},
		{"distinct closures", fn, other, false},
		{"same native", native, native, true},
		{"distinct natives", native, &NativeFunctionValue{Name: "clock"}, false},
	}
	for _, tc := range cases {
		if got := ValuesEqual(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestValueToString(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{NilValue{}, "nil"},
		{BoolValue{Val: true}, "true"},
		{NumberValue{Val: 3}, "3"},
		{NumberValue{Val: 2.5}, "2.5"},
		{NumberValue{Val: -0.125}, "-0.125"},
		{NumberValue{Val: 3628800}, "3628800"},
		{NumberValue{Val: math.Inf(1)}, "inf"},
		{NumberValue{Val: math.Inf(-1)}, "-inf"},
		{NumberValue{Val: math.NaN()}, "NaN"},
		{StringValue{Val: "hi"}, "hi"},
		{&FunctionValue{Declaration: ast.Fn("add", []string{"a", "b"})}, "<fn add>"},
		{&NativeFunctionValue{Name: "clock"}, "<native fn>"},
	}
	for _, tc := range cases {
		if got := ValueToString(tc.value); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestCallableArity(t *testing.T) {
	var fn Callable = &FunctionValue{Declaration: ast.Fn("add", []string{"a", "b"})}
	var native Callable = &NativeFunctionValue{Name: "clock", ParamCount: 0}
	if fn.Arity() != 2 || native.Arity() != 0 {
		t.Fatalf("unexpected arities %d %d", fn.Arity(), native.Arity())
	}
}

func TestFromLiteral(t *testing.T) {
	if FromLiteral(nil) != (NilValue{}) || FromLiteral(true) != (BoolValue{Val: true}) ||
		FromLiteral(1.5) != (NumberValue{Val: 1.5}) || FromLiteral("s") != (StringValue{Val: "s"}) {
		t.Fatalf("unexpected literal conversion")
	}
}
