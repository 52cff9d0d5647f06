package driver

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func newTestSession(t *testing.T, cfg Config, opts ...Option) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	session, err := NewSession(cfg, append([]Option{WithOutput(&out)}, opts...)...)
	require.NoError(t, err)
	return session, &out
}

func TestSessionKeepsGlobalsBetweenUnits(t *testing.T) {
	session, out := newTestSession(t, DefaultConfig())
	require.NoError(t, session.Run("var total = 0;"))
	require.NoError(t, session.Run("fun add(n) { var scaled = n * 2; total = total + scaled; }"))
	require.NoError(t, session.Run("add(1); add(2);"))
	require.NoError(t, session.Run("print total;"))
	require.Equal(t, "6\n", out.String())
	require.Equal(t, []string{"add", "clock", "total"}, session.Globals())
}

func TestSessionDiagnosticsPreventExecution(t *testing.T) {
	session, out := newTestSession(t, DefaultConfig())
	err := session.Run("print \"side effect\";\nprint ;")

	var diags *Diagnostics
	require.True(t, errors.As(err, &diags))
	require.Equal(t, 1, diags.Len())
	require.Len(t, diags.Parse, 1)
	require.Equal(t, parser.UnexpectedToken, diags.Parse[0].Kind)
	require.Empty(t, out.String())
}

func TestSessionCollectsAllStages(t *testing.T) {
	session, _ := newTestSession(t, DefaultConfig())
	_, err := session.Compile("@\nprint ;\nreturn;")

	var diags *Diagnostics
	require.True(t, errors.As(err, &diags))
	require.Len(t, diags.Scan, 1)
	require.Equal(t, scanner.UnexpectedCharacter, diags.Scan[0].Kind)
	require.Len(t, diags.Parse, 1)
	require.Len(t, diags.Resolve, 1)
	require.Equal(t, resolver.ReturnOutsideFunction, diags.Resolve[0].Kind)
	require.Equal(t, []string{
		"[line 1] Error: Unexpected character '@'.",
		"[line 2] Error at ';': Expect expression.",
		"[line 3] Error at 'return': Can't return from top-level code.",
	}, diags.Lines())
}

func TestSessionRuntimeErrorKeepsEarlierEffects(t *testing.T) {
	session, out := newTestSession(t, DefaultConfig())
	err := session.Run("var x = 1; x = x + 1; print x; x();")

	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, interpreter.NotCallable, rerr.Kind)
	require.Equal(t, "2\n", out.String())

	require.NoError(t, session.Run("print x;"))
	require.Equal(t, "2\n2\n", out.String())
}

func TestSessionFailedGlobalInitializerLeavesNameUnbound(t *testing.T) {
	session, out := newTestSession(t, DefaultConfig())
	err := session.Run("var x = missing();")
	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, "Undefined variable 'missing'.", rerr.Message)
	require.NotContains(t, session.Globals(), "x")

	err = session.Run("print x;")
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, interpreter.UndefinedVariable, rerr.Kind)
	require.Equal(t, "Undefined variable 'x'.", rerr.Message)
	require.Empty(t, out.String())

	require.NoError(t, session.Run("var y = 1;"))
	require.Error(t, session.Run("var y = missing();"))
	require.NoError(t, session.Run("print y;"))
	require.Equal(t, "1\n", out.String())
}

func TestSessionCachesCompiledPrograms(t *testing.T) {
	session, out := newTestSession(t, DefaultConfig())
	first, err := session.Compile("print 1;")
	require.NoError(t, err)
	second, err := session.Compile("print 1;")
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, session.CachedPrograms())

	require.NoError(t, session.Execute(first))
	require.NoError(t, session.Execute(second))
	require.Equal(t, "1\n1\n", out.String())

	_, err = session.Compile("print ;")
	require.Error(t, err)
	require.Equal(t, 1, session.CachedPrograms(), "failed compiles are not cached")
}

func TestSessionCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 2
	session, _ := newTestSession(t, cfg)
	a, err := session.Compile("1;")
	require.NoError(t, err)
	_, err = session.Compile("2;")
	require.NoError(t, err)
	_, err = session.Compile("1;")
	require.NoError(t, err)
	_, err = session.Compile("3;")
	require.NoError(t, err)
	require.Equal(t, 2, session.CachedPrograms())

	again, err := session.Compile("1;")
	require.NoError(t, err)
	require.Same(t, a, again)
}

func TestSessionCacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	session, out := newTestSession(t, cfg)
	first, err := session.Compile("fun f() { return 1; } print f();")
	require.NoError(t, err)
	second, err := session.Compile("fun f() { return 1; } print f();")
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.Equal(t, first.Fingerprint, second.Fingerprint)
	require.Zero(t, session.CachedPrograms())

	require.NoError(t, session.Execute(first))
	require.NoError(t, session.Execute(second))
	require.Equal(t, "1\n1\n", out.String())
}

func TestSessionNatives(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Natives.Clock = false
	double := &runtime.NativeFunctionValue{
		Name:       "double",
		ParamCount: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, ok := args[0].(runtime.NumberValue)
			if !ok {
				return nil, errors.New("expected a number")
			}
			return runtime.NumberValue{Val: n.Val * 2}, nil
		},
	}
	session, out := newTestSession(t, cfg, WithNatives(double))
	require.Equal(t, []string{"double"}, session.Globals())
	require.NoError(t, session.Run("print double(21);"))
	require.Equal(t, "42\n", out.String())

	err := session.Run(`double("x");`)
	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, interpreter.NativeFailure, rerr.Kind)
	require.Equal(t, "double: expected a number", rerr.Message)

	err = session.Run("clock();")
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, interpreter.UndefinedVariable, rerr.Kind)
}

func TestSessionMaxCallDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCallDepth = 10
	session, _ := newTestSession(t, cfg)
	require.NoError(t, session.Run("fun down(n) { if (n > 0) down(n - 1); } down(9);"))

	err := session.Run("down(10);")
	var rerr *interpreter.RuntimeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, interpreter.StackOverflow, rerr.Kind)
}

func TestSessionLogsPipelineEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "debug"
	var logs bytes.Buffer
	session, _ := newTestSession(t, cfg, WithLogger(NewLogger(&logs, cfg)))

	require.NoError(t, session.Run("print 1;"))
	require.NoError(t, session.Run("print 1;"))
	require.Error(t, session.Run("print ;"))
	require.Error(t, session.Run("nil();"))

	text := logs.String()
	require.Contains(t, text, "compiled program")
	require.Contains(t, text, "program cache hit")
	require.Contains(t, text, "compile failed")
	require.Contains(t, text, "runtime error")
	require.Contains(t, text, "kind=NotCallable")
}

func TestSessionDefaultLogLevelHidesDebug(t *testing.T) {
	cfg := DefaultConfig()
	var logs bytes.Buffer
	session, _ := newTestSession(t, cfg, WithLogger(NewLogger(&logs, cfg)))
	require.NoError(t, session.Run("print 1;"))
	require.NotContains(t, logs.String(), "compiled program")
}

func TestCompileIsDeterministic(t *testing.T) {
	source := `
var g = 1;
fun outer(a) {
  var b = a + g;
  fun inner() { return a + b; }
  for (var i = 0; i < 2; i = i + 1) { b = b + i; }
  return inner;
}
print outer(2)();`

	compile := func() *Program {
		cfg := DefaultConfig()
		cfg.CacheSize = 0
		session, _ := newTestSession(t, cfg)
		prog, err := session.Compile(source)
		require.NoError(t, err)
		return prog
	}
	first, second := compile(), compile()
	opts := cmp.Exporter(func(reflect.Type) bool { return true })
	if diff := cmp.Diff(first.Statements, second.Statements, opts); diff != "" {
		t.Fatalf("statements differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Bindings, second.Bindings); diff != "" {
		t.Fatalf("bindings differ (-first +second):\n%s", diff)
	}
	require.NotEmpty(t, first.Bindings)
}

func TestExecuteNilProgram(t *testing.T) {
	session, _ := newTestSession(t, DefaultConfig())
	require.Error(t, session.Execute(nil))
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCallDepth = 0
	_, err := NewSession(cfg)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Issues, 1)
}
