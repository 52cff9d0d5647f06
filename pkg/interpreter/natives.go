package interpreter

import (
	"time"

	"lox/interpreter-go/pkg/runtime"
)

// Clock returns the `clock` native: seconds since the Unix epoch as a
// number with sub-second precision. now defaults to time.Now.
func Clock(now func() time.Time) *runtime.NativeFunctionValue {
	if now == nil {
		now = time.Now
	}
	return &runtime.NativeFunctionValue{
		Name:       "clock",
		ParamCount: 0,
		Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			t := now()
			return runtime.NumberValue{Val: float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)}, nil
		},
	}
}
