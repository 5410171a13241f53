package codegen

import (
	"fmt"

	"github.com/dhamidi/jnicall/callexpr"
)

// The messages below are shared by the rendered code and Exec. Each ends in
// ": %w" when it wraps the bridge error.

func callFailedMsg(call *callexpr.MethodCall) string {
	if call.Target.Kind == callexpr.TargetStatic {
		return fmt.Sprintf("jnicall: failed to call static method %s() on %s: %%w", call.Method, call.Target.Class)
	}
	return fmt.Sprintf("jnicall: failed to call %s(): %%w", call.Method)
}

func wrongTypeMsg(call *callexpr.MethodCall, ty callexpr.Type) string {
	return fmt.Sprintf("jnicall: expected %s() to return %s: %%w", call.Method, ty)
}

func nullReturnMsg(call *callexpr.MethodCall) string {
	return fmt.Sprintf("jnicall: expected object returned by %s() to not be null", call.Method)
}

func allocFailedMsg(call *callexpr.MethodCall, ty callexpr.Type, n int) string {
	return fmt.Sprintf("jnicall: failed to allocate %s array of length %d for %s(): %%w", ty, n, call.Method)
}

func fillFailedMsg(call *callexpr.MethodCall, ty callexpr.Type) string {
	return fmt.Sprintf("jnicall: failed to fill %s array for %s(): %%w", ty, call.Method)
}

func setElementFailedMsg(call *callexpr.MethodCall, ty callexpr.Type, index int) string {
	return fmt.Sprintf("jnicall: failed to set element %d of %s array for %s(): %%w", index, ty, call.Method)
}
