package exec

import "github.com/otterlang/otterc/internal/runtimeabi"

// callIntrinsic dispatches a coreir.Call whose Callee isn't a name in
// this program's own function table: a runtime ABI symbol (spec 6.3)
// either called directly by a stdlib .ot body (internal/stdlib/otter)
// or produced by the analyzer's own str(x)/f-string desugaring
// (internal/semantic/lower_expr.go's stringify). Mirrors
// internal/semantic/intrinsics.go's runtimeIntrinsics table on the
// type-checking side; an unhandled name here means that table and
// this switch have drifted out of sync, which is this package's own
// invariant to maintain, not a user-facing failure mode.
func (m *Machine) callIntrinsic(name string, args []any) any {
	switch name {
	case "otter_format_int":
		v, _ := args[0].(int64)
		return runtimeabi.OtterFormatInt(v)
	case "otter_format_float":
		v, _ := args[0].(float64)
		return runtimeabi.OtterFormatFloat(v)
	case "otter_format_bool":
		v, _ := args[0].(bool)
		return runtimeabi.OtterFormatBool(v)

	case "otter_std_io_print":
		s, _ := args[0].(string)
		m.rt.OtterStdIoPrint(s)
		return nil
	case "otter_std_io_println":
		s, _ := args[0].(string)
		m.rt.OtterStdIoPrintln(s)
		return nil
	case "otter_std_io_eprintln":
		s, _ := args[0].(string)
		m.rt.OtterStdIoEprintln(s)
		return nil
	case "otter_std_io_read_line":
		line, ok := m.rt.OtterStdIoReadLine()
		if !ok {
			return nil
		}
		return line

	case "otter_std_time_now_ms":
		return runtimeabi.OtterStdTimeNowMs()

	case "otter_math_sqrt":
		v, _ := args[0].(float64)
		return runtimeabi.OtterMathSqrt(v)
	case "otter_math_floor":
		v, _ := args[0].(float64)
		return runtimeabi.OtterMathFloor(v)
	case "otter_math_ceil":
		v, _ := args[0].(float64)
		return runtimeabi.OtterMathCeil(v)

	case "otter_runtime_version":
		return runtimeabi.OtterRuntimeVersion()
	case "otter_runtime_gc_collect":
		runtimeabi.OtterRuntimeGCCollect()
		return nil

	default:
		panic("exec: call to unknown runtime function " + name)
	}
}
