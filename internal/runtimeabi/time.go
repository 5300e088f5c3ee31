package runtimeabi

import "time"

// OtterStdTimeNowMs returns the current Unix epoch time in
// milliseconds (spec 6.3).
func OtterStdTimeNowMs() int64 {
	return time.Now().UnixMilli()
}
