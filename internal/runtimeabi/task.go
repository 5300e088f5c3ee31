package runtimeabi

// TaskHandle is the reference representation of a spawned task (spec
// 5): Done closes once the task's function has run to completion;
// Await then yields its result, or propagates its error to the
// awaiter's error state.
type TaskHandle struct {
	Done   chan struct{}
	Result any
	ErrMsg string
	HasErr bool
}

// TaskPool abstracts how OtterTaskSpawn schedules work, so Runtime
// doesn't hard-code a concurrency strategy. A nil pool selects spec
// 5's Serial model: spawn runs its function eagerly inline on the
// calling goroutine, compatible with targets that provide no threads.
// internal/exec/taskrt's worker pool (golang.org/x/sync/errgroup plus
// a semaphore sized to runtime.GOMAXPROCS(0)) supplies the Task
// runtime model for the native target.
type TaskPool interface {
	Submit(fn func())
}

// OtterTaskSpawn runs fn — which returns its result, an error message,
// and whether it raised — either inline (Serial model) or on r's pool
// (Task runtime model), and returns a handle Await can block on.
func (r *Runtime) OtterTaskSpawn(fn func() (any, string, bool)) *TaskHandle {
	h := &TaskHandle{Done: make(chan struct{})}
	run := func() {
		defer close(h.Done)
		h.Result, h.ErrMsg, h.HasErr = fn()
	}
	if r.tasks == nil {
		run()
		return h
	}
	r.tasks.Submit(run)
	return h
}

// OtterTaskAwait blocks until h's task completes. A task that raised
// propagates its error to the awaiter's own error state (spec 5:
// "observes it via the thread-local error flag after await returns")
// rather than returning it as a Go error — the caller's post-call
// check, inserted the same way as for any other raising call, is what
// actually notices it.
func (r *Runtime) OtterTaskAwait(h *TaskHandle) any {
	<-h.Done
	if h.HasErr {
		r.OtterErrorRaise(h.ErrMsg)
		return nil
	}
	return h.Result
}
