// Package runtimeabi implements the OtterLang runtime ABI (spec §6.3)
// as ordinary Go functions with a matching name (OtterStdIoPrintln,
// OtterFormatFloat, …), callable both by internal/exec — the tree-
// walking reference runtime — and, conceptually, by emitted IR once
// linked against a native build of this package. It also implements
// the handful of compiler-support intrinsics internal/irgen emits
// calls to that aren't part of the formally specified ABI table
// (array/dict/struct/enum accessors, closures, tasks); see DESIGN.md's
// internal/irgen entry for the full list and why they live here rather
// than in a separate package.
package runtimeabi

import "io"

// Runtime bundles everything an executing Otter program's ABI calls
// need: the per-context error-state stack (spec 5's "per-thread stack
// of exception contexts" — here, per-Runtime, since each goroutine the
// reference interpreter spawns for a task gets its own instance,
// exactly modeling "thread-local" without any actual OS thread-local
// storage), the process's IO streams, the struct-layout registry
// populated once per compilation unit, and the task scheduler.
//
// This mirrors how the teacher's Interpreter keeps i.exception and
// i.output as instance fields rather than package globals
// (internal/interp/exceptions.go, internal/interp/builtins_io.go) —
// generalized here from "one process-wide interpreter" to "one
// Runtime per execution context" so concurrent tasks don't share
// mutable error state.
type Runtime struct {
	errors  ErrorState
	stdout  io.Writer
	stderr  io.Writer
	stdin   io.Reader
	layouts *layoutRegistry
	tasks   TaskPool
}

// New constructs a Runtime. A nil pool selects the Serial execution
// model (spec 5): OtterTaskSpawn runs its function eagerly inline
// instead of scheduling it onto a worker pool.
func New(stdout, stderr io.Writer, stdin io.Reader, pool TaskPool) *Runtime {
	return &Runtime{
		stdout:  stdout,
		stderr:  stderr,
		stdin:   stdin,
		layouts: newLayoutRegistry(),
		tasks:   pool,
	}
}

// RegisterStructLayout records one struct declaration's field name
// order under a stable layout id, the way internal/irgen.moduleEmitter
// assigns ids (a struct's index in coreir.Module.Structs). Called once
// per compilation unit before execution begins; otter_struct_new and
// otter_struct_field_get_by_name consult it afterward.
func (r *Runtime) RegisterStructLayout(id int, fieldNames []string) {
	r.layouts.register(id, fieldNames)
}

// Fork returns the Runtime a spawned task executes under: it shares
// stdout, stderr, stdin, the struct-layout registry, and the task pool
// with r, but starts with its own empty error-frame stack, so a
// task's raise/try state never interacts with its spawner's — the
// "per-Runtime, since each goroutine the reference interpreter spawns
// for a task gets its own instance" behavior this type's own doc
// comment already promises, realized here as the constructor
// internal/exec's task-spawning path calls.
func (r *Runtime) Fork() *Runtime {
	return &Runtime{
		stdout:  r.stdout,
		stderr:  r.stderr,
		stdin:   r.stdin,
		layouts: r.layouts,
		tasks:   r.tasks,
	}
}
