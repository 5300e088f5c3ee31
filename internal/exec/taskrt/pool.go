// Package taskrt supplies the Task runtime model internal/runtimeabi.
// TaskPool abstracts over: a bounded worker pool so an unbounded burst
// of `spawn` expressions doesn't oversubscribe the host, grounded on
// the errgroup.Group{SetLimit}-plus-Go() pattern the wider example
// pack already reaches for concurrent fan-out work (e.g. Tangerg-lynx/
// flow's Batch type, internal/flow/batch.go), generalized here from
// "process one batch and collect its results" to "run arbitrary
// fire-and-forget task bodies, handed off individually by
// internal/exec as each spawn executes".
package taskrt

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool implements internal/runtimeabi.TaskPool, capping concurrent
// task goroutines at GOMAXPROCS so CPU-bound Otter programs don't
// spawn far more live goroutines than the host has cores to run them.
type Pool struct {
	g *errgroup.Group
}

// New builds a Pool sized to the host's GOMAXPROCS. Pass a smaller
// limit explicitly via NewWithLimit for tests or constrained hosts.
func New() *Pool {
	return NewWithLimit(runtime.GOMAXPROCS(0))
}

// NewWithLimit builds a Pool allowing at most limit tasks to run
// concurrently; limit <= 0 means unlimited, matching errgroup.
// SetLimit's own convention.
func NewWithLimit(limit int) *Pool {
	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}
	return &Pool{g: g}
}

// Submit schedules fn to run, blocking only if the pool is already at
// its concurrency limit (errgroup.Group.Go's own backpressure) rather
// than ever dropping or queuing work unboundedly.
func (p *Pool) Submit(fn func()) {
	p.g.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until every task submitted so far has completed. A
// caller that wants a clean process exit — rather than a `spawn`ed
// task still running past its program's own entry function returning
// — calls this once after internal/exec.Machine.Run returns.
func (p *Pool) Wait() {
	p.g.Wait()
}
