// Package irgen lowers a desugared internal/coreir.Module into a
// textual, LLVM-style SSA module (spec 4.5's "IR emitter"). The output
// is a string, not an in-memory LLVM context: the core never links
// against an actual LLVM binding, it only has to produce text a
// downstream backend collaborator can parse.
//
// Emission is a single pass per function: every coreir.Stmt/Expr is
// visited once, registers are assigned in the order they're produced
// (no separate register-allocation pass, mirroring the teacher's
// single-pass bytecode compiler in internal/bytecode/compiler.go), and
// the result is assembled into one flat listing the way
// internal/bytecode/disasm.go assembles its disassembly: a
// strings.Builder filled by one fmt.Fprintf per instruction line.
package irgen

import "github.com/otterlang/otterc/internal/coreir"

// Options configures emission choices the spec leaves to the backend,
// principally the try/finally lowering strategy (spec 4.5's "duplicated
// on each exit edge ... or factored into a shared cleanup block").
type Options struct {
	// OptLevel selects the finally-lowering strategy: 0 duplicates the
	// finally block on every exit edge (simplest, most code); >=1 emits
	// one shared cleanup block reached via a selector integer.
	OptLevel int
}

// Emit lowers mod into a textual module at the given optimization level.
func Emit(mod *coreir.Module, opts Options) *Module {
	e := &moduleEmitter{opts: opts}
	return e.emitModule(mod)
}
