package irgen

import (
	"fmt"
	"strings"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

// value is an operand: either a register reference ("%t3") or an
// immediate literal ("%t3" vs "5", "1", "0x..."), tagged with its IR
// type so callers never have to re-derive it.
type value struct {
	ref string
	typ types.Type
}

// loopLabels is the break/continue landing-pad pair for one enclosing
// loop, pushed/popped around While/ForRange/ForEach the way the
// teacher's statements_control.go tracks the innermost loop for a
// break/continue bytecode jump target.
type loopLabels struct {
	breakLabel    string
	continueLabel string
}

// errorFrame is one active try-region's landing pad, pushed while
// emitting its protected body so a Raise (or a raising Call) inside
// knows where to branch per spec 4.5's exception lowering.
type errorFrame struct {
	landingPad string
}

// boolT/stringT are shorthands for the two primitive types except.go
// reaches for repeatedly when describing runtime-call signatures.
var boolT = types.Bool
var stringT = types.String

// funcEmitter holds all per-function emission state: the teacher's
// per-chunk Disassembler is the rough shape (one builder, one pass),
// generalized here with the extra bookkeeping a real SSA-ish emission
// needs (locals, labels, loop/error-frame stacks).
type funcEmitter struct {
	mod *moduleEmitter
	f   *coreir.Func

	b strings.Builder

	tmp    int
	label  int
	locals map[string]localSlot

	loops  []loopLabels
	errors []errorFrame

	// finallyBlocks/pendingFinally back the OptLevel>=1 shared-cleanup-
	// block strategy: each distinct Finally slice (identity, not value —
	// two textually identical finally blocks in different try regions
	// still get separate copies) is emitted once, the first time an exit
	// edge reaches it, and flushed at the end of emit().
	finallyBlocks  map[*[]coreir.Stmt]string
	pendingFinally []pendingFinally
}

// localSlot is a stack-allocated binding: the alloca register that
// holds its address, and its value type.
type localSlot struct {
	ptr string
	typ types.Type
}

func (fe *funcEmitter) newTemp() string {
	fe.tmp++
	return fmt.Sprintf("%%t%d", fe.tmp)
}

func (fe *funcEmitter) newLabel(prefix string) string {
	fe.label++
	return fmt.Sprintf("%s%d", prefix, fe.label)
}

func (fe *funcEmitter) line(format string, args ...any) {
	fmt.Fprintf(&fe.b, format, args...)
	fe.b.WriteByte('\n')
}

func (fe *funcEmitter) emit() string {
	fe.locals = make(map[string]localSlot)

	var params strings.Builder
	for i, p := range fe.f.Params {
		if i > 0 {
			params.WriteString(", ")
		}
		fmt.Fprintf(&params, "%s %%%s.arg", irType(p.Type), p.Name)
	}

	ret := irType(fe.f.ReturnType)
	fmt.Fprintf(&fe.b, "define %s @%s(%s) {\n", ret, mangle(fe.f.Name), params.String())
	fe.b.WriteString("entry:\n")

	for _, p := range fe.f.Params {
		ptr := fe.newTemp()
		fe.line("  %s = alloca %s", ptr, irType(p.Type))
		fe.line("  store %s %%%s.arg, ptr %s", irType(p.Type), p.Name, ptr)
		fe.locals[p.Name] = localSlot{ptr: ptr, typ: p.Type}
	}

	for _, s := range fe.f.Body {
		fe.emitStmt(s)
	}

	// Flush any OptLevel>=1 shared finally blocks discovered while
	// emitting the body above; emitSharedFinally can itself append to
	// fe.pendingFinally only through a body that's already been walked,
	// so a single forward pass drains it completely.
	for i := 0; i < len(fe.pendingFinally); i++ {
		pf := fe.pendingFinally[i]
		fe.line("%s:", pf.label)
		fe.emitBlock(pf.body)
		fe.line("  br label %%%s", pf.after)
	}

	// A function whose body doesn't end in an explicit Return (a Void
	// function falling off the end) gets an implicit one, the same way
	// the teacher's compiler appends an implicit OpReturn at chunk end.
	if !endsInReturn(fe.f.Body) {
		if fe.f.ReturnType == nil || fe.f.ReturnType == types.Void {
			fe.line("  ret void")
		} else {
			fe.line("  unreachable ; missing return on a non-Void path is an analyzer invariant violation")
		}
	}

	fe.b.WriteString("}\n")
	return fe.b.String()
}

func endsInReturn(body []coreir.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*coreir.Return)
	return ok
}

// mangle rewrites a monomorphized callee name's "#" separator (see
// types.MonomorphKey) into "." so it prints as a valid IR identifier;
// the textual module never round-trips to a parser that needs to
// recover the original mangling, so this is one-way.
func mangle(name string) string {
	return strings.ReplaceAll(name, "#", ".")
}
