package irgen

import "github.com/otterlang/otterc/internal/coreir"

// emitErrorContext lowers a try/except/finally region to the thread-
// local-error-flag model spec 4.5 describes: push/pop a runtime
// context around the protected body, land on the first exit check that
// finds the flag set, and run Finally on every exit edge — duplicated
// per edge at OptLevel 0, or funneled through one shared cleanup block
// selected by an integer at OptLevel >= 1 (spec 4.5.1's two allowed
// strategies, gated the same way the teacher's optimizer.go branches
// codegen on an optimization flag).
func (fe *funcEmitter) emitErrorContext(v *coreir.ErrorContext) {
	fe.callRuntime("otter_error_push_context", nil, boolT)

	landingPad := fe.newLabel("try.landing")
	afterLabel := fe.newLabel("try.after")

	fe.errors = append(fe.errors, errorFrame{landingPad: landingPad})
	fe.emitBlock(v.Body)
	fe.errors = fe.errors[:len(fe.errors)-1]

	if !endsInReturn(v.Body) {
		fe.callRuntime("otter_error_pop_context", nil, boolT)
		fe.runFinally(v.Finally, 0, afterLabel)
		fe.line("  br label %%%s", afterLabel)
	}

	fe.line("%s:", landingPad)
	fe.emitHandlers(v.Handlers, v.Finally, afterLabel)

	fe.line("%s:", afterLabel)
}

// emitHandlers tries each handler in declaration order against the
// error flag that led here; OtterLang's current grammar only ever
// raises a plain string message (every ExceptHandler.PatternType is
// nil, see its doc comment), so the first handler always matches and
// later ones are unreachable — kept in the loop shape anyway so a
// future typed-exception extension only has to fill in the match test.
func (fe *funcEmitter) emitHandlers(handlers []coreir.ExceptHandler, finally []coreir.Stmt, afterLabel string) {
	if len(handlers) == 0 {
		// No handler catches here: run finally and rethrow to the
		// next-outer frame (spec 5's per-thread stack of exception
		// contexts), rather than silently swallowing the error.
		fe.runFinally(finally, 1, afterLabel)
		fe.callRuntime("otter_error_pop_context", nil, boolT)
		fe.callRuntime("otter_error_rethrow", nil, boolT)
		fe.line("  br label %%%s", afterLabel)
		return
	}

	h := handlers[0]
	msg := fe.callRuntime("otter_error_get_message", nil, stringT)
	fe.callRuntime("otter_error_clear", nil, boolT)
	fe.callRuntime("otter_error_pop_context", nil, boolT)

	if h.BindName != "" {
		ptr := fe.newTemp()
		fe.line("  %s = alloca ptr", ptr)
		fe.line("  store ptr %s, ptr %s", msg.ref, ptr)
		fe.locals[h.BindName] = localSlot{ptr: ptr, typ: stringT}
	}

	fe.emitBlock(h.Body)
	if !endsInReturn(h.Body) {
		fe.runFinally(finally, 2, afterLabel)
		fe.line("  br label %%%s", afterLabel)
	}
}

// runFinally emits Finally at one exit edge. At OptLevel 0 (the
// default) this duplicates the block inline at every edge, the
// simplest of spec 4.5's two allowed strategies. At OptLevel >= 1 every
// edge instead records a small selector and jumps to one shared copy
// of the block per try region, emitted once via emitSharedFinally —
// every edge of a given region reconverges at the same afterLabel, so
// the selector is only informative (a future per-edge-distinct
// continuation, e.g. a finally interrupted by an enclosing loop's
// break, would dispatch on it; today every edge's continuation is
// identical).
func (fe *funcEmitter) runFinally(finally []coreir.Stmt, edge int, afterLabel string) {
	if len(finally) == 0 {
		return
	}
	if fe.mod.opts.OptLevel == 0 {
		fe.emitBlock(finally)
		return
	}
	fe.emitSharedFinally(finally, edge, afterLabel)
}

func (fe *funcEmitter) emitSharedFinally(finally []coreir.Stmt, edge int, afterLabel string) {
	key := &finally
	label, ok := fe.finallyBlocks[key]
	if !ok {
		label = fe.newLabel("finally.shared")
		if fe.finallyBlocks == nil {
			fe.finallyBlocks = make(map[*[]coreir.Stmt]string)
		}
		fe.finallyBlocks[key] = label
		fe.pendingFinally = append(fe.pendingFinally, pendingFinally{label: label, body: finally, after: afterLabel})
	}
	selector := fe.newTemp()
	fe.line("  %s = alloca i64 ; finally selector", selector)
	fe.line("  store i64 %d, ptr %s", edge, selector)
	fe.line("  br label %%%s", label)
}

// pendingFinally is a shared cleanup block discovered mid-emission,
// flushed at the end of the function body (see funcEmitter.emit) once
// every edge that reaches it has been emitted.
type pendingFinally struct {
	label string
	body  []coreir.Stmt
	after string
}

// emitRaise sets the runtime's error flag/message and unwinds to the
// nearest landing pad, or — with no active try region in this function
// — returns this function's zero value immediately so the *caller*
// observes the flag via its own post-call check (spec 4.5's "raise
// sets the flag and jumps to the landing pad").
func (fe *funcEmitter) emitRaise(v *coreir.Raise) {
	if v.Message == nil {
		fe.callRuntime("otter_error_rethrow", nil, boolT)
	} else {
		msg := fe.emitExpr(v.Message)
		fe.callRuntimeVoid("otter_error_raise", []value{msg})
	}
	if len(fe.errors) == 0 {
		fe.emitUnwindReturn()
		return
	}
	fe.line("  br label %%%s", fe.errors[len(fe.errors)-1].landingPad)
}
