package irgen

import (
	"strings"

	"github.com/otterlang/otterc/internal/types"
)

// callRuntime emits a call to a runtimeabi (or emitter-internal helper)
// symbol that returns a value, and callRuntimeVoid one that doesn't.
// Every call site funnels through here so argument/return formatting
// stays in one place, the way the teacher's disasm.go centralizes
// operand-list formatting in tryDisassembleCallOp rather than repeating
// it per opcode.
func (fe *funcEmitter) callRuntime(name string, args []value, ret types.Type) value {
	dst := fe.newTemp()
	fe.line("  %s = call %s @%s(%s)", dst, irType(ret), name, formatArgs(args))
	return value{ref: dst, typ: ret}
}

func (fe *funcEmitter) callRuntimeVoid(name string, args []value) {
	fe.line("  call void @%s(%s)", name, formatArgs(args))
}

func formatArgs(args []value) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(irType(a.typ))
		b.WriteByte(' ')
		b.WriteString(a.ref)
	}
	return b.String()
}
