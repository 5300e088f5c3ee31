package irgen

import (
	"fmt"
	"strings"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

// Module is the emitted textual IR for one compilation unit: a
// preamble of struct layouts followed by one function definition per
// coreir.Func. String renders it; there is no separate in-memory
// instruction graph downstream passes walk, per spec 4.5's "the
// emitter produces one module per compilation unit" — the text itself
// is the artifact.
type Module struct {
	Name    string
	structs []string
	funcs   []string
}

func (m *Module) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; module %s\n\n", m.Name)
	for _, s := range m.structs {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	if len(m.structs) > 0 {
		b.WriteByte('\n')
	}
	for i, f := range m.funcs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f)
	}
	return b.String()
}

// moduleEmitter holds the state shared across every function in one
// compilation unit: the chosen finally-lowering strategy, each struct's
// stable layout id (passed to otter_struct_new so the runtime knows how
// many fields to allocate without re-deriving it from a name), and the
// extra top-level functions lambdas/spawned tasks are hoisted into as
// they're discovered mid-emission.
type moduleEmitter struct {
	opts       Options
	structIDs  map[string]int
	extraFuncs []*funcEmitter
}

func (me *moduleEmitter) emitModule(mod *coreir.Module) *Module {
	out := &Module{Name: mod.Name}
	me.structIDs = make(map[string]int, len(mod.Structs))
	for i, st := range mod.Structs {
		me.structIDs[st.TypeName] = i
		out.structs = append(out.structs, emitStructLayout(st))
	}
	for _, f := range mod.Funcs {
		fe := &funcEmitter{mod: me, f: f}
		out.funcs = append(out.funcs, fe.emit())
	}
	// Lambda/task bodies are appended as they're discovered while
	// emitting the functions above; emit them last, and allow emitting
	// one of *them* to discover yet another nested closure.
	for i := 0; i < len(me.extraFuncs); i++ {
		out.funcs = append(out.funcs, me.extraFuncs[i].emit())
	}
	return out
}

// emitStructLayout renders a struct's field list in declaration order,
// each with its natural-alignment type, per spec 4.5's "Structs are
// packed in declaration order with natural alignment; field indices
// are stable."
func emitStructLayout(st *types.StructType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s = type {", structLayoutName(st))
	for i, f := range st.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, " %s", irType(f.Type))
	}
	b.WriteString(" }")
	return b.String()
}
