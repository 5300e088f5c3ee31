package irgen

import (
	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

// emitDecisionTreeStmt lowers the statement form of a desugared match:
// a sequential chain of labeled test blocks, each ANDing together its
// Conds (plus an optional Guard) before running its Body, falling
// through to the next case on any failed test. Exhaustiveness is the
// analyzer's responsibility (spec 4.4's exhaustiveness checking), so
// the final fallthrough is an unreachable trap rather than a runtime
// check.
func (fe *funcEmitter) emitDecisionTreeStmt(v *coreir.DecisionTree) {
	subject := fe.emitExpr(v.Subject)
	endLabel := fe.newLabel("match.end")

	nextLabel := fe.newLabel("match.case")
	fe.line("  br label %%%s", nextLabel)

	for i, c := range v.Cases {
		fe.line("%s:", nextLabel)
		if i+1 < len(v.Cases) {
			nextLabel = fe.newLabel("match.case")
		} else {
			nextLabel = fe.newLabel("match.unreachable")
		}
		bodyLabel := fe.newLabel("match.body")

		fe.emitCaseTest(subject, c.Conds, c.Binds, c.Guard, bodyLabel, nextLabel)

		fe.line("%s:", bodyLabel)
		fe.emitBlock(c.Body)
		if !endsInReturn(c.Body) {
			fe.line("  br label %%%s", endLabel)
		}
	}
	fe.line("%s:", nextLabel)
	fe.line("  unreachable ; exhaustiveness is an analyzer invariant")

	fe.line("%s:", endLabel)
}

// emitDecisionTreeExpr is the expression form: each arm's Result is
// stored into a shared slot before joining at the end, the way an If
// expression would if OtterLang had one (mirrored in emitIf's statement
// form for consistency).
func (fe *funcEmitter) emitDecisionTreeExpr(v *coreir.DecisionTreeExpr) value {
	subject := fe.emitExpr(v.Subject)
	resultPtr := fe.newTemp()
	fe.line("  %s = alloca %s", resultPtr, irType(v.Typ))
	endLabel := fe.newLabel("match.end")

	nextLabel := fe.newLabel("match.case")
	fe.line("  br label %%%s", nextLabel)

	for i, c := range v.Cases {
		fe.line("%s:", nextLabel)
		if i+1 < len(v.Cases) {
			nextLabel = fe.newLabel("match.case")
		} else {
			nextLabel = fe.newLabel("match.unreachable")
		}
		bodyLabel := fe.newLabel("match.body")

		fe.emitCaseTest(subject, c.Conds, c.Binds, c.Guard, bodyLabel, nextLabel)

		fe.line("%s:", bodyLabel)
		res := fe.emitExpr(c.Result)
		fe.line("  store %s %s, ptr %s", irType(res.typ), res.ref, resultPtr)
		fe.line("  br label %%%s", endLabel)
	}
	fe.line("%s:", nextLabel)
	fe.line("  unreachable ; exhaustiveness is an analyzer invariant")

	fe.line("%s:", endLabel)
	dst := fe.newTemp()
	fe.line("  %s = load %s, ptr %s", dst, irType(v.Typ), resultPtr)
	return value{ref: dst, typ: v.Typ}
}

// emitCaseTest ANDs every Cond together, then — once they've all
// passed — materializes this case's Binds and, if present, tests the
// Guard against them, branching to okLabel only if everything holds
// and falling to failLabel otherwise. Binds are projected before the
// guard runs since a guard expression is allowed to reference them
// (spec 4.4's `case ... if guard` arms); a failed guard simply
// discards them the same way a failed Cond would.
func (fe *funcEmitter) emitCaseTest(subject value, conds []coreir.Cond, binds []coreir.Bind, guard coreir.Expr, okLabel, failLabel string) {
	bindLabel := fe.newLabel("match.bind")
	for i, c := range conds {
		stepOk := bindLabel
		if i < len(conds)-1 {
			stepOk = fe.newLabel("match.cond")
		}
		pass := fe.emitCond(subject, c)
		fe.line("  br i1 %s, label %%%s, label %%%s", pass.ref, stepOk, failLabel)
		if stepOk != bindLabel {
			fe.line("%s:", stepOk)
		}
	}
	if len(conds) == 0 {
		fe.line("  br label %%%s", bindLabel)
	}

	fe.line("%s:", bindLabel)
	fe.bindCase(subject, binds)
	if guard == nil {
		fe.line("  br label %%%s", okLabel)
		return
	}
	g := fe.emitExpr(guard)
	fe.line("  br i1 %s, label %%%s, label %%%s", g.ref, okLabel, failLabel)
}

func (fe *funcEmitter) bindCase(subject value, binds []coreir.Bind) {
	for _, b := range binds {
		val := fe.projectTyped(subject, b.Path, b.Typ)
		ptr := fe.newTemp()
		fe.line("  %s = alloca %s", ptr, irType(b.Typ))
		fe.line("  store %s %s, ptr %s", irType(b.Typ), val.ref, ptr)
		fe.locals[b.Name] = localSlot{ptr: ptr, typ: b.Typ}
	}
}

// emitCond lowers one shape test to an i1 value.
func (fe *funcEmitter) emitCond(subject value, c coreir.Cond) value {
	switch c.Kind {
	case coreir.KindAlways:
		return value{ref: "1", typ: types.Bool}

	case coreir.KindTag:
		handle := fe.projectHandle(subject, c.Path)
		tag := fe.callRuntime("otter_enum_read_tag", []value{handle}, types.Int)
		dst := fe.newTemp()
		fe.line("  %s = icmp eq i64 %s, %d", dst, tag.ref, c.Tag)
		return value{ref: dst, typ: types.Bool}

	case coreir.KindEqual:
		leaf := fe.projectTyped(subject, c.Path, c.Literal.Type())
		lit := fe.emitExpr(c.Literal)
		if leaf.typ.Equals(types.String) {
			// String equality is a runtime call, not a pointer compare.
			return fe.callRuntime("otter_str_equal", []value{leaf, lit}, types.Bool)
		}
		instr, _ := binaryInstr(coreir.OpEq, leaf.typ.Equals(types.Float))
		dst := fe.newTemp()
		fe.line("  %s = %s %s %s, %s", dst, instr, irType(leaf.typ), leaf.ref, lit.ref)
		return value{ref: dst, typ: types.Bool}

	case coreir.KindLenExact:
		handle := fe.projectHandle(subject, c.Path)
		length := fe.callRuntime("otter_array_length", []value{handle}, types.Int)
		dst := fe.newTemp()
		fe.line("  %s = icmp eq i64 %s, %d", dst, length.ref, c.Len)
		return value{ref: dst, typ: types.Bool}

	case coreir.KindLenAtLeast:
		handle := fe.projectHandle(subject, c.Path)
		length := fe.callRuntime("otter_array_length", []value{handle}, types.Int)
		dst := fe.newTemp()
		fe.line("  %s = icmp sge i64 %s, %d", dst, length.ref, c.Len)
		return value{ref: dst, typ: types.Bool}

	default:
		panic("irgen: unhandled cond kind reached the emitter")
	}
}

// projectHandle walks every step of path as an opaque i64 handle,
// without a final typed decode — used where the caller only needs to
// read a tag or a length, not the leaf value itself.
func (fe *funcEmitter) projectHandle(subject value, path []coreir.Projection) value {
	cur := subject
	for _, p := range path {
		cur = fe.projectIntermediate(cur, p)
	}
	return cur
}

// projectTyped walks every step but the last as an opaque handle, then
// decodes the final step as leafType — used for both a Cond's equality
// test and a Bind's materialized value, the two places the emitter
// actually needs a concretely typed result out of a match path.
func (fe *funcEmitter) projectTyped(subject value, path []coreir.Projection, leafType types.Type) value {
	if len(path) == 0 {
		return subject
	}
	cur := subject
	for _, p := range path[:len(path)-1] {
		cur = fe.projectIntermediate(cur, p)
	}
	return fe.projectLeaf(cur, path[len(path)-1], leafType)
}

func (fe *funcEmitter) projectIntermediate(cur value, p coreir.Projection) value {
	switch p.Kind {
	case coreir.ProjectEnumField:
		return fe.callRuntime("otter_enum_payload_handle", []value{cur, fe.intConst(int64(p.Index))}, types.Int)
	case coreir.ProjectStructField:
		name := fe.emitStringConst(p.Field)
		return fe.callRuntime("otter_struct_field_handle", []value{cur, name}, types.Int)
	case coreir.ProjectListElement:
		return fe.callRuntime("otter_array_elem_handle", []value{cur, fe.intConst(int64(p.Index))}, types.Int)
	case coreir.ProjectListRest:
		return fe.callRuntime("otter_array_rest_handle", []value{cur, fe.intConst(int64(p.Index))}, types.Int)
	default:
		panic("irgen: unhandled projection kind reached the emitter")
	}
}

func (fe *funcEmitter) projectLeaf(cur value, p coreir.Projection, leafType types.Type) value {
	switch p.Kind {
	case coreir.ProjectEnumField:
		return fe.callRuntime("otter_enum_payload_get", []value{cur, fe.intConst(int64(p.Index))}, leafType)
	case coreir.ProjectStructField:
		name := fe.emitStringConst(p.Field)
		return fe.callRuntime("otter_struct_field_get_by_name", []value{cur, name}, leafType)
	case coreir.ProjectListElement:
		return fe.callRuntime("otter_array_get", []value{cur, fe.intConst(int64(p.Index))}, leafType)
	case coreir.ProjectListRest:
		return fe.callRuntime("otter_array_slice_from", []value{cur, fe.intConst(int64(p.Index))}, leafType)
	default:
		panic("irgen: unhandled projection kind reached the emitter")
	}
}
