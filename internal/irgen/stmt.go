package irgen

import (
	"fmt"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

func (fe *funcEmitter) emitBlock(body []coreir.Stmt) {
	for _, s := range body {
		fe.emitStmt(s)
	}
}

func (fe *funcEmitter) emitStmt(s coreir.Stmt) {
	switch v := s.(type) {
	case *coreir.Let:
		val := fe.emitExpr(v.Value)
		ptr := fe.newTemp()
		fe.line("  %s = alloca %s", ptr, irType(v.Typ))
		fe.line("  store %s %s, ptr %s", irType(v.Typ), val.ref, ptr)
		fe.locals[v.Name] = localSlot{ptr: ptr, typ: v.Typ}

	case *coreir.Assign:
		val := fe.emitExpr(v.Value)
		fe.emitStore(v.Target, val)

	case *coreir.Return:
		if v.Value == nil {
			fe.line("  ret void")
			return
		}
		val := fe.emitExpr(v.Value)
		fe.line("  ret %s %s", irType(val.typ), val.ref)

	case *coreir.ExprStmt:
		fe.emitExpr(v.Value)

	case *coreir.If:
		fe.emitIf(v)

	case *coreir.While:
		fe.emitWhile(v)

	case *coreir.ForRange:
		fe.emitForRange(v)

	case *coreir.ForEach:
		fe.emitForEach(v)

	case *coreir.Break:
		if len(fe.loops) == 0 {
			panic("irgen: break outside a loop reached the emitter")
		}
		fe.line("  br label %%%s", fe.loops[len(fe.loops)-1].breakLabel)

	case *coreir.Continue:
		if len(fe.loops) == 0 {
			panic("irgen: continue outside a loop reached the emitter")
		}
		fe.line("  br label %%%s", fe.loops[len(fe.loops)-1].continueLabel)

	case *coreir.DecisionTree:
		fe.emitDecisionTreeStmt(v)

	case *coreir.ErrorContext:
		fe.emitErrorContext(v)

	case *coreir.Raise:
		fe.emitRaise(v)

	case *coreir.Pass:
		// no instruction

	default:
		panic("irgen: unhandled statement kind reached the emitter")
	}
}

func (fe *funcEmitter) emitIf(v *coreir.If) {
	cond := fe.emitExpr(v.Condition)
	thenLabel := fe.newLabel("if.then")
	elseLabel := fe.newLabel("if.else")
	endLabel := fe.newLabel("if.end")

	fe.line("  br i1 %s, label %%%s, label %%%s", cond.ref, thenLabel, elseLabel)

	fe.line("%s:", thenLabel)
	fe.emitBlock(v.Body)
	if !endsInReturn(v.Body) {
		fe.line("  br label %%%s", endLabel)
	}

	fe.line("%s:", elseLabel)
	fe.emitBlock(v.Else)
	if !endsInReturn(v.Else) {
		fe.line("  br label %%%s", endLabel)
	}

	fe.line("%s:", endLabel)
}

func (fe *funcEmitter) emitWhile(v *coreir.While) {
	condLabel := fe.newLabel("while.cond")
	bodyLabel := fe.newLabel("while.body")
	endLabel := fe.newLabel("while.end")

	fe.line("  br label %%%s", condLabel)
	fe.line("%s:", condLabel)
	cond := fe.emitExpr(v.Condition)
	fe.line("  br i1 %s, label %%%s, label %%%s", cond.ref, bodyLabel, endLabel)

	fe.line("%s:", bodyLabel)
	fe.loops = append(fe.loops, loopLabels{breakLabel: endLabel, continueLabel: condLabel})
	fe.emitBlock(v.Body)
	fe.loops = fe.loops[:len(fe.loops)-1]
	fe.line("  br label %%%s", condLabel)

	fe.line("%s:", endLabel)
}

// emitForRange lowers `for i in a..b:` to a counter loop, never
// materializing the range as a list (see coreir.ForRange's doc comment
// and the DESIGN.md lowering note this mirrors).
func (fe *funcEmitter) emitForRange(v *coreir.ForRange) {
	start := fe.emitExpr(v.Start)
	end := fe.emitExpr(v.End)

	idxPtr := fe.newTemp()
	fe.line("  %s = alloca i64", idxPtr)
	fe.line("  store i64 %s, ptr %s", start.ref, idxPtr)
	fe.locals[v.Name] = localSlot{ptr: idxPtr, typ: types.Int}

	condLabel := fe.newLabel("for.cond")
	bodyLabel := fe.newLabel("for.body")
	stepLabel := fe.newLabel("for.step")
	endLabel := fe.newLabel("for.end")

	fe.line("  br label %%%s", condLabel)
	fe.line("%s:", condLabel)
	cur := fe.newTemp()
	fe.line("  %s = load i64, ptr %s", cur, idxPtr)
	test := fe.newTemp()
	fe.line("  %s = icmp slt i64 %s, %s", test, cur, end.ref)
	fe.line("  br i1 %s, label %%%s, label %%%s", test, bodyLabel, endLabel)

	fe.line("%s:", bodyLabel)
	fe.loops = append(fe.loops, loopLabels{breakLabel: endLabel, continueLabel: stepLabel})
	fe.emitBlock(v.Body)
	fe.loops = fe.loops[:len(fe.loops)-1]
	fe.line("  br label %%%s", stepLabel)

	fe.line("%s:", stepLabel)
	cur2 := fe.newTemp()
	fe.line("  %s = load i64, ptr %s", cur2, idxPtr)
	next := fe.newTemp()
	fe.line("  %s = add i64 %s, 1", next, cur2)
	fe.line("  store i64 %s, ptr %s", next, idxPtr)
	fe.line("  br label %%%s", condLabel)

	fe.line("%s:", endLabel)
}

// emitForEach iterates every element of an array value via the
// runtime's length/get intrinsics, since the array's own {len,cap,data}
// layout is an internal runtime detail the emitter doesn't reach into
// directly (only otter_array_* calls do, keeping the layout change-
// proof behind the ABI the way string/array internals already are).
func (fe *funcEmitter) emitForEach(v *coreir.ForEach) {
	iter := fe.emitExpr(v.Iterable)
	length := fe.callRuntime("otter_array_length", []value{iter}, types.Int)

	idxPtr := fe.newTemp()
	fe.line("  %s = alloca i64", idxPtr)
	fe.line("  store i64 0, ptr %s", idxPtr)

	elemPtr := fe.newTemp()
	fe.line("  %s = alloca %s", elemPtr, irType(v.ElemType))
	fe.locals[v.Name] = localSlot{ptr: elemPtr, typ: v.ElemType}

	condLabel := fe.newLabel("foreach.cond")
	bodyLabel := fe.newLabel("foreach.body")
	stepLabel := fe.newLabel("foreach.step")
	endLabel := fe.newLabel("foreach.end")

	fe.line("  br label %%%s", condLabel)
	fe.line("%s:", condLabel)
	cur := fe.newTemp()
	fe.line("  %s = load i64, ptr %s", cur, idxPtr)
	test := fe.newTemp()
	fe.line("  %s = icmp slt i64 %s, %s", test, cur, length.ref)
	fe.line("  br i1 %s, label %%%s, label %%%s", test, bodyLabel, endLabel)

	fe.line("%s:", bodyLabel)
	elem := fe.callRuntime("otter_array_get", []value{iter, {ref: cur, typ: types.Int}}, v.ElemType)
	fe.line("  store %s %s, ptr %s", irType(v.ElemType), elem.ref, elemPtr)
	fe.loops = append(fe.loops, loopLabels{breakLabel: endLabel, continueLabel: stepLabel})
	fe.emitBlock(v.Body)
	fe.loops = fe.loops[:len(fe.loops)-1]
	fe.line("  br label %%%s", stepLabel)

	fe.line("%s:", stepLabel)
	cur2 := fe.newTemp()
	fe.line("  %s = load i64, ptr %s", cur2, idxPtr)
	next := fe.newTemp()
	fe.line("  %s = add i64 %s, 1", next, cur2)
	fe.line("  store i64 %s, ptr %s", next, idxPtr)
	fe.line("  br label %%%s", condLabel)

	fe.line("%s:", endLabel)
}

// emitStore writes val into the lvalue described by target. Struct/list
// writes use the runtime's field/index setters rather than a raw gep,
// since a struct field may itself be a heap value needing a reference-
// count adjustment the runtime owns (spec 5's ownership rules), not
// something the emitter should duplicate inline.
func (fe *funcEmitter) emitStore(target coreir.Place, val value) {
	switch target.Kind {
	case coreir.PlaceSlot:
		slot, ok := fe.locals[target.Name]
		if !ok {
			panic("irgen: assignment to unknown slot " + target.Name)
		}
		fe.line("  store %s %s, ptr %s", irType(val.typ), val.ref, slot.ptr)

	case coreir.PlaceField:
		obj := fe.emitExpr(target.Object)
		fe.callRuntimeVoid("otter_struct_set_field", []value{obj, fe.intConst(int64(target.Index)), val})

	case coreir.PlaceIndexList:
		obj := fe.emitExpr(target.Object)
		key := fe.emitExpr(target.Key)
		fe.callRuntimeVoid("otter_array_set", []value{obj, key, val})

	case coreir.PlaceIndexDict:
		obj := fe.emitExpr(target.Object)
		key := fe.emitExpr(target.Key)
		fe.callRuntimeVoid("otter_dict_set", []value{obj, key, val})

	default:
		panic("irgen: unhandled place kind reached the emitter")
	}
}

func (fe *funcEmitter) intConst(n int64) value {
	return value{ref: fmt.Sprintf("%d", n), typ: types.Int}
}
