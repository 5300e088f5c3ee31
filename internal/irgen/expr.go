package irgen

import (
	"fmt"
	"math"

	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

func (fe *funcEmitter) emitExpr(e coreir.Expr) value {
	switch v := e.(type) {
	case *coreir.IntLit:
		return value{ref: fmt.Sprintf("%d", v.Value), typ: types.Int}

	case *coreir.FloatLit:
		return value{ref: formatFloatConst(v.Value), typ: types.Float}

	case *coreir.BoolLit:
		if v.Value {
			return value{ref: "1", typ: types.Bool}
		}
		return value{ref: "0", typ: types.Bool}

	case *coreir.StringLit:
		return fe.emitStringConst(v.Value)

	case *coreir.NilLit:
		return value{ref: "0", typ: v.OptionType}

	case *coreir.Ident:
		slot, ok := fe.locals[v.Name]
		if !ok {
			panic("irgen: reference to unknown slot " + v.Name)
		}
		dst := fe.newTemp()
		fe.line("  %s = load %s, ptr %s", dst, irType(v.Typ), slot.ptr)
		return value{ref: dst, typ: v.Typ}

	case *coreir.Unary:
		return fe.emitUnary(v)

	case *coreir.Binary:
		return fe.emitBinary(v)

	case *coreir.Call:
		return fe.emitCall(v)

	case *coreir.CallValue:
		return fe.emitCallValue(v)

	case *coreir.FieldAccess:
		obj := fe.emitExpr(v.Object)
		return fe.callRuntime("otter_struct_get_field", []value{obj, fe.intConst(int64(v.Index))}, v.Typ)

	case *coreir.IndexList:
		obj := fe.emitExpr(v.Object)
		idx := fe.emitExpr(v.Index)
		return fe.callRuntime("otter_array_get", []value{obj, idx}, v.Typ)

	case *coreir.IndexDict:
		obj := fe.emitExpr(v.Object)
		idx := fe.emitExpr(v.Index)
		return fe.callRuntime("otter_dict_get", []value{obj, idx}, v.Typ)

	case *coreir.ListLit:
		return fe.emitListLit(v)

	case *coreir.DictLit:
		return fe.emitDictLit(v)

	case *coreir.StructLit:
		return fe.emitStructLit(v)

	case *coreir.MakeEnum:
		return fe.emitMakeEnum(v)

	case *coreir.Lambda:
		return fe.emitLambda(v)

	case *coreir.TaskSpawn:
		return fe.emitTaskSpawn(v)

	case *coreir.TaskAwait:
		return fe.emitTaskAwait(v)

	case *coreir.DecisionTreeExpr:
		return fe.emitDecisionTreeExpr(v)

	default:
		panic("irgen: unhandled expression kind reached the emitter")
	}
}

func (fe *funcEmitter) emitStringConst(s string) value {
	dst := fe.newTemp()
	fe.line("  %s = call ptr @otter_const_string(ptr @.str.%s)", dst, stringConstLabel(s))
	return value{ref: dst, typ: types.String}
}

// stringConstLabel produces a stable, readable module-constant label
// for a string literal; quoting/escaping the payload itself is left to
// the backend's string-table pass, which is out of the core's scope
// (spec 1's "foreign-function bridge generation" / backend boundary).
func stringConstLabel(s string) string {
	h := 0
	for _, r := range s {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return fmt.Sprintf("%d", h)
}

func formatFloatConst(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%g", f)
}

func (fe *funcEmitter) emitUnary(v *coreir.Unary) value {
	operand := fe.emitExpr(v.Operand)
	dst := fe.newTemp()
	switch v.Op {
	case "-":
		if v.Typ.Equals(types.Float) {
			fe.line("  %s = fneg f64 %s", dst, operand.ref)
		} else {
			fe.line("  %s = sub i64 0, %s", dst, operand.ref)
		}
	case "not":
		fe.line("  %s = xor i1 %s, 1", dst, operand.ref)
	default:
		panic("irgen: unhandled unary operator " + v.Op)
	}
	return value{ref: dst, typ: v.Typ}
}

func (fe *funcEmitter) emitBinary(v *coreir.Binary) value {
	if v.Op == coreir.OpAnd || v.Op == coreir.OpOr {
		return fe.emitShortCircuit(v)
	}

	left := fe.emitExpr(v.Left)
	right := fe.emitExpr(v.Right)
	operandIsFloat := left.typ.Equals(types.Float)

	switch v.Op {
	case coreir.OpConcat:
		return fe.callRuntime("otter_str_concat", []value{left, right}, types.String)
	case coreir.OpIPow:
		return fe.callRuntime("otter_int_pow", []value{left, right}, types.Int)
	case coreir.OpFPow:
		return fe.callRuntime("otter_float_pow", []value{left, right}, types.Float)
	}

	dst := fe.newTemp()
	instr, isCmp := binaryInstr(v.Op, operandIsFloat)
	ty := "i64"
	if operandIsFloat {
		ty = "f64"
	}
	fe.line("  %s = %s %s %s, %s", dst, instr, ty, left.ref, right.ref)
	if isCmp {
		return value{ref: dst, typ: types.Bool}
	}
	return value{ref: dst, typ: v.Typ}
}

// binaryInstr maps a core-IR operator to its integer/float instruction
// mnemonic, following the int/float split the teacher's bytecode
// already makes explicit at the opcode level (OpAddInt vs OpAddFloat,
// OpCompareInt vs OpCompareFloat in internal/bytecode/bytecode.go).
func binaryInstr(op string, isFloat bool) (instr string, isCmp bool) {
	switch op {
	case coreir.OpAdd:
		if isFloat {
			return "fadd", false
		}
		return "add", false
	case coreir.OpSub:
		if isFloat {
			return "fsub", false
		}
		return "sub", false
	case coreir.OpMul:
		if isFloat {
			return "fmul", false
		}
		return "mul", false
	case coreir.OpDiv:
		if isFloat {
			return "fdiv", false
		}
		return "sdiv", false
	case coreir.OpMod:
		if isFloat {
			return "frem", false
		}
		return "srem", false
	case coreir.OpEq:
		if isFloat {
			return "fcmp oeq", true
		}
		return "icmp eq", true
	case coreir.OpNe:
		if isFloat {
			return "fcmp one", true
		}
		return "icmp ne", true
	case coreir.OpLt:
		if isFloat {
			return "fcmp olt", true
		}
		return "icmp slt", true
	case coreir.OpLe:
		if isFloat {
			return "fcmp ole", true
		}
		return "icmp sle", true
	case coreir.OpGt:
		if isFloat {
			return "fcmp ogt", true
		}
		return "icmp sgt", true
	case coreir.OpGe:
		if isFloat {
			return "fcmp oge", true
		}
		return "icmp sge", true
	}
	panic("irgen: unhandled binary operator " + op)
}

// emitShortCircuit lowers `and`/`or` to a branch rather than an eager
// bitwise op, so the right operand is never evaluated when the left
// already decides the result (spec's expression-oriented surface
// implies short-circuit boolean semantics, matching every example
// repo's treatment of `&&`/`||`).
func (fe *funcEmitter) emitShortCircuit(v *coreir.Binary) value {
	left := fe.emitExpr(v.Left)
	rhsLabel := fe.newLabel("sc.rhs")
	endLabel := fe.newLabel("sc.end")
	resultPtr := fe.newTemp()
	fe.line("  %s = alloca i1", resultPtr)

	if v.Op == coreir.OpAnd {
		fe.line("  store i1 %s, ptr %s", left.ref, resultPtr)
		fe.line("  br i1 %s, label %%%s, label %%%s", left.ref, rhsLabel, endLabel)
	} else {
		fe.line("  store i1 %s, ptr %s", left.ref, resultPtr)
		fe.line("  br i1 %s, label %%%s, label %%%s", left.ref, endLabel, rhsLabel)
	}

	fe.line("%s:", rhsLabel)
	right := fe.emitExpr(v.Right)
	fe.line("  store i1 %s, ptr %s", right.ref, resultPtr)
	fe.line("  br label %%%s", endLabel)

	fe.line("%s:", endLabel)
	dst := fe.newTemp()
	fe.line("  %s = load i1, ptr %s", dst, resultPtr)
	return value{ref: dst, typ: types.Bool}
}

func (fe *funcEmitter) emitCall(v *coreir.Call) value {
	args := make([]value, len(v.Args))
	for i, a := range v.Args {
		args[i] = fe.emitExpr(a)
	}
	var ref string
	if v.Typ == nil || v.Typ.Equals(types.Void) {
		fe.line("  call void @%s(%s)", mangle(v.Callee), formatArgs(args))
	} else {
		dst := fe.newTemp()
		fe.line("  %s = call %s @%s(%s)", dst, irType(v.Typ), mangle(v.Callee), formatArgs(args))
		ref = dst
	}
	if v.Raises {
		fe.emitPostCallCheck()
	}
	return value{ref: ref, typ: v.Typ}
}

func (fe *funcEmitter) emitCallValue(v *coreir.CallValue) value {
	callee := fe.emitExpr(v.Callee)
	args := make([]value, len(v.Args))
	for i, a := range v.Args {
		args[i] = fe.emitExpr(a)
	}
	dst := fe.newTemp()
	fe.line("  %s = call %s %s(%s)", dst, irType(v.Typ), callee.ref, formatArgs(args))
	// A closure call is conservatively treated the same as a raising
	// direct call, since the emitter has no Func.Raises to consult for
	// a first-class value.
	fe.emitPostCallCheck()
	return value{ref: dst, typ: v.Typ}
}

// emitPostCallCheck inserts the conditional branch to the nearest
// landing pad every raising call needs per spec 4.5: "Each call that
// may raise is followed by a conditional branch to either the next
// statement or the nearest landing pad."
func (fe *funcEmitter) emitPostCallCheck() {
	hasErr := fe.callRuntime("otter_error_has_error", nil, types.Bool)
	contLabel := fe.newLabel("call.ok")
	if len(fe.errors) == 0 {
		// No active try region: an uncaught raise unwinds straight out of
		// this function, so the "landing pad" is simply returning early.
		unwindLabel := fe.newLabel("call.unwind")
		fe.line("  br i1 %s, label %%%s, label %%%s", hasErr.ref, unwindLabel, contLabel)
		fe.line("%s:", unwindLabel)
		fe.emitUnwindReturn()
		fe.line("%s:", contLabel)
		return
	}
	pad := fe.errors[len(fe.errors)-1].landingPad
	fe.line("  br i1 %s, label %%%s, label %%%s", hasErr.ref, pad, contLabel)
	fe.line("%s:", contLabel)
}

// emitUnwindReturn propagates an uncaught error out of the current
// function by returning its zero value immediately; the caller's own
// post-call check (or, at the root, otter_error_raise's abort path)
// observes the still-set error flag.
func (fe *funcEmitter) emitUnwindReturn() {
	if fe.f.ReturnType == nil || fe.f.ReturnType == types.Void {
		fe.line("  ret void")
		return
	}
	fe.line("  ret %s %s", irType(fe.f.ReturnType), zeroValue(fe.f.ReturnType))
}

func zeroValue(t types.Type) string {
	switch irType(t) {
	case "f64":
		return "0.0"
	case "i1":
		return "0"
	case "ptr":
		return "null"
	default:
		return "0"
	}
}

func (fe *funcEmitter) emitListLit(v *coreir.ListLit) value {
	at := v.Typ.(*types.ArrayType)
	list := fe.callRuntime("otter_array_new", []value{fe.intConst(int64(len(v.Elements)))}, v.Typ)
	for _, el := range v.Elements {
		elVal := fe.emitExpr(el)
		fe.callRuntimeVoid("otter_array_push", []value{list, elVal})
	}
	_ = at
	return list
}

func (fe *funcEmitter) emitDictLit(v *coreir.DictLit) value {
	dict := fe.callRuntime("otter_dict_new", nil, v.Typ)
	for _, entry := range v.Entries {
		k := fe.emitExpr(entry.Key)
		val := fe.emitExpr(entry.Value)
		fe.callRuntimeVoid("otter_dict_set", []value{dict, k, val})
	}
	return dict
}

func (fe *funcEmitter) emitStructLit(v *coreir.StructLit) value {
	st := v.Typ.(*types.StructType)
	id := fe.mod.structIDs[st.TypeName]
	s := fe.callRuntime("otter_struct_new", []value{fe.intConst(int64(id))}, v.Typ)
	for _, fld := range v.Fields {
		val := fe.emitExpr(fld.Value)
		fe.callRuntimeVoid("otter_struct_set_field", []value{s, fe.intConst(int64(fld.Index)), val})
	}
	return s
}

// emitMakeEnum packs the variant tag into the upper 32 bits and either
// the single scalar payload or a boxed-payload pointer into the lower
// 32 bits, per spec 4.5's enum layout rule.
func (fe *funcEmitter) emitMakeEnum(v *coreir.MakeEnum) value {
	tagShifted := fe.newTemp()
	fe.line("  %s = shl i64 %d, 32", tagShifted, v.Tag)

	if len(v.Payload) == 0 {
		return value{ref: tagShifted, typ: v.Typ}
	}
	if len(v.Payload) == 1 && fitsInline(v.Payload[0].Type()) {
		p := fe.emitExpr(v.Payload[0])
		ext := fe.newTemp()
		fe.line("  %s = zext %s %s to i64", ext, irType(p.typ), p.ref)
		dst := fe.newTemp()
		fe.line("  %s = or i64 %s, %s", dst, tagShifted, ext)
		return value{ref: dst, typ: v.Typ}
	}

	boxed := fe.callRuntime("otter_enum_box_payload", fe.emitAll(v.Payload), types.Int)
	dst := fe.newTemp()
	fe.line("  %s = or i64 %s, %s", dst, tagShifted, boxed.ref)
	return value{ref: dst, typ: v.Typ}
}

// fitsInline reports whether a single payload value is small enough to
// pack directly into the enum's lower 32 bits alongside the tag,
// rather than needing otter_enum_box_payload. Only Bool qualifies: an
// Int or Float payload is a full 64-bit value and always boxed.
func fitsInline(t types.Type) bool {
	return t.Equals(types.Bool)
}

func (fe *funcEmitter) emitAll(exprs []coreir.Expr) []value {
	out := make([]value, len(exprs))
	for i, e := range exprs {
		out[i] = fe.emitExpr(e)
	}
	return out
}

// emitLambda emits the closure's body as a separate top-level function
// (named relative to the enclosing function, since OtterLang has no
// surface syntax to reference a lambda by name) and returns a closure
// handle pairing that function pointer with its captured locals.
func (fe *funcEmitter) emitLambda(v *coreir.Lambda) value {
	name := fmt.Sprintf("%s.lambda%d", mangle(fe.f.Name), fe.newLambdaID())
	inner := &funcEmitter{mod: fe.mod, f: &coreir.Func{
		Name:       name,
		Params:     v.Params,
		ReturnType: v.Typ.(*types.FunctionType).ReturnType,
		Body:       lambdaBody(v),
	}}
	fe.mod.extraFuncs = append(fe.mod.extraFuncs, inner)

	captures := make([]value, len(v.Captures))
	for i, c := range v.Captures {
		slot, ok := fe.locals[c]
		if !ok {
			panic("irgen: lambda capture of unknown slot " + c)
		}
		tmp := fe.newTemp()
		fe.line("  %s = load %s, ptr %s", tmp, irType(slot.typ), slot.ptr)
		captures[i] = value{ref: tmp, typ: slot.typ}
	}
	return fe.callRuntime("otter_closure_new", append([]value{{ref: "@" + name, typ: types.Int}}, captures...), v.Typ)
}

func lambdaBody(v *coreir.Lambda) []coreir.Stmt {
	if v.Expr != nil {
		return []coreir.Stmt{&coreir.Return{Value: v.Expr}}
	}
	return v.Body
}

func (fe *funcEmitter) newLambdaID() int {
	fe.tmp++
	return fe.tmp
}

func (fe *funcEmitter) emitTaskSpawn(v *coreir.TaskSpawn) value {
	name := fmt.Sprintf("%s.task%d", mangle(fe.f.Name), fe.newLambdaID())
	body := v.Body
	if v.Expr != nil {
		body = append(append([]coreir.Stmt{}, body...), &coreir.Return{Value: v.Expr})
	}
	retType := v.Typ.(*types.TaskType).Result
	inner := &funcEmitter{mod: fe.mod, f: &coreir.Func{Name: name, ReturnType: retType, Body: body}}
	fe.mod.extraFuncs = append(fe.mod.extraFuncs, inner)
	return fe.callRuntime("otter_task_spawn", []value{{ref: "@" + name, typ: types.Int}}, v.Typ)
}

func (fe *funcEmitter) emitTaskAwait(v *coreir.TaskAwait) value {
	task := fe.emitExpr(v.Task)
	result := fe.callRuntime("otter_task_await", []value{task}, v.Typ)
	fe.emitPostCallCheck()
	return result
}
