package irgen

import "github.com/otterlang/otterc/internal/types"

// irType renders t as the textual IR type spec 4.5's layout rules
// assign it. Every heap-referencing shape (String, array, dict,
// struct, enum payload box, closure, task handle) is rendered as the
// opaque "ptr", matching modern LLVM's opaque-pointer convention rather
// than carrying a pointee type through every instruction — the core
// never needs to distinguish pointer *kinds* at the type-text level,
// only at the runtime-call level where the ABI symbol itself encodes
// what's being pointed at.
func irType(t types.Type) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case *types.Primitive:
		switch v.Kind() {
		case types.KindInt:
			return "i64"
		case types.KindFloat:
			return "f64"
		case types.KindBool:
			return "i1"
		case types.KindString:
			return "ptr"
		case types.KindVoid, types.KindNil:
			return "void"
		}
	case *types.ArrayType, *types.DictType, *types.FunctionType, *types.TaskType, *types.StructType:
		return "ptr"
	case *types.EnumType:
		// Packed tag+payload per spec 4.5: upper 32 bits tag, lower 32
		// bits either an inline scalar payload or a pointer to a boxed
		// one. Both fit in one i64 register.
		return "i64"
	case *types.OptionType, *types.ResultType:
		// Treated as a built-in two-variant enum (None/Some,
		// Ok/Err) using the same packed i64 encoding; see DESIGN.md's
		// "Option/Result representation" entry for why no separate
		// encoding was introduced.
		return "i64"
	}
	// types.TypeParam reaching here means a generic body was emitted
	// without being monomorphized first: an emitter invariant violation,
	// never a user-facing diagnostic (spec 4.5's "Failure modes").
	panic("irgen: unresolved type reached the emitter: " + t.Name())
}

// structLayoutName is the module-level named-type spelling for a
// struct declaration's field layout; struct values themselves are
// "ptr" (see irType).
func structLayoutName(st *types.StructType) string {
	return "%Struct." + st.TypeName
}
