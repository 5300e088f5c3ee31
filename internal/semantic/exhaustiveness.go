package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/types"
)

// inferMatch type-checks a match expression: every arm's pattern against
// the subject type, every arm's guard/body/expr, then runs the
// exhaustiveness check. The expression's own type is the unified type of
// its arrow arms, or Void if every arm is a block (statement-position
// match).
func (a *Analyzer) inferMatch(e *ast.MatchExpression) types.Type {
	subjectType := a.inferExpr(e.Subject)

	var result types.Type
	sawArrow := false
	for i := range e.Arms {
		arm := &e.Arms[i]
		a.openScope()
		a.bindPattern(arm.Pattern, subjectType)
		if arm.Guard != nil {
			a.checkExpr(arm.Guard, types.Bool)
		}
		if arm.Arrow {
			t := a.inferExpr(arm.Expr)
			if !sawArrow {
				result, sawArrow = t, true
			} else if t != nil && result != nil && !t.Equals(result) {
				a.addError(arm.Expr.Pos(), "match arm type %s does not match earlier arm type %s", typeName(t), typeName(result))
			}
		} else {
			a.analyzeBlock(arm.Body)
		}
		a.closeScope()
	}

	if subjectType != nil {
		a.checkExhaustive(e, subjectType)
	}

	if !sawArrow {
		return types.Void
	}
	return result
}

// bindPattern binds names introduced by pat into the current scope and
// reports a type mismatch if pat's shape is structurally incompatible
// with subjectType (e.g. a struct pattern against a non-struct subject).
func (a *Analyzer) bindPattern(pat ast.Pattern, subjectType types.Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.IdentifierPattern:
		a.symbols.DefineReadOnly(p.Name, subjectType)
	case *ast.LiteralPattern:
		a.inferExpr(p.Value)
	case *ast.EnumVariantPattern:
		et, ok := subjectType.(*types.EnumType)
		if !ok {
			if subjectType != nil {
				a.addError(p.Pos(), "pattern expects an enum, subject has type %s", typeName(subjectType))
			}
			return
		}
		if p.Enum != "" && p.Enum != et.TypeName {
			a.addError(p.Pos(), "pattern names enum %q, subject has type %q", p.Enum, et.TypeName)
		}
		variant, ok := et.VariantByName(p.Variant)
		if !ok {
			a.addError(p.Pos(), "enum %q has no variant %q", et.TypeName, p.Variant)
			return
		}
		if len(p.Fields) != len(variant.Fields) {
			a.addError(p.Pos(), "variant %q takes %d field(s), pattern has %d", p.Variant, len(variant.Fields), len(p.Fields))
			return
		}
		for i, fp := range p.Fields {
			a.bindPattern(fp, variant.Fields[i])
		}
	case *ast.StructPattern:
		st, ok := subjectType.(*types.StructType)
		if !ok {
			if subjectType != nil {
				a.addError(p.Pos(), "pattern expects a struct, subject has type %s", typeName(subjectType))
			}
			return
		}
		if p.Name != "" && p.Name != st.TypeName {
			a.addError(p.Pos(), "pattern names struct %q, subject has type %q", p.Name, st.TypeName)
		}
		for _, fp := range p.Fields {
			field, ok := st.FieldByName(fp.Name)
			if !ok {
				a.addError(p.Pos(), "struct %q has no field %q", st.TypeName, fp.Name)
				continue
			}
			a.bindPattern(fp.Pattern, field.Type)
		}
	case *ast.ListPattern:
		at, ok := subjectType.(*types.ArrayType)
		if !ok {
			if subjectType != nil {
				a.addError(p.Pos(), "pattern expects a list, subject has type %s", typeName(subjectType))
			}
			return
		}
		for _, ep := range p.Elements {
			a.bindPattern(ep, at.Element)
		}
		if p.Rest != nil {
			a.symbols.DefineReadOnly(p.Rest.Name, at)
		}
	default:
		a.addError(pat.Pos(), "unsupported pattern %T", pat)
	}
}

// checkExhaustive verifies the arms cover every case of subjectType's
// domain when that domain is closed and enumerable (an enum's variants,
// or Bool's two values). A match on any other primitive (Int, Float,
// String) can't be covered by literal arms and requires a wildcard or
// binding arm; struct, list and other subject types are left unchecked.
func (a *Analyzer) checkExhaustive(e *ast.MatchExpression, subjectType types.Type) {
	if hasCatchAll(e.Arms) {
		return
	}
	switch t := subjectType.(type) {
	case *types.EnumType:
		covered := make(map[string]bool)
		for _, arm := range e.Arms {
			if evp, ok := arm.Pattern.(*ast.EnumVariantPattern); ok {
				covered[evp.Variant] = true
			}
		}
		var missing []string
		for _, v := range t.Variants {
			if !covered[v.Name] {
				missing = append(missing, v.Name)
			}
		}
		if len(missing) > 0 {
			a.addError(e.Pos(), "non-exhaustive match on %q: missing variant(s) %v", t.TypeName, missing)
		}
	case *types.Primitive:
		if t == types.Bool {
			sawTrue, sawFalse := false, false
			for _, arm := range e.Arms {
				if lp, ok := arm.Pattern.(*ast.LiteralPattern); ok {
					if bl, ok := lp.Value.(*ast.BooleanLiteral); ok {
						if bl.Value {
							sawTrue = true
						} else {
							sawFalse = true
						}
					}
				}
			}
			var missing []string
			if !sawTrue {
				missing = append(missing, "true")
			}
			if !sawFalse {
				missing = append(missing, "false")
			}
			if len(missing) > 0 {
				a.addError(e.Pos(), "non-exhaustive match on Bool: missing %v", missing)
			}
		} else {
			a.addError(e.Pos(), "non-exhaustive match on %s: a wildcard or binding arm is required", t.Name())
		}
	}
}

func hasCatchAll(arms []ast.MatchArm) bool {
	for _, arm := range arms {
		switch arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentifierPattern:
			return true
		}
	}
	return false
}
