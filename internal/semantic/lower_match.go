package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

func (lw *lowerer) lowerMatchExpr(e *ast.MatchExpression) coreir.Expr {
	subjectType := lw.a.TypeOf(e.Subject)
	cases := make([]coreir.CaseExpr, len(e.Arms))
	for i := range e.Arms {
		arm := &e.Arms[i]
		conds, binds := lw.compilePattern(arm.Pattern, nil, subjectType)
		var guard coreir.Expr
		if arm.Guard != nil {
			guard = lw.lowerExpr(arm.Guard)
		}
		var result coreir.Expr
		if arm.Arrow {
			result = lw.lowerExpr(arm.Expr)
		}
		cases[i] = coreir.CaseExpr{Conds: conds, Binds: binds, Guard: guard, Result: result}
	}
	return &coreir.DecisionTreeExpr{Subject: lw.lowerExpr(e.Subject), Cases: cases, Typ: lw.a.TypeOf(e)}
}

func (lw *lowerer) lowerMatchStmt(e *ast.MatchExpression) []coreir.Stmt {
	subjectType := lw.a.TypeOf(e.Subject)
	cases := make([]coreir.CaseStmt, len(e.Arms))
	for i := range e.Arms {
		arm := &e.Arms[i]
		conds, binds := lw.compilePattern(arm.Pattern, nil, subjectType)
		var guard coreir.Expr
		if arm.Guard != nil {
			guard = lw.lowerExpr(arm.Guard)
		}
		var body []coreir.Stmt
		if arm.Arrow {
			body = []coreir.Stmt{&coreir.ExprStmt{Value: lw.lowerExpr(arm.Expr)}}
		} else {
			body = lw.lowerBlock(arm.Body)
		}
		cases[i] = coreir.CaseStmt{Conds: conds, Binds: binds, Guard: guard, Body: body}
	}
	return []coreir.Stmt{&coreir.DecisionTree{Subject: lw.lowerExpr(e.Subject), Cases: cases}}
}

// compilePattern reduces a pattern of arbitrary nesting depth to a flat
// conjunction of shape tests (Conds) plus the names it binds (Binds),
// each anchored at path: the sequence of projections from the case's
// subject that reaches the value pat actually matches against. This is
// what lets an enum variant pattern hold a nested struct or list
// pattern without the core IR needing a recursive "sub-match" node —
// the nesting is flattened once, here, instead of carried into the
// emitter/evaluator.
func (lw *lowerer) compilePattern(pat ast.Pattern, path []coreir.Projection, subjectType types.Type) (conds []coreir.Cond, binds []coreir.Bind) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return nil, nil
	case *ast.IdentifierPattern:
		return nil, []coreir.Bind{{Name: p.Name, Typ: subjectType, Path: path}}
	case *ast.LiteralPattern:
		return []coreir.Cond{{Path: path, Kind: coreir.KindEqual, Literal: lw.lowerExpr(p.Value)}}, nil
	case *ast.EnumVariantPattern:
		et, ok := subjectType.(*types.EnumType)
		if !ok {
			return nil, nil
		}
		variant, ok := et.VariantByName(p.Variant)
		if !ok {
			return nil, nil
		}
		conds = append(conds, coreir.Cond{Path: path, Kind: coreir.KindTag, Tag: variant.Tag})
		for i, fp := range p.Fields {
			if i >= len(variant.Fields) {
				break
			}
			subPath := extend(path, coreir.Projection{Kind: coreir.ProjectEnumField, Index: i})
			subConds, subBinds := lw.compilePattern(fp, subPath, variant.Fields[i])
			conds = append(conds, subConds...)
			binds = append(binds, subBinds...)
		}
		return conds, binds
	case *ast.StructPattern:
		st, ok := subjectType.(*types.StructType)
		if !ok {
			return nil, nil
		}
		for _, fp := range p.Fields {
			field, ok := st.FieldByName(fp.Name)
			if !ok {
				continue
			}
			subPath := extend(path, coreir.Projection{Kind: coreir.ProjectStructField, Field: fp.Name})
			subConds, subBinds := lw.compilePattern(fp.Pattern, subPath, field.Type)
			conds = append(conds, subConds...)
			binds = append(binds, subBinds...)
		}
		return conds, binds
	case *ast.ListPattern:
		at, ok := subjectType.(*types.ArrayType)
		if !ok {
			return nil, nil
		}
		if p.Rest != nil {
			conds = append(conds, coreir.Cond{Path: path, Kind: coreir.KindLenAtLeast, Len: len(p.Elements)})
		} else {
			conds = append(conds, coreir.Cond{Path: path, Kind: coreir.KindLenExact, Len: len(p.Elements)})
		}
		for i, ep := range p.Elements {
			subPath := extend(path, coreir.Projection{Kind: coreir.ProjectListElement, Index: i})
			subConds, subBinds := lw.compilePattern(ep, subPath, at.Element)
			conds = append(conds, subConds...)
			binds = append(binds, subBinds...)
		}
		if p.Rest != nil {
			restPath := extend(path, coreir.Projection{Kind: coreir.ProjectListRest, Index: len(p.Elements)})
			binds = append(binds, coreir.Bind{Name: p.Rest.Name, Typ: at, Path: restPath})
		}
		return conds, binds
	default:
		return nil, nil
	}
}

// extend copies path and appends proj, since sibling sub-patterns
// (two fields of the same enum variant, two elements of the same list
// pattern) must not share a backing array.
func extend(path []coreir.Projection, proj coreir.Projection) []coreir.Projection {
	out := make([]coreir.Projection, len(path), len(path)+1)
	copy(out, path)
	return append(out, proj)
}
