package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/coreir"
	"github.com/otterlang/otterc/internal/types"
)

// lowerStmt returns zero or more core-IR statements for s. Most surface
// statements lower one-to-one; an expression statement with no
// expression lowers to none.
func (lw *lowerer) lowerStmt(stmt ast.Statement) []coreir.Stmt {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return []coreir.Stmt{&coreir.Let{Name: s.Name.Value, Typ: lw.a.TypeOf(s.Value), Value: lw.lowerExpr(s.Value)}}
	case *ast.AssignStatement:
		return lw.lowerAssign(s)
	case *ast.ExpressionStatement:
		if s.Expression == nil {
			return nil
		}
		return []coreir.Stmt{&coreir.ExprStmt{Value: lw.lowerExpr(s.Expression)}}
	case *ast.ReturnStatement:
		var val coreir.Expr
		if s.ReturnValue != nil {
			val = lw.lowerExpr(s.ReturnValue)
		}
		return []coreir.Stmt{&coreir.Return{Value: val}}
	case *ast.IfStatement:
		return []coreir.Stmt{lw.lowerIf(s)}
	case *ast.ForStatement:
		return []coreir.Stmt{lw.lowerFor(s)}
	case *ast.WhileStatement:
		return []coreir.Stmt{&coreir.While{Condition: lw.lowerExpr(s.Condition), Body: lw.lowerBlock(s.Body)}}
	case *ast.BreakStatement:
		return []coreir.Stmt{&coreir.Break{}}
	case *ast.ContinueStatement:
		return []coreir.Stmt{&coreir.Continue{}}
	case *ast.PassStatement:
		return []coreir.Stmt{&coreir.Pass{}}
	case *ast.TryStatement:
		return []coreir.Stmt{lw.lowerTry(s)}
	case *ast.RaiseStatement:
		var msg coreir.Expr
		if s.Value != nil {
			msg = lw.lowerExpr(s.Value)
		}
		return []coreir.Stmt{&coreir.Raise{Message: msg}}
	case *ast.MatchExpression:
		return lw.lowerMatchStmt(s)
	default:
		return nil
	}
}

// lowerAssign desugars a compound assignment (x += v) into a plain
// store of (x op v), so core-IR only ever has a single store shape.
func (lw *lowerer) lowerAssign(s *ast.AssignStatement) []coreir.Stmt {
	place := lw.lowerPlace(s.Target)
	value := lw.lowerExpr(s.Value)
	if s.Operator != "=" {
		op := s.Operator[:len(s.Operator)-1] // "+=" -> "+"
		current := lw.lowerExpr(s.Target)
		value = &coreir.Binary{Op: op, Left: current, Right: value, Typ: lw.a.TypeOf(s.Target)}
	}
	return []coreir.Stmt{&coreir.Assign{Target: place, Value: value}}
}

func (lw *lowerer) lowerPlace(target ast.Expression) coreir.Place {
	switch t := target.(type) {
	case *ast.Identifier:
		return coreir.Place{Kind: coreir.PlaceSlot, Name: t.Value}
	case *ast.MemberExpression:
		objTyp := lw.a.TypeOf(t.Object)
		idx := 0
		if st, ok := objTyp.(*types.StructType); ok {
			for i, f := range st.Fields {
				if f.Name == t.Member {
					idx = i
					break
				}
			}
		}
		return coreir.Place{Kind: coreir.PlaceField, Object: lw.lowerExpr(t.Object), Field: t.Member, Index: idx}
	case *ast.IndexExpression:
		objTyp := lw.a.TypeOf(t.Object)
		obj := lw.lowerExpr(t.Object)
		key := lw.lowerExpr(t.Index)
		if _, ok := objTyp.(*types.DictType); ok {
			return coreir.Place{Kind: coreir.PlaceIndexDict, Object: obj, Key: key}
		}
		return coreir.Place{Kind: coreir.PlaceIndexList, Object: obj, Key: key}
	default:
		return coreir.Place{}
	}
}

// lowerIf flattens a surface if/elif*/else chain into a right-leaning
// chain of single-condition Ifs: the first clause's Else holds the
// lowering of the remaining clauses (as a synthetic nested if) or the
// final else block.
func (lw *lowerer) lowerIf(s *ast.IfStatement) coreir.Stmt {
	return lw.lowerIfClauses(s.Clauses, s.Alternative)
}

func (lw *lowerer) lowerIfClauses(clauses []ast.IfClause, alt *ast.BlockStatement) coreir.Stmt {
	clause := clauses[0]
	node := &coreir.If{Condition: lw.lowerExpr(clause.Condition), Body: lw.lowerBlock(clause.Body)}
	switch {
	case len(clauses) > 1:
		node.Else = []coreir.Stmt{lw.lowerIfClauses(clauses[1:], alt)}
	case alt != nil:
		node.Else = lw.lowerBlock(alt)
	}
	return node
}

// lowerFor distinguishes `for i in a..b:` (a ForRange, avoiding
// materializing the range as a list) from `for x in someList:` (a
// ForEach over an already-built array value).
func (lw *lowerer) lowerFor(s *ast.ForStatement) coreir.Stmt {
	if rng, ok := s.Iterable.(*ast.RangeExpression); ok {
		return &coreir.ForRange{
			Name:  s.Name.Value,
			Start: lw.lowerExpr(rng.Start),
			End:   lw.lowerExpr(rng.End),
			Body:  lw.lowerBlock(s.Body),
		}
	}
	iterTyp := lw.a.TypeOf(s.Iterable)
	var elemTyp types.Type
	if at, ok := iterTyp.(*types.ArrayType); ok {
		elemTyp = at.Element
	}
	return &coreir.ForEach{
		Name:     s.Name.Value,
		ElemType: elemTyp,
		Iterable: lw.lowerExpr(s.Iterable),
		Body:     lw.lowerBlock(s.Body),
	}
}

// lowerTry brackets the protected block with the runtime's error-
// context push/pop, per spec 4.4's try/except/finally desugaring rule.
func (lw *lowerer) lowerTry(s *ast.TryStatement) coreir.Stmt {
	handlers := make([]coreir.ExceptHandler, len(s.Excepts))
	for i, ex := range s.Excepts {
		bindName := ""
		if ex.Name != nil {
			bindName = ex.Name.Value
		}
		handlers[i] = coreir.ExceptHandler{BindName: bindName, Body: lw.lowerBlock(ex.Body)}
	}
	return &coreir.ErrorContext{
		Body:     lw.lowerBlock(s.Body),
		Handlers: handlers,
		Finally:  lw.lowerBlock(s.FinallyBody),
	}
}
