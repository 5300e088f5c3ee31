package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/types"
)

// ExprTypes is the authoritative result of expression type inference,
// keyed by AST node identity; the IR lowering pass reads from here rather
// than re-deriving types.Type from each node's denormalized
// *ast.TypeAnnotation (SetType exists mainly so tooling/tests can render
// an inferred type back as source-like syntax).
type ExprTypes = map[ast.Expression]types.Type

func (a *Analyzer) record(expr ast.Expression, t types.Type) types.Type {
	if a.exprTypes == nil {
		a.exprTypes = make(ExprTypes)
	}
	a.exprTypes[expr] = t
	if te, ok := expr.(ast.TypedExpression); ok && t != nil {
		te.SetType(&ast.TypeAnnotation{Name: t.Name()})
	}
	return t
}

// TypeOf returns the type inference recorded for expr, or nil if expr
// was never visited (a sign of a bug in the caller, not a user error).
func (a *Analyzer) TypeOf(expr ast.Expression) types.Type {
	return a.exprTypes[expr]
}

// inferExpr performs bottom-up inference: the type of expr, determined
// from its own shape and its subexpressions, without an expected type
// from context.
func (a *Analyzer) inferExpr(expr ast.Expression) types.Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return a.record(e, types.Int)
	case *ast.FloatLiteral:
		return a.record(e, types.Float)
	case *ast.StringLiteral:
		return a.record(e, types.String)
	case *ast.BooleanLiteral:
		return a.record(e, types.Bool)
	case *ast.NilLiteral:
		return a.record(e, types.Nil)
	case *ast.FStringExpression:
		for _, embed := range e.Embeds {
			a.inferExpr(embed)
		}
		return a.record(e, types.String)
	case *ast.Identifier:
		sym, ok := a.symbols.Resolve(e.Value)
		if !ok {
			a.addError(e.Pos(), "undefined name %q", e.Value)
			return a.record(e, nil)
		}
		return a.record(e, sym.Type)
	case *ast.GroupedExpression:
		return a.record(e, a.inferExpr(e.Expression))
	case *ast.ListLiteral:
		return a.record(e, a.inferListLiteral(e))
	case *ast.DictLiteral:
		return a.record(e, a.inferDictLiteral(e))
	case *ast.StructLiteral:
		return a.record(e, a.inferStructLiteral(e))
	case *ast.RangeExpression:
		a.checkExpr(e.Start, types.Int)
		a.checkExpr(e.End, types.Int)
		return a.record(e, &types.ArrayType{Element: types.Int})
	case *ast.UnaryExpression:
		return a.record(e, a.inferUnary(e))
	case *ast.BinaryExpression:
		return a.record(e, a.inferBinary(e))
	case *ast.CallExpression:
		return a.record(e, a.inferCall(e))
	case *ast.MemberExpression:
		return a.record(e, a.inferMember(e))
	case *ast.IndexExpression:
		return a.record(e, a.inferIndex(e))
	case *ast.LambdaExpression:
		return a.record(e, a.inferLambda(e))
	case *ast.SpawnExpression:
		result := a.inferCall(e.Call)
		return a.record(e, &types.TaskType{Result: result})
	case *ast.AwaitExpression:
		taskType := a.inferExpr(e.Task)
		if t, ok := taskType.(*types.TaskType); ok {
			return a.record(e, t.Result)
		}
		if taskType != nil {
			a.addError(e.Pos(), "cannot await non-task type %s", typeName(taskType))
		}
		return a.record(e, nil)
	case *ast.MatchExpression:
		return a.record(e, a.inferMatch(e))
	default:
		a.addError(expr.Pos(), "unsupported expression %T", expr)
		return nil
	}
}

// checkExpr infers expr's type and reports a mismatch against expected,
// returning the inferred type either way so callers can keep going.
func (a *Analyzer) checkExpr(expr ast.Expression, expected types.Type) types.Type {
	got := a.inferExpr(expr)
	if got != nil && expected != nil && !a.canAssign(got, expected) {
		a.addError(expr.Pos(), "type mismatch: expected %s, got %s", typeName(expected), typeName(got))
	}
	return got
}

func (a *Analyzer) inferListLiteral(e *ast.ListLiteral) types.Type {
	if len(e.Elements) == 0 {
		a.addError(e.Pos(), "cannot infer element type of an empty list literal without context")
		return nil
	}
	elem := a.inferExpr(e.Elements[0])
	for _, el := range e.Elements[1:] {
		a.checkExpr(el, elem)
	}
	if elem == nil {
		return nil
	}
	return &types.ArrayType{Element: elem}
}

func (a *Analyzer) inferDictLiteral(e *ast.DictLiteral) types.Type {
	if len(e.Entries) == 0 {
		a.addError(e.Pos(), "cannot infer key/value type of an empty dict literal without context")
		return nil
	}
	key := a.inferExpr(e.Entries[0].Key)
	val := a.inferExpr(e.Entries[0].Value)
	for _, ent := range e.Entries[1:] {
		a.checkExpr(ent.Key, key)
		a.checkExpr(ent.Value, val)
	}
	if key == nil || val == nil {
		return nil
	}
	return &types.DictType{Key: key, Value: val}
}

func (a *Analyzer) inferStructLiteral(e *ast.StructLiteral) types.Type {
	st, ok := a.structs[e.Name]
	if !ok {
		a.addError(e.Pos(), "unknown struct %q", e.Name)
		return nil
	}
	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		seen[f.Name] = true
		field, ok := st.FieldByName(f.Name)
		if !ok {
			a.addError(e.Pos(), "struct %q has no field %q", e.Name, f.Name)
			a.inferExpr(f.Value)
			continue
		}
		a.checkExpr(f.Value, field.Type)
	}
	for _, field := range st.Fields {
		if !seen[field.Name] {
			a.addError(e.Pos(), "missing field %q in %q literal", field.Name, e.Name)
		}
	}
	return st
}

func (a *Analyzer) inferUnary(e *ast.UnaryExpression) types.Type {
	operand := a.inferExpr(e.Right)
	switch e.Operator {
	case "-":
		if operand != nil && !operand.Equals(types.Int) && !operand.Equals(types.Float) {
			a.addError(e.Pos(), "unary - requires Int or Float, got %s", typeName(operand))
		}
		return operand
	case "not":
		if operand != nil && !operand.Equals(types.Bool) {
			a.addError(e.Right.Pos(), "not requires a Bool operand, got %s", typeName(operand))
		}
		return types.Bool
	default:
		a.addError(e.Pos(), "unknown unary operator %q", e.Operator)
		return nil
	}
}

func (a *Analyzer) inferBinary(e *ast.BinaryExpression) types.Type {
	left := a.inferExpr(e.Left)
	right := a.inferExpr(e.Right)
	switch e.Operator {
	case "+", "-", "*", "/", "%":
		if left != nil && right != nil && !left.Equals(right) {
			a.addError(e.Pos(), "operator %s requires matching operand types, got %s and %s", e.Operator, typeName(left), typeName(right))
			return left
		}
		return left
	case "==", "!=":
		return types.Bool
	case "<", "<=", ">", ">=":
		if left != nil && right != nil && !left.Equals(right) {
			a.addError(e.Pos(), "operator %s requires matching operand types, got %s and %s", e.Operator, typeName(left), typeName(right))
		}
		return types.Bool
	case "and", "or":
		if left != nil && !left.Equals(types.Bool) {
			a.addError(e.Left.Pos(), "operator %s requires Bool operands, got %s", e.Operator, typeName(left))
		}
		if right != nil && !right.Equals(types.Bool) {
			a.addError(e.Right.Pos(), "operator %s requires Bool operands, got %s", e.Operator, typeName(right))
		}
		return types.Bool
	default:
		a.addError(e.Pos(), "unknown binary operator %q", e.Operator)
		return nil
	}
}

func (a *Analyzer) inferCall(e *ast.CallExpression) types.Type {
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		if _, shadowed := a.symbols.Resolve(ident.Value); !shadowed {
			// str(x) is sugar for the same static-type-dispatched
			// stringification f-strings desugar to (see lower_expr.go's
			// stringify), not a declared function — it has to work over
			// every primitive type, which OtterLang has no trait/overload
			// mechanism to express as a single real signature.
			if ident.Value == "str" && len(e.Arguments) == 1 {
				a.inferExpr(e.Arguments[0])
				return types.String
			}
			if ft, ok := runtimeIntrinsics[ident.Value]; ok {
				return a.checkIntrinsicCall(e.Arguments, ft)
			}
		}
	}
	calleeType := a.inferExpr(e.Callee)
	ft, ok := calleeType.(*types.FunctionType)
	if !ok {
		if calleeType != nil {
			a.addError(e.Pos(), "cannot call a value of type %s", typeName(calleeType))
		}
		for _, arg := range e.Arguments {
			a.inferExpr(arg)
		}
		return nil
	}
	if len(e.Arguments) != len(ft.Params) {
		a.addError(e.Pos(), "expected %d argument(s), got %d", len(ft.Params), len(e.Arguments))
	}

	if ident, ok := e.Callee.(*ast.Identifier); ok && isGeneric(ft) {
		if order, ok := a.funcTypeParams[ident.Value]; ok {
			subst := make(map[string]types.Type)
			argTypes := make([]types.Type, len(e.Arguments))
			for i, arg := range e.Arguments {
				argTypes[i] = a.inferExpr(arg)
				if i < len(ft.Params) {
					unify(ft.Params[i], argTypes[i], subst)
				}
			}
			specialized := a.instantiate(ident.Value, ft, subst, order)
			for i := range e.Arguments {
				if i < len(specialized.Params) {
					if argTypes[i] != nil && specialized.Params[i] != nil && !a.canAssign(argTypes[i], specialized.Params[i]) {
						a.addError(e.Arguments[i].Pos(), "type mismatch: expected %s, got %s", typeName(specialized.Params[i]), typeName(argTypes[i]))
					}
				}
			}
			return specialized.ReturnType
		}
	}

	for i, arg := range e.Arguments {
		if i < len(ft.Params) {
			a.checkExpr(arg, ft.Params[i])
		} else {
			a.inferExpr(arg)
		}
	}
	return ft.ReturnType
}

func (a *Analyzer) inferMember(e *ast.MemberExpression) types.Type {
	objType := a.inferExpr(e.Object)
	st, ok := objType.(*types.StructType)
	if !ok {
		if objType != nil {
			a.addError(e.Pos(), "type %s has no field %q", typeName(objType), e.Member)
		}
		return nil
	}
	field, ok := st.FieldByName(e.Member)
	if !ok {
		a.addError(e.Pos(), "struct %q has no field %q", st.TypeName, e.Member)
		return nil
	}
	return field.Type
}

func (a *Analyzer) inferIndex(e *ast.IndexExpression) types.Type {
	objType := a.inferExpr(e.Object)
	switch t := objType.(type) {
	case *types.ArrayType:
		a.checkExpr(e.Index, types.Int)
		return t.Element
	case *types.DictType:
		a.checkExpr(e.Index, t.Key)
		return &types.OptionType{Element: t.Value}
	default:
		if objType != nil {
			a.addError(e.Pos(), "type %s is not indexable", typeName(objType))
		}
		a.inferExpr(e.Index)
		return nil
	}
}

func (a *Analyzer) inferLambda(e *ast.LambdaExpression) types.Type {
	a.openScope()
	defer a.closeScope()

	params := make([]types.Type, len(e.Parameters))
	for i, p := range e.Parameters {
		pt := a.resolveAnnotation(p.Type)
		params[i] = pt
		a.symbols.DefineReadOnly(p.Name.Value, pt)
	}

	var ret types.Type
	if e.Expr != nil {
		ret = a.inferExpr(e.Expr)
	} else if e.Body != nil {
		a.analyzeBlock(e.Body)
		ret = types.Void
	}
	return &types.FunctionType{Params: params, ReturnType: ret}
}
