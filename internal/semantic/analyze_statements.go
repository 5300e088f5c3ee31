package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/types"
)

// TypeCheckPass type-checks every function body and top-level statement
// once DeclarePass has registered every struct/enum/function signature.
type TypeCheckPass struct{}

func (p *TypeCheckPass) Name() string { return "typecheck" }

func (p *TypeCheckPass) Run(a *Analyzer, mod *ast.Module) {
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			a.analyzeFunctionDecl(decl)
		case *ast.StructDecl, *ast.EnumDecl:
			// fields/variants already resolved by DeclarePass
		default:
			a.analyzeStatement(d)
		}
	}
}

func (a *Analyzer) analyzeFunctionDecl(decl *ast.FunctionDecl) {
	ft := a.funcs[decl.Name.Value]
	if ft == nil {
		return // a DeclarePass error already reported why the signature didn't register
	}

	a.openScope()
	defer a.closeScope()

	savedParams := a.typeParams
	a.typeParams = make(map[string]bool, len(savedParams)+len(decl.TypeParams))
	for k := range savedParams {
		a.typeParams[k] = true
	}
	for _, tp := range decl.TypeParams {
		a.typeParams[tp.Name] = true
	}
	defer func() { a.typeParams = savedParams }()

	for i, param := range decl.Parameters {
		a.symbols.DefineReadOnly(param.Name.Value, ft.Params[i])
		if param.Default != nil {
			a.checkExpr(param.Default, ft.Params[i])
		}
	}

	prevFunc := a.currentFunction
	a.currentFunction = decl
	defer func() { a.currentFunction = prevFunc }()

	a.analyzeBlock(decl.Body)
}

func (a *Analyzer) analyzeBlock(block *ast.BlockStatement) {
	if block == nil {
		return
	}
	a.openScope()
	defer a.closeScope()
	for _, stmt := range block.Statements {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		a.analyzeLet(s)
	case *ast.AssignStatement:
		a.analyzeAssign(s)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			a.inferExpr(s.Expression)
		}
	case *ast.ReturnStatement:
		a.analyzeReturn(s)
	case *ast.IfStatement:
		a.analyzeIf(s)
	case *ast.ForStatement:
		a.analyzeFor(s)
	case *ast.WhileStatement:
		a.analyzeWhile(s)
	case *ast.BreakStatement:
		if a.loopDepth == 0 {
			a.addError(s.Pos(), "break outside of a loop")
		}
	case *ast.ContinueStatement:
		if a.loopDepth == 0 {
			a.addError(s.Pos(), "continue outside of a loop")
		}
	case *ast.PassStatement:
		// no-op
	case *ast.TryStatement:
		a.analyzeTry(s)
	case *ast.RaiseStatement:
		a.analyzeRaise(s)
	case *ast.MatchExpression:
		a.inferMatch(s)
	case *ast.FunctionDecl, *ast.StructDecl, *ast.EnumDecl, *ast.UseDecl:
		// nested declarations aren't part of the grammar; top-level-only
		// forms reaching here were already handled by their pass
	default:
		a.addError(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (a *Analyzer) analyzeLet(s *ast.LetStatement) {
	var declared types.Type
	if s.Type != nil {
		declared = a.resolveAnnotation(s.Type)
	}
	var valueType types.Type
	if s.Value != nil {
		if declared != nil {
			valueType = a.checkExpr(s.Value, declared)
		} else {
			valueType = a.inferExpr(s.Value)
		}
	}
	final := declared
	if final == nil {
		final = valueType
	}
	if a.symbols.IsDeclaredInCurrentScope(s.Name.Value) {
		a.addError(s.Pos(), "%q is already declared in this scope", s.Name.Value)
	}
	a.symbols.Define(s.Name.Value, final)
}

func (a *Analyzer) analyzeAssign(s *ast.AssignStatement) {
	targetType := a.inferExpr(s.Target)
	switch t := s.Target.(type) {
	case *ast.Identifier:
		if sym, ok := a.symbols.Resolve(t.Value); ok && sym.ReadOnly {
			a.addError(s.Pos(), "cannot assign to %q: it is read-only", t.Value)
		}
	case *ast.MemberExpression, *ast.IndexExpression:
		// places through a mutable container are always assignable
	default:
		a.addError(s.Pos(), "invalid assignment target %T", s.Target)
	}

	if s.Operator != "=" {
		// compound assignment requires the target's own type to support
		// the arithmetic operator it desugars to (x += v  =>  x = x + v)
		valType := a.checkExpr(s.Value, targetType)
		if targetType != nil && valType != nil && !targetType.Equals(valType) {
			a.addError(s.Pos(), "operator %s requires matching operand types, got %s and %s", s.Operator, typeName(targetType), typeName(valType))
		}
		return
	}
	a.checkExpr(s.Value, targetType)
}

func (a *Analyzer) analyzeReturn(s *ast.ReturnStatement) {
	if a.inFinally {
		a.addError(s.Pos(), "return is not allowed inside a finally block")
		return
	}
	if a.currentFunction == nil {
		a.addError(s.Pos(), "return outside of a function")
		return
	}
	expected := a.funcs[a.currentFunction.Name.Value].ReturnType
	if s.ReturnValue == nil {
		if expected != nil && !expected.Equals(types.Void) {
			a.addError(s.Pos(), "function %q must return a value of type %s", a.currentFunction.Name.Value, typeName(expected))
		}
		return
	}
	if expected != nil && expected.Equals(types.Void) {
		a.addError(s.Pos(), "function %q returns nothing but a value was given", a.currentFunction.Name.Value)
		return
	}
	a.checkExpr(s.ReturnValue, expected)
}

func (a *Analyzer) analyzeIf(s *ast.IfStatement) {
	for _, clause := range s.Clauses {
		a.checkExpr(clause.Condition, types.Bool)
		a.analyzeBlock(clause.Body)
	}
	if s.Alternative != nil {
		a.analyzeBlock(s.Alternative)
	}
}

func (a *Analyzer) analyzeFor(s *ast.ForStatement) {
	iterType := a.inferExpr(s.Iterable)
	var elemType types.Type
	if at, ok := iterType.(*types.ArrayType); ok {
		elemType = at.Element
	} else if iterType != nil {
		a.addError(s.Iterable.Pos(), "for loop requires an iterable (list or range), got %s", typeName(iterType))
	}
	a.openScope()
	a.symbols.DefineReadOnly(s.Name.Value, elemType)
	a.loopDepth++
	a.analyzeBlock(s.Body)
	a.loopDepth--
	a.closeScope()
}

func (a *Analyzer) analyzeWhile(s *ast.WhileStatement) {
	a.checkExpr(s.Condition, types.Bool)
	a.loopDepth++
	a.analyzeBlock(s.Body)
	a.loopDepth--
}

func (a *Analyzer) analyzeTry(s *ast.TryStatement) {
	a.analyzeBlock(s.Body)
	for _, ex := range s.Excepts {
		a.openScope()
		if ex.Name != nil {
			var caught types.Type
			if ex.Type != nil {
				caught = a.resolveAnnotation(ex.Type)
			}
			a.symbols.DefineReadOnly(ex.Name.Value, caught)
		}
		a.analyzeBlock(ex.Body)
		a.closeScope()
	}
	if s.FinallyBody != nil {
		prev := a.inFinally
		a.inFinally = true
		a.analyzeBlock(s.FinallyBody)
		a.inFinally = prev
	}
}

func (a *Analyzer) analyzeRaise(s *ast.RaiseStatement) {
	if s.Value != nil {
		a.inferExpr(s.Value)
	}
}
