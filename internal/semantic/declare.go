package semantic

import (
	"github.com/otterlang/otterc/internal/ast"
	"github.com/otterlang/otterc/internal/types"
)

// DeclarePass registers every top-level struct, enum, and function
// signature before any body is type-checked, so forward references
// within a module (a function calling one declared later, a struct
// field typed by a struct declared later) resolve correctly.
//
// It runs in three passes of its own: first it creates empty struct/enum
// shells (so mutually-referencing declarations can resolve each other's
// names), then fills in their fields/variants, then registers function
// signatures (which may reference any struct/enum by now).
type DeclarePass struct{}

func (p *DeclarePass) Name() string { return "declare" }

func (p *DeclarePass) Run(a *Analyzer, mod *ast.Module) {
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			a.structs[decl.Name.Value] = &types.StructType{TypeName: decl.Name.Value}
		case *ast.EnumDecl:
			a.enums[decl.Name.Value] = &types.EnumType{TypeName: decl.Name.Value}
		}
	}

	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			p.declareStructFields(a, decl)
		case *ast.EnumDecl:
			p.declareEnumVariants(a, decl)
		}
	}

	for _, d := range mod.Decls {
		if fd, ok := d.(*ast.FunctionDecl); ok {
			p.declareFunctionSignature(a, fd)
		}
	}
}

func (p *DeclarePass) withTypeParams(a *Analyzer, params []ast.TypeParameter, body func()) {
	saved := a.typeParams
	a.typeParams = make(map[string]bool, len(saved)+len(params))
	for k := range saved {
		a.typeParams[k] = true
	}
	for _, tp := range params {
		a.typeParams[tp.Name] = true
	}
	body()
	a.typeParams = saved
}

func (p *DeclarePass) declareStructFields(a *Analyzer, decl *ast.StructDecl) {
	st := a.structs[decl.Name.Value]
	p.withTypeParams(a, decl.TypeParams, func() {
		fields := make([]types.StructField, 0, len(decl.Fields))
		for _, f := range decl.Fields {
			ft := a.resolveAnnotation(f.Type)
			if ft == nil {
				continue
			}
			fields = append(fields, types.StructField{Name: f.Name.Value, Type: ft})
		}
		st.Fields = fields
		for _, tp := range decl.TypeParams {
			st.TypeArgs = append(st.TypeArgs, &types.TypeParam{ParamName: tp.Name})
		}
	})
}

func (p *DeclarePass) declareEnumVariants(a *Analyzer, decl *ast.EnumDecl) {
	et := a.enums[decl.Name.Value]
	p.withTypeParams(a, decl.TypeParams, func() {
		variants := make([]types.EnumVariant, 0, len(decl.Variants))
		for i, v := range decl.Variants {
			fields := make([]types.Type, 0, len(v.Fields))
			for _, ft := range v.Fields {
				rt := a.resolveAnnotation(ft)
				if rt == nil {
					continue
				}
				fields = append(fields, rt)
			}
			variants = append(variants, types.EnumVariant{Name: v.Name, Tag: int32(i), Fields: fields})
		}
		et.Variants = variants
		for _, tp := range decl.TypeParams {
			et.TypeArgs = append(et.TypeArgs, &types.TypeParam{ParamName: tp.Name})
		}
	})
}

func (p *DeclarePass) declareFunctionSignature(a *Analyzer, decl *ast.FunctionDecl) {
	if a.symbols.IsDeclaredInCurrentScope(decl.Name.Value) {
		a.addError(decl.Pos(), "%q is already declared in this module", decl.Name.Value)
		return
	}
	p.withTypeParams(a, decl.TypeParams, func() {
		params := make([]types.Type, len(decl.Parameters))
		for i, param := range decl.Parameters {
			if param.Type == nil {
				a.addError(param.Token.Pos, "parameter %q of %q is missing a type annotation", param.Name.Value, decl.Name.Value)
				return
			}
			params[i] = a.resolveAnnotation(param.Type)
		}
		ret := a.resolveAnnotation(decl.ReturnType)
		ft := &types.FunctionType{Params: params, ReturnType: ret}
		a.funcs[decl.Name.Value] = ft
		a.symbols.Define(decl.Name.Value, ft)
		if len(decl.TypeParams) > 0 {
			order := make([]string, len(decl.TypeParams))
			for i, tp := range decl.TypeParams {
				order[i] = tp.Name
			}
			a.funcTypeParams[decl.Name.Value] = order
		}
	})
}
