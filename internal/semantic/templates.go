package semantic

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/types"
)

func (ctx *Context) undefinedType(te *ast.TypeExpr) {
	ctx.Errors.Add(errors.NewUndefinedName(te.Span(), te.Name))
}

// instantiateTemplate resolves a parameterized type reference like
// array<int> to a concrete TypeId, reusing a prior instantiation with the
// same template and arguments when one exists. Substitution only rewrites
// field types by template-parameter position; it does not walk into
// nested generic field types.
func (ctx *Context) instantiateTemplate(template ident.TypeId, args []types.DataType, te *ast.TypeExpr) (ident.TypeId, bool) {
	if cached, ok := ctx.Registry.InstantiateTemplate(template, args); ok {
		return cached, true
	}

	origin, ok := ctx.Registry.GetType(template)
	if !ok || origin.Kind != types.KindClass || len(origin.Class.TemplateParams) == 0 {
		ctx.Errors.Add(errors.NewNotATemplate(te.Span(), te.Name))
		return 0, false
	}
	if len(origin.Class.TemplateParams) != len(args) {
		ctx.Errors.Add(errors.NewWrongTypeArity(te.Span(), te.Name, len(origin.Class.TemplateParams), len(args)))
		return 0, false
	}

	subst := make(map[ident.TypeId]types.DataType, len(args))
	for i, paramId := range origin.Class.TemplateParams {
		subst[paramId] = args[i]
	}

	fields := make([]types.Field, len(origin.Class.Fields))
	for i, f := range origin.Class.Fields {
		ft := f.Type
		if replacement, ok := subst[ft.TypeId]; ok {
			replacement.IsConst = ft.IsConst
			replacement.IsHandle = ft.IsHandle || replacement.IsHandle
			replacement.RefModifier = ft.RefModifier
			ft = replacement
		}
		fields[i] = types.Field{Name: f.Name, Type: ft, Visibility: f.Visibility}
	}

	instanceId := ctx.Registry.NextTypeId()
	instance := &types.TypeDef{
		Kind: types.KindClass,
		Class: &types.ClassDef{
			Name:            origin.Class.Name,
			QualifiedName:   origin.Class.QualifiedName,
			Fields:          fields,
			Methods:         origin.Class.Methods,
			BaseClass:       origin.Class.BaseClass,
			Interfaces:      origin.Class.Interfaces,
			OperatorMethods: origin.Class.OperatorMethods,
			Properties:      origin.Class.Properties,
			IsFinal:         origin.Class.IsFinal,
			IsAbstract:      origin.Class.IsAbstract,
			Kind:            origin.Class.Kind,
			TemplateOrigin:  template,
			TypeArgs:        args,
			Behaviors:       origin.Class.Behaviors,
		},
	}
	ctx.Registry.DefineAnonymousType(instanceId, instance)
	ctx.Registry.CacheTemplateInstantiation(template, args, instanceId)
	return instanceId, true
}
