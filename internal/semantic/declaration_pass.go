package semantic

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// DeclarationPass is Pass 1: it walks every item in the unit, allocates a
// TypeId or FunctionId for each named entity, registers it in the
// namespace tree with signature_filled == false, and queues it on the
// shared Context for Pass 2a to fill in. It never resolves a TypeExpr, so
// forward references between entities declared in any order are free.
type DeclarationPass struct{}

func (DeclarationPass) Name() string { return "declaration" }

func (DeclarationPass) Run(script *ast.Script, ctx *Context) error {
	declareItems(script.Items, ctx, ctx.Unit)
	return nil
}

func declareItems(items []ast.Item, ctx *Context, node *namespace.Node) {
	for _, item := range items {
		declareItem(item, ctx, node)
	}
}

func declareItem(item ast.Item, ctx *Context, node *namespace.Node) {
	switch d := item.(type) {
	case *ast.NamespaceDecl:
		target := namespaceNode(node, d.Path, ctx)
		declareItems(d.Items, ctx, target)

	case *ast.ClassDecl:
		declareClass(d, ctx, node)

	case *ast.InterfaceDecl:
		declareInterface(d, ctx, node)

	case *ast.EnumDecl:
		declareEnum(d, ctx, node)

	case *ast.FuncdefDecl:
		declareFuncdef(d, ctx, node)

	case *ast.TypedefDecl:
		ctx.Typedefs = append(ctx.Typedefs, &pendingTypedef{Node: node, Decl: d})

	case *ast.FunctionDecl:
		declareFunction(d, ctx, node)

	case *ast.GlobalVarDecl:
		declareGlobal(d, ctx, node)

	case *ast.MixinDecl:
		registerMixin(d, ctx, node)

	case *ast.UsingNamespaceDecl:
		if target := namespaceNode(node, d.Path, ctx); target != nil {
			node.AddUses(target)
		}

	case *ast.ImportDecl:
		// Resolved by the external unit-loading driver; nothing to do here.
	}
}

// namespaceNode walks (creating as needed) the child chain for a "A::B::C"
// path starting at node.
func namespaceNode(node *namespace.Node, path string, ctx *Context) *namespace.Node {
	segs, absolute := namespace.QualifiedSegments(path)
	cur := node
	if absolute {
		for cur.Parent != nil {
			cur = cur.Parent
		}
	}
	for _, seg := range segs {
		cur = cur.Contains(ctx.Options.NormalizeName(seg))
	}
	return cur
}

func qualifiedName(node *namespace.Node, simple string) string {
	return node.Path() + "::" + simple
}

func declareClass(d *ast.ClassDecl, ctx *Context, node *namespace.Node) {
	id := ctx.Registry.NextTypeId()
	kind := types.ValueClass
	if d.IsReference {
		kind = types.ReferenceClass
	}
	def := &types.TypeDef{
		Kind: types.KindClass,
		Class: &types.ClassDef{
			Name:            d.Name,
			QualifiedName:   qualifiedName(node, d.Name),
			IsFinal:         d.IsFinal,
			IsAbstract:      d.IsAbstract,
			Kind:            kind,
			OperatorMethods: make(map[types.OperatorBehavior][]ident.FunctionId),
			Properties:      make(map[string]types.PropertyInfo),
		},
	}
	name := ctx.Options.NormalizeName(d.Name)
	if err := ctx.Registry.RegisterType(node, name, id, def); err != nil {
		ctx.Errors.Add(errors.NewDuplicateType(d.Span(), d.Name))
		return
	}
	ctx.Classes[id] = &pendingClass{Node: node, Decl: d, Id: id}
}

func declareInterface(d *ast.InterfaceDecl, ctx *Context, node *namespace.Node) {
	id := ctx.Registry.NextTypeId()
	def := &types.TypeDef{
		Kind: types.KindInterface,
		Interface: &types.InterfaceDef{
			Name:          d.Name,
			QualifiedName: qualifiedName(node, d.Name),
		},
	}
	name := ctx.Options.NormalizeName(d.Name)
	if err := ctx.Registry.RegisterType(node, name, id, def); err != nil {
		ctx.Errors.Add(errors.NewDuplicateType(d.Span(), d.Name))
		return
	}
	ctx.Interfaces[id] = &pendingInterface{Node: node, Decl: d, Id: id}
}

// declareEnum fully resolves an enum in Pass 1: its values are compile-time
// integer constants with no forward references to other types, so there is
// nothing for Pass 2a to fill in.
func declareEnum(d *ast.EnumDecl, ctx *Context, node *namespace.Node) {
	id := ctx.Registry.NextTypeId()
	values := make([]types.EnumValue, len(d.Values))
	next := int64(0)
	for i, v := range d.Values {
		val := next
		if v.Value != nil {
			if lit, ok := v.Value.(*ast.Literal); ok && lit.Kind == ast.LitInt {
				val = lit.Int
			}
		}
		values[i] = types.EnumValue{Name: v.Name, Value: val}
		next = val + 1
	}
	def := &types.TypeDef{
		Kind: types.KindEnum,
		Enum: &types.EnumDef{
			Name:          d.Name,
			QualifiedName: qualifiedName(node, d.Name),
			Values:        values,
		},
	}
	name := ctx.Options.NormalizeName(d.Name)
	if err := ctx.Registry.RegisterType(node, name, id, def); err != nil {
		ctx.Errors.Add(errors.NewDuplicateType(d.Span(), d.Name))
	}
}

func declareFuncdef(d *ast.FuncdefDecl, ctx *Context, node *namespace.Node) {
	id := ctx.Registry.NextTypeId()
	def := &types.TypeDef{
		Kind: types.KindFuncdef,
		Funcdef: &types.FuncdefDef{
			Name:          d.Name,
			QualifiedName: qualifiedName(node, d.Name),
		},
	}
	name := ctx.Options.NormalizeName(d.Name)
	if err := ctx.Registry.RegisterType(node, name, id, def); err != nil {
		ctx.Errors.Add(errors.NewDuplicateType(d.Span(), d.Name))
		return
	}
	ctx.Funcdefs[id] = &pendingFuncdef{Node: node, Decl: d, Id: id}
}

func declareFunction(d *ast.FunctionDecl, ctx *Context, node *namespace.Node) {
	id := ctx.Registry.NextFunctionId()
	def := &types.FunctionDef{
		Id:            id,
		Name:          d.Name,
		NamespacePath: qualifiedName(node, d.Name),
		Visibility:    astVisibility(d.Visibility),
		Traits: types.FunctionTraits{
			Virtual:     d.Traits.Virtual,
			Const:       d.Traits.Const,
			Final:       d.Traits.Final,
			Abstract:    d.Traits.Abstract,
			Explicit:    d.Traits.Explicit,
			Constructor: d.Traits.Constructor,
			Destructor:  d.Traits.Destructor,
		},
	}
	name := ctx.Options.NormalizeName(d.Name)
	ctx.Registry.RegisterFunctionStub(node, name, id, def)
	ctx.Functions = append(ctx.Functions, &pendingFunction{Node: node, Decl: d, Id: id})
}

func declareGlobal(d *ast.GlobalVarDecl, ctx *Context, node *namespace.Node) {
	name := ctx.Options.NormalizeName(d.Name)
	g := &types.GlobalVar{Name: name, NamespacePath: qualifiedName(node, d.Name)}
	if err := ctx.Registry.RegisterGlobal(node, g); err != nil {
		ctx.Errors.Add(errors.NewDuplicateGlobal(d.Span(), d.Name))
		return
	}
	ctx.Globals = append(ctx.Globals, &pendingGlobal{Node: node, Decl: d})
}

func registerMixin(d *ast.MixinDecl, ctx *Context, node *namespace.Node) {
	m := &types.Mixin{
		Name:          d.Name,
		NamespacePath: qualifiedName(node, d.Name),
	}
	for _, mem := range d.Members {
		m.Members = append(m.Members, types.MixinMember{Member: mem})
	}
	ctx.Mixins[ctx.Options.NormalizeName(qualifiedName(node, d.Name))] = m
}

func astVisibility(v ast.Visibility) types.Visibility {
	switch v {
	case ast.Protected:
		return types.Protected
	case ast.Private:
		return types.Private
	default:
		return types.Public
	}
}
