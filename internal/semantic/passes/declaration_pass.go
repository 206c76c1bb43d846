// Package passes implements the declaration and resolution passes that
// turn a parsed script into registry entries, in the order Pass 1
// (DeclarationPass) then Pass 2a (TypeResolutionPass, ValidationPass,
// ContractPass).
package passes

import (
	"strings"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/registry"
	"github.com/ascompiler/core/internal/semantic"
	"github.com/ascompiler/core/internal/types"
)

// DeclarationPass is Pass 1: it walks every item in the unit, allocates a
// TypeId or FunctionId for each named entity, registers it in the
// namespace tree with signature_filled == false, and queues it on the
// shared Context for Pass 2a to fill in. It never resolves a TypeExpr, so
// forward references between entities declared in any order are free.
type DeclarationPass struct{}

func (DeclarationPass) Name() string { return "declaration" }

func (DeclarationPass) Run(script *ast.Script, ctx *semantic.Context) error {
	declareItems(script.Items, ctx, ctx.Unit)
	return nil
}

func declareItems(items []ast.Item, ctx *semantic.Context, node *namespace.Node) {
	for _, item := range items {
		declareItem(item, ctx, node)
	}
}

func declareItem(item ast.Item, ctx *semantic.Context, node *namespace.Node) {
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
		ctx.Typedefs = append(ctx.Typedefs, &struct {
			Node *namespace.Node
			Decl *ast.TypedefDecl
		}{})
		registerTypedef(d, ctx, node)

	case *ast.FunctionDecl:
		declareFunction(d, ctx, node)

	case *ast.GlobalVarDecl:
		declareGlobal(d, ctx, node)

	case *ast.MixinDecl:
		// Mixins are not types and receive no TypeId; their members are
		// spliced into including classes during type resolution.

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
func namespaceNode(node *namespace.Node, path string, ctx *semantic.Context) *namespace.Node {
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

func declareClass(d *ast.ClassDecl, ctx *semantic.Context, node *namespace.Node) {
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
			OperatorMethods: make(map[types.OperatorBehavior][]ident_FunctionId_dummy),
			Properties:      make(map[string]types.PropertyInfo),
		},
	}
	_ = def
	name := ctx.Options.NormalizeName(d.Name)
	if err := ctx.Registry.RegisterType(node, name, id, classStub(d, node)); err != nil {
		ctx.Errors.Add(errors.NewDuplicateType(d.Span(), d.Name))
		return
	}
	ctx.Classes[id] = &pendingClassAccessor{Node: node, Decl: d, Id: id}
}

func qualifiedName(node *namespace.Node, simple string) string {
	return node.Path() + "::" + simple
}
