package semantic

import (
	"strings"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// normalizeQualified applies the unit's case-folding policy to every
// segment of a possibly-qualified name, preserving a leading "::".
func (ctx *Context) normalizeQualified(name string) string {
	if !ctx.Options.CaseInsensitiveNames {
		return name
	}
	absolute := strings.HasPrefix(name, "::")
	segs, _ := namespace.QualifiedSegments(name)
	for i, s := range segs {
		segs[i] = ctx.Options.NormalizeName(s)
	}
	joined := strings.Join(segs, "::")
	if absolute {
		return "::" + joined
	}
	return joined
}

// refMode converts the AST's reference-modifier spelling to the types
// package's RefMode.
func refMode(m ast.RefModifier) types.RefMode {
	switch m {
	case ast.RefModIn:
		return types.RefIn
	case ast.RefModOut:
		return types.RefOut
	case ast.RefModInOut:
		return types.RefInOut
	default:
		return types.RefNone
	}
}

// resolveType resolves a TypeExpr to a DataType from the context of node.
// A nil TypeExpr resolves to the zero DataType, the sentinel for "void" in
// return-type position. Reports false (and records a diagnostic) when the
// name cannot be found.
func (ctx *Context) resolveType(node *namespace.Node, te *ast.TypeExpr) (types.DataType, bool) {
	if te == nil {
		return types.DataType{}, true
	}

	res := ctx.Registry.Resolve(node, ctx.normalizeQualified(te.Name))
	var base ident.TypeId
	switch {
	case res.Kind == namespace.Found && res.SymKind == namespace.SymType:
		base = res.TypeId
	case res.Kind == namespace.Found && res.SymKind == namespace.SymTypeAlias:
		base = res.TypeId
	default:
		ctx.undefinedType(te)
		return types.DataType{}, false
	}

	if len(te.TypeArgs) > 0 {
		args := make([]types.DataType, 0, len(te.TypeArgs))
		for _, argExpr := range te.TypeArgs {
			arg, ok := ctx.resolveType(node, argExpr)
			if !ok {
				return types.DataType{}, false
			}
			args = append(args, arg)
		}
		instantiated, ok := ctx.instantiateTemplate(base, args, te)
		if !ok {
			return types.DataType{}, false
		}
		base = instantiated
	}

	return types.DataType{
		TypeId:        base,
		IsConst:       te.IsConst,
		IsHandle:      te.IsHandle,
		HandleIsConst: te.HandleIsConst,
		RefModifier:   refMode(te.RefModifier),
	}, true
}
