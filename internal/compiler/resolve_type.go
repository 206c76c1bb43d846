package compiler

import (
	"strings"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// refMode mirrors internal/semantic's AST ref-modifier conversion; kept as
// its own copy since the two packages don't share unexported helpers.
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

func (c *Compiler) normalizeQualified(name string) string {
	if !c.ctx.Options.CaseInsensitiveNames {
		return name
	}
	absolute := strings.HasPrefix(name, "::")
	segs, _ := namespace.QualifiedSegments(name)
	for i, s := range segs {
		segs[i] = c.ctx.Options.NormalizeName(s)
	}
	joined := strings.Join(segs, "::")
	if absolute {
		return "::" + joined
	}
	return joined
}

// resolveTypeExpr resolves a cast/lambda-return TypeExpr the same way Pass
// 2a resolves declaration-site types: a nil TypeExpr is void. Template
// instantiations at a call site (rather than in a declaration Pass 2a
// already walked) are resolved only against the instantiation cache Pass 2a
// populated; a cast to a template type never seen in any declaration is
// rejected rather than synthesizing a fresh instantiation mid-function-body.
func (c *Compiler) resolveTypeExpr(node *namespace.Node, te *ast.TypeExpr) (types.DataType, bool) {
	if te == nil {
		return types.DataType{}, true
	}

	res := c.ctx.Registry.Resolve(node, c.normalizeQualified(te.Name))
	var base ident.TypeId
	switch {
	case res.Kind == namespace.Found && res.SymKind == namespace.SymType:
		base = res.TypeId
	case res.Kind == namespace.Found && res.SymKind == namespace.SymTypeAlias:
		base = res.TypeId
	default:
		c.error(errors.NewUndefinedName(te.Span(), te.Name))
		return types.DataType{}, false
	}

	if len(te.TypeArgs) > 0 {
		args := make([]types.DataType, 0, len(te.TypeArgs))
		for _, argExpr := range te.TypeArgs {
			arg, ok := c.resolveTypeExpr(node, argExpr)
			if !ok {
				return types.DataType{}, false
			}
			args = append(args, arg)
		}
		instantiated, ok := c.ctx.Registry.InstantiateTemplate(base, args)
		if !ok {
			c.error(errors.NewNotATemplate(te.Span(), te.Name))
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
