package semantic

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// TypeResolutionPass is Pass 2a: every name in the unit is now registered,
// so TypeExpr references anywhere in the unit can be resolved regardless
// of declaration order. It fills in typedef targets, class/interface
// bodies, funcdef signatures, free-function signatures, and global types.
type TypeResolutionPass struct{}

func (TypeResolutionPass) Name() string { return "type-resolution" }

func (TypeResolutionPass) Run(script *ast.Script, ctx *Context) error {
	resolveTypedefs(ctx)
	resolveFuncdefs(ctx)
	resolveInterfaces(ctx)
	resolveClasses(ctx)
	resolveFunctions(ctx, ctx.Functions)
	resolveGlobals(ctx)
	checkOverloadDistinctness(ctx)
	return nil
}

func resolveTypedefs(ctx *Context) {
	for _, p := range ctx.Typedefs {
		dt, ok := ctx.resolveType(p.Node, p.Decl.Target)
		if !ok {
			continue
		}
		p.Node.RegisterTypeAlias(ctx.Options.NormalizeName(p.Decl.Alias), dt.TypeId)
	}
}

func resolveFuncdefs(ctx *Context) {
	for _, p := range ctx.Funcdefs {
		def, ok := ctx.Registry.GetType(p.Id)
		if !ok {
			continue
		}
		def.Funcdef.Params = make([]types.DataType, len(p.Decl.Params))
		for i, param := range p.Decl.Params {
			dt, ok := ctx.resolveType(p.Node, param.Type)
			if !ok {
				continue
			}
			def.Funcdef.Params[i] = dt
		}
		ret, ok := ctx.resolveType(p.Node, p.Decl.ReturnType)
		if ok {
			def.Funcdef.ReturnType = ret
		}
	}
}

func resolveFunctions(ctx *Context, pending []*pendingFunction) {
	for _, p := range pending {
		def, ok := ctx.Registry.GetFunction(p.Id)
		if !ok {
			continue
		}
		def.Params = make([]types.Param, len(p.Decl.Params))
		for i, param := range p.Decl.Params {
			dt, _ := ctx.resolveType(p.Node, param.Type)
			def.Params[i] = types.Param{Name: param.Name, Type: dt, HasDefault: param.Default != nil, Default: param.Default}
		}
		if ret, ok := ctx.resolveType(p.Node, p.Decl.ReturnType); ok {
			def.ReturnType = ret
		}
		def.SignatureFilled = true
		ctx.Bodies[p.Id] = p.Decl
	}
}

func resolveGlobals(ctx *Context) {
	for _, p := range ctx.Globals {
		dt, ok := ctx.resolveType(p.Node, p.Decl.Type)
		if !ok {
			continue
		}
		name := ctx.Options.NormalizeName(p.Decl.Name)
		if g, ok := ctx.Registry.Global(p.Node, name); ok {
			g.Type = dt
		}
	}
}

// checkOverloadDistinctness runs the hash-based duplicate-overload check
// deferred from Pass 1, now that every function's parameter types are
// filled in.
func checkOverloadDistinctness(ctx *Context) {
	type key struct {
		node *namespace.Node
		name string
	}
	seen := map[key]bool{}
	for _, p := range ctx.Functions {
		name := ctx.Options.NormalizeName(p.Decl.Name)
		k := key{p.Node, name}
		if seen[k] {
			continue
		}
		seen[k] = true
		dups := ctx.Registry.CheckOverloads(p.Node, name)
		for _, dupId := range dups {
			ctx.Errors.Add(errors.NewDuplicateFunction(declSpanFor(ctx, dupId), p.Decl.Name))
		}
	}
}

func declSpanFor(ctx *Context, id ident.FunctionId) ast.Span {
	for _, p := range ctx.Functions {
		if p.Id == id {
			return p.Decl.Span()
		}
	}
	return ast.Span{}
}
