package semantic

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// classBuild accumulates a class's resolved members while its pendingClass
// entry is drained; methodIdByName lets a later property accessor or mixin
// member look up a method declared earlier in the same pass.
type classBuild struct {
	p              *pendingClass
	cls            *types.ClassDef
	methodIdByName map[string]ident.FunctionId
}

func resolveClasses(ctx *Context) {
	builds := make(map[ident.TypeId]*classBuild, len(ctx.Classes))
	for id, p := range ctx.Classes {
		def, ok := ctx.Registry.GetType(id)
		if !ok {
			continue
		}
		builds[id] = &classBuild{p: p, cls: def.Class, methodIdByName: make(map[string]ident.FunctionId)}
	}

	for _, b := range builds {
		resolveClassBase(ctx, b)
	}
	checkInheritanceCycles(ctx, builds)

	for _, b := range builds {
		for _, fd := range b.p.Decl.Fields {
			b.cls.Fields = append(b.cls.Fields, resolveField(ctx, b.p.Node, fd))
		}
		for _, md := range b.p.Decl.Methods {
			addMethod(ctx, b, md)
		}
		for _, op := range b.p.Decl.Operators {
			addOperator(ctx, b, op)
		}
		spliceMixins(ctx, b)
		for _, prop := range b.p.Decl.Properties {
			addProperty(b, prop)
		}
		for _, ifaceExpr := range b.p.Decl.Interfaces {
			dt, ok := ctx.resolveType(b.p.Node, ifaceExpr)
			if !ok {
				continue
			}
			td, ok := ctx.Registry.GetType(dt.TypeId)
			if !ok || td.Kind != types.KindInterface {
				ctx.Errors.Addf(errors.TypeMismatch, ifaceExpr.Span(), "%q is not an interface", ifaceExpr.Name)
				continue
			}
			b.cls.Interfaces = append(b.cls.Interfaces, dt.TypeId)
		}
	}

	for _, b := range builds {
		validateClass(ctx, b)
	}
}

func resolveClassBase(ctx *Context, b *classBuild) {
	if b.p.Decl.BaseClass == nil {
		return
	}
	dt, ok := ctx.resolveType(b.p.Node, b.p.Decl.BaseClass)
	if !ok {
		return
	}
	base, ok := ctx.Registry.GetType(dt.TypeId)
	if !ok || base.Kind != types.KindClass {
		ctx.Errors.Addf(errors.TypeMismatch, b.p.Decl.BaseClass.Span(), "%q is not a class", b.p.Decl.BaseClass.Name)
		return
	}
	b.cls.BaseClass = dt.TypeId
}

func checkInheritanceCycles(ctx *Context, builds map[ident.TypeId]*classBuild) {
	for id, b := range builds {
		visited := map[ident.TypeId]bool{id: true}
		cur := b.cls.BaseClass
		for cur != 0 {
			if visited[cur] {
				ctx.Errors.Add(errors.NewCircularInheritance(b.p.Decl.Span(), b.p.Decl.Name))
				b.cls.BaseClass = 0
				b.cls.Invalid = true
				break
			}
			visited[cur] = true
			next, ok := builds[cur]
			if !ok {
				break
			}
			cur = next.cls.BaseClass
		}
	}
}

func resolveField(ctx *Context, node *namespace.Node, fd ast.FieldDecl) types.Field {
	dt, _ := ctx.resolveType(node, fd.Type)
	return types.Field{Name: fd.Name, Type: dt, Visibility: astVisibility(fd.Visibility)}
}

// resolveMethod allocates a FunctionId for a method body, fills its
// signature, and stores it directly in the registry: methods are reached
// through their owning class, never through namespace resolution.
func resolveMethod(ctx *Context, node *namespace.Node, owner ident.TypeId, ownerQualifiedName string, fd *ast.FunctionDecl) ident.FunctionId {
	id := ctx.Registry.NextFunctionId()
	def := &types.FunctionDef{
		Id:            id,
		Name:          fd.Name,
		NamespacePath: ownerQualifiedName + "::" + fd.Name,
		ObjectType:    owner,
		Visibility:    astVisibility(fd.Visibility),
		Traits: types.FunctionTraits{
			Virtual:     fd.Traits.Virtual,
			Const:       fd.Traits.Const,
			Final:       fd.Traits.Final,
			Override:    fd.Traits.Override,
			Abstract:    fd.Traits.Abstract,
			Explicit:    fd.Traits.Explicit,
			Constructor: fd.Traits.Constructor,
			Destructor:  fd.Traits.Destructor,
		},
	}
	def.Params = make([]types.Param, len(fd.Params))
	for i, param := range fd.Params {
		dt, _ := ctx.resolveType(node, param.Type)
		def.Params[i] = types.Param{Name: param.Name, Type: dt, HasDefault: param.Default != nil, Default: param.Default}
	}
	if ret, ok := ctx.resolveType(node, fd.ReturnType); ok {
		def.ReturnType = ret
	}
	def.SignatureFilled = true
	ctx.Registry.DefineFunction(id, def)
	ctx.Bodies[id] = fd
	return id
}

func addMethod(ctx *Context, b *classBuild, fd *ast.FunctionDecl) {
	id := resolveMethod(ctx, b.p.Node, b.p.Id, b.cls.QualifiedName, fd)
	b.cls.Methods = append(b.cls.Methods, id)
	b.methodIdByName[ctx.Options.NormalizeName(fd.Name)] = id
}

func addOperator(ctx *Context, b *classBuild, op ast.OperatorMethodDecl) {
	id := resolveMethod(ctx, b.p.Node, b.p.Id, b.cls.QualifiedName, op.Method)
	behavior := types.OperatorBehavior(op.Behavior)
	b.cls.OperatorMethods[behavior] = append(b.cls.OperatorMethods[behavior], id)
	b.methodIdByName[ctx.Options.NormalizeName(op.Method.Name)] = id
}

func addProperty(b *classBuild, acc ast.PropertyAccessor) {
	info := types.PropertyInfo{}
	if acc.Getter != "" {
		info.Getter = b.methodIdByName[acc.Getter]
	}
	if acc.Setter != "" {
		info.Setter = b.methodIdByName[acc.Setter]
	}
	b.cls.Properties[acc.Name] = info
}

// spliceMixins merges each mixin named on the class declaration into the
// class being built, resolving its members in the including class's
// namespace scope. A mixin member can only be spliced once its mixin has
// been registered, which Pass 1 guarantees for every mixin in the unit.
func spliceMixins(ctx *Context, b *classBuild) {
	for _, name := range b.p.Decl.Mixins {
		m := findMixin(ctx, name)
		if m == nil {
			continue
		}
		for _, member := range m.Members {
			mem, ok := member.Member.(ast.MixinMemberDecl)
			if !ok {
				continue
			}
			switch {
			case mem.Field != nil:
				b.cls.Fields = append(b.cls.Fields, resolveField(ctx, b.p.Node, *mem.Field))
			case mem.Method != nil:
				addMethod(ctx, b, mem.Method)
			case mem.Operator != nil:
				addOperator(ctx, b, *mem.Operator)
			case mem.Property != nil:
				addProperty(b, *mem.Property)
			}
		}
	}
}

func findMixin(ctx *Context, name string) *types.Mixin {
	norm := ctx.Options.NormalizeName(name)
	if m, ok := ctx.Mixins[norm]; ok {
		return m
	}
	for key, m := range ctx.Mixins {
		if key == norm || ctx.Options.NormalizeName(m.Name) == norm {
			return m
		}
	}
	return nil
}

func resolveInterfaces(ctx *Context) {
	for _, p := range ctx.Interfaces {
		def, ok := ctx.Registry.GetType(p.Id)
		if !ok {
			continue
		}
		for _, m := range p.Decl.Methods {
			def.Interface.Methods = append(def.Interface.Methods, resolveMethodSig(ctx, p.Node, m))
		}
	}
	for _, p := range ctx.Interfaces {
		def, ok := ctx.Registry.GetType(p.Id)
		if !ok {
			continue
		}
		for _, baseExpr := range p.Decl.Bases {
			dt, ok := ctx.resolveType(p.Node, baseExpr)
			if !ok {
				continue
			}
			baseDef, ok := ctx.Registry.GetType(dt.TypeId)
			if !ok || baseDef.Kind != types.KindInterface {
				continue
			}
			for _, sig := range baseDef.Interface.Methods {
				if !hasMethodSig(def.Interface.Methods, sig.Name) {
					def.Interface.Methods = append(def.Interface.Methods, sig)
				}
			}
		}
	}
}

func resolveMethodSig(ctx *Context, node *namespace.Node, m ast.InterfaceMethodDecl) types.MethodSig {
	params := make([]types.DataType, len(m.Params))
	for i, p := range m.Params {
		dt, _ := ctx.resolveType(node, p.Type)
		params[i] = dt
	}
	ret, _ := ctx.resolveType(node, m.ReturnType)
	return types.MethodSig{Name: m.Name, Params: params, ReturnType: ret}
}

func hasMethodSig(sigs []types.MethodSig, name string) bool {
	for _, s := range sigs {
		if s.Name == name {
			return true
		}
	}
	return false
}

// validateClass checks the invariants that depend on the whole inheritance
// chain being resolved: override/final discipline and interface
// conformance. Abstract-method completeness is checked transitively through
// the same base-method lookup used for override matching.
func validateClass(ctx *Context, b *classBuild) {
	if b.cls.Invalid {
		return
	}
	for _, id := range b.cls.Methods {
		def, ok := ctx.Registry.GetFunction(id)
		if !ok {
			continue
		}
		if !def.Traits.Override {
			continue
		}
		baseMethod := findBaseMethod(ctx, b.cls.BaseClass, def.Name, def.Params)
		if baseMethod == nil {
			ctx.Errors.Add(errors.NewOverrideMismatch(b.p.Decl.Span(), def.Name))
			continue
		}
		if baseMethod.Traits.Final {
			ctx.Errors.Add(errors.NewFinalViolation(b.p.Decl.Span(), def.Name))
		}
	}

	if b.cls.IsAbstract {
		return
	}
	for _, ifaceId := range b.cls.Interfaces {
		ifaceDef, ok := ctx.Registry.GetType(ifaceId)
		if !ok || ifaceDef.Kind != types.KindInterface {
			continue
		}
		for _, sig := range ifaceDef.Interface.Methods {
			if findImplementation(ctx, b.cls, sig) == nil {
				ctx.Errors.Add(errors.NewUnimplementedInterfaceMethod(b.p.Decl.Span(), b.cls.Name, ifaceDef.Interface.Name, sig.Name))
			}
		}
	}
}

func findBaseMethod(ctx *Context, base ident.TypeId, name string, params []types.Param) *types.FunctionDef {
	for base != 0 {
		baseDef, ok := ctx.Registry.GetType(base)
		if !ok || baseDef.Kind != types.KindClass {
			return nil
		}
		for _, id := range baseDef.Class.Methods {
			def, ok := ctx.Registry.GetFunction(id)
			if !ok || def.Name != name || len(def.Params) != len(params) {
				continue
			}
			if sameParamTriples(def.Params, params) {
				return def
			}
		}
		base = baseDef.Class.BaseClass
	}
	return nil
}

func sameParamTriples(a, b []types.Param) bool {
	for i := range a {
		if a[i].Type.Triple() != b[i].Type.Triple() {
			return false
		}
	}
	return true
}

func findImplementation(ctx *Context, cls *types.ClassDef, sig types.MethodSig) *types.FunctionDef {
	for cls != nil {
		for _, id := range cls.Methods {
			def, ok := ctx.Registry.GetFunction(id)
			if !ok || def.Name != sig.Name || len(def.Params) != len(sig.Params) {
				continue
			}
			matches := true
			for i, p := range def.Params {
				if p.Type.Triple() != sig.Params[i].Triple() {
					matches = false
					break
				}
			}
			if matches {
				return def
			}
		}
		if cls.BaseClass == 0 {
			return nil
		}
		baseDef, ok := ctx.Registry.GetType(cls.BaseClass)
		if !ok || baseDef.Kind != types.KindClass {
			return nil
		}
		cls = baseDef.Class
	}
	return nil
}
