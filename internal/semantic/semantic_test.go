package semantic

import (
	"testing"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/ffi"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/registry"
	"github.com/ascompiler/core/internal/types"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	provider, _ := ffi.Standard()
	reg := registry.NewContext(provider)
	_, unit := reg.NewUnit("main")
	return NewContext(reg, unit, CompileOptions{})
}

func runPasses(t *testing.T, script *ast.Script, ctx *Context) {
	t.Helper()
	m := NewManager(DeclarationPass{}, TypeResolutionPass{})
	if err := m.RunAll(script, ctx); err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
}

func intType() *ast.TypeExpr { return ast.NewTypeExpr(ast.Span{}, "int32") }

func TestDeclarationPassRegistersClassAndFunction(t *testing.T) {
	ctx := newTestContext(t)

	class := ast.NewClassDecl(ast.Span{}, "Widget")
	class.Fields = []ast.FieldDecl{{Name: "count", Type: intType()}}

	fn := ast.NewFunctionDecl(ast.Span{}, "DoThing", nil, nil, nil)

	script := ast.NewScript(ast.Span{}, []ast.Item{class, fn})
	runPasses(t, script, ctx)

	if ctx.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %+v", ctx.Errors.Diagnostics())
	}

	res := ctx.Registry.Resolve(ctx.Unit, "Widget")
	if res.Kind != namespace.Found {
		t.Fatalf("expected Widget to resolve in unit scope, got %+v", res)
	}

	def, ok := ctx.Registry.GetType(res.TypeId)
	if !ok || def.Kind != types.KindClass {
		t.Fatalf("expected Widget to be a class, got %+v", def)
	}
	if len(def.Class.Fields) != 1 || def.Class.Fields[0].Name != "count" {
		t.Fatalf("expected field count:int32, got %+v", def.Class.Fields)
	}
}

func TestCircularInheritanceIsRejected(t *testing.T) {
	ctx := newTestContext(t)

	a := ast.NewClassDecl(ast.Span{}, "A")
	a.BaseClass = ast.NewTypeExpr(ast.Span{}, "B")
	b := ast.NewClassDecl(ast.Span{}, "B")
	b.BaseClass = ast.NewTypeExpr(ast.Span{}, "A")

	script := ast.NewScript(ast.Span{}, []ast.Item{a, b})
	runPasses(t, script, ctx)

	if !ctx.Errors.HasErrors() {
		t.Fatal("expected circular inheritance to be reported")
	}
}

func TestUnimplementedInterfaceMethodIsReported(t *testing.T) {
	ctx := newTestContext(t)

	iface := ast.NewInterfaceDecl(ast.Span{}, "Drawable")
	iface.Methods = []ast.InterfaceMethodDecl{{Name: "Draw"}}

	class := ast.NewClassDecl(ast.Span{}, "Sprite")
	class.Interfaces = []*ast.TypeExpr{ast.NewTypeExpr(ast.Span{}, "Drawable")}

	script := ast.NewScript(ast.Span{}, []ast.Item{iface, class})
	runPasses(t, script, ctx)

	if !ctx.Errors.HasErrors() {
		t.Fatal("expected missing Draw implementation to be reported")
	}
}

func TestImplementedInterfaceMethodPasses(t *testing.T) {
	ctx := newTestContext(t)

	iface := ast.NewInterfaceDecl(ast.Span{}, "Drawable")
	iface.Methods = []ast.InterfaceMethodDecl{{Name: "Draw"}}

	class := ast.NewClassDecl(ast.Span{}, "Sprite")
	class.Interfaces = []*ast.TypeExpr{ast.NewTypeExpr(ast.Span{}, "Drawable")}
	class.Methods = []*ast.FunctionDecl{ast.NewFunctionDecl(ast.Span{}, "Draw", nil, nil, nil)}

	script := ast.NewScript(ast.Span{}, []ast.Item{iface, class})
	runPasses(t, script, ctx)

	if ctx.Errors.HasErrors() {
		t.Fatalf("unexpected errors: %+v", ctx.Errors.Diagnostics())
	}
}

func TestEnumValuesAutoIncrement(t *testing.T) {
	ctx := newTestContext(t)

	enum := ast.NewEnumDecl(ast.Span{}, "Color")
	enum.Values = []ast.EnumValueDecl{{Name: "Red"}, {Name: "Green"}, {Name: "Blue"}}

	script := ast.NewScript(ast.Span{}, []ast.Item{enum})
	runPasses(t, script, ctx)

	res := ctx.Registry.Resolve(ctx.Unit, "Color")
	def, ok := ctx.Registry.GetType(res.TypeId)
	if !ok {
		t.Fatal("expected Color to resolve")
	}
	want := []int64{0, 1, 2}
	for i, v := range def.Enum.Values {
		if v.Value != want[i] {
			t.Fatalf("value %d: got %d, want %d", i, v.Value, want[i])
		}
	}
}

func TestDuplicateOverloadIsRejected(t *testing.T) {
	ctx := newTestContext(t)

	fn1 := ast.NewFunctionDecl(ast.Span{}, "Sum", []ast.ParamDecl{{Name: "a", Type: intType()}}, nil, nil)
	fn2 := ast.NewFunctionDecl(ast.Span{}, "Sum", []ast.ParamDecl{{Name: "b", Type: intType()}}, nil, nil)

	script := ast.NewScript(ast.Span{}, []ast.Item{fn1, fn2})
	runPasses(t, script, ctx)

	if !ctx.Errors.HasErrors() {
		t.Fatal("expected duplicate-signature overload to be reported")
	}
}
