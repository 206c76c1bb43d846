package compiler

import (
	"testing"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/bytecode"
	"github.com/ascompiler/core/internal/ffi"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/registry"
	"github.com/ascompiler/core/internal/semantic"
)

func newTestContext(t *testing.T) *semantic.Context {
	t.Helper()
	provider, _ := ffi.Standard()
	reg := registry.NewContext(provider)
	_, unit := reg.NewUnit("main")
	return semantic.NewContext(reg, unit, semantic.CompileOptions{})
}

func runPasses(t *testing.T, script *ast.Script, ctx *semantic.Context) {
	t.Helper()
	m := semantic.NewManager(semantic.DeclarationPass{}, semantic.TypeResolutionPass{})
	if err := m.RunAll(script, ctx); err != nil {
		t.Fatalf("unexpected pass error: %v", err)
	}
	if ctx.Errors.HasErrors() {
		t.Fatalf("unexpected pass errors: %+v", ctx.Errors.Diagnostics())
	}
}

func int32Type() *ast.TypeExpr { return ast.NewTypeExpr(ast.Span{}, "int32") }

func funcIdOf(t *testing.T, ctx *semantic.Context, name string) ident.FunctionId {
	t.Helper()
	res := ctx.Registry.Resolve(ctx.Unit, name)
	if res.Kind != namespace.Found || len(res.FuncIds) == 0 {
		t.Fatalf("expected %q to resolve to a function, got %+v", name, res)
	}
	return res.FuncIds[0]
}

func TestCompileUnitAddFunction(t *testing.T) {
	ctx := newTestContext(t)

	params := []ast.ParamDecl{
		{Name: "a", Type: int32Type()},
		{Name: "b", Type: int32Type()},
	}
	body := ast.NewBlockStmt(ast.Span{}, []ast.Statement{
		ast.NewReturnStmt(ast.Span{}, ast.NewBinaryExpr(ast.Span{}, ast.OpAdd,
			ast.NewIdentifier(ast.Span{}, "a"), ast.NewIdentifier(ast.Span{}, "b"))),
	})
	fn := ast.NewFunctionDecl(ast.Span{}, "Add", params, int32Type(), body)

	script := ast.NewScript(ast.Span{}, []ast.Item{fn})
	runPasses(t, script, ctx)

	mod := CompileUnit(ctx)

	id := funcIdOf(t, ctx, "Add")
	if !mod.IsUsable(id) {
		t.Fatalf("expected Add to compile to a usable buffer")
	}
	buf := mod.Functions[id]
	if len(buf.Code) == 0 {
		t.Fatal("expected non-empty instruction stream")
	}
	last := buf.Code[len(buf.Code)-1]
	if last.Op != bytecode.Return {
		t.Fatalf("expected function to end in Return, got %v", last.Op)
	}
}

func TestCompileUnitAssignmentDoublesValue(t *testing.T) {
	ctx := newTestContext(t)

	intLit := ast.NewLiteral(ast.Span{}, ast.LitInt)
	intLit.Int = 1

	body := ast.NewBlockStmt(ast.Span{}, []ast.Statement{
		ast.NewVarDeclStmt(ast.Span{}, "total", int32Type(), intLit),
		ast.NewExprStmt(ast.Span{}, ast.NewBinaryExpr(ast.Span{}, ast.OpAssign,
			ast.NewIdentifier(ast.Span{}, "total"),
			ast.NewBinaryExpr(ast.Span{}, ast.OpAdd, ast.NewIdentifier(ast.Span{}, "total"), ast.NewIdentifier(ast.Span{}, "total")))),
		ast.NewReturnStmt(ast.Span{}, ast.NewIdentifier(ast.Span{}, "total")),
	})
	fn := ast.NewFunctionDecl(ast.Span{}, "Double", nil, int32Type(), body)

	script := ast.NewScript(ast.Span{}, []ast.Item{fn})
	runPasses(t, script, ctx)

	mod := CompileUnit(ctx)
	id := funcIdOf(t, ctx, "Double")
	if !mod.IsUsable(id) {
		diags := ctx.Errors.Diagnostics()
		t.Fatalf("expected Double to compile to a usable buffer, errors: %+v", diags)
	}
}

func TestCompileUnitConstructorPrologueInitializesFields(t *testing.T) {
	ctx := newTestContext(t)

	intLit := ast.NewLiteral(ast.Span{}, ast.LitInt)
	intLit.Int = 0

	class := ast.NewClassDecl(ast.Span{}, "Point")
	class.IsReference = true
	class.Fields = []ast.FieldDecl{
		{Name: "x", Type: int32Type(), Init: intLit},
		{Name: "y", Type: int32Type()},
	}
	ctor := ast.NewFunctionDecl(ast.Span{}, "Point", nil, nil, ast.NewBlockStmt(ast.Span{}, nil))
	ctor.Traits.Constructor = true
	class.Methods = []*ast.FunctionDecl{ctor}

	script := ast.NewScript(ast.Span{}, []ast.Item{class})
	runPasses(t, script, ctx)

	mod := CompileUnit(ctx)

	res := ctx.Registry.Resolve(ctx.Unit, "Point")
	if res.Kind != namespace.Found {
		t.Fatalf("expected Point to resolve, got %+v", res)
	}
	def, ok := ctx.Registry.GetType(res.TypeId)
	if !ok {
		t.Fatal("expected Point type to exist")
	}
	if len(def.Class.Methods) != 1 {
		t.Fatalf("expected one constructor, got %d", len(def.Class.Methods))
	}
	ctorId := def.Class.Methods[0]
	if !mod.IsUsable(ctorId) {
		diags := ctx.Errors.Diagnostics()
		t.Fatalf("expected constructor to compile cleanly, errors: %+v", diags)
	}
	buf := mod.Functions[ctorId]

	storeFields := 0
	for _, inst := range buf.Code {
		if inst.Op == bytecode.StoreField {
			storeFields++
		}
	}
	if storeFields != 1 {
		t.Fatalf("expected exactly one StoreField (for x, which has an initializer), got %d", storeFields)
	}
}

func TestCompileUnitSwitchRejectsDuplicateCase(t *testing.T) {
	ctx := newTestContext(t)

	one := func() *ast.Literal {
		l := ast.NewLiteral(ast.Span{}, ast.LitInt)
		l.Int = 1
		return l
	}
	sw := ast.NewSwitchStmt(ast.Span{}, ast.NewIdentifier(ast.Span{}, "n"), []ast.SwitchCase{
		{Values: []ast.Expression{one()}, Body: nil},
		{Values: []ast.Expression{one()}, Body: nil},
	})

	body := ast.NewBlockStmt(ast.Span{}, []ast.Statement{sw, ast.NewReturnStmt(ast.Span{}, nil)})
	fn := ast.NewFunctionDecl(ast.Span{}, "Check", []ast.ParamDecl{{Name: "n", Type: int32Type()}}, nil, body)

	script := ast.NewScript(ast.Span{}, []ast.Item{fn})
	runPasses(t, script, ctx)

	CompileUnit(ctx)

	if !ctx.Errors.HasErrors() {
		t.Fatal("expected duplicate switch case to be reported")
	}
}
