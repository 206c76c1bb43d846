// Package compiler implements Pass 2b, the function compiler: it consumes
// the fully signature-resolved registry Pass 2a produces and compiles each
// function/method body independently into a per-FunctionId bytecode.Buffer,
// one expression/statement at a time, emitting instructions as it checks
// types rather than building and then lowering a separate typed IR — the
// single-pass, sequential style spec'd for this compiler (no operation
// suspends; compiling an inner lambda just runs a child Compiler inline).
package compiler

import (
	"fmt"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/bytecode"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/semantic"
	"github.com/ascompiler/core/internal/types"
)

// pendingLambda is a lambda expression lifted to a fresh FunctionId during
// expression checking, queued for the enclosing unit compile to drain once
// the current function body finishes (spec §4.5: "creates a child compiler
// that writes into the same registry's instruction store under a fresh
// FunctionId").
type pendingLambda struct {
	id         ident.FunctionId
	node       *namespace.Node
	class      *types.ClassDef
	params     []types.Param
	returnType types.DataType
	body       *ast.BlockStmt
	exprBody   ast.Expression
}

// Compiler compiles one function body. State mirrors spec §4.5: a
// local-variable scope stack, the bytecode buffer being written into, the
// function's return type, the current class (for `this`/`super`), the
// namespace node the body resolves unqualified names from, and the queue
// any lambda expressions found during compilation are lifted onto.
type Compiler struct {
	ctx   *semantic.Context
	buf   *bytecode.Buffer
	fn    *types.FunctionDef
	class *types.ClassDef // nil outside a method body
	node  *namespace.Node

	scopes   *scopeStack
	loops    []loopLabels
	lambdas  *[]pendingLambda
	hadError bool

	// primitiveCache memoizes the TypeId each built-in Primitive resolves to
	// via the FFI registry, looked up by name ($ffi registers each scalar
	// under its Primitive.String()) rather than through any enumeration
	// method on registry.Context.
	primitiveCache map[types.Primitive]ident.TypeId

	// tempCounter names the hidden local slots the lvalue helpers (lvalue.go)
	// use to stash an object/index/value across a field or indexed store —
	// the instruction set has no stack-swap opcode, so a compound or indexed
	// assignment spills to a local instead of reordering the stack.
	tempCounter int
}

func newCompiler(ctx *semantic.Context, fn *types.FunctionDef, class *types.ClassDef, node *namespace.Node, lambdas *[]pendingLambda) *Compiler {
	return &Compiler{
		ctx:            ctx,
		buf:            bytecode.NewBuffer(),
		fn:             fn,
		class:          class,
		node:           node,
		scopes:         newScopeStack(),
		lambdas:        lambdas,
		primitiveCache: make(map[types.Primitive]ident.TypeId),
	}
}

// tempName returns a fresh, function-unique hidden local name; uniqueness
// across the whole function (not just the innermost scope) means it never
// collides regardless of which block declares it in.
func (c *Compiler) tempName() string {
	c.tempCounter++
	return fmt.Sprintf("$t%d", c.tempCounter)
}

func (c *Compiler) errorf(kind errors.Kind, span ast.Span, format string, args ...interface{}) {
	c.hadError = true
	c.ctx.Errors.Addf(kind, span, format, args...)
}

func (c *Compiler) error(d *errors.Diagnostic) {
	c.hadError = true
	c.ctx.Errors.Add(d)
}

// compileBody compiles a parameter list and block body: declares one local
// slot per parameter in declaration order, starting at slot 0 (there is no
// slot for `this`), runs the constructor prologue when fn is a
// constructor, then compiles the statements. A body that does not end in a
// terminator is closed with ReturnVoid for a void function and with a bare
// Return otherwise (no value is pushed for it), matching I4.
func (c *Compiler) compileBody(params []types.Param, body *ast.BlockStmt, exprBody ast.Expression) {
	c.scopes.push()
	defer c.scopes.pop()

	for _, p := range params {
		c.scopes.declare(p.Name, p.Type, true)
	}

	if c.fn != nil && c.fn.Traits.Constructor {
		c.emitConstructorPrologue(body)
	}

	switch {
	case body != nil:
		c.compileBlockStatements(body.Statements)
	case exprBody != nil:
		ec := c.checkExpr(exprBody)
		c.coerceTo(ec, c.fn.ReturnType, exprBody.Span())
		c.buf.Return()
	}

	if !c.buf.EndsInTerminator() {
		if c.fn == nil || c.fn.ReturnType.TypeId == 0 {
			c.buf.ReturnVoid()
		} else {
			c.buf.Return()
		}
	}
}

// CompileUnit runs Pass 2b over every function/method Pass 2a resolved in
// ctx (ctx.Bodies) and returns the compiled module. Lambdas discovered
// while compiling any of those bodies are drained afterward, each possibly
// lifting further nested lambdas of its own.
func CompileUnit(ctx *semantic.Context) *bytecode.CompiledModule {
	mod := bytecode.NewCompiledModule()
	var lambdas []pendingLambda

	for id, decl := range ctx.Bodies {
		def, ok := ctx.Registry.GetFunction(id)
		if !ok {
			continue
		}
		class := ownerClass(ctx, def.ObjectType)
		node := ownerNode(ctx, def.ObjectType, id)
		compileOne(ctx, mod, &lambdas, id, def, class, node, decl.Body, nil)
	}

	for i := 0; i < len(lambdas); i++ {
		l := lambdas[i]
		fn := &types.FunctionDef{Id: l.id, Params: l.params, ReturnType: l.returnType, SignatureFilled: true}
		compileOne(ctx, mod, &lambdas, l.id, fn, l.class, l.node, l.body, l.exprBody)
	}

	return mod
}

func compileOne(ctx *semantic.Context, mod *bytecode.CompiledModule, lambdas *[]pendingLambda, id ident.FunctionId, def *types.FunctionDef, class *types.ClassDef, node *namespace.Node, body *ast.BlockStmt, exprBody ast.Expression) {
	c := newCompiler(ctx, def, class, node, lambdas)
	c.compileBody(def.Params, body, exprBody)
	mod.Add(id, c.buf, c.hadError)
}

func ownerClass(ctx *semantic.Context, objectType ident.TypeId) *types.ClassDef {
	if objectType == 0 {
		return nil
	}
	def, ok := ctx.Registry.GetType(objectType)
	if !ok || def.Kind != types.KindClass {
		return nil
	}
	return def.Class
}

// ownerNode finds the namespace node a function/method resolves unqualified
// names from: a method resolves from the node its owning class was
// declared in (so sibling declarations in the same unit are visible); a
// free function resolves from the node recorded in ctx.Functions at the
// same id.
func ownerNode(ctx *semantic.Context, objectType ident.TypeId, id ident.FunctionId) *namespace.Node {
	// ctx.Classes is keyed by TypeId; pendingClass itself is unexported but
	// its Node field is exported, so it reads fine through the map without
	// this package ever naming the type.
	if objectType != 0 {
		if pc, ok := ctx.Classes[objectType]; ok {
			return pc.Node
		}
	}
	for _, p := range ctx.Functions {
		if p.Id == id {
			return p.Node
		}
	}
	return ctx.Unit
}
