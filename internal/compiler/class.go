package compiler

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/semantic"
	"github.com/ascompiler/core/internal/types"
)

// emitConstructorPrologue implements the three-step sequence a constructor
// body is compiled with in front of it: fields without initializers need no
// bytecode (the VM default-initializes them at allocation); an implicit
// base-class default-constructor call is emitted unless the body already
// contains an explicit super(...) call; then every field with an
// initializer is assigned in declaration order.
func (c *Compiler) emitConstructorPrologue(body *ast.BlockStmt) {
	decl := c.classDecl()
	if decl == nil {
		return
	}

	if c.class.BaseClass != 0 && !containsSuperCall(body) {
		if ctorId, ok := c.defaultConstructorOf(c.class.BaseClass); ok {
			c.buf.LoadThis()
			c.buf.CallConstructor(uint32(c.class.BaseClass), uint32(ctorId))
		}
	}

	for _, f := range decl.Fields {
		if f.Init == nil {
			continue
		}
		idx, ok := fieldIndex(c.class, f.Name)
		if !ok {
			continue
		}
		fieldType := c.class.Fields[idx].Type
		c.buf.LoadThis()
		ec := c.checkExprTarget(f.Init, &fieldType)
		c.coerceTo(ec, fieldType, f.Init.Span())
		c.buf.StoreField(idx)
	}
}

// classDecl fetches the *ast.ClassDecl the current class was declared from,
// via the function's ObjectType (Pass 2a keyed ctx.Classes by TypeId).
func (c *Compiler) classDecl() *ast.ClassDecl {
	if c.class == nil || c.fn == nil || c.fn.ObjectType == 0 {
		return nil
	}
	pc, ok := c.ctx.Classes[c.fn.ObjectType]
	if !ok {
		return nil
	}
	return pc.Decl
}

// defaultConstructorOf finds the base class's zero-argument constructor, if
// it declared one. Pass 2a reaches a method's constructor-ness only through
// FunctionDef.Traits.Constructor (no pass fills ClassDef.Behaviors.Constructors;
// template instantiations only copy their origin's empty table), so this
// scans Methods directly rather than trusting Behaviors here. A base
// class with only parameterized constructors and no explicit super(...) call
// is left for a VM/Pass-2a-level check; this package just emits nothing.
func (c *Compiler) defaultConstructorOf(base ident.TypeId) (ident.FunctionId, bool) {
	baseDef, ok := c.ctx.Registry.GetType(base)
	if !ok || baseDef.Kind != types.KindClass {
		return 0, false
	}
	for _, id := range baseDef.Class.Methods {
		def, ok := c.ctx.Registry.GetFunction(id)
		if ok && def.Traits.Constructor && len(def.Params) == 0 {
			return id, true
		}
	}
	return 0, false
}

// constructorsOf collects every constructor overload declared directly on a
// class (see defaultConstructorOf for why Methods is scanned instead of
// Behaviors.Constructors).
func constructorsOf(ctx *semantic.Context, def *types.ClassDef) []ident.FunctionId {
	var out []ident.FunctionId
	for _, id := range def.Methods {
		if fn, ok := ctx.Registry.GetFunction(id); ok && fn.Traits.Constructor {
			out = append(out, id)
		}
	}
	return out
}

// checkSuperCall compiles `super(args)`: resolves the base class's
// constructor overload set and emits a CallConstructor the same way an
// ordinary `new Base(...)` would, with `this` as the receiver instead of a
// freshly allocated object.
func (c *Compiler) checkSuperCall(n *ast.CallExpr) exprContext {
	if c.class == nil {
		c.error(errors.NewSuperOutsideClass(n.Span()))
		return rvalue(types.DataType{})
	}
	if c.class.BaseClass == 0 {
		c.error(errors.NewSuperWithoutBase(n.Span()))
		return rvalue(types.DataType{})
	}
	baseDef, ok := c.ctx.Registry.GetType(c.class.BaseClass)
	if !ok || baseDef.Kind != types.KindClass {
		c.error(errors.NewSuperWithoutBase(n.Span()))
		return rvalue(types.DataType{})
	}

	c.buf.LoadThis()
	args := make([]exprContext, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a)
	}
	_, id, ok := c.resolveOverload(constructorsOf(c.ctx, baseDef.Class), args, "super", n.Span())
	if !ok {
		return rvalue(types.DataType{})
	}
	c.buf.CallConstructor(uint32(c.class.BaseClass), uint32(id))
	return rvalue(types.DataType{})
}

// checkSuperMethodCall compiles `super.Name(args)`: resolves Name against the
// base class's declared methods and always binds statically, so a subclass
// calling through to the method it just overrode doesn't loop back onto
// itself via virtual dispatch.
func (c *Compiler) checkSuperMethodCall(callee *ast.MemberExpr, n *ast.CallExpr) exprContext {
	if c.class == nil {
		c.error(errors.NewSuperOutsideClass(n.Span()))
		return rvalue(types.DataType{})
	}
	if c.class.BaseClass == 0 {
		c.error(errors.NewSuperWithoutBase(n.Span()))
		return rvalue(types.DataType{})
	}
	baseDef, ok := c.ctx.Registry.GetType(c.class.BaseClass)
	if !ok || baseDef.Kind != types.KindClass {
		c.error(errors.NewSuperWithoutBase(n.Span()))
		return rvalue(types.DataType{})
	}

	var candidates []ident.FunctionId
	for _, id := range baseDef.Class.Methods {
		if def, ok := c.ctx.Registry.GetFunction(id); ok && def.Name == callee.Name {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		c.error(errors.NewUndefinedMethod(n.Span(), baseDef.Class.Name, callee.Name))
		return rvalue(types.DataType{})
	}

	c.buf.LoadThis()
	args := make([]exprContext, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a)
	}
	def, id, ok := c.resolveOverload(candidates, args, callee.Name, n.Span())
	if !ok {
		return rvalue(types.DataType{})
	}
	c.buf.Call(uint32(id))
	return rvalue(def.ReturnType)
}

// containsSuperCall scans a constructor body for an explicit super(...)
// call at any statement/expression depth.
func containsSuperCall(body *ast.BlockStmt) bool {
	if body == nil {
		return false
	}
	return stmtsContainSuper(body.Statements)
}

func stmtsContainSuper(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if stmtContainsSuper(s) {
			return true
		}
	}
	return false
}

func stmtContainsSuper(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.BlockStmt:
		return stmtsContainSuper(n.Statements)
	case *ast.IfStmt:
		return exprContainsSuper(n.Cond) || stmtContainsSuper(n.Then) || (n.Else != nil && stmtContainsSuper(n.Else))
	case *ast.WhileStmt:
		return exprContainsSuper(n.Cond) || stmtContainsSuper(n.Body)
	case *ast.DoWhileStmt:
		return stmtContainsSuper(n.Body) || exprContainsSuper(n.Cond)
	case *ast.ForStmt:
		return (n.Init != nil && stmtContainsSuper(n.Init)) ||
			(n.Cond != nil && exprContainsSuper(n.Cond)) ||
			(n.Post != nil && stmtContainsSuper(n.Post)) ||
			stmtContainsSuper(n.Body)
	case *ast.ForeachStmt:
		return exprContainsSuper(n.Collection) || stmtContainsSuper(n.Body)
	case *ast.ReturnStmt:
		return n.Value != nil && exprContainsSuper(n.Value)
	case *ast.SwitchStmt:
		if exprContainsSuper(n.Subject) {
			return true
		}
		for _, cs := range n.Cases {
			if stmtsContainSuper(cs.Body) {
				return true
			}
		}
		return stmtsContainSuper(n.Default)
	case *ast.TryStmt:
		return (n.Try != nil && stmtsContainSuper(n.Try.Statements)) ||
			(n.Catch != nil && stmtsContainSuper(n.Catch.Statements)) ||
			(n.Finally != nil && stmtsContainSuper(n.Finally.Statements))
	case *ast.ExprStmt:
		return exprContainsSuper(n.Expr)
	case *ast.VarDeclStmt:
		return n.Init != nil && exprContainsSuper(n.Init)
	default:
		return false
	}
}

func exprContainsSuper(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.CallExpr:
		if id, ok := n.Callee.(*ast.Identifier); ok && !id.Absolute && id.Name == "super" {
			return true
		}
		if exprContainsSuper(n.Callee) {
			return true
		}
		for _, a := range n.Args {
			if exprContainsSuper(a) {
				return true
			}
		}
		return false
	case *ast.ParenExpr:
		return exprContainsSuper(n.Inner)
	case *ast.BinaryExpr:
		return exprContainsSuper(n.Left) || exprContainsSuper(n.Right)
	case *ast.UnaryExpr:
		return exprContainsSuper(n.Operand)
	case *ast.PostfixExpr:
		return exprContainsSuper(n.Operand)
	case *ast.MemberExpr:
		return exprContainsSuper(n.Object)
	case *ast.IndexExpr:
		return exprContainsSuper(n.Object) || exprContainsSuper(n.Index)
	case *ast.CastExpr:
		return exprContainsSuper(n.Operand)
	case *ast.TernaryExpr:
		return exprContainsSuper(n.Cond) || exprContainsSuper(n.Then) || exprContainsSuper(n.Else)
	case *ast.InitListExpr:
		for _, el := range n.Elements {
			if exprContainsSuper(el) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
