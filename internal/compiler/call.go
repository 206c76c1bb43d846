package compiler

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// checkCall compiles a call expression. The callee shape picks the dispatch
// path: a bare name naming a function overload set, `obj.Name(...)` naming a
// method, or anything else evaluated as a value — a class exposing opCall,
// or a funcdef handle called indirectly through CallPtr.
func (c *Compiler) checkCall(n *ast.CallExpr) exprContext {
	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		if !callee.Absolute && callee.Name == "super" {
			if _, isLocal := c.scopes.lookup("super"); !isLocal {
				return c.checkSuperCall(n)
			}
		}
		return c.checkCallByName(callee, n)
	case *ast.MemberExpr:
		return c.checkCallMethod(callee, n)
	default:
		return c.checkCallValue(n.Callee, n)
	}
}

// checkCallByName resolves an unqualified or qualified bare name to a
// function overload set. A name already bound to a local/global variable
// (a funcdef-typed value, or a class exposing opCall) takes precedence and
// falls through to checkCallValue instead.
func (c *Compiler) checkCallByName(callee *ast.Identifier, n *ast.CallExpr) exprContext {
	if !callee.Absolute {
		if _, ok := c.scopes.lookup(callee.Name); ok {
			return c.checkCallValue(callee, n)
		}
	}

	name := c.normalizeQualified(callee.Name)
	res := c.ctx.Registry.Resolve(c.node, name)
	if res.Kind != namespace.Found || res.SymKind != namespace.SymFunction {
		return c.checkCallValue(callee, n)
	}

	isMethod := false
	if len(res.FuncIds) > 0 {
		if fn, ok := c.ctx.Registry.GetFunction(res.FuncIds[0]); ok && fn.ObjectType != 0 {
			isMethod = true
		}
	}
	if isMethod {
		if c.class == nil {
			c.error(errors.NewThisOutsideClass(n.Span()))
			return rvalue(types.DataType{})
		}
		c.buf.LoadThis()
	}

	args := make([]exprContext, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a)
	}
	_, id, ok := c.resolveOverload(res.FuncIds, args, callee.Name, n.Span())
	if !ok {
		return rvalue(types.DataType{})
	}
	return c.emitMethodCall(id, n.Span())
}

// checkCallMethod compiles `obj.Name(args)`, resolving Name against obj's
// class's declared methods by matching name, then by overload. `super.Name(args)`
// is a special case: it resolves against the base class and always binds
// statically (never CallVirtual), since a super call exists precisely to
// bypass the override the current class installed.
func (c *Compiler) checkCallMethod(callee *ast.MemberExpr, n *ast.CallExpr) exprContext {
	if id, ok := callee.Object.(*ast.Identifier); ok && !id.Absolute && id.Name == "super" {
		if _, isLocal := c.scopes.lookup("super"); !isLocal {
			return c.checkSuperMethodCall(callee, n)
		}
	}

	obj := c.checkExpr(callee.Object)
	def, ok := c.isClass(obj.typ)
	if !ok {
		c.error(errors.NewUndefinedMethod(n.Span(), obj.typ.String(), callee.Name))
		return rvalue(types.DataType{})
	}

	var candidates []ident.FunctionId
	for _, id := range def.Methods {
		if fn, ok := c.ctx.Registry.GetFunction(id); ok && fn.Name == callee.Name {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		c.error(errors.NewUndefinedMethod(n.Span(), def.Name, callee.Name))
		return rvalue(types.DataType{})
	}

	args := make([]exprContext, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a)
	}
	_, id, ok := c.resolveOverload(candidates, args, callee.Name, n.Span())
	if !ok {
		return rvalue(types.DataType{})
	}
	return c.emitMethodCall(id, n.Span())
}

// checkCallValue evaluates calleeExpr as a plain value and calls through
// it: a class-typed value dispatches opCall like any other operator method;
// anything else is assumed to be a funcdef handle, invoked with CallPtr.
func (c *Compiler) checkCallValue(calleeExpr ast.Expression, n *ast.CallExpr) exprContext {
	callee := c.checkExpr(calleeExpr)

	args := make([]exprContext, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.checkExpr(a)
	}

	if def, ok := c.isClass(callee.typ); ok {
		id, ok := c.dispatchOperator(def, types.OpCall, args, n.Span())
		if !ok {
			c.error(errors.NewNoMatchingOverload(n.Span(), "opCall"))
			return rvalue(types.DataType{})
		}
		return c.emitMethodCall(id, n.Span())
	}

	c.buf.CallPtr()
	return rvalue(types.DataType{})
}
