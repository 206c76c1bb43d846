package compiler

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/types"
)

// checkLambda lifts a lambda expression to a fresh FunctionId queued onto
// c.lambdas (drained by CompileUnit once the enclosing body finishes) and
// leaves a FuncPtr to it on the stack. Parameter/return types come from an
// explicit annotation when present, else from target (the funcdef the
// lambda is being assigned/passed into); an expression-bodied lambda with
// neither is checked once against a scratch compiler purely to learn its
// result type; that throwaway compile is discarded; the real one runs when
// CompileUnit drains the queue.
func (c *Compiler) checkLambda(n *ast.LambdaExpr, target *types.DataType) exprContext {
	var funcdef *types.FuncdefDef
	if target != nil {
		if def, ok := c.ctx.Registry.GetType(target.TypeId); ok && def.Kind == types.KindFuncdef {
			funcdef = def.Funcdef
		}
	}
	if funcdef != nil && len(funcdef.Params) != len(n.Params) {
		funcdef = nil
	}

	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		switch {
		case p.Type != nil:
			pt, ok := c.resolveTypeExpr(c.node, p.Type)
			if !ok {
				return rvalue(types.DataType{})
			}
			params[i] = types.Param{Name: p.Name, Type: pt}
		case funcdef != nil:
			params[i] = types.Param{Name: p.Name, Type: funcdef.Params[i]}
		default:
			c.errorf(errors.TypeMismatch, n.Span(), "lambda parameter %q has no type annotation and no funcdef context to infer one from", p.Name)
			return rvalue(types.DataType{})
		}
	}

	var returnType types.DataType
	switch {
	case n.ReturnType != nil:
		rt, ok := c.resolveTypeExpr(c.node, n.ReturnType)
		if !ok {
			return rvalue(types.DataType{})
		}
		returnType = rt
	case funcdef != nil:
		returnType = funcdef.ReturnType
	case n.ExprBody != nil:
		returnType = c.inferExprBodyType(n, params)
	default:
		c.errorf(errors.TypeMismatch, n.Span(), "lambda return type cannot be inferred")
		return rvalue(types.DataType{})
	}

	id := c.ctx.Registry.NextFunctionId()
	*c.lambdas = append(*c.lambdas, pendingLambda{
		id:         id,
		node:       c.node,
		class:      c.class,
		params:     params,
		returnType: returnType,
		body:       n.Body,
		exprBody:   n.ExprBody,
	})
	c.ctx.Registry.DefineFunction(id, &types.FunctionDef{
		Id:              id,
		Name:            "$lambda",
		Params:          params,
		ReturnType:      returnType,
		SignatureFilled: true,
	})

	c.buf.FuncPtr(uint32(id))
	funcdefId := target
	if funcdefId != nil {
		return rvalue(*funcdefId)
	}
	return rvalue(types.DataType{})
}

// inferExprBodyType runs a scratch child compiler over an expression-bodied
// lambda purely to learn its checked type; the compile result (bytecode,
// diagnostics) is discarded, the real compile happens once CompileUnit
// drains the lambda queue with the lifted FunctionId's own Compiler.
func (c *Compiler) inferExprBodyType(n *ast.LambdaExpr, params []types.Param) types.DataType {
	saved := c.ctx.Errors
	c.ctx.Errors = errors.NewBus()
	defer func() { c.ctx.Errors = saved }()
	scratch := newCompiler(c.ctx, &types.FunctionDef{Params: params}, c.class, c.node, &[]pendingLambda{})
	scratch.scopes.push()
	for _, p := range params {
		scratch.scopes.declare(p.Name, p.Type, true)
	}
	ec := scratch.checkExpr(n.ExprBody)
	scratch.scopes.pop()
	return ec.typ
}
