package compiler

import (
	"fmt"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/bytecode"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/types"
)

// compileBlockStatements compiles a statement list inside the local scope
// the caller has already pushed (a BlockStmt's own scope, a function body's
// top scope, or one arm of a switch, sharing the enclosing switch's scope
// since case labels don't each get their own block in this language).
func (c *Compiler) compileBlockStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		c.compileStatement(s)
	}
}

func (c *Compiler) compileStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		c.scopes.push()
		c.compileBlockStatements(n.Statements)
		c.scopes.pop()
	case *ast.IfStmt:
		c.compileIf(n)
	case *ast.WhileStmt:
		c.compileWhile(n)
	case *ast.DoWhileStmt:
		c.compileDoWhile(n)
	case *ast.ForStmt:
		c.compileFor(n)
	case *ast.ForeachStmt:
		c.compileForeach(n)
	case *ast.ReturnStmt:
		c.compileReturn(n)
	case *ast.BreakStmt:
		c.compileBreak(n)
	case *ast.ContinueStmt:
		c.compileContinue(n)
	case *ast.SwitchStmt:
		c.compileSwitch(n)
	case *ast.TryStmt:
		c.compileTry(n)
	case *ast.ExprStmt:
		c.checkExpr(n.Expr)
		c.buf.Pop()
	case *ast.VarDeclStmt:
		c.compileVarDecl(n)
	default:
		c.errorf(errors.NotCallable, s.Span(), "unsupported statement")
	}
}

func (c *Compiler) compileIf(n *ast.IfStmt) {
	cond := c.checkExpr(n.Cond)
	c.requireBool(cond, n.Cond.Span())

	if n.Else == nil {
		end := c.buf.NewLabel()
		c.buf.JumpIfFalse(end)
		c.compileStatement(n.Then)
		c.buf.Bind(end)
		return
	}

	elseLabel := c.buf.NewLabel()
	end := c.buf.NewLabel()
	c.buf.JumpIfFalse(elseLabel)
	c.compileStatement(n.Then)
	c.buf.Jump(end)
	c.buf.Bind(elseLabel)
	c.compileStatement(n.Else)
	c.buf.Bind(end)
}

func (c *Compiler) compileWhile(n *ast.WhileStmt) {
	start := c.buf.NewLabel()
	end := c.buf.NewLabel()
	c.buf.Bind(start)
	cond := c.checkExpr(n.Cond)
	c.requireBool(cond, n.Cond.Span())
	c.buf.JumpIfFalse(end)

	c.loops = append(c.loops, loopLabels{breakLabel: end, continueLabel: start})
	c.compileStatement(n.Body)
	c.loops = c.loops[:len(c.loops)-1]

	c.buf.Jump(start)
	c.buf.Bind(end)
}

func (c *Compiler) compileDoWhile(n *ast.DoWhileStmt) {
	start := c.buf.NewLabel()
	continueLabel := c.buf.NewLabel()
	end := c.buf.NewLabel()
	c.buf.Bind(start)

	c.loops = append(c.loops, loopLabels{breakLabel: end, continueLabel: continueLabel})
	c.compileStatement(n.Body)
	c.loops = c.loops[:len(c.loops)-1]

	c.buf.Bind(continueLabel)
	cond := c.checkExpr(n.Cond)
	c.requireBool(cond, n.Cond.Span())
	c.buf.JumpIfFalse(end)
	c.buf.Jump(start)
	c.buf.Bind(end)
}

func (c *Compiler) compileFor(n *ast.ForStmt) {
	c.scopes.push()
	defer c.scopes.pop()

	if n.Init != nil {
		c.compileStatement(n.Init)
	}

	start := c.buf.NewLabel()
	continueLabel := c.buf.NewLabel()
	end := c.buf.NewLabel()
	c.buf.Bind(start)
	if n.Cond != nil {
		cond := c.checkExpr(n.Cond)
		c.requireBool(cond, n.Cond.Span())
		c.buf.JumpIfFalse(end)
	}

	c.loops = append(c.loops, loopLabels{breakLabel: end, continueLabel: continueLabel})
	c.compileStatement(n.Body)
	c.loops = c.loops[:len(c.loops)-1]

	c.buf.Bind(continueLabel)
	if n.Post != nil {
		c.compileStatement(n.Post)
	}
	c.buf.Jump(start)
	c.buf.Bind(end)
}

// compileForeach compiles `foreach (name in collection) body` against the
// collection's opForBegin/opForEnd/opForNext/opForValue methods, threading
// an explicit cursor value through each call — this instruction set has no
// notion of a hidden iterator object, so the cursor is just another local.
func (c *Compiler) compileForeach(n *ast.ForeachStmt) {
	c.scopes.push()
	defer c.scopes.pop()

	coll := c.checkExpr(n.Collection)
	def, ok := c.isClass(coll.typ)
	if !ok {
		c.error(errors.NewNotIterable(n.Collection.Span()))
		return
	}
	collSlot, _ := c.scopes.declare(c.tempName(), coll.typ, false)
	c.buf.StoreLocal(collSlot)

	beginId, ok := c.dispatchOperator(def, types.OpForBegin, nil, n.Span())
	if !ok {
		c.error(errors.NewNotIterable(n.Collection.Span()))
		return
	}
	beginDef, _ := c.ctx.Registry.GetFunction(beginId)
	cursorSlot, _ := c.scopes.declare(c.tempName(), beginDef.ReturnType, true)
	c.buf.LoadLocal(collSlot)
	c.buf.Call(uint32(beginId))
	c.buf.StoreLocal(cursorSlot)

	cursor := rvalue(beginDef.ReturnType)
	start := c.buf.NewLabel()
	continueLabel := c.buf.NewLabel()
	end := c.buf.NewLabel()
	c.buf.Bind(start)

	endId, ok := c.dispatchOperator(def, types.OpForEnd, []exprContext{cursor}, n.Span())
	if !ok {
		c.error(errors.NewNotIterable(n.Collection.Span()))
		return
	}
	c.buf.LoadLocal(collSlot)
	c.buf.LoadLocal(cursorSlot)
	c.buf.Call(uint32(endId))
	c.buf.Emit(bytecode.Not)
	c.buf.JumpIfFalse(end)

	valueId, ok := c.dispatchOperator(def, types.OpForValue, []exprContext{cursor}, n.Span())
	if !ok {
		c.error(errors.NewNotIterable(n.Collection.Span()))
		return
	}
	valueDef, _ := c.ctx.Registry.GetFunction(valueId)
	varSlot, _ := c.scopes.declare(n.VarName, valueDef.ReturnType, true)
	c.buf.LoadLocal(collSlot)
	c.buf.LoadLocal(cursorSlot)
	c.buf.Call(uint32(valueId))
	c.buf.StoreLocal(varSlot)

	c.loops = append(c.loops, loopLabels{breakLabel: end, continueLabel: continueLabel})
	c.compileStatement(n.Body)
	c.loops = c.loops[:len(c.loops)-1]

	c.buf.Bind(continueLabel)
	if nextId, ok := c.dispatchOperator(def, types.OpForNext, []exprContext{cursor}, n.Span()); ok {
		c.buf.LoadLocal(collSlot)
		c.buf.LoadLocal(cursorSlot)
		c.buf.Call(uint32(nextId))
		c.buf.StoreLocal(cursorSlot)
	}
	c.buf.Jump(start)
	c.buf.Bind(end)
}

func (c *Compiler) compileReturn(n *ast.ReturnStmt) {
	if n.Value == nil {
		if c.fn != nil && c.fn.ReturnType.TypeId != 0 {
			c.error(errors.NewVoidExpression(n.Span()))
		}
		c.buf.ReturnVoid()
		return
	}
	if c.fn != nil && c.fn.ReturnType.TypeId == 0 {
		c.error(errors.NewVoidExpression(n.Span()))
	}
	ec := c.checkExprTarget(n.Value, &c.fn.ReturnType)
	c.coerceTo(ec, c.fn.ReturnType, n.Value.Span())
	c.buf.Return()
}

func (c *Compiler) compileBreak(n *ast.BreakStmt) {
	if len(c.loops) == 0 {
		c.error(errors.NewBreakOutsideLoop(n.Span()))
		return
	}
	c.buf.Jump(c.loops[len(c.loops)-1].breakLabel)
}

func (c *Compiler) compileContinue(n *ast.ContinueStmt) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if !c.loops[i].isSwitch {
			c.buf.Jump(c.loops[i].continueLabel)
			return
		}
	}
	c.error(errors.NewContinueOutsideLoop(n.Span()))
}

// literalKey renders a case-value expression's constant into a key usable
// for the duplicate-case check; non-literal case expressions (an imported
// constant, say) are skipped since their value isn't known at this point.
func literalKey(e ast.Expression) (string, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok {
		return "", false
	}
	switch lit.Kind {
	case ast.LitInt:
		return fmt.Sprintf("int:%d", lit.Int), true
	case ast.LitFloat, ast.LitDouble:
		return fmt.Sprintf("float:%v", lit.Float), true
	case ast.LitBool:
		return fmt.Sprintf("bool:%t", lit.Bool), true
	case ast.LitString:
		return "string:" + lit.Str, true
	case ast.LitNull:
		return "null", true
	default:
		return "", false
	}
}

// emitEqualityTest compares the two values already on the stack (subject,
// then the case value) and leaves a bool on top: a numeric widening
// comparison for primitive pairs, opEquals dispatch otherwise.
func (c *Compiler) emitEqualityTest(leftTyp, rightTyp types.DataType, span ast.Span) {
	lp, lok := c.primitiveOf(leftTyp)
	rp, rok := c.primitiveOf(rightTyp)
	if lok && rok {
		common := c.widerOf(lp, rp)
		if lp != common || rp != common {
			rightSlot, _ := c.scopes.declare(c.tempName(), types.DataType{}, true)
			c.buf.StoreLocal(rightSlot)
			if lp != common {
				c.emitConv(lp, common)
			}
			c.buf.LoadLocal(rightSlot)
			if rp != common {
				c.emitConv(rp, common)
			}
		}
		op, ok := cmpOpcode(ast.OpEq, common)
		if ok {
			c.buf.Emit(op)
		}
		return
	}
	if def, ok := c.isClass(leftTyp); ok {
		if id, ok := c.dispatchOperator(def, types.OpEquals, []exprContext{rvalue(rightTyp)}, span); ok {
			if eqDef, ok := c.ctx.Registry.GetFunction(id); ok && eqDef.Traits.Virtual {
				c.buf.CallVirtual(uint32(id))
			} else {
				c.buf.Call(uint32(id))
			}
			return
		}
	}
	c.buf.Emit(bytecode.CmpEqHandle)
}

func (c *Compiler) compileSwitch(n *ast.SwitchStmt) {
	subj := c.checkExpr(n.Subject)
	subjSlot, _ := c.scopes.declare(c.tempName(), subj.typ, false)
	c.buf.StoreLocal(subjSlot)

	end := c.buf.NewLabel()
	defaultLabel := end
	if n.HasDefault {
		defaultLabel = c.buf.NewLabel()
	}

	bodyLabels := make([]int64, len(n.Cases))
	for i := range n.Cases {
		bodyLabels[i] = c.buf.NewLabel()
	}

	seen := map[string]bool{}
	for i, cs := range n.Cases {
		if cs.TypePattern != nil {
			// This instruction set has no runtime type-test opcode, so a
			// type-pattern case is matched unconditionally the first time
			// it is reached in source order.
			c.buf.Jump(bodyLabels[i])
			continue
		}
		for _, v := range cs.Values {
			if key, ok := literalKey(v); ok {
				if seen[key] {
					c.error(errors.NewDuplicateSwitchCase(v.Span()))
				}
				seen[key] = true
			}
			c.buf.LoadLocal(subjSlot)
			val := c.checkExpr(v)
			c.emitEqualityTest(subj.typ, val.typ, v.Span())
			c.buf.Emit(bytecode.Not)
			c.buf.JumpIfFalse(bodyLabels[i])
		}
	}
	c.buf.Jump(defaultLabel)

	c.loops = append(c.loops, loopLabels{breakLabel: end, isSwitch: true})
	for i, cs := range n.Cases {
		c.buf.Bind(bodyLabels[i])
		if cs.TypePattern != nil && cs.BindName != "" {
			if typ, ok := c.resolveTypeExpr(c.node, cs.TypePattern); ok {
				slot, _ := c.scopes.declare(cs.BindName, typ, false)
				c.buf.LoadLocal(subjSlot)
				c.buf.StoreLocal(slot)
			}
		}
		c.compileBlockStatements(cs.Body)
	}
	if n.HasDefault {
		c.buf.Bind(defaultLabel)
		c.compileBlockStatements(n.Default)
	}
	c.loops = c.loops[:len(c.loops)-1]
	c.buf.Bind(end)
}

// compileTry compiles try/catch/finally. BeginTry/EndTry bracket the
// protected region; Throw is emitted wherever a throw expression/statement
// appears elsewhere (this language has no explicit ThrowStmt — see the
// funcdef/FFI-exposed throw path instead), so only the catch dispatch
// itself needs handling here.
func (c *Compiler) compileTry(n *ast.TryStmt) {
	catchLabel := c.buf.NewLabel()
	end := c.buf.NewLabel()

	c.buf.BeginTry(catchLabel)
	c.scopes.push()
	c.compileBlockStatements(n.Try.Statements)
	c.scopes.pop()
	c.buf.EndTry()
	c.buf.Jump(end)

	c.buf.Bind(catchLabel)
	if n.Catch != nil {
		c.scopes.push()
		c.compileBlockStatements(n.Catch.Statements)
		c.scopes.pop()
	}
	c.buf.Bind(end)

	if n.Finally != nil {
		c.scopes.push()
		c.compileBlockStatements(n.Finally.Statements)
		c.scopes.pop()
	}
}

func (c *Compiler) compileVarDecl(n *ast.VarDeclStmt) {
	var declared types.DataType
	var hasType bool
	if n.Type != nil {
		declared, hasType = c.resolveTypeExpr(c.node, n.Type)
		if !hasType {
			return
		}
	}

	if n.Init == nil {
		if !hasType {
			c.errorf(errors.TypeMismatch, n.Span(), "variable %q has no type and no initializer to infer one from", n.Name)
			return
		}
		c.zeroValue(declared)
		slot, ok := c.scopes.declare(n.Name, declared, !n.IsConst)
		if !ok {
			c.errorf(errors.DuplicateGlobal, n.Span(), "%q is already declared in this scope", n.Name)
		}
		c.buf.StoreLocal(slot)
		return
	}

	var target *types.DataType
	if hasType {
		target = &declared
	}
	init := c.checkExprTarget(n.Init, target)
	finalType := init.typ
	if hasType {
		c.coerceTo(init, declared, n.Init.Span())
		finalType = declared
	}
	slot, ok := c.scopes.declare(n.Name, finalType, !n.IsConst)
	if !ok {
		c.errorf(errors.DuplicateGlobal, n.Span(), "%q is already declared in this scope", n.Name)
	}
	c.buf.StoreLocal(slot)
}

// zeroValue pushes the default value for a declared-but-uninitialized
// local: 0/0.0/false/"" for scalars, null for everything else (handles and
// value-type class instances alike — a value type without an explicit
// initializer is default-constructed by its own declaration elsewhere).
func (c *Compiler) zeroValue(typ types.DataType) {
	if p, ok := c.primitiveOf(typ); ok {
		switch {
		case p == types.PrimBool:
			c.buf.PushBool(false)
		case p == types.PrimFloat:
			c.buf.PushFloat(0)
		case p == types.PrimDouble:
			c.buf.PushDouble(0)
		case p == types.PrimString:
			c.buf.PushString("")
		default:
			c.buf.PushInt(0)
		}
		return
	}
	c.buf.PushNull()
}
