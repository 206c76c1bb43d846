package compiler

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/bytecode"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/types"
)

// checkExpr type-checks e and emits the bytecode that leaves its value on
// top of the stack, returning the resulting exprContext.
func (c *Compiler) checkExpr(e ast.Expression) exprContext {
	return c.checkExprTarget(e, nil)
}

// checkExprTarget is checkExpr with an optional target type, consulted only
// by nodes with no inherent type of their own (InitListExpr, and a
// LambdaExpr whose return type must be inferred from a funcdef target).
func (c *Compiler) checkExprTarget(e ast.Expression, target *types.DataType) exprContext {
	switch n := e.(type) {
	case *ast.Literal:
		return c.checkLiteral(n)
	case *ast.Identifier:
		return c.checkIdentifier(n)
	case *ast.ParenExpr:
		return c.checkExprTarget(n.Inner, target)
	case *ast.BinaryExpr:
		return c.checkBinary(n)
	case *ast.UnaryExpr:
		return c.checkUnary(n)
	case *ast.PostfixExpr:
		return c.checkPostfix(n)
	case *ast.CallExpr:
		return c.checkCall(n)
	case *ast.MemberExpr:
		return c.checkMember(n)
	case *ast.IndexExpr:
		return c.checkIndex(n)
	case *ast.CastExpr:
		return c.checkCast(n)
	case *ast.TernaryExpr:
		return c.checkTernary(n)
	case *ast.InitListExpr:
		return c.checkInitList(n, target)
	case *ast.LambdaExpr:
		return c.checkLambda(n, target)
	default:
		c.errorf(errors.NotCallable, e.Span(), "unsupported expression")
		return rvalue(types.DataType{})
	}
}

func (c *Compiler) primitiveOf(dt types.DataType) (types.Primitive, bool) {
	def, ok := c.ctx.Registry.GetType(dt.TypeId)
	if !ok || def.Kind != types.KindPrimitive {
		return 0, false
	}
	return def.Primitive, true
}

func (c *Compiler) isClass(dt types.DataType) (*types.ClassDef, bool) {
	def, ok := c.ctx.Registry.GetType(dt.TypeId)
	if !ok || def.Kind != types.KindClass {
		return nil, false
	}
	return def.Class, true
}

// primitiveType resolves the DataType a built-in scalar was registered
// under, by its canonical FFI-mounted name (the same Primitive.String()
// spelling internal/ffi's Standard() registers it with).
func (c *Compiler) primitiveType(p types.Primitive) types.DataType {
	if id, ok := c.primitiveCache[p]; ok {
		return types.DataType{TypeId: id}
	}
	id, _ := c.ctx.Registry.LookupType(p.String())
	c.primitiveCache[p] = id
	return types.DataType{TypeId: id}
}

func (c *Compiler) checkLiteral(n *ast.Literal) exprContext {
	switch n.Kind {
	case ast.LitInt:
		c.buf.PushInt(n.Int)
		return rvalue(c.primitiveType(types.PrimInt32))
	case ast.LitFloat:
		c.buf.PushFloat(float32(n.Float))
		return rvalue(c.primitiveType(types.PrimFloat))
	case ast.LitDouble:
		c.buf.PushDouble(n.Float)
		return rvalue(c.primitiveType(types.PrimDouble))
	case ast.LitBool:
		c.buf.PushBool(n.Bool)
		return rvalue(c.primitiveType(types.PrimBool))
	case ast.LitString:
		c.buf.PushString(n.Str)
		return rvalue(c.primitiveType(types.PrimString))
	case ast.LitNull:
		c.buf.PushNull()
		return rvalue(types.DataType{IsHandle: true})
	default:
		c.errorf(errors.NotCallable, n.Span(), "unknown literal kind")
		return rvalue(types.DataType{})
	}
}

func (c *Compiler) checkIdentifier(n *ast.Identifier) exprContext {
	if !n.Absolute {
		if lv, ok := c.scopes.lookup(n.Name); ok {
			c.buf.LoadLocal(lv.slot)
			return exprContext{typ: lv.typ, isLvalue: true, isMutable: lv.mutable}
		}
		if n.Name == "this" {
			if c.class == nil {
				c.error(errors.NewThisOutsideClass(n.Span()))
				return rvalue(types.DataType{})
			}
			c.buf.LoadThis()
			return rvalue(types.DataType{TypeId: c.fn.ObjectType, IsHandle: true})
		}
		if n.Name == "super" {
			// super is only meaningful as a call target (super(...) or
			// super.Method(...)), both handled in call.go before checkExpr
			// ever reaches a bare Identifier named "super".
			if c.class == nil {
				c.error(errors.NewSuperOutsideClass(n.Span()))
			} else {
				c.error(errors.NewNotCallable(n.Span()))
			}
			return rvalue(types.DataType{})
		}
	}

	name := c.normalizeQualified(n.Name)
	if g, ok := c.ctx.Registry.Global(c.node, name); ok {
		c.buf.LoadGlobal(uint32(c.buf.Pool.InternString(name)))
		return lvalue(g.Type, true)
	}

	ids := c.ctx.Registry.LookupFunctions(name)
	switch len(ids) {
	case 0:
		c.error(errors.NewUndefinedName(n.Span(), n.Name))
		return rvalue(types.DataType{})
	case 1:
		c.buf.FuncPtr(uint32(ids[0]))
		return rvalue(types.DataType{IsHandle: true})
	default:
		c.error(errors.NewAmbiguous(n.Span(), n.Name))
		return rvalue(types.DataType{})
	}
}

func (c *Compiler) checkBinary(n *ast.BinaryExpr) exprContext {
	if n.Op == ast.OpAssign {
		return c.checkAssign(n)
	}
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return c.checkShortCircuit(n)
	}

	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)

	lp, lok := c.primitiveOf(left.typ)
	rp, rok := c.primitiveOf(right.typ)
	if lok && rok {
		return c.emitPrimitiveBinary(n, lp, rp)
	}

	return c.emitOperatorBinary(n, left, right)
}

var arithOps = map[ast.BinaryOp]bool{ast.OpAdd: true, ast.OpSub: true, ast.OpMul: true, ast.OpDiv: true, ast.OpMod: true}
var cmpOps = map[ast.BinaryOp]bool{ast.OpEq: true, ast.OpNe: true, ast.OpLt: true, ast.OpLe: true, ast.OpGt: true, ast.OpGe: true}
var bitOps = map[ast.BinaryOp]bool{ast.OpBitAnd: true, ast.OpBitOr: true, ast.OpBitXor: true, ast.OpShl: true, ast.OpShr: true}

// emitPrimitiveBinary compiles an arithmetic/compare/bitwise expression
// between two primitives already pushed on the stack, widening the
// narrower operand first when their widths differ.
func (c *Compiler) emitPrimitiveBinary(n *ast.BinaryExpr, lp, rp types.Primitive) exprContext {
	// stack here is [leftVal, rightVal]; a conversion opcode always acts on
	// whatever is on top, so widening the left operand in place requires
	// stashing the right one first rather than converting both in sequence.
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

	switch {
	case arithOps[n.Op]:
		op, ok := arithOpcode(n.Op, common)
		if !ok {
			c.errorf(errors.NotCallable, n.Span(), "operator %q has no numeric form", n.Op)
			return rvalue(types.DataType{})
		}
		c.buf.Emit(op)
		return rvalue(c.primitiveType(common))
	case cmpOps[n.Op]:
		op, ok := cmpOpcode(n.Op, common)
		if !ok {
			c.errorf(errors.NotCallable, n.Span(), "operator %q has no numeric form", n.Op)
			return rvalue(types.DataType{})
		}
		c.buf.Emit(op)
		return rvalue(c.primitiveType(types.PrimBool))
	case bitOps[n.Op]:
		if common.IsFloating() {
			c.error(errors.NewTypeMismatch(n.Span(), "integer", common.String()))
			return rvalue(c.primitiveType(types.PrimBool))
		}
		c.buf.Emit(bitOpcode(n.Op))
		return rvalue(c.primitiveType(common))
	default:
		c.errorf(errors.NotCallable, n.Span(), "unsupported binary operator %q", n.Op)
		return rvalue(types.DataType{})
	}
}

func (c *Compiler) widerOf(a, b types.Primitive) types.Primitive {
	if a == b {
		return a
	}
	if a.IsFloating() || b.IsFloating() {
		if a == types.PrimDouble || b == types.PrimDouble {
			return types.PrimDouble
		}
		return types.PrimFloat
	}
	if a.Width() >= b.Width() {
		return a
	}
	return b
}

// emitConv emits the opcode (if any) that converts the value on top of the
// stack from one primitive to another; same-width integer widening needs no
// opcode since the VM's integer slot is already the widest width.
func (c *Compiler) emitConv(from, to types.Primitive) {
	switch {
	case from.IsInteger() && to == types.PrimFloat:
		c.buf.Emit(bytecode.ConvIntToFloat)
	case from.IsInteger() && to == types.PrimDouble:
		c.buf.Emit(bytecode.ConvIntToDouble)
	case from == types.PrimFloat && to == types.PrimDouble:
		c.buf.Emit(bytecode.ConvFloatToDouble)
	case from == types.PrimDouble && to == types.PrimFloat:
		c.buf.Emit(bytecode.ConvDoubleToFloat)
	}
}

func (c *Compiler) emitOperatorBinary(n *ast.BinaryExpr, left, right exprContext) exprContext {
	behavior, ok := binOpBehavior(n.Op)
	if !ok {
		c.errorf(errors.NotCallable, n.Span(), "operator %q has no class dispatch", n.Op)
		return rvalue(types.DataType{})
	}

	if def, ok := c.isClass(left.typ); ok {
		if id, ok := c.dispatchOperator(def, behavior, []exprContext{right}, n.Span()); ok {
			return c.emitMethodCall(id, n.Span())
		}
	}
	if rbehavior, ok := commutativeVariant(behavior); ok {
		if def, ok := c.isClass(right.typ); ok {
			if id, ok := c.dispatchOperator(def, rbehavior, []exprContext{left}, n.Span()); ok {
				return c.emitMethodCall(id, n.Span())
			}
		}
	}

	c.error(errors.NewNoMatchingOverload(n.Span(), string(behavior)))
	return rvalue(types.DataType{})
}

func binOpBehavior(op ast.BinaryOp) (types.OperatorBehavior, bool) {
	switch op {
	case ast.OpAdd:
		return types.OpAdd, true
	case ast.OpSub:
		return types.OpSub, true
	case ast.OpMul:
		return types.OpMul, true
	case ast.OpDiv:
		return types.OpDiv, true
	case ast.OpEq, ast.OpNe:
		return types.OpEquals, true
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return types.OpCmp, true
	default:
		return "", false
	}
}

// commutativeVariant returns the `_r` counterpart of a left-dispatch
// operator behavior, tried when the left operand's type has no matching
// method but the right operand's does (`3 + vector` falling back to
// `vector.opAdd_r(3)`).
func commutativeVariant(b types.OperatorBehavior) (types.OperatorBehavior, bool) {
	switch b {
	case types.OpAdd:
		return types.OpAddR, true
	case types.OpSub:
		return types.OpSubR, true
	case types.OpMul:
		return types.OpMulR, true
	case types.OpDiv:
		return types.OpDivR, true
	default:
		return "", false
	}
}

// dispatchOperator resolves an operator method on def's declared behavior
// set; args have already been checked (and their values pushed) by the
// caller so only the candidate id is chosen here.
func (c *Compiler) dispatchOperator(def *types.ClassDef, behavior types.OperatorBehavior, args []exprContext, span ast.Span) (ident.FunctionId, bool) {
	candidates := def.OperatorMethods[behavior]
	if len(candidates) == 0 {
		return 0, false
	}
	_, id, ok := c.resolveOverload(candidates, args, string(behavior), span)
	return id, ok
}

func (c *Compiler) emitMethodCall(id ident.FunctionId, span ast.Span) exprContext {
	def, ok := c.ctx.Registry.GetFunction(id)
	if !ok {
		c.error(errors.NewNoMatchingOverload(span, "?"))
		return rvalue(types.DataType{})
	}
	if def.Traits.Virtual {
		c.buf.CallVirtual(uint32(id))
	} else {
		c.buf.Call(uint32(id))
	}
	return rvalue(def.ReturnType)
}

func (c *Compiler) checkShortCircuit(n *ast.BinaryExpr) exprContext {
	left := c.checkExpr(n.Left)
	c.requireBool(left, n.Left.Span())

	end := c.buf.NewLabel()
	c.buf.Dup()
	if n.Op == ast.OpAnd {
		c.buf.JumpIfFalse(end)
	} else {
		c.buf.Emit(bytecode.Not)
		c.buf.JumpIfFalse(end)
	}
	c.buf.Pop()
	right := c.checkExpr(n.Right)
	c.requireBool(right, n.Right.Span())
	c.buf.Bind(end)
	return rvalue(c.primitiveType(types.PrimBool))
}

func (c *Compiler) requireBool(ec exprContext, span ast.Span) {
	p, ok := c.primitiveOf(ec.typ)
	if !ok || p != types.PrimBool {
		c.error(errors.NewTypeMismatch(span, "bool", ec.typ.String()))
	}
}

func fieldIndex(def *types.ClassDef, name string) (int, bool) {
	for i, f := range def.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (c *Compiler) checkUnary(n *ast.UnaryExpr) exprContext {
	if n.Op == ast.OpPreInc || n.Op == ast.OpPreDec {
		return c.checkIncDec(n.Operand, n.Op == ast.OpPreInc, n.Span())
	}

	operand := c.checkExpr(n.Operand)
	if p, ok := c.primitiveOf(operand.typ); ok {
		switch n.Op {
		case ast.OpNeg:
			c.buf.Emit(negOpcode(p))
			return rvalue(operand.typ)
		case ast.OpNot:
			c.buf.Emit(bytecode.Not)
			return rvalue(operand.typ)
		case ast.OpBitNot:
			c.buf.Emit(bytecode.BitNot)
			return rvalue(operand.typ)
		}
	}
	if n.Op == ast.OpNeg {
		if def, ok := c.isClass(operand.typ); ok {
			if id, ok := c.dispatchOperator(def, types.OpNeg, nil, n.Span()); ok {
				return c.emitMethodCall(id, n.Span())
			}
		}
	}
	c.error(errors.NewNoMatchingOverload(n.Span(), string(n.Op)))
	return rvalue(types.DataType{})
}

func (c *Compiler) checkCast(n *ast.CastExpr) exprContext {
	target, ok := c.resolveTypeExpr(c.node, n.TargetType)
	if !ok {
		return rvalue(types.DataType{})
	}
	operand := c.checkExpr(n.Operand)

	if sp, sok := c.primitiveOf(operand.typ); sok {
		if tp, tok := c.primitiveOf(target); tok {
			c.emitExplicitConv(sp, tp)
			return rvalue(target)
		}
	}
	if c.isBaseOf(target, operand.typ) || c.isBaseOf(operand.typ, target) {
		return rvalue(target)
	}
	c.error(errors.NewTypeMismatch(n.Span(), target.String(), operand.typ.String()))
	return rvalue(target)
}

func (c *Compiler) emitExplicitConv(from, to types.Primitive) {
	switch {
	case from == to:
	case from.IsInteger() && to == types.PrimFloat:
		c.buf.Emit(bytecode.ConvIntToFloat)
	case from.IsInteger() && to == types.PrimDouble:
		c.buf.Emit(bytecode.ConvIntToDouble)
	case from == types.PrimFloat && to.IsInteger():
		c.buf.Emit(bytecode.ConvFloatToInt)
	case from == types.PrimDouble && to.IsInteger():
		c.buf.Emit(bytecode.ConvDoubleToInt)
	case from == types.PrimFloat && to == types.PrimDouble:
		c.buf.Emit(bytecode.ConvFloatToDouble)
	case from == types.PrimDouble && to == types.PrimFloat:
		c.buf.Emit(bytecode.ConvDoubleToFloat)
	}
}

func (c *Compiler) checkTernary(n *ast.TernaryExpr) exprContext {
	cond := c.checkExpr(n.Cond)
	c.requireBool(cond, n.Cond.Span())

	elseLabel := c.buf.NewLabel()
	end := c.buf.NewLabel()
	c.buf.JumpIfFalse(elseLabel)
	then := c.checkExpr(n.Then)
	c.buf.Jump(end)
	c.buf.Bind(elseLabel)
	els := c.checkExpr(n.Else)
	c.buf.Bind(end)

	if !then.typ.Equals(els.typ) {
		c.error(errors.NewTypeMismatch(n.Span(), then.typ.String(), els.typ.String()))
	}
	return rvalue(then.typ)
}

func (c *Compiler) checkInitList(n *ast.InitListExpr, target *types.DataType) exprContext {
	if target == nil {
		c.errorf(errors.NotCallable, n.Span(), "initializer list has no inferrable target type")
		return rvalue(types.DataType{})
	}
	def, ok := c.isClass(*target)
	if !ok || def.Behaviors.ListConstruct == 0 {
		c.error(errors.NewNoMatchingOverload(n.Span(), "list initializer"))
		return rvalue(*target)
	}
	for _, el := range n.Elements {
		c.checkExpr(el)
	}
	c.buf.CallConstructor(uint32(target.TypeId), uint32(def.Behaviors.ListConstruct))
	return rvalue(*target)
}

func (c *Compiler) checkMember(n *ast.MemberExpr) exprContext {
	obj := c.checkExpr(n.Object)
	def, ok := c.isClass(obj.typ)
	if !ok {
		c.error(errors.NewUndefinedField(n.Span(), obj.typ.String(), n.Name))
		return rvalue(types.DataType{})
	}
	if idx, ok := fieldIndex(def, n.Name); ok {
		c.buf.LoadField(idx)
		field := def.Fields[idx]
		mutable := !obj.typ.IsConst && !obj.typ.HandleIsConst
		return lvalue(field.Type, mutable)
	}
	if prop, ok := def.Properties[n.Name]; ok && prop.Getter != 0 {
		return c.emitMethodCall(prop.Getter, n.Span())
	}
	for _, id := range def.Methods {
		fn, ok := c.ctx.Registry.GetFunction(id)
		if ok && fn.Name == n.Name {
			c.buf.FuncPtr(uint32(id))
			return rvalue(types.DataType{IsHandle: true})
		}
	}
	c.error(errors.NewUndefinedField(n.Span(), def.Name, n.Name))
	return rvalue(types.DataType{})
}

func (c *Compiler) checkIndex(n *ast.IndexExpr) exprContext {
	obj := c.checkExpr(n.Object)
	def, ok := c.isClass(obj.typ)
	if !ok {
		c.error(errors.NewNotIndexable(n.Span()))
		return rvalue(types.DataType{})
	}
	index := c.checkExpr(n.Index)
	id, ok := c.dispatchOperator(def, types.OpIndex, []exprContext{index}, n.Span())
	if !ok {
		return rvalue(types.DataType{})
	}
	fn, _ := c.ctx.Registry.GetFunction(id)
	c.buf.Call(uint32(id))
	return lvalue(fn.ReturnType, !fn.Traits.Const)
}

// coerceTo emits whatever conversion is needed to bring a value already
// checked as ec onto the stack into to's type, applying exactly the
// implicit conversions ConversionCostBetween/NumericConversionCost allow;
// anything CostRejected is a TypeMismatch, since an explicit cast is
// required.
func (c *Compiler) coerceTo(ec exprContext, to types.DataType, span ast.Span) {
	if ec.typ.Equals(to) {
		return
	}
	if sp, sok := c.primitiveOf(ec.typ); sok {
		if tp, tok := c.primitiveOf(to); tok {
			if types.NumericConversionCost(sp, tp) == types.CostRejected {
				c.error(errors.NewTypeMismatch(span, to.String(), ec.typ.String()))
				return
			}
			c.emitConv(sp, tp)
			return
		}
	}
	if types.ConversionCostBetween(ec.typ, to, c.isBaseOf) == types.CostRejected {
		c.error(errors.NewTypeMismatch(span, to.String(), ec.typ.String()))
	}
}

func arithOpcode(op ast.BinaryOp, p types.Primitive) (bytecode.OpCode, bool) {
	switch {
	case p.IsInteger():
		switch op {
		case ast.OpAdd:
			return bytecode.AddInt, true
		case ast.OpSub:
			return bytecode.SubInt, true
		case ast.OpMul:
			return bytecode.MulInt, true
		case ast.OpDiv:
			return bytecode.DivInt, true
		case ast.OpMod:
			return bytecode.ModInt, true
		}
	case p == types.PrimFloat:
		switch op {
		case ast.OpAdd:
			return bytecode.AddFloat, true
		case ast.OpSub:
			return bytecode.SubFloat, true
		case ast.OpMul:
			return bytecode.MulFloat, true
		case ast.OpDiv:
			return bytecode.DivFloat, true
		}
	case p == types.PrimDouble:
		switch op {
		case ast.OpAdd:
			return bytecode.AddDouble, true
		case ast.OpSub:
			return bytecode.SubDouble, true
		case ast.OpMul:
			return bytecode.MulDouble, true
		case ast.OpDiv:
			return bytecode.DivDouble, true
		}
	}
	return 0, false
}

func cmpOpcode(op ast.BinaryOp, p types.Primitive) (bytecode.OpCode, bool) {
	switch {
	case p.IsInteger():
		return intCmp(op)
	case p == types.PrimFloat:
		return floatCmp(op)
	case p == types.PrimDouble:
		return doubleCmp(op)
	}
	return 0, false
}

func intCmp(op ast.BinaryOp) (bytecode.OpCode, bool) {
	switch op {
	case ast.OpEq:
		return bytecode.CmpEqInt, true
	case ast.OpNe:
		return bytecode.CmpNeInt, true
	case ast.OpLt:
		return bytecode.CmpLtInt, true
	case ast.OpLe:
		return bytecode.CmpLeInt, true
	case ast.OpGt:
		return bytecode.CmpGtInt, true
	case ast.OpGe:
		return bytecode.CmpGeInt, true
	default:
		return 0, false
	}
}

func floatCmp(op ast.BinaryOp) (bytecode.OpCode, bool) {
	switch op {
	case ast.OpEq:
		return bytecode.CmpEqFloat, true
	case ast.OpNe:
		return bytecode.CmpNeFloat, true
	case ast.OpLt:
		return bytecode.CmpLtFloat, true
	case ast.OpLe:
		return bytecode.CmpLeFloat, true
	case ast.OpGt:
		return bytecode.CmpGtFloat, true
	case ast.OpGe:
		return bytecode.CmpGeFloat, true
	default:
		return 0, false
	}
}

func doubleCmp(op ast.BinaryOp) (bytecode.OpCode, bool) {
	switch op {
	case ast.OpEq:
		return bytecode.CmpEqDouble, true
	case ast.OpNe:
		return bytecode.CmpNeDouble, true
	case ast.OpLt:
		return bytecode.CmpLtDouble, true
	case ast.OpLe:
		return bytecode.CmpLeDouble, true
	case ast.OpGt:
		return bytecode.CmpGtDouble, true
	case ast.OpGe:
		return bytecode.CmpGeDouble, true
	default:
		return 0, false
	}
}

func bitOpcode(op ast.BinaryOp) bytecode.OpCode {
	switch op {
	case ast.OpBitAnd:
		return bytecode.BitAnd
	case ast.OpBitOr:
		return bytecode.BitOr
	case ast.OpBitXor:
		return bytecode.BitXor
	case ast.OpShl:
		return bytecode.Shl
	case ast.OpShr:
		return bytecode.Shr
	default:
		return bytecode.BitAnd
	}
}

func negOpcode(p types.Primitive) bytecode.OpCode {
	switch {
	case p == types.PrimFloat:
		return bytecode.NegFloat
	case p == types.PrimDouble:
		return bytecode.NegDouble
	default:
		return bytecode.NegInt
	}
}
