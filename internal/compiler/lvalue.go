package compiler

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/bytecode"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/types"
)

// lvalueKind distinguishes the four storage locations an assignment,
// compound assignment, or ++/-- can target.
type lvalueKind int

const (
	lvLocal lvalueKind = iota
	lvGlobal
	lvField
	lvIndex
)

// lvalueRef is what resolveLValue produces: enough to store a new value
// later without re-evaluating the object/index sub-expressions (which may
// have side effects) a second time. For lvField and lvIndex, the object
// (and, for lvIndex, the index) is spilled into a hidden local slot, since
// the instruction set has no opcode to reorder the stack once the current
// value has been loaded on top of it.
type lvalueRef struct {
	kind lvalueKind

	slot       int    // lvLocal
	globalName string // lvGlobal

	objSlot   int // lvField, lvIndex
	fieldIdx  int // lvField
	indexSlot int // lvIndex

	class    *types.ClassDef // lvIndex: owner of opIndex
	indexCtx exprContext     // lvIndex: the checked index, for resolving the setter overload

	typ     types.DataType
	mutable bool
}

// resolveLValue checks e as an assignment/inc-dec target. On success it
// leaves e's current value on top of the stack (exactly what checkExpr
// would leave) and returns a ref that storeLValue can later use to write a
// new value back without re-running any side-effecting sub-expression.
func (c *Compiler) resolveLValue(e ast.Expression) (lvalueRef, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		if lv, ok := c.scopes.lookup(n.Name); ok {
			c.buf.LoadLocal(lv.slot)
			return lvalueRef{kind: lvLocal, slot: lv.slot, typ: lv.typ, mutable: lv.mutable}, true
		}
		name := c.normalizeQualified(n.Name)
		if g, ok := c.ctx.Registry.Global(c.node, name); ok {
			c.buf.LoadGlobal(uint32(c.buf.Pool.InternString(name)))
			return lvalueRef{kind: lvGlobal, globalName: name, typ: g.Type, mutable: true}, true
		}
		c.error(errors.NewUndefinedName(n.Span(), n.Name))
		return lvalueRef{}, false

	case *ast.MemberExpr:
		obj := c.checkExpr(n.Object)
		def, ok := c.isClass(obj.typ)
		if !ok {
			c.error(errors.NewUndefinedField(n.Span(), obj.typ.String(), n.Name))
			return lvalueRef{}, false
		}
		idx, ok := fieldIndex(def, n.Name)
		if !ok {
			c.error(errors.NewUndefinedField(n.Span(), def.Name, n.Name))
			return lvalueRef{}, false
		}
		objSlot, _ := c.scopes.declare(c.tempName(), obj.typ, true)
		c.buf.StoreLocal(objSlot) // stash the object, consuming the value checkExpr(n.Object) pushed above
		c.buf.LoadLocal(objSlot)
		c.buf.LoadField(idx)
		field := def.Fields[idx]
		mutable := !obj.typ.IsConst && !obj.typ.HandleIsConst
		return lvalueRef{kind: lvField, objSlot: objSlot, fieldIdx: idx, typ: field.Type, mutable: mutable}, true

	case *ast.IndexExpr:
		obj := c.checkExpr(n.Object)
		def, ok := c.isClass(obj.typ)
		if !ok {
			c.error(errors.NewNotIndexable(n.Span()))
			return lvalueRef{}, false
		}
		objSlot, _ := c.scopes.declare(c.tempName(), obj.typ, true)
		c.buf.StoreLocal(objSlot)

		index := c.checkExpr(n.Index)
		indexSlot, _ := c.scopes.declare(c.tempName(), index.typ, true)
		c.buf.StoreLocal(indexSlot)

		getId, ok := c.dispatchOperator(def, types.OpIndex, []exprContext{index}, n.Span())
		if !ok {
			return lvalueRef{}, false
		}
		getDef, _ := c.ctx.Registry.GetFunction(getId)
		c.buf.LoadLocal(objSlot)
		c.buf.LoadLocal(indexSlot)
		c.buf.Call(uint32(getId))
		return lvalueRef{
			kind:      lvIndex,
			objSlot:   objSlot,
			indexSlot: indexSlot,
			class:     def,
			indexCtx:  index,
			typ:       getDef.ReturnType,
			mutable:   true,
		}, true

	default:
		c.error(errors.NewNotAnLvalue(e.Span()))
		return lvalueRef{}, false
	}
}

// storeLValue stores the value currently on top of the stack into ref,
// leaving that same value on top of the stack afterward (the result of the
// assignment/inc-dec expression as a whole).
func (c *Compiler) storeLValue(ref lvalueRef, span ast.Span) {
	switch ref.kind {
	case lvLocal:
		c.buf.Dup()
		c.buf.StoreLocal(ref.slot)
	case lvGlobal:
		c.buf.Dup()
		c.buf.StoreGlobal(uint32(c.buf.Pool.InternString(ref.globalName)))
	case lvField:
		valSlot, _ := c.scopes.declare(c.tempName(), ref.typ, true)
		c.buf.StoreLocal(valSlot)
		c.buf.LoadLocal(ref.objSlot)
		c.buf.LoadLocal(valSlot)
		c.buf.StoreField(ref.fieldIdx)
		c.buf.LoadLocal(valSlot)
	case lvIndex:
		valSlot, _ := c.scopes.declare(c.tempName(), ref.typ, true)
		c.buf.StoreLocal(valSlot)
		setId, ok := c.dispatchOperator(ref.class, types.OpIndex, []exprContext{ref.indexCtx, rvalue(ref.typ)}, span)
		if ok {
			c.buf.LoadLocal(ref.objSlot)
			c.buf.LoadLocal(ref.indexSlot)
			c.buf.LoadLocal(valSlot)
			c.buf.Call(uint32(setId))
		}
		c.buf.LoadLocal(valSlot)
	}
}

func (c *Compiler) checkAssign(n *ast.BinaryExpr) exprContext {
	ref, ok := c.resolveLValue(n.Left)
	if !ok {
		c.checkExpr(n.Right)
		return rvalue(types.DataType{})
	}
	c.buf.Pop() // discard the current value resolveLValue left on the stack
	if !ref.mutable {
		c.error(errors.NewNotMutable(n.Left.Span(), "assignment target"))
	}

	value := c.checkExprTarget(n.Right, &ref.typ)
	c.coerceTo(value, ref.typ, n.Right.Span())
	c.storeLValue(ref, n.Span())
	return rvalue(ref.typ)
}

// checkIncDec compiles prefix `++x`/`--x`: resolveLValue already leaves the
// current value on the stack, so this just adds/subtracts 1 and stores,
// leaving the new (post-increment) value as the expression's result.
func (c *Compiler) checkIncDec(operand ast.Expression, inc bool, span ast.Span) exprContext {
	ref, ok := c.resolveLValue(operand)
	if !ok {
		return rvalue(types.DataType{})
	}
	if !ref.mutable {
		c.error(errors.NewNotMutable(span, "operand"))
	}
	c.buf.PushInt(1)
	if inc {
		c.buf.Emit(arithOpcodeOrInt(ast.OpAdd, ref.typ, c))
	} else {
		c.buf.Emit(arithOpcodeOrInt(ast.OpSub, ref.typ, c))
	}
	c.storeLValue(ref, span)
	return rvalue(ref.typ)
}

func (c *Compiler) checkPostfix(n *ast.PostfixExpr) exprContext {
	ref, ok := c.resolveLValue(n.Operand)
	if !ok {
		return rvalue(types.DataType{})
	}
	if !ref.mutable {
		c.error(errors.NewNotMutable(n.Span(), "operand"))
	}
	// stack: [current]; stash it as the postfix expression's result.
	oldSlot, _ := c.scopes.declare(c.tempName(), ref.typ, true)
	c.buf.StoreLocal(oldSlot)
	c.buf.LoadLocal(oldSlot)

	c.buf.PushInt(1)
	if n.Op == ast.OpPostInc {
		c.buf.Emit(arithOpcodeOrInt(ast.OpAdd, ref.typ, c))
	} else {
		c.buf.Emit(arithOpcodeOrInt(ast.OpSub, ref.typ, c))
	}
	c.storeLValue(ref, n.Span())
	c.buf.Pop() // discard the new value; postfix yields the old one
	c.buf.LoadLocal(oldSlot)
	return rvalue(ref.typ)
}

// arithOpcodeOrInt resolves the add/sub opcode for ref's primitive kind.
// When typ is not a primitive with an arithmetic opcode, the integer form
// is returned; the lvalue-based inc/dec paths do no operator-method
// dispatch.
func arithOpcodeOrInt(op ast.BinaryOp, typ types.DataType, c *Compiler) bytecode.OpCode {
	if p, ok := c.primitiveOf(typ); ok {
		if code, ok := arithOpcode(op, p); ok {
			return code
		}
	}
	if op == ast.OpAdd {
		return bytecode.AddInt
	}
	return bytecode.SubInt
}
