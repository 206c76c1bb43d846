package compiler

import "github.com/ascompiler/core/internal/types"

// exprContext is the result of checking one expression: its static
// DataType plus whether it denotes an addressable storage location
// (isLvalue) and, if so, whether that location may be written (isMutable).
// A const lvalue has isLvalue true and isMutable false — a plain rvalue has
// both false. Rvalues may not be bound to &out/&inout parameters and may
// not appear on the left of an assignment.
type exprContext struct {
	typ       types.DataType
	isLvalue  bool
	isMutable bool
}

func rvalue(typ types.DataType) exprContext {
	return exprContext{typ: typ}
}

func lvalue(typ types.DataType, mutable bool) exprContext {
	return exprContext{typ: typ, isLvalue: true, isMutable: mutable}
}

func (e exprContext) requireLvalue() bool  { return e.isLvalue }
func (e exprContext) requireMutable() bool { return e.isLvalue && e.isMutable }
