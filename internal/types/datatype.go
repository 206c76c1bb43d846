// Package types implements the data-type descriptor model of the compiler
// core: the value DataType record used everywhere a typed slot is needed
// (locals, fields, parameters, return types) and the TypeDef variants that
// back a TypeId in the registry (primitive, class, interface, enum, funcdef,
// typedef, template parameter).
package types

import (
	"fmt"

	"github.com/ascompiler/core/internal/ident"
)

// RefMode is the parameter passing mode of a reference parameter.
type RefMode int

const (
	// RefNone means the data type is not a reference parameter at all.
	RefNone RefMode = iota
	// RefIn is a read-only reference; accepts rvalues or lvalues.
	RefIn
	// RefOut is a write-only reference; requires a mutable lvalue.
	RefOut
	// RefInOut is a read-write reference; requires a mutable lvalue. The bare
	// `&` parameter modifier in source is treated as RefInOut.
	RefInOut
)

func (m RefMode) String() string {
	switch m {
	case RefIn:
		return "&in"
	case RefOut:
		return "&out"
	case RefInOut:
		return "&inout"
	default:
		return ""
	}
}

// DataType is the pure, hashable value record described below: a type
// id plus the const/handle/ref-modifier qualifiers that apply at a given use
// site. Two DataTypes are equal only if every field is equal.
type DataType struct {
	TypeId        ident.TypeId
	IsConst       bool
	IsHandle      bool
	HandleIsConst bool // "handle-to-const": T@ vs const T@ when IsHandle.
	RefModifier   RefMode
}

// Void is representable only as a return type; DataType does not special
// case it structurally, callers enforce the position constraint (see
// internal/compiler's return-type checks).

// Equals reports whether two DataTypes are identical in every field.
func (d DataType) Equals(o DataType) bool {
	return d.TypeId == o.TypeId &&
		d.IsConst == o.IsConst &&
		d.IsHandle == o.IsHandle &&
		d.HandleIsConst == o.HandleIsConst &&
		d.RefModifier == o.RefModifier
}

// IdentityTriple is the (type_id, ref_modifier, is_handle) triple used to
// distinguish overloads and to match funcdef parameters with zero tolerance
// for implicit conversion.
type IdentityTriple struct {
	TypeId      ident.TypeId
	RefModifier RefMode
	IsHandle    bool
}

// Triple extracts the identity triple used for overload-signature and
// funcdef-compatibility comparisons.
func (d DataType) Triple() IdentityTriple {
	return IdentityTriple{TypeId: d.TypeId, RefModifier: d.RefModifier, IsHandle: d.IsHandle}
}

// String renders a DataType for diagnostics, e.g. "const Foo@" or "&inout int".
func (d DataType) String() string {
	s := ""
	if d.RefModifier != RefNone {
		s += d.RefModifier.String() + " "
	}
	if d.IsConst {
		s += "const "
	}
	s += fmt.Sprintf("#%d", d.TypeId)
	if d.IsHandle {
		if d.HandleIsConst {
			s += "@const"
		} else {
			s += "@"
		}
	}
	return s
}

// Plain returns the bare value DataType for a type id: not const, not a
// handle, no reference modifier. Convenience for primitives and fields
// declared without qualifiers.
func Plain(id ident.TypeId) DataType {
	return DataType{TypeId: id}
}

// Handle returns a (possibly const) handle DataType for a reference type.
func Handle(id ident.TypeId, handleIsConst bool) DataType {
	return DataType{TypeId: id, IsHandle: true, HandleIsConst: handleIsConst}
}
