package types

import "github.com/ascompiler/core/internal/ident"

// Kind discriminates the TypeDef variants.
type Kind int

const (
	KindPrimitive Kind = iota
	KindClass
	KindInterface
	KindEnum
	KindFuncdef
	KindTemplateParam
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindFuncdef:
		return "funcdef"
	case KindTemplateParam:
		return "template-param"
	default:
		return "unknown"
	}
}

// Primitive enumerates the built-in scalar kinds. Signed/unsigned integer
// widths are modeled as distinct primitives rather than a width+sign pair so
// that identity comparisons in overload resolution stay a simple enum
// compare.
type Primitive int

const (
	PrimBool Primitive = iota
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat
	PrimDouble
	PrimVoid
	PrimString
)

func (p Primitive) String() string {
	names := [...]string{"bool", "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64", "float", "double", "void", "string"}
	if int(p) < len(names) {
		return names[p]
	}
	return "?"
}

// IsInteger reports whether p is one of the signed/unsigned integer widths.
func (p Primitive) IsInteger() bool {
	return p >= PrimInt8 && p <= PrimUint64
}

// IsSigned reports whether p is a signed integer width.
func (p Primitive) IsSigned() bool { return p >= PrimInt8 && p <= PrimInt64 }

// IsFloating reports whether p is float or double.
func (p Primitive) IsFloating() bool { return p == PrimFloat || p == PrimDouble }

// Width returns a relative bit width used to decide widening vs narrowing
// conversions; -1 for non-numeric primitives.
func (p Primitive) Width() int {
	switch p {
	case PrimInt8, PrimUint8:
		return 8
	case PrimInt16, PrimUint16:
		return 16
	case PrimInt32, PrimUint32:
		return 32
	case PrimInt64, PrimUint64:
		return 64
	case PrimFloat:
		return 32
	case PrimDouble:
		return 64
	default:
		return -1
	}
}

// Visibility is a member's access level.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// ClassKind distinguishes value classes (structs, copied by value) from
// reference classes (handle types, reference-counted).
type ClassKind int

const (
	ValueClass ClassKind = iota
	ReferenceClass
)

// OperatorBehavior names an operator method slot on a class, e.g. opAdd,
// opIndex, opCall, opForBegin. Kept as a string rather than a closed enum
// because the FFI registry may register host-specific operator names.
type OperatorBehavior string

const (
	OpAdd      OperatorBehavior = "opAdd"
	OpAddR     OperatorBehavior = "opAdd_r"
	OpSub      OperatorBehavior = "opSub"
	OpSubR     OperatorBehavior = "opSub_r"
	OpMul      OperatorBehavior = "opMul"
	OpMulR     OperatorBehavior = "opMul_r"
	OpDiv      OperatorBehavior = "opDiv"
	OpDivR     OperatorBehavior = "opDiv_r"
	OpEquals   OperatorBehavior = "opEquals"
	OpCmp      OperatorBehavior = "opCmp"
	OpIndex    OperatorBehavior = "opIndex"
	OpCall     OperatorBehavior = "opCall"
	OpNeg      OperatorBehavior = "opNeg"
	OpForBegin OperatorBehavior = "opForBegin"
	OpForEnd   OperatorBehavior = "opForEnd"
	OpForNext  OperatorBehavior = "opForNext"
	OpForValue OperatorBehavior = "opForValue"
	OpAssign   OperatorBehavior = "opAssign"
)

// PropertyInfo is the secondary {name -> getter?/setter?} map on a class
//. Resolution of obj.prop checks fields
// first, then this map; assignment prefers the setter, reads prefer the
// getter.
type PropertyInfo struct {
	Getter ident.FunctionId // zero if absent
	Setter ident.FunctionId // zero if absent
}

// Field is one data member of a class or template-instantiated class.
type Field struct {
	Name       string
	Type       DataType
	Visibility Visibility
}

// ClassDef is the Class type-descriptor variant.
type ClassDef struct {
	Name             string
	QualifiedName    string
	Fields           []Field
	Methods          []ident.FunctionId
	BaseClass        ident.TypeId // zero if none
	Interfaces       []ident.TypeId
	OperatorMethods  map[OperatorBehavior][]ident.FunctionId
	Properties       map[string]PropertyInfo
	IsFinal          bool
	IsAbstract       bool
	Kind             ClassKind
	TemplateParams   []ident.TypeId // TemplateParam type ids, empty for non-templates
	TemplateOrigin   ident.TypeId   // zero unless this is a template instantiation
	TypeArgs         []DataType     // substituted arguments, set when TemplateOrigin != 0
	Behaviors        TypeBehaviors
	Invalid          bool // Pass 2a marks a class invalid without removing it.
}

// MethodSig is a named method signature as used by interface descriptors,
// which never own FunctionIds directly (an interface body reads "Interface { ... methods
// [method-signature] }").
type MethodSig struct {
	Name       string
	Params     []DataType
	ReturnType DataType
}

// InterfaceDef is the Interface type-descriptor variant.
type InterfaceDef struct {
	Name          string
	QualifiedName string
	Methods       []MethodSig
}

// EnumValue is one (name, underlying i64) pair of an enum.
type EnumValue struct {
	Name  string
	Value int64
}

// EnumDef is the Enum type-descriptor variant.
type EnumDef struct {
	Name          string
	QualifiedName string
	Values        []EnumValue
}

// FuncdefDef is the Funcdef (first-class function type) variant.
type FuncdefDef struct {
	Name          string
	QualifiedName string
	Params        []DataType
	ReturnType    DataType
}

// TemplateParamDef is a template type parameter slot owned by a template
// class.
type TemplateParamDef struct {
	Name  string
	Index int
	Owner ident.TypeId
}

// TypeDef is the sum of all type-descriptor variants. Exactly one of the
// pointer fields is non-nil, selected by Kind; Primitive is a value field
// since it needs no heap descriptor.
type TypeDef struct {
	Kind      Kind
	Primitive Primitive
	Class     *ClassDef
	Interface *InterfaceDef
	Enum      *EnumDef
	Funcdef   *FuncdefDef
	Template  *TemplateParamDef
}

// Name returns the simple declared name of the underlying descriptor.
func (t *TypeDef) Name() string {
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.String()
	case KindClass:
		return t.Class.Name
	case KindInterface:
		return t.Interface.Name
	case KindEnum:
		return t.Enum.Name
	case KindFuncdef:
		return t.Funcdef.Name
	case KindTemplateParam:
		return t.Template.Name
	default:
		return "?"
	}
}

// QualifiedName returns the fully namespace-qualified name, where applicable.
func (t *TypeDef) QualifiedName() string {
	switch t.Kind {
	case KindClass:
		return t.Class.QualifiedName
	case KindInterface:
		return t.Interface.QualifiedName
	case KindEnum:
		return t.Enum.QualifiedName
	case KindFuncdef:
		return t.Funcdef.QualifiedName
	default:
		return t.Name()
	}
}
