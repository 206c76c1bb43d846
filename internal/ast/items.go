package ast

func (*FunctionDecl) itemNode()      {}
func (*ClassDecl) itemNode()         {}
func (*InterfaceDecl) itemNode()     {}
func (*EnumDecl) itemNode()          {}
func (*FuncdefDecl) itemNode()       {}
func (*TypedefDecl) itemNode()       {}
func (*MixinDecl) itemNode()         {}
func (*GlobalVarDecl) itemNode()     {}
func (*ImportDecl) itemNode()        {}
func (*UsingNamespaceDecl) itemNode() {}
func (*NamespaceDecl) itemNode()     {}

// ParamDecl is one formal parameter in a function/method/funcdef signature.
type ParamDecl struct {
	Name       string
	Type       *TypeExpr
	Default    Expression // nil if no default value
	IsVariadic bool
}

// FunctionTraits are the declaration-site modifiers on a function/method
//.
type FunctionTraits struct {
	Virtual     bool
	Const       bool
	Override    bool
	Final       bool
	Abstract    bool
	Explicit    bool
	Constructor bool
	Destructor  bool
}

// Visibility is a member's declared access level.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// FunctionDecl is a free function or method declaration.
type FunctionDecl struct {
	base
	Name       string
	Params     []ParamDecl
	ReturnType *TypeExpr // nil means void
	Body       *BlockStmt // nil for an interface method / abstract method
	Traits     FunctionTraits
	Visibility Visibility
}

func NewFunctionDecl(span Span, name string, params []ParamDecl, returnType *TypeExpr, body *BlockStmt) *FunctionDecl {
	return &FunctionDecl{base: base{span}, Name: name, Params: params, ReturnType: returnType, Body: body}
}

// FieldDecl is one data member of a class.
type FieldDecl struct {
	Name       string
	Type       *TypeExpr
	Init       Expression // nil if no field initializer
	Visibility Visibility
}

// PropertyAccessor pairs a property name with its getter/setter method
// names (may be synthesized from a virtual-property block).
type PropertyAccessor struct {
	Name   string
	Getter string // method name, empty if absent
	Setter string // method name, empty if absent
}

// OperatorMethodDecl declares an operator overload (opAdd, opIndex, ...).
type OperatorMethodDecl struct {
	Behavior string
	Method   *FunctionDecl
}

// ClassDecl declares a class. A forward declaration has nil Fields/Methods
// (declaration passes use this distinction to decide whether a registration
// is a forward slot or a full declaration).
type ClassDecl struct {
	base
	Name           string
	BaseClass      *TypeExpr // nil if none
	Interfaces     []*TypeExpr
	Mixins         []string
	Fields         []FieldDecl
	Methods        []*FunctionDecl
	Properties     []PropertyAccessor
	Operators      []OperatorMethodDecl
	IsFinal        bool
	IsAbstract     bool
	IsReference    bool // false = value class, true = reference (handle) class
	TemplateParams []string
}

func NewClassDecl(span Span, name string) *ClassDecl {
	return &ClassDecl{base: base{span}, Name: name}
}

// InterfaceMethodDecl is one method signature inside an interface body.
type InterfaceMethodDecl struct {
	Name       string
	Params     []ParamDecl
	ReturnType *TypeExpr
}

// InterfaceDecl declares an interface.
type InterfaceDecl struct {
	base
	Name    string
	Bases   []*TypeExpr // interfaces this interface extends
	Methods []InterfaceMethodDecl
}

func NewInterfaceDecl(span Span, name string) *InterfaceDecl {
	return &InterfaceDecl{base: base{span}, Name: name}
}

// EnumValueDecl is one `Name [= expr]` entry of an enum body; Value is nil
// when the underlying value is auto-incremented from the previous entry.
type EnumValueDecl struct {
	Name  string
	Value Expression
}

// EnumDecl declares an enum.
type EnumDecl struct {
	base
	Name   string
	Values []EnumValueDecl
}

func NewEnumDecl(span Span, name string) *EnumDecl {
	return &EnumDecl{base: base{span}, Name: name}
}

// FuncdefDecl declares a first-class function-signature type.
type FuncdefDecl struct {
	base
	Name       string
	Params     []ParamDecl
	ReturnType *TypeExpr
}

func NewFuncdefDecl(span Span, name string, params []ParamDecl, returnType *TypeExpr) *FuncdefDecl {
	return &FuncdefDecl{base: base{span}, Name: name, Params: params, ReturnType: returnType}
}

// TypedefDecl declares a typedef alias -> target. No separate TypeId is
// issued for a typedef.
type TypedefDecl struct {
	base
	Alias  string
	Target *TypeExpr
}

func NewTypedefDecl(span Span, alias string, target *TypeExpr) *TypedefDecl {
	return &TypedefDecl{base: base{span}, Alias: alias, Target: target}
}

// MixinMemberDecl wraps any class-member-shaped declaration usable inside a
// mixin body (field, method, property, or operator).
type MixinMemberDecl struct {
	Field    *FieldDecl
	Method   *FunctionDecl
	Property *PropertyAccessor
	Operator *OperatorMethodDecl
}

// MixinDecl declares a mixin: a named, reusable bag of class members with a
// required-interface list. A mixin is not a type and never
// receives a TypeId.
type MixinDecl struct {
	base
	Name                string
	RequiredInterfaces  []*TypeExpr
	Members             []MixinMemberDecl
}

func NewMixinDecl(span Span, name string) *MixinDecl {
	return &MixinDecl{base: base{span}, Name: name}
}

// GlobalVarDecl declares a namespace-scoped global variable.
type GlobalVarDecl struct {
	base
	Name string
	Type *TypeExpr
	Init Expression
}

func NewGlobalVarDecl(span Span, name string, typ *TypeExpr, init Expression) *GlobalVarDecl {
	return &GlobalVarDecl{base: base{span}, Name: name, Type: typ, Init: init}
}

// ImportDecl requests that another unit's namespace subtree become visible
// (resolved by the external unit-loading driver; the core only records the
// directive).
type ImportDecl struct {
	base
	Path string
}

func NewImportDecl(span Span, path string) *ImportDecl {
	return &ImportDecl{base: base{span}, Path: path}
}

// UsingNamespaceDecl is a `using namespace X;` directive: it records a Uses
// edge at the enclosing node.
type UsingNamespaceDecl struct {
	base
	Path string
}

func NewUsingNamespaceDecl(span Span, path string) *UsingNamespaceDecl {
	return &UsingNamespaceDecl{base: base{span}, Path: path}
}

// NamespaceDecl introduces (or reopens) a namespace and holds nested items.
type NamespaceDecl struct {
	base
	Path  string
	Items []Item
}

func NewNamespaceDecl(span Span, path string, items []Item) *NamespaceDecl {
	return &NamespaceDecl{base: base{span}, Path: path, Items: items}
}
