package types

import "github.com/ascompiler/core/internal/ident"

// Param is one formal parameter of a FunctionDef.
type Param struct {
	Name       string
	Type       DataType
	HasDefault bool
	// Default holds the AST default-value expression, opaque to this
	// package (see internal/ast); stored as interface{} so internal/types
	// has no dependency on internal/ast.
	Default interface{}
}

// FunctionTraits are the lifecycle/linkage flags of a FunctionDef.
type FunctionTraits struct {
	Virtual       bool
	Const         bool
	Final         bool
	Override      bool
	Abstract      bool
	Explicit      bool
	Constructor   bool
	Destructor    bool
	AutoGenerated bool
}

// FunctionDef is the function descriptor the registry stores per FunctionId.
type FunctionDef struct {
	Id              ident.FunctionId
	Name            string
	NamespacePath   string
	Params          []Param
	ReturnType      DataType
	ObjectType      ident.TypeId // zero if not a method
	Traits          FunctionTraits
	Visibility      Visibility
	IsNative        bool
	SignatureFilled bool
}

// Arity returns the parameter count.
func (f *FunctionDef) Arity() int { return len(f.Params) }

// TypeBehaviors groups the lifecycle-related operator roles of a type:
// its constructors, factories, and list-initialization hooks.
type TypeBehaviors struct {
	Constructors  []ident.FunctionId
	Factories     []ident.FunctionId // reference types only
	ListFactory   ident.FunctionId   // zero if absent
	ListConstruct ident.FunctionId   // zero if absent
}

// GlobalVar is a namespace-scoped global variable descriptor.
type GlobalVar struct {
	Name          string
	NamespacePath string
	Type          DataType
}

// MixinMember is one AST class-member fragment carried by a Mixin. Stored as
// interface{} so this package has no dependency on internal/ast.
type MixinMember struct {
	Member interface{}
}

// Mixin is a bag of class members with a name, a required-interface list,
// and a namespace path. A mixin is not itself a type and never receives a
// TypeId.
type Mixin struct {
	Name               string
	NamespacePath      string
	RequiredInterfaces []ident.TypeId
	Members            []MixinMember
}
