// Package ffi implements a minimal, in-memory registry.FFIProvider: the
// read-only collaborator a host embedding the compiler uses to expose its
// natively-implemented types and functions to the semantic passes. Native
// declarations carry only signatures, never bodies: this package describes
// what a host function looks like, not what it does.
package ffi

import (
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// Provider is a builder/lookup table for natively-registered declarations.
// Construct one with New, populate it with AddType/AddFunction/AddBehaviors,
// then pass it to registry.NewContext.
type Provider struct {
	root *namespace.Node

	typeIds *ident.TypeIdCounter
	funcIds *ident.FunctionIdCounter

	typesByName map[string]ident.TypeId
	typeDefs    map[ident.TypeId]*types.TypeDef

	funcsByName map[string][]ident.FunctionId
	funcDefs    map[ident.FunctionId]*types.FunctionDef

	behaviors map[ident.TypeId]types.TypeBehaviors
}

// New creates an empty FFI provider.
func New() *Provider {
	return &Provider{
		root:        namespace.NewRoot(namespace.FFIRoot),
		typeIds:     ident.NewNativeTypeIdCounter(),
		funcIds:     ident.NewNativeFunctionIdCounter(),
		typesByName: make(map[string]ident.TypeId),
		typeDefs:    make(map[ident.TypeId]*types.TypeDef),
		funcsByName: make(map[string][]ident.FunctionId),
		funcDefs:    make(map[ident.FunctionId]*types.FunctionDef),
		behaviors:   make(map[ident.TypeId]types.TypeBehaviors),
	}
}

// AddType registers a natively-backed type under name at the provider's
// root and returns its freshly-issued native TypeId.
func (p *Provider) AddType(name string, def *types.TypeDef) ident.TypeId {
	id := p.typeIds.Next()
	p.root.Types[name] = id
	p.typesByName[name] = id
	p.typeDefs[id] = def
	return id
}

// AddFunction registers a natively-backed function overload under name.
func (p *Provider) AddFunction(name string, def *types.FunctionDef) ident.FunctionId {
	id := p.funcIds.Next()
	def.Id = id
	def.IsNative = true
	def.SignatureFilled = true
	p.root.Functions[name] = append(p.root.Functions[name], id)
	p.funcsByName[name] = append(p.funcsByName[name], id)
	p.funcDefs[id] = def
	return id
}

// AddBehaviors attaches a constructor/operator table to a natively-backed
// type.
func (p *Provider) AddBehaviors(id ident.TypeId, b types.TypeBehaviors) {
	p.behaviors[id] = b
}

// Namespace returns the provider's declarations as a namespace subtree, to
// be mounted at $ffi by registry.NewContext.
func (p *Provider) Namespace() *namespace.Node { return p.root }

// LookupType resolves a qualified name against the flat name table; the
// provider does not model nested native namespaces.
func (p *Provider) LookupType(qualifiedName string) (ident.TypeId, bool) {
	id, ok := p.typesByName[qualifiedName]
	return id, ok
}

// GetType resolves a native TypeId to its descriptor.
func (p *Provider) GetType(id ident.TypeId) (*types.TypeDef, bool) {
	d, ok := p.typeDefs[id]
	return d, ok
}

// LookupFunctions resolves a qualified name to its native overload set.
func (p *Provider) LookupFunctions(qualifiedName string) []ident.FunctionId {
	return p.funcsByName[qualifiedName]
}

// GetFunction resolves a native FunctionId to its descriptor.
func (p *Provider) GetFunction(id ident.FunctionId) (*types.FunctionDef, bool) {
	d, ok := p.funcDefs[id]
	return d, ok
}

// GetBehaviors resolves a native TypeId's constructor/operator table.
func (p *Provider) GetBehaviors(id ident.TypeId) (types.TypeBehaviors, bool) {
	b, ok := p.behaviors[id]
	return b, ok
}

// FunctionCount returns the number of native functions registered.
func (p *Provider) FunctionCount() uint32 { return p.funcIds.Count() }
