// Package registry owns the mutable script-declaration store and composes
// it with a read-only FFI collaborator into a single lookup surface used by
// every later compilation stage.
package registry

import (
	"fmt"

	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// FFIProvider is the read-only service a host embedding the compiler
// supplies for its natively-registered types and functions. Every id it
// hands out carries the native tag (ident.TypeId.IsNative(),
// ident.FunctionId.IsNative()).
type FFIProvider interface {
	LookupType(qualifiedName string) (ident.TypeId, bool)
	GetType(id ident.TypeId) (*types.TypeDef, bool)
	LookupFunctions(qualifiedName string) []ident.FunctionId
	GetFunction(id ident.FunctionId) (*types.FunctionDef, bool)
	GetBehaviors(id ident.TypeId) (types.TypeBehaviors, bool)
	FunctionCount() uint32

	// Namespace exposes the provider's declarations as a namespace subtree,
	// mounted under $ffi so ordinary identifier resolution sees native
	// names the same way it sees script names.
	Namespace() *namespace.Node
}

// Context is the compilation context: the single object every pass
// threads through to register declarations and resolve names. It
// composes the mutable script registry with an immutable FFIProvider.
type Context struct {
	Root    *namespace.Node
	shared  *namespace.Node
	ffiRoot *namespace.Node
	index   *namespace.Index

	ffi FFIProvider

	typeIds *ident.TypeIdCounter
	funcIds *ident.FunctionIdCounter
	unitIds *ident.UnitIdCounter

	scriptTypes     map[ident.TypeId]*types.TypeDef
	scriptFunctions map[ident.FunctionId]*types.FunctionDef
	scriptBehaviors map[ident.TypeId]types.TypeBehaviors
	globalsByUnit   map[*namespace.Node]map[string]*types.GlobalVar

	templateCache map[string]ident.TypeId

	units map[string]*namespace.Node
}

// NewContext creates a fresh compilation context with no units yet
// attached. ffi may be nil, in which case FFI lookups always miss.
func NewContext(ffi FFIProvider) *Context {
	root := namespace.NewRoot("")
	shared := root.Contains(namespace.SharedRoot)

	var ffiRoot *namespace.Node
	if ffi != nil {
		ffiRoot = ffi.Namespace()
	}
	if ffiRoot != nil {
		root.Children[namespace.FFIRoot] = ffiRoot
		ffiRoot.Parent = root
		ffiRoot.Name = namespace.FFIRoot
	} else {
		ffiRoot = root.Contains(namespace.FFIRoot)
	}

	return &Context{
		Root:            root,
		shared:          shared,
		ffiRoot:         ffiRoot,
		index:           namespace.NewIndex(),
		ffi:             ffi,
		typeIds:         ident.NewScriptTypeIdCounter(),
		funcIds:         ident.NewFunctionIdCounter(),
		unitIds:         ident.NewUnitIdCounter(),
		scriptTypes:     make(map[ident.TypeId]*types.TypeDef),
		scriptFunctions: make(map[ident.FunctionId]*types.FunctionDef),
		scriptBehaviors: make(map[ident.TypeId]types.TypeBehaviors),
		globalsByUnit:   make(map[*namespace.Node]map[string]*types.GlobalVar),
		templateCache:   make(map[string]ident.TypeId),
		units:           make(map[string]*namespace.Node),
	}
}

// SharedRoot is the namespace node every unit mirrors by default.
func (c *Context) SharedRoot() *namespace.Node { return c.shared }

// FFIRoot is the namespace node holding the mounted FFI declarations.
func (c *Context) FFIRoot() *namespace.Node { return c.ffiRoot }

// NewUnit allocates a fresh unit id and namespace node, mirroring $ffi and
// $shared so unqualified lookups inside it see both by default.
func (c *Context) NewUnit(path string) (ident.UnitId, *namespace.Node) {
	id := c.unitIds.Next()
	name := namespace.UnitNodeName(id)
	node := c.Root.Contains(name)
	namespace.AttachMirrors(node, c.ffiRoot, c.shared)
	c.units[path] = node
	c.globalsByUnit[node] = make(map[string]*types.GlobalVar)
	return id, node
}

// RemoveUnit detaches a previously-registered unit's namespace subtree and
// purges its reverse-index and descriptor-store entries; ids already
// handed out for it are never reused.
func (c *Context) RemoveUnit(path string) {
	node, ok := c.units[path]
	if !ok {
		return
	}
	for _, n := range subtreeNodes(node) {
		for _, id := range n.Types {
			delete(c.scriptTypes, id)
			delete(c.scriptBehaviors, id)
		}
		for _, ids := range n.Functions {
			for _, id := range ids {
				delete(c.scriptFunctions, id)
			}
		}
	}
	c.index.RemoveUnit(node)
	delete(c.globalsByUnit, node)
	delete(c.units, path)
}

func subtreeNodes(n *namespace.Node) []*namespace.Node {
	nodes := []*namespace.Node{n}
	for _, child := range n.Children {
		nodes = append(nodes, subtreeNodes(child)...)
	}
	return nodes
}

// NextTypeId allocates a fresh script type id.
func (c *Context) NextTypeId() ident.TypeId { return c.typeIds.Next() }

// NextFunctionId allocates a fresh script function id.
func (c *Context) NextFunctionId() ident.FunctionId { return c.funcIds.Next() }

// FunctionCount returns the number of script functions allocated so far,
// used as the boundary below which lambda-lifted ids must stay distinct.
func (c *Context) FunctionCount() uint32 { return c.funcIds.Count() }

// --- read-through lookup, by id: ids self-classify so no search is needed ---

// GetType resolves a type by id, trying the script store first and
// falling back to the FFI provider for native ids.
func (c *Context) GetType(id ident.TypeId) (*types.TypeDef, bool) {
	if id.IsNative() {
		if c.ffi == nil {
			return nil, false
		}
		return c.ffi.GetType(id)
	}
	t, ok := c.scriptTypes[id]
	return t, ok
}

// GetFunction resolves a function by id.
func (c *Context) GetFunction(id ident.FunctionId) (*types.FunctionDef, bool) {
	if id.IsNative() {
		if c.ffi == nil {
			return nil, false
		}
		return c.ffi.GetFunction(id)
	}
	f, ok := c.scriptFunctions[id]
	return f, ok
}

// GetBehaviors resolves a type's constructor/operator table by id.
func (c *Context) GetBehaviors(id ident.TypeId) (types.TypeBehaviors, bool) {
	if id.IsNative() {
		if c.ffi == nil {
			return types.TypeBehaviors{}, false
		}
		return c.ffi.GetBehaviors(id)
	}
	b, ok := c.scriptBehaviors[id]
	return b, ok
}

// --- read-through lookup, by flat qualified name (no namespace context) ---

// LookupType resolves a fully-qualified type name, trying script
// declarations first and falling back to the FFI provider.
func (c *Context) LookupType(qualifiedName string) (ident.TypeId, bool) {
	res := namespace.Resolve(c.Root, qualifiedName)
	if res.Kind == namespace.Found && (res.SymKind == namespace.SymType || res.SymKind == namespace.SymTypeAlias) {
		return res.TypeId, true
	}
	if c.ffi != nil {
		return c.ffi.LookupType(qualifiedName)
	}
	return 0, false
}

// LookupFunctions returns every script overload plus every FFI overload
// sharing qualifiedName.
func (c *Context) LookupFunctions(qualifiedName string) []ident.FunctionId {
	var out []ident.FunctionId
	res := namespace.Resolve(c.Root, qualifiedName)
	if res.Kind == namespace.Found && res.SymKind == namespace.SymFunction {
		out = append(out, res.FuncIds...)
	}
	if c.ffi != nil {
		out = append(out, c.ffi.LookupFunctions(qualifiedName)...)
	}
	return out
}

// --- registration ---

// RegisterType records a newly-allocated script type under node.
func (c *Context) RegisterType(node *namespace.Node, name string, id ident.TypeId, def *types.TypeDef) error {
	if err := c.index.RegisterType(node, name, id); err != nil {
		return err
	}
	c.scriptTypes[id] = def
	return nil
}

// DefineAnonymousType stores a type descriptor under a freshly-allocated id
// with no namespace entry, for instantiations (template specializations,
// lambda closure types) that are never referenced by a declared name.
func (c *Context) DefineAnonymousType(id ident.TypeId, def *types.TypeDef) {
	c.scriptTypes[id] = def
}

// DefineFunction stores a function descriptor under a freshly-allocated id
// with no namespace entry, for members that are never looked up by
// unqualified namespace resolution: class methods, operator overloads, and
// lambda closures are reached through their owning type or call site
// instead.
func (c *Context) DefineFunction(id ident.FunctionId, def *types.FunctionDef) {
	c.scriptFunctions[id] = def
}

// RegisterFunctionStub records a function overload whose signature is not
// yet known: declaration passes call this before parameter types have been
// resolved, so no hash-based duplicate check runs. Call CheckOverloads once
// every signature in node's unit has been filled.
func (c *Context) RegisterFunctionStub(node *namespace.Node, name string, id ident.FunctionId, def *types.FunctionDef) {
	c.index.RegisterFunctionUnchecked(node, name, id)
	c.scriptFunctions[id] = def
}

// CheckOverloads returns every FunctionId in name's overload set at node
// whose signature duplicates an earlier entry (by identity triple), once
// every signature has been filled.
func (c *Context) CheckOverloads(node *namespace.Node, name string) []ident.FunctionId {
	ids := node.Functions[name]
	return namespace.DuplicateSignatures(ids, func(id ident.FunctionId) namespace.SignatureHash {
		def, ok := c.scriptFunctions[id]
		if !ok {
			return ""
		}
		return SignatureHash(def.Params)
	})
}

// RegisterFunction records one overload of a script function under node.
func (c *Context) RegisterFunction(node *namespace.Node, name string, id ident.FunctionId, def *types.FunctionDef) error {
	hash := SignatureHash(def.Params)
	hashOf := func(other ident.FunctionId) namespace.SignatureHash {
		if otherDef, ok := c.scriptFunctions[other]; ok {
			return SignatureHash(otherDef.Params)
		}
		return ""
	}
	if err := c.index.RegisterFunction(node, name, id, hash, hashOf); err != nil {
		return err
	}
	c.scriptFunctions[id] = def
	return nil
}

// RegisterBehaviors attaches a constructor/operator table to a script type.
func (c *Context) RegisterBehaviors(id ident.TypeId, b types.TypeBehaviors) {
	c.scriptBehaviors[id] = b
}

// RegisterGlobal records a namespace-scoped global variable under node.
func (c *Context) RegisterGlobal(node *namespace.Node, g *types.GlobalVar) error {
	if err := node.RegisterGlobal(g.Name); err != nil {
		return err
	}
	bucket, ok := c.globalsByUnit[node]
	if !ok {
		bucket = make(map[string]*types.GlobalVar)
		c.globalsByUnit[node] = bucket
	}
	bucket[g.Name] = g
	return nil
}

// Global looks up a previously-registered global by the node it was
// declared under and its name.
func (c *Context) Global(node *namespace.Node, name string) (*types.GlobalVar, bool) {
	bucket, ok := c.globalsByUnit[node]
	if !ok {
		return nil, false
	}
	g, ok := bucket[name]
	return g, ok
}

// Resolve performs context-relative name resolution starting at fromNode,
// walking Uses/Mirrors edges exactly as namespace.Resolve specifies.
func (c *Context) Resolve(fromNode *namespace.Node, name string) namespace.Result {
	return namespace.Resolve(fromNode, name)
}

// TemplateCacheKey renders a template id plus its instantiation arguments
// into a stable cache key.
func TemplateCacheKey(template ident.TypeId, args []types.DataType) string {
	s := fmt.Sprintf("%d", template)
	for _, a := range args {
		t := a.Triple()
		s += fmt.Sprintf("|%d,%d,%t,%t", t.TypeId, t.RefModifier, t.IsHandle, a.HandleIsConst)
	}
	return s
}

// InstantiateTemplate returns the cached instantiation for (template,
// args) if one exists.
func (c *Context) InstantiateTemplate(template ident.TypeId, args []types.DataType) (ident.TypeId, bool) {
	id, ok := c.templateCache[TemplateCacheKey(template, args)]
	return id, ok
}

// CacheTemplateInstantiation records a freshly-built instantiation so
// later requests for the same (template, args) pair reuse it instead of
// rebuilding the specialized type.
func (c *Context) CacheTemplateInstantiation(template ident.TypeId, args []types.DataType, instance ident.TypeId) {
	c.templateCache[TemplateCacheKey(template, args)] = instance
}
