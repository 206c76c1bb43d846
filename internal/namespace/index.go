package namespace

import "github.com/ascompiler/core/internal/ident"

// TypeLoc is the reverse-index location of a registered type: the node it
// lives at and its simple name.
type TypeLoc struct {
	Node *Node
	Name string
}

// FuncLoc is the reverse-index location of a registered function: the node,
// its simple name, and its index within that name's overload slice.
type FuncLoc struct {
	Node          *Node
	Name          string
	OverloadIndex int
}

// ErrDuplicateType is returned by RegisterType when the simple name is
// already a type at the target node.
type ErrDuplicateType struct{ Name string }

func (e *ErrDuplicateType) Error() string { return "duplicate type: " + e.Name }

// ErrDuplicateFunction is returned by RegisterFunction when an existing
// overload at the node already has the same signature hash.
type ErrDuplicateFunction struct{ Name string }

func (e *ErrDuplicateFunction) Error() string { return "duplicate function signature: " + e.Name }

// ErrDuplicateGlobal is returned by RegisterGlobal for a name collision.
type ErrDuplicateGlobal struct{ Name string }

func (e *ErrDuplicateGlobal) Error() string { return "duplicate global: " + e.Name }

// Index provides O(1) lookup-by-id via two reverse maps, TypeId->TypeLoc and FunctionId->FuncLoc.
type Index struct {
	typeLoc map[ident.TypeId]TypeLoc
	funcLoc map[ident.FunctionId]FuncLoc
}

// NewIndex creates an empty reverse index.
func NewIndex() *Index {
	return &Index{
		typeLoc: make(map[ident.TypeId]TypeLoc),
		funcLoc: make(map[ident.FunctionId]FuncLoc),
	}
}

// RegisterType registers a type under its simple name at node n, failing
// with ErrDuplicateType if the name is already a type there.
func (ix *Index) RegisterType(n *Node, name string, id ident.TypeId) error {
	if _, exists := n.Types[name]; exists {
		return &ErrDuplicateType{Name: name}
	}
	n.Types[name] = id
	ix.typeLoc[id] = TypeLoc{Node: n, Name: name}
	return nil
}

// RegisterTypeAlias registers a typedef entry that resolves to target.
// Typedefs do not issue their own TypeId, so they are not entered
// into the reverse type index.
func (n *Node) RegisterTypeAlias(name string, target ident.TypeId) {
	n.TypeAliases[name] = target
}

// SignatureHash identifies a function overload's signature for the
// duplicate-overload check; callers (internal/registry) compute this from
// the function's parameter (type_id, ref_modifier, is_handle) triples.
type SignatureHash string

// RegisterFunction adds a function overload to name's overload set at node
// n, keyed by sigHash for duplicate detection, failing with
// ErrDuplicateFunction if an existing overload at the node already has that
// hash. hashOf supplies the hash for an id already registered there.
func (ix *Index) RegisterFunction(n *Node, name string, id ident.FunctionId, sigHash SignatureHash, hashOf func(ident.FunctionId) SignatureHash) error {
	existing := n.Functions[name]
	for _, other := range existing {
		if hashOf(other) == sigHash {
			return &ErrDuplicateFunction{Name: name}
		}
	}
	n.Functions[name] = append(existing, id)
	ix.funcLoc[id] = FuncLoc{Node: n, Name: name, OverloadIndex: len(existing)}
	return nil
}

// RegisterFunctionUnchecked appends id to name's overload set at node n
// without a signature-hash check. Declaration passes use this to register
// a function before its parameter types are known; the hash-based
// duplicate-overload check runs later, once every signature in the unit is
// filled, via DuplicateSignatures.
func (ix *Index) RegisterFunctionUnchecked(n *Node, name string, id ident.FunctionId) {
	n.Functions[name] = append(n.Functions[name], id)
	ix.funcLoc[id] = FuncLoc{Node: n, Name: name, OverloadIndex: len(n.Functions[name]) - 1}
}

// DuplicateSignatures scans ids (one name's overload set) and returns the
// subset whose signature hash repeats an earlier entry: these are the
// overloads to reject once every signature has been filled.
func DuplicateSignatures(ids []ident.FunctionId, hashOf func(ident.FunctionId) SignatureHash) []ident.FunctionId {
	seen := make(map[SignatureHash]bool, len(ids))
	var dups []ident.FunctionId
	for _, id := range ids {
		h := hashOf(id)
		if seen[h] {
			dups = append(dups, id)
		}
		seen[h] = true
	}
	return dups
}

// RegisterGlobal registers a global variable by name at node n.
func (n *Node) RegisterGlobal(name string) error {
	if _, exists := n.Globals[name]; exists {
		return &ErrDuplicateGlobal{Name: name}
	}
	n.Globals[name] = Global{Name: name}
	return nil
}

// TypeLocation returns the reverse-index location of a TypeId.
func (ix *Index) TypeLocation(id ident.TypeId) (TypeLoc, bool) {
	loc, ok := ix.typeLoc[id]
	return loc, ok
}

// FuncLocation returns the reverse-index location of a FunctionId.
func (ix *Index) FuncLocation(id ident.FunctionId) (FuncLoc, bool) {
	loc, ok := ix.funcLoc[id]
	return loc, ok
}

// RemoveUnit removes unit's entire subtree: it collects the subtree nodes,
// purges their type/function entries from the reverse indices, then detaches
// the subtree from its parent. This restores the registry to a state as if
// the unit had never been compiled,
// except that issued ids are never reused (ids, once issued, are retired).
func (ix *Index) RemoveUnit(unit *Node) {
	nodes := subtree(unit)
	for _, n := range nodes {
		for _, id := range n.Types {
			delete(ix.typeLoc, id)
		}
		for _, ids := range n.Functions {
			for _, id := range ids {
				delete(ix.funcLoc, id)
			}
		}
	}
	if unit.Parent != nil {
		delete(unit.Parent.Children, unit.Name)
	}
}

func subtree(n *Node) []*Node {
	nodes := []*Node{n}
	for _, c := range n.Children {
		nodes = append(nodes, subtree(c)...)
	}
	return nodes
}
