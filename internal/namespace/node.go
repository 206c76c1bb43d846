// Package namespace implements the hierarchical symbol container described
// here: a tree of nodes linked by Contains (parent/child), Uses
// (non-transitive "using namespace" imports) and Mirrors (auto-synthesized
// visibility into $ffi/$shared) edges, plus the name-resolution algorithm and
// the reverse id indices that back O(1) lookup-by-id.
package namespace

import (
	"fmt"
	"strings"

	"github.com/ascompiler/core/internal/ident"
)

// Reserved top-level namespace names.
const (
	FFIRoot    = "$ffi"
	SharedRoot = "$shared"
)

// UnitNodeName returns the reserved root-level name a compilation unit
// attaches its namespace subtree under.
func UnitNodeName(id ident.UnitId) string {
	return fmt.Sprintf("$unit_%d", id)
}

// Node is one namespace-tree node. Names are stored case-sensitively by
// default; callers that want case-insensitive lookup normalize keys before
// calling into Node, so this package stays agnostic to that policy.
type Node struct {
	Name     string
	Parent   *Node
	Children map[string]*Node

	Types       map[string]ident.TypeId
	TypeAliases map[string]ident.TypeId
	Functions   map[string][]ident.FunctionId
	Globals     map[string]Global

	Uses    []*Node
	Mirrors []*Node
}

// Global is the namespace-tree's record of a global variable's existence;
// the full descriptor lives in the registry, keyed by the same name.
type Global struct {
	Name string
}

// NewRoot creates a fresh, unparented namespace root.
func NewRoot(name string) *Node {
	return newNode(name, nil)
}

func newNode(name string, parent *Node) *Node {
	return &Node{
		Name:        name,
		Parent:      parent,
		Children:    make(map[string]*Node),
		Types:       make(map[string]ident.TypeId),
		TypeAliases: make(map[string]ident.TypeId),
		Functions:   make(map[string][]ident.FunctionId),
		Globals:     make(map[string]Global),
	}
}

// Contains returns the existing child named `name`, creating it (and wiring
// the Contains edge) if absent. Names are unique per parent.
func (n *Node) Contains(name string) *Node {
	if child, ok := n.Children[name]; ok {
		return child
	}
	child := newNode(name, n)
	n.Children[name] = child
	return child
}

// Child looks up an existing child by name without creating one.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.Children[name]
	return c, ok
}

// Path returns the "::"-joined path from the root to this node, starting
// with the root's own name, e.g. "::$unit_1::Shapes::Geometry" under a root
// named "".
func (n *Node) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.Path() + "::" + n.Name
}

// AddUses records a non-transitive `using namespace` directive from n to
// target: an `A uses B`, `B uses C` chain does not expose C's names at A
//.
func (n *Node) AddUses(target *Node) {
	for _, u := range n.Uses {
		if u == target {
			return
		}
	}
	n.Uses = append(n.Uses, target)
}

// AddMirror wires a Mirrors edge from n to target. Mirrors is used for the
// auto-synthesized unit-to-$ffi/$shared visibility.
func (n *Node) AddMirror(target *Node) {
	for _, m := range n.Mirrors {
		if m == target {
			return
		}
	}
	n.Mirrors = append(n.Mirrors, target)
}

// AttachMirrors walks unit's subtree and, for every node `U/X/Y/...`,
// auto-adds a Mirrors edge to the same-path node under ffiRoot and
// sharedRoot if such a node exists. Call once after a unit's namespace
// subtree is fully constructed by Pass 1.
func AttachMirrors(unit *Node, ffiRoot, sharedRoot *Node) {
	attachMirrorsRec(unit, ffiRoot, sharedRoot, nil)
}

func attachMirrorsRec(n *Node, ffiRoot, sharedRoot *Node, path []string) {
	mirrorTarget := func(root *Node) *Node {
		cur := root
		for _, seg := range path {
			child, ok := cur.Child(seg)
			if !ok {
				return nil
			}
			cur = child
		}
		return cur
	}

	if ffiRoot != nil {
		if t := mirrorTarget(ffiRoot); t != nil {
			n.AddMirror(t)
		}
	}
	if sharedRoot != nil {
		if t := mirrorTarget(sharedRoot); t != nil {
			n.AddMirror(t)
		}
	}

	for name, child := range n.Children {
		attachMirrorsRec(child, ffiRoot, sharedRoot, append(append([]string{}, path...), name))
	}
}

// QualifiedSegments splits a qualified name "A::B::N" into its path
// segments, and reports whether the name began with "::" (absolute from
// root).
func QualifiedSegments(name string) (segments []string, absolute bool) {
	if strings.HasPrefix(name, "::") {
		absolute = true
		name = name[2:]
	}
	segments = strings.Split(name, "::")
	return segments, absolute
}
