package namespace

import "github.com/ascompiler/core/internal/ident"

// ResultKind discriminates the outcome of a resolution attempt.
type ResultKind int

const (
	Found ResultKind = iota
	NotFound
	Ambiguous
)

// SymbolKind discriminates which map a Result came from.
type SymbolKind int

const (
	SymType SymbolKind = iota
	SymTypeAlias
	SymFunction
	SymGlobal
)

// Result is the outcome of name resolution: either exactly one symbol,
// nothing, or an ambiguity between candidates from distinct namespaces.
type Result struct {
	Kind     ResultKind
	SymKind  SymbolKind
	Node     *Node
	TypeId   ident.TypeId
	FuncIds  []ident.FunctionId // for SymFunction, the overload set
	Global   Global
	Ambigous []*Node // distinct namespaces that produced a hit, when Kind == Ambiguous
}

// lookupLocal looks up `name` directly at node n, trying types, aliases,
// functions, then globals in that order. Registration rejects duplicates
// only within one of these maps, so when a type and a function (say) share a
// name at n, the first map in that order wins.
func lookupLocal(n *Node, name string) (Result, bool) {
	if id, ok := n.Types[name]; ok {
		return Result{Kind: Found, SymKind: SymType, Node: n, TypeId: id}, true
	}
	if id, ok := n.TypeAliases[name]; ok {
		return Result{Kind: Found, SymKind: SymTypeAlias, Node: n, TypeId: id}, true
	}
	if ids, ok := n.Functions[name]; ok {
		return Result{Kind: Found, SymKind: SymFunction, Node: n, FuncIds: ids}, true
	}
	if g, ok := n.Globals[name]; ok {
		return Result{Kind: Found, SymKind: SymGlobal, Node: n, Global: g}, true
	}
	return Result{}, false
}

// Resolve implements name resolution for a name `N` from context
// node `C`.
func Resolve(c *Node, name string) Result {
	segments, absolute := QualifiedSegments(name)
	if len(segments) > 1 || absolute {
		return resolveQualified(c, segments, absolute)
	}
	return resolveUnqualified(c, name)
}

// resolveQualified walks the path from the effective root (absolute if it
// begins with "::", else from C) and returns the symbol at the terminal
// node.
func resolveQualified(c *Node, segments []string, absolute bool) Result {
	start := c
	if absolute {
		start = root(c)
	}

	cur := start
	for i, seg := range segments {
		if i == len(segments)-1 {
			if res, ok := lookupLocal(cur, seg); ok {
				return res
			}
			return Result{Kind: NotFound}
		}
		child, ok := cur.Child(seg)
		if !ok {
			return Result{Kind: NotFound}
		}
		cur = child
	}
	return Result{Kind: NotFound}
}

func root(n *Node) *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// resolveUnqualified implements the unqualified half of Resolve: from C walking up the
// parent chain until root, at each level try local lookup, then Mirrors
// targets, then collect Uses hits into a set.
func resolveUnqualified(c *Node, name string) Result {
	for level := c; level != nil; level = level.Parent {
		if res, ok := lookupLocal(level, name); ok {
			return res
		}

		for _, m := range level.Mirrors {
			if res, ok := lookupLocal(m, name); ok {
				return res
			}
		}

		var hits []Result
		var fromNodes []*Node
		seen := map[*Node]bool{}
		for _, u := range level.Uses {
			if res, ok := lookupLocal(u, name); ok {
				if !seen[u] {
					seen[u] = true
					hits = append(hits, res)
					fromNodes = append(fromNodes, u)
				}
			}
		}

		switch len(hits) {
		case 0:
			continue // ascend to parent
		case 1:
			return hits[0]
		default:
			return Result{Kind: Ambiguous, Ambigous: fromNodes}
		}
	}

	return Result{Kind: NotFound}
}
