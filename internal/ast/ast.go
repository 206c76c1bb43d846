// Package ast defines the nominal AST node shapes consumed by the
// compiler core. Lexing and parsing are external collaborators;
// only these node shapes cross the boundary into the core.
package ast

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int
	Column int
}

// Span covers a range of source text, used by every node for diagnostics and
// by the error bus to key accumulated diagnostics.
type Span struct {
	Start Position
	End   Position
}

// Node is the base interface every AST node implements.
type Node interface {
	Span() Span
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Item is a top-level (or namespace-level) declaration: function, class,
// interface, enum, funcdef, typedef, mixin, global-var, import,
// using-namespace, or namespace.
type Item interface {
	Node
	itemNode()
}

// base embeds into every concrete node to provide Span() without
// boilerplate in each constructor.
type base struct {
	span Span
}

func (b base) Span() Span { return b.span }

// Script is the root node: a compilation unit's list of items.
type Script struct {
	base
	Items []Item
}

func NewScript(span Span, items []Item) *Script {
	return &Script{base: base{span}, Items: items}
}
