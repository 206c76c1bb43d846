package ast

// TypeExpr is the unresolved, source-level spelling of a type reference
// (e.g. "const Shape@", "array<int>"), as it appears in a signature before
// Pass 2a resolves it to a types.DataType. Scope-qualified names use "::" as
// the separator, matching the language's qualified-name syntax.
type TypeExpr struct {
	base
	Name          string // possibly qualified, e.g. "Geometry::Shape"
	IsConst       bool
	IsHandle      bool
	HandleIsConst bool
	RefModifier   RefModifier
	TypeArgs      []*TypeExpr // non-empty for template instantiations, e.g. array<int>
}

func NewTypeExpr(span Span, name string) *TypeExpr {
	return &TypeExpr{base: base{span}, Name: name}
}

// RefModifier mirrors types.RefMode at the AST level so internal/ast has no
// dependency on internal/types.
type RefModifier int

const (
	RefModNone RefModifier = iota
	RefModIn
	RefModOut
	RefModInOut
)
