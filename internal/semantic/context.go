package semantic

import (
	"strings"

	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/registry"
	"github.com/ascompiler/core/internal/types"
)

// CompileOptions configures one compile. It carries no persisted state,
// no environment lookups, and no config file: every field is set by the
// embedding host at the call site.
type CompileOptions struct {
	// CaseInsensitiveNames makes identifier resolution compare names
	// ASCII-case-insensitively, matching the Pascal/DWScript family this
	// language's syntax descends from.
	CaseInsensitiveNames bool
}

// NormalizeName applies the case-folding policy of opts to a declared or
// referenced identifier before it is used as a namespace map key.
func (o CompileOptions) NormalizeName(name string) string {
	if o.CaseInsensitiveNames {
		return strings.ToLower(name)
	}
	return name
}

// pendingClass is a class whose namespace slot and TypeId exist but whose
// base class, fields, methods and operators are not yet resolved.
type pendingClass struct {
	Node *namespace.Node
	Decl *ast.ClassDecl
	Id   ident.TypeId
}

type pendingInterface struct {
	Node *namespace.Node
	Decl *ast.InterfaceDecl
	Id   ident.TypeId
}

type pendingFuncdef struct {
	Node *namespace.Node
	Decl *ast.FuncdefDecl
	Id   ident.TypeId
}

type pendingFunction struct {
	Node *namespace.Node
	Decl *ast.FunctionDecl
	Id   ident.FunctionId
}

type pendingGlobal struct {
	Node *namespace.Node
	Decl *ast.GlobalVarDecl
}

type pendingTypedef struct {
	Node *namespace.Node
	Decl *ast.TypedefDecl
}

// Context is the shared, mutable state every semantic pass threads
// through: the compilation registry, the diagnostic bus, the current
// unit's namespace root, and the forward-declaration worklists Pass 1
// populates for Pass 2a to drain.
type Context struct {
	Registry *registry.Context
	Errors   *errors.Bus
	Unit     *namespace.Node
	Options  CompileOptions

	Classes    map[ident.TypeId]*pendingClass
	Interfaces map[ident.TypeId]*pendingInterface
	Funcdefs   map[ident.TypeId]*pendingFuncdef
	Functions  []*pendingFunction
	Globals    []*pendingGlobal
	Typedefs   []*pendingTypedef
	Mixins     map[string]*types.Mixin

	// Bodies maps every function or method with a resolved signature back to
	// the AST declaration carrying its body, for the function compiler
	// (Pass 2b) to consume once Pass 2a has filled every signature. Free
	// functions are recorded in resolveFunctions; methods (including
	// mixin-spliced and operator methods) are recorded in resolveMethod.
	Bodies map[ident.FunctionId]*ast.FunctionDecl
}

// NewContext creates a fresh per-unit pass context.
func NewContext(reg *registry.Context, unit *namespace.Node, opts CompileOptions) *Context {
	return &Context{
		Registry:   reg,
		Errors:     errors.NewBus(),
		Unit:       unit,
		Options:    opts,
		Classes:    make(map[ident.TypeId]*pendingClass),
		Interfaces: make(map[ident.TypeId]*pendingInterface),
		Funcdefs:   make(map[ident.TypeId]*pendingFuncdef),
		Mixins:     make(map[string]*types.Mixin),
		Bodies:     make(map[ident.FunctionId]*ast.FunctionDecl),
	}
}
