// Package semantic runs the declaration and resolution passes that turn a
// parsed Script into fully-typed registry entries: Pass 1 registers every
// declared name with an empty signature, and Pass 2a fills signatures and
// verifies the cross-entity invariants (inheritance cycles, overrides,
// interface conformance, overload distinctness) once every declaration in
// the unit is visible.
package semantic

import "github.com/ascompiler/core/internal/ast"

// Pass is one stage of declaration/resolution analysis.
type Pass interface {
	Name() string
	Run(script *ast.Script, ctx *Context) error
}

// Manager runs a fixed sequence of passes over one unit.
type Manager struct {
	passes []Pass
}

// NewManager creates a pass manager running passes in the given order.
func NewManager(passes ...Pass) *Manager {
	return &Manager{passes: passes}
}

// RunAll executes every pass in order, stopping early only on a fatal
// internal error; accumulated semantic diagnostics never abort the run.
func (m *Manager) RunAll(script *ast.Script, ctx *Context) error {
	for _, p := range m.passes {
		if err := p.Run(script, ctx); err != nil {
			return err
		}
	}
	return nil
}
