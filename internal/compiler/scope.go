package compiler

import "github.com/ascompiler/core/internal/types"

// localVar is one name bound in a local scope: its stack slot, its static
// type, and whether it may be written (a `const` declaration is not
// mutable; parameters and `foreach` bindings are).
type localVar struct {
	slot    int
	typ     types.DataType
	mutable bool
}

// scope is one `{ ... }` nesting level: a flat name -> localVar map.
// Entering a block pushes a scope; exiting pops it. Declarations shadow
// outer scopes but collide within the same scope.
type scope struct {
	vars map[string]localVar
}

// scopeStack manages nested local scopes and slot allocation for one
// function body. Slots are never reused within a function even after a
// scope pops, matching the teacher's flat-slot-per-declaration local layout
// (internal/semantic's symbol table equivalent never recycles indices
// either).
type scopeStack struct {
	stack    []scope
	nextSlot int
}

func newScopeStack() *scopeStack {
	return &scopeStack{}
}

// push enters a new block scope.
func (s *scopeStack) push() { s.stack = append(s.stack, scope{vars: make(map[string]localVar)}) }

// pop exits the innermost block scope.
func (s *scopeStack) pop() { s.stack = s.stack[:len(s.stack)-1] }

// declare binds name to a fresh slot in the innermost scope. Returns false
// if name already exists in that same scope (a collision error at the call
// site).
func (s *scopeStack) declare(name string, typ types.DataType, mutable bool) (int, bool) {
	top := &s.stack[len(s.stack)-1]
	if _, exists := top.vars[name]; exists {
		return 0, false
	}
	slot := s.nextSlot
	s.nextSlot++
	top.vars[name] = localVar{slot: slot, typ: typ, mutable: mutable}
	return slot, true
}

// lookup searches innermost-to-outermost scope for name.
func (s *scopeStack) lookup(name string) (localVar, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if v, ok := s.stack[i].vars[name]; ok {
			return v, true
		}
	}
	return localVar{}, false
}

// loopLabels is the pair of labels `break`/`continue` bind to inside one
// loop's body (and, for `continue`, what a `switch` nested in the loop must
// still reach past its own end label). A switch pushes a frame too, with
// isSwitch set, so `break` can target its end label the same way a loop's
// does — but `continue` must skip over it to the nearest real loop frame.
type loopLabels struct {
	breakLabel    int64
	continueLabel int64
	isSwitch      bool
}
