package bytecode

import "github.com/ascompiler/core/internal/ident"

// CompiledModule is the artifact Pass 2b produces (spec §6, "Produced
// artifacts"): one instruction Buffer per compiled FunctionId, plus the set
// of FunctionIds flagged unusable because their body recorded an error
// (spec §7 propagation policy: "a function with errors still yields a
// (possibly partial) instruction list... but is flagged unusable").
type CompiledModule struct {
	Functions map[ident.FunctionId]*Buffer
	Invalid   map[ident.FunctionId]bool
}

// NewCompiledModule creates an empty module.
func NewCompiledModule() *CompiledModule {
	return &CompiledModule{
		Functions: make(map[ident.FunctionId]*Buffer),
		Invalid:   make(map[ident.FunctionId]bool),
	}
}

// Add records buf as the compiled body of id, marking it invalid if
// hadErrors.
func (m *CompiledModule) Add(id ident.FunctionId, buf *Buffer, hadErrors bool) {
	m.Functions[id] = buf
	if hadErrors {
		m.Invalid[id] = true
	}
}

// IsUsable reports whether id's compiled body is safe for a VM to execute:
// it exists, recorded no errors, ends in a terminator on its last emitted
// instruction, and left no label unbound.
func (m *CompiledModule) IsUsable(id ident.FunctionId) bool {
	if m.Invalid[id] {
		return false
	}
	buf, ok := m.Functions[id]
	if !ok {
		return false
	}
	return buf.EndsInTerminator() && buf.AllLabelsBound()
}
