// Package ident provides the opaque, monotonically issued identifiers that
// every other component in the compiler core threads around instead of raw
// pointers: TypeId, FunctionId and UnitId.
package ident

// TypeId is an opaque handle to a type descriptor. The high bit distinguishes
// native (FFI-provided) ids from script-declared ids so the two spaces never
// collide without requiring a single shared counter.
type TypeId uint32

// nativeTag marks a TypeId as belonging to the FFI space rather than the
// script space.
const nativeTag TypeId = 1 << 31

// IsNative reports whether id was issued by the FFI registry.
func (id TypeId) IsNative() bool { return id&nativeTag != 0 }

// IsScript reports whether id was issued by the script registry.
func (id TypeId) IsScript() bool { return !id.IsNative() && id != 0 }

// Valid reports whether id is a real, issued identifier (the zero value is
// reserved as "no type").
func (id TypeId) Valid() bool { return id != 0 }

// FunctionId is an opaque handle to a function descriptor. Script functions
// and lifted lambdas share one id space; lambda ids are issued starting above
// the function count observed at the start of Pass 2b (see
// FunctionIdCounter.Count). The high bit marks FFI-issued ids, as for TypeId.
type FunctionId uint32

// nativeFunctionTag marks a FunctionId as belonging to the FFI space.
const nativeFunctionTag FunctionId = 1 << 31

// IsNative reports whether id was issued by the FFI registry.
func (id FunctionId) IsNative() bool { return id&nativeFunctionTag != 0 }

// Valid reports whether id is a real, issued identifier.
func (id FunctionId) Valid() bool { return id != 0 }

// UnitId identifies one compilation unit (one source file / script module).
type UnitId uint32

// Valid reports whether id is a real, issued identifier.
func (id UnitId) Valid() bool { return id != 0 }

// TypeIdCounter issues monotonically increasing TypeIds from one of the two
// spaces. Ids are never reused, even across unit removal: removing a unit
// purges its descriptors from the registry but does not rewind the counter,
// so stale ids held elsewhere fail lookup cleanly instead of resolving to an
// unrelated, later-declared entity.
type TypeIdCounter struct {
	next TypeId
	tag  TypeId
}

// NewScriptTypeIdCounter returns a counter that issues ids from the script
// space (high bit clear).
func NewScriptTypeIdCounter() *TypeIdCounter {
	return &TypeIdCounter{next: 1, tag: 0}
}

// NewNativeTypeIdCounter returns a counter that issues ids from the native
// (FFI) space (high bit set).
func NewNativeTypeIdCounter() *TypeIdCounter {
	return &TypeIdCounter{next: 1, tag: nativeTag}
}

// Next issues and returns a fresh, never-before-returned TypeId.
func (c *TypeIdCounter) Next() TypeId {
	id := c.next | c.tag
	c.next++
	return id
}

// FunctionIdCounter issues monotonically increasing FunctionIds from one of
// the two spaces.
type FunctionIdCounter struct {
	next FunctionId
	tag  FunctionId
}

// NewFunctionIdCounter returns a fresh script-space counter starting at id 1.
func NewFunctionIdCounter() *FunctionIdCounter {
	return &FunctionIdCounter{next: 1}
}

// NewNativeFunctionIdCounter returns a fresh counter that issues ids from
// the native (FFI) space (high bit set).
func NewNativeFunctionIdCounter() *FunctionIdCounter {
	return &FunctionIdCounter{next: 1, tag: nativeFunctionTag}
}

// Next issues and returns a fresh FunctionId.
func (c *FunctionIdCounter) Next() FunctionId {
	id := c.next | c.tag
	c.next++
	return id
}

// Count returns the number of ids issued so far, i.e. the next id minus one.
// Pass 2b uses this at start-of-pass to pick the boundary above which lifted
// lambda FunctionIds are issued.
func (c *FunctionIdCounter) Count() uint32 {
	return uint32(c.next - 1)
}

// UnitIdCounter issues monotonically increasing UnitIds.
type UnitIdCounter struct {
	next UnitId
}

// NewUnitIdCounter returns a fresh counter starting at id 1.
func NewUnitIdCounter() *UnitIdCounter {
	return &UnitIdCounter{next: 1}
}

// Next issues and returns a fresh UnitId.
func (c *UnitIdCounter) Next() UnitId {
	id := c.next
	c.next++
	return id
}
