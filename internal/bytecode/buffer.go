package bytecode

import "math"

// Pool is the per-function literal pool: string constants referenced by
// PushString. Numeric literals are carried directly in an instruction's
// operand (as raw bits for float/double) rather than pooled, since they are
// already a fixed 64-bit width and pooling buys nothing there.
type Pool struct {
	Strings []string
}

// InternString returns the pool index of s, appending it if this is the
// first use of that exact string within the function.
func (p *Pool) InternString(s string) int64 {
	for i, existing := range p.Strings {
		if existing == s {
			return int64(i)
		}
	}
	p.Strings = append(p.Strings, s)
	return int64(len(p.Strings) - 1)
}

// label is a forward-patchable jump target: bound is -1 until Bind is
// called, and refs records every instruction index whose A operand must be
// overwritten with the bound position once it is known.
type label struct {
	bound int
	refs  []int
}

// Buffer is one function's growable instruction stream plus its label
// table and literal pool. Labels may be referenced by a Jump/JumpIfFalse/
// BeginTry after NewLabel creates them and before Bind defines them; Bind backpatches
// every outstanding reference in one pass.
type Buffer struct {
	Code   []Instruction
	Pool   Pool
	labels []label
}

// NewBuffer creates an empty instruction buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewLabel issues a fresh, as-yet-unbound label id.
func (b *Buffer) NewLabel() int64 {
	b.labels = append(b.labels, label{bound: -1})
	return int64(len(b.labels) - 1)
}

// emit appends inst and returns its index.
func (b *Buffer) emit(inst Instruction) int {
	b.Code = append(b.Code, inst)
	return len(b.Code) - 1
}

// PushInt emits PushInt(i).
func (b *Buffer) PushInt(i int64) { b.emit(withA(PushInt, i)) }

// PushFloat emits PushFloat carrying f's bits.
func (b *Buffer) PushFloat(f float32) { b.emit(withA(PushFloat, int64(math.Float32bits(f)))) }

// PushDouble emits PushDouble carrying d's bits.
func (b *Buffer) PushDouble(d float64) { b.emit(withA(PushDouble, int64(math.Float64bits(d)))) }

// PushBool emits PushBool(v).
func (b *Buffer) PushBool(v bool) {
	var a int64
	if v {
		a = 1
	}
	b.emit(withA(PushBool, a))
}

// PushString emits PushString for the pooled literal s.
func (b *Buffer) PushString(s string) { b.emit(withA(PushString, b.Pool.InternString(s))) }

// PushNull emits PushNull.
func (b *Buffer) PushNull() { b.emit(simple(PushNull)) }

// Dup emits Dup.
func (b *Buffer) Dup() { b.emit(simple(Dup)) }

// Pop emits Pop.
func (b *Buffer) Pop() { b.emit(simple(Pop)) }

// LoadLocal emits LoadLocal(slot).
func (b *Buffer) LoadLocal(slot int) { b.emit(withA(LoadLocal, int64(slot))) }

// StoreLocal emits StoreLocal(slot).
func (b *Buffer) StoreLocal(slot int) { b.emit(withA(StoreLocal, int64(slot))) }

// LoadThis emits LoadThis.
func (b *Buffer) LoadThis() { b.emit(simple(LoadThis)) }

// LoadField emits LoadField(idx).
func (b *Buffer) LoadField(idx int) { b.emit(withA(LoadField, int64(idx))) }

// StoreField emits StoreField(idx).
func (b *Buffer) StoreField(idx int) { b.emit(withA(StoreField, int64(idx))) }

// LoadGlobal emits LoadGlobal(id).
func (b *Buffer) LoadGlobal(id uint32) { b.emit(withA(LoadGlobal, int64(id))) }

// StoreGlobal emits StoreGlobal(id).
func (b *Buffer) StoreGlobal(id uint32) { b.emit(withA(StoreGlobal, int64(id))) }

// Call emits Call(funcId).
func (b *Buffer) Call(funcId uint32) { b.emit(withA(Call, int64(funcId))) }

// CallVirtual emits CallVirtual(funcId).
func (b *Buffer) CallVirtual(funcId uint32) { b.emit(withA(CallVirtual, int64(funcId))) }

// CallConstructor emits CallConstructor{typeId, funcId}.
func (b *Buffer) CallConstructor(typeId, funcId uint32) {
	b.emit(withAB(CallConstructor, int64(typeId), int64(funcId)))
}

// CallPtr emits CallPtr.
func (b *Buffer) CallPtr() { b.emit(simple(CallPtr)) }

// FuncPtr emits FuncPtr(funcId).
func (b *Buffer) FuncPtr(funcId uint32) { b.emit(withA(FuncPtr, int64(funcId))) }

// Jump emits an unconditional jump to target, recording a backpatch
// reference if target is not yet bound.
func (b *Buffer) Jump(target int64) { b.jumpLike(Jump, target) }

// JumpIfFalse emits a conditional jump to target.
func (b *Buffer) JumpIfFalse(target int64) { b.jumpLike(JumpIfFalse, target) }

func (b *Buffer) jumpLike(op OpCode, target int64) {
	idx := b.emit(withA(op, target))
	lab := &b.labels[target]
	if lab.bound < 0 {
		lab.refs = append(lab.refs, idx)
	} else {
		b.Code[idx].A = int64(lab.bound)
	}
}

// BeginTry emits BeginTry(catchLabel), with the same backpatch treatment as
// a jump.
func (b *Buffer) BeginTry(catchLabel int64) { b.jumpLike(BeginTry, catchLabel) }

// EndTry emits EndTry.
func (b *Buffer) EndTry() { b.emit(simple(EndTry)) }

// Bind defines id at the buffer's current end position and backpatches
// every outstanding jump/try reference to it.
func (b *Buffer) Bind(id int64) {
	pos := len(b.Code)
	lab := &b.labels[id]
	lab.bound = pos
	for _, idx := range lab.refs {
		b.Code[idx].A = int64(pos)
	}
	lab.refs = nil
	b.emit(withA(Label, id))
}

// Return emits Return.
func (b *Buffer) Return() { b.emit(simple(Return)) }

// ReturnVoid emits ReturnVoid.
func (b *Buffer) ReturnVoid() { b.emit(simple(ReturnVoid)) }

// Throw emits Throw.
func (b *Buffer) Throw() { b.emit(simple(Throw)) }

// Emit appends a raw, already-constructed instruction (used for the typed
// arithmetic/compare/bitwise/conversion opcodes, which carry no operand).
func (b *Buffer) Emit(op OpCode) { b.emit(simple(op)) }

// AllLabelsBound reports whether every issued label has been bound (I5:
// every jump target label is defined).
func (b *Buffer) AllLabelsBound() bool {
	for _, l := range b.labels {
		if l.bound < 0 {
			return false
		}
	}
	return true
}

// EndsInTerminator reports whether the last emitted instruction is a
// control-flow terminator (Return/ReturnVoid/Throw), the per-function half
// of I4.
func (b *Buffer) EndsInTerminator() bool {
	if len(b.Code) == 0 {
		return false
	}
	return b.Code[len(b.Code)-1].Op.IsTerminator()
}
