package bytecode

// Instruction is one bytecode operation. A and B are generic operand slots;
// which ones are meaningful, and what they mean, is determined by Op (see
// the per-opcode comments in opcode.go). Keeping two plain int64 operands
// rather than a packed-bitfield encoding means a FunctionId, a TypeId, and a
// raw literal all fit without format-specific shifting/masking logic.
type Instruction struct {
	Op OpCode
	A  int64
	B  int64
}

func simple(op OpCode) Instruction           { return Instruction{Op: op} }
func withA(op OpCode, a int64) Instruction    { return Instruction{Op: op, A: a} }
func withAB(op OpCode, a, b int64) Instruction { return Instruction{Op: op, A: a, B: b} }
