package bytecode

import (
	"fmt"
	"math"
	"strings"
)

// Disassemble renders buf as human-readable text: one line per instruction,
// operands resolved against the literal pool where applicable. Used for
// compiler diagnostics and snapshot tests, never by the VM itself (VM
// execution is an external collaborator, see DESIGN.md).
func Disassemble(name string, buf *Buffer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)
	for i, inst := range buf.Code {
		fmt.Fprintf(&sb, "%04d  %s\n", i, disasmOne(buf, inst))
	}
	if len(buf.Pool.Strings) > 0 {
		sb.WriteString("-- strings --\n")
		for i, s := range buf.Pool.Strings {
			fmt.Fprintf(&sb, "  [%d] %q\n", i, s)
		}
	}
	return sb.String()
}

func disasmOne(buf *Buffer, inst Instruction) string {
	switch inst.Op {
	case PushInt:
		return fmt.Sprintf("%s %d", inst.Op, inst.A)
	case PushFloat:
		return fmt.Sprintf("%s %v", inst.Op, math.Float32frombits(uint32(inst.A)))
	case PushDouble:
		return fmt.Sprintf("%s %v", inst.Op, math.Float64frombits(uint64(inst.A)))
	case PushBool:
		return fmt.Sprintf("%s %t", inst.Op, inst.A != 0)
	case PushString:
		if int(inst.A) < len(buf.Pool.Strings) {
			return fmt.Sprintf("%s %q", inst.Op, buf.Pool.Strings[inst.A])
		}
		return fmt.Sprintf("%s <bad-string-%d>", inst.Op, inst.A)
	case CallConstructor:
		return fmt.Sprintf("%s type=%d func=%d", inst.Op, inst.A, inst.B)
	case Label:
		return fmt.Sprintf("%s L%d:", inst.Op, inst.A)
	case Jump, JumpIfFalse, BeginTry:
		return fmt.Sprintf("%s L%d", inst.Op, inst.A)
	case PushNull, Dup, Pop, LoadThis, CallPtr, Return, ReturnVoid, Throw, EndTry, Not,
		AddInt, SubInt, MulInt, DivInt, ModInt, NegInt,
		AddFloat, SubFloat, MulFloat, DivFloat, NegFloat,
		AddDouble, SubDouble, MulDouble, DivDouble, NegDouble,
		CmpEqInt, CmpNeInt, CmpLtInt, CmpLeInt, CmpGtInt, CmpGeInt,
		CmpEqFloat, CmpNeFloat, CmpLtFloat, CmpLeFloat, CmpGtFloat, CmpGeFloat,
		CmpEqDouble, CmpNeDouble, CmpLtDouble, CmpLeDouble, CmpGtDouble, CmpGeDouble,
		CmpEqHandle, CmpNeHandle,
		BitAnd, BitOr, BitXor, BitNot, Shl, Shr,
		ConvIntToFloat, ConvIntToDouble, ConvFloatToInt, ConvFloatToDouble, ConvDoubleToInt, ConvDoubleToFloat:
		return inst.Op.String()
	default:
		return fmt.Sprintf("%s %d", inst.Op, inst.A)
	}
}
