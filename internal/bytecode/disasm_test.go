package bytecode

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestDisassembleSimpleAdd(t *testing.T) {
	// int add(int a, int b) { return a + b; }
	buf := NewBuffer()
	buf.LoadLocal(0)
	buf.LoadLocal(1)
	buf.Emit(AddInt)
	buf.Return()

	snaps.MatchSnapshot(t, Disassemble("add", buf))
}

func TestDisassembleIfElseWithBackpatchedLabels(t *testing.T) {
	// if (a < b) return a; else return b;
	buf := NewBuffer()
	elseLabel := buf.NewLabel()
	endLabel := buf.NewLabel()

	buf.LoadLocal(0)
	buf.LoadLocal(1)
	buf.Emit(CmpLtInt)
	buf.JumpIfFalse(elseLabel)
	buf.LoadLocal(0)
	buf.Return()
	buf.Jump(endLabel)
	buf.Bind(elseLabel)
	buf.LoadLocal(1)
	buf.Return()
	buf.Bind(endLabel)

	if !buf.AllLabelsBound() {
		t.Fatal("expected every label to be bound")
	}
	snaps.MatchSnapshot(t, Disassemble("choose", buf))
}

func TestDisassembleConstructorPrologue(t *testing.T) {
	// class Base{} class D : Base { int x = 7; D() {} }
	buf := NewBuffer()
	buf.CallConstructor(1, 2) // implicit base-class default constructor call
	buf.LoadThis()
	buf.PushInt(7)
	buf.StoreField(0)
	buf.ReturnVoid()

	snaps.MatchSnapshot(t, Disassemble("D::D", buf))
}

func TestEndsInTerminatorRequiresReturn(t *testing.T) {
	buf := NewBuffer()
	buf.LoadLocal(0)
	if buf.EndsInTerminator() {
		t.Fatal("a bare LoadLocal must not count as a terminator")
	}
	buf.Return()
	if !buf.EndsInTerminator() {
		t.Fatal("expected Return to terminate")
	}
}

func TestLabelReferencedBeforeBind(t *testing.T) {
	buf := NewBuffer()
	loop := buf.NewLabel()
	buf.Jump(loop) // forward reference, label not yet bound
	if buf.AllLabelsBound() {
		t.Fatal("expected an unbound label")
	}
	boundAt := int64(len(buf.Code)) // Bind appends the Label marker at this position
	buf.Bind(loop)
	if !buf.AllLabelsBound() {
		t.Fatal("expected Bind to satisfy the outstanding reference")
	}
	if buf.Code[0].A != boundAt {
		t.Fatalf("expected the forward jump to be backpatched to the bound position %d, got %d", boundAt, buf.Code[0].A)
	}
}
