package namespace

import (
	"testing"

	"github.com/ascompiler/core/internal/ident"
)

func buildTree() (root, unit, a, b *Node) {
	root = NewRoot("")
	unit = root.Contains("$unit_1")
	a = unit.Contains("A")
	b = unit.Contains("B")
	return
}

func TestResolveLocalShadowsOuter(t *testing.T) {
	root, unit, a, _ := buildTree()
	_ = root

	ix := NewIndex()
	outerID := ident.TypeId(1)
	innerID := ident.TypeId(2)

	if err := ix.RegisterType(unit, "Foo", outerID); err != nil {
		t.Fatal(err)
	}
	if err := ix.RegisterType(a, "Foo", innerID); err != nil {
		t.Fatal(err)
	}

	res := Resolve(a, "Foo")
	if res.Kind != Found || res.TypeId != innerID {
		t.Fatalf("expected local Foo (deeper) to shadow outer: %+v", res)
	}

	res2 := Resolve(unit, "Foo")
	if res2.Kind != Found || res2.TypeId != outerID {
		t.Fatalf("expected outer Foo from unit scope: %+v", res2)
	}
}

func TestUsesNonTransitive(t *testing.T) {
	root, unit, a, b := buildTree()
	_ = root
	c := unit.Contains("C")

	ix := NewIndex()
	id := ident.TypeId(7)
	if err := ix.RegisterType(c, "Thing", id); err != nil {
		t.Fatal(err)
	}

	// A uses B, B uses C: A must NOT see C's Thing.
	a.AddUses(b)
	b.AddUses(c)

	res := Resolve(a, "Thing")
	if res.Kind != NotFound {
		t.Fatalf("expected non-transitive uses chain to hide Thing, got %+v", res)
	}

	// But B (which directly uses C) does see it.
	res2 := Resolve(b, "Thing")
	if res2.Kind != Found || res2.TypeId != id {
		t.Fatalf("expected B to see Thing via direct uses: %+v", res2)
	}
}

func TestUsesAmbiguity(t *testing.T) {
	root, unit, a, b := buildTree()
	_ = root
	main := unit.Contains("Main")

	ix := NewIndex()
	if err := ix.RegisterFunction(a, "h", ident.FunctionId(1), "sig-a", func(ident.FunctionId) SignatureHash { return "" }); err != nil {
		t.Fatal(err)
	}
	if err := ix.RegisterFunction(b, "h", ident.FunctionId(2), "sig-b", func(ident.FunctionId) SignatureHash { return "" }); err != nil {
		t.Fatal(err)
	}

	main.AddUses(a)
	main.AddUses(b)

	res := Resolve(main, "h")
	if res.Kind != Ambiguous {
		t.Fatalf("expected Ambiguous for conflicting same-level uses, got %+v", res)
	}
}

func TestMirrorsVisibility(t *testing.T) {
	root := NewRoot("")
	ffi := root.Contains(FFIRoot)
	unit := root.Contains("$unit_1")

	ffiSub := ffi.Contains("Std")
	unitSub := unit.Contains("Std")

	ix := NewIndex()
	id := ident.TypeId(9)
	if err := ix.RegisterType(ffiSub, "Vector", id); err != nil {
		t.Fatal(err)
	}

	AttachMirrors(unit, ffi, nil)

	res := Resolve(unitSub, "Vector")
	if res.Kind != Found || res.TypeId != id {
		t.Fatalf("expected Vector visible via mirrors edge, got %+v", res)
	}
}

func TestDuplicateTypeError(t *testing.T) {
	_, unit, _, _ := buildTree()
	ix := NewIndex()

	if err := ix.RegisterType(unit, "Dup", ident.TypeId(1)); err != nil {
		t.Fatal(err)
	}
	err := ix.RegisterType(unit, "Dup", ident.TypeId(2))
	if err == nil {
		t.Fatal("expected ErrDuplicateType")
	}
	if _, ok := err.(*ErrDuplicateType); !ok {
		t.Fatalf("expected *ErrDuplicateType, got %T", err)
	}
}

func TestRemoveUnitIsLeftInverse(t *testing.T) {
	root := NewRoot("")
	unit := root.Contains("$unit_1")
	sub := unit.Contains("Pkg")

	ix := NewIndex()
	tid := ident.TypeId(42)
	fid := ident.FunctionId(42)
	if err := ix.RegisterType(sub, "Foo", tid); err != nil {
		t.Fatal(err)
	}
	if err := ix.RegisterFunction(sub, "bar", fid, "sig", func(ident.FunctionId) SignatureHash { return "" }); err != nil {
		t.Fatal(err)
	}

	ix.RemoveUnit(unit)

	if _, ok := ix.TypeLocation(tid); ok {
		t.Fatal("expected type location purged after RemoveUnit")
	}
	if _, ok := ix.FuncLocation(fid); ok {
		t.Fatal("expected function location purged after RemoveUnit")
	}
	if _, ok := root.Child("$unit_1"); ok {
		t.Fatal("expected unit node detached from root")
	}
}
