package ffi

import "testing"

func TestStandardRegistersPrimitives(t *testing.T) {
	p, ids := Standard()

	if !ids.Int32.TypeId.IsNative() {
		t.Fatal("expected primitive type ids to be native")
	}

	id, ok := p.LookupType("int32")
	if !ok || id != ids.Int32.TypeId {
		t.Fatalf("expected LookupType(int32) to find %v, got %v (ok=%v)", ids.Int32.TypeId, id, ok)
	}

	def, ok := p.GetType(ids.String.TypeId)
	if !ok || def.Name() != "string" {
		t.Fatalf("expected GetType(string) to resolve, got %+v (ok=%v)", def, ok)
	}
}

func TestStandardRegistersOrdFamily(t *testing.T) {
	p, _ := Standard()

	fns := p.LookupFunctions("Ord")
	if len(fns) != 1 {
		t.Fatalf("expected exactly one Ord overload, got %d", len(fns))
	}

	def, ok := p.GetFunction(fns[0])
	if !ok {
		t.Fatal("expected GetFunction to resolve Ord's id")
	}
	if !def.IsNative || !def.SignatureFilled {
		t.Fatalf("expected native, signature-filled descriptor, got %+v", def)
	}
	if def.Arity() != 1 {
		t.Fatalf("expected Ord to take exactly one parameter, got %d", def.Arity())
	}
}

func TestFunctionCountTracksRegistrations(t *testing.T) {
	p, _ := Standard()
	if p.FunctionCount() != 8 {
		t.Fatalf("expected 8 registered native functions, got %d", p.FunctionCount())
	}
}
