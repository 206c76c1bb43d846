package registry

import (
	"testing"

	"github.com/ascompiler/core/internal/ffi"
	"github.com/ascompiler/core/internal/types"
)

func TestLookupTypeFallsBackToFFI(t *testing.T) {
	provider, ids := ffi.Standard()
	ctx := NewContext(provider)

	id, ok := ctx.LookupType("string")
	if !ok || id != ids.String.TypeId {
		t.Fatalf("expected script-then-FFI lookup to find string, got %v (ok=%v)", id, ok)
	}
}

func TestRegisterTypeRejectsDuplicateName(t *testing.T) {
	ctx := NewContext(nil)
	_, unit := ctx.NewUnit("main")

	id1 := ctx.NextTypeId()
	if err := ctx.RegisterType(unit, "Widget", id1, &types.TypeDef{Kind: types.KindClass, Class: &types.ClassDef{Name: "Widget"}}); err != nil {
		t.Fatalf("unexpected error on first registration: %v", err)
	}

	id2 := ctx.NextTypeId()
	if err := ctx.RegisterType(unit, "Widget", id2, &types.TypeDef{Kind: types.KindClass, Class: &types.ClassDef{Name: "Widget"}}); err == nil {
		t.Fatal("expected duplicate type registration to fail")
	}
}

func TestUnqualifiedResolveSeesMirroredFFIType(t *testing.T) {
	provider, ids := ffi.Standard()
	ctx := NewContext(provider)
	_, unit := ctx.NewUnit("main")

	res := ctx.Resolve(unit, "int32")
	if res.Kind != 0 {
		t.Fatalf("expected Found, got kind %v", res.Kind)
	}
	if res.TypeId != ids.Int32.TypeId {
		t.Fatalf("expected to resolve to %v, got %v", ids.Int32.TypeId, res.TypeId)
	}
}

func TestTemplateInstantiationCacheRoundTrips(t *testing.T) {
	ctx := NewContext(nil)
	template := ctx.NextTypeId()
	arg := types.Plain(ctx.NextTypeId())

	if _, ok := ctx.InstantiateTemplate(template, []types.DataType{arg}); ok {
		t.Fatal("expected empty cache to miss")
	}

	instance := ctx.NextTypeId()
	ctx.CacheTemplateInstantiation(template, []types.DataType{arg}, instance)

	got, ok := ctx.InstantiateTemplate(template, []types.DataType{arg})
	if !ok || got != instance {
		t.Fatalf("expected cached instantiation %v, got %v (ok=%v)", instance, got, ok)
	}
}

func TestRemoveUnitPurgesReverseIndex(t *testing.T) {
	ctx := NewContext(nil)
	_, unit := ctx.NewUnit("main")

	id := ctx.NextTypeId()
	if err := ctx.RegisterType(unit, "Temp", id, &types.TypeDef{Kind: types.KindClass, Class: &types.ClassDef{Name: "Temp"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx.RemoveUnit("main")

	if _, ok := ctx.GetType(id); ok {
		t.Fatal("expected type to be gone after unit removal")
	}
}
