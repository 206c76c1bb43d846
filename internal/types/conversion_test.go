package types

import (
	"testing"

	"github.com/ascompiler/core/internal/ident"
)

func TestDataTypeEquals(t *testing.T) {
	a := DataType{TypeId: 1, IsConst: true}
	b := DataType{TypeId: 1, IsConst: true}
	c := DataType{TypeId: 1, IsConst: false}

	if !a.Equals(b) {
		t.Fatalf("expected a.Equals(b)")
	}
	if a.Equals(c) {
		t.Fatalf("expected a not to equal c (const differs)")
	}
}

func TestNumericConversionCost(t *testing.T) {
	tests := []struct {
		from, to Primitive
		want     ConversionCost
	}{
		{PrimInt8, PrimInt32, CostWidening},
		{PrimInt32, PrimInt8, CostRejected},
		{PrimInt32, PrimFloat, CostNumericWidening},
		{PrimFloat, PrimDouble, CostWidening},
		{PrimDouble, PrimFloat, CostRejected},
		{PrimInt32, PrimInt32, CostExact},
	}

	for _, tt := range tests {
		got := NumericConversionCost(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("NumericConversionCost(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConversionCostBetweenNullAndHandle(t *testing.T) {
	null := DataType{}
	handle := Handle(ident.TypeId(5), false)

	if got := ConversionCostBetween(null, handle, nil); got != CostExact {
		t.Fatalf("null -> handle: got %v, want CostExact", got)
	}
}

func TestConversionCostHandleToConstHandle(t *testing.T) {
	h := Handle(ident.TypeId(5), false)
	hc := Handle(ident.TypeId(5), true)

	if got := ConversionCostBetween(h, hc, nil); got != CostExact {
		t.Fatalf("T@ -> const T@: got %v, want CostExact", got)
	}
	if got := ConversionCostBetween(hc, h, nil); got != CostRejected {
		t.Fatalf("const T@ -> T@ should be rejected, got %v", got)
	}
}

func TestConversionCostDerivedToBase(t *testing.T) {
	base := Handle(ident.TypeId(1), false)
	derived := Handle(ident.TypeId(2), false)

	isBaseOf := func(b, d DataType) bool {
		return b.TypeId == ident.TypeId(1) && d.TypeId == ident.TypeId(2)
	}

	if got := ConversionCostBetween(derived, base, isBaseOf); got != CostDerivedToBase {
		t.Fatalf("derived -> base: got %v, want CostDerivedToBase", got)
	}
}

func TestTripleIdentity(t *testing.T) {
	a := DataType{TypeId: 3, RefModifier: RefIn, IsHandle: true}
	b := DataType{TypeId: 3, RefModifier: RefIn, IsHandle: true, IsConst: true}

	if a.Triple() != b.Triple() {
		t.Fatalf("triples should ignore const: %+v vs %+v", a.Triple(), b.Triple())
	}
}
