package types

// ConversionCost ranks how expensive an implicit conversion is, used by
// overload resolution. Lower is cheaper; CostRejected means no
// implicit conversion exists at all.
type ConversionCost int

const (
	CostExact ConversionCost = iota
	CostWidening
	CostNumericWidening
	CostDerivedToBase
	CostRejected = ConversionCost(1 << 30)
)

// HandleBaseFunc reports whether `base` is a (possibly indirect) base class
// handle of `derived`. Passed in by the caller (internal/registry owns the
// class hierarchy) so this package stays independent of registry storage.
type HandleBaseFunc func(base, derived DataType) bool

// ConversionCostBetween scores the implicit conversion from `from` to `to`
// following the non-numeric handle conversion rules (null->handle, T@->const T@,
// derived handle->base handle). Numeric conversions are scored separately by
// NumericConversionCost since they operate on Primitive, not DataType.
func ConversionCostBetween(from, to DataType, isBaseOf HandleBaseFunc) ConversionCost {
	if from.Equals(to) {
		return CostExact
	}

	// null -> any handle type.
	if from.TypeId == 0 && to.IsHandle {
		return CostExact
	}

	// T@ -> const T@ (same underlying type, handle, const added).
	if from.IsHandle && to.IsHandle && from.TypeId == to.TypeId && !from.HandleIsConst && to.HandleIsConst {
		return CostExact
	}

	// Derived handle -> base handle.
	if from.IsHandle && to.IsHandle && isBaseOf != nil && isBaseOf(to, from) {
		return CostDerivedToBase
	}

	return CostRejected
}

// NumericConversionCost scores a primitive-to-primitive conversion:
// integer widening is free, narrowing requires an explicit cast;
// integer->float is free; float widening is free, narrowing requires a cast.
func NumericConversionCost(from, to Primitive) ConversionCost {
	if from == to {
		return CostExact
	}
	switch {
	case from.IsInteger() && to.IsInteger():
		if to.Width() >= from.Width() && (from.IsSigned() == to.IsSigned() || to.Width() > from.Width()) {
			return CostWidening
		}
		return CostRejected // narrowing requires an explicit cast
	case from.IsInteger() && to.IsFloating():
		return CostNumericWidening
	case from.IsFloating() && to.IsFloating():
		if to.Width() >= from.Width() {
			return CostWidening
		}
		return CostRejected // float narrowing requires an explicit cast
	default:
		return CostRejected
	}
}
