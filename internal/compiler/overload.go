package compiler

import (
	"github.com/ascompiler/core/internal/ast"
	"github.com/ascompiler/core/internal/errors"
	"github.com/ascompiler/core/internal/ident"
	"github.com/ascompiler/core/internal/types"
)

// argCost scores one call argument against one formal parameter: exact
// identity, a non-numeric handle conversion (null/const-add/derived-base),
// or a numeric widening, whichever of ConversionCostBetween and
// NumericConversionCost is applicable to the pair's kind. Primitive-to-
// primitive pairs go through NumericConversionCost; everything else (handles,
// objects passed by reference, identical value types) goes through
// ConversionCostBetween.
func (c *Compiler) argCost(from, to types.DataType) types.ConversionCost {
	if from.Equals(to) {
		return types.CostExact
	}
	fromDef, fromOk := c.ctx.Registry.GetType(from.TypeId)
	toDef, toOk := c.ctx.Registry.GetType(to.TypeId)
	if fromOk && toOk && fromDef.Kind == types.KindPrimitive && toDef.Kind == types.KindPrimitive {
		return types.NumericConversionCost(fromDef.Primitive, toDef.Primitive)
	}
	return types.ConversionCostBetween(from, to, c.isBaseOf)
}

// isBaseOf reports whether base is a (possibly indirect) base class of
// derived, walking ClassDef.BaseClass links through the registry.
func (c *Compiler) isBaseOf(base, derived types.DataType) bool {
	id := derived.TypeId
	for id != 0 {
		if id == base.TypeId {
			return true
		}
		def, ok := c.ctx.Registry.GetType(id)
		if !ok || def.Kind != types.KindClass {
			return false
		}
		id = def.Class.BaseClass
	}
	return false
}

// candidate is one overload considered for a call, together with the
// arguments' per-parameter conversion cost once scored.
type candidate struct {
	id   ident.FunctionId
	def  *types.FunctionDef
	cost int
}

// resolveOverload scores every id in candidates against args (the checked
// exprContext of each call argument, in order) and returns the unique
// cheapest candidate. Candidates whose arity doesn't match, or that have
// any CostRejected argument, are dropped before scoring. An empty surviving
// set reports NoMatchingOverload; a tie for the minimum reports Ambiguous.
func (c *Compiler) resolveOverload(candidates []ident.FunctionId, args []exprContext, name string, span ast.Span) (*types.FunctionDef, ident.FunctionId, bool) {
	var scored []candidate
	for _, id := range candidates {
		def, ok := c.ctx.Registry.GetFunction(id)
		if !ok || len(def.Params) != len(args) {
			continue
		}
		total := 0
		rejected := false
		for i, param := range def.Params {
			cost := c.argCost(args[i].typ, param.Type)
			if cost == types.CostRejected {
				rejected = true
				break
			}
			if param.Type.RefModifier == types.RefOut || param.Type.RefModifier == types.RefInOut {
				if !args[i].requireMutable() {
					rejected = true
					break
				}
			}
			total += int(cost)
		}
		if rejected {
			continue
		}
		scored = append(scored, candidate{id: id, def: def, cost: total})
	}

	if len(scored) == 0 {
		c.error(errors.NewNoMatchingOverload(span, name))
		return nil, 0, false
	}

	best := scored[0]
	tie := false
	for _, cand := range scored[1:] {
		switch {
		case cand.cost < best.cost:
			best = cand
			tie = false
		case cand.cost == best.cost:
			tie = true
		}
	}
	if tie {
		c.error(errors.NewAmbiguous(span, name))
		return nil, 0, false
	}
	return best.def, best.id, true
}
