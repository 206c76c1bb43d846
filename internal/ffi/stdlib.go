package ffi

import (
	"github.com/ascompiler/core/internal/types"
)

// PrimitiveIds names the native TypeIds of the built-in scalar kinds, as
// issued by Standard().
type PrimitiveIds struct {
	Bool, Int8, Int16, Int32, Int64                 types.DataType
	Uint8, Uint16, Uint32, Uint64                   types.DataType
	Float, Double, Void, String                     types.DataType
}

var primitiveOrder = []types.Primitive{
	types.PrimBool, types.PrimInt8, types.PrimInt16, types.PrimInt32, types.PrimInt64,
	types.PrimUint8, types.PrimUint16, types.PrimUint32, types.PrimUint64,
	types.PrimFloat, types.PrimDouble, types.PrimVoid, types.PrimString,
}

// Standard builds a Provider pre-populated with the thirteen scalar
// primitives plus a small set of ordinal and math free functions (Ord, Chr,
// Succ, Pred, Abs, Sqrt, Sin and Cos), described as pure signatures since
// this package never executes a body.
func Standard() (*Provider, PrimitiveIds) {
	p := New()
	var ids PrimitiveIds
	byPrim := make(map[types.Primitive]types.DataType, len(primitiveOrder))

	for _, prim := range primitiveOrder {
		id := p.AddType(prim.String(), &types.TypeDef{Kind: types.KindPrimitive, Primitive: prim})
		byPrim[prim] = types.Plain(id)
	}

	ids.Bool = byPrim[types.PrimBool]
	ids.Int8 = byPrim[types.PrimInt8]
	ids.Int16 = byPrim[types.PrimInt16]
	ids.Int32 = byPrim[types.PrimInt32]
	ids.Int64 = byPrim[types.PrimInt64]
	ids.Uint8 = byPrim[types.PrimUint8]
	ids.Uint16 = byPrim[types.PrimUint16]
	ids.Uint32 = byPrim[types.PrimUint32]
	ids.Uint64 = byPrim[types.PrimUint64]
	ids.Float = byPrim[types.PrimFloat]
	ids.Double = byPrim[types.PrimDouble]
	ids.Void = byPrim[types.PrimVoid]
	ids.String = byPrim[types.PrimString]

	unary := func(name string, param, ret types.DataType) {
		p.AddFunction(name, &types.FunctionDef{
			Name:       name,
			Params:     []types.Param{{Name: "value", Type: param}},
			ReturnType: ret,
		})
	}

	unary("Ord", ids.Int32, ids.Int32)
	unary("Chr", ids.Int32, ids.String)
	unary("Succ", ids.Int32, ids.Int32)
	unary("Pred", ids.Int32, ids.Int32)
	unary("Abs", ids.Double, ids.Double)
	unary("Sqrt", ids.Double, ids.Double)
	unary("Sin", ids.Double, ids.Double)
	unary("Cos", ids.Double, ids.Double)

	return p, ids
}
