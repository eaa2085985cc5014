// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llvmdecl

import (
	"go/token"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/llir/llvm/ir/types"
)

var scalars = map[dtype.DataType]types.Type{
	dtype.Bool:    types.I1,
	dtype.Int32:   types.I32,
	dtype.Int64:   types.I64,
	dtype.Float32: types.Float,
	dtype.Float64: types.Double,
}

// Type returns the LLVM type of a value of an IR type.
// Returns false if the type is not supported. The error is reported at pos.
func (d *Declarer) Type(typ ir.Type, pos token.Pos) (types.Type, bool) {
	switch typT := typ.(type) {
	case *ir.IntegerType, *ir.RealType, *ir.LogicalType:
		return d.scalar(typ, pos)
	case *ir.ComplexType:
		part, ok := d.scalar(ir.Real(typT.Bits), pos)
		if !ok {
			return nil, false
		}
		return types.NewStruct(part, part), true
	case *ir.CharacterType:
		if n, ok := ir.IntValue(typT.Len); ok {
			return types.NewArray(uint64(n), types.I8), true
		}
		return types.I8, true
	case *ir.ArrayType:
		return d.array(typT, pos)
	case *ir.ListType:
		// Lists are managed by the runtime and passed as an opaque handle.
		return types.NewPointer(types.I8), true
	case *ir.PointerType:
		inner, ok := d.Type(typT.Inner, pos)
		if !ok {
			return nil, false
		}
		return types.NewPointer(inner), true
	case *ir.StructType:
		return d.structType(typT, pos)
	}
	return nil, d.err.AppendCodef(pos, fmterr.UnsupportedType, "type %s cannot be declared in LLVM", typ)
}

func (d *Declarer) scalar(typ ir.Type, pos token.Pos) (types.Type, bool) {
	llTyp, ok := scalars[ir.DataType(typ)]
	if !ok {
		return nil, d.err.AppendCodef(pos, fmterr.UnsupportedType, "scalar type %s cannot be declared in LLVM", typ)
	}
	return llTyp, true
}

// array returns nested LLVM arrays if the shape of the array is known at
// compile time. The first axis varies the fastest so it is the innermost
// LLVM array. Otherwise, the array is represented by its element type.
func (d *Declarer) array(typ *ir.ArrayType, pos token.Pos) (types.Type, bool) {
	elem, ok := d.Type(typ.Elem, pos)
	if !ok {
		return nil, false
	}
	var lengths []int
	if sh, ok := ir.StaticShape(typ); ok {
		lengths = sh.AxisLengths
	} else if lengths, ok = typ.StaticLengths(); !ok {
		return elem, true
	}
	llTyp := elem
	for _, l := range lengths {
		llTyp = types.NewArray(uint64(l), llTyp)
	}
	return llTyp, true
}

func (d *Declarer) structType(typ *ir.StructType, pos token.Pos) (types.Type, bool) {
	if typ.Sym == nil {
		return nil, d.err.AppendCodef(pos, fmterr.UnresolvedSymbol, "type %s has not been resolved", typ.TypeName())
	}
	if llTyp, ok := d.structs[typ.Sym]; ok {
		return llTyp, true
	}
	def := types.NewStruct()
	d.structs[typ.Sym] = d.mod.NewTypeDef(typ.TypeName(), def)
	for _, name := range typ.Sym.Members {
		sym, ok := typ.Sym.Local().Lookup(name)
		member, isVar := sym.(*ir.Variable)
		if !ok || !isVar {
			return nil, d.err.AppendInternalf(pos, "member %s of %s is not a variable", name, typ.TypeName())
		}
		field, ok := d.Type(member.Typ, member.Src)
		if !ok {
			return nil, false
		}
		def.Fields = append(def.Fields, field)
	}
	return d.structs[typ.Sym], true
}
