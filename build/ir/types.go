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

package ir

import (
	"fmt"
	"strings"

	"github.com/gx-org/irlower/build/ir/irkind"
)

type (
	// Type of a value.
	//
	// Types are immutable once built and may be shared by many nodes.
	// A pass needing a variant of a type builds a new value.
	Type interface {
		Node

		// Kind of the type.
		Kind() irkind.Kind

		// Equal returns true if other is the same type.
		Equal(other Type) bool

		// String representation of the type.
		String() string
	}

	// IntegerType is a signed integer with a bit width.
	IntegerType struct {
		Bits int
	}

	// RealType is a floating point number with a bit width.
	RealType struct {
		Bits int
	}

	// ComplexType is a complex number. Bits is the width of each component.
	ComplexType struct {
		Bits int
	}

	// LogicalType is a boolean.
	LogicalType struct{}

	// CharacterType is a string of characters.
	// Len is nil if the length is deferred to run time.
	CharacterType struct {
		Len Expr
	}

	// Dim is the dimension of an array.
	//
	// Start is the lower bound of the dimension. If nil, the lower bound is 1.
	// Length is the number of elements along the dimension. If nil, the length
	// is not known at compile time. If both are nil, the shape of the dimension
	// is assumed from the actual argument at run time.
	Dim struct {
		Start  Expr
		Length Expr
	}

	// ArrayType is an array of elements with a list of dimensions.
	ArrayType struct {
		Elem Type
		Dims []Dim
	}

	// ListType is a dynamically sized list.
	ListType struct {
		Elem Type
	}

	// TupleType is a fixed set of heterogeneous values.
	TupleType struct {
		Elems []Type
	}

	// StructType is the type of a value of an aggregate type.
	StructType struct {
		Name string
		Sym  *AggregateType
	}

	// PointerType points to a value of another type.
	PointerType struct {
		Inner Type
	}

	// FuncType is a function signature.
	// Result is nil for a subroutine.
	FuncType struct {
		Params []Type
		Result Type
	}

	// InvalidType is the type of a placeholder expression
	// substituted after an error has been reported.
	InvalidType struct{}
)

var (
	_ Type = (*IntegerType)(nil)
	_ Type = (*RealType)(nil)
	_ Type = (*ComplexType)(nil)
	_ Type = (*LogicalType)(nil)
	_ Type = (*CharacterType)(nil)
	_ Type = (*ArrayType)(nil)
	_ Type = (*ListType)(nil)
	_ Type = (*TupleType)(nil)
	_ Type = (*StructType)(nil)
	_ Type = (*PointerType)(nil)
	_ Type = (*FuncType)(nil)
	_ Type = (*InvalidType)(nil)
)

var (
	// DefaultInt is the type of indices and loop variables.
	DefaultInt = Integer(32)

	logicalType = &LogicalType{}
	invalidType = &InvalidType{}
)

// Integer returns an integer type.
func Integer(bits int) *IntegerType { return &IntegerType{Bits: bits} }

// Real returns a real type.
func Real(bits int) *RealType { return &RealType{Bits: bits} }

// Complex returns a complex type.
func Complex(bits int) *ComplexType { return &ComplexType{Bits: bits} }

// Logical returns the logical type.
func Logical() *LogicalType { return logicalType }

// Invalid returns the invalid type.
func Invalid() *InvalidType { return invalidType }

// Character returns a character type given a length.
// The length can be nil.
func Character(length Expr) *CharacterType { return &CharacterType{Len: length} }

// Array returns an array type with a 1-based dimension for each length.
func Array(elem Type, lengths ...int) *ArrayType {
	dims := make([]Dim, len(lengths))
	for i, l := range lengths {
		dims[i] = Dim{Length: &IntLit{Val: int64(l), Typ: DefaultInt}}
	}
	return &ArrayType{Elem: elem, Dims: dims}
}

func (*IntegerType) node()   {}
func (*RealType) node()      {}
func (*ComplexType) node()   {}
func (*LogicalType) node()   {}
func (*CharacterType) node() {}
func (*ArrayType) node()     {}
func (*ListType) node()      {}
func (*TupleType) node()     {}
func (*StructType) node()    {}
func (*PointerType) node()   {}
func (*FuncType) node()      {}
func (*InvalidType) node()   {}

// Kind of the type.
func (*IntegerType) Kind() irkind.Kind { return irkind.Integer }

// Equal returns true if other is the same type.
func (t *IntegerType) Equal(other Type) bool {
	o, ok := other.(*IntegerType)
	return ok && o.Bits == t.Bits
}

func (t *IntegerType) String() string { return fmt.Sprintf("integer(%d)", t.Bits) }

// Kind of the type.
func (*RealType) Kind() irkind.Kind { return irkind.Real }

// Equal returns true if other is the same type.
func (t *RealType) Equal(other Type) bool {
	o, ok := other.(*RealType)
	return ok && o.Bits == t.Bits
}

func (t *RealType) String() string { return fmt.Sprintf("real(%d)", t.Bits) }

// Kind of the type.
func (*ComplexType) Kind() irkind.Kind { return irkind.Complex }

// Equal returns true if other is the same type.
func (t *ComplexType) Equal(other Type) bool {
	o, ok := other.(*ComplexType)
	return ok && o.Bits == t.Bits
}

func (t *ComplexType) String() string { return fmt.Sprintf("complex(%d)", t.Bits) }

// Kind of the type.
func (*LogicalType) Kind() irkind.Kind { return irkind.Logical }

// Equal returns true if other is the same type.
func (*LogicalType) Equal(other Type) bool {
	_, ok := other.(*LogicalType)
	return ok
}

func (*LogicalType) String() string { return "logical" }

// Kind of the type.
func (*CharacterType) Kind() irkind.Kind { return irkind.Character }

// Equal returns true if other is a character type.
// Lengths are compared only when both are known at compile time.
func (t *CharacterType) Equal(other Type) bool {
	o, ok := other.(*CharacterType)
	if !ok {
		return false
	}
	return constEqual(t.Len, o.Len)
}

func (t *CharacterType) String() string {
	if t.Len == nil {
		return "character(len=:)"
	}
	return fmt.Sprintf("character(len=%s)", t.Len.String())
}

// Kind of the type.
func (*ArrayType) Kind() irkind.Kind { return irkind.Array }

// Rank returns the number of dimensions of the array.
func (t *ArrayType) Rank() int { return len(t.Dims) }

// WithDims returns a new array type with the same element type and new dimensions.
func (t *ArrayType) WithDims(dims []Dim) *ArrayType {
	return &ArrayType{Elem: t.Elem, Dims: dims}
}

// Equal returns true if other is an array with the same element type and rank.
// Extents are compared only when both are known at compile time.
func (t *ArrayType) Equal(other Type) bool {
	o, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	if !t.Elem.Equal(o.Elem) || len(t.Dims) != len(o.Dims) {
		return false
	}
	for i, dim := range t.Dims {
		if !constEqual(dim.Length, o.Dims[i].Length) {
			return false
		}
	}
	return true
}

// StaticLengths returns the length of all dimensions if all of them are known at compile time.
func (t *ArrayType) StaticLengths() ([]int, bool) {
	lengths := make([]int, len(t.Dims))
	for i, dim := range t.Dims {
		l, ok := IntValue(dim.Length)
		if !ok {
			return nil, false
		}
		lengths[i] = int(l)
	}
	return lengths, true
}

func (t *ArrayType) String() string {
	dims := make([]string, len(t.Dims))
	for i, dim := range t.Dims {
		dims[i] = dim.String()
	}
	return fmt.Sprintf("%s[%s]", t.Elem.String(), strings.Join(dims, ","))
}

// IsAssumed returns true if the shape of the dimension is assumed at run time.
func (d Dim) IsAssumed() bool {
	return d.Start == nil && d.Length == nil
}

// LowerBound returns the expression of the lower bound of the dimension.
func (d Dim) LowerBound() Expr {
	if d.Start != nil {
		return d.Start
	}
	return &IntLit{Val: 1, Typ: DefaultInt}
}

// StaticStart returns the lower bound of the dimension if it is known at compile time.
func (d Dim) StaticStart() (int64, bool) {
	if d.Start == nil {
		return 1, !d.IsAssumed()
	}
	return IntValue(d.Start)
}

func (d Dim) String() string {
	if d.IsAssumed() {
		return ":"
	}
	length := "?"
	if d.Length != nil {
		length = d.Length.String()
	}
	if d.Start == nil {
		return length
	}
	return d.Start.String() + ":+" + length
}

// Kind of the type.
func (*ListType) Kind() irkind.Kind { return irkind.List }

// Equal returns true if other is a list with the same element type.
func (t *ListType) Equal(other Type) bool {
	o, ok := other.(*ListType)
	return ok && t.Elem.Equal(o.Elem)
}

func (t *ListType) String() string { return "list[" + t.Elem.String() + "]" }

// Kind of the type.
func (*TupleType) Kind() irkind.Kind { return irkind.Tuple }

// Equal returns true if other is a tuple with the same element types.
func (t *TupleType) Equal(other Type) bool {
	o, ok := other.(*TupleType)
	if !ok || len(o.Elems) != len(t.Elems) {
		return false
	}
	for i, elem := range t.Elems {
		if !elem.Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (t *TupleType) String() string {
	return "tuple[" + typesString(t.Elems) + "]"
}

// Kind of the type.
func (*StructType) Kind() irkind.Kind { return irkind.Struct }

// Equal returns true if other refers to the same aggregate type.
func (t *StructType) Equal(other Type) bool {
	o, ok := other.(*StructType)
	if !ok {
		return false
	}
	if t.Sym != nil && o.Sym != nil {
		return t.Sym == o.Sym
	}
	return t.Name == o.Name
}

func (t *StructType) String() string { return "type(" + t.TypeName() + ")" }

// TypeName returns the current name of the aggregate type.
func (t *StructType) TypeName() string {
	if t.Sym != nil {
		return t.Sym.Name()
	}
	return t.Name
}

// Kind of the type.
func (*PointerType) Kind() irkind.Kind { return irkind.Pointer }

// Equal returns true if other is a pointer to the same type.
func (t *PointerType) Equal(other Type) bool {
	o, ok := other.(*PointerType)
	return ok && t.Inner.Equal(o.Inner)
}

func (t *PointerType) String() string { return "pointer[" + t.Inner.String() + "]" }

// Kind of the type.
func (*FuncType) Kind() irkind.Kind { return irkind.Func }

// Equal returns true if other is the same signature.
func (t *FuncType) Equal(other Type) bool {
	o, ok := other.(*FuncType)
	if !ok || len(o.Params) != len(t.Params) {
		return false
	}
	for i, param := range t.Params {
		if !param.Equal(o.Params[i]) {
			return false
		}
	}
	if t.Result == nil || o.Result == nil {
		return t.Result == nil && o.Result == nil
	}
	return t.Result.Equal(o.Result)
}

func (t *FuncType) String() string {
	s := "func(" + typesString(t.Params) + ")"
	if t.Result != nil {
		s += " " + t.Result.String()
	}
	return s
}

// Kind of the type.
func (*InvalidType) Kind() irkind.Kind { return irkind.Invalid }

// Equal returns true if other is also invalid.
func (*InvalidType) Equal(other Type) bool {
	_, ok := other.(*InvalidType)
	return ok
}

func (*InvalidType) String() string { return "invalid" }

func typesString(typs []Type) string {
	ss := make([]string, len(typs))
	for i, typ := range typs {
		ss[i] = typ.String()
	}
	return strings.Join(ss, ", ")
}

// constEqual returns false only if both expressions are known at
// compile time and are different.
func constEqual(x, y Expr) bool {
	xv, xOk := IntValue(x)
	yv, yOk := IntValue(y)
	if !xOk || !yOk {
		return true
	}
	return xv == yv
}

// Rank returns the rank of a type. The rank of non-array types is 0.
func Rank(typ Type) int {
	arr, ok := typ.(*ArrayType)
	if !ok {
		return 0
	}
	return arr.Rank()
}

// ElemType returns the element type of an array or the type itself.
func ElemType(typ Type) Type {
	arr, ok := typ.(*ArrayType)
	if !ok {
		return typ
	}
	return arr.Elem
}

// TypeKey returns a string identifying a type structurally.
// Two types with the same key are equal. Aggregate types are
// keyed by the identity of their symbol.
func TypeKey(typ Type) string {
	switch typT := typ.(type) {
	case *StructType:
		if typT.Sym != nil {
			return fmt.Sprintf("type(%s@%p)", typT.Name, typT.Sym)
		}
	case *ListType:
		return "list[" + TypeKey(typT.Elem) + "]"
	case *ArrayType:
		dims := make([]string, len(typT.Dims))
		for i, dim := range typT.Dims {
			dims[i] = dimKey(dim)
		}
		return fmt.Sprintf("%s[%s]", TypeKey(typT.Elem), strings.Join(dims, ","))
	case *TupleType:
		keys := make([]string, len(typT.Elems))
		for i, elem := range typT.Elems {
			keys[i] = TypeKey(elem)
		}
		return "tuple[" + strings.Join(keys, ", ") + "]"
	case *PointerType:
		return "pointer[" + TypeKey(typT.Inner) + "]"
	}
	return typ.String()
}

// dimKey keys a dimension like its string representation but with
// the symbols referenced by non-constant bounds keyed by identity.
func dimKey(dim Dim) string {
	if dim.IsAssumed() {
		return ":"
	}
	length := "?"
	if dim.Length != nil {
		length = boundKey(dim.Length)
	}
	if dim.Start == nil {
		return length
	}
	return boundKey(dim.Start) + ":+" + length
}

func boundKey(bound Expr) string {
	if val, ok := IntValue(bound); ok {
		return fmt.Sprint(val)
	}
	var refs []string
	collect := &Copier{Replace: func(expr Expr) (Expr, bool) {
		if ref, ok := expr.(*VarRef); ok {
			refs = append(refs, fmt.Sprintf("%s@%p", ref.Sym.Name(), ref.Sym))
		}
		return nil, false
	}}
	collect.Expr(bound)
	return bound.String() + "{" + strings.Join(refs, ",") + "}"
}
