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

package ir_test

import (
	"go/token"
	"testing"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
)

func TestTypeEqual(t *testing.T) {
	global := ir.NewRootScope()
	n := irh.Var(global, "n", ir.DefaultInt)
	dynamic := &ir.ArrayType{Elem: ir.Real(64), Dims: []ir.Dim{{Length: irh.Ref(n)}}}
	aggA := irh.Define(global, ir.NewAggregateType("point"))
	aggB := ir.NewAggregateType("point")
	tests := []struct {
		x, y ir.Type
		want bool
	}{
		{x: ir.Integer(32), y: ir.Integer(32), want: true},
		{x: ir.Integer(32), y: ir.Integer(64), want: false},
		{x: ir.Integer(32), y: ir.Real(32), want: false},
		{x: ir.Array(ir.Real(64), 5), y: ir.Array(ir.Real(64), 5), want: true},
		{x: ir.Array(ir.Real(64), 5), y: ir.Array(ir.Real(64), 6), want: false},
		{x: ir.Array(ir.Real(64), 5), y: ir.Array(ir.Real(64), 5, 2), want: false},
		{x: ir.Array(ir.Real(64), 5), y: dynamic, want: true},
		{x: ir.Array(ir.Real(64), 5), y: ir.Array(ir.Real(32), 5), want: false},
		{x: &ir.ListType{Elem: ir.DefaultInt}, y: &ir.ListType{Elem: ir.DefaultInt}, want: true},
		{x: &ir.StructType{Name: "point", Sym: aggA}, y: &ir.StructType{Name: "point", Sym: aggB}, want: false},
		{x: &ir.StructType{Name: "point"}, y: &ir.StructType{Name: "point", Sym: aggB}, want: true},
		{x: &ir.FuncType{Params: []ir.Type{ir.DefaultInt}}, y: &ir.FuncType{Params: []ir.Type{ir.DefaultInt}, Result: ir.DefaultInt}, want: false},
		{x: ir.Character(irh.IntLit(3)), y: ir.Character(nil), want: true},
		{x: ir.Invalid(), y: ir.Invalid(), want: true},
	}
	for i, test := range tests {
		if got := test.x.Equal(test.y); got != test.want {
			t.Errorf("test %d: %s.Equal(%s) = %v but want %v", i, test.x, test.y, got, test.want)
		}
	}
}

func TestTypeKey(t *testing.T) {
	aggA := ir.NewAggregateType("point")
	aggB := ir.NewAggregateType("point")
	listA := &ir.ListType{Elem: &ir.StructType{Name: "point", Sym: aggA}}
	listB := &ir.ListType{Elem: &ir.StructType{Name: "point", Sym: aggB}}
	if ir.TypeKey(listA) == ir.TypeKey(listB) {
		t.Errorf("lists of two different aggregate types have the same key %q", ir.TypeKey(listA))
	}
	if got, want := ir.TypeKey(&ir.ListType{Elem: ir.DefaultInt}), "list[integer(32)]"; got != want {
		t.Errorf("got key %q but want %q", got, want)
	}
	if got, want := ir.TypeKey(ir.Array(ir.Real(64), 5, 3)), "real(64)[5,3]"; got != want {
		t.Errorf("got key %q but want %q", got, want)
	}
}

func TestTypeKeyDynamicDims(t *testing.T) {
	global := ir.NewRootScope()
	f := irh.Callable(global, "f")
	g := irh.Callable(global, "g")
	nf := irh.Var(f.Local(), "n", ir.DefaultInt)
	ng := irh.Var(g.Local(), "n", ir.DefaultInt)
	arrayOf := func(n *ir.Variable) ir.Type {
		return &ir.ArrayType{Elem: ir.Real(64), Dims: []ir.Dim{{Length: irh.Ref(n)}}}
	}
	if ir.TypeKey(arrayOf(nf)) == ir.TypeKey(arrayOf(ng)) {
		t.Errorf("arrays with lengths from two different symbols have the same key %q", ir.TypeKey(arrayOf(nf)))
	}
	if got, want := ir.TypeKey(arrayOf(nf)), ir.TypeKey(arrayOf(nf)); got != want {
		t.Errorf("got key %q but want %q", got, want)
	}
	listF := &ir.ListType{Elem: arrayOf(nf)}
	listG := &ir.ListType{Elem: arrayOf(ng)}
	if ir.TypeKey(listF) == ir.TypeKey(listG) {
		t.Errorf("lists of arrays with lengths from two different symbols have the same key %q", ir.TypeKey(listF))
	}
	withStart := &ir.ArrayType{Elem: ir.Real(64), Dims: []ir.Dim{{Start: irh.IntLit(0), Length: irh.IntLit(4)}, {}}}
	if got, want := ir.TypeKey(withStart), "real(64)[0:+4,:]"; got != want {
		t.Errorf("got key %q but want %q", got, want)
	}
}

func TestStaticShape(t *testing.T) {
	sh, ok := ir.StaticShape(ir.Array(ir.Real(32), 2, 3))
	if !ok {
		t.Fatalf("no static shape for a statically shaped array")
	}
	if sh.DType != dtype.Float32 || len(sh.AxisLengths) != 2 || sh.AxisLengths[0] != 2 || sh.AxisLengths[1] != 3 {
		t.Errorf("got shape %v but want float32[2 3]", sh)
	}
	global := ir.NewRootScope()
	n := irh.Var(global, "n", ir.DefaultInt)
	if _, ok := ir.StaticShape(&ir.ArrayType{Elem: ir.Real(32), Dims: []ir.Dim{{Length: irh.Ref(n)}}}); ok {
		t.Errorf("got a static shape for a dynamic array")
	}
	if _, ok := ir.StaticShape(&ir.ListType{Elem: ir.Real(32)}); ok {
		t.Errorf("got a static shape for a list")
	}
	if got := ir.DataType(ir.Logical()); got != dtype.Bool {
		t.Errorf("got data type %v but want %v", got, dtype.Bool)
	}
}

func TestFold(t *testing.T) {
	global := ir.NewRootScope()
	n := irh.Var(global, "n", ir.DefaultInt)
	offset := &ir.ArrayType{Elem: ir.Real(64), Dims: []ir.Dim{{Start: irh.IntLit(0), Length: irh.IntLit(5)}}}
	a := irh.Var(global, "a", offset)
	m := irh.Var(global, "m", ir.Array(ir.Real(64), 2, 3))
	tests := []struct {
		expr ir.Expr
		want int64
		ok   bool
	}{
		{expr: irh.Binary(token.ADD, irh.IntLit(2), irh.Binary(token.MUL, irh.IntLit(3), irh.IntLit(4))), want: 14, ok: true},
		{expr: irh.Binary(token.SUB, irh.IntLit(2), irh.Ref(n)), ok: false},
		{expr: irh.Binary(token.QUO, irh.IntLit(2), irh.IntLit(0)), ok: false},
		{expr: irh.Unary(token.SUB, irh.IntLit(7)), want: -7, ok: true},
		{expr: irh.Intrinsic(ir.IntrinsicSize, irh.Ref(m)), want: 6, ok: true},
		{expr: irh.Intrinsic(ir.IntrinsicSize, irh.Ref(m), irh.IntLit(2)), want: 3, ok: true},
		{expr: irh.Intrinsic(ir.IntrinsicLBound, irh.Ref(a), irh.IntLit(1)), want: 0, ok: true},
		{expr: irh.Intrinsic(ir.IntrinsicUBound, irh.Ref(a), irh.IntLit(1)), want: 4, ok: true},
		{expr: irh.Intrinsic(ir.IntrinsicUBound, irh.Ref(m), irh.IntLit(2)), want: 3, ok: true},
		{expr: &ir.CastExpr{X: irh.IntLit(3), Typ: ir.Integer(64)}, want: 3, ok: true},
	}
	for i, test := range tests {
		ir.Fold(test.expr)
		got, ok := ir.IntValue(test.expr)
		if ok != test.ok {
			t.Errorf("test %d: %s: got known value %v but want %v", i, test.expr, ok, test.ok)
			continue
		}
		if got != test.want {
			t.Errorf("test %d: %s: got %d but want %d", i, test.expr, got, test.want)
		}
	}
	cmp := irh.Compare(token.LSS, irh.IntLit(1), irh.IntLit(2))
	if lit, ok := ir.Value(cmp).(*ir.LogicalLit); !ok || !lit.Val {
		t.Errorf("1 < 2 folded to %v but want true", ir.Value(cmp))
	}
}

func TestString(t *testing.T) {
	global := ir.NewRootScope()
	a := irh.Var(global, "a", ir.Array(ir.Real(64), 5))
	b := irh.Var(global, "b", ir.Array(ir.Real(64), 5))
	c := irh.Var(global, "c", ir.Array(ir.Real(64), 5))
	i := irh.Var(global, "i", ir.DefaultInt)
	assign := irh.Assign(
		irh.Item(irh.Ref(c), irh.Ref(i)),
		irh.Binary(token.ADD, irh.Item(irh.Ref(a), irh.Ref(i)), irh.Item(irh.Ref(b), irh.Ref(i))),
	)
	loop := irh.Loop(i, irh.IntLit(1), irh.IntLit(5), assign)
	tests := []struct {
		node fmtNode
		want string
	}{
		{node: assign, want: "c[i] = a[i] + b[i]"},
		{node: loop, want: "do i = 1, 5 {\n\tc[i] = a[i] + b[i]\n}"},
		{node: irh.Binary(token.MUL, irh.Binary(token.ADD, irh.Ref(i), irh.IntLit(1)), irh.IntLit(2)), want: "(i + 1) * 2"},
		{node: &ir.ListSection{X: irh.Ref(a), Stop: irh.IntLit(3)}, want: "a[:3]"},
		{node: irh.RealLit(2), want: "2.0"},
		{node: ir.Array(ir.Real(64), 5, 2), want: "real(64)[5,2]"},
	}
	for i, test := range tests {
		if got := test.node.String(); got != test.want {
			t.Errorf("test %d: got %q but want %q", i, got, test.want)
		}
	}
}

type fmtNode interface {
	String() string
}
