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

package llvmdecl_test

import (
	"go/token"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/irlower/build/backend/llvmdecl"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"

	llir "github.com/llir/llvm/ir"
)

func newDeclarer() (*llvmdecl.Declarer, *fmterr.Errors) {
	errs := &fmterr.Errors{}
	return llvmdecl.New(errs.NewAppender(token.NewFileSet())), errs
}

func codes(errs *fmterr.Errors) []fmterr.Code {
	var cs []fmterr.Code
	for _, err := range errs.Errors() {
		cs = append(cs, fmterr.CodeOf(err))
	}
	return cs
}

func assumed(elem ir.Type) *ir.ArrayType {
	return &ir.ArrayType{Elem: elem, Dims: []ir.Dim{{}}}
}

func TestTypes(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		want string
	}{
		{typ: ir.Integer(32), want: "i32"},
		{typ: ir.Integer(64), want: "i64"},
		{typ: ir.Real(32), want: "float"},
		{typ: ir.Real(64), want: "double"},
		{typ: ir.Logical(), want: "i1"},
		{typ: ir.Complex(64), want: "{ double, double }"},
		{typ: ir.Character(irh.IntLit(8)), want: "[8 x i8]"},
		{typ: ir.Character(nil), want: "i8"},
		{typ: ir.Array(ir.Real(64), 5), want: "[5 x double]"},
		{typ: ir.Array(ir.Integer(32), 2, 3), want: "[3 x [2 x i32]]"},
		{typ: ir.Array(ir.Character(irh.IntLit(4)), 2), want: "[2 x [4 x i8]]"},
		{typ: assumed(ir.Real(64)), want: "double"},
		{typ: &ir.ListType{Elem: ir.Integer(32)}, want: "i8*"},
		{typ: &ir.PointerType{Inner: ir.Real(32)}, want: "float*"},
	}
	for i, test := range tests {
		d, errs := newDeclarer()
		got, ok := d.Type(test.typ, token.NoPos)
		if !ok {
			t.Errorf("test %d: cannot convert %s: %v", i, test.typ, errs)
			continue
		}
		if got.String() != test.want {
			t.Errorf("test %d: type %s converted to %s but want %s", i, test.typ, got.String(), test.want)
		}
	}
}

func TestUnsupportedTypes(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		code fmterr.Code
	}{
		{typ: ir.Integer(8), code: fmterr.UnsupportedType},
		{typ: ir.Real(16), code: fmterr.UnsupportedType},
		{typ: ir.Array(ir.Integer(8), 3), code: fmterr.UnsupportedType},
		{typ: &ir.TupleType{Elems: []ir.Type{ir.Real(64)}}, code: fmterr.UnsupportedType},
		{typ: &ir.StructType{Name: "point"}, code: fmterr.UnresolvedSymbol},
	}
	for i, test := range tests {
		d, errs := newDeclarer()
		if got, ok := d.Type(test.typ, token.NoPos); ok {
			t.Errorf("test %d: type %s converted to %s but want an error", i, test.typ, got)
			continue
		}
		if diff := cmp.Diff([]fmterr.Code{test.code}, codes(errs)); diff != "" {
			t.Errorf("test %d: unexpected error codes:\n%s", i, diff)
		}
	}
}

func TestStruct(t *testing.T) {
	u := ir.NewUnit("test", token.NewFileSet())
	point := irh.Define(u.Global, ir.NewAggregateType("point"))
	for _, name := range []string{"x", "y"} {
		if err := point.AddMember(ir.NewVariable(name, ir.Real(64), ir.IntentLocal)); err != nil {
			t.Fatal(err)
		}
	}
	if err := point.AddMember(ir.NewVariable("next", &ir.PointerType{Inner: &ir.StructType{Sym: point}}, ir.IntentLocal)); err != nil {
		t.Fatal(err)
	}
	d, errs := newDeclarer()
	typ := &ir.StructType{Name: "point", Sym: point}
	first, ok := d.Type(typ, token.NoPos)
	if !ok {
		t.Fatalf("cannot convert %s: %v", typ, errs)
	}
	if got, want := first.String(), "%point"; got != want {
		t.Errorf("got type %s but want %s", got, want)
	}
	second, _ := d.Type(typ, token.NoPos)
	if first != second {
		t.Errorf("the same aggregate has been converted to two different LLVM types")
	}
	if got := len(d.Module().TypeDefs); got != 1 {
		t.Errorf("got %d type definitions but want 1", got)
	}
}

func paramTypes(f *llir.Func) []string {
	var typs []string
	for _, p := range f.Params {
		typs = append(typs, p.Typ.String())
	}
	return typs
}

func TestDeclare(t *testing.T) {
	global := ir.NewRootScope()
	bound := irh.Callable(global, "__f_bound")
	bound.Pure = true
	irh.Arg(bound, "a", assumed(ir.Real(64)), ir.IntentIn)
	irh.Result(bound, "__result", ir.Integer(32))

	add := irh.Callable(global, "add")
	add.ResultAsArg = true
	irh.Arg(add, "x", ir.Array(ir.Real(64), 5), ir.IntentIn)
	irh.Arg(add, "y", ir.Array(ir.Real(64), 5), ir.IntentIn)
	irh.Result(add, "r", ir.Array(ir.Real(64), 5))

	sub := irh.Callable(global, "reset")
	sub.ABI = ir.ABIBindC
	irh.Arg(sub, "n", ir.Integer(64), ir.IntentInOut)

	tests := []struct {
		c      *ir.Callable
		ret    string
		params []string
	}{
		{c: bound, ret: "i32", params: []string{"double*"}},
		{c: add, ret: "void", params: []string{"[5 x double]*", "[5 x double]*", "[5 x double]*"}},
		{c: sub, ret: "void", params: []string{"i64*"}},
	}
	d, errs := newDeclarer()
	for i, test := range tests {
		f, ok := d.Declare(test.c)
		if !ok {
			t.Errorf("test %d: cannot declare %s: %v", i, test.c.Name(), errs)
			continue
		}
		if f.Name() != test.c.Name() {
			t.Errorf("test %d: function declared as %s but want %s", i, f.Name(), test.c.Name())
		}
		if got := f.Sig.RetType.String(); got != test.ret {
			t.Errorf("test %d: %s returns %s but want %s", i, f.Name(), got, test.ret)
		}
		if diff := cmp.Diff(test.params, paramTypes(f)); diff != "" {
			t.Errorf("test %d: unexpected parameter types:\n%s", i, diff)
		}
		again, _ := d.Declare(test.c)
		if again != f {
			t.Errorf("test %d: %s declared twice", i, f.Name())
		}
	}
	if got := len(d.Module().Funcs); got != len(tests) {
		t.Errorf("got %d functions in the module but want %d", got, len(tests))
	}
}

func TestArrayResultByValue(t *testing.T) {
	c := irh.Callable(ir.NewRootScope(), "__make")
	irh.Result(c, "r", ir.Array(ir.Real(64), 5))
	d, errs := newDeclarer()
	if _, ok := d.Declare(c); ok {
		t.Fatalf("%s declared but want an error", c.Name())
	}
	if diff := cmp.Diff([]fmterr.Code{fmterr.UnsupportedType}, codes(errs)); diff != "" {
		t.Errorf("unexpected error codes:\n%s", diff)
	}
}

func TestExport(t *testing.T) {
	u := ir.NewUnit("test", token.NewFileSet())
	util := irh.Module(u.Global, "util")
	csqrt := irh.Callable(util.Local(), "c_sqrt")
	csqrt.ABI = ir.ABIBindC
	irh.Arg(csqrt, "x", ir.Real(64), ir.IntentIn)
	irh.Result(csqrt, "r", ir.Real(64))
	f := irh.Callable(util.Local(), "f")
	irh.Result(f, "r", ir.Real(64))
	concat := irh.Callable(u.Global, "__list_concat")
	irh.Arg(concat, "x", &ir.ListType{Elem: ir.Real(64)}, ir.IntentIn)
	irh.Arg(concat, "y", &ir.ListType{Elem: ir.Real(64)}, ir.IntentIn)
	irh.Result(concat, "r", &ir.ListType{Elem: ir.Real(64)})

	errs := &fmterr.Errors{}
	mod, err := llvmdecl.Export(u, errs)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, fn := range mod.Funcs {
		names = append(names, fn.Name())
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"__list_concat", "c_sqrt"}, names); diff != "" {
		t.Errorf("unexpected declarations:\n%s", diff)
	}
}

func TestDuplicateNames(t *testing.T) {
	u := ir.NewUnit("test", token.NewFileSet())
	for _, name := range []string{"a", "b"} {
		mod := irh.Module(u.Global, name)
		irh.Callable(mod.Local(), "__f_bound")
	}
	errs := &fmterr.Errors{}
	mod, _ := llvmdecl.Export(u, errs)
	if diff := cmp.Diff([]fmterr.Code{fmterr.DuplicateSymbol}, codes(errs)); diff != "" {
		t.Errorf("unexpected error codes:\n%s", diff)
	}
	if got := len(mod.Funcs); got != 1 {
		t.Errorf("got %d functions but want 1", got)
	}
}
