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

package containers

import (
	"go/token"

	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
)

const (
	sectionName = "__list_section"
	concatName  = "__list_concat"
	indexName   = "__i"
)

func ref(v *ir.Variable) ir.Expr { return irh.Ref(v) }

func lit(v int64) ir.Expr { return irh.IntLit(v) }

func set(v *ir.Variable, value ir.Expr) ir.Stmt {
	return irh.Assign(irh.Ref(v), value)
}

func when(cond ir.Expr, body ...ir.Stmt) *ir.If {
	return &ir.If{Cond: cond, Body: body}
}

func binary(op token.Token, x, y ir.Expr) ir.Expr {
	return irh.Binary(op, x, y)
}

func compare(op token.Token, x, y ir.Expr) ir.Expr {
	return irh.Compare(op, x, y)
}

func newHelper(global *ir.Scope, name string) *ir.Callable {
	helper := irh.Define(global, ir.NewCallable(global.UniqueName(name)))
	helper.Pure = true
	return helper
}

// appendAll returns a loop appending all the elements of src to dst.
func appendAll(i, dst, src *ir.Variable, elem ir.Type) ir.Stmt {
	last := binary(token.SUB, irh.Intrinsic(ir.IntrinsicListLen, ref(src)), lit(1))
	return irh.Loop(i, lit(0), last, &ir.ListAppend{
		List:  ref(dst),
		Value: &ir.ListItem{X: ref(src), Index: ref(i), Typ: elem},
	})
}

// buildConcat generates:
//
//	r = {}
//	do i = 0, listlen(x) - 1 { append(r, x[i]) }
//	do i = 0, listlen(y) - 1 { append(r, y[i]) }
func buildConcat(global *ir.Scope, elem ir.Type) *ir.Callable {
	listType := &ir.ListType{Elem: elem}
	helper := newHelper(global, concatName)
	x := irh.Arg(helper, "x", listType, ir.IntentIn)
	y := irh.Arg(helper, "y", listType, ir.IntentIn)
	r := irh.Result(helper, "r", listType)
	i := irh.Var(helper.Local(), helper.Local().UniqueName(indexName), ir.DefaultInt)
	helper.Body = []ir.Stmt{
		set(r, &ir.ListConstant{Typ: listType}),
		appendAll(i, r, x, elem),
		appendAll(i, r, y, elem),
	}
	return helper
}

// adjust normalizes a bound given by the caller.
// Negative bounds are counted from the end of the list.
// The result is clamped between floor and ceil.
func adjust(v, bound, n *ir.Variable, floor int64, ceilOp token.Token, ceil ir.Expr) []ir.Stmt {
	return []ir.Stmt{
		set(v, ref(bound)),
		&ir.If{
			Cond: compare(token.LSS, ref(v), lit(0)),
			Body: []ir.Stmt{
				set(v, binary(token.ADD, ref(v), ref(n))),
				when(compare(token.LSS, ref(v), lit(0)), set(v, lit(floor))),
			},
			Else: []ir.Stmt{
				when(compare(ceilOp, ref(v), ref(n)), set(v, ceil)),
			},
		},
	}
}

// buildSection generates a function computing x[start:stop:step].
// Bounds are ignored when their has_ flag is false.
func buildSection(global *ir.Scope, elem ir.Type) *ir.Callable {
	listType := &ir.ListType{Elem: elem}
	helper := newHelper(global, sectionName)
	x := irh.Arg(helper, "x", listType, ir.IntentIn)
	start := irh.Arg(helper, "start", ir.DefaultInt, ir.IntentIn)
	stop := irh.Arg(helper, "stop", ir.DefaultInt, ir.IntentIn)
	step := irh.Arg(helper, "step", ir.DefaultInt, ir.IntentIn)
	hasStart := irh.Arg(helper, "has_start", ir.Logical(), ir.IntentIn)
	hasStop := irh.Arg(helper, "has_stop", ir.Logical(), ir.IntentIn)
	hasStep := irh.Arg(helper, "has_step", ir.Logical(), ir.IntentIn)
	r := irh.Result(helper, "r", listType)

	local := helper.Local()
	n := irh.Var(local, "n", ir.DefaultInt)
	st := irh.Var(local, "st", ir.DefaultInt)
	lo := irh.Var(local, "lo", ir.DefaultInt)
	hi := irh.Var(local, "hi", ir.DefaultInt)
	count := irh.Var(local, "count", ir.DefaultInt)
	i := irh.Var(local, local.UniqueName(indexName), ir.DefaultInt)

	nMinus1 := func() ir.Expr { return binary(token.SUB, ref(n), lit(1)) }
	positive := func() ir.Expr { return compare(token.GTR, ref(st), lit(0)) }
	helper.Body = []ir.Stmt{
		set(n, irh.Intrinsic(ir.IntrinsicListLen, ref(x))),
		set(st, lit(1)),
		when(ref(hasStep), set(st, ref(step))),
		&ir.Assert{
			Test: compare(token.NEQ, ref(st), lit(0)),
			Msg:  &ir.StringLit{Val: "slice step cannot be zero"},
		},
		&ir.If{
			Cond: positive(),
			Body: []ir.Stmt{
				set(lo, lit(0)),
				set(hi, ref(n)),
				when(ref(hasStart), adjust(lo, start, n, 0, token.GTR, ref(n))...),
				when(ref(hasStop), adjust(hi, stop, n, 0, token.GTR, ref(n))...),
			},
			Else: []ir.Stmt{
				set(lo, nMinus1()),
				set(hi, lit(-1)),
				when(ref(hasStart), adjust(lo, start, n, -1, token.GEQ, nMinus1())...),
				when(ref(hasStop), adjust(hi, stop, n, -1, token.GEQ, nMinus1())...),
			},
		},
		set(count, lit(0)),
		&ir.If{
			Cond: positive(),
			Body: []ir.Stmt{
				when(compare(token.GTR, ref(hi), ref(lo)), set(count, binary(token.ADD,
					binary(token.QUO, binary(token.SUB, binary(token.SUB, ref(hi), ref(lo)), lit(1)), ref(st)),
					lit(1),
				))),
			},
			Else: []ir.Stmt{
				when(compare(token.GTR, ref(lo), ref(hi)), set(count, binary(token.ADD,
					binary(token.QUO, binary(token.SUB, binary(token.SUB, ref(lo), ref(hi)), lit(1)), irh.Unary(token.SUB, ref(st))),
					lit(1),
				))),
			},
		},
		set(r, &ir.ListConstant{Typ: listType}),
		irh.Loop(i, lit(0), binary(token.SUB, ref(count), lit(1)), &ir.ListAppend{
			List: ref(r),
			Value: &ir.ListItem{
				X:     ref(x),
				Index: binary(token.ADD, ref(lo), binary(token.MUL, ref(i), ref(st))),
				Typ:   elem,
			},
		}),
	}
	return helper
}
