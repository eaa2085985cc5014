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

package arrayloop

import (
	"go/token"
	"slices"

	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
	"github.com/gx-org/irlower/build/rewrite"
)

var copier = &ir.Copier{}

func clone(expr ir.Expr) ir.Expr {
	return copier.Expr(expr)
}

// nest is a loop nest iterating over the elements of a reference array.
type nest struct {
	src  token.Pos
	ref  ir.Expr
	vars []*ir.Variable
}

func (l *lowerer) newNest(c *rewrite.Cursor, ref ir.Expr) *nest {
	return &nest{
		src:  c.Expr().Source(),
		ref:  ref,
		vars: l.indexVars(c.Scope(), ir.Rank(ref.Type())),
	}
}

func (l *lowerer) indexVars(scope *ir.Scope, rank int) []*ir.Variable {
	vars := l.indices[scope]
	for len(vars) < rank {
		vars = append(vars, irh.Var(scope, scope.UniqueName(indexName), ir.DefaultInt))
	}
	l.indices[scope] = vars
	return vars[:rank]
}

func dimOf(x ir.Expr, axis int) ir.Dim {
	return x.Type().(*ir.ArrayType).Dims[axis]
}

func lbound(x ir.Expr, axis int) ir.Expr {
	if start, ok := dimOf(x, axis).StaticStart(); ok {
		return irh.IntLit(start)
	}
	return irh.Intrinsic(ir.IntrinsicLBound, clone(x), irh.IntLit(int64(axis+1)))
}

func ubound(x ir.Expr, axis int) ir.Expr {
	dim := dimOf(x, axis)
	start, startOk := dim.StaticStart()
	length, lengthOk := ir.IntValue(dim.Length)
	if startOk && lengthOk {
		return irh.IntLit(start + length - 1)
	}
	return irh.Intrinsic(ir.IntrinsicUBound, clone(x), irh.IntLit(int64(axis+1)))
}

func size(x ir.Expr, axis int) ir.Expr {
	if length, ok := ir.IntValue(dimOf(x, axis).Length); ok {
		return irh.IntLit(length)
	}
	return irh.Intrinsic(ir.IntrinsicSize, clone(x), irh.IntLit(int64(axis+1)))
}

// index returns the index of x along an axis for the current iteration of the nest.
// The index is shifted when the lower bound of x differs from the lower bound of the reference.
func (n *nest) index(x ir.Expr, axis int) ir.Expr {
	i := irh.Ref(n.vars[axis])
	refStart, refOk := dimOf(n.ref, axis).StaticStart()
	xStart, xOk := dimOf(x, axis).StaticStart()
	if refOk && xOk {
		if refStart == xStart {
			return i
		}
		return irh.Binary(token.ADD, i, irh.IntLit(xStart-refStart))
	}
	if ref, ok := n.ref.(*ir.VarRef); ok {
		if xRef, ok := x.(*ir.VarRef); ok && ref.Sym == xRef.Sym {
			return i
		}
	}
	return irh.Binary(token.ADD, irh.Binary(token.SUB, i, lbound(n.ref, axis)), lbound(x, axis))
}

// item returns the element of x for the current iteration of the nest.
// Scalars are returned as is.
func (n *nest) item(x ir.Expr, sameBounds bool) ir.Expr {
	rank := ir.Rank(x.Type())
	if rank == 0 {
		return clone(x)
	}
	index := make([]ir.Expr, rank)
	for axis := range index {
		if sameBounds {
			index[axis] = irh.Ref(n.vars[axis])
		} else {
			index[axis] = n.index(x, axis)
		}
	}
	return &ir.ArrayItem{
		Src:   x.Source(),
		X:     clone(x),
		Index: index,
		Typ:   ir.ElemType(x.Type()),
	}
}

// loops wraps a statement into the loop nest.
// The innermost loop iterates over the first axis.
func (n *nest) loops(stmt ir.Stmt) ir.Stmt {
	for axis := range n.vars {
		stmt = &ir.DoLoop{
			Src: n.src,
			Head: ir.LoopHead{
				Var:   irh.Ref(n.vars[axis]),
				Start: lbound(n.ref, axis),
				End:   ubound(n.ref, axis),
			},
			Body: []ir.Stmt{stmt},
		}
	}
	return stmt
}

// elementExpr builds the operation on elements given the elements of the operands.
func elementExpr(expr ir.Expr, items []ir.Expr) ir.Expr {
	typ := ir.ElemType(expr.Type())
	var r ir.Expr
	switch e := expr.(type) {
	case *ir.BinaryExpr:
		r = &ir.BinaryExpr{Src: e.Src, Op: e.Op, X: items[0], Y: items[1], Typ: typ}
	case *ir.CompareExpr:
		r = &ir.CompareExpr{Src: e.Src, Op: e.Op, X: items[0], Y: items[1], Typ: typ}
	case *ir.BoolExpr:
		r = &ir.BoolExpr{Src: e.Src, Op: e.Op, X: items[0], Y: items[1], Typ: typ}
	case *ir.UnaryExpr:
		r = &ir.UnaryExpr{Src: e.Src, Op: e.Op, X: items[0], Typ: typ}
	case *ir.CastExpr:
		r = &ir.CastExpr{Src: e.Src, X: items[0], Typ: typ}
	case *ir.CallExpr:
		r = &ir.CallExpr{Src: e.Src, Func: e.Func, Args: items, Typ: typ}
	}
	ir.Fold(r)
	return r
}

func (l *lowerer) lowerElementwise(c *rewrite.Cursor, expr ir.Expr, operands []*ir.Expr) {
	for _, op := range operands {
		if !l.hoist(c, op) {
			return
		}
	}
	ref := firstArray(operands)
	shape := ref.Type().(*ir.ArrayType)
	resultType := shape.WithDims(shape.Dims)
	resultType.Elem = ir.ElemType(expr.Type())
	dest, isTarget, ok := l.destination(c, resultType, ref)
	if !ok {
		return
	}
	n := l.newNest(c, ref)
	items := make([]ir.Expr, len(operands))
	for i, op := range operands {
		items[i] = n.item(*op, false)
	}
	assign := &ir.Assignment{
		Src:    expr.Source(),
		Target: n.item(dest, !isTarget),
		Value:  elementExpr(expr, items),
	}
	loops := n.loops(assign)
	if isTarget {
		c.ReplaceStmt(loops)
		return
	}
	c.InsertBefore(loops)
	c.Replace(clone(dest))
}

func (l *lowerer) lowerResultAsArg(c *rewrite.Cursor, call *ir.CallExpr) {
	shape, ok := call.Typ.(*ir.ArrayType)
	if !ok {
		l.err.AppendCodef(call.Source(), fmterr.UnsupportedArrayOperation, "cannot lower %s: result of type %s passed as an argument is not an array", call, call.Typ)
		return
	}
	dest, isTarget, ok := l.destination(c, shape, nil)
	if !ok {
		return
	}
	stmt := &ir.CallStmt{
		Src:  call.Src,
		Func: call.Func,
		Args: append(slices.Clone(call.Args), clone(dest)),
	}
	if isTarget {
		c.ReplaceStmt(stmt)
		return
	}
	c.InsertBefore(stmt)
	c.Replace(clone(dest))
}

// destination returns where the result of an array operation is written.
// The target of the assignment is used if the operation is the value being assigned.
// Otherwise, a temporary array is created.
func (l *lowerer) destination(c *rewrite.Cursor, shape *ir.ArrayType, ref ir.Expr) (dest ir.Expr, isTarget bool, ok bool) {
	if c.Depth() == 0 && c.Field() == rewrite.FieldValue {
		if assign, isAssign := c.Stmt().(*ir.Assignment); isAssign {
			if target, isRef := assign.Target.(*ir.VarRef); isRef && ir.Rank(target.Type()) == shape.Rank() {
				return target, true, true
			}
		}
	}
	tmp, ok := l.temporary(c, shape, ref)
	if !ok {
		return nil, false, false
	}
	return irh.Ref(tmp), false, true
}

// temporary defines a new array with the given shape in the current scope.
// If the shape is not known at compile time, the array is allocated
// before the statement using either the shape of ref or the extents of the shape.
func (l *lowerer) temporary(c *rewrite.Cursor, shape *ir.ArrayType, ref ir.Expr) (*ir.Variable, bool) {
	scope := c.Scope()
	if isStatic(shape) {
		typ := shape.WithDims(copier.Dims(shape.Dims))
		return irh.Var(scope, scope.UniqueName(tmpArrayName), typ), true
	}
	dims := make([]ir.Dim, shape.Rank())
	for axis := range dims {
		if ref != nil {
			dims[axis] = ir.Dim{Start: lbound(ref, axis), Length: size(ref, axis)}
			continue
		}
		dim := shape.Dims[axis]
		if dim.Length == nil {
			l.err.AppendCodef(c.Expr().Source(), fmterr.UnsupportedArrayOperation, "cannot lower %s: the shape of its result is unknown", c.Expr())
			return nil, false
		}
		dims[axis] = ir.Dim{Start: clone(dim.LowerBound()), Length: clone(dim.Length)}
	}
	tmp := ir.NewVariable(scope.UniqueName(tmpArrayName), shape.WithDims(make([]ir.Dim, shape.Rank())), ir.IntentLocal)
	tmp.Storage = ir.StorageAllocatable
	irh.Define(scope, tmp)
	c.InsertBefore(&ir.Allocate{
		Src:    c.Expr().Source(),
		Target: irh.Ref(tmp),
		Dims:   dims,
	})
	return tmp, true
}

func isStatic(shape *ir.ArrayType) bool {
	if _, ok := shape.StaticLengths(); !ok {
		return false
	}
	for _, dim := range shape.Dims {
		if _, ok := dim.StaticStart(); !ok {
			return false
		}
	}
	return true
}

// hoist evaluates an operand before the statement when it is not a variable or a literal.
func (l *lowerer) hoist(c *rewrite.Cursor, op *ir.Expr) bool {
	x := *op
	switch x.(type) {
	case *ir.VarRef, *ir.IntLit, *ir.RealLit, *ir.ComplexLit, *ir.LogicalLit, *ir.StringLit:
		return true
	}
	if val := ir.Value(x); val != nil {
		*op = clone(val)
		return true
	}
	scope := c.Scope()
	var tmp *ir.Variable
	if ir.Rank(x.Type()) == 0 {
		tmp = irh.Var(scope, scope.UniqueName(tmpScalarName), x.Type())
	} else {
		var ok bool
		if tmp, ok = l.temporary(c, x.Type().(*ir.ArrayType), nil); !ok {
			return false
		}
	}
	c.InsertBefore(&ir.Assignment{
		Src:    x.Source(),
		Target: irh.Ref(tmp),
		Value:  x,
	})
	*op = irh.Ref(tmp)
	return true
}
