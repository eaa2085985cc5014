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

// Package arrayloop lowers elementwise operations on whole arrays to loops.
//
// An elementwise operation (arithmetic, comparison, logical operators, casts
// and calls to elemental callables) with at least one array operand is
// replaced by a loop nest computing the operation element by element. The
// result is written into the target of the enclosing assignment when the
// operation is the value of the assignment, or into a new temporary array.
//
// Calls to functions writing their array result into an output argument are
// replaced by call statements passing the destination as the last argument.
//
// The condition of a while loop with an array operation is moved into the
// body of the loop so that the operation is computed at every iteration.
//
// Operations inside container literals are not lowered.
package arrayloop

import (
	"go/token"

	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/lower/pass"
	"github.com/gx-org/irlower/build/rewrite"
)

const (
	indexName     = "__i"
	tmpArrayName  = "__tmp_arr"
	tmpScalarName = "__tmp"
)

// Pass lowers array operations to loops.
type Pass struct{}

var _ pass.Pass = (*Pass)(nil)

// New returns a new array-to-loop pass.
func New() *Pass {
	return &Pass{}
}

// Name of the pass.
func (*Pass) Name() string {
	return "arrayloop"
}

// Run the pass on all the bodies of a unit.
func (*Pass) Run(ctx *pass.Context) error {
	l := &lowerer{
		err:     ctx.Err,
		indices: make(map[*ir.Scope][]*ir.Variable),
	}
	ctx.Walker(l, rewrite.PostOrder).Unit(ctx.Unit)
	return nil
}

type lowerer struct {
	err *fmterr.Appender
	// indices are the loop variables created in each scope.
	// Loops generated by the pass are never nested in each other,
	// so the variables are shared by all the loops of a scope.
	indices map[*ir.Scope][]*ir.Variable
}

var _ rewrite.Visitor = (*lowerer)(nil)

var (
	binaryOps = map[token.Token]bool{
		token.ADD: true,
		token.SUB: true,
		token.MUL: true,
		token.QUO: true,
		token.REM: true,
	}
	unaryOps = map[token.Token]bool{
		token.ADD: true,
		token.SUB: true,
		token.NOT: true,
	}
	boolOps = map[token.Token]bool{
		token.LAND: true,
		token.LOR:  true,
	}
)

// elementwise returns references to the operands of an elementwise operation.
// Returns false if the expression is not an elementwise operation.
func elementwise(expr ir.Expr) ([]*ir.Expr, bool) {
	switch e := expr.(type) {
	case *ir.BinaryExpr:
		return []*ir.Expr{&e.X, &e.Y}, true
	case *ir.CompareExpr:
		return []*ir.Expr{&e.X, &e.Y}, true
	case *ir.BoolExpr:
		return []*ir.Expr{&e.X, &e.Y}, true
	case *ir.UnaryExpr:
		return []*ir.Expr{&e.X}, true
	case *ir.CastExpr:
		return []*ir.Expr{&e.X}, true
	case *ir.CallExpr:
		callee, ok := e.Callable()
		if !ok || !callee.Elemental {
			return nil, false
		}
		refs := make([]*ir.Expr, len(e.Args))
		for i := range e.Args {
			refs[i] = &e.Args[i]
		}
		return refs, true
	}
	return nil, false
}

func supported(expr ir.Expr) bool {
	switch e := expr.(type) {
	case *ir.BinaryExpr:
		return binaryOps[e.Op]
	case *ir.UnaryExpr:
		return unaryOps[e.Op]
	case *ir.BoolExpr:
		return boolOps[e.Op]
	}
	return true
}

func isContainer(expr ir.Expr) bool {
	switch expr.(type) {
	case *ir.ArrayConstant, *ir.ListConstant, *ir.TupleConstant:
		return true
	}
	return false
}

func firstArray(operands []*ir.Expr) ir.Expr {
	for _, op := range operands {
		if ir.Rank((*op).Type()) > 0 {
			return *op
		}
	}
	return nil
}

// Stmt checks the array operations of a statement before they are lowered.
// The statement is skipped if an operation cannot be lowered.
func (l *lowerer) Stmt(c *rewrite.Cursor) bool {
	ok := true
	for _, field := range rewrite.ExprFields(c.Stmt()) {
		ok = l.check(*field.Ref) && ok
	}
	if !ok {
		return false
	}
	if loop, isWhile := c.Stmt().(*ir.While); isWhile && lowered(loop.Cond) {
		exitUnless(loop)
	}
	return true
}

// lowered returns true if the pass lowers an operation of an expression.
func lowered(expr ir.Expr) bool {
	if isContainer(expr) {
		return false
	}
	if call, ok := expr.(*ir.CallExpr); ok {
		if callee, ok := call.Callable(); ok && callee.ResultAsArg {
			return true
		}
	}
	if operands, ok := elementwise(expr); ok && firstArray(operands) != nil {
		return true
	}
	for _, child := range rewrite.Children(expr) {
		if lowered(*child) {
			return true
		}
	}
	return false
}

// exitUnless moves the condition of a while loop into its body:
//
//	while true {
//		if !cond {
//			exit
//		}
//		...
//	}
//
// Statements computing the condition are then inserted in the loop
// and executed at every iteration.
func exitUnless(loop *ir.While) {
	exit := &ir.If{
		Src:  loop.Src,
		Cond: &ir.UnaryExpr{Src: loop.Src, Op: token.NOT, X: loop.Cond, Typ: loop.Cond.Type()},
		Body: []ir.Stmt{&ir.Exit{Src: loop.Src}},
	}
	loop.Cond = &ir.LogicalLit{Src: loop.Src, Val: true}
	loop.Body = append([]ir.Stmt{exit}, loop.Body...)
}

func (l *lowerer) check(expr ir.Expr) bool {
	if isContainer(expr) {
		return true
	}
	ok := true
	for _, child := range rewrite.Children(expr) {
		ok = l.check(*child) && ok
	}
	operands, isElementwise := elementwise(expr)
	if !isElementwise {
		return ok
	}
	first := firstArray(operands)
	if first == nil {
		if ir.Rank(expr.Type()) > 0 {
			return l.err.AppendCodef(expr.Source(), fmterr.UnsupportedArrayOperation, "cannot lower %s: array result without array operand", expr)
		}
		return ok
	}
	rank := ir.Rank(first.Type())
	for _, op := range operands {
		opRank := ir.Rank((*op).Type())
		if opRank == 0 || opRank == rank {
			continue
		}
		return l.err.AppendCodef(expr.Source(), fmterr.RankMismatch, "rank mismatch in %s: %s has rank %d but %s has rank %d", expr, first, rank, *op, opRank)
	}
	if !supported(expr) {
		return l.err.AppendCodef(expr.Source(), fmterr.UnsupportedArrayOperation, "operator not supported on arrays in %s", expr)
	}
	return ok
}

// Expr lowers an array operation once its operands have been lowered.
func (l *lowerer) Expr(c *rewrite.Cursor) {
	for _, parent := range c.Parents() {
		if isContainer(parent) {
			return
		}
	}
	expr := c.Expr()
	if call, ok := expr.(*ir.CallExpr); ok {
		if callee, ok := call.Callable(); ok && callee.ResultAsArg {
			l.lowerResultAsArg(c, call)
			return
		}
	}
	operands, ok := elementwise(expr)
	if !ok {
		return
	}
	if firstArray(operands) == nil {
		return
	}
	l.lowerElementwise(c, expr, operands)
}
