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

// Package rewrite walks the IR tree and substitutes expressions and statements in place.
//
// A Walker visits the statements of a list in order. For each statement, the
// visitor is first called on the statement, then on every expression held by
// the statement, then the nested bodies of the statement are walked.
// Expressions are visited through slots: a slot references the field of the
// parent node holding the expression, so that a visitor can replace the
// expression in place.
package rewrite

import (
	"slices"

	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/internal/contract"
)

// Order in which an expression and its operands are visited.
type Order int

const (
	// PostOrder visits the operands of an expression before the expression.
	PostOrder Order = iota
	// PreOrder visits an expression before its operands.
	PreOrder
)

// DefaultMaxDepth is the maximum depth of an expression tree when not set by the walker.
const DefaultMaxDepth = 512

type (
	// Visitor is called by a walker for each statement and expression.
	Visitor interface {
		// Stmt is called before the expressions of a statement are visited.
		// Returns false to skip the expressions of the statement.
		// Nested statement bodies are walked in both cases.
		Stmt(c *Cursor) bool
		// Expr is called for each expression.
		Expr(c *Cursor)
	}

	// Funcs is a visitor calling functions. Nil functions are ignored.
	Funcs struct {
		StmtFunc func(c *Cursor) bool
		ExprFunc func(c *Cursor)
	}
)

var _ Visitor = Funcs{}

// Stmt calls StmtFunc if not nil.
func (f Funcs) Stmt(c *Cursor) bool {
	if f.StmtFunc == nil {
		return true
	}
	return f.StmtFunc(c)
}

// Expr calls ExprFunc if not nil.
func (f Funcs) Expr(c *Cursor) {
	if f.ExprFunc == nil {
		return
	}
	f.ExprFunc(c)
}

// Walker walks the IR tree.
type Walker struct {
	Visitor Visitor
	Order   Order
	// MaxDepth bounds the depth of expressions and the number of times
	// an expression is revisited. DefaultMaxDepth is used if zero.
	MaxDepth int
	// Err accumulates the errors reported while walking.
	Err *fmterr.Appender
}

func (w *Walker) maxDepth() int {
	if w.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return w.MaxDepth
}

// Unit walks the bodies of all the symbols of a compilation unit.
// Symbols defined while walking are not visited.
func (w *Walker) Unit(u *ir.Unit) {
	syms := slices.Collect(u.TopLevel())
	for _, sym := range syms {
		w.symbol(sym)
	}
}

// Scope walks the bodies of all the symbols of a scope and of their nested scopes.
// Symbols defined while walking are not visited.
// Block bodies are only visited when the block is entered by a statement.
func (w *Walker) Scope(scope *ir.Scope) {
	syms := slices.Collect(scope.Symbols())
	for _, sym := range syms {
		w.symbol(sym)
	}
}

func (w *Walker) symbol(sym ir.Symbol) {
	owner, ok := sym.(ir.ScopeOwner)
	if !ok {
		return
	}
	if _, isBlock := sym.(*ir.Block); isBlock {
		return
	}
	if body := ir.BodyOf(sym); body != nil {
		w.Stmts(owner.Local(), body)
	}
	w.Scope(owner.Local())
}

// Stmts walks a list of statements defined in a scope.
// The list is replaced by a new list including the statements
// inserted or substituted by the visitor.
func (w *Walker) Stmts(scope *ir.Scope, list *[]ir.Stmt) {
	contract.Requiref(w.Err != nil, "Err", "walker requires an error appender")
	contract.Requiref(w.Visitor != nil, "Visitor", "walker requires a visitor")
	stmts := *list
	var out []ir.Stmt
	changed := false
	for _, stmt := range stmts {
		res, same := w.stmt(scope, stmt)
		changed = changed || !same
		out = append(out, res...)
	}
	if changed {
		*list = out
	}
}

func (w *Walker) stmt(scope *ir.Scope, stmt ir.Stmt) (res []ir.Stmt, same bool) {
	contract.AssertNodef(stmt != nil, stmt, "nil statement in a statement list of %s", scope.Name())
	c := &Cursor{walker: w, scope: scope, stmt: stmt}
	defer func() { c.done = true }()
	if w.Visitor.Stmt(c) && !c.stmtReplaced {
		for _, field := range ExprFields(stmt) {
			if c.stmtReplaced || c.limited {
				break
			}
			w.expr(c, &Slot{ref: field.Ref, field: field.Field, cursor: c})
		}
	}
	if !c.stmtReplaced {
		for _, body := range Bodies(scope, stmt) {
			w.Stmts(body.Scope, body.List)
		}
	}
	if len(c.before) == 0 && !c.stmtReplaced {
		return []ir.Stmt{stmt}, true
	}
	res = append(res, c.before...)
	if c.stmtReplaced {
		return append(res, c.replacement...), false
	}
	return append(res, stmt), false
}

func (w *Walker) expr(c *Cursor, slot *Slot) {
	if *slot.ref == nil {
		return
	}
	maxDepth := w.maxDepth()
	if slot.depth >= maxDepth {
		c.limitf("expression nested more than %d levels deep", maxDepth)
		return
	}
	if w.Order == PreOrder {
		w.preOrder(c, slot, maxDepth)
		return
	}
	for visits := 0; ; visits++ {
		if visits > maxDepth {
			c.limitf("expression %s revisited more than %d times", *slot.ref, maxDepth)
			return
		}
		if !w.children(c, slot) {
			return
		}
		if !w.visit(c, slot) {
			return
		}
	}
}

func (w *Walker) preOrder(c *Cursor, slot *Slot, maxDepth int) {
	for visits := 0; ; visits++ {
		if visits > maxDepth {
			c.limitf("expression %s revisited more than %d times", *slot.ref, maxDepth)
			return
		}
		revisit := w.visit(c, slot)
		if c.stmtReplaced {
			return
		}
		if revisit {
			continue
		}
		if c.exprReplaced {
			// The operands of a replacement are only visited on request.
			return
		}
		break
	}
	w.children(c, slot)
}

// children visits the operands of the expression of a slot.
// Returns false if the walk of the statement needs to stop.
func (w *Walker) children(c *Cursor, slot *Slot) bool {
	c.parents = append(c.parents, *slot.ref)
	for _, ref := range Children(*slot.ref) {
		w.expr(c, &Slot{ref: ref, field: slot.field, depth: slot.depth + 1, cursor: c})
		if c.stmtReplaced || c.limited {
			break
		}
	}
	c.parents = c.parents[:len(c.parents)-1]
	return !c.stmtReplaced && !c.limited
}

// visit calls the visitor on a slot.
// Returns true if the visitor requested the slot to be visited again.
func (w *Walker) visit(c *Cursor, slot *Slot) bool {
	c.slot = slot
	c.revisit = false
	c.exprReplaced = false
	w.Visitor.Expr(c)
	c.slot = nil
	return c.revisit && !c.stmtReplaced
}
