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

package rewrite

import (
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/internal/contract"
	"github.com/pkg/errors"
)

// Slot references the field of a node holding an expression.
// A slot is only valid while its statement is being walked.
type Slot struct {
	ref    *ir.Expr
	field  Field
	depth  int
	cursor *Cursor
}

// Get returns the expression stored in the slot.
func (s *Slot) Get() ir.Expr {
	return *s.ref
}

// Set replaces the expression stored in the slot.
func (s *Slot) Set(expr ir.Expr) {
	contract.AssertNodef(!s.cursor.done, *s.ref, "slot %s of statement %q used after the statement has been walked", s.field, s.cursor.stmt)
	contract.AssertNodef(expr != nil, *s.ref, "cannot replace %s with nil", *s.ref)
	*s.ref = expr
}

// Field returns the field of the statement under which the slot is.
func (s *Slot) Field() Field {
	return s.field
}

// Depth returns the depth of the slot in the expression tree.
// The depth of an expression held directly by a statement is 0.
func (s *Slot) Depth() int {
	return s.depth
}

// Cursor is the state of a walker while it walks a statement.
type Cursor struct {
	walker *Walker
	scope  *ir.Scope
	stmt   ir.Stmt

	slot    *Slot
	parents []ir.Expr

	before       []ir.Stmt
	replacement  []ir.Stmt
	stmtReplaced bool
	exprReplaced bool
	revisit      bool
	limited      bool
	done         bool
}

// Scope returns the scope in which the current statement is defined.
func (c *Cursor) Scope() *ir.Scope {
	return c.scope
}

// Owner returns the symbol owning the body being walked.
func (c *Cursor) Owner() ir.ScopeOwner {
	return c.scope.Owner()
}

// Stmt returns the current statement.
func (c *Cursor) Stmt() ir.Stmt {
	return c.stmt
}

// Err returns the error appender of the walker.
func (c *Cursor) Err() *fmterr.Appender {
	return c.walker.Err
}

// Slot returns the slot being visited.
// Returns nil when the visitor is called on a statement.
func (c *Cursor) Slot() *Slot {
	return c.slot
}

// Expr returns the expression being visited.
func (c *Cursor) Expr() ir.Expr {
	contract.Assertf(c.slot != nil, "no expression is being visited in statement %q", c.stmt)
	return c.slot.Get()
}

// Field returns the field of the statement under which the current expression is.
func (c *Cursor) Field() Field {
	contract.Assertf(c.slot != nil, "no expression is being visited in statement %q", c.stmt)
	return c.slot.field
}

// Depth returns the depth of the current expression.
// The depth of an expression held directly by a statement is 0.
func (c *Cursor) Depth() int {
	contract.Assertf(c.slot != nil, "no expression is being visited in statement %q", c.stmt)
	return c.slot.depth
}

// Parents returns the expressions enclosing the current expression, outermost first.
func (c *Cursor) Parents() []ir.Expr {
	return c.parents
}

// Parent returns the expression directly enclosing the current expression.
// Returns nil if the current expression is held by the statement.
func (c *Cursor) Parent() ir.Expr {
	if len(c.parents) == 0 {
		return nil
	}
	return c.parents[len(c.parents)-1]
}

// Replace the current expression.
// The operands of the new expression are not visited unless Revisit is called.
func (c *Cursor) Replace(expr ir.Expr) {
	contract.Assertf(c.slot != nil, "no expression to replace in statement %q", c.stmt)
	c.slot.Set(expr)
	c.exprReplaced = true
}

// Revisit requests the walker to visit the current expression and its operands again.
func (c *Cursor) Revisit() {
	c.revisit = true
}

// InsertBefore queues statements inserted before the current statement
// once the walk of the current statement completes.
func (c *Cursor) InsertBefore(stmts ...ir.Stmt) {
	contract.Assertf(!c.done, "cannot insert statements before %q: statement has been walked", c.stmt)
	c.before = append(c.before, stmts...)
}

// ReplaceStmt replaces the current statement by a list of statements, which can be empty.
// The walk of the current statement stops once the visitor returns.
// The new statements are not walked.
func (c *Cursor) ReplaceStmt(stmts ...ir.Stmt) {
	contract.Assertf(!c.done, "cannot replace %q: statement has been walked", c.stmt)
	c.replacement = stmts
	c.stmtReplaced = true
}

// Walker returns the walker of the cursor.
func (c *Cursor) Walker() *Walker {
	return c.walker
}

func (c *Cursor) limitf(format string, a ...any) {
	c.limited = true
	err := errors.Errorf(format, a...)
	c.walker.Err.Append(fmterr.Limit(c.walker.Err.FSet().Position(c.stmt.Source(), err)))
}
