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

// Package containers replaces list sections and list concatenations by
// calls to helper functions.
//
// A helper is generated once per operation and element type and stored
// in the global scope of the unit. Section helpers normalize their bounds
// at run time: lists are indexed from 0, negative indices count from the
// end of the list, the stop index is excluded, and omitted bounds default
// to the ends of the list implied by the sign of the step.
package containers

import (
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
	"github.com/gx-org/irlower/build/lower/pass"
	"github.com/gx-org/irlower/build/rewrite"
)

type op int

const (
	opSection op = iota
	opConcat
)

type helperKey struct {
	op   op
	elem string
}

// Pass replaces list operations by calls to helpers.
type Pass struct {
	unit    *ir.Unit
	helpers map[helperKey]*ir.Callable
}

var _ pass.Pass = (*Pass)(nil)

// New returns a new container pass.
func New() *Pass {
	return &Pass{}
}

// Name of the pass.
func (*Pass) Name() string {
	return "containers"
}

// Run the pass on all the bodies of a unit.
func (p *Pass) Run(ctx *pass.Context) error {
	ctx.Walker(rewrite.Funcs{ExprFunc: func(c *rewrite.Cursor) {
		p.lower(ctx.Unit, c)
	}}, rewrite.PostOrder).Unit(ctx.Unit)
	return nil
}

// helper returns the helper of an operation for a given element type.
// The helper is generated the first time it is requested.
func (p *Pass) helper(u *ir.Unit, o op, elem ir.Type) *ir.Callable {
	if p.unit != u {
		p.unit = u
		p.helpers = make(map[helperKey]*ir.Callable)
	}
	key := helperKey{op: o, elem: ir.TypeKey(elem)}
	if helper, ok := p.helpers[key]; ok {
		return helper
	}
	var helper *ir.Callable
	switch o {
	case opSection:
		helper = buildSection(u.Global, elem)
	case opConcat:
		helper = buildConcat(u.Global, elem)
	}
	p.helpers[key] = helper
	return helper
}

// SectionHelper returns the helper computing sections of lists of a given element type.
func (p *Pass) SectionHelper(u *ir.Unit, elem ir.Type) *ir.Callable {
	return p.helper(u, opSection, elem)
}

// ConcatHelper returns the helper concatenating lists of a given element type.
func (p *Pass) ConcatHelper(u *ir.Unit, elem ir.Type) *ir.Callable {
	return p.helper(u, opConcat, elem)
}

func (p *Pass) listType(c *rewrite.Cursor, typ ir.Type) (*ir.ListType, bool) {
	list, ok := typ.(*ir.ListType)
	if !ok {
		return nil, c.Err().AppendCodef(c.Expr().Source(), fmterr.UnsupportedType, "cannot lower %s: %s is not a list type", c.Expr(), typ)
	}
	return list, true
}

func optional(expr ir.Expr) (ir.Expr, ir.Expr) {
	if expr == nil {
		return irh.IntLit(0), irh.LogicalLit(false)
	}
	return expr, irh.LogicalLit(true)
}

func (p *Pass) lower(u *ir.Unit, c *rewrite.Cursor) {
	switch expr := c.Expr().(type) {
	case *ir.ListSection:
		list, ok := p.listType(c, expr.Typ)
		if !ok {
			return
		}
		start, hasStart := optional(expr.Start)
		stop, hasStop := optional(expr.Stop)
		step, hasStep := optional(expr.Step)
		c.Replace(&ir.CallExpr{
			Src:  expr.Src,
			Func: p.SectionHelper(u, list.Elem),
			Args: []ir.Expr{expr.X, start, stop, step, hasStart, hasStop, hasStep},
			Typ:  list,
		})
	case *ir.ListConcat:
		list, ok := p.listType(c, expr.Typ)
		if !ok {
			return
		}
		c.Replace(&ir.CallExpr{
			Src:  expr.Src,
			Func: p.ConcatHelper(u, list.Elem),
			Args: []ir.Expr{expr.X, expr.Y},
			Typ:  list,
		})
	}
}
