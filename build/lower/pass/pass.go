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

// Package pass defines the interface of lowering passes and the context in which they run.
package pass

import (
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/rewrite"
)

// Pass transforms a compilation unit in place.
type Pass interface {
	// Name of the pass.
	Name() string
	// Run the pass on the unit of a context.
	//
	// Errors in the program are reported to the error appender of the context
	// and the pass continues with the rest of the unit.
	// A returned error aborts the pipeline.
	Run(ctx *Context) error
}

// Context is the context in which passes run.
type Context struct {
	Unit *ir.Unit
	Err  *fmterr.Appender
	// MaxDepth bounds the depth of expressions walked by passes.
	MaxDepth int
}

// NewContext returns a new context to run passes on a unit.
// Errors are reported in errs.
func NewContext(u *ir.Unit, errs *fmterr.Errors) *Context {
	return &Context{
		Unit:     u,
		Err:      errs.NewAppender(u.FSet),
		MaxDepth: rewrite.DefaultMaxDepth,
	}
}

// Walker returns a walker reporting errors to the context.
func (ctx *Context) Walker(v rewrite.Visitor, order rewrite.Order) *rewrite.Walker {
	return &rewrite.Walker{
		Visitor:  v,
		Order:    order,
		MaxDepth: ctx.MaxDepth,
		Err:      ctx.Err,
	}
}

// Func is a pass implemented by a function.
type Func struct {
	PassName string
	F        func(ctx *Context) error
}

var _ Pass = Func{}

// Name of the pass.
func (p Func) Name() string { return p.PassName }

// Run calls the function of the pass.
func (p Func) Run(ctx *Context) error { return p.F(ctx) }
