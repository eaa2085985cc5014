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

// Package declcalls extracts calls from declarations.
//
// Backends cannot evaluate arbitrary calls while declaring a variable.
// Every bound of a declared type (array dimension or character length)
// calling a function or an intrinsic is moved into a new pure helper
// function taking the local variables read by the bound as parameters.
// The bound is then replaced by a call to the helper.
package declcalls

import (
	"slices"

	"github.com/golang/glog"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
	"github.com/gx-org/irlower/build/lower/pass"
	"github.com/gx-org/irlower/build/rewrite"
	"github.com/gx-org/irlower/internal/contract"
	"github.com/gx-org/irlower/internal/exprdeps"
)

const resultName = "__result"

// Pass extracts calls from declarations.
type Pass struct{}

var _ pass.Pass = (*Pass)(nil)

// New returns a new call-in-declaration extraction pass.
func New() *Pass {
	return &Pass{}
}

// Name of the pass.
func (*Pass) Name() string {
	return "declcalls"
}

// Run the pass on all the declarations of a unit.
func (*Pass) Run(ctx *pass.Context) error {
	x := &extractor{results: make(map[*ir.Callable]bool)}
	scopes := slices.Collect(ir.AllScopes(ctx.Unit.Global))
	for _, scope := range scopes {
		syms := slices.Collect(scope.Symbols())
		for _, sym := range syms {
			v, ok := sym.(*ir.Variable)
			if !ok {
				continue
			}
			x.variable(scope, v)
		}
	}
	if len(x.results) == 0 {
		return nil
	}
	ctx.Walker(rewrite.Funcs{ExprFunc: x.instantiate}, rewrite.PostOrder).Unit(ctx.Unit)
	return nil
}

type extractor struct {
	// results are the callables with a result type which has been rewritten.
	results map[*ir.Callable]bool
}

func (x *extractor) variable(scope *ir.Scope, v *ir.Variable) {
	typ, changed := x.typ(scope, v.Name(), v.Typ)
	if !changed {
		return
	}
	glog.V(2).Infof("declcalls: %s: %s -> %s", ir.FullName(v), v.Typ, typ)
	v.Typ = typ
	if v.Intent != ir.IntentReturn {
		return
	}
	if owner, ok := scope.Owner().(*ir.Callable); ok && owner.Result == v {
		x.results[owner] = true
	}
}

// typ returns a new type where bounds calling functions have been extracted.
// Returns false if the type has not been changed.
func (x *extractor) typ(scope *ir.Scope, name string, typ ir.Type) (ir.Type, bool) {
	switch t := typ.(type) {
	case *ir.CharacterType:
		length, changed := x.bound(scope, name, t.Len)
		if !changed {
			return t, false
		}
		return ir.Character(length), true
	case *ir.ArrayType:
		elem, changed := x.typ(scope, name, t.Elem)
		dims := slices.Clone(t.Dims)
		for i, dim := range dims {
			var startChanged, lengthChanged bool
			dims[i].Start, startChanged = x.bound(scope, name, dim.Start)
			dims[i].Length, lengthChanged = x.bound(scope, name, dim.Length)
			changed = changed || startChanged || lengthChanged
		}
		if !changed {
			return t, false
		}
		return &ir.ArrayType{Elem: elem, Dims: dims}, true
	}
	return typ, false
}

// bound replaces a bound calling functions by a call to a new helper.
func (x *extractor) bound(scope *ir.Scope, name string, expr ir.Expr) (ir.Expr, bool) {
	if expr == nil {
		return nil, false
	}
	if _, isCall := expr.(*ir.CallExpr); isCall {
		return expr, false
	}
	if !exprdeps.Calls(expr) {
		return expr, false
	}
	if val := ir.Fold(expr); val != nil {
		return (&ir.Copier{}).Expr(val), true
	}
	contract.AssertNodef(expr.Type() != nil, expr, "bound %s of %s has no type", expr, name)
	helperScope := scope
	helperName := "__bound"
	if owner := scope.Owner(); owner != nil {
		helperScope = owner.Parent()
		helperName = "__" + owner.Name() + "_bound"
	}
	contract.Assertf(helperScope != nil, "scope %s has no parent", scope.Name())
	helper := ir.NewCallable(helperScope.UniqueName(helperName))
	helper.Src = expr.Source()
	helper.Pure = true
	irh.Define(helperScope, helper)

	var args []ir.Expr
	syms := make(map[ir.Symbol]ir.Symbol)
	for _, dep := range exprdeps.Vars(expr) {
		if visible, ok := helperScope.Resolve(dep.Name()); ok && visible == dep {
			continue
		}
		param := irh.Arg(helper, dep.Name(), paramType(dep.Typ), ir.IntentIn)
		syms[dep] = param
		args = append(args, &ir.VarRef{Src: expr.Source(), Sym: dep})
	}
	result := irh.Result(helper, resultName, expr.Type())
	copier := &ir.Copier{Syms: syms}
	helper.Body = []ir.Stmt{&ir.Assignment{
		Src:    expr.Source(),
		Target: irh.Ref(result),
		Value:  copier.Expr(expr),
	}}
	return &ir.CallExpr{
		Src:  expr.Source(),
		Func: helper,
		Args: args,
		Typ:  expr.Type(),
	}, true
}

// paramType returns the type of a helper parameter receiving a variable of a given type.
// Arrays are passed with an assumed shape.
func paramType(typ ir.Type) ir.Type {
	switch t := typ.(type) {
	case *ir.ArrayType:
		return t.WithDims(make([]ir.Dim, t.Rank()))
	case *ir.CharacterType:
		return ir.Character(nil)
	}
	return typ
}

// instantiate updates the type of the calls to callables with a rewritten result type.
func (x *extractor) instantiate(c *rewrite.Cursor) {
	call, ok := c.Expr().(*ir.CallExpr)
	if !ok {
		return
	}
	callee, ok := call.Callable()
	if !ok || !x.results[callee] {
		return
	}
	args := call.Args
	copier := &ir.Copier{Replace: func(expr ir.Expr) (ir.Expr, bool) {
		ref, ok := expr.(*ir.ParamRef)
		if !ok || ref.Index >= len(args) {
			return nil, false
		}
		return (&ir.Copier{}).Expr(args[ref.Index]), true
	}}
	call.Typ = copier.Type(callee.ResultTemplate())
}
