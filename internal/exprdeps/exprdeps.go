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

// Package exprdeps extracts the variables an IR expression depends on.
package exprdeps

import (
	"slices"

	"github.com/gx-org/irlower/base/ordered"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/rewrite"
)

func vars(done *ordered.Map[*ir.Variable, struct{}], expr ir.Expr) {
	if ref, ok := expr.(*ir.VarRef); ok {
		if v, isVar := ir.Resolve(ref.Sym).(*ir.Variable); isVar {
			done.Store(v, struct{}{})
		}
		return
	}
	for _, child := range rewrite.Children(expr) {
		vars(done, *child)
	}
}

// Vars returns the variables read by an expression in the order of first use.
// Each variable is listed once.
func Vars(expr ir.Expr) []*ir.Variable {
	done := ordered.NewMap[*ir.Variable, struct{}]()
	vars(done, expr)
	return slices.Collect(done.Keys())
}

// Calls returns true if an expression calls a callable or an intrinsic.
func Calls(expr ir.Expr) bool {
	switch expr.(type) {
	case *ir.CallExpr, *ir.IntrinsicExpr:
		return true
	}
	for _, child := range rewrite.Children(expr) {
		if Calls(*child) {
			return true
		}
	}
	return false
}
