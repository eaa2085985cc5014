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

// Package irhelper provides helper functions to build IR programmatically.
//
// Helpers panic on errors. They are meant to build IR for tests or for
// lowering passes when names have already been made unique.
package irhelper

import (
	"fmt"
	"go/token"

	"github.com/gx-org/irlower/build/ir"
)

// Define a symbol in a scope.
func Define[S ir.Symbol](scope *ir.Scope, sym S) S {
	if err := scope.Define(sym); err != nil {
		panic(fmt.Sprintf("cannot define %s: %v", sym.Name(), err))
	}
	return sym
}

// IntLit returns an integer literal of the default integer type.
func IntLit(v int64) *ir.IntLit {
	return &ir.IntLit{Val: v, Typ: ir.DefaultInt}
}

// RealLit returns a real literal with 64 bits.
func RealLit(v float64) *ir.RealLit {
	return &ir.RealLit{Val: v, Typ: ir.Real(64)}
}

// LogicalLit returns a logical literal.
func LogicalLit(v bool) *ir.LogicalLit {
	return &ir.LogicalLit{Val: v}
}

// Ref returns a reference to a variable.
func Ref(sym ir.Symbol) *ir.VarRef {
	return &ir.VarRef{Sym: sym}
}

// Var defines a local variable in a scope.
func Var(scope *ir.Scope, name string, typ ir.Type) *ir.Variable {
	return Define(scope, ir.NewVariable(name, typ, ir.IntentLocal))
}

// Arg appends an argument to a callable.
func Arg(c *ir.Callable, name string, typ ir.Type, intent ir.Intent) *ir.Variable {
	param := ir.NewVariable(name, typ, intent)
	if err := c.AddParam(param); err != nil {
		panic(fmt.Sprintf("cannot add parameter %s to %s: %v", name, c.Name(), err))
	}
	return param
}

// Result sets the result variable of a function.
func Result(c *ir.Callable, name string, typ ir.Type) *ir.Variable {
	result := ir.NewVariable(name, typ, ir.IntentReturn)
	if err := c.SetResult(result); err != nil {
		panic(fmt.Sprintf("cannot set the result %s of %s: %v", name, c.Name(), err))
	}
	return result
}

// Module defines a new module in a scope.
func Module(scope *ir.Scope, name string, deps ...string) *ir.Module {
	return Define(scope, ir.NewModule(name, deps...))
}

// Program defines a new program in a scope.
func Program(scope *ir.Scope, name string, body ...ir.Stmt) *ir.Program {
	prog := Define(scope, ir.NewProgram(name))
	prog.Body = body
	return prog
}

// Callable defines a new callable in a scope.
func Callable(scope *ir.Scope, name string) *ir.Callable {
	return Define(scope, ir.NewCallable(name))
}

func arrayOperandType(x, y ir.Expr) ir.Type {
	if ir.Rank(x.Type()) > 0 {
		return x.Type()
	}
	return y.Type()
}

// Binary returns an arithmetic operation.
// The type of the result is the type of the array operand if any, else the type of x.
func Binary(op token.Token, x, y ir.Expr) *ir.BinaryExpr {
	expr := &ir.BinaryExpr{Op: op, X: x, Y: y, Typ: arrayOperandType(x, y)}
	ir.Fold(expr)
	return expr
}

func logicalLike(typ ir.Type) ir.Type {
	arr, ok := typ.(*ir.ArrayType)
	if !ok {
		return ir.Logical()
	}
	return &ir.ArrayType{Elem: ir.Logical(), Dims: arr.Dims}
}

// Compare returns a comparison.
func Compare(op token.Token, x, y ir.Expr) *ir.CompareExpr {
	expr := &ir.CompareExpr{Op: op, X: x, Y: y, Typ: logicalLike(arrayOperandType(x, y))}
	ir.Fold(expr)
	return expr
}

// Bool returns a logical operation.
func Bool(op token.Token, x, y ir.Expr) *ir.BoolExpr {
	expr := &ir.BoolExpr{Op: op, X: x, Y: y, Typ: logicalLike(arrayOperandType(x, y))}
	ir.Fold(expr)
	return expr
}

// Unary returns a unary operation.
func Unary(op token.Token, x ir.Expr) *ir.UnaryExpr {
	expr := &ir.UnaryExpr{Op: op, X: x, Typ: x.Type()}
	ir.Fold(expr)
	return expr
}

// Item returns an element of an array.
func Item(x ir.Expr, index ...ir.Expr) *ir.ArrayItem {
	return &ir.ArrayItem{X: x, Index: index, Typ: ir.ElemType(x.Type())}
}

// Intrinsic returns a query returning an integer of the default type.
func Intrinsic(id ir.IntrinsicID, args ...ir.Expr) *ir.IntrinsicExpr {
	expr := &ir.IntrinsicExpr{ID: id, Args: args, Typ: ir.DefaultInt}
	ir.Fold(expr)
	return expr
}

// Call returns a call to a function.
// The type of the call is the type of the result of the function.
func Call(c *ir.Callable, args ...ir.Expr) *ir.CallExpr {
	var typ ir.Type = ir.Invalid()
	if c.Result != nil {
		typ = c.Result.Typ
	}
	return &ir.CallExpr{Func: c, Args: args, Typ: typ}
}

// Assign returns an assignment.
func Assign(target, value ir.Expr) *ir.Assignment {
	return &ir.Assignment{Target: target, Value: value}
}

// Loop returns a counted loop with a unit step.
func Loop(v *ir.Variable, start, end ir.Expr, body ...ir.Stmt) *ir.DoLoop {
	return &ir.DoLoop{
		Head: ir.LoopHead{Var: Ref(v), Start: start, End: end},
		Body: body,
	}
}
