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

package ir

import "go/token"

// Value returns the compile-time value of an expression as a literal.
// Returns nil if the value is not known.
func Value(expr Expr) Expr {
	switch exprT := expr.(type) {
	case nil:
		return nil
	case *IntLit, *RealLit, *ComplexLit, *LogicalLit, *StringLit:
		return expr
	case Foldable:
		return exprT.Value()
	}
	return nil
}

// IntValue returns the value of an integer expression if known at compile time.
func IntValue(expr Expr) (int64, bool) {
	lit, ok := Value(expr).(*IntLit)
	if !ok {
		return 0, false
	}
	return lit.Val, true
}

// Fold computes and caches the compile-time value of an expression and of its operands.
// Only integer arithmetic, integer comparisons, logical operations and
// shape queries on statically shaped arrays are folded.
// Returns the value or nil if the value cannot be computed.
func Fold(expr Expr) Expr {
	switch exprT := expr.(type) {
	case *BinaryExpr:
		Fold(exprT.X)
		Fold(exprT.Y)
		if exprT.Val == nil {
			exprT.Val = foldBinary(exprT)
		}
	case *CompareExpr:
		Fold(exprT.X)
		Fold(exprT.Y)
		if exprT.Val == nil {
			exprT.Val = foldCompare(exprT)
		}
	case *BoolExpr:
		Fold(exprT.X)
		Fold(exprT.Y)
		if exprT.Val == nil {
			exprT.Val = foldBool(exprT)
		}
	case *UnaryExpr:
		Fold(exprT.X)
		if exprT.Val == nil {
			exprT.Val = foldUnary(exprT)
		}
	case *CastExpr:
		Fold(exprT.X)
		if exprT.Val == nil {
			exprT.Val = foldCast(exprT)
		}
	case *IntrinsicExpr:
		for _, arg := range exprT.Args {
			Fold(arg)
		}
		if exprT.Val == nil {
			exprT.Val = foldIntrinsic(exprT)
		}
	}
	return Value(expr)
}

func intLit(src token.Pos, val int64, typ Type) *IntLit {
	if _, ok := typ.(*IntegerType); !ok {
		typ = DefaultInt
	}
	return &IntLit{Src: src, Val: val, Typ: typ}
}

func foldBinary(expr *BinaryExpr) Expr {
	x, xOk := IntValue(expr.X)
	y, yOk := IntValue(expr.Y)
	if !xOk || !yOk {
		return nil
	}
	if _, ok := expr.Typ.(*IntegerType); !ok {
		return nil
	}
	var r int64
	switch expr.Op {
	case token.ADD:
		r = x + y
	case token.SUB:
		r = x - y
	case token.MUL:
		r = x * y
	case token.QUO:
		if y == 0 {
			return nil
		}
		r = x / y
	case token.REM:
		if y == 0 {
			return nil
		}
		r = x % y
	default:
		return nil
	}
	return intLit(expr.Src, r, expr.Typ)
}

func foldCompare(expr *CompareExpr) Expr {
	x, xOk := IntValue(expr.X)
	y, yOk := IntValue(expr.Y)
	if !xOk || !yOk {
		return nil
	}
	var r bool
	switch expr.Op {
	case token.EQL:
		r = x == y
	case token.NEQ:
		r = x != y
	case token.LSS:
		r = x < y
	case token.LEQ:
		r = x <= y
	case token.GTR:
		r = x > y
	case token.GEQ:
		r = x >= y
	default:
		return nil
	}
	return &LogicalLit{Src: expr.Src, Val: r}
}

func foldBool(expr *BoolExpr) Expr {
	x, xOk := Value(expr.X).(*LogicalLit)
	y, yOk := Value(expr.Y).(*LogicalLit)
	if !xOk || !yOk {
		return nil
	}
	switch expr.Op {
	case token.LAND:
		return &LogicalLit{Src: expr.Src, Val: x.Val && y.Val}
	case token.LOR:
		return &LogicalLit{Src: expr.Src, Val: x.Val || y.Val}
	}
	return nil
}

func foldUnary(expr *UnaryExpr) Expr {
	if expr.Op == token.NOT {
		x, ok := Value(expr.X).(*LogicalLit)
		if !ok {
			return nil
		}
		return &LogicalLit{Src: expr.Src, Val: !x.Val}
	}
	x, ok := IntValue(expr.X)
	if !ok {
		return nil
	}
	switch expr.Op {
	case token.ADD:
		return intLit(expr.Src, x, expr.Typ)
	case token.SUB:
		return intLit(expr.Src, -x, expr.Typ)
	}
	return nil
}

func foldCast(expr *CastExpr) Expr {
	typ, ok := expr.Typ.(*IntegerType)
	if !ok {
		return nil
	}
	x, ok := IntValue(expr.X)
	if !ok {
		return nil
	}
	return intLit(expr.Src, x, typ)
}

func foldIntrinsic(expr *IntrinsicExpr) Expr {
	if len(expr.Args) == 0 {
		return nil
	}
	if expr.ID == IntrinsicLen {
		char, ok := expr.Args[0].Type().(*CharacterType)
		if !ok {
			return nil
		}
		n, ok := IntValue(char.Len)
		if !ok {
			return nil
		}
		return intLit(expr.Src, n, expr.Typ)
	}
	arr, ok := expr.Args[0].Type().(*ArrayType)
	if !ok {
		return nil
	}
	if expr.ID == IntrinsicSize && len(expr.Args) == 1 {
		lengths, ok := arr.StaticLengths()
		if !ok {
			return nil
		}
		size := int64(1)
		for _, l := range lengths {
			size *= int64(l)
		}
		return intLit(expr.Src, size, expr.Typ)
	}
	if len(expr.Args) != 2 {
		return nil
	}
	axis, ok := IntValue(expr.Args[1])
	if !ok || axis < 1 || int(axis) > len(arr.Dims) {
		return nil
	}
	dim := arr.Dims[axis-1]
	length, lengthOk := IntValue(dim.Length)
	start, startOk := dim.StaticStart()
	switch expr.ID {
	case IntrinsicSize:
		if !lengthOk {
			return nil
		}
		return intLit(expr.Src, length, expr.Typ)
	case IntrinsicLBound:
		if !startOk {
			return nil
		}
		return intLit(expr.Src, start, expr.Typ)
	case IntrinsicUBound:
		if !startOk || !lengthOk {
			return nil
		}
		return intLit(expr.Src, start+length-1, expr.Typ)
	}
	return nil
}
