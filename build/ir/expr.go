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

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

type (
	// Expr is an expression with a resolved type.
	Expr interface {
		SourceNode
		// Type returns the type of the expression.
		Type() Type
		// String representation of the expression.
		String() string

		exprNode()
	}

	// Foldable is an expression which may have a value known at compile time.
	Foldable interface {
		Expr
		// Value returns the cached compile-time value as a literal or nil.
		Value() Expr
	}
)

// ----------------------------------------------------------------------------
// Literals.
type (
	// IntLit is an integer literal.
	IntLit struct {
		Src token.Pos
		Val int64
		Typ Type
	}

	// RealLit is a real literal.
	RealLit struct {
		Src token.Pos
		Val float64
		Typ Type
	}

	// ComplexLit is a complex literal.
	ComplexLit struct {
		Src    token.Pos
		Re, Im float64
		Typ    Type
	}

	// LogicalLit is a logical literal.
	LogicalLit struct {
		Src token.Pos
		Val bool
	}

	// StringLit is a string literal.
	StringLit struct {
		Src token.Pos
		Val string
	}
)

// ----------------------------------------------------------------------------
// References.
type (
	// VarRef is a reference to a variable.
	VarRef struct {
		Src token.Pos
		Sym Symbol
	}

	// ParamRef is a placeholder for the argument of a callable.
	// It only appears in templates which have not been instantiated
	// with the actual arguments of a call.
	ParamRef struct {
		Src   token.Pos
		Index int
		Typ   Type
	}
)

// ----------------------------------------------------------------------------
// Indexing and slicing.
type (
	// ArrayItem is an element of an array.
	ArrayItem struct {
		Src   token.Pos
		X     Expr
		Index []Expr
		Typ   Type
	}

	// Section of an array along a dimension. Each field can be nil.
	Section struct {
		Lo, Hi, Step Expr
	}

	// ArraySection is a subset of an array.
	ArraySection struct {
		Src      token.Pos
		X        Expr
		Sections []Section
		Typ      Type
	}

	// ListItem is an element of a list.
	ListItem struct {
		Src   token.Pos
		X     Expr
		Index Expr
		Typ   Type
	}

	// ListSection is a subset of a list.
	// Start, Stop and Step are nil when omitted in the source.
	ListSection struct {
		Src               token.Pos
		X                 Expr
		Start, Stop, Step Expr
		Typ               Type
	}

	// StringItem is a character of a string.
	StringItem struct {
		Src   token.Pos
		X     Expr
		Index Expr
	}

	// StringSection is a substring.
	StringSection struct {
		Src    token.Pos
		X      Expr
		Lo, Hi Expr
		Typ    Type
	}
)

// ----------------------------------------------------------------------------
// Operators.
type (
	// BinaryExpr is an arithmetic operation between two operands.
	BinaryExpr struct {
		Src  token.Pos
		Op   token.Token
		X, Y Expr
		Typ  Type
		Val  Expr
	}

	// CompareExpr compares two operands.
	CompareExpr struct {
		Src  token.Pos
		Op   token.Token
		X, Y Expr
		Typ  Type
		Val  Expr
	}

	// BoolExpr is a logical operation between two operands.
	BoolExpr struct {
		Src  token.Pos
		Op   token.Token
		X, Y Expr
		Typ  Type
		Val  Expr
	}

	// UnaryExpr is an operation on a single operand.
	UnaryExpr struct {
		Src token.Pos
		Op  token.Token
		X   Expr
		Typ Type
		Val Expr
	}

	// CastExpr converts an expression to another type.
	CastExpr struct {
		Src token.Pos
		X   Expr
		Typ Type
		Val Expr
	}

	// CallExpr calls a function.
	CallExpr struct {
		Src  token.Pos
		Func Symbol
		Args []Expr
		Typ  Type
		Val  Expr
	}

	// IntrinsicID identifies a query computed by the compiler or the runtime.
	IntrinsicID int

	// IntrinsicExpr is a query on the shape or the length of a value.
	IntrinsicExpr struct {
		Src  token.Pos
		ID   IntrinsicID
		Args []Expr
		Typ  Type
		Val  Expr
	}
)

// Intrinsic queries.
const (
	// IntrinsicSize returns the number of elements of an array,
	// or the length of a dimension if a second argument is given.
	IntrinsicSize IntrinsicID = iota
	// IntrinsicLBound returns the lower bound of the dimension of an array.
	IntrinsicLBound
	// IntrinsicUBound returns the upper bound of the dimension of an array.
	IntrinsicUBound
	// IntrinsicLen returns the length of a string.
	IntrinsicLen
	// IntrinsicListLen returns the number of elements in a list.
	IntrinsicListLen
)

var intrinsicToString = map[IntrinsicID]string{
	IntrinsicSize:    "size",
	IntrinsicLBound:  "lbound",
	IntrinsicUBound:  "ubound",
	IntrinsicLen:     "len",
	IntrinsicListLen: "listlen",
}

func (id IntrinsicID) String() string {
	s, ok := intrinsicToString[id]
	if !ok {
		return fmt.Sprintf("Intrinsic(%d)", int(id))
	}
	return s
}

// ----------------------------------------------------------------------------
// Containers.
type (
	// ArrayConstant is an array literal.
	ArrayConstant struct {
		Src   token.Pos
		Elems []Expr
		Typ   Type
	}

	// ListConstant is a list literal.
	ListConstant struct {
		Src   token.Pos
		Elems []Expr
		Typ   Type
	}

	// TupleConstant is a tuple literal.
	TupleConstant struct {
		Src   token.Pos
		Elems []Expr
		Typ   Type
	}

	// ListConcat concatenates two lists.
	ListConcat struct {
		Src  token.Pos
		X, Y Expr
		Typ  Type
	}
)

var (
	_ Expr     = (*IntLit)(nil)
	_ Expr     = (*RealLit)(nil)
	_ Expr     = (*ComplexLit)(nil)
	_ Expr     = (*LogicalLit)(nil)
	_ Expr     = (*StringLit)(nil)
	_ Expr     = (*VarRef)(nil)
	_ Expr     = (*ParamRef)(nil)
	_ Expr     = (*ArrayItem)(nil)
	_ Expr     = (*ArraySection)(nil)
	_ Expr     = (*ListItem)(nil)
	_ Expr     = (*ListSection)(nil)
	_ Expr     = (*StringItem)(nil)
	_ Expr     = (*StringSection)(nil)
	_ Foldable = (*BinaryExpr)(nil)
	_ Foldable = (*CompareExpr)(nil)
	_ Foldable = (*BoolExpr)(nil)
	_ Foldable = (*UnaryExpr)(nil)
	_ Foldable = (*CastExpr)(nil)
	_ Foldable = (*CallExpr)(nil)
	_ Foldable = (*IntrinsicExpr)(nil)
	_ Expr     = (*ArrayConstant)(nil)
	_ Expr     = (*ListConstant)(nil)
	_ Expr     = (*TupleConstant)(nil)
	_ Expr     = (*ListConcat)(nil)
)

func (*IntLit) node()        {}
func (*RealLit) node()       {}
func (*ComplexLit) node()    {}
func (*LogicalLit) node()    {}
func (*StringLit) node()     {}
func (*VarRef) node()        {}
func (*ParamRef) node()      {}
func (*ArrayItem) node()     {}
func (*ArraySection) node()  {}
func (*ListItem) node()      {}
func (*ListSection) node()   {}
func (*StringItem) node()    {}
func (*StringSection) node() {}
func (*BinaryExpr) node()    {}
func (*CompareExpr) node()   {}
func (*BoolExpr) node()      {}
func (*UnaryExpr) node()     {}
func (*CastExpr) node()      {}
func (*CallExpr) node()      {}
func (*IntrinsicExpr) node() {}
func (*ArrayConstant) node() {}
func (*ListConstant) node()  {}
func (*TupleConstant) node() {}
func (*ListConcat) node()    {}

func (*IntLit) exprNode()        {}
func (*RealLit) exprNode()       {}
func (*ComplexLit) exprNode()    {}
func (*LogicalLit) exprNode()    {}
func (*StringLit) exprNode()     {}
func (*VarRef) exprNode()        {}
func (*ParamRef) exprNode()      {}
func (*ArrayItem) exprNode()     {}
func (*ArraySection) exprNode()  {}
func (*ListItem) exprNode()      {}
func (*ListSection) exprNode()   {}
func (*StringItem) exprNode()    {}
func (*StringSection) exprNode() {}
func (*BinaryExpr) exprNode()    {}
func (*CompareExpr) exprNode()   {}
func (*BoolExpr) exprNode()      {}
func (*UnaryExpr) exprNode()     {}
func (*CastExpr) exprNode()      {}
func (*CallExpr) exprNode()      {}
func (*IntrinsicExpr) exprNode() {}
func (*ArrayConstant) exprNode() {}
func (*ListConstant) exprNode()  {}
func (*TupleConstant) exprNode() {}
func (*ListConcat) exprNode()    {}

// Source returns the position of the literal in the source code.
func (e *IntLit) Source() token.Pos { return e.Src }

// Type of the literal.
func (e *IntLit) Type() Type { return e.Typ }

func (e *IntLit) String() string { return strconv.FormatInt(e.Val, 10) }

// Source returns the position of the literal in the source code.
func (e *RealLit) Source() token.Pos { return e.Src }

// Type of the literal.
func (e *RealLit) Type() Type { return e.Typ }

func (e *RealLit) String() string {
	s := strconv.FormatFloat(e.Val, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Source returns the position of the literal in the source code.
func (e *ComplexLit) Source() token.Pos { return e.Src }

// Type of the literal.
func (e *ComplexLit) Type() Type { return e.Typ }

func (e *ComplexLit) String() string {
	return fmt.Sprintf("(%g, %g)", e.Re, e.Im)
}

// Source returns the position of the literal in the source code.
func (e *LogicalLit) Source() token.Pos { return e.Src }

// Type of the literal.
func (e *LogicalLit) Type() Type { return Logical() }

func (e *LogicalLit) String() string { return strconv.FormatBool(e.Val) }

// Source returns the position of the literal in the source code.
func (e *StringLit) Source() token.Pos { return e.Src }

// Type of the literal.
func (e *StringLit) Type() Type {
	return Character(&IntLit{Val: int64(len(e.Val)), Typ: DefaultInt})
}

func (e *StringLit) String() string { return strconv.Quote(e.Val) }

// Source returns the position of the reference in the source code.
func (e *VarRef) Source() token.Pos { return e.Src }

// Type of the variable.
func (e *VarRef) Type() Type {
	v, ok := Resolve(e.Sym).(*Variable)
	if !ok {
		return Invalid()
	}
	return v.Typ
}

// Var returns the variable referenced by the expression after following aliases.
func (e *VarRef) Var() (*Variable, bool) {
	v, ok := Resolve(e.Sym).(*Variable)
	return v, ok
}

func (e *VarRef) String() string { return e.Sym.Name() }

// Source returns the position of the placeholder in the source code.
func (e *ParamRef) Source() token.Pos { return e.Src }

// Type of the parameter.
func (e *ParamRef) Type() Type { return e.Typ }

func (e *ParamRef) String() string { return fmt.Sprintf("$%d", e.Index) }

// Source returns the position of the expression in the source code.
func (e *ArrayItem) Source() token.Pos { return e.Src }

// Type of the element.
func (e *ArrayItem) Type() Type { return e.Typ }

func (e *ArrayItem) String() string {
	return operandString(e.X) + "[" + exprsString(e.Index) + "]"
}

// Source returns the position of the expression in the source code.
func (e *ArraySection) Source() token.Pos { return e.Src }

// Type of the section.
func (e *ArraySection) Type() Type { return e.Typ }

func (e *ArraySection) String() string {
	ss := make([]string, len(e.Sections))
	for i, sec := range e.Sections {
		ss[i] = sec.String()
	}
	return operandString(e.X) + "[" + strings.Join(ss, ", ") + "]"
}

func (s Section) String() string {
	r := optString(s.Lo) + ":" + optString(s.Hi)
	if s.Step != nil {
		r += ":" + s.Step.String()
	}
	return r
}

// Source returns the position of the expression in the source code.
func (e *ListItem) Source() token.Pos { return e.Src }

// Type of the element.
func (e *ListItem) Type() Type { return e.Typ }

func (e *ListItem) String() string {
	return operandString(e.X) + "[" + e.Index.String() + "]"
}

// Source returns the position of the expression in the source code.
func (e *ListSection) Source() token.Pos { return e.Src }

// Type of the section.
func (e *ListSection) Type() Type { return e.Typ }

func (e *ListSection) String() string {
	r := operandString(e.X) + "[" + optString(e.Start) + ":" + optString(e.Stop)
	if e.Step != nil {
		r += ":" + e.Step.String()
	}
	return r + "]"
}

// Source returns the position of the expression in the source code.
func (e *StringItem) Source() token.Pos { return e.Src }

// Type of the character.
func (e *StringItem) Type() Type {
	return Character(&IntLit{Val: 1, Typ: DefaultInt})
}

func (e *StringItem) String() string {
	return operandString(e.X) + "[" + e.Index.String() + "]"
}

// Source returns the position of the expression in the source code.
func (e *StringSection) Source() token.Pos { return e.Src }

// Type of the substring.
func (e *StringSection) Type() Type { return e.Typ }

func (e *StringSection) String() string {
	return operandString(e.X) + "[" + optString(e.Lo) + ":" + optString(e.Hi) + "]"
}

// Source returns the position of the expression in the source code.
func (e *BinaryExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *BinaryExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *BinaryExpr) Value() Expr { return e.Val }

func (e *BinaryExpr) String() string {
	return operandString(e.X) + " " + e.Op.String() + " " + operandString(e.Y)
}

// Source returns the position of the expression in the source code.
func (e *CompareExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *CompareExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *CompareExpr) Value() Expr { return e.Val }

func (e *CompareExpr) String() string {
	return operandString(e.X) + " " + e.Op.String() + " " + operandString(e.Y)
}

// Source returns the position of the expression in the source code.
func (e *BoolExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *BoolExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *BoolExpr) Value() Expr { return e.Val }

func (e *BoolExpr) String() string {
	return operandString(e.X) + " " + e.Op.String() + " " + operandString(e.Y)
}

// Source returns the position of the expression in the source code.
func (e *UnaryExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *UnaryExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *UnaryExpr) Value() Expr { return e.Val }

func (e *UnaryExpr) String() string {
	return e.Op.String() + operandString(e.X)
}

// Source returns the position of the expression in the source code.
func (e *CastExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *CastExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *CastExpr) Value() Expr { return e.Val }

func (e *CastExpr) String() string {
	return ElemType(e.Typ).String() + "(" + e.X.String() + ")"
}

// Source returns the position of the expression in the source code.
func (e *CallExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *CallExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *CallExpr) Value() Expr { return e.Val }

// Callable returns the callable being called after following aliases.
func (e *CallExpr) Callable() (*Callable, bool) {
	c, ok := Resolve(e.Func).(*Callable)
	return c, ok
}

func (e *CallExpr) String() string {
	return e.Func.Name() + "(" + exprsString(e.Args) + ")"
}

// Source returns the position of the expression in the source code.
func (e *IntrinsicExpr) Source() token.Pos { return e.Src }

// Type of the result.
func (e *IntrinsicExpr) Type() Type { return e.Typ }

// Value returns the value of the expression if known at compile time.
func (e *IntrinsicExpr) Value() Expr { return e.Val }

func (e *IntrinsicExpr) String() string {
	return e.ID.String() + "(" + exprsString(e.Args) + ")"
}

// Source returns the position of the expression in the source code.
func (e *ArrayConstant) Source() token.Pos { return e.Src }

// Type of the array.
func (e *ArrayConstant) Type() Type { return e.Typ }

func (e *ArrayConstant) String() string { return "[" + exprsString(e.Elems) + "]" }

// Source returns the position of the expression in the source code.
func (e *ListConstant) Source() token.Pos { return e.Src }

// Type of the list.
func (e *ListConstant) Type() Type { return e.Typ }

func (e *ListConstant) String() string { return "{" + exprsString(e.Elems) + "}" }

// Source returns the position of the expression in the source code.
func (e *TupleConstant) Source() token.Pos { return e.Src }

// Type of the tuple.
func (e *TupleConstant) Type() Type { return e.Typ }

func (e *TupleConstant) String() string { return "(" + exprsString(e.Elems) + ")" }

// Source returns the position of the expression in the source code.
func (e *ListConcat) Source() token.Pos { return e.Src }

// Type of the resulting list.
func (e *ListConcat) Type() Type { return e.Typ }

func (e *ListConcat) String() string {
	return "concat(" + e.X.String() + ", " + e.Y.String() + ")"
}

func optString(e Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func exprsString(exprs []Expr) string {
	ss := make([]string, len(exprs))
	for i, e := range exprs {
		ss[i] = e.String()
	}
	return strings.Join(ss, ", ")
}

// operandString wraps operators in parenthesis.
func operandString(e Expr) string {
	switch e.(type) {
	case *BinaryExpr, *CompareExpr, *BoolExpr:
		return "(" + e.String() + ")"
	}
	return e.String()
}
