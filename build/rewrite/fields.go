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
	"fmt"

	"github.com/gx-org/irlower/build/ir"
)

// Field identifies the field of a statement holding an expression.
type Field int

// Fields of statements.
const (
	// FieldTarget is the target of an assignment or of an allocation.
	FieldTarget Field = iota
	// FieldValue is the value of an assignment or the value appended to a list.
	FieldValue
	// FieldCond is the condition of an if or a while statement.
	FieldCond
	FieldLoopVar
	FieldLoopStart
	FieldLoopEnd
	FieldLoopStep
	// FieldArg is an argument of a call statement.
	FieldArg
	// FieldPrint is a value printed by a print statement.
	FieldPrint
	FieldTest
	FieldMessage
	FieldDimStart
	FieldDimLength
	// FieldList is the list of a list append statement.
	FieldList
)

var fieldToString = map[Field]string{
	FieldTarget:    "target",
	FieldValue:     "value",
	FieldCond:      "cond",
	FieldLoopVar:   "loop variable",
	FieldLoopStart: "loop start",
	FieldLoopEnd:   "loop end",
	FieldLoopStep:  "loop step",
	FieldArg:       "argument",
	FieldPrint:     "print",
	FieldTest:      "test",
	FieldMessage:   "message",
	FieldDimStart:  "dimension start",
	FieldDimLength: "dimension length",
	FieldList:      "list",
}

func (f Field) String() string {
	s, ok := fieldToString[f]
	if !ok {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return s
}

// ExprField is a reference to an expression held by a statement.
type ExprField struct {
	Ref   *ir.Expr
	Field Field
}

// ExprFields returns references to the expressions of a statement in declaration order.
// Nested statement bodies are not included. References to nil expressions are skipped.
func ExprFields(stmt ir.Stmt) []ExprField {
	var fields []ExprField
	add := func(ref *ir.Expr, field Field) {
		if *ref == nil {
			return
		}
		fields = append(fields, ExprField{Ref: ref, Field: field})
	}
	switch s := stmt.(type) {
	case *ir.Assignment:
		add(&s.Target, FieldTarget)
		add(&s.Value, FieldValue)
	case *ir.If:
		add(&s.Cond, FieldCond)
	case *ir.While:
		add(&s.Cond, FieldCond)
	case *ir.DoLoop:
		add(&s.Head.Var, FieldLoopVar)
		add(&s.Head.Start, FieldLoopStart)
		add(&s.Head.End, FieldLoopEnd)
		add(&s.Head.Step, FieldLoopStep)
	case *ir.CallStmt:
		for i := range s.Args {
			add(&s.Args[i], FieldArg)
		}
	case *ir.Print:
		for i := range s.Values {
			add(&s.Values[i], FieldPrint)
		}
	case *ir.Assert:
		add(&s.Test, FieldTest)
		add(&s.Msg, FieldMessage)
	case *ir.Allocate:
		add(&s.Target, FieldTarget)
		for i := range s.Dims {
			add(&s.Dims[i].Start, FieldDimStart)
			add(&s.Dims[i].Length, FieldDimLength)
		}
	case *ir.ListAppend:
		add(&s.List, FieldList)
		add(&s.Value, FieldValue)
	case *ir.Return, *ir.Exit, *ir.Cycle, *ir.BlockCall:
	}
	return fields
}

// Bodies returns references to the nested statement lists of a statement
// together with the scope in which they are defined.
func Bodies(scope *ir.Scope, stmt ir.Stmt) []Body {
	switch s := stmt.(type) {
	case *ir.If:
		return []Body{{Scope: scope, List: &s.Body}, {Scope: scope, List: &s.Else}}
	case *ir.While:
		return []Body{{Scope: scope, List: &s.Body}}
	case *ir.DoLoop:
		return []Body{{Scope: scope, List: &s.Body}}
	case *ir.BlockCall:
		return []Body{{Scope: s.Block.Local(), List: &s.Block.Body}}
	}
	return nil
}

// Body is a list of statements in a scope.
type Body struct {
	Scope *ir.Scope
	List  *[]ir.Stmt
}

// Children returns references to the operands of an expression in declaration order.
// References to nil operands are skipped.
func Children(expr ir.Expr) []*ir.Expr {
	var refs []*ir.Expr
	add := func(ref *ir.Expr) {
		if *ref != nil {
			refs = append(refs, ref)
		}
	}
	addAll := func(exprs []ir.Expr) {
		for i := range exprs {
			add(&exprs[i])
		}
	}
	switch e := expr.(type) {
	case *ir.ArrayItem:
		add(&e.X)
		addAll(e.Index)
	case *ir.ArraySection:
		add(&e.X)
		for i := range e.Sections {
			add(&e.Sections[i].Lo)
			add(&e.Sections[i].Hi)
			add(&e.Sections[i].Step)
		}
	case *ir.ListItem:
		add(&e.X)
		add(&e.Index)
	case *ir.ListSection:
		add(&e.X)
		add(&e.Start)
		add(&e.Stop)
		add(&e.Step)
	case *ir.StringItem:
		add(&e.X)
		add(&e.Index)
	case *ir.StringSection:
		add(&e.X)
		add(&e.Lo)
		add(&e.Hi)
	case *ir.BinaryExpr:
		add(&e.X)
		add(&e.Y)
	case *ir.CompareExpr:
		add(&e.X)
		add(&e.Y)
	case *ir.BoolExpr:
		add(&e.X)
		add(&e.Y)
	case *ir.UnaryExpr:
		add(&e.X)
	case *ir.CastExpr:
		add(&e.X)
	case *ir.CallExpr:
		addAll(e.Args)
	case *ir.IntrinsicExpr:
		addAll(e.Args)
	case *ir.ArrayConstant:
		addAll(e.Elems)
	case *ir.ListConstant:
		addAll(e.Elems)
	case *ir.TupleConstant:
		addAll(e.Elems)
	case *ir.ListConcat:
		add(&e.X)
		add(&e.Y)
	case *ir.IntLit, *ir.RealLit, *ir.ComplexLit, *ir.LogicalLit, *ir.StringLit, *ir.VarRef, *ir.ParamRef:
	}
	return refs
}
