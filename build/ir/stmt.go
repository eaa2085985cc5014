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
	"strings"

	irfmt "github.com/gx-org/irlower/base/fmt"
)

// Stmt is a statement.
type Stmt interface {
	SourceNode
	// String representation of the statement.
	String() string

	stmtNode()
}

type (
	// Assignment assigns a value to a target.
	Assignment struct {
		Src    token.Pos
		Target Expr
		Value  Expr
	}

	// If executes the body if the condition is true, else executes Else.
	If struct {
		Src  token.Pos
		Cond Expr
		Body []Stmt
		Else []Stmt
	}

	// While executes the body while the condition is true.
	While struct {
		Src  token.Pos
		Cond Expr
		Body []Stmt
	}

	// LoopHead is the head of a counted loop.
	// The bounds are inclusive. Step is nil for a unit step.
	LoopHead struct {
		Var        Expr
		Start, End Expr
		Step       Expr
	}

	// DoLoop is a counted loop.
	DoLoop struct {
		Src  token.Pos
		Head LoopHead
		Body []Stmt
	}

	// CallStmt calls a subroutine, or a function discarding its result.
	CallStmt struct {
		Src  token.Pos
		Func Symbol
		Args []Expr
	}

	// Return returns from the current callable.
	Return struct {
		Src token.Pos
	}

	// Exit breaks out of the innermost loop.
	Exit struct {
		Src token.Pos
	}

	// Cycle continues to the next iteration of the innermost loop.
	Cycle struct {
		Src token.Pos
	}

	// Print writes values to the standard output.
	Print struct {
		Src    token.Pos
		Values []Expr
	}

	// BlockCall enters a nested block scope.
	BlockCall struct {
		Src   token.Pos
		Block *Block
	}

	// Assert stops the program if the test is false.
	// Msg can be nil.
	Assert struct {
		Src  token.Pos
		Test Expr
		Msg  Expr
	}

	// Allocate allocates an allocatable variable.
	Allocate struct {
		Src    token.Pos
		Target Expr
		Dims   []Dim
	}

	// ListAppend appends a value at the end of a list.
	ListAppend struct {
		Src   token.Pos
		List  Expr
		Value Expr
	}
)

var (
	_ Stmt = (*Assignment)(nil)
	_ Stmt = (*If)(nil)
	_ Stmt = (*While)(nil)
	_ Stmt = (*DoLoop)(nil)
	_ Stmt = (*CallStmt)(nil)
	_ Stmt = (*Return)(nil)
	_ Stmt = (*Exit)(nil)
	_ Stmt = (*Cycle)(nil)
	_ Stmt = (*Print)(nil)
	_ Stmt = (*BlockCall)(nil)
	_ Stmt = (*Assert)(nil)
	_ Stmt = (*Allocate)(nil)
	_ Stmt = (*ListAppend)(nil)
)

func (*Assignment) node() {}
func (*If) node()         {}
func (*While) node()      {}
func (*DoLoop) node()     {}
func (*CallStmt) node()   {}
func (*Return) node()     {}
func (*Exit) node()       {}
func (*Cycle) node()      {}
func (*Print) node()      {}
func (*BlockCall) node()  {}
func (*Assert) node()     {}
func (*Allocate) node()   {}
func (*ListAppend) node() {}

func (*Assignment) stmtNode() {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*DoLoop) stmtNode()     {}
func (*CallStmt) stmtNode()   {}
func (*Return) stmtNode()     {}
func (*Exit) stmtNode()       {}
func (*Cycle) stmtNode()      {}
func (*Print) stmtNode()      {}
func (*BlockCall) stmtNode()  {}
func (*Assert) stmtNode()     {}
func (*Allocate) stmtNode()   {}
func (*ListAppend) stmtNode() {}

// Source returns the position of the statement in the source code.
func (s *Assignment) Source() token.Pos { return s.Src }

func (s *Assignment) String() string {
	return s.Target.String() + " = " + s.Value.String()
}

// Source returns the position of the statement in the source code.
func (s *If) Source() token.Pos { return s.Src }

func (s *If) String() string {
	r := "if " + s.Cond.String() + " " + bodyString(s.Body)
	if len(s.Else) > 0 {
		r += " else " + bodyString(s.Else)
	}
	return r
}

// Source returns the position of the statement in the source code.
func (s *While) Source() token.Pos { return s.Src }

func (s *While) String() string {
	return "while " + s.Cond.String() + " " + bodyString(s.Body)
}

// Source returns the position of the statement in the source code.
func (s *DoLoop) Source() token.Pos { return s.Src }

func (s *DoLoop) String() string {
	return "do " + s.Head.String() + " " + bodyString(s.Body)
}

func (h LoopHead) String() string {
	r := fmt.Sprintf("%s = %s, %s", h.Var.String(), h.Start.String(), h.End.String())
	if h.Step != nil {
		r += ", " + h.Step.String()
	}
	return r
}

// Source returns the position of the statement in the source code.
func (s *CallStmt) Source() token.Pos { return s.Src }

func (s *CallStmt) String() string {
	return "call " + s.Func.Name() + "(" + exprsString(s.Args) + ")"
}

// Source returns the position of the statement in the source code.
func (s *Return) Source() token.Pos { return s.Src }

func (s *Return) String() string { return "return" }

// Source returns the position of the statement in the source code.
func (s *Exit) Source() token.Pos { return s.Src }

func (s *Exit) String() string { return "exit" }

// Source returns the position of the statement in the source code.
func (s *Cycle) Source() token.Pos { return s.Src }

func (s *Cycle) String() string { return "cycle" }

// Source returns the position of the statement in the source code.
func (s *Print) Source() token.Pos { return s.Src }

func (s *Print) String() string { return "print " + exprsString(s.Values) }

// Source returns the position of the statement in the source code.
func (s *BlockCall) Source() token.Pos { return s.Src }

func (s *BlockCall) String() string {
	return "block " + s.Block.Name() + " " + bodyString(s.Block.Body)
}

// Source returns the position of the statement in the source code.
func (s *Assert) Source() token.Pos { return s.Src }

func (s *Assert) String() string {
	r := "assert " + s.Test.String()
	if s.Msg != nil {
		r += ", " + s.Msg.String()
	}
	return r
}

// Source returns the position of the statement in the source code.
func (s *Allocate) Source() token.Pos { return s.Src }

func (s *Allocate) String() string {
	dims := make([]string, len(s.Dims))
	for i, dim := range s.Dims {
		dims[i] = dim.String()
	}
	return "allocate " + s.Target.String() + "[" + strings.Join(dims, ",") + "]"
}

// Source returns the position of the statement in the source code.
func (s *ListAppend) Source() token.Pos { return s.Src }

func (s *ListAppend) String() string {
	return "append(" + s.List.String() + ", " + s.Value.String() + ")"
}

// StmtsString returns a string representation of a list of statements, one statement per line.
func StmtsString(stmts []Stmt) string {
	ss := make([]string, len(stmts))
	for i, stmt := range stmts {
		ss[i] = stmt.String()
	}
	return strings.Join(ss, "\n")
}

func bodyString(body []Stmt) string {
	if len(body) == 0 {
		return "{}"
	}
	return "{\n" + irfmt.Indent(StmtsString(body)) + "\n}"
}
