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
	"go/token"
	"iter"
	"strings"

	irfmt "github.com/gx-org/irlower/base/fmt"
)

// Unit is a compilation unit: the root scope of a program and its modules.
type Unit struct {
	Name string
	FSet *token.FileSet
	// Global is the root scope of the unit.
	Global *Scope
	// Order lists the modules of the unit such that a module
	// always comes after the modules it depends on.
	// It is nil until modules have been ordered.
	Order []*Module
}

// NewUnit returns a new compilation unit with an empty global scope.
func NewUnit(name string, fset *token.FileSet) *Unit {
	return &Unit{Name: name, FSet: fset, Global: NewRootScope()}
}

// TopLevel returns the symbols of the global scope.
// Ordered modules come first, followed by all other symbols in definition order.
func (u *Unit) TopLevel() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		done := make(map[Symbol]bool, len(u.Order))
		for _, mod := range u.Order {
			done[mod] = true
			if !yield(mod) {
				return
			}
		}
		for sym := range u.Global.Symbols() {
			if done[sym] {
				continue
			}
			if !yield(sym) {
				return
			}
		}
	}
}

// Modules returns the modules defined in the global scope in definition order.
func (u *Unit) Modules() []*Module {
	var mods []*Module
	for sym := range u.Global.Symbols() {
		if mod, ok := sym.(*Module); ok {
			mods = append(mods, mod)
		}
	}
	return mods
}

// String returns a textual dump of the unit.
func (u *Unit) String() string {
	var b strings.Builder
	for sym := range u.TopLevel() {
		writeSymbol(&b, sym)
	}
	return b.String()
}

func writeSymbol(b *strings.Builder, sym Symbol) {
	switch s := sym.(type) {
	case *Variable:
		b.WriteString("var " + s.Name() + " " + s.Typ.String())
		if s.Init != nil {
			b.WriteString(" = " + s.Init.String())
		}
		b.WriteString("\n")
		return
	case *Alias:
		b.WriteString("alias " + s.Name() + " => " + s.OriginModule + "." + s.OriginalName + "\n")
		return
	case *Callable:
		b.WriteString("func " + s.Name() + s.Signature().String()[len("func"):] + " {\n")
	case *Module:
		b.WriteString("module " + s.Name() + " {\n")
	case *Program:
		b.WriteString("program " + s.Name() + " {\n")
	case *AggregateType:
		b.WriteString("type " + s.Name() + " {\n")
	case *Block:
		b.WriteString("block " + s.Name() + " {\n")
	}
	owner := sym.(ScopeOwner)
	var inner strings.Builder
	for child := range owner.Local().Symbols() {
		writeSymbol(&inner, child)
	}
	if body := BodyOf(sym); body != nil && len(*body) > 0 {
		inner.WriteString(StmtsString(*body) + "\n")
	}
	b.WriteString(irfmt.Indent(inner.String()))
	b.WriteString("}\n")
}
