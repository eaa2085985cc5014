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
	"iter"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/internal/base/scope"
)

// Scope is an ordered symbol table.
//
// A scope has at most one parent and, except for the root scope, is owned
// by exactly one symbol. Mutations are immediately visible to lookups.
type Scope struct {
	parent *Scope
	owner  ScopeOwner
	syms   *scope.RWScope[Symbol]
}

// NewRootScope returns a new scope without parent and owner.
func NewRootScope() *Scope {
	return newScope(nil)
}

func newScope(owner ScopeOwner) *Scope {
	return &Scope{
		owner: owner,
		syms:  scope.NewScope[Symbol](nil),
	}
}

func (s *Scope) setParent(parent *Scope) {
	s.parent = parent
	if parent == nil {
		s.syms.SetParent(nil)
		return
	}
	s.syms.SetParent(parent.syms)
}

// Parent returns the parent scope or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Owner returns the symbol owning the scope or nil for a root scope.
func (s *Scope) Owner() ScopeOwner {
	return s.owner
}

// Define a symbol in the scope.
// Returns an error if a symbol with the same name has already been defined in this scope.
// Shadowing a symbol defined in a parent scope is allowed.
func (s *Scope) Define(sym Symbol) error {
	name := sym.Name()
	if s.syms.IsLocal(name) {
		return fmterr.DuplicateSymbol.Errorf("%s already defined in scope %s", name, s.Name())
	}
	if sym.Parent() != nil {
		return fmterr.Internal(fmterr.DuplicateSymbol.Errorf("%s already defined in scope %s", name, sym.Parent().Name()))
	}
	s.syms.Define(name, sym)
	sym.base().parent = s
	if owner, ok := sym.(ScopeOwner); ok {
		owner.Local().setParent(s)
	}
	return nil
}

// Lookup returns a symbol defined in this scope, ignoring the parents.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	return s.syms.FindLocal(name)
}

// Resolve returns the symbol given its name by looking in this scope, then its parents.
func (s *Scope) Resolve(name string) (Symbol, bool) {
	return s.syms.Find(name)
}

// Symbols returns the symbols defined in the scope in definition order.
// Symbols defined while iterating are not visited.
func (s *Scope) Symbols() iter.Seq[Symbol] {
	return s.syms.LocalValues()
}

// Len returns the number of symbols defined in the scope.
func (s *Scope) Len() int {
	return s.syms.Len()
}

// UniqueName returns a name not visible from the scope.
// The result is base if available, otherwise base_1, base_2, ...
func (s *Scope) UniqueName(base string) string {
	if _, ok := s.Resolve(base); !ok {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if _, ok := s.Resolve(name); !ok {
			return name
		}
	}
}

// Rename changes the name of a symbol defined in the scope.
// The position of the symbol in the scope is preserved.
func (s *Scope) Rename(old, nw string) error {
	sym, ok := s.Lookup(old)
	if !ok {
		return fmterr.UnresolvedSymbol.Errorf("cannot rename %s: undefined in scope %s", old, s.Name())
	}
	if old == nw {
		return nil
	}
	if _, ok := s.Lookup(nw); ok {
		return fmterr.DuplicateSymbol.Errorf("cannot rename %s: %s already defined in scope %s", old, nw, s.Name())
	}
	if err := s.syms.Rename(old, nw); err != nil {
		return fmterr.Internal(err)
	}
	sym.base().name = nw
	return nil
}

const maxSuggestionDistance = 2

// Suggest returns the name visible from the scope which is the closest to a given name.
// Names of the scope and of its parents are considered. On equal distance,
// the name defined in the nearest scope wins.
// Returns false if no name is close enough.
func (s *Scope) Suggest(name string) (string, bool) {
	match := ""
	closest := maxSuggestionDistance + 1
	target := []rune(strings.ToLower(name))
	for sc := s; sc != nil; sc = sc.Parent() {
		for key := range sc.syms.Items().Keys() {
			d := levenshtein.DistanceForStrings(
				target,
				[]rune(strings.ToLower(key)),
				levenshtein.DefaultOptionsWithSub,
			)
			if d < closest {
				closest = d
				match = key
			}
		}
	}
	return match, match != ""
}

// Name of the scope, derived from its owners.
func (s *Scope) Name() string {
	if s.owner == nil {
		return "<global>"
	}
	return FullName(s.owner)
}

// String representation of the scope.
func (s *Scope) String() string {
	var names []string
	for sym := range s.Symbols() {
		names = append(names, sym.Name())
	}
	return fmt.Sprintf("%s{%s}", s.Name(), strings.Join(names, ", "))
}

// UndefinedError returns an error reporting that a name is not visible from the scope.
// The error includes the closest name if any.
func (s *Scope) UndefinedError(name string) error {
	if suggestion, ok := s.Suggest(name); ok {
		return fmterr.UnresolvedSymbol.Errorf("undefined: %s (did you mean %s?)", name, suggestion)
	}
	return fmterr.UnresolvedSymbol.Errorf("undefined: %s", name)
}

// AllScopes returns the scope and all the scopes owned by its symbols, recursively.
// Scopes are returned in definition order, parents before children.
func AllScopes(s *Scope) iter.Seq[*Scope] {
	return func(yield func(*Scope) bool) {
		allScopes(s, yield)
	}
}

func allScopes(s *Scope, yield func(*Scope) bool) bool {
	if !yield(s) {
		return false
	}
	for sym := range s.Symbols() {
		owner, ok := sym.(ScopeOwner)
		if !ok {
			continue
		}
		if !allScopes(owner.Local(), yield) {
			return false
		}
	}
	return true
}
