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

// Package scope provides types for modeling lexical scopes as chained, ordered namespaces.
package scope

import (
	"fmt"
	"iter"
	"strings"

	"github.com/pkg/errors"
	"github.com/gx-org/irlower/base/ordered"
)

// Scope provides a set of values that can be find given their name.
type Scope[V any] interface {
	Find(string) (V, bool)
	Items() *ordered.Map[string, V]
}

func find[V any](key string, local *ordered.Map[string, V], parent Scope[V]) (value V, ok bool) {
	value, ok = local.Load(key)
	if ok || parent == nil {
		return
	}
	return parent.Find(key)
}

// RWScope stores key,value pairs and the Scope interface.
// A key, value pair is always defined within the scope.
// A value can retrieved from its key by querying the scope and,
// if not found, its parents recursively.
type RWScope[V any] struct {
	parent Scope[V]
	local  *ordered.Map[string, V]
}

var _ Scope[any] = (*RWScope[any])(nil)

// NewScope returns a new scope given a parent, which can be nil.
func NewScope[V any](parent Scope[V]) *RWScope[V] {
	return &RWScope[V]{
		parent: parent,
		local:  ordered.NewMap[string, V](),
	}
}

// Parent returns the parent of the scope or nil for a root scope.
func (s *RWScope[V]) Parent() Scope[V] {
	return s.parent
}

// SetParent links the scope to a new parent.
// Values of the new parent become visible from the scope.
func (s *RWScope[V]) SetParent(parent Scope[V]) {
	s.parent = parent
}

// Define maps `key` to `value`, overwriting if necessary.
func (s *RWScope[V]) Define(k string, v V) {
	s.local.Store(k, v)
}

// Rename moves the value of a local key to a new key.
// The position of the value in the scope is preserved.
func (s *RWScope[V]) Rename(old, nw string) error {
	if _, ok := s.local.Load(old); !ok {
		return errors.Errorf("cannot rename %s: not defined in scope", old)
	}
	if !s.local.Rekey(old, nw) {
		return errors.Errorf("cannot rename %s to %s: %s already defined in scope", old, nw, nw)
	}
	return nil
}

// IsLocal returns true if the key is defined in the local scope.
func (s *RWScope[V]) IsLocal(key string) bool {
	_, ok := s.local.Load(key)
	return ok
}

// FindLocal returns the value of a key defined in the local scope, ignoring the parent.
func (s *RWScope[V]) FindLocal(key string) (V, bool) {
	return s.local.Load(key)
}

// Find a key in the scope and its parent.
func (s *RWScope[V]) Find(key string) (value V, ok bool) {
	return find(key, s.local, s.parent)
}

// LocalKeys returns the keys of the local scope without the parent.
func (s *RWScope[V]) LocalKeys() iter.Seq[string] {
	return s.local.Keys()
}

// LocalValues returns the values of the local scope without the parent,
// in the order in which they have been defined.
func (s *RWScope[V]) LocalValues() iter.Seq[V] {
	return s.local.Values()
}

// Len returns the number of values defined locally.
func (s *RWScope[V]) Len() int {
	return s.local.Size()
}

// Items returns the list of the items in the scope and its parents.
// Values defined locally shadow the values of the parents.
func (s *RWScope[V]) Items() *ordered.Map[string, V] {
	all := ordered.NewMap[string, V]()
	if s.parent != nil {
		for k, v := range s.parent.Items().Iter() {
			all.Store(k, v)
		}
	}
	for k, v := range s.local.Iter() {
		all.Store(k, v)
	}
	return all
}

// String representation of the scope.
func (s *RWScope[V]) String() string {
	parentS := "root"
	if s.parent != nil {
		parentS = fmt.Sprint(s.parent)
	}
	var kvs []string
	for k, v := range s.local.Iter() {
		kvs = append(kvs, fmt.Sprintf("%s: %T", k, v))
	}
	local := "empty"
	if len(kvs) > 0 {
		local = strings.Join(kvs, "\n")
	}
	return fmt.Sprintf("%s\n-- %p --\n%s\n", parentS, s, local)
}
