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

// Package modorder sorts the modules of a unit such that a module always
// comes after the modules it uses.
package modorder

import (
	"go/token"
	"strings"

	"github.com/golang/glog"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/lower/pass"
	"github.com/pkg/errors"
)

// Pass stores the order of the modules in the unit.
type Pass struct{}

var _ pass.Pass = (*Pass)(nil)

// New returns a new module ordering pass.
func New() *Pass {
	return &Pass{}
}

// Name of the pass.
func (*Pass) Name() string {
	return "modorder"
}

// Run sorts the modules of the unit.
// A circular dependency is returned as an error.
func (*Pass) Run(ctx *pass.Context) error {
	order, err := Sort(ctx.Unit, ctx.Err)
	if err != nil {
		return err
	}
	ctx.Unit.Order = order
	if glog.V(2) {
		names := make([]string, len(order))
		for i, mod := range order {
			names[i] = mod.Name()
		}
		glog.Infof("modorder: %s", strings.Join(names, ", "))
	}
	return nil
}

type mark int

const (
	unvisited mark = iota
	visiting
	visited
)

type sorter struct {
	unit   *ir.Unit
	errs   *fmterr.Appender
	byName map[string]*ir.Module
	marks  map[*ir.Module]mark
	stack  []*ir.Module
	order  []*ir.Module
}

// Sort returns the modules of a unit in dependency order.
// Modules are visited in declaration order so that the order is stable.
// Dependencies on unknown modules are reported to errs and ignored.
func Sort(u *ir.Unit, errs *fmterr.Appender) ([]*ir.Module, error) {
	s := &sorter{
		unit:   u,
		errs:   errs,
		byName: make(map[string]*ir.Module),
		marks:  make(map[*ir.Module]mark),
	}
	mods := u.Modules()
	for _, mod := range mods {
		s.byName[mod.Name()] = mod
	}
	for _, mod := range mods {
		if err := s.visit(mod); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

func (s *sorter) visit(mod *ir.Module) error {
	switch s.marks[mod] {
	case visited:
		return nil
	case visiting:
		return s.cycleError(mod)
	}
	s.marks[mod] = visiting
	s.stack = append(s.stack, mod)
	for _, name := range mod.Deps {
		dep, ok := s.byName[name]
		if !ok {
			s.errs.AppendAt(mod.Src, errors.Wrapf(s.unit.Global.UndefinedError(name), "module %s", mod.Name()))
			continue
		}
		if err := s.visit(dep); err != nil {
			return err
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.marks[mod] = visited
	s.order = append(s.order, mod)
	return nil
}

func (s *sorter) cycleError(mod *ir.Module) error {
	start := 0
	for i, m := range s.stack {
		if m == mod {
			start = i
			break
		}
	}
	var names []string
	for _, m := range s.stack[start:] {
		names = append(names, m.Name())
	}
	names = append(names, mod.Name())
	err := fmterr.CircularModuleDependency.Errorf("circular module dependency: %s", strings.Join(names, " -> "))
	return s.errs.FSet().Position(token.NoPos, err)
}
