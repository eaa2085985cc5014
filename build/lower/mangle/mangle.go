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

// Package mangle renames symbols so that their names are unique in the program.
//
// Symbols are renamed in two steps. First, the whole unit is walked to
// compute a new name for every symbol selected by the policy. The new names
// are recorded by symbol identity since two different symbols may share
// the same name in different scopes. Then, the unit is walked again to
// rename the definitions and to update all the lists referring to
// symbols by name: module dependencies, aggregate members, and aliases.
//
// Renamed symbols are marked in the IR so that later runs leave them
// untouched, whether or not they share the same Context.
package mangle

import (
	"go/token"
	"slices"
	"strings"

	"github.com/golang/glog"
	"github.com/gx-org/irlower/base/uname"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/lower/pass"
)

// ReservedPrefix is the prefix of the names generated by the compiler.
// Symbols with such a name are never renamed.
const ReservedPrefix = "__"

// Context records the names given to symbols during a compilation session.
type Context struct {
	names   *uname.Unique
	renamed map[ir.Symbol]string
}

// NewContext returns a new mangling context.
func NewContext() *Context {
	ctx := &Context{}
	ctx.Reset()
	return ctx
}

// Reset the context for a new compilation session.
func (ctx *Context) Reset() {
	ctx.names = uname.New()
	ctx.renamed = make(map[ir.Symbol]string)
}

// Renamed returns the name given to a symbol.
// Returns false if the symbol has not been renamed.
func (ctx *Context) Renamed(sym ir.Symbol) (string, bool) {
	name, ok := ctx.renamed[sym]
	return name, ok
}

// Pass renames symbols according to a policy.
type Pass struct {
	policy Policy
	ctx    *Context
}

var _ pass.Pass = (*Pass)(nil)

// New returns a new mangling pass.
func New(policy Policy, ctx *Context) *Pass {
	return &Pass{policy: policy, ctx: ctx}
}

// Name of the pass.
func (*Pass) Name() string {
	return "mangle"
}

type record struct {
	sym      ir.Symbol
	from, to string
}

// Run the pass on a unit.
func (p *Pass) Run(pctx *pass.Context) error {
	if p.policy == PolicyNone {
		return nil
	}
	scopes := slices.Collect(ir.AllScopes(pctx.Unit.Global))
	records := p.collect(scopes)
	if len(records) == 0 {
		return nil
	}
	p.apply(pctx, scopes, records)
	return nil
}

func (p *Pass) matches(sym ir.Symbol) bool {
	if _, isAlias := sym.(*ir.Alias); isAlias {
		return false
	}
	if strings.HasPrefix(sym.Name(), ReservedPrefix) {
		return false
	}
	callable, isCallable := sym.(*ir.Callable)
	if isCallable && callable.ABI == ir.ABIBindC {
		return false
	}
	if ir.Mangled(sym) {
		return false
	}
	switch p.policy {
	case PolicyAll:
		return true
	case PolicyGlobal:
		return sym.Parent().Owner() == nil
	case PolicyModule:
		_, inModule := sym.Parent().Owner().(*ir.Module)
		return inModule
	case PolicyIntrinsic:
		return isCallable && callable.ABI == ir.ABIIntrinsic
	}
	return false
}

// intrinsicPrefix separates intrinsics from the symbols of runtime libraries.
const intrinsicPrefix = "intrinsic_"

// mangledBase returns the name from which the new name of a symbol is derived.
func mangledBase(sym ir.Symbol) string {
	base := strings.ReplaceAll(ir.FullName(sym), ".", "_")
	if callable, ok := sym.(*ir.Callable); ok && callable.ABI == ir.ABIIntrinsic {
		base = intrinsicPrefix + base
	}
	return base
}

// collect computes the new names of all the symbols matching the policy.
// The names of all the other symbols are reserved first.
func (p *Pass) collect(scopes []*ir.Scope) []record {
	var matched []ir.Symbol
	for _, scope := range scopes {
		for sym := range scope.Symbols() {
			if p.matches(sym) {
				matched = append(matched, sym)
				continue
			}
			p.ctx.names.Register(sym.Name())
		}
	}
	records := make([]record, len(matched))
	for i, sym := range matched {
		nw := p.ctx.names.Name(mangledBase(sym))
		p.ctx.renamed[sym] = nw
		ir.MarkMangled(sym)
		records[i] = record{sym: sym, from: sym.Name(), to: nw}
	}
	return records
}

// apply renames the symbols and updates the references by name.
func (p *Pass) apply(pctx *pass.Context, scopes []*ir.Scope, records []record) {
	bySym := make(map[ir.Symbol]record, len(records))
	modules := make(map[string]string)
	for _, rec := range records {
		bySym[rec.sym] = rec
		if _, isModule := rec.sym.(*ir.Module); isModule {
			modules[rec.from] = rec.to
		}
	}
	for _, rec := range records {
		if rec.from == rec.to {
			continue
		}
		glog.V(2).Infof("mangle: %s -> %s", ir.FullName(rec.sym), rec.to)
		scope := rec.sym.Parent()
		if err := scope.Rename(rec.from, rec.to); err != nil {
			pctx.Err.AppendInternalf(source(rec.sym), "cannot rename %s to %s: %v", rec.from, rec.to, err)
			continue
		}
		if agg, ok := scope.Owner().(*ir.AggregateType); ok {
			renameEntry(agg.Members, rec.from, rec.to)
		}
	}
	for _, scope := range scopes {
		syms := slices.Collect(scope.Symbols())
		for _, sym := range syms {
			if deps := ir.DepsOf(sym); deps != nil {
				for old, nw := range modules {
					renameEntry(*deps, old, nw)
				}
			}
			alias, ok := sym.(*ir.Alias)
			if !ok {
				continue
			}
			p.updateAlias(pctx, scope, alias, bySym, modules)
		}
	}
}

func (p *Pass) updateAlias(pctx *pass.Context, scope *ir.Scope, alias *ir.Alias, bySym map[ir.Symbol]record, modules map[string]string) {
	if nw, ok := modules[alias.OriginModule]; ok {
		alias.OriginModule = nw
	}
	rec, ok := bySym[alias.Target]
	if !ok {
		return
	}
	if alias.OriginalName == rec.from {
		alias.OriginalName = rec.to
	}
	if alias.Name() != rec.from {
		return
	}
	if err := scope.Rename(rec.from, rec.to); err != nil {
		pctx.Err.AppendInternalf(alias.Source(), "cannot rename alias %s to %s: %v", rec.from, rec.to, err)
		return
	}
	p.ctx.renamed[alias] = rec.to
	ir.MarkMangled(alias)
}

func source(sym ir.Symbol) token.Pos {
	if node, ok := sym.(ir.SourceNode); ok {
		return node.Source()
	}
	return token.NoPos
}

func renameEntry(list []string, old, nw string) {
	for i, name := range list {
		if name == old {
			list[i] = nw
		}
	}
}
