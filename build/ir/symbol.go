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
)

type (
	// Symbol is a named entity owned by exactly one scope.
	Symbol interface {
		Node
		// Name of the symbol in its scope.
		Name() string
		// Parent returns the scope in which the symbol is defined.
		// Returns nil if the symbol has not been defined yet.
		Parent() *Scope

		base() *symbolBase
	}

	// ScopeOwner is a symbol owning a child scope.
	// Alias does not implement this interface: an alias never owns a scope.
	ScopeOwner interface {
		Symbol
		// Local returns the scope owned by the symbol.
		Local() *Scope
	}

	symbolBase struct {
		name    string
		parent  *Scope
		mangled bool
	}
)

var (
	_ Symbol     = (*Variable)(nil)
	_ ScopeOwner = (*Callable)(nil)
	_ ScopeOwner = (*Module)(nil)
	_ ScopeOwner = (*Program)(nil)
	_ ScopeOwner = (*AggregateType)(nil)
	_ ScopeOwner = (*Block)(nil)
	_ Symbol     = (*Alias)(nil)
)

func (s *symbolBase) node() {}

func (s *symbolBase) base() *symbolBase { return s }

// Name of the symbol.
func (s *symbolBase) Name() string { return s.name }

// Parent returns the scope in which the symbol has been defined.
func (s *symbolBase) Parent() *Scope { return s.parent }

// MarkMangled records that the name of a symbol is final and must not be mangled again.
func MarkMangled(sym Symbol) { sym.base().mangled = true }

// Mangled returns true if the name of a symbol has already been mangled.
func Mangled(sym Symbol) bool { return sym.base().mangled }

// Intent of a variable with respect to the callable declaring it.
type Intent int

// Intent of variables.
const (
	// IntentLocal is a local variable.
	IntentLocal Intent = iota
	// IntentIn is a read-only argument.
	IntentIn
	// IntentOut is an argument written by the callable.
	IntentOut
	// IntentInOut is an argument read and written by the callable.
	IntentInOut
	// IntentReturn is the result variable of a function.
	IntentReturn
	// IntentUnspecified is an argument without a declared intent.
	IntentUnspecified
)

var intentToString = map[Intent]string{
	IntentLocal:       "local",
	IntentIn:          "in",
	IntentOut:         "out",
	IntentInOut:       "inout",
	IntentReturn:      "return",
	IntentUnspecified: "unspecified",
}

func (i Intent) String() string {
	s, ok := intentToString[i]
	if !ok {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return s
}

// IsArg returns true if the intent is the one of an argument of a callable.
func (i Intent) IsArg() bool {
	return i == IntentIn || i == IntentOut || i == IntentInOut || i == IntentUnspecified
}

// Storage class of a variable.
type Storage int

// Storage classes.
const (
	StorageDefault Storage = iota
	// StorageSave keeps the value of the variable between calls.
	StorageSave
	// StorageParameter is a named compile-time constant.
	StorageParameter
	// StorageAllocatable is a variable allocated at run time.
	StorageAllocatable
)

// ABI of a callable.
type ABI int

// ABIs of callables.
const (
	// ABISource is a callable defined in the source code.
	ABISource ABI = iota
	// ABIBindC is a foreign callable with a C calling convention.
	ABIBindC
	// ABIIntrinsic is a callable provided by the compiler.
	ABIIntrinsic
	// ABIInterface is a callable declared by an interface without a body.
	ABIInterface
)

var abiToString = map[ABI]string{
	ABISource:    "source",
	ABIBindC:     "bind(c)",
	ABIIntrinsic: "intrinsic",
	ABIInterface: "interface",
}

func (a ABI) String() string {
	s, ok := abiToString[a]
	if !ok {
		return fmt.Sprintf("ABI(%d)", int(a))
	}
	return s
}

type (
	// Variable is a named storage location.
	Variable struct {
		symbolBase
		Src     token.Pos
		Typ     Type
		Intent  Intent
		Storage Storage
		// Init is the initial value of the variable. Can be nil.
		Init Expr
	}

	// Callable is a function or a subroutine.
	Callable struct {
		symbolBase
		local *Scope

		Src token.Pos
		// Params are the arguments of the callable, defined in its local scope.
		Params []*Variable
		Body   []Stmt
		// Result is the variable holding the value returned by a function.
		// Result is nil for subroutines.
		Result    *Variable
		Pure      bool
		Elemental bool
		ABI       ABI
		// ResultAsArg is true when the array result of the function is
		// written into an output argument passed last by the caller.
		ResultAsArg bool
		// Deps lists the names of the modules used by the callable.
		Deps []string
	}

	// Module is a set of symbols which can be used by other modules.
	Module struct {
		symbolBase
		local *Scope

		Src token.Pos
		// Deps lists the names of the modules used by the module.
		Deps []string
	}

	// Program is the main entry point of an executable.
	Program struct {
		symbolBase
		local *Scope

		Src  token.Pos
		Body []Stmt
		Deps []string
	}

	// AggregateType is a user-defined type with members.
	AggregateType struct {
		symbolBase
		local *Scope

		Src token.Pos
		// Members lists the names of the member variables in declaration order.
		Members []string
	}

	// Block is a nested lexical scope with a body.
	Block struct {
		symbolBase
		local *Scope

		Body []Stmt
	}

	// Alias is a reference to a symbol owned by another scope.
	Alias struct {
		symbolBase

		Src    token.Pos
		Target Symbol
		// OriginModule is the name of the module in which the target is defined.
		OriginModule string
		// OriginalName is the name of the target in its module.
		OriginalName string
	}
)

// NewVariable returns a new variable. The variable needs to be defined in a scope.
func NewVariable(name string, typ Type, intent Intent) *Variable {
	return &Variable{symbolBase: symbolBase{name: name}, Typ: typ, Intent: intent}
}

// NewCallable returns a new callable owning a new empty scope.
func NewCallable(name string) *Callable {
	c := &Callable{symbolBase: symbolBase{name: name}}
	c.local = newScope(c)
	return c
}

// NewModule returns a new module owning a new empty scope.
func NewModule(name string, deps ...string) *Module {
	m := &Module{symbolBase: symbolBase{name: name}, Deps: deps}
	m.local = newScope(m)
	return m
}

// NewProgram returns a new program owning a new empty scope.
func NewProgram(name string) *Program {
	p := &Program{symbolBase: symbolBase{name: name}}
	p.local = newScope(p)
	return p
}

// NewAggregateType returns a new aggregate type owning a new empty scope.
func NewAggregateType(name string) *AggregateType {
	a := &AggregateType{symbolBase: symbolBase{name: name}}
	a.local = newScope(a)
	return a
}

// NewBlock returns a new block owning a new empty scope.
func NewBlock(name string) *Block {
	b := &Block{symbolBase: symbolBase{name: name}}
	b.local = newScope(b)
	return b
}

// NewAlias returns a new alias to a symbol defined in a module.
func NewAlias(name string, target Symbol, originModule string) *Alias {
	return &Alias{
		symbolBase:   symbolBase{name: name},
		Target:       target,
		OriginModule: originModule,
		OriginalName: target.Name(),
	}
}

// Type returns the type of the variable.
func (v *Variable) Type() Type { return v.Typ }

// Source returns the position of the variable declaration.
func (v *Variable) Source() token.Pos { return v.Src }

// Local returns the scope owned by the callable.
func (c *Callable) Local() *Scope { return c.local }

// Source returns the position of the callable declaration.
func (c *Callable) Source() token.Pos { return c.Src }

// IsFunction returns true if the callable returns a value.
func (c *Callable) IsFunction() bool { return c.Result != nil || c.ResultAsArg }

// AddParam defines a new parameter in the scope of the callable
// and appends it to the list of parameters.
func (c *Callable) AddParam(param *Variable) error {
	if err := c.local.Define(param); err != nil {
		return err
	}
	c.Params = append(c.Params, param)
	return nil
}

// SetResult defines the result variable of a function in the scope of the callable.
func (c *Callable) SetResult(result *Variable) error {
	result.Intent = IntentReturn
	if err := c.local.Define(result); err != nil {
		return err
	}
	c.Result = result
	return nil
}

// Signature returns the function type of the callable.
// Bounds referring to parameters are replaced by parameter placeholders.
func (c *Callable) Signature() *FuncType {
	cp := c.paramCopier()
	sig := &FuncType{Params: make([]Type, len(c.Params))}
	for i, param := range c.Params {
		sig.Params[i] = cp.Type(param.Typ)
	}
	if c.Result != nil {
		sig.Result = cp.Type(c.Result.Typ)
	}
	return sig
}

// ResultTemplate returns the type of the result of the callable where
// references to parameters have been replaced by ParamRef placeholders.
// Returns nil for subroutines.
func (c *Callable) ResultTemplate() Type {
	if c.Result == nil {
		return nil
	}
	return c.paramCopier().Type(c.Result.Typ)
}

func (c *Callable) paramCopier() *Copier {
	index := make(map[*Variable]int, len(c.Params))
	for i, param := range c.Params {
		index[param] = i
	}
	return &Copier{Replace: func(expr Expr) (Expr, bool) {
		ref, ok := expr.(*VarRef)
		if !ok {
			return nil, false
		}
		v, ok := ref.Sym.(*Variable)
		if !ok {
			return nil, false
		}
		i, ok := index[v]
		if !ok {
			return nil, false
		}
		return &ParamRef{Src: ref.Src, Index: i, Typ: v.Typ}, true
	}}
}

// Local returns the scope owned by the module.
func (m *Module) Local() *Scope { return m.local }

// Source returns the position of the module declaration.
func (m *Module) Source() token.Pos { return m.Src }

// Local returns the scope owned by the program.
func (p *Program) Local() *Scope { return p.local }

// Source returns the position of the program declaration.
func (p *Program) Source() token.Pos { return p.Src }

// Local returns the scope owned by the aggregate type.
func (a *AggregateType) Local() *Scope { return a.local }

// Source returns the position of the type declaration.
func (a *AggregateType) Source() token.Pos { return a.Src }

// AddMember defines a member variable of the type.
func (a *AggregateType) AddMember(member *Variable) error {
	if err := a.local.Define(member); err != nil {
		return err
	}
	a.Members = append(a.Members, member.Name())
	return nil
}

// Local returns the scope owned by the block.
func (b *Block) Local() *Scope { return b.local }

// Source returns the position of the alias declaration.
func (a *Alias) Source() token.Pos { return a.Src }

// Resolve follows alias chains and returns the symbol owning the definition.
func Resolve(sym Symbol) Symbol {
	for {
		alias, ok := sym.(*Alias)
		if !ok {
			return sym
		}
		sym = alias.Target
	}
}

// BodyOf returns a pointer to the body of a symbol with statements.
// Returns nil if the symbol has no body.
func BodyOf(sym Symbol) *[]Stmt {
	switch symT := sym.(type) {
	case *Callable:
		return &symT.Body
	case *Program:
		return &symT.Body
	case *Block:
		return &symT.Body
	}
	return nil
}

// DepsOf returns a pointer to the list of module dependencies of a symbol.
// Returns nil if the symbol has no dependencies.
func DepsOf(sym Symbol) *[]string {
	switch symT := sym.(type) {
	case *Callable:
		return &symT.Deps
	case *Module:
		return &symT.Deps
	case *Program:
		return &symT.Deps
	}
	return nil
}

// FullName returns the name of a symbol prefixed by the names of the owners of its scopes.
func FullName(sym Symbol) string {
	name := sym.Name()
	for s := sym.Parent(); s != nil && s.Owner() != nil; s = s.Parent() {
		name = s.Owner().Name() + "." + name
	}
	return name
}
