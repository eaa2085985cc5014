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

// Package llvmdecl declares the callables of a lowered unit in an LLVM module.
//
// Backends generating code for a unit call helpers synthesized by lowering
// passes and foreign procedures bound to C. This package declares these
// callables so that the generated code can be linked against them.
//
// Arguments are passed by reference: every parameter is a pointer. Arrays
// with a shape known at compile time are pointers to LLVM arrays in column
// major order. Other arrays are pointers to their first element.
package llvmdecl

import (
	"strings"

	"github.com/golang/glog"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/lower/mangle"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	llir "github.com/llir/llvm/ir"
)

// Declarer declares callables in an LLVM module.
type Declarer struct {
	mod     *llir.Module
	err     *fmterr.Appender
	funcs   map[*ir.Callable]*llir.Func
	names   map[string]*ir.Callable
	structs map[*ir.AggregateType]types.Type
}

// New returns a declarer adding declarations to a new LLVM module.
func New(err *fmterr.Appender) *Declarer {
	return &Declarer{
		mod:     llir.NewModule(),
		err:     err,
		funcs:   make(map[*ir.Callable]*llir.Func),
		names:   make(map[string]*ir.Callable),
		structs: make(map[*ir.AggregateType]types.Type),
	}
}

// Module returns the LLVM module in which callables are declared.
func (d *Declarer) Module() *llir.Module {
	return d.mod
}

// Exported returns true if a callable needs to be declared for backends:
// it is a foreign callable, an interface or a helper synthesized by the compiler.
func Exported(c *ir.Callable) bool {
	switch c.ABI {
	case ir.ABIBindC, ir.ABIInterface:
		return true
	}
	return strings.HasPrefix(c.Name(), mangle.ReservedPrefix)
}

// Export declares all the exported callables of a unit in a new LLVM module.
// Callables are declared in the order of their scopes.
func Export(u *ir.Unit, errs *fmterr.Errors) (*llir.Module, error) {
	d := New(errs.NewAppender(u.FSet))
	for scope := range ir.AllScopes(u.Global) {
		for sym := range scope.Symbols() {
			c, ok := sym.(*ir.Callable)
			if !ok || !Exported(c) {
				continue
			}
			d.Declare(c)
		}
	}
	return d.mod, errs.ToError()
}

// Declare a callable in the LLVM module.
// Returns false if the callable cannot be declared. The reason is reported to the error appender.
func (d *Declarer) Declare(c *ir.Callable) (*llir.Func, bool) {
	if f, ok := d.funcs[c]; ok {
		return f, true
	}
	if other, ok := d.names[c.Name()]; ok {
		return nil, d.err.AppendCodef(c.Src, fmterr.DuplicateSymbol, "%s already declared by %s", c.Name(), ir.FullName(other))
	}
	var params []*llir.Param
	for _, p := range c.Params {
		param, ok := d.param(p)
		if !ok {
			return nil, false
		}
		params = append(params, param)
	}
	ret := types.Type(types.Void)
	if c.Result != nil {
		if c.ResultAsArg {
			param, ok := d.param(c.Result)
			if !ok {
				return nil, false
			}
			params = append(params, param)
		} else {
			var ok bool
			if ret, ok = d.result(c); !ok {
				return nil, false
			}
		}
	}
	f := d.mod.NewFunc(c.Name(), ret, params...)
	f.FuncAttrs = append(f.FuncAttrs, enum.FuncAttrNoUnwind)
	if c.Pure && !c.ResultAsArg {
		f.FuncAttrs = append(f.FuncAttrs, enum.FuncAttrReadOnly)
	}
	d.funcs[c] = f
	d.names[c.Name()] = c
	glog.V(2).Infof("llvmdecl: %s", f.LLString())
	return f, true
}

func (d *Declarer) param(v *ir.Variable) (*llir.Param, bool) {
	typ, ok := d.Type(v.Typ, v.Src)
	if !ok {
		return nil, false
	}
	param := llir.NewParam(v.Name(), types.NewPointer(typ))
	param.Attrs = append(param.Attrs, enum.ParamAttrNoCapture)
	if v.Intent == ir.IntentIn {
		param.Attrs = append(param.Attrs, enum.ParamAttrReadOnly)
	}
	return param, true
}

func (d *Declarer) result(c *ir.Callable) (types.Type, bool) {
	switch c.Result.Typ.(type) {
	case *ir.ArrayType, *ir.CharacterType:
		return nil, d.err.AppendCodef(c.Src, fmterr.UnsupportedType, "%s returns a value of type %s which cannot be returned by value", c.Name(), c.Result.Typ)
	}
	return d.Type(c.Result.Typ, c.Src)
}
