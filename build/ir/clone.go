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
	"slices"

	"github.com/pkg/errors"
)

// Copier deep copies expressions, statements and types.
type Copier struct {
	// Syms maps symbols to their copies.
	// References to symbols which are not in the map are kept as is.
	Syms map[Symbol]Symbol

	// Replace, if not nil, is called before an expression is copied.
	// If it returns true, the returned expression is used as the copy.
	Replace func(Expr) (Expr, bool)
}

// Symbol returns the copy of a symbol or the symbol itself if it has not been copied.
func (c *Copier) Symbol(sym Symbol) Symbol {
	if nw, ok := c.Syms[sym]; ok {
		return nw
	}
	return sym
}

// Exprs copies a list of expressions.
func (c *Copier) Exprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	r := make([]Expr, len(exprs))
	for i, expr := range exprs {
		r[i] = c.Expr(expr)
	}
	return r
}

// Expr copies an expression. Returns nil if expr is nil.
func (c *Copier) Expr(expr Expr) Expr {
	if expr == nil {
		return nil
	}
	if c.Replace != nil {
		if nw, ok := c.Replace(expr); ok {
			return nw
		}
	}
	switch e := expr.(type) {
	case *IntLit:
		return &IntLit{Src: e.Src, Val: e.Val, Typ: e.Typ}
	case *RealLit:
		return &RealLit{Src: e.Src, Val: e.Val, Typ: e.Typ}
	case *ComplexLit:
		return &ComplexLit{Src: e.Src, Re: e.Re, Im: e.Im, Typ: e.Typ}
	case *LogicalLit:
		return &LogicalLit{Src: e.Src, Val: e.Val}
	case *StringLit:
		return &StringLit{Src: e.Src, Val: e.Val}
	case *VarRef:
		return &VarRef{Src: e.Src, Sym: c.Symbol(e.Sym)}
	case *ParamRef:
		return &ParamRef{Src: e.Src, Index: e.Index, Typ: c.Type(e.Typ)}
	case *ArrayItem:
		return &ArrayItem{Src: e.Src, X: c.Expr(e.X), Index: c.Exprs(e.Index), Typ: c.Type(e.Typ)}
	case *ArraySection:
		secs := make([]Section, len(e.Sections))
		for i, sec := range e.Sections {
			secs[i] = Section{Lo: c.Expr(sec.Lo), Hi: c.Expr(sec.Hi), Step: c.Expr(sec.Step)}
		}
		return &ArraySection{Src: e.Src, X: c.Expr(e.X), Sections: secs, Typ: c.Type(e.Typ)}
	case *ListItem:
		return &ListItem{Src: e.Src, X: c.Expr(e.X), Index: c.Expr(e.Index), Typ: c.Type(e.Typ)}
	case *ListSection:
		return &ListSection{
			Src:   e.Src,
			X:     c.Expr(e.X),
			Start: c.Expr(e.Start),
			Stop:  c.Expr(e.Stop),
			Step:  c.Expr(e.Step),
			Typ:   c.Type(e.Typ),
		}
	case *StringItem:
		return &StringItem{Src: e.Src, X: c.Expr(e.X), Index: c.Expr(e.Index)}
	case *StringSection:
		return &StringSection{Src: e.Src, X: c.Expr(e.X), Lo: c.Expr(e.Lo), Hi: c.Expr(e.Hi), Typ: c.Type(e.Typ)}
	case *BinaryExpr:
		return &BinaryExpr{Src: e.Src, Op: e.Op, X: c.Expr(e.X), Y: c.Expr(e.Y), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *CompareExpr:
		return &CompareExpr{Src: e.Src, Op: e.Op, X: c.Expr(e.X), Y: c.Expr(e.Y), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *BoolExpr:
		return &BoolExpr{Src: e.Src, Op: e.Op, X: c.Expr(e.X), Y: c.Expr(e.Y), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *UnaryExpr:
		return &UnaryExpr{Src: e.Src, Op: e.Op, X: c.Expr(e.X), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *CastExpr:
		return &CastExpr{Src: e.Src, X: c.Expr(e.X), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *CallExpr:
		return &CallExpr{Src: e.Src, Func: c.Symbol(e.Func), Args: c.Exprs(e.Args), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *IntrinsicExpr:
		return &IntrinsicExpr{Src: e.Src, ID: e.ID, Args: c.Exprs(e.Args), Typ: c.Type(e.Typ), Val: c.Expr(e.Val)}
	case *ArrayConstant:
		return &ArrayConstant{Src: e.Src, Elems: c.Exprs(e.Elems), Typ: c.Type(e.Typ)}
	case *ListConstant:
		return &ListConstant{Src: e.Src, Elems: c.Exprs(e.Elems), Typ: c.Type(e.Typ)}
	case *TupleConstant:
		return &TupleConstant{Src: e.Src, Elems: c.Exprs(e.Elems), Typ: c.Type(e.Typ)}
	case *ListConcat:
		return &ListConcat{Src: e.Src, X: c.Expr(e.X), Y: c.Expr(e.Y), Typ: c.Type(e.Typ)}
	}
	panic(errors.Errorf("cannot copy expression %T: not supported", expr))
}

// Dims copies a list of dimensions.
func (c *Copier) Dims(dims []Dim) []Dim {
	r := make([]Dim, len(dims))
	for i, dim := range dims {
		r[i] = Dim{Start: c.Expr(dim.Start), Length: c.Expr(dim.Length)}
	}
	return r
}

// Type copies the expressions of a type.
// Types without expressions or symbols are returned as is.
func (c *Copier) Type(typ Type) Type {
	switch t := typ.(type) {
	case nil:
		return nil
	case *CharacterType:
		if t.Len == nil {
			return t
		}
		return &CharacterType{Len: c.Expr(t.Len)}
	case *ArrayType:
		return &ArrayType{Elem: c.Type(t.Elem), Dims: c.Dims(t.Dims)}
	case *ListType:
		return &ListType{Elem: c.Type(t.Elem)}
	case *TupleType:
		elems := make([]Type, len(t.Elems))
		for i, elem := range t.Elems {
			elems[i] = c.Type(elem)
		}
		return &TupleType{Elems: elems}
	case *StructType:
		if t.Sym == nil {
			return t
		}
		sym, ok := c.Symbol(t.Sym).(*AggregateType)
		if !ok || sym == t.Sym {
			return t
		}
		return &StructType{Name: sym.Name(), Sym: sym}
	case *PointerType:
		return &PointerType{Inner: c.Type(t.Inner)}
	case *FuncType:
		params := make([]Type, len(t.Params))
		for i, param := range t.Params {
			params[i] = c.Type(param)
		}
		return &FuncType{Params: params, Result: c.Type(t.Result)}
	}
	return typ
}

// Stmts copies a list of statements.
func (c *Copier) Stmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	r := make([]Stmt, len(stmts))
	for i, stmt := range stmts {
		r[i] = c.Stmt(stmt)
	}
	return r
}

// Stmt copies a statement.
func (c *Copier) Stmt(stmt Stmt) Stmt {
	switch s := stmt.(type) {
	case *Assignment:
		return &Assignment{Src: s.Src, Target: c.Expr(s.Target), Value: c.Expr(s.Value)}
	case *If:
		return &If{Src: s.Src, Cond: c.Expr(s.Cond), Body: c.Stmts(s.Body), Else: c.Stmts(s.Else)}
	case *While:
		return &While{Src: s.Src, Cond: c.Expr(s.Cond), Body: c.Stmts(s.Body)}
	case *DoLoop:
		return &DoLoop{
			Src: s.Src,
			Head: LoopHead{
				Var:   c.Expr(s.Head.Var),
				Start: c.Expr(s.Head.Start),
				End:   c.Expr(s.Head.End),
				Step:  c.Expr(s.Head.Step),
			},
			Body: c.Stmts(s.Body),
		}
	case *CallStmt:
		return &CallStmt{Src: s.Src, Func: c.Symbol(s.Func), Args: c.Exprs(s.Args)}
	case *Return:
		return &Return{Src: s.Src}
	case *Exit:
		return &Exit{Src: s.Src}
	case *Cycle:
		return &Cycle{Src: s.Src}
	case *Print:
		return &Print{Src: s.Src, Values: c.Exprs(s.Values)}
	case *BlockCall:
		block, ok := c.Symbol(s.Block).(*Block)
		if !ok {
			block = s.Block
		}
		return &BlockCall{Src: s.Src, Block: block}
	case *Assert:
		return &Assert{Src: s.Src, Test: c.Expr(s.Test), Msg: c.Expr(s.Msg)}
	case *Allocate:
		return &Allocate{Src: s.Src, Target: c.Expr(s.Target), Dims: c.Dims(s.Dims)}
	case *ListAppend:
		return &ListAppend{Src: s.Src, List: c.Expr(s.List), Value: c.Expr(s.Value)}
	}
	panic(errors.Errorf("cannot copy statement %T: not supported", stmt))
}

// DuplicateSymbol copies a symbol and everything it owns into a scope.
// See DuplicateSymbolAs.
func DuplicateSymbol(sym Symbol, into *Scope) (Symbol, error) {
	return DuplicateSymbolAs(sym, into, sym.Name())
}

// DuplicateSymbolAs copies a symbol and everything it owns into a scope under a new name.
//
// References between symbols of the copied subtree are rewritten to point to
// the copies. References to symbols outside of the subtree are kept.
func DuplicateSymbolAs(sym Symbol, into *Scope, name string) (Symbol, error) {
	d := &duplicator{cp: &Copier{Syms: make(map[Symbol]Symbol)}}
	root, err := d.shell(sym, name)
	if err != nil {
		return nil, err
	}
	for _, src := range d.order {
		d.fill(src, d.cp.Syms[src])
	}
	if err := into.Define(root); err != nil {
		return nil, err
	}
	return root, nil
}

type duplicator struct {
	cp    *Copier
	order []Symbol
}

// shell creates an empty copy of a symbol and of the symbols it owns.
func (d *duplicator) shell(sym Symbol, name string) (Symbol, error) {
	var nw Symbol
	switch s := sym.(type) {
	case *Variable:
		nw = &Variable{symbolBase: symbolBase{name: name}}
	case *Callable:
		nw = NewCallable(name)
	case *Module:
		nw = NewModule(name)
	case *Program:
		nw = NewProgram(name)
	case *AggregateType:
		nw = NewAggregateType(name)
	case *Block:
		nw = NewBlock(name)
	case *Alias:
		nw = &Alias{symbolBase: symbolBase{name: name}}
	default:
		return nil, errors.Errorf("cannot duplicate symbol %s of type %T", s.Name(), s)
	}
	d.cp.Syms[sym] = nw
	d.order = append(d.order, sym)
	owner, ok := sym.(ScopeOwner)
	if !ok {
		return nw, nil
	}
	local := nw.(ScopeOwner).Local()
	for child := range owner.Local().Symbols() {
		childCopy, err := d.shell(child, child.Name())
		if err != nil {
			return nil, err
		}
		if err := local.Define(childCopy); err != nil {
			return nil, err
		}
	}
	return nw, nil
}

func (d *duplicator) variable(v *Variable) *Variable {
	if v == nil {
		return nil
	}
	nw, ok := d.cp.Symbol(v).(*Variable)
	if !ok {
		return v
	}
	return nw
}

// fill copies the fields of a symbol into its shell.
func (d *duplicator) fill(src, dst Symbol) {
	cp := d.cp
	switch s := src.(type) {
	case *Variable:
		t := dst.(*Variable)
		t.Src = s.Src
		t.Typ = cp.Type(s.Typ)
		t.Intent = s.Intent
		t.Storage = s.Storage
		t.Init = cp.Expr(s.Init)
	case *Callable:
		t := dst.(*Callable)
		t.Src = s.Src
		t.Params = make([]*Variable, len(s.Params))
		for i, param := range s.Params {
			t.Params[i] = d.variable(param)
		}
		t.Body = cp.Stmts(s.Body)
		t.Result = d.variable(s.Result)
		t.Pure = s.Pure
		t.Elemental = s.Elemental
		t.ABI = s.ABI
		t.ResultAsArg = s.ResultAsArg
		t.Deps = slices.Clone(s.Deps)
	case *Module:
		t := dst.(*Module)
		t.Src = s.Src
		t.Deps = slices.Clone(s.Deps)
	case *Program:
		t := dst.(*Program)
		t.Src = s.Src
		t.Body = cp.Stmts(s.Body)
		t.Deps = slices.Clone(s.Deps)
	case *AggregateType:
		t := dst.(*AggregateType)
		t.Src = s.Src
		t.Members = slices.Clone(s.Members)
	case *Block:
		t := dst.(*Block)
		t.Body = cp.Stmts(s.Body)
	case *Alias:
		t := dst.(*Alias)
		t.Src = s.Src
		t.Target = cp.Symbol(s.Target)
		t.OriginModule = s.OriginModule
		t.OriginalName = s.OriginalName
	}
}
