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

package driver_test

import (
	"go/token"
	"testing"

	"github.com/gx-org/irlower/build/driver"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
	"github.com/gx-org/irlower/build/lower/pass"
	"github.com/gx-org/irlower/internal/contract"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// program builds:
//
//	module app uses util { }
//	module util { var x }
//	program main { var a, b, c: real(64)[5] }
type program struct {
	unit    *ir.Unit
	util    *ir.Module
	x       *ir.Variable
	prog    *ir.Program
	a, b, c *ir.Variable
}

func newProgram() *program {
	p := &program{unit: ir.NewUnit("test", token.NewFileSet())}
	irh.Module(p.unit.Global, "app", "util")
	p.util = irh.Module(p.unit.Global, "util")
	p.x = irh.Var(p.util.Local(), "x", ir.DefaultInt)
	p.prog = irh.Program(p.unit.Global, "main")
	p.a = irh.Var(p.prog.Local(), "a", ir.Array(ir.Real(64), 5))
	p.b = irh.Var(p.prog.Local(), "b", ir.Array(ir.Real(64), 5))
	p.c = irh.Var(p.prog.Local(), "c", ir.Array(ir.Real(64), 5))
	return p
}

func (p *program) sum() ir.Stmt {
	return irh.Assign(irh.Ref(p.c), irh.Binary(token.ADD, irh.Ref(p.a), irh.Ref(p.b)))
}

func moduleNames(mods []*ir.Module) []string {
	var names []string
	for _, mod := range mods {
		names = append(names, mod.Name())
	}
	return names
}

func collected(t *testing.T, err error) *fmterr.Errors {
	var errs *fmterr.Errors
	require.True(t, errors.As(err, &errs), "error %v is not a set of compiler errors", err)
	return errs
}

func TestRunDefaultPipeline(t *testing.T) {
	p := newProgram()
	p.prog.Body = []ir.Stmt{p.sum()}
	d, err := driver.New(nil)
	require.NoError(t, err)
	assert.Equal(t, driver.DefaultPasses, d.Passes())

	require.NoError(t, d.Run(p.unit))
	assert.Equal(t, []string{"util", "app"}, moduleNames(p.unit.Order))
	assert.Equal(t, "util_x", p.x.Name())
	assert.Equal(t, `do __i = 1, 5 {
	c[__i] = a[__i] + b[__i]
}`, ir.StmtsString(p.prog.Body))

	before := p.unit.String()
	require.NoError(t, d.Run(p.unit))
	assert.Equal(t, before, p.unit.String(), "running the pipeline twice changed the unit")
}

func TestRunSelectedPasses(t *testing.T) {
	p := newProgram()
	p.prog.Body = []ir.Stmt{p.sum()}
	d, err := driver.New(&driver.Config{Passes: []string{"arrayloop"}, Mangle: "none"})
	require.NoError(t, err)
	require.NoError(t, d.Run(p.unit))
	assert.Nil(t, p.unit.Order)
	assert.Equal(t, "x", p.x.Name())
	assert.IsType(t, &ir.DoLoop{}, p.prog.Body[0])
}

func TestAccumulateErrors(t *testing.T) {
	p := newProgram()
	xor := irh.Assign(irh.Ref(p.c), irh.Binary(token.XOR, irh.Ref(p.a), irh.Ref(p.b)))
	m := irh.Var(p.prog.Local(), "m", ir.Array(ir.Real(64), 5, 5))
	mismatch := irh.Assign(irh.Ref(p.c), irh.Binary(token.ADD, irh.Ref(p.a), irh.Ref(m)))
	p.prog.Body = []ir.Stmt{xor, p.sum(), mismatch}
	d, err := driver.New(nil)
	require.NoError(t, err)

	errs := collected(t, d.Run(p.unit))
	var codes []fmterr.Code
	for _, err := range errs.Errors() {
		codes = append(codes, fmterr.CodeOf(err))
	}
	assert.Equal(t, []fmterr.Code{fmterr.UnsupportedArrayOperation, fmterr.RankMismatch}, codes)
	assert.False(t, errs.Fatal())
	// Passes after the one reporting errors still run.
	assert.Equal(t, "util_x", p.x.Name())
	assert.Same(t, xor, p.prog.Body[0])
	assert.IsType(t, &ir.DoLoop{}, p.prog.Body[1])
}

func TestCircularDependencyAborts(t *testing.T) {
	u := ir.NewUnit("test", token.NewFileSet())
	irh.Module(u.Global, "a", "b")
	irh.Module(u.Global, "b", "a")
	prog := irh.Program(u.Global, "main")
	v := irh.Var(prog.Local(), "v", ir.Array(ir.Real(64), 3))
	stmt := irh.Assign(irh.Ref(v), irh.Unary(token.SUB, irh.Ref(v)))
	prog.Body = []ir.Stmt{stmt}
	d, err := driver.New(nil)
	require.NoError(t, err)

	err = d.Run(u)
	require.Error(t, err)
	assert.Equal(t, fmterr.CircularModuleDependency, fmterr.CodeOf(err))
	assert.Contains(t, err.Error(), "a -> b -> a")
	assert.Nil(t, u.Order)
	assert.Same(t, stmt, prog.Body[0], "passes after the failing pass have been run")
}

func TestMaxPasses(t *testing.T) {
	p := newProgram()
	p.prog.Body = []ir.Stmt{p.sum()}
	before := p.unit.String()
	d, err := driver.New(&driver.Config{MaxPasses: 2})
	require.NoError(t, err)

	errs := collected(t, d.Run(p.unit))
	assert.Equal(t, 1, errs.Count(fmterr.SeverityLimit))
	assert.Contains(t, errs.Error(), "maximum number of passes is 2")
	assert.Equal(t, before, p.unit.String())
}

func TestContractViolation(t *testing.T) {
	p := newProgram()
	d, err := driver.New(&driver.Config{Passes: []string{"modorder"}})
	require.NoError(t, err)
	d.AppendPass(pass.Func{
		PassName: "broken",
		F: func(ctx *pass.Context) error {
			contract.AssertNodef(false, &ir.Assignment{}, "target is not addressable")
			return nil
		},
	})
	ran := false
	d.AppendPass(pass.Func{
		PassName: "after",
		F: func(*pass.Context) error {
			ran = true
			return nil
		},
	})

	errs := collected(t, d.Run(p.unit))
	assert.Equal(t, 1, errs.Count(fmterr.SeverityInternal))
	assert.Contains(t, errs.Error(), "pass broken on node *ir.Assignment")
	assert.Contains(t, errs.Error(), "target is not addressable")
	assert.Contains(t, errs.Error(), "Error generated at:")
	assert.Contains(t, errs.Error(), "contract.AssertNodef")
	assert.False(t, ran, "pass after an internal error has been run")
	assert.Equal(t, []string{"util", "app"}, moduleNames(p.unit.Order))
}

func TestMangleContextPerUnit(t *testing.T) {
	d, err := driver.New(&driver.Config{Passes: []string{"mangle"}})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		p := newProgram()
		require.NoError(t, d.Run(p.unit))
		assert.Equal(t, "util_x", p.x.Name(), "unit %d", i)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := driver.New(&driver.Config{Passes: []string{"inline"}})
	assert.ErrorContains(t, err, `unknown pass "inline"`)
}
