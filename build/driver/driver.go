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

// Package driver runs lowering passes over a compilation unit.
//
// The passes run one after the other in the order given by the configuration.
// Errors in the program are accumulated across passes so that all of them
// can be reported at once. A pass returning an error, a broken compiler
// invariant, or a compiler limit stops the pipeline.
package driver

import (
	"github.com/golang/glog"
	irfmt "github.com/gx-org/irlower/base/fmt"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	"github.com/gx-org/irlower/build/lower/arrayloop"
	"github.com/gx-org/irlower/build/lower/containers"
	"github.com/gx-org/irlower/build/lower/declcalls"
	"github.com/gx-org/irlower/build/lower/mangle"
	"github.com/gx-org/irlower/build/lower/modorder"
	"github.com/gx-org/irlower/build/lower/pass"
	"github.com/gx-org/irlower/internal/contract"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var registry = map[string]func(*Driver) pass.Pass{
	"modorder":   func(*Driver) pass.Pass { return modorder.New() },
	"declcalls":  func(*Driver) pass.Pass { return declcalls.New() },
	"arrayloop":  func(*Driver) pass.Pass { return arrayloop.New() },
	"containers": func(*Driver) pass.Pass { return containers.New() },
	"mangle": func(d *Driver) pass.Pass {
		return mangle.New(d.policy, d.mangleCtx)
	},
}

// Driver runs a sequence of passes.
type Driver struct {
	cfg       *Config
	policy    mangle.Policy
	mangleCtx *mangle.Context
	passes    []pass.Pass
	// last is the last unit lowered by the driver.
	last *ir.Unit
}

// New returns a new driver given a configuration.
// A nil configuration selects the default configuration.
func New(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.withDefaults()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	policy, err := mangle.ParsePolicy(cfg.Mangle)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		cfg:       cfg,
		policy:    policy,
		mangleCtx: mangle.NewContext(),
	}
	for _, name := range cfg.Passes {
		d.passes = append(d.passes, registry[name](d))
	}
	return d, nil
}

// Config returns the configuration of the driver.
func (d *Driver) Config() *Config {
	return d.cfg
}

// Passes returns the names of the passes run by the driver, in order.
func (d *Driver) Passes() []string {
	names := make([]string, len(d.passes))
	for i, p := range d.passes {
		names[i] = p.Name()
	}
	return names
}

// Run all the passes of the driver on a unit.
//
// The unit is modified in place. The returned error, if any, includes all
// errors accumulated by the passes.
func (d *Driver) Run(u *ir.Unit) error {
	if d.last != u {
		// Names recorded while mangling another unit are not valid for this one.
		d.mangleCtx.Reset()
		d.last = u
	}
	errs := &fmterr.Errors{}
	ctx := pass.NewContext(u, errs)
	ctx.MaxDepth = d.cfg.MaxDepth
	if len(d.passes) > d.cfg.MaxPasses {
		ctx.Err.Append(fmterr.Limit(errors.Errorf("%d passes to run but the maximum number of passes is %d", len(d.passes), d.cfg.MaxPasses)))
		return errs.ToError()
	}
	for i, p := range d.passes {
		glog.V(1).Infof("pass %d/%d: %s on unit %s", i+1, len(d.passes), p.Name(), u.Name)
		if err := d.runPass(ctx, p); err != nil {
			return multierr.Append(err, errs.ToError())
		}
		if errs.Fatal() {
			break
		}
	}
	if !errs.Empty() {
		glog.V(1).Infof("unit %s: %d error(s)", u.Name, len(errs.Errors()))
	}
	return errs.ToError()
}

func (d *Driver) runPass(ctx *pass.Context, p pass.Pass) (err error) {
	defer func() {
		v := contract.Recover(recover())
		if v == nil {
			return
		}
		glog.Errorf("pass %s: %v\n%s\nunit:\n%s", p.Name(), v, v.Stack, irfmt.Number(ctx.Unit.String()))
		err := errors.Errorf("pass %s: %s", p.Name(), v.Msg)
		if v.Node != "" {
			err = errors.Errorf("pass %s on node %s: %s", p.Name(), v.Node, v.Msg)
		}
		ctx.Err.Append(fmterr.Internal(fmterr.WithStack(err, v.Stack)))
	}()
	return p.Run(ctx)
}
