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

package modorder_test

import (
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/irlower/build/fmterr"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
	"github.com/gx-org/irlower/build/lower/modorder"
	"github.com/gx-org/irlower/build/lower/pass"
)

type module struct {
	name string
	deps []string
}

func newUnit(mods ...module) *ir.Unit {
	u := ir.NewUnit("test", token.NewFileSet())
	for _, mod := range mods {
		irh.Module(u.Global, mod.name, mod.deps...)
	}
	return u
}

func names(mods []*ir.Module) []string {
	ss := make([]string, len(mods))
	for i, mod := range mods {
		ss[i] = mod.Name()
	}
	return ss
}

func TestOrder(t *testing.T) {
	tests := []struct {
		mods []module
		want []string
	}{
		{
			mods: []module{
				{name: "a", deps: []string{"b"}},
				{name: "b", deps: []string{"c"}},
				{name: "c"},
			},
			want: []string{"c", "b", "a"},
		},
		{
			mods: []module{
				{name: "x"},
				{name: "y"},
			},
			want: []string{"x", "y"},
		},
		{
			mods: []module{
				{name: "top", deps: []string{"left", "right"}},
				{name: "left", deps: []string{"base"}},
				{name: "right", deps: []string{"base"}},
				{name: "base"},
			},
			want: []string{"base", "left", "right", "top"},
		},
	}
	for i, test := range tests {
		for run := 0; run < 2; run++ {
			u := newUnit(test.mods...)
			errs := &fmterr.Errors{}
			if err := modorder.New().Run(pass.NewContext(u, errs)); err != nil {
				t.Fatalf("test %d: %v", i, err)
			}
			if !errs.Empty() {
				t.Errorf("test %d: unexpected errors:\n%v", i, errs)
			}
			if diff := cmp.Diff(test.want, names(u.Order)); diff != "" {
				t.Errorf("test %d: unexpected order:\n%s", i, diff)
			}
		}
	}
}

func TestCycle(t *testing.T) {
	u := newUnit(
		module{name: "a", deps: []string{"b"}},
		module{name: "b", deps: []string{"c"}},
		module{name: "c", deps: []string{"a"}},
	)
	errs := &fmterr.Errors{}
	err := modorder.New().Run(pass.NewContext(u, errs))
	if err == nil {
		t.Fatalf("expected an error")
	}
	if code := fmterr.CodeOf(err); code != fmterr.CircularModuleDependency {
		t.Errorf("got code %s but want %s", code, fmterr.CircularModuleDependency)
	}
	if want := "a -> b -> c -> a"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
	if u.Order != nil {
		t.Errorf("got order %v but want no order", names(u.Order))
	}
}

func TestUnknownModule(t *testing.T) {
	u := newUnit(
		module{name: "app", deps: []string{"utils"}},
		module{name: "util"},
	)
	errs := &fmterr.Errors{}
	if err := modorder.New().Run(pass.NewContext(u, errs)); err != nil {
		t.Fatal(err)
	}
	errList := errs.Errors()
	if len(errList) != 1 {
		t.Fatalf("got %d errors but want 1:\n%v", len(errList), errs)
	}
	if code := fmterr.CodeOf(errList[0]); code != fmterr.UnresolvedSymbol {
		t.Errorf("got code %s but want %s", code, fmterr.UnresolvedSymbol)
	}
	if want := "did you mean util?"; !strings.Contains(errList[0].Error(), want) {
		t.Errorf("error %q does not contain %q", errList[0].Error(), want)
	}
	if diff := cmp.Diff([]string{"app", "util"}, names(u.Order)); diff != "" {
		t.Errorf("unexpected order:\n%s", diff)
	}
}
