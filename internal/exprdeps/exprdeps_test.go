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

package exprdeps_test

import (
	"go/token"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/irlower/build/ir"
	irh "github.com/gx-org/irlower/build/ir/irhelper"
	"github.com/gx-org/irlower/internal/exprdeps"
)

func names(vals []*ir.Variable) []string {
	ss := make([]string, len(vals))
	for i, val := range vals {
		ss[i] = val.Name()
	}
	return ss
}

func TestVars(t *testing.T) {
	scope := ir.NewRootScope()
	x := irh.Var(scope, "x", ir.DefaultInt)
	y := irh.Var(scope, "y", ir.DefaultInt)
	arr := irh.Var(scope, "arr", ir.Array(ir.Real(64), 3))
	f := irh.Callable(scope, "f")
	irh.Arg(f, "n", ir.DefaultInt, ir.IntentIn)
	irh.Result(f, "r", ir.DefaultInt)
	tests := []struct {
		expr  ir.Expr
		want  []string
		calls bool
	}{
		{
			expr: irh.Ref(x),
			want: []string{"x"},
		},
		{
			expr: irh.Binary(token.ADD, irh.Ref(x), irh.Ref(y)),
			want: []string{"x", "y"},
		},
		{
			expr: irh.Binary(token.ADD, irh.Ref(x), irh.Ref(x)),
			want: []string{"x"},
		},
		{
			expr:  irh.Binary(token.MUL, irh.Unary(token.SUB, irh.Ref(y)), irh.Intrinsic(ir.IntrinsicSize, irh.Ref(arr), irh.IntLit(1))),
			want:  []string{"y", "arr"},
			calls: true,
		},
		{
			expr:  irh.Call(f, irh.Binary(token.ADD, irh.Ref(y), irh.Ref(x))),
			want:  []string{"y", "x"},
			calls: true,
		},
		{
			expr: irh.IntLit(4),
			want: []string{},
		},
	}
	for i, test := range tests {
		got := names(exprdeps.Vars(test.expr))
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: incorrect variable list: got %v but want %v", i, got, test.want)
		}
		if calls := exprdeps.Calls(test.expr); calls != test.calls {
			t.Errorf("test %d: got calls=%t but want %t", i, calls, test.calls)
		}
	}
}
