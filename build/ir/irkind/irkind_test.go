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

package irkind_test

import (
	"testing"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/irlower/build/ir/irkind"
)

func TestDataType(t *testing.T) {
	tests := []struct {
		kind irkind.Kind
		bits int
		want dtype.DataType
	}{
		{irkind.Integer, 32, dtype.Int32},
		{irkind.Integer, 64, dtype.Int64},
		{irkind.Integer, 8, dtype.Invalid},
		{irkind.Real, 32, dtype.Float32},
		{irkind.Real, 64, dtype.Float64},
		{irkind.Logical, 0, dtype.Bool},
		{irkind.Character, 0, dtype.Invalid},
		{irkind.Array, 0, dtype.Invalid},
	}
	for i, test := range tests {
		if got := irkind.DataType(test.kind, test.bits); got != test.want {
			t.Errorf("test %d: DataType(%s, %d) = %v but want %v", i, test.kind, test.bits, got, test.want)
		}
	}
}

func TestString(t *testing.T) {
	for k := irkind.Invalid; k < irkind.Max; k++ {
		if k.String() == "unknown" {
			t.Errorf("kind %d has no string representation", k)
		}
	}
	if !irkind.Complex.IsNumber() || irkind.Logical.IsNumber() {
		t.Errorf("IsNumber: complex must be a number and logical must not be")
	}
}
