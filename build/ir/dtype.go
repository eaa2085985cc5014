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
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/irlower/build/ir/irkind"
)

// DataType returns the backend data type of the element type of a type.
// Returns dtype.Invalid if the element type is not a scalar supported by backends.
func DataType(typ Type) dtype.DataType {
	switch t := ElemType(typ).(type) {
	case *IntegerType:
		return irkind.DataType(irkind.Integer, t.Bits)
	case *RealType:
		return irkind.DataType(irkind.Real, t.Bits)
	case *LogicalType:
		return irkind.DataType(irkind.Logical, 0)
	}
	return dtype.Invalid
}

// StaticShape returns the shape of a value of a given type
// if the shape is known at compile time and the element type
// is supported by backends.
func StaticShape(typ Type) (*shape.Shape, bool) {
	dt := DataType(typ)
	if dt == dtype.Invalid {
		return nil, false
	}
	arr, ok := typ.(*ArrayType)
	if !ok {
		return &shape.Shape{DType: dt}, true
	}
	lengths, ok := arr.StaticLengths()
	if !ok {
		return nil, false
	}
	return &shape.Shape{DType: dt, AxisLengths: lengths}, true
}
