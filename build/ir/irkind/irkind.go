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

// Package irkind defines kind for the intermediate representation (IR).
package irkind

import "github.com/gx-org/backend/dtype"

// Kind of a type.
type Kind uint

// Kind of types supported by the IR.
const (
	Invalid Kind = iota

	Integer
	Real
	Complex
	Logical
	Character

	Array
	List
	Tuple
	Struct
	Pointer
	Func

	// Max value for a Kind constant.
	Max
)

var kindToString = map[Kind]string{
	Invalid:   "invalid",
	Integer:   "integer",
	Real:      "real",
	Complex:   "complex",
	Logical:   "logical",
	Character: "character",
	Array:     "array",
	List:      "list",
	Tuple:     "tuple",
	Struct:    "struct",
	Pointer:   "pointer",
	Func:      "func",
}

// String returns a string representation of a kind.
func (k Kind) String() string {
	s, ok := kindToString[k]
	if !ok {
		return "unknown"
	}
	return s
}

// IsScalar returns true if the kind is a numerical or logical scalar.
func (k Kind) IsScalar() bool {
	switch k {
	case Integer, Real, Complex, Logical:
		return true
	}
	return false
}

// IsNumber returns true if arithmetic operators apply to the kind.
func (k Kind) IsNumber() bool {
	switch k {
	case Integer, Real, Complex:
		return true
	}
	return false
}

// DataType returns the backend data type of a scalar kind given its bit width.
// Returns dtype.Invalid if the kind cannot be represented by a backend data type.
func DataType(k Kind, bits int) dtype.DataType {
	switch k {
	case Logical:
		return dtype.Bool
	case Integer:
		switch bits {
		case 32:
			return dtype.Int32
		case 64:
			return dtype.Int64
		}
	case Real:
		switch bits {
		case 16:
			return dtype.Bfloat16
		case 32:
			return dtype.Float32
		case 64:
			return dtype.Float64
		}
	}
	return dtype.Invalid
}
