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

package fmterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies a class of diagnostics reported by the lowering passes.
type Code int

const (
	// Unknown is the code of errors without a diagnostic code.
	Unknown Code = iota
	// RankMismatch is reported when two array operands of an elementwise
	// operation have different non-zero ranks.
	RankMismatch
	// UnsupportedArrayOperation is reported when an array operand cannot be lowered to loops.
	UnsupportedArrayOperation
	// UnsupportedType is reported when a type cannot be mapped to the target.
	UnsupportedType
	// UnresolvedSymbol is reported when a name does not resolve in a scope.
	UnresolvedSymbol
	// DuplicateSymbol is reported when a name is defined twice in the same scope.
	DuplicateSymbol
	// CircularModuleDependency is reported when modules depend on each other.
	CircularModuleDependency
)

var codeToString = map[Code]string{
	Unknown:                   "Unknown",
	RankMismatch:              "RankMismatch",
	UnsupportedArrayOperation: "UnsupportedArrayOperation",
	UnsupportedType:           "UnsupportedType",
	UnresolvedSymbol:          "UnresolvedSymbol",
	DuplicateSymbol:           "DuplicateSymbol",
	CircularModuleDependency:  "CircularModuleDependency",
}

func (c Code) String() string {
	s, ok := codeToString[c]
	if !ok {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return s
}

type codeError struct {
	code Code
	err  error
}

// Errorf returns a new error with a diagnostic code.
func (c Code) Errorf(format string, a ...any) error {
	return codeError{code: c, err: errors.Errorf(format, a...)}
}

// Wrap attaches a diagnostic code to an existing error.
func (c Code) Wrap(err error) error {
	return codeError{code: c, err: err}
}

func (err codeError) Error() string {
	return err.err.Error()
}

func (err codeError) Unwrap() error {
	return err.err
}

func (err codeError) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

// CodeOf returns the diagnostic code of an error or Unknown if the error has no code.
func CodeOf(err error) Code {
	var cErr codeError
	if !errors.As(err, &cErr) {
		return Unknown
	}
	return cErr.code
}
