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

// Severity of an error.
type Severity int

const (
	// SeverityError is a problem in the program being compiled.
	// It is reported to the user and compilation continues.
	SeverityError Severity = iota
	// SeverityInternal is a broken compiler invariant.
	SeverityInternal
	// SeverityLimit reports that a resource limit of the compiler has been reached.
	SeverityLimit
)

var severityToString = map[Severity]string{
	SeverityError:    "error",
	SeverityInternal: "internal",
	SeverityLimit:    "limit",
}

func (s Severity) String() string {
	str, ok := severityToString[s]
	if !ok {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return str
}

type internalError struct {
	err error
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return internalError{err: err}
}

func (err internalError) Error() string {
	return fmt.Sprintf("internal compiler error. This is a bug in the compiler. Please report it. Error:\n%+v", err.err)
}

func (err internalError) Unwrap() error {
	return err.err
}

type limitError struct {
	err error
}

// Limit marks an error as the compiler reaching one of its limits.
func Limit(err error) error {
	return limitError{err: err}
}

func (err limitError) Error() string {
	return "compiler limit reached: " + err.err.Error()
}

func (err limitError) Unwrap() error {
	return err.err
}

// SeverityOf returns the severity of an error.
func SeverityOf(err error) Severity {
	if errors.As(err, &internalError{}) {
		return SeverityInternal
	}
	if errors.As(err, &limitError{}) {
		return SeverityLimit
	}
	return SeverityError
}
