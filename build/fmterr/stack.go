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
	"io"

	"github.com/pkg/errors"
)

// errorWithStackTrace prints where an error has been generated when
// formatted with %+v.
type errorWithStackTrace struct {
	err error
	// dump is the stack of the goroutine which detected the error.
	// If nil, the stack trace recorded by pkg/errors is used instead.
	dump []byte
}

// formatVerbose writes an error followed by where it has been generated.
// dump is used if not nil. Otherwise, the stack trace recorded by pkg/errors
// in the chain of the error is written, if any.
func formatVerbose(err error, dump []byte, s fmt.State) {
	io.WriteString(s, err.Error())
	if dump != nil {
		fmt.Fprintf(s, "\nError generated at:\n%s", dump)
		return
	}
	var withSt interface {
		StackTrace() errors.StackTrace
	}
	if !errors.As(err, &withSt) {
		return
	}
	fmt.Fprintf(s, "\nError generated at:%+v\n", withSt.StackTrace())
}

func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'w':
		fallthrough
	case 'v':
		if s.Flag('+') {
			var dump []byte
			if withSt, ok := err.(errorWithStackTrace); ok {
				dump = withSt.dump
			}
			formatVerbose(err, dump, s)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

// ToStackTraceError returns an error that displays the stack trace
// recorded by pkg/errors in verbose formatting.
func ToStackTraceError(err error) error {
	if err == nil {
		return nil
	}
	return errorWithStackTrace{err: err}
}

// WithStack returns an error that displays a goroutine stack dump,
// as returned by runtime/debug.Stack, in verbose formatting.
func WithStack(err error, dump []byte) error {
	if err == nil {
		return nil
	}
	return errorWithStackTrace{err: err, dump: dump}
}

func (err errorWithStackTrace) Unwrap() error {
	return err.err
}

func (err errorWithStackTrace) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithStackTrace) Error() string {
	return err.err.Error()
}
