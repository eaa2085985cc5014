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

// Package contract checks invariants of the compiler.
//
// A broken invariant is a bug in the compiler, not in the program being compiled.
// Checks panic with a *Violation which is recovered by the pass driver and
// converted into an internal error.
package contract

import (
	"fmt"
	"runtime/debug"

	"github.com/golang/glog"
)

const (
	assertMsg  = "An assertion has failed"
	failMsg    = "A failure has occurred"
	requireMsg = "A precondition has failed for %v"
)

// Violation is the value of a panic raised when an invariant is broken.
type Violation struct {
	Msg string
	// Node is the kind of IR node being processed, if any.
	Node  string
	Stack []byte
}

func (v *Violation) Error() string {
	if v.Node == "" {
		return v.Msg
	}
	return fmt.Sprintf("%s (node %s)", v.Msg, v.Node)
}

func failfast(node, msg string) {
	glog.V(2).Infof("contract violation: %s", msg)
	panic(&Violation{Msg: msg, Node: node, Stack: debug.Stack()})
}

// Assertf checks a condition and Failfs if it is false, formatting and logging the given message.
func Assertf(cond bool, msg string, args ...any) {
	if !cond {
		failfast("", fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...)))
	}
}

// AssertNodef checks a condition while processing an IR node.
// The kind of node is recorded in the violation.
func AssertNodef(cond bool, node any, msg string, args ...any) {
	if !cond {
		failfast(fmt.Sprintf("%T", node), fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...)))
	}
}

// Failf unconditionally abandons the current pass, formatting and logging the given message.
func Failf(msg string, args ...any) {
	failfast("", fmt.Sprintf("%v: %v", failMsg, fmt.Sprintf(msg, args...)))
}

// Requiref checks a precondition condition pertaining to a function parameter, and Failfs if it is false.
func Requiref(cond bool, param string, msg string, args ...any) {
	if !cond {
		failfast("", fmt.Sprintf("%v: %v", fmt.Sprintf(requireMsg, param), fmt.Sprintf(msg, args...)))
	}
}

// Recover converts a Violation panic into an error.
// Panics which are not a Violation are propagated.
// It must be called directly by a deferred function.
func Recover(r any) *Violation {
	if r == nil {
		return nil
	}
	v, ok := r.(*Violation)
	if !ok {
		panic(r)
	}
	return v
}
