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

package mangle

import (
	"strings"

	"github.com/pkg/errors"
)

// Policy selects the symbols to rename.
type Policy int

const (
	// PolicyNone does not rename any symbol.
	PolicyNone Policy = iota
	// PolicyModule renames symbols defined at the level of a module.
	PolicyModule
	// PolicyGlobal renames symbols defined in the global scope.
	PolicyGlobal
	// PolicyIntrinsic renames intrinsic callables.
	PolicyIntrinsic
	// PolicyAll renames all symbols.
	PolicyAll
)

var policyToString = map[Policy]string{
	PolicyNone:      "none",
	PolicyModule:    "module",
	PolicyGlobal:    "global",
	PolicyIntrinsic: "intrinsic",
	PolicyAll:       "all",
}

func (p Policy) String() string {
	s, ok := policyToString[p]
	if !ok {
		return "unknown"
	}
	return s
}

// ParsePolicy returns the policy given its name.
func ParsePolicy(s string) (Policy, error) {
	for policy, name := range policyToString {
		if strings.EqualFold(s, name) {
			return policy, nil
		}
	}
	return PolicyNone, errors.Errorf("unknown mangling policy %q", s)
}
