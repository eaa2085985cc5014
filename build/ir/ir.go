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

// Package ir is the semantic intermediate representation (IR) tree.
//
// The tree is built by a front end from type-resolved source code, mutated in
// place by the lowering passes and finally handed to backend emitters.
// Types, symbols, expressions and statements are closed sets: each set is an
// interface with an unexported marker method so that passes can switch
// exhaustively over the variants defined in this package.
package ir

import "go/token"

type (
	// Node in the tree.
	Node interface {
		// node marks a structure as a node structure.
		// It prevents external implementations of the interface.
		node()
	}

	// SourceNode is a node with a position in the source code.
	SourceNode interface {
		Node
		Source() token.Pos
	}
)
