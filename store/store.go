// Copyright 2026 The Allowtree Authors
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

// Package store persists the ordered leaf list so the tree can be rebuilt
// deterministically across restarts. The tree itself never touches storage;
// the registry appends each accepted leaf here and replays the log at boot.
package store

import (
	"github.com/allowtree/allowtree/field"
)

// Store is an append-only log of leaves in insertion order.
type Store interface {
	// Append records the next leaf.
	Append(e field.Element) error
	// Load returns every recorded leaf, in insertion order.
	Load() ([]field.Element, error)
	Close() error
}
