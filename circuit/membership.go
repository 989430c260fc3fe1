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

// Package circuit defines the membership constraint system: knowledge of a
// secret whose MiMC commitment sits under a public Merkle root, without
// revealing the secret or the leaf position.
package circuit

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/merkle"
)

// ErrDepthExceeded is returned when a witness needs more levels than the
// circuit was compiled for. Recovering requires an offline re-setup with a
// larger maximum depth; it is an operational event, never a per-request one.
var ErrDepthExceeded = errors.New("circuit: tree depth exceeds circuit maximum depth")

// Membership proves commit(Secret) is a leaf under Root.
//
// The circuit shape is fixed per maximum depth: Siblings and Directions
// always hold maxDepth entries so the constraint structure is uniform.
// Shorter real paths are padded -- for levels i >= Depth the sibling and
// direction are zero and the level is a no-op (the running hash is carried
// through unchanged). The witness builder in Assignment applies the same
// rule, and the tree applies none: it only ever issues paths of exactly its
// current depth.
type Membership struct {
	// Root is the tree root the membership claim is made against.
	Root frontend.Variable `gnark:",public"`

	Secret     frontend.Variable
	Depth      frontend.Variable
	Siblings   []frontend.Variable
	Directions []frontend.Variable
}

// NewMembership returns the circuit shape for a given maximum depth, for
// compilation and for building assignments.
func NewMembership(maxDepth int) *Membership {
	return &Membership{
		Siblings:   make([]frontend.Variable, maxDepth),
		Directions: make([]frontend.Variable, maxDepth),
	}
}

// MaxDepth returns the compiled path length of the circuit shape.
func (c *Membership) MaxDepth() int { return len(c.Siblings) }

// Define enforces, for a maximum depth D:
//
//  1. cur = MiMC(Secret)            (the commitment)
//  2. for each level i < D: Directions[i] is boolean and, while i < Depth,
//     cur = MiMC(left, right) with (left, right) the (cur, sibling) pair
//     ordered by the direction bit
//  3. cur == Root, and Depth <= D
//
// Satisfiability is binary; the circuit does not report why a witness fails.
func (c *Membership) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	api.AssertIsLessOrEqual(c.Depth, len(c.Siblings))

	h.Write(c.Secret)
	cur := h.Sum()

	// active stays 1 for levels below Depth, drops to 0 at Depth and beyond
	active := frontend.Variable(1)
	for i := 0; i < len(c.Siblings); i++ {
		api.AssertIsBoolean(c.Directions[i])

		atEnd := api.IsZero(api.Sub(c.Depth, i))
		active = api.Select(atEnd, 0, active)

		left := api.Select(c.Directions[i], c.Siblings[i], cur)
		right := api.Select(c.Directions[i], cur, c.Siblings[i])

		h.Reset()
		h.Write(left, right)
		cur = api.Select(active, h.Sum(), cur)
	}

	api.AssertIsEqual(cur, c.Root)
	return nil
}

// Assignment builds the padded witness binding a secret to an authentication
// path. The path carries its own root; proof and root must come from the same
// tree snapshot or the witness is unsatisfiable.
func Assignment(secret field.Element, path *merkle.Proof, maxDepth int) (*Membership, error) {
	if path.Depth() > maxDepth {
		return nil, fmt.Errorf("%w: path depth %d, maximum %d", ErrDepthExceeded, path.Depth(), maxDepth)
	}

	a := NewMembership(maxDepth)
	a.Root = toBytes(path.Root)
	a.Secret = toBytes(secret)
	a.Depth = path.Depth()

	for i := 0; i < maxDepth; i++ {
		if i < path.Depth() {
			a.Siblings[i] = toBytes(path.Siblings[i])
			if path.Directions[i] {
				a.Directions[i] = 1
			} else {
				a.Directions[i] = 0
			}
		} else {
			a.Siblings[i] = 0
			a.Directions[i] = 0
		}
	}
	return a, nil
}

// PublicAssignment builds the verifier-side assignment: only the root.
func PublicAssignment(root field.Element, maxDepth int) *Membership {
	a := NewMembership(maxDepth)
	a.Root = toBytes(root)
	return a
}

func toBytes(e field.Element) []byte {
	b := e.Bytes()
	return b[:]
}
