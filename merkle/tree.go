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

// Package merkle implements the append-only commitment tree.
//
// The tree is an ordered, growable binary Merkle tree over hasher.Compress.
// Leaves are appended in registration order and never reordered or removed.
// The depth is always the smallest d with 2^d >= leaf count, except that a
// depth reached once is never given up. Unfilled slots hold PadValue, the
// zero field element -- a public constant, not a secret, and (because MiMC is
// collision resistant) not the commitment of any known secret.
//
// The root is a pure function of (ordered leaves, pad value, depth): two
// trees holding the same ordered leaf sequence at the same depth have the
// same root, whether built incrementally or from scratch.
package merkle

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/hasher"
)

// ErrIndexOutOfRange is returned by Path for an index >= the leaf count.
var ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")

// PadValue fills unassigned leaf slots. Zero value of the field.
var PadValue = field.Element{}

// Proof is an authentication path for one leaf, read leaf to root. It is
// valid only against the root recorded in it: appending a leaf or growing the
// tree silently invalidates previously issued paths, so Root and the path
// must always be consumed together.
type Proof struct {
	Leaf     field.Element
	Siblings []field.Element
	// Directions[i] is true when the current node is the right input of the
	// level-i compression (so the sibling goes on the left).
	Directions []bool
	Root       field.Element
}

// Depth returns the path length.
func (p *Proof) Depth() int { return len(p.Siblings) }

// Tree is the append-only commitment tree. Not safe for concurrent use; the
// registry serializes access (single writer, snapshot readers).
type Tree struct {
	leaves []field.Element // insertion order, unpadded
	depth  int
	// levels[0] is the padded leaf layer, levels[depth] the root layer.
	levels [][]field.Element
}

// New builds a tree over the given ordered leaves at the minimum depth.
func New(leaves ...field.Element) *Tree {
	t := &Tree{
		leaves: append([]field.Element(nil), leaves...),
		depth:  minDepth(len(leaves)),
	}
	t.rebuild()
	return t
}

// minDepth is the smallest d with 2^d >= n.
func minDepth(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Insert appends c as the next leaf and returns the new root. If the new leaf
// count exceeds 2^depth, depth grows by the minimum needed and the whole tree
// is recomputed; O(2^d) worst case, accepted since registrations are rare
// relative to proof requests.
func (t *Tree) Insert(c field.Element) field.Element {
	t.leaves = append(t.leaves, c)
	if d := minDepth(len(t.leaves)); d > t.depth {
		t.depth = d
	}
	t.rebuild()
	return t.Root()
}

// rebuild recomputes every level from the ordered leaf list: leaves padded to
// 2^depth with PadValue, then layer-by-layer compression of adjacent pairs.
func (t *Tree) rebuild() {
	width := 1 << t.depth
	level := make([]field.Element, width)
	copy(level, t.leaves)
	for i := len(t.leaves); i < width; i++ {
		level[i] = PadValue
	}

	t.levels = make([][]field.Element, 0, t.depth+1)
	t.levels = append(t.levels, level)

	for lvl := 0; lvl < t.depth; lvl++ {
		next := make([]field.Element, len(level)/2)
		for i := range next {
			next[i] = hasher.Compress(level[2*i], level[2*i+1])
		}
		t.levels = append(t.levels, next)
		level = next
	}
}

// Root returns the current root. For an empty tree this is PadValue.
func (t *Tree) Root() field.Element {
	return t.levels[t.depth][0]
}

// Path returns the authentication path for leaf index i against the current
// root. The returned proof is a snapshot: it stops validating as soon as the
// tree changes.
func (t *Tree) Path(i int) (*Proof, error) {
	if i < 0 || i >= len(t.leaves) {
		return nil, fmt.Errorf("%w: index %d, leaf count %d", ErrIndexOutOfRange, i, len(t.leaves))
	}

	siblings := make([]field.Element, t.depth)
	directions := make([]bool, t.depth)
	idx := i
	for lvl := 0; lvl < t.depth; lvl++ {
		siblings[lvl] = t.levels[lvl][idx^1]
		directions[lvl] = idx&1 == 1
		idx >>= 1
	}

	return &Proof{
		Leaf:       t.leaves[i],
		Siblings:   siblings,
		Directions: directions,
		Root:       t.Root(),
	}, nil
}

// VerifyPath recomputes the hash chain natively, composing hasher.Compress
// exactly as the membership circuit does, and reports whether it reaches the
// proof's root.
func VerifyPath(p *Proof) bool {
	cur := p.Leaf
	for i, sib := range p.Siblings {
		if p.Directions[i] {
			cur = hasher.Compress(sib, cur)
		} else {
			cur = hasher.Compress(cur, sib)
		}
	}
	return cur.Equal(&p.Root)
}

// IndexOf scans the ordered leaves for the first occurrence of leaf.
func (t *Tree) IndexOf(leaf field.Element) (int, bool) {
	for i := range t.leaves {
		if t.leaves[i].Equal(&leaf) {
			return i, true
		}
	}
	return 0, false
}

// Depth returns the current tree depth. It only ever grows.
func (t *Tree) Depth() int { return t.depth }

// LeafCount returns the number of inserted leaves, excluding padding.
func (t *Tree) LeafCount() int { return len(t.leaves) }

// Leaves returns a copy of the ordered unpadded leaves.
func (t *Tree) Leaves() []field.Element {
	return append([]field.Element(nil), t.leaves...)
}

// Levels returns a deep copy of all node layers, leaf layer first. Used by
// the visualization collaborator.
func (t *Tree) Levels() [][]field.Element {
	out := make([][]field.Element, len(t.levels))
	for i, lvl := range t.levels {
		out[i] = append([]field.Element(nil), lvl...)
	}
	return out
}
