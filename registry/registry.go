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

// Package registry owns the single shared Merkle tree and drives the proof
// lifecycle against it.
//
// The tree is the only mutable shared resource. All mutation funnels through
// one write lock; proof requests read (root, path) pairs under one shared
// read acquisition, so the pair always reflects a single tree state. Proving
// and verifying run outside any lock, on a bounded worker pool.
package registry

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/allowtree/allowtree/circuit"
	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/hasher"
	"github.com/allowtree/allowtree/logger"
	"github.com/allowtree/allowtree/merkle"
	"github.com/allowtree/allowtree/prover"
	"github.com/allowtree/allowtree/store"
)

// Registry is the anonymous allowlist: it registers commitments and answers
// zero-knowledge membership queries against the current root.
type Registry struct {
	mu      sync.RWMutex
	tree    *merkle.Tree
	version uint64

	sys  *prover.System
	pool *prover.Pool
	st   store.Store
	log  zerolog.Logger
}

// Stats is a consistent snapshot of the tree's shape.
type Stats struct {
	LeafCount int    `json:"leafCount"`
	Depth     int    `json:"depth"`
	Version   uint64 `json:"version"`
	Root      string `json:"root"`
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore persists accepted leaves and replays them at construction.
func WithStore(st store.Store) Option {
	return func(r *Registry) { r.st = st }
}

// WithPool overrides the default prover pool.
func WithPool(p *prover.Pool) Option {
	return func(r *Registry) { r.pool = p }
}

// New builds a registry around an immutable proving system. With a store
// attached, the persisted leaf log is replayed so the root matches the state
// before the restart.
func New(sys *prover.System, opts ...Option) (*Registry, error) {
	r := &Registry{
		sys:  sys,
		pool: prover.NewPool(runtime.NumCPU(), 4*runtime.NumCPU()),
		log:  logger.Component("registry"),
	}
	for _, o := range opts {
		o(r)
	}

	var leaves []field.Element
	if r.st != nil {
		var err error
		leaves, err = r.st.Load()
		if err != nil {
			return nil, fmt.Errorf("registry: replay leaf log: %w", err)
		}
	}
	r.tree = merkle.New(leaves...)
	r.observeTree()

	r.log.Info().
		Int("leaves", r.tree.LeafCount()).
		Int("depth", r.tree.Depth()).
		Int("maxDepth", sys.MaxDepth()).
		Msg("registry ready")
	return r, nil
}

// Register validates a hex-encoded commitment and appends it as the next
// leaf. The commitment was computed client-side; the secret never reaches the
// server. Returns the new root as 64-char lowercase hex.
func (r *Registry) Register(commitmentHex string) (string, error) {
	c, err := field.FromHex(commitmentHex)
	if err != nil {
		return "", err
	}
	return r.append(c, "commitment")
}

// AddRaw inserts an integer directly as a leaf with no hashing applied.
// Legacy/debug path kept for compatibility; a raw value is not a commitment
// and proving membership of it requires knowing its MiMC preimage.
func (r *Registry) AddRaw(value uint64) (string, error) {
	return r.append(field.FromUint64(value), "raw")
}

// Seed bulk-inserts raw values, but only into an empty tree; a populated
// tree (for instance one replayed from the store) is left untouched.
func (r *Registry) Seed(values ...uint64) error {
	r.mu.RLock()
	empty := r.tree.LeafCount() == 0
	r.mu.RUnlock()
	if !empty {
		r.log.Debug().Msg("tree not empty, skipping seed")
		return nil
	}
	for _, v := range values {
		if _, err := r.AddRaw(v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) append(c field.Element, path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	root := r.tree.Insert(c)
	r.version++

	if r.st != nil {
		if err := r.st.Append(c); err != nil {
			// the in-memory tree and the log have diverged; fatal per the
			// error taxonomy, surfaced to the caller as an internal error
			return "", fmt.Errorf("registry: persist leaf: %w", err)
		}
	}

	if r.tree.Depth() > r.sys.MaxDepth() {
		r.log.Warn().
			Int("depth", r.tree.Depth()).
			Int("maxDepth", r.sys.MaxDepth()).
			Msg("tree depth exceeds circuit maximum; proofs need a re-setup with larger depth")
	}

	registrationsTotal.WithLabelValues(path).Inc()
	r.observeTree()

	r.log.Info().
		Str("path", path).
		Int("leaves", r.tree.LeafCount()).
		Int("depth", r.tree.Depth()).
		Msg("leaf appended")
	return field.Hex(root), nil
}

// Root returns the current root as hex.
func (r *Registry) Root() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return field.Hex(r.tree.Root())
}

// Stats returns a consistent snapshot of the tree's shape.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		LeafCount: r.tree.LeafCount(),
		Depth:     r.tree.Depth(),
		Version:   r.version,
		Root:      field.Hex(r.tree.Root()),
	}
}

// Levels returns a deep copy of the node layers for rendering.
func (r *Registry) Levels() [][]field.Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Levels()
}

// ProveMembership runs the full proof lifecycle for a secret: commitment,
// leaf lookup, witness, prove, verify. The result is a plain boolean; an
// unregistered secret yields an unsatisfiable witness and false, never an
// error. Errors are reserved for structural and system failures (depth beyond
// the circuit maximum, saturated pool, broken keys).
func (r *Registry) ProveMembership(ctx context.Context, secret field.Element) (bool, error) {
	start := time.Now()
	ok, err := r.proveMembership(ctx, secret)
	proveDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		proofsTotal.WithLabelValues("error").Inc()
	case ok:
		proofsTotal.WithLabelValues("true").Inc()
	default:
		proofsTotal.WithLabelValues("false").Inc()
	}
	return ok, err
}

func (r *Registry) proveMembership(ctx context.Context, secret field.Element) (bool, error) {
	c := hasher.Commit(secret)

	// path and root must come from the same snapshot: one read acquisition
	r.mu.RLock()
	path, found, err := r.pathForLeaf(c)
	version := r.version
	r.mu.RUnlock()
	if err != nil {
		return false, err
	}

	assignment, err := circuit.Assignment(secret, path, r.sys.MaxDepth())
	if err != nil {
		return false, err
	}

	var verified bool
	err = r.pool.Do(ctx, func() error {
		proof, err := r.sys.Prove(assignment)
		if errors.Is(err, prover.ErrUnsatisfiedWitness) {
			// expected for unregistered secrets and stale paths
			verified = false
			return nil
		}
		if err != nil {
			return err
		}
		verified, err = r.sys.Verify(proof, path.Root)
		return err
	})
	if err != nil {
		return false, err
	}

	r.log.Debug().
		Bool("member", verified).
		Bool("leafFound", found).
		Uint64("version", version).
		Msg("membership proof finished")
	return verified, nil
}

// pathForLeaf must be called under the read lock. For an absent leaf it
// returns a zero-sibling path of the current depth: deliberately
// unsatisfiable, so the proof request terminates in a clean negative.
func (r *Registry) pathForLeaf(c field.Element) (*merkle.Proof, bool, error) {
	if idx, found := r.tree.IndexOf(c); found {
		p, err := r.tree.Path(idx)
		if err != nil {
			return nil, false, err
		}
		return p, true, nil
	}
	return &merkle.Proof{
		Leaf:       c,
		Siblings:   make([]field.Element, r.tree.Depth()),
		Directions: make([]bool, r.tree.Depth()),
		Root:       r.tree.Root(),
	}, false, nil
}

// observeTree must be called with at least the read lock held.
func (r *Registry) observeTree() {
	treeDepth.Set(float64(r.tree.Depth()))
	treeLeaves.Set(float64(r.tree.LeafCount()))
}
