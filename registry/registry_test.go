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

package registry

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allowtree/allowtree/circuit"
	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/hasher"
	"github.com/allowtree/allowtree/prover"
	"github.com/allowtree/allowtree/store"
)

const testMaxDepth = 4

var (
	sysOnce sync.Once
	sys     *prover.System
	sysErr  error
)

func testSystem(t *testing.T) *prover.System {
	t.Helper()
	sysOnce.Do(func() {
		sys, sysErr = prover.Setup(testMaxDepth)
	})
	require.NoError(t, sysErr)
	return sys
}

func TestRegisterValidation(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)

	cases := []string{
		"",
		"abc",
		strings.Repeat("0", 63),
		strings.Repeat("g", 64),
		strings.Repeat("f", 64), // out of field range
	}
	for _, c := range cases {
		_, err := r.Register(c)
		require.ErrorIs(t, err, field.ErrInvalidEncoding, "input %q", c)
	}
	require.Equal(t, 0, r.Stats().LeafCount)
}

func TestRegisterReturnsNewRoot(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)

	c := hasher.Commit(field.FromUint64(42))
	root, err := r.Register(field.Hex(c))
	require.NoError(t, err)
	require.Len(t, root, field.HexLen)
	require.Equal(t, root, r.Root())

	st := r.Stats()
	require.Equal(t, 1, st.LeafCount)
	require.Equal(t, uint64(1), st.Version)
}

// The end-to-end scenario: seed [10..80] (8 leaves, depth 3), register
// commit(42) (9 leaves, depth 4, new root), then prove 42 and 43.
func TestScenario(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)

	require.NoError(t, r.Seed(10, 20, 30, 40, 50, 60, 70, 80))
	st := r.Stats()
	require.Equal(t, 8, st.LeafCount)
	require.Equal(t, 3, st.Depth)
	oldRoot := st.Root

	c := hasher.Commit(field.FromUint64(42))
	newRoot, err := r.Register(field.Hex(c))
	require.NoError(t, err)
	require.NotEqual(t, oldRoot, newRoot)

	st = r.Stats()
	require.Equal(t, 9, st.LeafCount)
	require.Equal(t, 4, st.Depth)

	ok, err := r.ProveMembership(context.Background(), field.FromUint64(42))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.ProveMembership(context.Background(), field.FromUint64(43))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProveAgainstEmptyTree(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)

	ok, err := r.ProveMembership(context.Background(), field.FromUint64(42))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProveDepthExceeded(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)

	// 17 leaves need depth 5, beyond the circuit's maximum of 4
	for i := 0; i < 16; i++ {
		_, err := r.AddRaw(uint64(100 + i))
		require.NoError(t, err)
	}
	c := hasher.Commit(field.FromUint64(42))
	_, err = r.Register(field.Hex(c))
	require.NoError(t, err)

	_, err = r.ProveMembership(context.Background(), field.FromUint64(42))
	require.ErrorIs(t, err, circuit.ErrDepthExceeded)
}

func TestSeedSkipsPopulatedTree(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)

	_, err = r.AddRaw(7)
	require.NoError(t, err)
	require.NoError(t, r.Seed(10, 20, 30))
	require.Equal(t, 1, r.Stats().LeafCount)
}

func TestStoreReplayPreservesRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaves.db")

	st, err := store.NewBoltStore(path)
	require.NoError(t, err)

	r, err := New(testSystem(t), WithStore(st))
	require.NoError(t, err)
	require.NoError(t, r.Seed(10, 20, 30))
	c := hasher.Commit(field.FromUint64(42))
	_, err = r.Register(field.Hex(c))
	require.NoError(t, err)

	root := r.Root()
	require.NoError(t, st.Close())

	// a fresh registry over the same store rebuilds the identical tree
	st, err = store.NewBoltStore(path)
	require.NoError(t, err)
	defer st.Close()

	r2, err := New(testSystem(t), WithStore(st))
	require.NoError(t, err)
	require.Equal(t, root, r2.Root())
	require.Equal(t, 4, r2.Stats().LeafCount)

	ok, err := r2.ProveMembership(context.Background(), field.FromUint64(42))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestConcurrentRegistrationsAndProofs(t *testing.T) {
	r, err := New(testSystem(t))
	require.NoError(t, err)
	require.NoError(t, r.Seed(10, 20, 30))

	c := hasher.Commit(field.FromUint64(42))
	_, err = r.Register(field.Hex(c))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := r.ProveMembership(context.Background(), field.FromUint64(42))
			require.NoError(t, err)
			require.True(t, ok)
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.AddRaw(uint64(200 + i))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 8, r.Stats().LeafCount)
}
