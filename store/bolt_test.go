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

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allowtree/allowtree/field"
)

func TestBoltStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaves.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)

	want := []field.Element{
		field.FromUint64(10),
		field.FromUint64(0), // zero leaves must survive
		field.FromUint64(30),
	}
	for _, e := range want {
		require.NoError(t, s.Append(e))
	}
	require.NoError(t, s.Close())

	// reopen and replay: same leaves, same order
	s, err = NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, got[i].Equal(&want[i]), "leaf %d", i)
	}
}

func TestBoltStoreEmpty(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "leaves.db"))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, got)
}
