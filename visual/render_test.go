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

package visual

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/merkle"
)

func testLevels(t *testing.T, n int) [][]field.Element {
	t.Helper()
	leaves := make([]field.Element, n)
	for i := range leaves {
		leaves[i] = field.FromUint64(uint64(10 * (i + 1)))
	}
	tree := merkle.New(leaves...)
	return tree.Levels()
}

func TestRenderContainsRootLabel(t *testing.T) {
	levels := testLevels(t, 5)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, levels))

	html := buf.String()
	require.Contains(t, html, "allowtree")
	root := levels[len(levels)-1][0]
	require.Contains(t, html, field.Hex(root)[:labelLen])
}

func TestRenderSingleLeaf(t *testing.T) {
	levels := testLevels(t, 1)
	require.Len(t, levels, 1)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, levels))
	require.NotZero(t, buf.Len())
}

func TestRenderEmptyLevels(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Render(&buf, nil))
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	levels := testLevels(t, 4)

	path, err := RenderFile(dir, levels)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filepath.Base(path), "tree_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "allowtree")
}
