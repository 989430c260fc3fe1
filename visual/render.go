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

// Package visual renders a snapshot of the Merkle tree to an HTML artifact.
// Purely presentational: it consumes a copy of the node layers and never
// touches tree state.
package visual

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/allowtree/allowtree/field"
)

// labelLen is how many hex characters of each node digest are shown.
const labelLen = 8

// Render writes an HTML tree chart of the given node layers (leaf layer
// first, root layer last) to w.
func Render(w io.Writer, levels [][]field.Element) error {
	if len(levels) == 0 {
		return fmt.Errorf("visual: no levels to render")
	}

	chart := charts.NewTree()
	chart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "allowtree",
			Subtitle: fmt.Sprintf("root %s", label(levels[len(levels)-1][0])),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "700px"}),
	)

	root := node(levels, len(levels)-1, 0)
	chart.AddSeries("merkle", []opts.TreeData{*root})
	return chart.Render(w)
}

// RenderFile renders into dir and returns the artifact path. The file name
// embeds a root prefix so successive snapshots do not clobber each other.
func RenderFile(dir string, levels [][]field.Element) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("visual: create render dir: %w", err)
	}
	if len(levels) == 0 {
		return "", fmt.Errorf("visual: no levels to render")
	}

	name := fmt.Sprintf("tree_%s.html", label(levels[len(levels)-1][0]))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("visual: create artifact: %w", err)
	}
	defer f.Close()

	if err := Render(f, levels); err != nil {
		return "", err
	}
	return path, nil
}

// node builds the chart subtree rooted at levels[lvl][idx], walking down to
// the leaf layer.
func node(levels [][]field.Element, lvl, idx int) *opts.TreeData {
	n := &opts.TreeData{Name: label(levels[lvl][idx])}
	if lvl == 0 {
		return n
	}
	n.Children = []*opts.TreeData{
		node(levels, lvl-1, 2*idx),
		node(levels, lvl-1, 2*idx+1),
	}
	return n
}

func label(e field.Element) string {
	return field.Hex(e)[:labelLen]
}
