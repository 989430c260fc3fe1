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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/allowtree/allowtree/prover"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Run the trusted setup offline and write the artifacts to disk",
	Long: "Compiles the membership circuit at the given depth capacity and writes the " +
		"constraint system, proving key and verifying key. Point the server's --keys-dir " +
		"at the output so restarts keep issuing proofs against the same keys.",
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().Int("max-depth", 16, "circuit depth capacity baked into the keys")
	keysCmd.Flags().String("out", ".", "output directory")
	Root.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return err
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	sys, err := prover.Setup(maxDepth)
	if err != nil {
		return err
	}
	if err := sys.Save(out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote proving artifacts for depth %d to %s\n", maxDepth, out)
	return nil
}
