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

// Package cmd implements the allowtree command line: the server command and
// the offline keys command.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Root = &cobra.Command{
	Use:   "allowtree",
	Short: "Anonymous allowlist service",
	Long: "Allowtree maintains an append-only Merkle tree of identity commitments and " +
		"answers membership queries with Groth16 proofs, so a member can show they are " +
		"on the list without revealing which leaf is theirs.",
	SilenceUsage: true,
}

func init() {
	viper.SetEnvPrefix("allowtree")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return Root.Execute()
}
