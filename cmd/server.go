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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allowtree/allowtree/api/apihttp"
	"github.com/allowtree/allowtree/logger"
	"github.com/allowtree/allowtree/prover"
	"github.com/allowtree/allowtree/registry"
	"github.com/allowtree/allowtree/store"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the allowlist HTTP service",
	RunE:  runServer,
}

func init() {
	f := serverCmd.Flags()
	f.String("http-addr", ":8080", "address the API listens on")
	f.Int("max-depth", 16, "circuit depth capacity; changing it requires a new trusted setup")
	f.String("keys-dir", "", "directory holding the proving artifacts; generated there on first run")
	f.String("store-path", "", "bbolt file persisting the leaf log; empty keeps the tree in memory")
	f.String("render-dir", os.TempDir(), "directory for rendered tree snapshots")
	f.UintSlice("seed", nil, "raw leaves inserted into an empty tree at startup")

	for _, name := range []string{"http-addr", "max-depth", "keys-dir", "store-path", "render-dir", "seed"} {
		if err := viper.BindPFlag(name, f.Lookup(name)); err != nil {
			panic(err)
		}
	}

	Root.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	log := logger.Component("server")

	sys, err := loadOrSetup(viper.GetString("keys-dir"), viper.GetInt("max-depth"))
	if err != nil {
		return err
	}

	opts := []registry.Option{}
	if path := viper.GetString("store-path"); path != "" {
		st, err := store.NewBoltStore(path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		opts = append(opts, registry.WithStore(st))
	}

	reg, err := registry.New(sys, opts...)
	if err != nil {
		return err
	}
	if seed := viper.GetIntSlice("seed"); len(seed) > 0 {
		values := make([]uint64, len(seed))
		for i, v := range seed {
			values[i] = uint64(v)
		}
		if err := reg.Seed(values...); err != nil {
			return fmt.Errorf("seed tree: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              viper.GetString("http-addr"),
		Handler:           apihttp.NewApiHttp(reg, viper.GetString("render-dir")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadOrSetup reuses proving artifacts from dir when they exist, otherwise
// runs a fresh setup. With no dir the setup stays in memory and a restart
// means new keys, which invalidates previously issued proofs.
func loadOrSetup(dir string, maxDepth int) (*prover.System, error) {
	if dir == "" {
		return prover.Setup(maxDepth)
	}

	if _, err := os.Stat(filepath.Join(dir, "membership.ccs")); err == nil {
		return prover.Load(dir, maxDepth)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("probe keys dir: %w", err)
	}

	sys, err := prover.Setup(maxDepth)
	if err != nil {
		return nil, err
	}
	if err := sys.Save(dir); err != nil {
		return nil, err
	}
	return sys, nil
}
