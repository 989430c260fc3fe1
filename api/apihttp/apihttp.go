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

// Package apihttp exposes the registry over HTTP.
//
// Handlers are factories closed over their collaborators, wired into a
// ServeMux by NewApiHttp. The production path is POST /register with a
// client-side commitment. GET /zk and POST /tree accept raw secrets and raw
// leaves; they exist for local inspection and void zero-knowledge toward the
// server, so deployments should keep them off public listeners.
package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/allowtree/allowtree/circuit"
	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/logger"
	"github.com/allowtree/allowtree/prover"
	"github.com/allowtree/allowtree/registry"
	"github.com/allowtree/allowtree/visual"
)

var log zerolog.Logger = logger.Component("apihttp")

// This handler checks the system status and returns it accordingly.
// The http call it answers is:
//	GET /health-check
//
// If everything is alright, the HTTP status is 200 and the body contains:
//	{"version": 0, "status": "ok"}
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthCheckResponse{Version: 0, Status: "ok"})
}

// Register appends a client-computed commitment to the allowlist:
//	POST /register
//	{"commitment": "<64 hex chars>"}
//
// On success the HTTP status is 201 and the body carries the new root:
//	{"root": "<64 hex chars>"}
//
// A commitment that is not a canonical field element yields 400.
func Register(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		root, err := reg.Register(req.Commitment)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, RootResponse{Root: root})
	}
}

// Add inserts a raw integer leaf, bypassing commitment hashing:
//	POST /tree
//	{"value": 42}
//
// Debug path. Response mirrors Register.
func Add(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req AddRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		root, err := reg.AddRaw(req.Value)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, RootResponse{Root: root})
	}
}

// Membership answers a zero-knowledge membership query for a raw secret:
//	GET /zk?secret=42
//
// The response is 200 with {"proof": true} when the secret's commitment is a
// leaf of the current tree, {"proof": false} otherwise. Debug path: sending
// the secret to the server defeats the anonymity the circuit provides.
func Membership(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		raw := r.URL.Query().Get("secret")
		secret, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("secret must be an unsigned integer"))
			return
		}

		ok, err := reg.ProveMembership(r.Context(), field.FromUint64(secret))
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, ProofResponse{Proof: ok})
	}
}

// Visualize renders the current tree to an HTML artifact under dir:
//	GET /tree/visualize
//
// Returns {"url": "<artifact path>"}.
func Visualize(reg *registry.Registry, dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		path, err := visual.RenderFile(dir, reg.Levels())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, VisualizeResponse{URL: path})
	}
}

// NewApiHttp returns a *http.ServeMux with all API handlers configured.
func NewApiHttp(reg *registry.Registry, renderDir string) *http.ServeMux {
	api := http.NewServeMux()
	api.HandleFunc("/health-check", HealthCheckHandler)
	api.HandleFunc("/register", Register(reg))
	api.HandleFunc("/tree", Add(reg))
	api.HandleFunc("/zk", Membership(reg))
	api.HandleFunc("/tree/visualize", Visualize(reg, renderDir))
	api.Handle("/metrics", promhttp.Handler())
	return api
}

// statusFor maps the error taxonomy onto HTTP statuses. Validation is the
// caller's fault, saturation is backpressure, everything structural is a
// server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, field.ErrInvalidEncoding):
		return http.StatusBadRequest
	case errors.Is(err, prover.ErrPoolSaturated):
		return http.StatusServiceUnavailable
	case errors.Is(err, circuit.ErrDepthExceeded):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
