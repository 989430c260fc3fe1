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

package apihttp

// RegisterRequest is the public struct the Register handler parses from the
// POST body. Commitment is a 64-character hex field element computed
// client-side; the secret behind it never travels.
type RegisterRequest struct {
	Commitment string `json:"commitment"`
}

// AddRequest is the public struct the Add handler parses from the POST body.
// The value is inserted as a raw leaf, no hashing applied.
type AddRequest struct {
	Value uint64 `json:"value"`
}

// RootResponse carries the tree root after a successful insertion.
type RootResponse struct {
	Root string `json:"root"`
}

// ProofResponse is the outcome of a membership query. False covers both an
// unknown secret and a witness that failed to satisfy the circuit.
type ProofResponse struct {
	Proof bool `json:"proof"`
}

// VisualizeResponse points at the rendered tree artifact on disk.
type VisualizeResponse struct {
	URL string `json:"url"`
}

// HealthCheckResponse reports service liveness.
type HealthCheckResponse struct {
	Version int    `json:"version"`
	Status  string `json:"status"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
