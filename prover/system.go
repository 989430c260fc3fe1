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

// Package prover wraps the Groth16 protocol around the membership circuit:
// one-time setup per maximum depth, proving against a witness, verification
// against a public root.
package prover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/allowtree/allowtree/circuit"
	"github.com/allowtree/allowtree/field"
	"github.com/allowtree/allowtree/logger"
)

// ErrUnsatisfiedWitness reports that a witness does not satisfy the circuit
// constraints. Expected and non-fatal: an unregistered secret or a stale path
// lands here, and the caller turns it into a negative proof result.
var ErrUnsatisfiedWitness = errors.New("prover: witness does not satisfy the circuit")

// System holds the compiled constraint system and the Groth16 key pair for
// one maximum depth. Immutable once built; safe for concurrent Prove/Verify.
type System struct {
	maxDepth int
	ccs      constraint.ConstraintSystem
	pk       groth16.ProvingKey
	vk       groth16.VerifyingKey
}

// Setup compiles the membership circuit for maxDepth and runs the Groth16
// key generation. Expensive; run once, offline, per maximum depth.
func Setup(maxDepth int) (*System, error) {
	log := logger.Component("prover")
	start := time.Now()

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit.NewMembership(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("prover: compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("prover: groth16 setup: %w", err)
	}

	log.Info().
		Int("maxDepth", maxDepth).
		Int("constraints", ccs.GetNbConstraints()).
		Dur("took", time.Since(start)).
		Msg("setup complete")

	return &System{maxDepth: maxDepth, ccs: ccs, pk: pk, vk: vk}, nil
}

// MaxDepth returns the path length the circuit was compiled for.
func (s *System) MaxDepth() int { return s.maxDepth }

// Prove generates a proof for the given assignment. A witness that fails the
// constraints returns ErrUnsatisfiedWitness.
func (s *System) Prove(a *circuit.Membership) (groth16.Proof, error) {
	w, err := frontend.NewWitness(a, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("prover: build witness: %w", err)
	}

	proof, err := groth16.Prove(s.ccs, s.pk, w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsatisfiedWitness, err)
	}
	return proof, nil
}

// Verify checks a proof against a public root. Pure: it mutates nothing and
// depends only on its inputs and the verification key. An invalid proof is
// (false, nil), not an error.
func (s *System) Verify(proof groth16.Proof, root field.Element) (bool, error) {
	pub := circuit.PublicAssignment(root, s.maxDepth)
	w, err := frontend.NewWitness(pub, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("prover: build public witness: %w", err)
	}

	if err := groth16.Verify(proof, s.vk, w); err != nil {
		return false, nil
	}
	return true, nil
}

// File names used by Save and Load inside a key directory.
const (
	ccsFile = "membership.ccs"
	pkFile  = "membership.pk"
	vkFile  = "membership.vk"
)

// Save writes the constraint system and both keys to dir, so setup can run
// offline and servers load the artifacts at boot.
func (s *System) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prover: create key dir: %w", err)
	}
	for _, a := range []struct {
		name string
		w    io.WriterTo
	}{
		{ccsFile, s.ccs},
		{pkFile, s.pk},
		{vkFile, s.vk},
	} {
		f, err := os.Create(filepath.Join(dir, a.name))
		if err != nil {
			return fmt.Errorf("prover: create %s: %w", a.name, err)
		}
		if _, err := a.w.WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("prover: write %s: %w", a.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("prover: close %s: %w", a.name, err)
		}
	}
	return nil
}

// Load reads previously saved artifacts for the given maximum depth.
func Load(dir string, maxDepth int) (*System, error) {
	ccs := groth16.NewCS(ecc.BN254)
	pk := groth16.NewProvingKey(ecc.BN254)
	vk := groth16.NewVerifyingKey(ecc.BN254)

	for _, a := range []struct {
		name string
		r    io.ReaderFrom
	}{
		{ccsFile, ccs},
		{pkFile, pk},
		{vkFile, vk},
	} {
		f, err := os.Open(filepath.Join(dir, a.name))
		if err != nil {
			return nil, fmt.Errorf("prover: open %s: %w", a.name, err)
		}
		_, err = a.r.ReadFrom(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("prover: read %s: %w", a.name, err)
		}
	}

	return &System{maxDepth: maxDepth, ccs: ccs, pk: pk, vk: vk}, nil
}
