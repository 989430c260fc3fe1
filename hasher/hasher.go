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

// Package hasher exposes the circuit-friendly hash used everywhere a digest is
// needed: MiMC over the BN254 scalar field, in the Miyaguchi-Preneel
// construction, exactly as implemented by gnark-crypto.
//
// Fixed system parameters (shared bit-for-bit with the in-circuit evaluator in
// gnark/std/hash/mimc, which consumes the same constant table inside
// gnark-crypto): x^5 S-box, 110 rounds, round constants derived by iterated
// SHA3-256 of the ASCII seed string. The native and in-circuit evaluations of
// Compress and Commit agree on every input; hasher_test.go asserts this for a
// sample of inputs.
package hasher

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/allowtree/allowtree/field"
)

// Compress is the deterministic 2-to-1 compression used to build tree nodes:
// the MiMC digest of a || b (canonical big-endian encodings).
func Compress(a, b field.Element) field.Element {
	h := mimc.NewMiMC()
	ab := a.Bytes()
	bb := b.Bytes()
	h.Write(ab[:]) //nolint:errcheck // canonical encodings cannot fail
	h.Write(bb[:]) //nolint:errcheck
	return digest(h.Sum(nil))
}

// Commit derives the public commitment of a secret: the MiMC digest of the
// secret's canonical encoding. Commitments are what the tree stores; secrets
// never leave the prover.
func Commit(secret field.Element) field.Element {
	h := mimc.NewMiMC()
	sb := secret.Bytes()
	h.Write(sb[:]) //nolint:errcheck
	return digest(h.Sum(nil))
}

func digest(b []byte) field.Element {
	e, err := field.FromBytes(b)
	if err != nil {
		// MiMC outputs are reduced field elements; a non-canonical digest
		// means the hash implementation itself is broken.
		panic(err)
	}
	return e
}
