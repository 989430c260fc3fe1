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

package hasher

import (
	"crypto/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/allowtree/allowtree/field"
)

// compressCircuit recomputes Compress in-circuit; Out is produced by the
// native evaluator, so satisfiability means both evaluators agree.
type compressCircuit struct {
	A   frontend.Variable
	B   frontend.Variable
	Out frontend.Variable `gnark:",public"`
}

func (c *compressCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.A, c.B)
	api.AssertIsEqual(h.Sum(), c.Out)
	return nil
}

type commitCircuit struct {
	Secret frontend.Variable
	Out    frontend.Variable `gnark:",public"`
}

func (c *commitCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Secret)
	api.AssertIsEqual(h.Sum(), c.Out)
	return nil
}

func randomElement(t *testing.T) field.Element {
	t.Helper()
	var buf [field.Bytes]byte
	_, err := rand.Read(buf[:])
	require.NoError(t, err)
	var e field.Element
	e.SetBytes(buf[:]) // reduces mod r
	return e
}

func bytesOf(e field.Element) []byte {
	b := e.Bytes()
	return b[:]
}

func TestCompressDeterministic(t *testing.T) {
	a := field.FromUint64(10)
	b := field.FromUint64(20)

	h1 := Compress(a, b)
	h2 := Compress(a, b)
	require.True(t, h1.Equal(&h2))

	// order matters
	h3 := Compress(b, a)
	require.False(t, h1.Equal(&h3))
}

func TestCommitDistinctFromInput(t *testing.T) {
	s := field.FromUint64(42)
	c := Commit(s)
	require.False(t, c.Equal(&s))
	require.NotEqual(t, field.Hex(c), field.Hex(field.Element{}))
}

func TestCompressMatchesCircuit(t *testing.T) {
	assert := test.NewAssert(t)

	for i := 0; i < 4; i++ {
		a := randomElement(t)
		b := randomElement(t)
		out := Compress(a, b)

		assert.CheckCircuit(&compressCircuit{},
			test.WithValidAssignment(&compressCircuit{
				A:   bytesOf(a),
				B:   bytesOf(b),
				Out: bytesOf(out),
			}),
			test.WithCurves(ecc.BN254),
			test.WithBackends(backend.GROTH16),
		)
	}
}

func TestCommitMatchesCircuit(t *testing.T) {
	assert := test.NewAssert(t)

	for i := 0; i < 4; i++ {
		s := randomElement(t)
		out := Commit(s)

		assert.CheckCircuit(&commitCircuit{},
			test.WithValidAssignment(&commitCircuit{
				Secret: bytesOf(s),
				Out:    bytesOf(out),
			}),
			test.WithInvalidAssignment(&commitCircuit{
				Secret: bytesOf(out), // a digest is not its own preimage
				Out:    bytesOf(out),
			}),
			test.WithCurves(ecc.BN254),
			test.WithBackends(backend.GROTH16),
		)
	}
}
