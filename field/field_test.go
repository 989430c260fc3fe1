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

package field

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	e := FromUint64(42)
	s := Hex(e)
	require.Len(t, s, HexLen)
	require.Equal(t, strings.ToLower(s), s)

	back, err := FromHex(s)
	require.NoError(t, err)
	require.True(t, back.Equal(&e))
}

func TestFromHexUpperCase(t *testing.T) {
	e := FromUint64(0xdeadbeef)
	back, err := FromHex(strings.ToUpper(Hex(e)))
	require.NoError(t, err)
	require.True(t, back.Equal(&e))
}

func TestFromHexRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"abcd",
		strings.Repeat("0", HexLen-1),
		strings.Repeat("0", HexLen+2),
		strings.Repeat("z", HexLen),
	}
	for _, s := range cases {
		_, err := FromHex(s)
		require.ErrorIs(t, err, ErrInvalidEncoding, "input %q", s)
	}
}

func TestFromBytesRejectsOutOfRange(t *testing.T) {
	// 2^256 - 1 is far above the BN254 scalar field modulus.
	b := make([]byte, Bytes)
	for i := range b {
		b[i] = 0xff
	}
	_, err := FromBytes(b)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = FromBytes(b[:Bytes-1])
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestEncodingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("hex round-trips for any uint64", prop.ForAll(
		func(v uint64) bool {
			e := FromUint64(v)
			back, err := FromHex(Hex(e))
			return err == nil && back.Equal(&e)
		},
		gen.UInt64(),
	))

	properties.Property("bytes round-trip for any uint64", prop.ForAll(
		func(v uint64) bool {
			e := FromUint64(v)
			b := e.Bytes()
			back, err := FromBytes(b[:])
			return err == nil && back.Equal(&e)
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
