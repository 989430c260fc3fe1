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

// Package field fixes the prime field in which all commitments, tree nodes and
// roots live: the scalar field of BN254, as implemented by gnark-crypto.
//
// Element is an alias for fr.Element, so the full fr arithmetic API (Add, Mul,
// Equal, ...) is available on values of this package. What this package adds
// is the canonical wire encoding: 32 big-endian bytes, rendered as 64
// lowercase hex characters, fully reduced. Any input that does not decode to
// a canonical element is rejected with ErrInvalidEncoding.
package field

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is a value in [0, r) where r is the BN254 scalar field modulus.
type Element = fr.Element

// Bytes is the size of the canonical encoding of an Element.
const Bytes = fr.Bytes

// HexLen is the length of the canonical hex rendering of an Element.
const HexLen = 2 * fr.Bytes

// ErrInvalidEncoding is returned when bytes or hex do not decode to a
// canonical field element.
var ErrInvalidEncoding = errors.New("field: invalid encoding")

// FromBytes decodes a big-endian canonical encoding. The input must be
// exactly Bytes long and represent a value strictly below the field modulus.
func FromBytes(b []byte) (Element, error) {
	var e Element
	if len(b) != Bytes {
		return e, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEncoding, Bytes, len(b))
	}
	if err := e.SetBytesCanonical(b); err != nil {
		return e, fmt.Errorf("%w: value not reduced modulo the field modulus", ErrInvalidEncoding)
	}
	return e, nil
}

// FromHex decodes a 64-character hex string. Mixed case is accepted on input;
// the canonical rendering is lowercase.
func FromHex(s string) (Element, error) {
	var e Element
	if len(s) != HexLen {
		return e, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidEncoding, HexLen, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return e, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return FromBytes(b)
}

// FromUint64 maps an integer into the field. Used by the raw/debug
// registration path and by tests.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// Hex returns the canonical rendering of e: 64 lowercase hex characters,
// big-endian, zero-padded.
func Hex(e Element) string {
	b := e.Bytes()
	return hex.EncodeToString(b[:])
}
