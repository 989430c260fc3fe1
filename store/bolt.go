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

package store

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/allowtree/allowtree/field"
)

var leavesBucket = []byte("leaves")

// BoltStore keeps the leaf log in a bbolt file. Keys are big-endian
// sequence numbers, so a forward cursor yields insertion order.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(leavesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Append records the next leaf under the next sequence number.
func (s *BoltStore) Append(e field.Element) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(leavesBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		val := e.Bytes()
		return b.Put(key[:], val[:])
	})
}

// Load replays the leaf log in insertion order.
func (s *BoltStore) Load() ([]field.Element, error) {
	var leaves []field.Element
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(leavesBucket).ForEach(func(k, v []byte) error {
			e, err := field.FromBytes(v)
			if err != nil {
				return fmt.Errorf("store: corrupt leaf at key %x: %w", k, err)
			}
			leaves = append(leaves, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
