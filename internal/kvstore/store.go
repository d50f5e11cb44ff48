// Copyright 2026 The Genius Authors
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

// Package kvstore implements the ReplicatedKVStore external contract of
// spec §4.G: a per-key value store with query-by-prefix, atomic batch
// commit, and replication of a committed batch to every store that joined
// the same topic. The real gossip transport is out of scope (spec §1); the
// types here are the black-box collaborator's reference implementation and
// test double.
package kvstore

import "errors"

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the contract the transaction manager depends on.
type Store interface {
	// Get returns the value stored at key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)
	// QueryKeyValues returns every key/value pair whose key has the given
	// prefix, in unspecified order.
	QueryKeyValues(prefix string) (map[string][]byte, error)
	// Batch opens a new atomic write batch.
	Batch() Batch
}

// Batch accumulates writes to be applied atomically on Commit.
type Batch interface {
	Put(key string, value []byte)
	Commit() error
}
