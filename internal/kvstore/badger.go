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

package kvstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/GeniusVentures/geniuscore/internal/logging"
)

// BadgerStore is the on-disk Store backend, one per account's write path
// (spec §3 keyspace base `/bc-<net-id>/<addr>/...`).
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if absent) a badger database rooted at
// dir, matching the teacher's own storage setup
// (internal/storage/storage.go Load).
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(newBadgerLogger()).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open badger store at %q: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			out = append([]byte(nil), v...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return out, nil
}

func (s *BadgerStore) QueryKeyValues(prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	prefixBytes := []byte(prefix)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(v []byte) error {
				out[key] = append([]byte(nil), v...)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: query prefix %q: %w", prefix, err)
	}
	return out, nil
}

func (s *BadgerStore) Batch() Batch {
	return &badgerBatch{db: s.db, writes: make(map[string][]byte)}
}

type badgerBatch struct {
	db     *badger.DB
	writes map[string][]byte
}

func (b *badgerBatch) Put(key string, value []byte) {
	b.writes[key] = value
}

func (b *badgerBatch) Commit() error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for k, v := range b.writes {
		if err := wb.Set([]byte(k), v); err != nil {
			return fmt.Errorf("kvstore: stage %q: %w", k, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("kvstore: commit batch: %w", err)
	}
	return nil
}

// badgerLogger adapts the package's logger to badger's expected interface,
// matching the teacher's BadgerLogger wrapper (internal/storage/storage.go).
type badgerLogger struct{}

func newBadgerLogger() *badgerLogger { return &badgerLogger{} }

func (l *badgerLogger) Errorf(format string, args ...any) {
	logging.GetLogger().Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	logging.GetLogger().Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	logging.GetLogger().Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	logging.GetLogger().Debug(fmt.Sprintf(format, args...))
}
