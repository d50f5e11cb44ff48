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

package manager

import (
	"crypto/sha256"
	"path/filepath"

	"github.com/mr-tron/base58"

	"github.com/GeniusVentures/geniuscore/internal/kvstore"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

// PeerStoreOpener lazily returns the ReplicatedKVStore a node should use to
// notify destAddr of a new transaction, joining it on first use. Production
// wiring opens a store keyed by contentID(destAddr); tests wire a
// kvstore.Bus-backed opener directly.
type PeerStoreOpener func(destAddr string) (kvstore.Store, error)

// contentID derives the base58 directory/content id spec §4.H names for a
// per-peer outbound-notify store: base58(SHA-256(destination address)).
func contentID(destAddr string) string {
	sum := sha256.Sum256([]byte(destAddr))
	return base58.Encode(sum[:])
}

// OpenBadgerPeerStores builds a PeerStoreOpener that keeps one BadgerStore
// per destination under baseDir, named by its content id.
func OpenBadgerPeerStores(baseDir string) PeerStoreOpener {
	return func(destAddr string) (kvstore.Store, error) {
		return kvstore.OpenBadgerStore(filepath.Join(baseDir, contentID(destAddr)))
	}
}

// OpenBusPeerStores builds a PeerStoreOpener for tests: each destination's
// outbound-notify store joins the same bus topic ("<address>in") that
// destination's own incoming store joins, so a commit here replicates
// straight into their inbox.
func OpenBusPeerStores(bus *kvstore.Bus) PeerStoreOpener {
	return func(destAddr string) (kvstore.Store, error) {
		return kvstore.NewReplicatedMemStore(bus, destAddr+"in"), nil
	}
}

// destinationsOf returns the distinct non-self addresses that must be
// notified of tx (spec §4.H outbox step 6): every non-self output
// destination for a Transfer, or the payee for an EscrowRelease. Mint and
// Escrow transactions have no notify target.
func destinationsOf(tx txn.Transaction, selfAddr string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(addr string) {
		if addr == "" || addr == selfAddr || seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, addr)
	}
	switch v := tx.(type) {
	case *txn.Transfer:
		for _, o := range v.Outputs {
			add(o.DestinationAddress)
		}
	case *txn.EscrowRelease:
		add(v.ReleaseAddress)
	}
	return out
}
