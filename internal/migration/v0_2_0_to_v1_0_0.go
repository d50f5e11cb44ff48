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

package migration

import (
	"fmt"
	"strings"

	"github.com/GeniusVentures/geniuscore/internal/txn"
)

// legacyNetworkID is the hardcoded network id the pre-1.0.0 keyspace was
// rooted under, regardless of the node's configured network (spec §4.I
// step 3: "every key matching base /bc-963/").
const legacyNetworkID = "963"

// Step0_2_0To1_0_0 builds the concrete 0.2.0 -> 1.0.0 migration step (spec
// §4.I): it retires the legacy "_out"/"_in" stores into the canonical
// keyspace of spec §3.
func Step0_2_0To1_0_0() Step {
	return Step{FromVersion: "0.2.0", ToVersion: "1.0.0", Apply: apply0_2_0To1_0_0}
}

func apply0_2_0To1_0_0(ctx Context) error {
	existing, err := ctx.NewStore.QueryKeyValues("")
	if err != nil {
		return fmt.Errorf("migration: inspect new store: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("migration: target store is not empty")
	}

	legacyBase := "/bc-" + legacyNetworkID + "/"
	canonicalBase := "/bc-" + ctx.NetworkID + "/"

	batch := ctx.NewStore.Batch()
	if err := migrateLegacyStore(ctx.LegacyOut, legacyBase, canonicalBase, batch); err != nil {
		return err
	}
	if err := migrateLegacyStore(ctx.LegacyIn, legacyBase, canonicalBase, batch); err != nil {
		return err
	}
	return batch.Commit()
}

// legacyStore is the narrow read surface migrateLegacyStore needs; both
// kvstore.Store and *kvstore.MemStore/*kvstore.BadgerStore satisfy it.
type legacyStore interface {
	QueryKeyValues(prefix string) (map[string][]byte, error)
}

type batchWriter interface {
	Put(key string, value []byte)
}

// migrateLegacyStore copies every transaction record under legacyBase in
// src, together with its sibling proof record, into batch under
// canonicalBase (spec §4.I step 3). Records that fail envelope validation,
// or whose sibling proof is missing, are skipped rather than aborting the
// whole migration.
func migrateLegacyStore(src legacyStore, legacyBase, canonicalBase string, batch batchWriter) error {
	records, err := src.QueryKeyValues(legacyBase)
	if err != nil {
		return fmt.Errorf("migration: query legacy store: %w", err)
	}

	for key, raw := range records {
		if !strings.Contains(key, "/tx") {
			continue
		}
		tx, err := txn.Decode(raw)
		if err != nil {
			continue
		}
		if !txn.VerifyContentHash(tx) {
			continue
		}
		env := tx.Envelope()

		var proofKey string
		isNotify := strings.Contains(key, "/notify/")
		if isNotify {
			proofKey = findNotifyProofKey(records, env.DataHash)
		} else {
			proofKey = fmt.Sprintf("%s%s/proof/%d", legacyBase, env.SourceAddress, env.Nonce)
		}
		if proofKey == "" {
			continue
		}
		proofRaw, ok := records[proofKey]
		if !ok {
			continue
		}

		batch.Put(canonicalBase+strings.TrimPrefix(key, legacyBase), raw)
		batch.Put(canonicalBase+strings.TrimPrefix(proofKey, legacyBase), proofRaw)
	}
	return nil
}

func findNotifyProofKey(records map[string][]byte, dataHash string) string {
	suffix := "/notify/proof/" + dataHash
	for k := range records {
		if strings.HasSuffix(k, suffix) {
			return k
		}
	}
	return ""
}
