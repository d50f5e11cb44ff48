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
	"bytes"
	"fmt"
	"testing"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/kvstore"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

func TestMigrate0_2_0To1_0_0(t *testing.T) {
	signer, err := account.New(bytes.Repeat([]byte{0x55}, 32))
	if err != nil {
		t.Fatal(err)
	}
	self := signer.Address().Hex()
	legacyBase := "/bc-963/"

	// Legacy outgoing: one self-authored transfer plus its proof.
	outgoing := txn.NewTransfer(
		[]account.InputSpec{{TxID: [32]byte{1}, OutputIndex: 0}},
		[]account.OutputSpec{{EncryptedAmount: 238_000_000_000, DestinationAddress: "0xother", TokenID: tokenid.Native()}},
		txn.Envelope{SourceAddress: self, Nonce: 7, Timestamp: 1700000000},
	)
	txn.Sign(outgoing, signer)

	legacyOut := kvstore.NewMemStore()
	outBatch := legacyOut.Batch()
	outBatch.Put(fmt.Sprintf("%s%s/tx/transfer/7", legacyBase, self), outgoing.Encode())
	outBatch.Put(fmt.Sprintf("%s%s/proof/7", legacyBase, self), []byte("proof-out"))
	if err := outBatch.Commit(); err != nil {
		t.Fatal(err)
	}

	// Legacy incoming: one notification this node received from a peer.
	incoming := txn.NewTransfer(
		[]account.InputSpec{{TxID: [32]byte{2}, OutputIndex: 0}},
		[]account.OutputSpec{{EncryptedAmount: 1_000, DestinationAddress: self, TokenID: tokenid.Native()}},
		txn.Envelope{SourceAddress: "0xpeer", Nonce: 1, Timestamp: 1700000001},
	)
	txn.Sign(incoming, signer) // signature irrelevant to this test's content-hash check

	legacyIn := kvstore.NewMemStore()
	inBatch := legacyIn.Batch()
	inBatch.Put(fmt.Sprintf("%s%s/notify/tx/%s", legacyBase, self, incoming.Envelope().DataHash), incoming.Encode())
	inBatch.Put(fmt.Sprintf("%s%s/notify/proof/%s", legacyBase, self, incoming.Envelope().DataHash), []byte("proof-in"))
	if err := inBatch.Commit(); err != nil {
		t.Fatal(err)
	}

	newStore := kvstore.NewMemStore()
	mgr := NewManager(Step0_2_0To1_0_0())
	got, err := mgr.Migrate(Context{
		NewStore:  newStore,
		LegacyOut: legacyOut,
		LegacyIn:  legacyIn,
		NetworkID: "mainnet",
	}, "0.2.0", "1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	if got != "1.0.0" {
		t.Fatalf("version after migrate = %q, want 1.0.0", got)
	}

	records, err := newStore.QueryKeyValues("")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d migrated records, want 4: %v", len(records), records)
	}
	canonicalBase := "/bc-mainnet/"
	for _, key := range []string{
		fmt.Sprintf("%s%s/tx/transfer/7", canonicalBase, self),
		fmt.Sprintf("%s%s/proof/7", canonicalBase, self),
		fmt.Sprintf("%s%s/notify/tx/%s", canonicalBase, self, incoming.Envelope().DataHash),
		fmt.Sprintf("%s%s/notify/proof/%s", canonicalBase, self, incoming.Envelope().DataHash),
	} {
		if _, ok := records[key]; !ok {
			t.Fatalf("missing canonical record %q", key)
		}
	}
}

func TestMigrateUnapplicableVersion(t *testing.T) {
	mgr := NewManager(Step0_2_0To1_0_0())
	_, err := mgr.Migrate(Context{
		NewStore:  kvstore.NewMemStore(),
		LegacyOut: kvstore.NewMemStore(),
		LegacyIn:  kvstore.NewMemStore(),
		NetworkID: "mainnet",
	}, "0.1.0", "1.0.0")
	if err != ErrMigrationUnapplicable {
		t.Fatalf("got %v, want ErrMigrationUnapplicable", err)
	}
}

func TestMigrateRefusesNonEmptyTarget(t *testing.T) {
	newStore := kvstore.NewMemStore()
	seed := newStore.Batch()
	seed.Put("already-here", []byte("x"))
	if err := seed.Commit(); err != nil {
		t.Fatal(err)
	}
	mgr := NewManager(Step0_2_0To1_0_0())
	_, err := mgr.Migrate(Context{
		NewStore:  newStore,
		LegacyOut: kvstore.NewMemStore(),
		LegacyIn:  kvstore.NewMemStore(),
		NetworkID: "mainnet",
	}, "0.2.0", "1.0.0")
	if err == nil {
		t.Fatal("expected error for non-empty target store")
	}
}
