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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/kvstore"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

func testAccount(t *testing.T, seed byte) *account.Account {
	t.Helper()
	acc, err := account.New(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatal(err)
	}
	return acc
}

func newTestManager(t *testing.T, acc *account.Account) *Manager {
	t.Helper()
	m, err := New(Config{
		Account:   acc,
		NetworkID: "testnet",
		Outgoing:  kvstore.NewMemStore(),
		Incoming:  kvstore.NewMemStore(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func fund(acc *account.Account, amount uint64) {
	acc.InsertUtxo(account.Utxo{TxID: [32]byte{0xaa}, OutputIndex: 0, Amount: amount, TokenID: tokenid.Native()})
}

func TestTransferTickCommitsAndUpdatesPool(t *testing.T) {
	acc := testAccount(t, 0x01)
	fund(acc, 1000)
	m := newTestManager(t, acc)

	dest := "0x000000000000000000000000000000000000aa"
	hash, _, err := m.Transfer(400, dest, tokenid.Native())
	if err != nil {
		t.Fatal(err)
	}

	m.tick()

	if !m.WaitForOutgoing(context.Background(), hash, time.Second) {
		t.Fatalf("expected outgoing record for %s", hash)
	}
	if got := acc.Balance(tokenid.Native()); got != 600 {
		t.Fatalf("balance after transfer = %d, want 600", got)
	}
}

func TestMintTickCreditsBalance(t *testing.T) {
	acc := testAccount(t, 0x02)
	m := newTestManager(t, acc)

	hash, _, err := m.Mint(250, "0xexttx", "sepolia", tokenid.Native())
	if err != nil {
		t.Fatal(err)
	}
	m.tick()

	if !m.WaitForOutgoing(context.Background(), hash, time.Second) {
		t.Fatal("expected mint to be recorded outgoing")
	}
	if got := acc.Balance(tokenid.Native()); got != 250 {
		t.Fatalf("balance after mint = %d, want 250", got)
	}
}

func TestHoldEscrowThenPayEscrowSplitsWithRemainderToDev(t *testing.T) {
	acc := testAccount(t, 0x03)
	fund(acc, 1000)
	m := newTestManager(t, acc)

	escrowHash, escrowAddr, err := m.HoldEscrow(1000, "0xdev", 650_000, "job-1", tokenid.Native())
	if err != nil {
		t.Fatal(err)
	}
	if escrowAddr == "" {
		t.Fatal("expected non-empty escrow address")
	}
	m.tick() // commits the Escrow

	transferHash, releaseHashes, err := m.PayEscrow(escrowHash, TaskResult{
		SubtaskResults: []SubtaskResult{{NodeAddress: "0xworker1"}, {NodeAddress: "0xworker2"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(releaseHashes) != 2 {
		t.Fatalf("got %d release hashes, want 2", len(releaseHashes))
	}

	// Two EscrowReleases enqueued first, then the Transfer; drain all three.
	m.tick()
	m.tick()
	m.tick()

	if !m.WaitForOutgoing(context.Background(), transferHash, time.Second) {
		t.Fatal("expected payout transfer to be recorded")
	}
	for _, rh := range releaseHashes {
		if !m.WaitForOutgoing(context.Background(), rh, time.Second) {
			t.Fatalf("expected release %s to be recorded", rh)
		}
	}
	if !m.WaitForEscrowRelease(context.Background(), escrowHash, time.Second) {
		t.Fatal("expected WaitForEscrowRelease to resolve")
	}

	m.processedMu.RLock()
	rec := m.processedOutgoing[transferHash]
	m.processedMu.RUnlock()
	payout, ok := rec.tx.(*txn.Transfer)
	if !ok {
		t.Fatalf("payout record is %T, want *txn.Transfer", rec.tx)
	}
	// 1000 * 0.65 = 650 split over two workers is 325 each; the developer
	// receives the remaining 350.
	want := []uint64{325, 325, 350}
	if len(payout.Outputs) != len(want) {
		t.Fatalf("got %d payout outputs, want %d", len(payout.Outputs), len(want))
	}
	for i, w := range want {
		if got := payout.Outputs[i].EncryptedAmount; got != w {
			t.Fatalf("payout output %d = %d, want %d", i, got, w)
		}
	}
	if got := payout.Outputs[2].DestinationAddress; got != "0xdev" {
		t.Fatalf("remainder paid to %q, want 0xdev", got)
	}
}

func TestPayEscrowUnknownHash(t *testing.T) {
	acc := testAccount(t, 0x04)
	m := newTestManager(t, acc)
	_, _, err := m.PayEscrow("does-not-exist", TaskResult{SubtaskResults: []SubtaskResult{{NodeAddress: "0xw"}}})
	if err != ErrEscrowNotFound {
		t.Fatalf("got %v, want ErrEscrowNotFound", err)
	}
}

func TestPayEscrowEmptyResult(t *testing.T) {
	acc := testAccount(t, 0x05)
	fund(acc, 500)
	m := newTestManager(t, acc)
	escrowHash, _, err := m.HoldEscrow(500, "0xdev", 500_000, "job-2", tokenid.Native())
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = m.PayEscrow(escrowHash, TaskResult{})
	if err != ErrEmptyResult {
		t.Fatalf("got %v, want ErrEmptyResult", err)
	}
}

func TestReconcileRestoresNonceAndPool(t *testing.T) {
	acc := testAccount(t, 0x06)
	// fund() only seeds acc's in-memory pool via InsertUtxo; it never writes
	// a tx record to store, so it is not replayable on reconcile below. Only
	// the Mint(40) that follows is persisted and recoverable.
	fund(acc, 100)
	store := kvstore.NewMemStore()
	m, err := New(Config{Account: acc, NetworkID: "testnet", Outgoing: store, Incoming: kvstore.NewMemStore()})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Mint(40, "0xa", "mainnet", tokenid.Native()); err != nil {
		t.Fatal(err)
	}
	m.tick()

	// A fresh Account/Manager pair sharing the same outgoing store should
	// recover the nonce and pool on reconcile.
	acc2, err := account.New(bytes.Repeat([]byte{0x06}, 32))
	if err != nil {
		t.Fatal(err)
	}
	m2, err := New(Config{Account: acc2, NetworkID: "testnet", Outgoing: store, Incoming: kvstore.NewMemStore()})
	if err != nil {
		t.Fatal(err)
	}
	if err := m2.reconcile(); err != nil {
		t.Fatal(err)
	}
	if got := acc2.Nonce(); got != acc.Nonce() {
		t.Fatalf("reconciled nonce = %d, want %d", got, acc.Nonce())
	}
	if got := acc2.Balance(tokenid.Native()); got != 40 {
		t.Fatalf("reconciled balance = %d, want 40", got)
	}
}
