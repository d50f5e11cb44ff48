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
)

// TestTransferNotifiesPeerAcrossBus runs two managers sharing an in-memory
// gossip bus: A transfers to B, and B's own incoming scan must discover it
// without any direct reference to A's node.
func TestTransferNotifiesPeerAcrossBus(t *testing.T) {
	bus := kvstore.NewBus()

	accA := testAccount(t, 0x10)
	fund(accA, 1000)
	mgrA, err := New(Config{
		Account:       accA,
		NetworkID:     "testnet",
		Outgoing:      kvstore.NewMemStore(),
		Incoming:      kvstore.NewMemStore(),
		OpenPeerStore: OpenBusPeerStores(bus),
		TickInterval:  20 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	accB, err := account.New(bytes.Repeat([]byte{0x11}, 32))
	if err != nil {
		t.Fatal(err)
	}
	bAddr := accB.Address().Hex()
	mgrB, err := New(Config{
		Account:      accB,
		NetworkID:    "testnet",
		Outgoing:     kvstore.NewMemStore(),
		Incoming:     kvstore.NewReplicatedMemStore(bus, bAddr+"in"),
		TickInterval: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := mgrA.Start(); err != nil {
		t.Fatal(err)
	}
	defer mgrA.Stop()
	if err := mgrB.Start(); err != nil {
		t.Fatal(err)
	}
	defer mgrB.Stop()

	hash, _, err := mgrA.Transfer(300, bAddr, tokenid.Native())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !mgrA.WaitForOutgoing(ctx, hash, 2*time.Second) {
		t.Fatal("sender never recorded the transfer as outgoing")
	}
	if !mgrB.WaitForIncoming(ctx, hash, 2*time.Second) {
		t.Fatal("recipient never observed the transfer notification")
	}
	if got := accB.Balance(tokenid.Native()); got != 300 {
		t.Fatalf("recipient balance = %d, want 300", got)
	}
}
