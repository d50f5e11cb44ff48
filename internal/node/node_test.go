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

package node

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GeniusVentures/geniuscore/internal/manager"
)

func newTestNode(t *testing.T, seed byte) *Node {
	t.Helper()
	n, err := New(Config{
		PrivateKey:    bytes.Repeat([]byte{seed}, 32),
		NetworkID:     "testnet",
		BaseWritePath: filepath.Join(t.TempDir(), "data"),
		DevAddress:    "0xdev",
		PeersCutFP:    650_000,
		TickInterval:  10 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNodeMintTransferRoundTrip(t *testing.T) {
	n := newTestNode(t, 0x20)
	if err := n.Start(); err != nil {
		t.Fatal(err)
	}
	defer n.Stop()

	mintHash, _, err := n.Mint(500, "0xexttx", "sepolia")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !waitFor(ctx, 2*time.Second, func() bool { return n.GetBalance() == 500 }) {
		t.Fatalf("mint %s never credited, balance = %d", mintHash, n.GetBalance())
	}

	transferHash, _, err := n.Transfer(120, "0x000000000000000000000000000000000000bb")
	if err != nil {
		t.Fatal(err)
	}
	if !waitFor(ctx, 2*time.Second, func() bool { return n.GetBalance() == 380 }) {
		t.Fatalf("transfer %s never settled, balance = %d", transferHash, n.GetBalance())
	}
}

func TestNodeProcessImageHoldsEscrowWhenFunded(t *testing.T) {
	n := newTestNode(t, 0x21)
	if err := n.Start(); err != nil {
		t.Fatal(err)
	}
	defer n.Stop()

	if _, _, err := n.Mint(1_000_000, "0xexttx", "sepolia"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !waitFor(ctx, 2*time.Second, func() bool { return n.GetBalance() == 1_000_000 }) {
		t.Fatal("mint never settled")
	}

	escrowHash, escrowAddr, err := n.ProcessImage("job-1", `{"input":[{"chunk_count":1}]}`, "1.0")
	if err != nil {
		t.Fatal(err)
	}
	if escrowHash == "" || escrowAddr == "" {
		t.Fatal("expected non-empty escrow hash and address")
	}
}

func TestNodeProcessImageRejectsWhenUnfunded(t *testing.T) {
	n := newTestNode(t, 0x22)
	if err := n.Start(); err != nil {
		t.Fatal(err)
	}
	defer n.Stop()

	_, _, err := n.ProcessImage("job-2", `{"input":[{"chunk_count":1}]}`, "1.0")
	if err == nil {
		t.Fatal("expected insufficient-funds error")
	}
}

func TestNodeHoldAndPayEscrow(t *testing.T) {
	n := newTestNode(t, 0x23)
	if err := n.Start(); err != nil {
		t.Fatal(err)
	}
	defer n.Stop()

	if _, _, err := n.Mint(1000, "0xexttx", "sepolia"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !waitFor(ctx, 2*time.Second, func() bool { return n.GetBalance() == 1000 }) {
		t.Fatal("mint never settled")
	}

	escrowHash, _, err := n.HoldEscrow(1000, "job-3")
	if err != nil {
		t.Fatal(err)
	}
	if !waitFor(ctx, 2*time.Second, func() bool { return n.GetBalance() == 0 }) {
		t.Fatal("escrow never settled")
	}

	_, releaseHashes, err := n.PayEscrow(escrowHash, manager.TaskResult{
		SubtaskResults: []manager.SubtaskResult{{NodeAddress: "0xworker1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(releaseHashes) != 1 {
		t.Fatalf("got %d release hashes, want 1", len(releaseHashes))
	}
}

func waitFor(ctx context.Context, timeout time.Duration, check func() bool) bool {
	deadline := time.After(timeout)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	if check() {
		return true
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline:
			return false
		case <-ticker.C:
			if check() {
				return true
			}
		}
	}
}
