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

// Package node assembles the façade of spec §4.J: one account, one
// transaction manager, one migration manager, and the storage/networking
// collaborators they share, exposed as the small surface a CLI or embedder
// drives (mint, transfer, hold_escrow, process_image, get_balance,
// parse/format_child_tokens, start/stop). The shape mirrors the teacher's
// own top-level assembly, generalized from a chain-following node
// (internal/node/node.go) to this ledger-following one.
package node

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/costmodel"
	"github.com/GeniusVentures/geniuscore/internal/kvstore"
	"github.com/GeniusVentures/geniuscore/internal/logging"
	"github.com/GeniusVentures/geniuscore/internal/manager"
	"github.com/GeniusVentures/geniuscore/internal/migration"
	"github.com/GeniusVentures/geniuscore/internal/multitoken"
	"github.com/GeniusVentures/geniuscore/internal/netmap"
	"github.com/GeniusVentures/geniuscore/internal/proof"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
)

// portRefreshInterval is how often a running Node re-requests its UPnP/
// NAT-PMP mapping, matching the teacher's hourly-scale background refresh
// idiom (internal/indexer/watches.go expirationLoop ticker).
const portRefreshInterval = time.Hour

// Config assembles a Node. PrivateKey, if nil, causes a fresh key to be
// generated. BaseWritePath roots the account's badger stores at
// <BaseWritePath>/<address>/{out,in,peers}.
type Config struct {
	PrivateKey    []byte
	NetworkID     string
	BaseWritePath string

	DevAddress             string
	PeersCutFP             uint64
	TokenValueInNative     uint64
	TokenValueInNativePrec uint8
	TokenID                tokenid.TokenID

	AutoDHT  bool
	BasePort int

	Proof proof.Adapter

	TickInterval     time.Duration
	WaitPollInterval time.Duration
}

// Node is the running façade: an account, its manager, and the stores and
// port mapper they share. A migration manager is built on demand by
// Migrate, which the caller runs explicitly before Start.
type Node struct {
	account *account.Account
	mgr     *manager.Manager

	devAddress             string
	peersCutFP             uint64
	tokenValueInNative     uint64
	tokenValueInNativePrec uint8
	tokenID                tokenid.TokenID

	portMapper netmap.PortMapper
	basePort   int

	outgoing *kvstore.BadgerStore
	incoming *kvstore.BadgerStore

	status *StatusServer

	stopPortRefresh chan struct{}
	portRefreshDone chan struct{}
}

// New assembles a Node from cfg: it opens (or creates) the account's
// outgoing/incoming badger stores under cfg.BaseWritePath, resolves a
// PortMapper when AutoDHT is set (trying UPnP first, then NAT-PMP, falling
// back to a no-op mapper if neither is reachable), and builds the
// transaction manager wired to both.
func New(cfg Config) (*Node, error) {
	acc, err := loadOrGenerateAccount(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if cfg.NetworkID == "" {
		return nil, fmt.Errorf("node: network id is required")
	}
	if cfg.BaseWritePath == "" {
		return nil, fmt.Errorf("node: base write path is required")
	}

	addrDir := filepath.Join(cfg.BaseWritePath, acc.Address().Hex())
	outgoing, err := kvstore.OpenBadgerStore(filepath.Join(addrDir, "out"))
	if err != nil {
		return nil, fmt.Errorf("node: open outgoing store: %w", err)
	}
	incoming, err := kvstore.OpenBadgerStore(filepath.Join(addrDir, "in"))
	if err != nil {
		_ = outgoing.Close()
		return nil, fmt.Errorf("node: open incoming store: %w", err)
	}

	portMapper := resolvePortMapper(cfg.AutoDHT)

	peersDir := filepath.Join(addrDir, "peers")
	mgr, err := manager.New(manager.Config{
		Account:          acc,
		NetworkID:        cfg.NetworkID,
		Outgoing:         outgoing,
		Incoming:         incoming,
		OpenPeerStore:    manager.OpenBadgerPeerStores(peersDir),
		Proof:            cfg.Proof,
		PortMapper:       portMapper,
		TickInterval:     cfg.TickInterval,
		WaitPollInterval: cfg.WaitPollInterval,
	})
	if err != nil {
		_ = outgoing.Close()
		_ = incoming.Close()
		return nil, fmt.Errorf("node: build manager: %w", err)
	}

	tokenValueInNative := cfg.TokenValueInNative
	if tokenValueInNative == 0 {
		tokenValueInNative = 1
	}
	tokenValueInNativePrec := cfg.TokenValueInNativePrec
	if tokenValueInNativePrec == 0 {
		tokenValueInNativePrec = 6
	}

	n := &Node{
		account:                acc,
		mgr:                    mgr,
		devAddress:             cfg.DevAddress,
		peersCutFP:             cfg.PeersCutFP,
		tokenValueInNative:     tokenValueInNative,
		tokenValueInNativePrec: tokenValueInNativePrec,
		tokenID:                cfg.TokenID,
		portMapper:             portMapper,
		basePort:               cfg.BasePort,
		outgoing:               outgoing,
		incoming:               incoming,
		status:                 NewStatusServer(),
	}
	return n, nil
}

func loadOrGenerateAccount(privateKey []byte) (*account.Account, error) {
	if len(privateKey) == 0 {
		return account.Generate()
	}
	return account.New(privateKey)
}

// resolvePortMapper tries UPnP, then NAT-PMP, falling back to a no-op
// mapper; it never returns an error, matching a node's ability to run
// fully behind a NAT it cannot configure (spec §4.J).
func resolvePortMapper(autoDHT bool) netmap.PortMapper {
	if !autoDHT {
		return netmap.NoopPortMapper{}
	}
	if m, err := netmap.DiscoverUPnPPortMapper("geniuscore"); err == nil {
		return m
	}
	if m, err := netmap.DiscoverNATPMPPortMapper(); err == nil {
		return m
	}
	logging.GetLogger().Warn("no NAT port mapper available, falling back to noop")
	return netmap.NoopPortMapper{}
}

// Address returns the node's own address.
func (n *Node) Address() string {
	return n.account.Address().Hex()
}

// Mint credits amount of token to this node in response to an external
// deposit (spec §4.J "mint").
func (n *Node) Mint(amount uint64, extTxHash, chainID string) (string, uint64, error) {
	hash, nonce, err := n.mgr.Mint(amount, extTxHash, chainID, n.tokenID)
	if err == nil {
		n.status.Broadcast(Event{Kind: "enqueued", Hash: hash, Type: "mint"})
	}
	return hash, nonce, err
}

// Transfer moves amount of token to destination (spec §4.J "transfer").
func (n *Node) Transfer(amount uint64, destination string) (string, uint64, error) {
	hash, nonce, err := n.mgr.Transfer(amount, destination, n.tokenID)
	if err == nil {
		n.status.Broadcast(Event{Kind: "enqueued", Hash: hash, Type: "transfer"})
	}
	return hash, nonce, err
}

// HoldEscrow locks amount under jobID's escrow address, splitting the
// eventual payout per n's configured dev address and peers cut (spec §4.J
// "hold_escrow").
func (n *Node) HoldEscrow(amount uint64, jobID string) (escrowHash, escrowAddress string, err error) {
	escrowHash, escrowAddress, err = n.mgr.HoldEscrow(amount, n.devAddress, n.peersCutFP, jobID, n.tokenID)
	if err == nil {
		n.status.Broadcast(Event{Kind: "enqueued", Hash: escrowHash, Type: "escrow"})
	}
	return escrowHash, escrowAddress, err
}

// PayEscrow releases a previously held escrow to the workers that produced
// result, paying the remainder to the configured dev address.
func (n *Node) PayEscrow(escrowHash string, result manager.TaskResult) (transferHash string, releaseHashes []string, err error) {
	transferHash, releaseHashes, err = n.mgr.PayEscrow(escrowHash, result)
	if err == nil {
		n.status.Broadcast(Event{Kind: "enqueued", Hash: transferHash, Type: "transfer"})
		for _, rh := range releaseHashes {
			n.status.Broadcast(Event{Kind: "enqueued", Hash: rh, Type: "escrow_release"})
		}
	}
	return transferHash, releaseHashes, err
}

// GetBalance reports the node's spendable balance (spec §4.J "get_balance").
func (n *Node) GetBalance() uint64 {
	return n.mgr.Balance(n.tokenID)
}

// ParseChildTokens converts a decimal child-token amount into native
// minions using the node's configured token scale (spec §4.J
// "parse_child_tokens").
func (n *Node) ParseChildTokens(text string) (uint64, error) {
	return multitoken.ParseChildTokens(text, n.tokenValueInNative, n.tokenValueInNativePrec)
}

// FormatChildTokens is the inverse of ParseChildTokens (spec §4.J
// "format_child_tokens").
func (n *Node) FormatChildTokens(minions uint64) (string, error) {
	return multitoken.FormatChildTokens(minions, n.tokenValueInNative, n.tokenValueInNativePrec)
}

// ProcessImage prices a compute job described by jobJSON against
// priceUSDPerNative (spec §4.K's cost model) and, funds permitting, holds
// an escrow for it under jobID. It reports insufficient-funds rather than
// submitting a partially-funded job. The actual distributed task
// submission and execution pipeline this funds is out of scope (spec §1);
// ProcessImage only owns the funding decision a caller needs before
// dispatching that pipeline.
func (n *Node) ProcessImage(jobID, jobJSON, priceUSDPerNative string) (escrowHash, escrowAddress string, err error) {
	cost, err := costmodel.CostMinions(uint64(len(jobJSON)), priceUSDPerNative)
	if err != nil {
		return "", "", fmt.Errorf("node: estimate job cost: %w", err)
	}
	if n.GetBalance() < cost {
		return "", "", fmt.Errorf("node: %w: need %d, have %d", ErrInsufficientFunds, cost, n.GetBalance())
	}
	return n.HoldEscrow(cost, jobID)
}

// Start begins the manager's reconcile-then-tick loop and the periodic
// NAT port refresh. It does not start the status server; ListenStatus
// does that.
func (n *Node) Start() error {
	if err := n.mgr.Start(); err != nil {
		return fmt.Errorf("node: start manager: %w", err)
	}
	n.stopPortRefresh = make(chan struct{})
	n.portRefreshDone = make(chan struct{})
	go n.refreshPortLoop()
	return nil
}

// Stop halts the manager loop, the port-refresh loop, and closes the
// node's stores.
func (n *Node) Stop() {
	n.mgr.Stop()
	if n.stopPortRefresh != nil {
		close(n.stopPortRefresh)
		<-n.portRefreshDone
	}
	if n.status != nil {
		n.status.Close()
	}
	_ = n.outgoing.Close()
	_ = n.incoming.Close()
}

func (n *Node) refreshPortLoop() {
	defer close(n.portRefreshDone)
	if n.basePort > 0 {
		if _, err := n.portMapper.Map(n.basePort); err != nil {
			logging.GetLogger().Warn("initial port mapping failed", "port", n.basePort, "error", err)
		}
	}
	ticker := time.NewTicker(portRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-n.stopPortRefresh:
			return
		case <-ticker.C:
			if n.basePort <= 0 {
				continue
			}
			if _, err := n.portMapper.Map(n.basePort); err != nil {
				logging.GetLogger().Warn("port mapping refresh failed", "port", n.basePort, "error", err)
			}
		}
	}
}

// Migrate walks the node's on-disk schema from current to target,
// retiring the legacy "_out"/"_in" stores found at legacyDir into this
// node's freshly opened canonical outgoing store (spec §4.I). It must be
// called before Start, against a node whose outgoing store has not yet
// been written to.
func (n *Node) Migrate(current, target, networkID, legacyDir string) (string, error) {
	legacyOut, err := kvstore.OpenBadgerStore(filepath.Join(legacyDir, "out"))
	if err != nil {
		return current, fmt.Errorf("node: open legacy outgoing store: %w", err)
	}
	defer legacyOut.Close()
	legacyIn, err := kvstore.OpenBadgerStore(filepath.Join(legacyDir, "in"))
	if err != nil {
		return current, fmt.Errorf("node: open legacy incoming store: %w", err)
	}
	defer legacyIn.Close()

	mgr := migration.NewManager(migration.Step0_2_0To1_0_0())
	return mgr.Migrate(migration.Context{
		NewStore:  n.outgoing,
		LegacyOut: legacyOut,
		LegacyIn:  legacyIn,
		NetworkID: networkID,
	}, current, target)
}

// ListenStatus starts the node's WebSocket status surface on addr.
func (n *Node) ListenStatus(addr string) error {
	return n.status.Start(addr)
}

// WaitForIncoming blocks until dataHash is observed from a peer or timeout
// elapses (spec §4.H "wait_for_incoming").
func (n *Node) WaitForIncoming(ctx context.Context, dataHash string, timeout time.Duration) bool {
	return n.mgr.WaitForIncoming(ctx, dataHash, timeout)
}

// WaitForOutgoing blocks until dataHash has been committed locally or
// timeout elapses (spec §4.H "wait_for_outgoing").
func (n *Node) WaitForOutgoing(ctx context.Context, dataHash string, timeout time.Duration) bool {
	return n.mgr.WaitForOutgoing(ctx, dataHash, timeout)
}

// WaitForEscrowRelease blocks until an EscrowRelease referencing
// originalHash is observed or timeout elapses (spec §4.H
// "wait_for_escrow_release").
func (n *Node) WaitForEscrowRelease(ctx context.Context, originalHash string, timeout time.Duration) bool {
	return n.mgr.WaitForEscrowRelease(ctx, originalHash, timeout)
}
