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

// Package manager implements the transaction manager of spec §4.H: the
// single-goroutine executor that turns the public operations (transfer,
// mint, hold_escrow, pay_escrow) into signed ledger transactions, drains
// them through a mutex-protected outbox onto the node's own store and its
// peers' notify stores, and answers wait_for_* queries against what it has
// observed. The cooperative single-goroutine loop and its RWMutex-guarded
// bookkeeping mirror the teacher's WatchManager
// (internal/indexer/watches.go), generalized from expiring tx/UTxO watches
// to a full outbox-and-ledger state machine.
package manager

import (
	"fmt"
	"sync"
	"time"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/costmodel"
	"github.com/GeniusVentures/geniuscore/internal/kvstore"
	"github.com/GeniusVentures/geniuscore/internal/logging"
	"github.com/GeniusVentures/geniuscore/internal/netmap"
	"github.com/GeniusVentures/geniuscore/internal/proof"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

// State is the manager's lifecycle stage (spec §4.H state machine).
type State int

const (
	StateInit State = iota
	StateReconciling
	StateTicking
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReconciling:
		return "reconciling"
	case StateTicking:
		return "ticking"
	default:
		return "unknown"
	}
}

// outboxItem pairs a built, unsigned-and-not-yet-finalized-again
// transaction with the proof blob (if any) that must be written alongside
// it, e.g. the Pedersen proof accompanying a Mint.
type outboxItem struct {
	tx         txn.Transaction
	proofBytes []byte
}

// processedRecord is what wait_for_* and pay_escrow consult: a transaction
// this node has seen committed, either as sender or as notified recipient.
type processedRecord struct {
	tx          txn.Transaction
	committedAt time.Time
}

// Config assembles a Manager. Account, NetworkID, Outgoing, and Incoming
// are required; everything else defaults to a single-node, no-proof,
// no-NAT configuration suitable for tests.
type Config struct {
	Account  *account.Account
	NetworkID string

	Outgoing kvstore.Store
	Incoming kvstore.Store

	// OpenPeerStore resolves the outbound-notify store for a destination
	// address, lazily and on first use. Defaults to a store that always
	// fails (no outgoing replication), appropriate for a node that never
	// transfers to or releases escrows toward other peers.
	OpenPeerStore PeerStoreOpener

	// Proof, when non-nil, is used to attach zero-knowledge proofs to
	// Mint transactions (spec §4.O).
	Proof proof.Adapter

	// PortMapper is the node's NAT port-mapping collaborator. The manager
	// keeps it but never calls it; the hourly refresh is run by the node
	// façade. Defaults to a no-op.
	PortMapper netmap.PortMapper

	TickInterval     time.Duration
	WaitPollInterval time.Duration
}

// Manager is the transaction manager of spec §4.H.
type Manager struct {
	account   *account.Account
	networkID string
	base      string

	outgoing kvstore.Store
	incoming kvstore.Store

	openPeerStore PeerStoreOpener
	peerStoresMu  sync.Mutex
	peerStores    map[string]kvstore.Store

	proofAdapter proof.Adapter
	portMapper   netmap.PortMapper

	outboxMu sync.Mutex
	outbox   []outboxItem

	processedMu            sync.RWMutex
	processedOutgoing      map[string]processedRecord
	processedIncoming      map[string]processedRecord
	releasesByOriginalHash map[string]processedRecord
	escrowsByHash          map[string]*txn.Escrow

	stateMu sync.Mutex
	state   State

	tickInterval     time.Duration
	waitPollInterval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// New validates cfg and builds a Manager in StateInit; call Start to begin
// reconciliation and ticking.
func New(cfg Config) (*Manager, error) {
	if cfg.Account == nil {
		return nil, fmt.Errorf("manager: account is required")
	}
	if cfg.NetworkID == "" {
		return nil, fmt.Errorf("manager: network id is required")
	}
	if cfg.Outgoing == nil || cfg.Incoming == nil {
		return nil, fmt.Errorf("manager: outgoing and incoming stores are required")
	}
	openPeerStore := cfg.OpenPeerStore
	if openPeerStore == nil {
		openPeerStore = func(destAddr string) (kvstore.Store, error) {
			return nil, fmt.Errorf("manager: no peer store opener configured for %s", destAddr)
		}
	}
	portMapper := cfg.PortMapper
	if portMapper == nil {
		portMapper = netmap.NoopPortMapper{}
	}
	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 300 * time.Millisecond
	}
	waitPollInterval := cfg.WaitPollInterval
	if waitPollInterval <= 0 {
		waitPollInterval = 100 * time.Millisecond
	}

	return &Manager{
		account:                cfg.Account,
		networkID:              cfg.NetworkID,
		base:                   baseKey(cfg.NetworkID),
		outgoing:               cfg.Outgoing,
		incoming:               cfg.Incoming,
		openPeerStore:          openPeerStore,
		peerStores:             make(map[string]kvstore.Store),
		proofAdapter:           cfg.Proof,
		portMapper:             portMapper,
		processedOutgoing:      make(map[string]processedRecord),
		processedIncoming:      make(map[string]processedRecord),
		releasesByOriginalHash: make(map[string]processedRecord),
		escrowsByHash:          make(map[string]*txn.Escrow),
		state:                  StateInit,
		tickInterval:           tickInterval,
		waitPollInterval:       waitPollInterval,
		stopCh:                 make(chan struct{}),
		doneCh:                 make(chan struct{}),
	}, nil
}

func (m *Manager) State() State {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.stateMu.Lock()
	m.state = s
	m.stateMu.Unlock()
	logging.GetLogger().Debug("manager state transition", "state", s.String())
}

func (m *Manager) selfAddress() string {
	return m.account.Address().Hex()
}

func (m *Manager) buildEnvelope() txn.Envelope {
	return txn.Envelope{
		SourceAddress: m.selfAddress(),
		Nonce:         m.account.NextNonce(),
		Timestamp:     uint64(time.Now().Unix()),
	}
}

func (m *Manager) enqueue(tx txn.Transaction, proofBytes []byte) {
	m.outboxMu.Lock()
	m.outbox = append(m.outbox, outboxItem{tx: tx, proofBytes: proofBytes})
	m.outboxMu.Unlock()
}

// Transfer builds and enqueues a Transfer moving amount of token to
// destination, returning its content hash and the nonce it was assigned
// under (spec §4.H "transfer").
func (m *Manager) Transfer(amount uint64, destination string, token tokenid.TokenID) (string, uint64, error) {
	sel, err := account.Select(m.account.Utxos(), account.SelectionParams{
		Source:      m.account.Address(),
		Amount:      amount,
		Destination: destination,
		TokenID:     token,
	})
	if err != nil {
		return "", 0, err
	}
	env := m.buildEnvelope()
	tx := txn.NewTransfer(sel.Inputs, sel.Outputs, env)
	m.enqueue(tx, nil)
	return tx.Envelope().DataHash, tx.Envelope().Nonce, nil
}

// Mint builds and enqueues a Mint crediting amount of token to this node,
// in response to an external deposit identified by extTxHash on chainID.
// extTxHash is logged for operator traceability; the ledger variant itself
// carries no external-reference field (spec §3 "Mint").
func (m *Manager) Mint(amount uint64, extTxHash, chainID string, token tokenid.TokenID) (string, uint64, error) {
	env := m.buildEnvelope()
	tx := txn.NewMint(amount, chainID, token, env)

	var proofBytes []byte
	if m.proofAdapter != nil {
		p, err := m.proofAdapter.Generate(
			proof.PublicInputs{Values: []uint64{amount}, Binding: []byte(tx.Envelope().DataHash)},
			proof.PrivateInputs{},
		)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %v", ErrProofGenerationFailed, err)
		}
		proofBytes = p
	}
	logging.GetLogger().Info("mint enqueued", "ext_tx_hash", extTxHash, "chain_id", chainID, "amount", amount)
	m.enqueue(tx, proofBytes)
	return tx.Envelope().DataHash, tx.Envelope().Nonce, nil
}

// HoldEscrow builds and enqueues an Escrow locking amount of token under
// jobID's escrow address, returning the transaction hash and that address
// (spec §4.H "hold_escrow").
func (m *Manager) HoldEscrow(amount uint64, devAddress string, peersCutFP uint64, jobID string, token tokenid.TokenID) (string, string, error) {
	escrowAddr := txn.EscrowAddress(jobID)
	sel, err := account.Select(m.account.Utxos(), account.SelectionParams{
		Source:      m.account.Address(),
		Amount:      amount,
		Destination: escrowAddr,
		TokenID:     token,
	})
	if err != nil {
		return "", "", err
	}
	// PayEscrow recovers the escrowed amount from output index 0 of this
	// transaction. account.Select emits one passthrough output per
	// consumed UTXO, so a selection spanning more than one input would
	// split the escrowed amount across several indices; reject it rather
	// than enqueue an escrow whose release would under-pay.
	if len(sel.Inputs) > 1 {
		return "", "", ErrEscrowFundingFragmented
	}
	env := m.buildEnvelope()
	tx := txn.NewEscrow(jobID, sel.Inputs, sel.Outputs, amount, devAddress, peersCutFP, token, env)
	m.enqueue(tx, nil)

	m.processedMu.Lock()
	m.escrowsByHash[tx.Envelope().DataHash] = tx
	m.processedMu.Unlock()

	return tx.Envelope().DataHash, escrowAddr, nil
}

// Balance reports the node's spendable balance in token.
func (m *Manager) Balance(token tokenid.TokenID) uint64 {
	return m.account.Balance(token)
}

// EstimateCostMinions exposes the cost model (spec §4.K) for callers
// pricing a job before holding an escrow for it.
func (m *Manager) EstimateCostMinions(totalBytes uint64, priceUSDPerNative string) (uint64, error) {
	return costmodel.CostMinions(totalBytes, priceUSDPerNative)
}

func (m *Manager) peerStore(destAddr string) (kvstore.Store, error) {
	m.peerStoresMu.Lock()
	defer m.peerStoresMu.Unlock()
	if s, ok := m.peerStores[destAddr]; ok {
		return s, nil
	}
	s, err := m.openPeerStore(destAddr)
	if err != nil {
		return nil, err
	}
	m.peerStores[destAddr] = s
	return s, nil
}
