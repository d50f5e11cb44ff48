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
	"strings"
	"time"

	"github.com/GeniusVentures/geniuscore/internal/logging"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

// Start reconciles the node's nonce and UTXO pool against its own
// previously-committed store, then begins the 300ms tick loop (spec §4.H
// state machine Init -> Reconciling -> Ticking).
func (m *Manager) Start() error {
	m.setState(StateReconciling)
	if err := m.reconcile(); err != nil {
		return err
	}
	m.setState(StateTicking)

	go m.run()
	return nil
}

// Stop signals the tick loop to exit and waits for it to finish.
func (m *Manager) Stop() {
	close(m.stopCh)
	<-m.doneCh
}

func (m *Manager) run() {
	defer close(m.doneCh)
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.tick()
			m.scanIncoming()
		}
	}
}

// reconcile replays every transaction already present in this node's own
// outgoing store, restoring the UTXO pool and advancing the nonce past the
// highest one observed (spec §4.H "periodic outgoing scan / startup
// reconciliation").
func (m *Manager) reconcile() error {
	records, err := m.outgoing.QueryKeyValues(ownTxPrefix(m.base, m.selfAddress()))
	if err != nil {
		return err
	}
	var maxNonce uint64
	for _, raw := range records {
		tx, err := txn.Decode(raw)
		if err != nil {
			logging.GetLogger().Warn("reconcile: skipping undecodable record", "error", err)
			continue
		}
		if err := applyToAccount(m.account, tx, true); err != nil {
			logging.GetLogger().Warn("reconcile: skipping record", "error", err)
			continue
		}
		if n := tx.Envelope().Nonce; n > maxNonce {
			maxNonce = n
		}
		m.recordOutgoing(tx)
	}
	m.account.SetNonce(maxNonce)
	return nil
}

// tick drains at most one outbox item: sign it, commit it to the local
// store, mutate the UTXO pool, notify any destinations, and only then pop
// it (spec §4.H outbox algorithm). A local commit failure leaves the item
// at the head of the queue for the next tick.
func (m *Manager) tick() {
	m.outboxMu.Lock()
	if len(m.outbox) == 0 {
		m.outboxMu.Unlock()
		return
	}
	item := m.outbox[0]
	m.outboxMu.Unlock()

	txn.Sign(item.tx, m.account)

	env := item.tx.Envelope()
	txKey := ownTxKey(m.base, m.selfAddress(), string(item.tx.Kind()), env.Nonce)

	batch := m.outgoing.Batch()
	batch.Put(txKey, item.tx.Encode())
	if item.proofBytes != nil {
		batch.Put(ownProofKey(m.base, m.selfAddress(), env.Nonce), item.proofBytes)
	}
	if err := batch.Commit(); err != nil {
		logging.GetLogger().Error("outbox commit failed, will retry", "error", err, "data_hash", env.DataHash)
		return
	}

	if err := applyToAccount(m.account, item.tx, true); err != nil {
		logging.GetLogger().Error("outbox ledger apply failed", "error", err, "data_hash", env.DataHash)
	}
	m.recordOutgoing(item.tx)
	m.notifyDestinations(item.tx, item.proofBytes)

	m.outboxMu.Lock()
	m.outbox = m.outbox[1:]
	m.outboxMu.Unlock()
}

// notifyDestinations replicates tx into each destination's outbound-notify
// store. A peer-notify failure is logged but never blocks the local
// commit already made above (spec §4.H failure semantics).
func (m *Manager) notifyDestinations(tx txn.Transaction, proofBytes []byte) {
	env := tx.Envelope()
	for _, dest := range destinationsOf(tx, m.selfAddress()) {
		store, err := m.peerStore(dest)
		if err != nil {
			logging.GetLogger().Warn("notify: no store for destination", "destination", dest, "error", err)
			continue
		}
		b := store.Batch()
		b.Put(notifyTxKey(m.base, dest, env.DataHash), tx.Encode())
		if proofBytes != nil {
			b.Put(notifyProofKey(m.base, dest, env.DataHash), proofBytes)
		}
		if err := b.Commit(); err != nil {
			logging.GetLogger().Warn("notify: commit failed", "destination", dest, "error", err)
		}
	}
}

// scanIncoming polls this node's own notify inbox for records it has not
// yet processed (spec §4.H "periodic incoming scan").
func (m *Manager) scanIncoming() {
	prefix := notifyTxPrefix(m.base, m.selfAddress())
	records, err := m.incoming.QueryKeyValues(prefix)
	if err != nil {
		logging.GetLogger().Warn("incoming scan failed", "error", err)
		return
	}
	for key, raw := range records {
		dataHash := strings.TrimPrefix(key, prefix)
		m.processedMu.RLock()
		_, seen := m.processedIncoming[dataHash]
		m.processedMu.RUnlock()
		if seen {
			continue
		}
		m.recordIncomingRaw(raw)
	}
}

// recordIncomingRaw decodes and validates a notify-store record. Signature
// verification requires the sender's public key, which a node only has
// out-of-band for peers it already transacted with directly; lacking a
// key directory (out of scope per spec §1), this checks content-hash
// integrity only, dropping anything that fails it.
func (m *Manager) recordIncomingRaw(raw []byte) {
	tx, err := txn.Decode(raw)
	if err != nil {
		logging.GetLogger().Warn("incoming: undecodable record", "error", err)
		return
	}
	if !txn.VerifyContentHash(tx) {
		logging.GetLogger().Warn("incoming: content hash mismatch, dropping", "data_hash", tx.Envelope().DataHash)
		return
	}
	if err := applyToAccount(m.account, tx, false); err != nil {
		logging.GetLogger().Warn("incoming: ledger apply failed", "error", err)
		return
	}
	m.recordIncoming(tx)
}

func (m *Manager) recordOutgoing(tx txn.Transaction) {
	rec := processedRecord{tx: tx, committedAt: time.Now()}
	m.processedMu.Lock()
	defer m.processedMu.Unlock()
	m.processedOutgoing[tx.Envelope().DataHash] = rec
	m.indexVariantLocked(tx, rec)
}

func (m *Manager) recordIncoming(tx txn.Transaction) {
	rec := processedRecord{tx: tx, committedAt: time.Now()}
	m.processedMu.Lock()
	defer m.processedMu.Unlock()
	m.processedIncoming[tx.Envelope().DataHash] = rec
	m.indexVariantLocked(tx, rec)
}

// indexVariantLocked updates the variant-specific secondary indexes;
// callers must hold processedMu.
func (m *Manager) indexVariantLocked(tx txn.Transaction, rec processedRecord) {
	switch v := tx.(type) {
	case *txn.Escrow:
		m.escrowsByHash[tx.Envelope().DataHash] = v
	case *txn.EscrowRelease:
		m.releasesByOriginalHash[v.OriginalEscrowHash] = rec
	}
}
