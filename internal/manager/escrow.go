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
	"fmt"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/fixedpoint"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

// SubtaskResult names the node that completed one subtask of the job an
// escrow was held for.
type SubtaskResult struct {
	NodeAddress string
}

// TaskResult is the completed-job report handed to PayEscrow.
type TaskResult struct {
	SubtaskResults []SubtaskResult
}

// PayEscrow derives the payout for a completed job and enqueues it (spec
// §4.H "escrow payout derivation"):
//
//  1. peers_total = floor(escrow.Amount * escrow.PeersCutFP / 1e6)
//  2. peers_amount = floor(peers_total / len(subtask_results))
//  3. dev_amount = escrow.Amount - peers_amount*len(subtask_results), so
//     every unit of rounding remainder lands with the developer cut.
//  4. A single Transfer consumes the escrow's output 0 and pays every
//     worker peers_amount plus the developer dev_amount; one
//     EscrowRelease per worker is enqueued first so each can learn its
//     payout via WaitForEscrowRelease.
//
// Output 0 is assumed to carry the escrow's full amount, which only holds
// because HoldEscrow rejects funding that requires more than one UTXO
// (ErrEscrowFundingFragmented); see its comment for why a multi-UTXO
// selection would split the amount across indices instead.
func (m *Manager) PayEscrow(escrowHash string, result TaskResult) (transferHash string, releaseHashes []string, err error) {
	m.processedMu.RLock()
	escrow, ok := m.escrowsByHash[escrowHash]
	m.processedMu.RUnlock()
	if !ok {
		return "", nil, ErrEscrowNotFound
	}
	n := len(result.SubtaskResults)
	if n == 0 {
		return "", nil, ErrEmptyResult
	}

	escrowTxID, err := dataHashBytes(escrowHash)
	if err != nil {
		return "", nil, err
	}

	peersTotal, err := fixedpoint.Multiply(escrow.Amount, escrow.PeersCutFP, 6)
	if err != nil {
		return "", nil, fmt.Errorf("manager: derive peers total: %w", err)
	}
	peersAmount := peersTotal / uint64(n)
	devAmount := escrow.Amount - peersAmount*uint64(n)

	input := account.InputSpec{TxID: escrowTxID, OutputIndex: 0}

	outputs := make([]account.OutputSpec, 0, n+1)
	for _, sub := range result.SubtaskResults {
		outputs = append(outputs, account.OutputSpec{
			EncryptedAmount:    peersAmount,
			DestinationAddress: sub.NodeAddress,
			TokenID:            escrow.TokenID,
		})
	}
	outputs = append(outputs, account.OutputSpec{
		EncryptedAmount:    devAmount,
		DestinationAddress: escrow.DevAddress,
		TokenID:            escrow.TokenID,
	})

	for _, sub := range result.SubtaskResults {
		releaseEnv := m.buildEnvelope()
		release := txn.NewEscrowRelease(
			[]account.InputSpec{input},
			peersAmount,
			sub.NodeAddress,
			m.selfAddress(),
			escrowHash,
			releaseEnv,
		)
		m.enqueue(release, nil)
		releaseHashes = append(releaseHashes, release.Envelope().DataHash)
	}

	transferEnv := m.buildEnvelope()
	transfer := txn.NewTransfer([]account.InputSpec{input}, outputs, transferEnv)
	m.enqueue(transfer, nil)

	return transfer.Envelope().DataHash, releaseHashes, nil
}
