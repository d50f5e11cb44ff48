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
	"encoding/hex"
	"fmt"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/txn"
)

func dataHashBytes(hexHash string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(hexHash)
	if err != nil || len(b) != 32 {
		return out, fmt.Errorf("manager: malformed data_hash %q", hexHash)
	}
	copy(out[:], b)
	return out, nil
}

// applyToAccount folds tx's ledger effect into acct's UTXO pool (spec §4.H
// "ledger parsing"). isOwner must be true only when acct is the
// transaction's own sender, since only the sender is entitled to release
// the inputs it spent; any account may pick up an output addressed to it.
func applyToAccount(acct *account.Account, tx txn.Transaction, isOwner bool) error {
	selfAddr := acct.Address().Hex()
	txID, err := dataHashBytes(tx.Envelope().DataHash)
	if err != nil {
		return err
	}

	switch v := tx.(type) {
	case *txn.Mint:
		if v.Envelope_.SourceAddress == selfAddr {
			acct.InsertUtxo(account.Utxo{
				TxID: txID, OutputIndex: 0, Amount: v.Amount, TokenID: v.TokenID,
			})
		}
	case *txn.Transfer:
		if isOwner {
			acct.Refresh(v.Inputs)
		}
		for i, out := range v.Outputs {
			if out.DestinationAddress != selfAddr {
				continue
			}
			acct.InsertUtxo(account.Utxo{
				TxID: txID, OutputIndex: uint32(i), Amount: out.EncryptedAmount, TokenID: out.TokenID,
			})
		}
	case *txn.Escrow:
		if isOwner {
			acct.Refresh(v.Inputs)
		}
		for i, out := range v.Outputs {
			if out.DestinationAddress != selfAddr {
				continue
			}
			acct.InsertUtxo(account.Utxo{
				TxID: txID, OutputIndex: uint32(i), Amount: out.EncryptedAmount, TokenID: out.TokenID,
			})
		}
	case *txn.EscrowRelease:
		// Carries no ledger effect of its own (spec §3); the paired
		// Transfer does the work. Nothing to apply here.
	}
	return nil
}
