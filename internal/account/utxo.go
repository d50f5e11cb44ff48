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

package account

import "github.com/GeniusVentures/geniuscore/internal/tokenid"

// Utxo is a spendable output: a reference to the transaction that created it
// plus the amount, token, and lock state. Mirrors the teacher's
// internal/storage.Utxo (a transaction-input-reference + output pairing),
// generalized from ledger CBOR to the Genius UTXO model.
type Utxo struct {
	TxID        [32]byte
	OutputIndex uint32
	Amount      uint64
	TokenID     tokenid.TokenID
	Locked      bool
}

// InputSpec references a UTXO being spent, carrying the caller-supplied
// signature authorizing the spend.
type InputSpec struct {
	TxID        [32]byte
	OutputIndex uint32
	Signature   [64]byte
}

// OutputSpec describes a new output being created by a transaction.
// "EncryptedAmount" reserves the field name for future homomorphic
// commitments (spec §3); today the amount is stored verbatim.
type OutputSpec struct {
	EncryptedAmount    uint64
	DestinationAddress string
	TokenID            tokenid.TokenID
}
