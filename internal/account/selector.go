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

import (
	"errors"

	"github.com/GeniusVentures/geniuscore/internal/tokenid"
)

// ErrInsufficientFunds is returned when the pool cannot cover a requested
// amount in the requested token.
var ErrInsufficientFunds = errors.New("account: insufficient funds")

// SelectionParams describes a single-destination selection request.
type SelectionParams struct {
	Source      Address
	Amount      uint64
	Destination string
	TokenID     tokenid.TokenID
	Signature   [64]byte
}

// SelectionResult is the input/output pair a caller folds into a Transfer.
type SelectionResult struct {
	Inputs  []InputSpec
	Outputs []OutputSpec
}

// Select implements the greedy single-destination algorithm of spec §4.D:
// walk the pool (skipping locked or mismatched-token UTXOs), accumulate
// until the amount is covered, emit one passthrough output per
// fully-consumed UTXO plus a final remainder output and optional change.
func Select(pool []Utxo, p SelectionParams) (SelectionResult, error) {
	var selected []Utxo
	var accumulated uint64
	for _, u := range pool {
		if u.Locked {
			continue
		}
		if !tokenid.Equal(u.TokenID, p.TokenID) {
			continue
		}
		selected = append(selected, u)
		accumulated += u.Amount
		if accumulated >= p.Amount {
			break
		}
	}
	if accumulated < p.Amount {
		return SelectionResult{}, ErrInsufficientFunds
	}

	var result SelectionResult
	remaining := p.Amount
	for i, u := range selected {
		result.Inputs = append(result.Inputs, InputSpec{
			TxID:        u.TxID,
			OutputIndex: u.OutputIndex,
			Signature:   p.Signature,
		})
		last := i == len(selected)-1
		if !last {
			result.Outputs = append(result.Outputs, OutputSpec{
				EncryptedAmount:    u.Amount,
				DestinationAddress: p.Destination,
				TokenID:            p.TokenID,
			})
			remaining -= u.Amount
			continue
		}
		result.Outputs = append(result.Outputs, OutputSpec{
			EncryptedAmount:    remaining,
			DestinationAddress: p.Destination,
			TokenID:            p.TokenID,
		})
		change := accumulated - p.Amount
		if change > 0 {
			result.Outputs = append(result.Outputs, OutputSpec{
				EncryptedAmount:    change,
				DestinationAddress: p.Source.Hex(),
				TokenID:            p.TokenID,
			})
		}
	}
	return result, nil
}

// MultiDestination describes one of several payees in a multi-destination
// selection request.
type MultiDestination struct {
	Destination string
	Amount      uint64
}

// MultiSelectionParams is the multi-destination counterpart of
// SelectionParams.
type MultiSelectionParams struct {
	Source       Address
	Destinations []MultiDestination
	TokenID      tokenid.TokenID
	Signature    [64]byte
}

// SelectMulti sums the destination amounts, selects as Select does, emits
// each destination output verbatim, and appends a single change output.
func SelectMulti(pool []Utxo, p MultiSelectionParams) (SelectionResult, error) {
	var total uint64
	for _, d := range p.Destinations {
		total += d.Amount
	}
	var selected []Utxo
	var accumulated uint64
	for _, u := range pool {
		if u.Locked {
			continue
		}
		if !tokenid.Equal(u.TokenID, p.TokenID) {
			continue
		}
		selected = append(selected, u)
		accumulated += u.Amount
		if accumulated >= total {
			break
		}
	}
	if accumulated < total {
		return SelectionResult{}, ErrInsufficientFunds
	}

	var result SelectionResult
	for _, u := range selected {
		result.Inputs = append(result.Inputs, InputSpec{
			TxID:        u.TxID,
			OutputIndex: u.OutputIndex,
			Signature:   p.Signature,
		})
	}
	for _, d := range p.Destinations {
		result.Outputs = append(result.Outputs, OutputSpec{
			EncryptedAmount:    d.Amount,
			DestinationAddress: d.Destination,
			TokenID:            p.TokenID,
		})
	}
	if change := accumulated - total; change > 0 {
		result.Outputs = append(result.Outputs, OutputSpec{
			EncryptedAmount:    change,
			DestinationAddress: p.Source.Hex(),
			TokenID:            p.TokenID,
		})
	}
	return result, nil
}

// UpdateUtxoList returns a copy of pool with every (txid, output_idx) named
// by inputs marked locked — the post-commit helper of spec §4.D.
func UpdateUtxoList(pool []Utxo, inputs []InputSpec) []Utxo {
	locked := make(map[utxoKey]bool, len(inputs))
	for _, in := range inputs {
		locked[utxoKey{txid: in.TxID, idx: in.OutputIndex}] = true
	}
	out := make([]Utxo, len(pool))
	for i, u := range pool {
		out[i] = u
		if locked[utxoKey{txid: u.TxID, idx: u.OutputIndex}] {
			out[i].Locked = true
		}
	}
	return out
}
