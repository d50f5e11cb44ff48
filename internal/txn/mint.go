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

package txn

import (
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Mint creates a single new UTXO at output index 0, owned by the envelope's
// source address (spec §3).
type Mint struct {
	Envelope_ Envelope
	Amount    uint64
	ChainID   string
	TokenID   tokenid.TokenID
}

const (
	mintFieldAmount protowire.Number = iota + 2
	mintFieldChainID
	mintFieldTokenID
)

// NewMint builds a Mint with an empty signature and data_hash, then
// finalizes the content hash (spec §4.E steps 1-2).
func NewMint(amount uint64, chainID string, token tokenid.TokenID, env Envelope) *Mint {
	env.Type = KindMint
	m := &Mint{Envelope_: env, Amount: amount, ChainID: chainID, TokenID: token}
	Finalize(m)
	return m
}

func (m *Mint) Kind() Kind          { return KindMint }
func (m *Mint) Envelope() *Envelope { return &m.Envelope_ }

func (m *Mint) Encode() []byte {
	var b []byte
	b = appendSubmessage(b, envelopeFieldNum, m.Envelope_.Encode())
	b = appendVarintField(b, mintFieldAmount, m.Amount)
	b = appendStringField(b, mintFieldChainID, m.ChainID)
	raw := m.TokenID.Bytes()
	b = appendBytesField(b, mintFieldTokenID, raw[:])
	return b
}

func decodeMint(fields []field, env *Envelope) (*Mint, error) {
	m := &Mint{Envelope_: *env}
	for _, f := range fields {
		switch f.num {
		case mintFieldAmount:
			m.Amount = f.varint
		case mintFieldChainID:
			m.ChainID = f.str()
		case mintFieldTokenID:
			m.TokenID = tokenid.FromBytes(f.bytes)
		}
	}
	return m, nil
}
