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
	"github.com/GeniusVentures/geniuscore/internal/account"
	"google.golang.org/protobuf/encoding/protowire"
)

// EscrowRelease references an Escrow by its content hash; its presence
// authorizes spending the escrow's output 0 via the accompanying Transfer
// (spec §3). It carries no ledger effect of its own — balances move only
// through the paired Transfer.
type EscrowRelease struct {
	Envelope_         Envelope
	Inputs            []account.InputSpec
	ReleaseAmount     uint64
	ReleaseAddress    string
	EscrowSource      string
	OriginalEscrowHash string
}

const (
	releaseFieldInput protowire.Number = iota + 2
	releaseFieldAmount
	releaseFieldAddress
	releaseFieldSource
	releaseFieldOriginalHash
)

// NewEscrowRelease builds an EscrowRelease with an empty signature and
// data_hash, then finalizes the content hash.
func NewEscrowRelease(inputs []account.InputSpec, releaseAmount uint64, releaseAddress, escrowSource, originalEscrowHash string, env Envelope) *EscrowRelease {
	env.Type = KindEscrowRelease
	r := &EscrowRelease{
		Envelope_:          env,
		Inputs:             inputs,
		ReleaseAmount:      releaseAmount,
		ReleaseAddress:     releaseAddress,
		EscrowSource:       escrowSource,
		OriginalEscrowHash: originalEscrowHash,
	}
	Finalize(r)
	return r
}

func (r *EscrowRelease) Kind() Kind          { return KindEscrowRelease }
func (r *EscrowRelease) Envelope() *Envelope { return &r.Envelope_ }

func (r *EscrowRelease) Encode() []byte {
	var b []byte
	b = appendSubmessage(b, envelopeFieldNum, r.Envelope_.Encode())
	for _, in := range r.Inputs {
		b = appendSubmessage(b, releaseFieldInput, encodeInputSpec(in))
	}
	b = appendVarintField(b, releaseFieldAmount, r.ReleaseAmount)
	b = appendStringField(b, releaseFieldAddress, r.ReleaseAddress)
	b = appendStringField(b, releaseFieldSource, r.EscrowSource)
	b = appendStringField(b, releaseFieldOriginalHash, r.OriginalEscrowHash)
	return b
}

func decodeEscrowRelease(fields []field, env *Envelope) (*EscrowRelease, error) {
	r := &EscrowRelease{Envelope_: *env}
	for _, f := range fields {
		switch f.num {
		case releaseFieldInput:
			in, err := decodeInputSpec(f.bytes)
			if err != nil {
				return nil, err
			}
			r.Inputs = append(r.Inputs, in)
		case releaseFieldAmount:
			r.ReleaseAmount = f.varint
		case releaseFieldAddress:
			r.ReleaseAddress = f.str()
		case releaseFieldSource:
			r.EscrowSource = f.str()
		case releaseFieldOriginalHash:
			r.OriginalEscrowHash = f.str()
		}
	}
	return r, nil
}
