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
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
	"google.golang.org/protobuf/encoding/protowire"
)

// EscrowAddress derives the deterministic escrow destination
// "0x"+hex(blake2b256(jobID)) (spec glossary: "Escrow address"). Unlike an
// Account address this is a raw 32-byte hash, not a key-derived 20-byte
// value, so it is carried as a plain string rather than account.Address.
func EscrowAddress(jobID string) string {
	sum := blake2b.Sum256([]byte(jobID))
	return "0x" + hex.EncodeToString(sum[:])
}

// Escrow consumes Inputs and produces output 0 at the job's escrow address
// with optional change at index 1. PeersCutFP is a fixed-point fraction at
// precision 6; peers_cut + dev_cut = 1 (spec §3, §4.H "Escrow payout
// derivation").
type Escrow struct {
	Envelope_  Envelope
	JobID      string
	Inputs     []account.InputSpec
	Outputs    []account.OutputSpec
	Amount     uint64
	DevAddress string
	PeersCutFP uint64
	TokenID    tokenid.TokenID
}

const (
	escrowFieldJobID protowire.Number = iota + 2
	escrowFieldInput
	escrowFieldOutput
	escrowFieldAmount
	escrowFieldDevAddress
	escrowFieldPeersCutFP
	escrowFieldTokenID
)

// NewEscrow builds an Escrow transaction. Callers are expected to have
// already placed the escrow-address output at index 0 (via EscrowAddress)
// and any change output at index 1.
func NewEscrow(jobID string, inputs []account.InputSpec, outputs []account.OutputSpec, amount uint64, devAddress string, peersCutFP uint64, token tokenid.TokenID, env Envelope) *Escrow {
	env.Type = KindEscrow
	e := &Escrow{
		Envelope_:  env,
		JobID:      jobID,
		Inputs:     inputs,
		Outputs:    outputs,
		Amount:     amount,
		DevAddress: devAddress,
		PeersCutFP: peersCutFP,
		TokenID:    token,
	}
	Finalize(e)
	return e
}

func (e *Escrow) Kind() Kind          { return KindEscrow }
func (e *Escrow) Envelope() *Envelope { return &e.Envelope_ }

func (e *Escrow) Encode() []byte {
	var b []byte
	b = appendSubmessage(b, envelopeFieldNum, e.Envelope_.Encode())
	b = appendStringField(b, escrowFieldJobID, e.JobID)
	for _, in := range e.Inputs {
		b = appendSubmessage(b, escrowFieldInput, encodeInputSpec(in))
	}
	for _, out := range e.Outputs {
		b = appendSubmessage(b, escrowFieldOutput, encodeOutputSpec(out))
	}
	b = appendVarintField(b, escrowFieldAmount, e.Amount)
	b = appendStringField(b, escrowFieldDevAddress, e.DevAddress)
	b = appendVarintField(b, escrowFieldPeersCutFP, e.PeersCutFP)
	raw := e.TokenID.Bytes()
	b = appendBytesField(b, escrowFieldTokenID, raw[:])
	return b
}

func decodeEscrow(fields []field, env *Envelope) (*Escrow, error) {
	e := &Escrow{Envelope_: *env}
	for _, f := range fields {
		switch f.num {
		case escrowFieldJobID:
			e.JobID = f.str()
		case escrowFieldInput:
			in, err := decodeInputSpec(f.bytes)
			if err != nil {
				return nil, err
			}
			e.Inputs = append(e.Inputs, in)
		case escrowFieldOutput:
			out, err := decodeOutputSpec(f.bytes)
			if err != nil {
				return nil, err
			}
			e.Outputs = append(e.Outputs, out)
		case escrowFieldAmount:
			e.Amount = f.varint
		case escrowFieldDevAddress:
			e.DevAddress = f.str()
		case escrowFieldPeersCutFP:
			e.PeersCutFP = f.varint
		case escrowFieldTokenID:
			e.TokenID = tokenid.FromBytes(f.bytes)
		}
	}
	return e, nil
}
