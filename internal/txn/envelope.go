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
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind tags which transaction variant an envelope belongs to.
type Kind string

const (
	KindMint           Kind = "mint"
	KindTransfer       Kind = "transfer"
	KindEscrow         Kind = "escrow"
	KindEscrowRelease  Kind = "escrow-release"
)

// ErrInvalidAddress is returned when a destination address fails to parse.
var ErrInvalidAddress = errors.New("txn: invalid address")

// ErrInvalidSignature is returned when envelope signature verification
// fails on an incoming transaction.
var ErrInvalidSignature = errors.New("txn: invalid signature")

// ErrCorruptEnvelope is returned when the re-derived content hash does not
// match the stored data_hash.
var ErrCorruptEnvelope = errors.New("txn: content hash mismatch")

// Envelope is the signed DAG header shared by every transaction variant
// (spec §3 "DagEnvelope").
type Envelope struct {
	PrevHash      string
	Nonce         uint64
	SourceAddress string
	Timestamp     uint64
	UncleHash     string
	DataHash      string
	Signature     [64]byte
	Type          Kind
}

const (
	envFieldPrevHash protowire.Number = iota + 1
	envFieldNonce
	envFieldSourceAddress
	envFieldTimestamp
	envFieldUncleHash
	envFieldDataHash
	envFieldSignature
	envFieldType
)

// encode serializes the envelope. When includeSignature is false the
// signature field is omitted, matching the "signature cleared" step of the
// sign/verify sequence (spec §4.E).
func (e *Envelope) encode(includeSignature bool) []byte {
	var b []byte
	b = appendStringField(b, envFieldPrevHash, e.PrevHash)
	b = appendVarintField(b, envFieldNonce, e.Nonce)
	b = appendStringField(b, envFieldSourceAddress, e.SourceAddress)
	b = appendVarintField(b, envFieldTimestamp, e.Timestamp)
	b = appendStringField(b, envFieldUncleHash, e.UncleHash)
	b = appendStringField(b, envFieldDataHash, e.DataHash)
	if includeSignature {
		b = appendBytesField(b, envFieldSignature, e.Signature[:])
	}
	b = appendStringField(b, envFieldType, string(e.Type))
	return b
}

// Encode serializes the envelope with both data_hash and signature intact,
// used as a nested submessage inside each variant's full encoding.
func (e *Envelope) Encode() []byte {
	return e.encode(true)
}

// encodeForSigning serializes the envelope with the signature cleared; its
// SHA-256 is what gets ECDSA-signed.
func (e *Envelope) encodeForSigning() []byte {
	var b []byte
	b = appendStringField(b, envFieldPrevHash, e.PrevHash)
	b = appendVarintField(b, envFieldNonce, e.Nonce)
	b = appendStringField(b, envFieldSourceAddress, e.SourceAddress)
	b = appendVarintField(b, envFieldTimestamp, e.Timestamp)
	b = appendStringField(b, envFieldUncleHash, e.UncleHash)
	b = appendStringField(b, envFieldDataHash, e.DataHash)
	b = appendStringField(b, envFieldType, string(e.Type))
	return b
}

func decodeEnvelope(b []byte) (*Envelope, error) {
	fields, err := parseFields(b)
	if err != nil {
		return nil, fmt.Errorf("txn: decode envelope: %w", err)
	}
	e := &Envelope{}
	for _, f := range fields {
		switch f.num {
		case envFieldPrevHash:
			e.PrevHash = f.str()
		case envFieldNonce:
			e.Nonce = f.varint
		case envFieldSourceAddress:
			e.SourceAddress = f.str()
		case envFieldTimestamp:
			e.Timestamp = f.varint
		case envFieldUncleHash:
			e.UncleHash = f.str()
		case envFieldDataHash:
			e.DataHash = f.str()
		case envFieldSignature:
			copy(e.Signature[:], f.bytes)
		case envFieldType:
			e.Type = Kind(f.str())
		}
	}
	return e, nil
}
