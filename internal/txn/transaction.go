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
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Transaction is the tagged sum type Mint | Transfer | Escrow |
// EscrowRelease (spec §9 "Dynamic polymorphism over transactions ...
// maps to a tagged sum type").
type Transaction interface {
	Kind() Kind
	Envelope() *Envelope
	// Encode serializes the full transaction (envelope + variant fields)
	// exactly as currently populated.
	Encode() []byte
}

const envelopeFieldNum protowire.Number = 1

// Finalize computes and stores the content hash per spec §4.E step 2:
// serialize with signature and data_hash cleared, Blake2b-256, hex-encode.
func Finalize(tx Transaction) {
	env := tx.Envelope()
	env.DataHash = ""
	env.Signature = [64]byte{}
	sum := blake2b.Sum256(tx.Encode())
	env.DataHash = hex.EncodeToString(sum[:])
}

// VerifyContentHash re-derives the content hash and compares it to the
// stored data_hash, temporarily clearing signature/data_hash as Finalize
// does and restoring them afterward.
func VerifyContentHash(tx Transaction) bool {
	env := tx.Envelope()
	savedHash, savedSig := env.DataHash, env.Signature
	env.DataHash = ""
	env.Signature = [64]byte{}
	sum := blake2b.Sum256(tx.Encode())
	env.DataHash = savedHash
	env.Signature = savedSig
	return hex.EncodeToString(sum[:]) == savedHash
}

// Sign implements spec §4.E step 3: clear the signature, serialize the
// envelope alone, SHA-256, ECDSA-sign, and store the 64-byte result.
func Sign(tx Transaction, signer *account.Account) {
	env := tx.Envelope()
	env.Signature = [64]byte{}
	env.Signature = signer.Sign(env.encodeForSigning())
}

// Verify mirrors the construction sequence: the content hash must
// reproduce data_hash, and the envelope signature must check out against
// pub.
func Verify(tx Transaction, pub *secp256k1.PublicKey) error {
	if !VerifyContentHash(tx) {
		return ErrCorruptEnvelope
	}
	env := tx.Envelope()
	if !account.Verify(pub, env.encodeForSigning(), env.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

// --- shared submessage codecs for InputSpec / OutputSpec ---

const (
	inFieldTxID protowire.Number = iota + 1
	inFieldOutputIndex
	inFieldSignature
)

func encodeInputSpec(in account.InputSpec) []byte {
	var b []byte
	b = appendBytesField(b, inFieldTxID, in.TxID[:])
	b = appendVarintField(b, inFieldOutputIndex, uint64(in.OutputIndex))
	b = appendBytesField(b, inFieldSignature, in.Signature[:])
	return b
}

func decodeInputSpec(b []byte) (account.InputSpec, error) {
	fields, err := parseFields(b)
	if err != nil {
		return account.InputSpec{}, fmt.Errorf("txn: decode input: %w", err)
	}
	var in account.InputSpec
	for _, f := range fields {
		switch f.num {
		case inFieldTxID:
			copy(in.TxID[:], f.bytes)
		case inFieldOutputIndex:
			in.OutputIndex = uint32(f.varint)
		case inFieldSignature:
			copy(in.Signature[:], f.bytes)
		}
	}
	return in, nil
}

const (
	outFieldAmount protowire.Number = iota + 1
	outFieldDestination
	outFieldTokenID
)

func encodeOutputSpec(out account.OutputSpec) []byte {
	var b []byte
	b = appendVarintField(b, outFieldAmount, out.EncryptedAmount)
	b = appendStringField(b, outFieldDestination, out.DestinationAddress)
	raw := out.TokenID.Bytes()
	b = appendBytesField(b, outFieldTokenID, raw[:])
	return b
}

func decodeOutputSpec(b []byte) (account.OutputSpec, error) {
	fields, err := parseFields(b)
	if err != nil {
		return account.OutputSpec{}, fmt.Errorf("txn: decode output: %w", err)
	}
	var out account.OutputSpec
	for _, f := range fields {
		switch f.num {
		case outFieldAmount:
			out.EncryptedAmount = f.varint
		case outFieldDestination:
			out.DestinationAddress = f.str()
		case outFieldTokenID:
			out.TokenID = tokenid.FromBytes(f.bytes)
		}
	}
	return out, nil
}

// Decode inspects the embedded envelope's type tag and dispatches to the
// matching variant decoder (spec §9: "a static dispatch table replaces the
// string -> constructor registry").
func Decode(b []byte) (Transaction, error) {
	fields, err := parseFields(b)
	if err != nil {
		return nil, fmt.Errorf("txn: decode: %w", err)
	}
	var envBytes []byte
	for _, f := range fields {
		if f.num == envelopeFieldNum {
			envBytes = f.bytes
		}
	}
	env, err := decodeEnvelope(envBytes)
	if err != nil {
		return nil, err
	}
	switch env.Type {
	case KindMint:
		return decodeMint(fields, env)
	case KindTransfer:
		return decodeTransfer(fields, env)
	case KindEscrow:
		return decodeEscrow(fields, env)
	case KindEscrowRelease:
		return decodeEscrowRelease(fields, env)
	default:
		return nil, fmt.Errorf("txn: unknown transaction type %q", env.Type)
	}
}
