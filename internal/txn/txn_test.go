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
	"bytes"
	"testing"

	"github.com/GeniusVentures/geniuscore/internal/account"
	"github.com/GeniusVentures/geniuscore/internal/tokenid"
)

func testSigner(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.New(bytes.Repeat([]byte{0xab, 0xcd}, 16))
	if err != nil {
		t.Fatal(err)
	}
	return acc
}

func baseEnvelope(source string) Envelope {
	return Envelope{
		SourceAddress: source,
		Nonce:         1,
		Timestamp:     1700000000,
	}
}

func TestMintRoundTrip(t *testing.T) {
	signer := testSigner(t)
	m := NewMint(500_000, "mainnet", tokenid.Native(), baseEnvelope(signer.Address().Hex()))
	Sign(m, signer)

	if err := Verify(m, signer.PublicKey()); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	decoded, err := Decode(m.Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got, ok := decoded.(*Mint)
	if !ok {
		t.Fatalf("decoded type = %T, want *Mint", decoded)
	}
	if got.Amount != m.Amount || got.ChainID != m.ChainID {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
	}
	if err := Verify(got, signer.PublicKey()); err != nil {
		t.Fatalf("decoded verify failed: %v", err)
	}
}

func TestTransferRoundTrip(t *testing.T) {
	signer := testSigner(t)
	inputs := []account.InputSpec{{TxID: [32]byte{1}, OutputIndex: 0}}
	outputs := []account.OutputSpec{
		{EncryptedAmount: 100, DestinationAddress: "0xdest", TokenID: tokenid.Native()},
		{EncryptedAmount: 50, DestinationAddress: signer.Address().Hex(), TokenID: tokenid.Native()},
	}
	tx := NewTransfer(inputs, outputs, baseEnvelope(signer.Address().Hex()))
	Sign(tx, signer)

	decoded, err := Decode(tx.Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got, ok := decoded.(*Transfer)
	if !ok {
		t.Fatalf("decoded type = %T, want *Transfer", decoded)
	}
	if len(got.Inputs) != 1 || len(got.Outputs) != 2 {
		t.Fatalf("got %d inputs, %d outputs", len(got.Inputs), len(got.Outputs))
	}
	if err := Verify(got, signer.PublicKey()); err != nil {
		t.Fatalf("decoded verify failed: %v", err)
	}
}

func TestEscrowRoundTrip(t *testing.T) {
	signer := testSigner(t)
	jobID := "job-42"
	dest := EscrowAddress(jobID)
	inputs := []account.InputSpec{{TxID: [32]byte{7}, OutputIndex: 0}}
	outputs := []account.OutputSpec{{EncryptedAmount: 1000, DestinationAddress: dest, TokenID: tokenid.Native()}}
	e := NewEscrow(jobID, inputs, outputs, 1000, "0xdev", 650_000, tokenid.Native(), baseEnvelope(signer.Address().Hex()))
	Sign(e, signer)

	decoded, err := Decode(e.Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got, ok := decoded.(*Escrow)
	if !ok {
		t.Fatalf("decoded type = %T, want *Escrow", decoded)
	}
	if got.JobID != jobID || got.PeersCutFP != 650_000 || got.DevAddress != "0xdev" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Outputs[0].DestinationAddress != dest {
		t.Fatalf("escrow output destination = %q, want %q", got.Outputs[0].DestinationAddress, dest)
	}
	if err := Verify(got, signer.PublicKey()); err != nil {
		t.Fatalf("decoded verify failed: %v", err)
	}
}

func TestEscrowReleaseRoundTrip(t *testing.T) {
	signer := testSigner(t)
	inputs := []account.InputSpec{{TxID: [32]byte{9}, OutputIndex: 0}}
	r := NewEscrowRelease(inputs, 325, "0xworker1", "0xescrowcreator", "deadbeef", baseEnvelope(signer.Address().Hex()))
	Sign(r, signer)

	decoded, err := Decode(r.Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got, ok := decoded.(*EscrowRelease)
	if !ok {
		t.Fatalf("decoded type = %T, want *EscrowRelease", decoded)
	}
	if got.ReleaseAmount != 325 || got.OriginalEscrowHash != "deadbeef" || got.EscrowSource != "0xescrowcreator" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if err := Verify(got, signer.PublicKey()); err != nil {
		t.Fatalf("decoded verify failed: %v", err)
	}
}

func TestVerifyDetectsTamperedSignature(t *testing.T) {
	signer := testSigner(t)
	m := NewMint(1, "", tokenid.Native(), baseEnvelope(signer.Address().Hex()))
	Sign(m, signer)
	m.Envelope_.Signature[0] ^= 0xff
	if err := Verify(m, signer.PublicKey()); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyDetectsCorruptContent(t *testing.T) {
	signer := testSigner(t)
	m := NewMint(1, "", tokenid.Native(), baseEnvelope(signer.Address().Hex()))
	Sign(m, signer)
	m.Amount = 2 // mutate after signing without re-finalizing
	if err := Verify(m, signer.PublicKey()); err != ErrCorruptEnvelope {
		t.Fatalf("expected ErrCorruptEnvelope, got %v", err)
	}
}
