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

package proof

import "testing"

func TestPedersenGenerateVerify(t *testing.T) {
	adapter := NewPedersenAdapter()
	pub := PublicInputs{Values: []uint64{500_000, 1_000}, Binding: []byte("tx-data-hash-abc")}

	proofBytes, err := adapter.Generate(pub, PrivateInputs{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := adapter.Verify(proofBytes)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected proof to verify")
	}
}

func TestPedersenRejectsTamperedBinding(t *testing.T) {
	adapter := NewPedersenAdapter()
	pub := PublicInputs{Values: []uint64{42}, Binding: []byte("original")}
	proofBytes, err := adapter.Generate(pub, PrivateInputs{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Flip a byte inside the binding region (right after the 4-byte length
	// prefix) without touching the statement count or point encodings.
	tampered := append([]byte(nil), proofBytes...)
	tampered[4] ^= 0xff

	ok, err := adapter.Verify(tampered)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected tampered binding to fail verification")
	}
}

func TestPedersenDistinctRunsDifferentProofs(t *testing.T) {
	adapter := NewPedersenAdapter()
	pub := PublicInputs{Values: []uint64{7}, Binding: []byte("b")}
	p1, err := adapter.Generate(pub, PrivateInputs{})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := adapter.Generate(pub, PrivateInputs{})
	if err != nil {
		t.Fatal(err)
	}
	if string(p1) == string(p2) {
		t.Fatal("expected fresh randomness to change the proof encoding")
	}
}
