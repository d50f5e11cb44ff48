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

// Package proof defines the ProofAdapter contract (spec §4.F): an optional,
// per-transaction proof blob that the manager treats as opaque. It ships
// one concrete backend, PedersenAdapter, standing in for the out-of-scope
// real prover/verifier.
package proof

import (
	"errors"
	"math/big"
)

// ErrByteCodeNotFound is returned when a proof backend cannot locate the
// circuit bytecode it needs to generate or verify a proof (spec §7).
var ErrByteCodeNotFound = errors.New("proof: circuit bytecode not found")

// ErrInvalidProof is returned by Verify when a proof blob is malformed
// (truncated, wrong length, or carrying an undecodable point). A
// well-formed proof that fails its check yields false with a nil error.
var ErrInvalidProof = errors.New("proof: verification failed")

// PublicInputs are the transaction-derived values a proof binds to: the
// amounts being committed (e.g. committed balance, committed amount, range
// bounds) and an arbitrary binding context — typically the envelope's
// data_hash — that pins the proof to one transaction so it cannot be
// replayed against another.
type PublicInputs struct {
	Values  []uint64
	Binding []byte
}

// PrivateInputs supplies one blinding factor per value in
// PublicInputs.Values, in the same order. A nil entry causes Generate to
// draw a fresh random blinding factor.
type PrivateInputs struct {
	Blindings []*big.Int
}

// Adapter is the contract a proof backend must satisfy (spec §4.F): opaque
// to the manager, it produces and checks per-transaction proof blobs.
type Adapter interface {
	Generate(pub PublicInputs, priv PrivateInputs) ([]byte, error)
	Verify(proofBytes []byte) (bool, error)
}
