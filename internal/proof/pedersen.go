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

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// PedersenAdapter proves knowledge of the opening of a Pedersen commitment
// C = v*G + r*H over BN254's G1 group, for every value in PublicInputs,
// without revealing v or r (spec §4.O). G is the curve's standard
// generator; H is a second, nothing-up-my-sleeve generator derived by
// scalar-multiplying G by the hash of a fixed domain tag.
type PedersenAdapter struct {
	g, h bn254.G1Affine
}

// NewPedersenAdapter builds a PedersenAdapter with domain-separated
// generators G and H.
func NewPedersenAdapter() *PedersenAdapter {
	_, _, g1Gen, _ := bn254.Generators()
	hScalar := hashToScalar([]byte("geniuscore/proof/pedersen-h"))
	var h bn254.G1Affine
	h.ScalarMultiplication(&g1Gen, hScalar)
	return &PedersenAdapter{g: g1Gen, h: h}
}

func fieldModulus() *big.Int {
	return fr.Modulus()
}

func hashToScalar(parts ...[]byte) *big.Int {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	sum := h.Sum(nil)
	return new(big.Int).Mod(new(big.Int).SetBytes(sum), fieldModulus())
}

func randomScalar() (*big.Int, error) {
	return rand.Int(rand.Reader, fieldModulus())
}

func addMod(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), fieldModulus())
}

func mulMod(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), fieldModulus())
}

func (a *PedersenAdapter) commit(value uint64, blinding *big.Int) bn254.G1Affine {
	vScalar := new(big.Int).SetUint64(value)
	var vG, rH bn254.G1Affine
	vG.ScalarMultiplication(&a.g, vScalar)
	rH.ScalarMultiplication(&a.h, blinding)
	return addPoints(vG, rH)
}

func addPoints(p, q bn254.G1Affine) bn254.G1Affine {
	var pj, qj bn254.G1Jac
	pj.FromAffine(&p)
	qj.FromAffine(&q)
	pj.AddAssign(&qj)
	var res bn254.G1Affine
	res.FromJacobian(&pj)
	return res
}

// statement is one value's opening proof within a multi-value Generate
// call: a Pedersen commitment, a Schnorr-style commitment to the
// randomness used in the opening proof, and the two Fiat-Shamir responses.
type statement struct {
	commitment bn254.G1Affine
	nonceComm  bn254.G1Affine
	zValue     *big.Int
	zBlinding  *big.Int
}

// Generate implements the ProofAdapter contract (spec §4.F): it commits to
// every value in pub.Values and produces a non-interactive proof of
// knowledge of each opening, bound to pub.Binding so the proof cannot be
// replayed against a different transaction.
func (a *PedersenAdapter) Generate(pub PublicInputs, priv PrivateInputs) ([]byte, error) {
	if len(priv.Blindings) != 0 && len(priv.Blindings) != len(pub.Values) {
		return nil, fmt.Errorf("proof: %d blindings for %d values", len(priv.Blindings), len(pub.Values))
	}
	stmts := make([]statement, len(pub.Values))
	commitments := make([]bn254.G1Affine, len(pub.Values))
	nonceComms := make([]bn254.G1Affine, len(pub.Values))
	kValues := make([]*big.Int, len(pub.Values))
	kBlindings := make([]*big.Int, len(pub.Values))
	blindings := make([]*big.Int, len(pub.Values))

	for i, v := range pub.Values {
		blinding := (*big.Int)(nil)
		if len(priv.Blindings) == len(pub.Values) {
			blinding = priv.Blindings[i]
		}
		if blinding == nil {
			rnd, err := randomScalar()
			if err != nil {
				return nil, fmt.Errorf("proof: generate blinding: %w", err)
			}
			blinding = rnd
		}
		blindings[i] = blinding
		commitments[i] = a.commit(v, blinding)

		kv, err := randomScalar()
		if err != nil {
			return nil, fmt.Errorf("proof: generate nonce: %w", err)
		}
		kr, err := randomScalar()
		if err != nil {
			return nil, fmt.Errorf("proof: generate nonce: %w", err)
		}
		kValues[i], kBlindings[i] = kv, kr

		var kvG, krH bn254.G1Affine
		kvG.ScalarMultiplication(&a.g, kv)
		krH.ScalarMultiplication(&a.h, kr)
		nonceComms[i] = addPoints(kvG, krH)
	}

	challenge := fiatShamirChallenge(pub.Binding, commitments, nonceComms)

	for i, v := range pub.Values {
		vScalar := new(big.Int).SetUint64(v)
		stmts[i] = statement{
			commitment: commitments[i],
			nonceComm:  nonceComms[i],
			zValue:     addMod(kValues[i], mulMod(challenge, vScalar)),
			zBlinding:  addMod(kBlindings[i], mulMod(challenge, blindings[i])),
		}
	}

	return encodeProof(pub.Binding, stmts), nil
}

// Verify checks a proof blob produced by Generate, using only the values
// embedded in the blob itself (spec §4.F: `verify(proof_bytes) -> bool`).
func (a *PedersenAdapter) Verify(proofBytes []byte) (bool, error) {
	binding, stmts, err := decodeProof(proofBytes)
	if err != nil {
		return false, err
	}
	commitments := make([]bn254.G1Affine, len(stmts))
	nonceComms := make([]bn254.G1Affine, len(stmts))
	for i, s := range stmts {
		commitments[i] = s.commitment
		nonceComms[i] = s.nonceComm
	}
	challenge := fiatShamirChallenge(binding, commitments, nonceComms)

	for _, s := range stmts {
		var lhsV, lhsR bn254.G1Affine
		lhsV.ScalarMultiplication(&a.g, s.zValue)
		lhsR.ScalarMultiplication(&a.h, s.zBlinding)
		lhs := addPoints(lhsV, lhsR)

		var eC bn254.G1Affine
		eC.ScalarMultiplication(&s.commitment, challenge)
		rhs := addPoints(s.nonceComm, eC)

		if !lhs.Equal(&rhs) {
			return false, nil
		}
	}
	return true, nil
}

func fiatShamirChallenge(binding []byte, commitments, nonceComms []bn254.G1Affine) *big.Int {
	h := sha256.New()
	h.Write(binding)
	for i := range commitments {
		cb := commitments[i].Marshal()
		tb := nonceComms[i].Marshal()
		h.Write(cb)
		h.Write(tb)
	}
	return new(big.Int).Mod(new(big.Int).SetBytes(h.Sum(nil)), fieldModulus())
}

// Wire format: uint32 binding length | binding | uint32 statement count |
// per statement: commitment (uncompressed G1) | nonceComm (uncompressed
// G1) | zValue (32 bytes, big-endian) | zBlinding (32 bytes, big-endian).
func encodeProof(binding []byte, stmts []statement) []byte {
	var buf []byte
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(binding)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, binding...)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(stmts)))
	buf = append(buf, lenBuf[:]...)
	for _, s := range stmts {
		buf = append(buf, s.commitment.Marshal()...)
		buf = append(buf, s.nonceComm.Marshal()...)
		buf = append(buf, leftPad32(s.zValue)...)
		buf = append(buf, leftPad32(s.zBlinding)...)
	}
	return buf
}

func decodeProof(b []byte) ([]byte, []statement, error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("proof: %w: truncated header", ErrInvalidProof)
	}
	bindingLen := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	if uint32(len(b)) < bindingLen+4 {
		return nil, nil, fmt.Errorf("proof: %w: truncated binding", ErrInvalidProof)
	}
	binding := append([]byte(nil), b[:bindingLen]...)
	b = b[bindingLen:]
	count := binary.BigEndian.Uint32(b[:4])
	b = b[4:]

	var zeroPoint bn254.G1Affine
	pointSize := len(zeroPoint.Marshal())
	stmtSize := 2*pointSize + 64
	if uint32(len(b)) != count*uint32(stmtSize) {
		return nil, nil, fmt.Errorf("proof: %w: bad statement length", ErrInvalidProof)
	}

	stmts := make([]statement, count)
	for i := range stmts {
		chunk := b[:stmtSize]
		b = b[stmtSize:]
		var commitment, nonceComm bn254.G1Affine
		if err := commitment.Unmarshal(chunk[:pointSize]); err != nil {
			return nil, nil, fmt.Errorf("proof: %w: %v", ErrInvalidProof, err)
		}
		chunk = chunk[pointSize:]
		if err := nonceComm.Unmarshal(chunk[:pointSize]); err != nil {
			return nil, nil, fmt.Errorf("proof: %w: %v", ErrInvalidProof, err)
		}
		chunk = chunk[pointSize:]
		zValue := new(big.Int).SetBytes(chunk[:32])
		zBlinding := new(big.Int).SetBytes(chunk[32:64])
		stmts[i] = statement{commitment: commitment, nonceComm: nonceComm, zValue: zValue, zBlinding: zBlinding}
	}
	return binding, stmts, nil
}

func leftPad32(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
