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

// Package account implements the node's key material, address derivation,
// signing primitive, multi-token balance view, and UTXO pool (spec §4.C),
// along with the greedy UTXO selector (spec §4.D).
package account

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/GeniusVentures/geniuscore/internal/tokenid"
)

// Account holds a node's key material, nonce counter, and UTXO pool.
type Account struct {
	mu      sync.RWMutex
	priv    *secp256k1.PrivateKey
	address Address
	nonce   uint64
	utxos   map[utxoKey]Utxo
}

type utxoKey struct {
	txid [32]byte
	idx  uint32
}

// New builds an Account from a 32-byte private key.
func New(privateKey []byte) (*Account, error) {
	if len(privateKey) != 32 {
		return nil, fmt.Errorf("account: private key must be 32 bytes, got %d", len(privateKey))
	}
	priv := secp256k1.PrivKeyFromBytes(privateKey)
	return &Account{
		priv:    priv,
		address: AddressFromPublicKey(priv.PubKey()),
		utxos:   make(map[utxoKey]Utxo),
	}, nil
}

// Generate creates a new Account with a freshly generated private key.
func Generate() (*Account, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &Account{
		priv:    priv,
		address: AddressFromPublicKey(priv.PubKey()),
		utxos:   make(map[utxoKey]Utxo),
	}, nil
}

// Address returns the account's derived address.
func (a *Account) Address() Address {
	return a.address
}

// PublicKey returns the account's public key.
func (a *Account) PublicKey() *secp256k1.PublicKey {
	return a.priv.PubKey()
}

// Sign produces a 64-byte (r,s) signature of SHA-256(message).
func (a *Account) Sign(message []byte) [64]byte {
	hash := sha256.Sum256(message)
	compact := ecdsa.SignCompact(a.priv, hash[:], false)
	var out [64]byte
	// compact[0] is the recovery/format byte; r||s follow.
	copy(out[:], compact[1:65])
	return out
}

// Verify checks a 64-byte (r,s) signature of SHA-256(message) against pub.
func Verify(pub *secp256k1.PublicKey, message []byte, signature [64]byte) bool {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[0:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:64]); overflow {
		return false
	}
	sig := ecdsa.NewSignature(&r, &s)
	hash := sha256.Sum256(message)
	return sig.Verify(hash[:], pub)
}

// NextNonce increments and returns the account's nonce, for use when
// building a new outgoing transaction.
func (a *Account) NextNonce() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nonce++
	return a.nonce
}

// Nonce returns the current nonce without incrementing it.
func (a *Account) Nonce() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.nonce
}

// SetNonce raises the nonce to n when n is larger than the current value
// and otherwise leaves it unchanged; used during startup reconciliation
// (spec §4.H "periodic outgoing scan").
func (a *Account) SetNonce(n uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > a.nonce {
		a.nonce = n
	}
}

// InsertUtxo adds u to the pool, rejecting duplicates on (txid, output_idx).
// Returns false if an entry already existed at that key.
func (a *Account) InsertUtxo(u Utxo) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := utxoKey{txid: u.TxID, idx: u.OutputIndex}
	if _, exists := a.utxos[key]; exists {
		return false
	}
	a.utxos[key] = u
	return true
}

// Refresh removes every UTXO referenced by inputs; a missing entry is not an
// error (spec §4.C).
func (a *Account) Refresh(inputs []InputSpec) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, in := range inputs {
		delete(a.utxos, utxoKey{txid: in.TxID, idx: in.OutputIndex})
	}
}

// Balance sums unlocked UTXO amounts for the given token. Native tokens
// aggregate across every UTXO whose token id is native.
func (a *Account) Balance(token tokenid.TokenID) uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var total uint64
	for _, u := range a.utxos {
		if u.Locked {
			continue
		}
		if !tokenid.Equal(u.TokenID, token) {
			continue
		}
		total += u.Amount
	}
	return total
}

// Utxos returns a snapshot copy of the pool.
func (a *Account) Utxos() []Utxo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Utxo, 0, len(a.utxos))
	for _, u := range a.utxos {
		out = append(out, u)
	}
	return out
}

// ReplacePool swaps in a new set of UTXOs wholesale, used by the selector's
// UpdateUtxoList post-commit helper (spec §4.D).
func (a *Account) ReplacePool(utxos []Utxo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.utxos = make(map[utxoKey]Utxo, len(utxos))
	for _, u := range utxos {
		a.utxos[utxoKey{txid: u.TxID, idx: u.OutputIndex}] = u
	}
}
