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

package account

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// AddressSize is the width, in bytes, of an Address.
const AddressSize = 20

// Address is a 160-bit Ethereum-style address, widened to a big.Int for
// ordering and arithmetic convenience per the account spec.
type Address struct {
	raw [AddressSize]byte
}

// ErrInvalidAddress is returned when parsing a malformed address string.
var ErrInvalidAddress = fmt.Errorf("account: invalid address")

// AddressFromPublicKey derives the Ethereum-style address of pub: the last
// 20 bytes of Keccak-256 over the uncompressed public key's X||Y bytes.
func AddressFromPublicKey(pub *secp256k1.PublicKey) Address {
	uncompressed := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:]) // drop the 0x04 prefix byte
	sum := h.Sum(nil)
	var addr Address
	copy(addr.raw[:], sum[len(sum)-AddressSize:])
	return addr
}

// ParseAddress parses a "0x"-prefixed (optional) hex string into an Address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) == 0 || len(b) > AddressSize {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	var addr Address
	copy(addr.raw[AddressSize-len(b):], b)
	return addr, nil
}

// Bytes returns the raw 20-byte address.
func (a Address) Bytes() [AddressSize]byte {
	return a.raw
}

// Hex renders the address as a lowercase "0x"-prefixed hex string.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a.raw[:])
}

// String satisfies fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// Big returns the address widened to an unsigned big integer, for ordering.
func (a Address) Big() *big.Int {
	return new(big.Int).SetBytes(a.raw[:])
}

// IsZero reports whether the address is the all-zero sentinel.
func (a Address) IsZero() bool {
	return a.raw == [AddressSize]byte{}
}
