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

// Package txn implements the signed transaction family of spec §4.E:
// Mint, Transfer, Escrow, and EscrowRelease, each carrying a shared DAG
// envelope, with a length-delimited wire codec built on
// google.golang.org/protobuf/encoding/protowire (spec §6 calls for
// "Protocol Buffers semantics"; protowire gives the real wire primitives
// without requiring a protoc-generated schema).
package txn

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	b = protowire.AppendVarint(b, v)
	return b
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, v)
	return b
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	return appendBytesField(b, num, []byte(v))
}

func appendSubmessage(b []byte, num protowire.Number, msg []byte) []byte {
	return appendBytesField(b, num, msg)
}

// field is one decoded (number, wire-type, raw value) triple.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	bytes []byte
	varint uint64
}

// parseFields walks a flat, non-nested field stream and returns every
// field in encounter order; repeated occurrences of the same field number
// appear as separate entries.
func parseFields(b []byte) ([]field, error) {
	var out []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("txn: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("txn: bad varint: %w", protowire.ParseError(n))
			}
			out = append(out, field{num: num, typ: typ, varint: v})
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("txn: bad bytes: %w", protowire.ParseError(n))
			}
			cp := make([]byte, len(v))
			copy(cp, v)
			out = append(out, field{num: num, typ: typ, bytes: cp})
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("txn: unsupported wire type %d: %w", typ, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return out, nil
}

func (f field) str() string { return string(f.bytes) }
