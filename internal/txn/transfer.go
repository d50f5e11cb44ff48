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
	"github.com/GeniusVentures/geniuscore/internal/account"
	"google.golang.org/protobuf/encoding/protowire"
)

// Transfer consumes Inputs and produces Outputs; sum(inputs) must equal
// sum(outputs) per token id (spec §3).
type Transfer struct {
	Envelope_ Envelope
	Inputs    []account.InputSpec
	Outputs   []account.OutputSpec
}

const (
	transferFieldInput protowire.Number = iota + 2
	transferFieldOutput
)

// NewTransfer builds a Transfer with an empty signature and data_hash, then
// finalizes the content hash.
func NewTransfer(inputs []account.InputSpec, outputs []account.OutputSpec, env Envelope) *Transfer {
	env.Type = KindTransfer
	t := &Transfer{Envelope_: env, Inputs: inputs, Outputs: outputs}
	Finalize(t)
	return t
}

func (t *Transfer) Kind() Kind          { return KindTransfer }
func (t *Transfer) Envelope() *Envelope { return &t.Envelope_ }

func (t *Transfer) Encode() []byte {
	var b []byte
	b = appendSubmessage(b, envelopeFieldNum, t.Envelope_.Encode())
	for _, in := range t.Inputs {
		b = appendSubmessage(b, transferFieldInput, encodeInputSpec(in))
	}
	for _, out := range t.Outputs {
		b = appendSubmessage(b, transferFieldOutput, encodeOutputSpec(out))
	}
	return b
}

func decodeTransfer(fields []field, env *Envelope) (*Transfer, error) {
	t := &Transfer{Envelope_: *env}
	for _, f := range fields {
		switch f.num {
		case transferFieldInput:
			in, err := decodeInputSpec(f.bytes)
			if err != nil {
				return nil, err
			}
			t.Inputs = append(t.Inputs, in)
		case transferFieldOutput:
			out, err := decodeOutputSpec(f.bytes)
			if err != nil {
				return nil, err
			}
			t.Outputs = append(t.Outputs, out)
		}
	}
	return t, nil
}
