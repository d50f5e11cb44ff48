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

package manager

import "errors"

var (
	// ErrProofGenerationFailed is returned by mint when a configured
	// proof adapter fails to produce a proof blob.
	ErrProofGenerationFailed = errors.New("manager: proof generation failed")
	// ErrEscrowNotFound is returned by pay_escrow when the referenced
	// escrow transaction is unknown.
	ErrEscrowNotFound = errors.New("manager: escrow not found")
	// ErrEmptyResult is returned by pay_escrow when the task result has
	// no subtask results to pay out.
	ErrEmptyResult = errors.New("manager: empty task result")
	// ErrStoreError wraps a failed batch commit; the outbox head is not
	// popped and the tick retries.
	ErrStoreError = errors.New("manager: store error")
	// ErrTimeout is returned by wait_for_* callers that prefer an error
	// over a boolean; the package's own wait methods return false instead.
	ErrTimeout = errors.New("manager: timeout")
	// ErrEscrowFundingFragmented is returned by hold_escrow when funding it
	// required combining more than one UTXO. PayEscrow's release path
	// recovers the escrowed amount from output index 0 of the escrow
	// transaction; account.Select lays out one passthrough output per
	// consumed UTXO, so a multi-UTXO selection would split the escrowed
	// amount across several output indices instead of concentrating it at
	// index 0, and the recovered payout would be wrong.
	ErrEscrowFundingFragmented = errors.New("manager: escrow funding requires more than one utxo")
)
