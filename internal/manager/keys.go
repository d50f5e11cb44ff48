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

import "fmt"

// baseKey is the network-scoped keyspace root, "/bc-<net-id>/" (spec §3).
func baseKey(networkID string) string {
	return "/bc-" + networkID + "/"
}

// ownTxPrefix is the prefix under which an owner's own outgoing
// transactions of any kind live, used by the startup reconciliation scan.
func ownTxPrefix(base, ownerAddr string) string {
	return fmt.Sprintf("%s%s/tx/", base, ownerAddr)
}

func ownTxKey(base, ownerAddr, kind string, nonce uint64) string {
	return fmt.Sprintf("%s%s/tx/%s/%d", base, ownerAddr, kind, nonce)
}

func ownProofKey(base, ownerAddr string, nonce uint64) string {
	return fmt.Sprintf("%s%s/proof/%d", base, ownerAddr, nonce)
}

// notifyTxPrefix is the prefix scanned by a node's own 300ms incoming poll.
func notifyTxPrefix(base, recipientAddr string) string {
	return fmt.Sprintf("%s%s/notify/tx/", base, recipientAddr)
}

func notifyTxKey(base, recipientAddr, dataHash string) string {
	return fmt.Sprintf("%s%s/notify/tx/%s", base, recipientAddr, dataHash)
}

func notifyProofKey(base, recipientAddr, dataHash string) string {
	return fmt.Sprintf("%s%s/notify/proof/%s", base, recipientAddr, dataHash)
}
