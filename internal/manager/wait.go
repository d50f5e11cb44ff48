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

import (
	"context"
	"time"
)

// pollUntil polls check every m.waitPollInterval until it returns true, ctx
// is done, or timeout elapses, mirroring the teacher's WatchManager
// expiry-by-deadline pattern but as a blocking poll rather than a
// callback registration, since a caller here wants a single answer.
func (m *Manager) pollUntil(ctx context.Context, timeout time.Duration, check func() bool) bool {
	if check() {
		return true
	}
	deadline := time.After(timeout)
	ticker := time.NewTicker(m.waitPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline:
			return false
		case <-ticker.C:
			if check() {
				return true
			}
		}
	}
}

// WaitForIncoming blocks until dataHash appears in the incoming notify
// index or timeout elapses (spec §4.H "wait_for_incoming").
func (m *Manager) WaitForIncoming(ctx context.Context, dataHash string, timeout time.Duration) bool {
	return m.pollUntil(ctx, timeout, func() bool {
		m.processedMu.RLock()
		_, ok := m.processedIncoming[dataHash]
		m.processedMu.RUnlock()
		return ok
	})
}

// WaitForOutgoing blocks until dataHash has been committed to this node's
// own outgoing store (spec §4.H "wait_for_outgoing").
func (m *Manager) WaitForOutgoing(ctx context.Context, dataHash string, timeout time.Duration) bool {
	return m.pollUntil(ctx, timeout, func() bool {
		m.processedMu.RLock()
		_, ok := m.processedOutgoing[dataHash]
		m.processedMu.RUnlock()
		return ok
	})
}

// WaitForEscrowRelease blocks until an EscrowRelease referencing
// originalHash has been observed, either as this node's own outgoing
// release or as an incoming notification (spec §4.H
// "wait_for_escrow_release").
func (m *Manager) WaitForEscrowRelease(ctx context.Context, originalHash string, timeout time.Duration) bool {
	return m.pollUntil(ctx, timeout, func() bool {
		m.processedMu.RLock()
		_, ok := m.releasesByOriginalHash[originalHash]
		m.processedMu.RUnlock()
		return ok
	})
}
