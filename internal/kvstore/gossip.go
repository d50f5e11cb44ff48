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

package kvstore

import "sync"

// Bus is an in-memory stand-in for the replicated transport that backs
// spec §4.G's "topic" concept (glossary: "Notification store — a per-peer
// replicated key-value store under the topic `<peer-address>in`"). Every
// MemStore that Joins a topic receives a copy of every record committed by
// any other MemStore on that same topic. It exists purely for tests and
// single-process demos; a deployed node would replace it with a real
// gossip layer, which spec §1 places out of scope.
type Bus struct {
	mu     sync.Mutex
	topics map[string][]*MemStore
}

// NewBus creates an empty gossip bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[string][]*MemStore)}
}

// Join registers s to receive every future record committed to topic by
// any other store joined to the same topic.
func (b *Bus) Join(topic string, s *MemStore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics[topic] = append(b.topics[topic], s)
}

func (b *Bus) publish(topic string, from *MemStore, records map[string][]byte) {
	b.mu.Lock()
	subscribers := append([]*MemStore(nil), b.topics[topic]...)
	b.mu.Unlock()
	for _, sub := range subscribers {
		if sub == from {
			continue
		}
		sub.receive(records)
	}
}
