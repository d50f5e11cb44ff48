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

// Package netmap implements the UPnP/NAT-PMP port-mapping collaborator
// referenced by spec §4.H/§4.J: the node façade maps its base port when it
// starts and refreshes that one mapping on a one-hour schedule so the node
// stays reachable from outside a NAT.
package netmap

// PortMapper maps a local TCP port to an externally reachable one.
type PortMapper interface {
	// Map requests an external mapping for internalPort and returns the
	// external port actually granted.
	Map(internalPort int) (externalPort int, err error)
	// Unmap releases a previously granted mapping.
	Unmap(internalPort int) error
}

// NoopPortMapper is used for tests and for nodes configured with
// auto_dht=false: the external port always equals the internal one.
type NoopPortMapper struct{}

func (NoopPortMapper) Map(internalPort int) (int, error) { return internalPort, nil }
func (NoopPortMapper) Unmap(int) error                   { return nil }
