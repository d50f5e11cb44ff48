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

package netmap

import (
	"fmt"

	natpmp "github.com/jackpal/go-nat-pmp"
	"github.com/jackpal/gateway"
)

// NATPMPPortMapper maps ports via NAT-PMP against the LAN's default
// gateway, for routers that don't speak UPnP.
type NATPMPPortMapper struct {
	client *natpmp.Client
}

// DiscoverNATPMPPortMapper locates the default gateway and binds a NAT-PMP
// client to it.
func DiscoverNATPMPPortMapper() (*NATPMPPortMapper, error) {
	gatewayIP, err := gateway.DiscoverGateway()
	if err != nil {
		return nil, fmt.Errorf("netmap: discover gateway: %w", err)
	}
	return &NATPMPPortMapper{client: natpmp.NewClient(gatewayIP)}, nil
}

const natPMPLeaseSeconds = 3600

func (m *NATPMPPortMapper) Map(internalPort int) (int, error) {
	result, err := m.client.AddPortMapping("tcp", internalPort, internalPort, natPMPLeaseSeconds)
	if err != nil {
		return 0, fmt.Errorf("netmap: nat-pmp add mapping: %w", err)
	}
	return int(result.MappedExternalPort), nil
}

func (m *NATPMPPortMapper) Unmap(internalPort int) error {
	// A requested external port of 0 with a zero lifetime tells the
	// gateway to delete the mapping (RFC 6886 §3.3).
	_, err := m.client.AddPortMapping("tcp", internalPort, 0, 0)
	if err != nil {
		return fmt.Errorf("netmap: nat-pmp delete mapping: %w", err)
	}
	return nil
}
