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
	"net"

	"github.com/huin/goupnp/dcps/internetgateway2"
)

// localIP returns the address this host would use to reach the wider
// network, which is what an IGD expects as the mapping's internal client.
func localIP() (string, error) {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "", fmt.Errorf("netmap: determine local address: %w", err)
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

// UPnPPortMapper maps ports through an Internet Gateway Device discovered
// on the local network via SSDP.
type UPnPPortMapper struct {
	client      *internetgateway2.WANIPConnection1
	description string
}

// DiscoverUPnPPortMapper runs IGD discovery and returns a mapper bound to
// the first WANIPConnection1 service found.
func DiscoverUPnPPortMapper(description string) (*UPnPPortMapper, error) {
	clients, _, err := internetgateway2.NewWANIPConnection1Clients()
	if err != nil {
		return nil, fmt.Errorf("netmap: upnp discovery: %w", err)
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("netmap: no WANIPConnection1 service found")
	}
	return &UPnPPortMapper{client: clients[0], description: description}, nil
}

func (m *UPnPPortMapper) Map(internalPort int) (int, error) {
	client, err := localIP()
	if err != nil {
		return 0, err
	}
	err = m.client.AddPortMapping(
		"",
		uint16(internalPort),
		"TCP",
		uint16(internalPort),
		client,
		true,
		m.description,
		3600,
	)
	if err != nil {
		return 0, fmt.Errorf("netmap: add port mapping: %w", err)
	}
	return internalPort, nil
}

func (m *UPnPPortMapper) Unmap(internalPort int) error {
	if err := m.client.DeletePortMapping("", uint16(internalPort), "TCP"); err != nil {
		return fmt.Errorf("netmap: delete port mapping: %w", err)
	}
	return nil
}
