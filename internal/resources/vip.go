// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package resources

import (
	"fmt"

	"grimm.is/haplane/internal/netaddr"
)

// Resource agents for virtual IPs, selected by address family. The wrong
// agent produces a resource the cluster manager cannot start, so family
// dispatch must be exact.
const (
	agentIPv4 = "ocf:heartbeat:IPaddr2"
	agentIPv6 = "ocf:heartbeat:IPv6addr"
)

// VirtualIP keeps one virtual IP alive on whichever node the cluster
// manager elects.
type VirtualIP struct {
	ServiceName string
	VIP         string

	// NIC is the interface carrying the VIP. Optional.
	NIC string

	// CIDR is the VIP's prefix length. Optional.
	CIDR string
}

// NewVirtualIP constructs a VirtualIP descriptor.
func NewVirtualIP(serviceName, vip, nic, cidr string) VirtualIP {
	return VirtualIP{ServiceName: serviceName, VIP: vip, NIC: nic, CIDR: cidr}
}

// Configure implements Descriptor. Parameter order is fixed: the address
// first under its family key, then nic, then cidr_netmask.
func (v VirtualIP) Configure(s *Set) error {
	family, err := netaddr.FamilyOf(v.VIP)
	if err != nil {
		return err
	}

	p := Primitive{
		Key: fmt.Sprintf("res_%s_%s_vip", keyName(v.ServiceName), keyName(v.NIC)),
	}
	if family == netaddr.FamilyIPv6 {
		p.Agent = agentIPv6
		p.Params = append(p.Params, Param{Key: "ipv6addr", Value: v.VIP})
	} else {
		p.Agent = agentIPv4
		p.Params = append(p.Params, Param{Key: "ip", Value: v.VIP})
	}
	if v.NIC != "" {
		p.Params = append(p.Params, Param{Key: "nic", Value: v.NIC})
	}
	if v.CIDR != "" {
		p.Params = append(p.Params, Param{Key: "cidr_netmask", Value: v.CIDR})
	}

	s.AddPrimitive(p)
	return nil
}
