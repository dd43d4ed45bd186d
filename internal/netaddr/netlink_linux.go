// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build linux
// +build linux

package netaddr

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// NetlinkInterfaces enumerates local interface addresses via netlink.
type NetlinkInterfaces struct{}

// Addrs lists every address bound to a local link, in link order.
func (NetlinkInterfaces) Addrs() ([]IfaceAddr, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	var out []IfaceAddr
	for _, link := range links {
		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, fmt.Errorf("failed to list addresses on %s: %w", link.Attrs().Name, err)
		}
		for _, addr := range addrs {
			ones, _ := addr.IPNet.Mask.Size()
			out = append(out, IfaceAddr{
				Iface:     link.Attrs().Name,
				IP:        addr.IP,
				PrefixLen: ones,
			})
		}
	}
	return out, nil
}
