// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

//go:build !linux
// +build !linux

package netaddr

import "fmt"

// NetlinkInterfaces enumerates local interface addresses via netlink.
// Only supported on Linux.
type NetlinkInterfaces struct{}

// Addrs returns an error on non-Linux platforms.
func (NetlinkInterfaces) Addrs() ([]IfaceAddr, error) {
	return nil, fmt.Errorf("interface enumeration is only supported on linux")
}
