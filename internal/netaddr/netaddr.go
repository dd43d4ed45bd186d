// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package netaddr classifies addresses against the node's local interfaces.
// It answers three questions for the topology and resource builders: which
// local address sits inside a configured network, which interface and prefix
// own a given address, and which IP family an address literal belongs to.
package netaddr

import (
	"net"

	"grimm.is/haplane/internal/errors"
)

// Family identifies an IP address family.
type Family int

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

func (f Family) String() string {
	if f == FamilyIPv6 {
		return "ipv6"
	}
	return "ipv4"
}

// FamilyOf classifies an address literal by IP family.
func FamilyOf(addr string) (Family, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return 0, errors.Errorf(errors.KindInvalidAddress, "malformed IP address %q", addr)
	}
	if ip.To4() != nil {
		return FamilyIPv4, nil
	}
	return FamilyIPv6, nil
}

// IfaceAddr is one address bound to a local interface.
type IfaceAddr struct {
	Iface     string
	IP        net.IP
	PrefixLen int
}

// Network returns the IPNet the address belongs to.
func (a IfaceAddr) Network() *net.IPNet {
	bits := 32
	if a.IP.To4() == nil {
		bits = 128
	}
	mask := net.CIDRMask(a.PrefixLen, bits)
	return &net.IPNet{IP: a.IP.Mask(mask), Mask: mask}
}

// Interfaces enumerates the node's local interface addresses.
type Interfaces interface {
	Addrs() ([]IfaceAddr, error)
}

// Classifier resolves addresses against a local interface source.
type Classifier struct {
	ifaces Interfaces
}

// NewClassifier creates a Classifier over the given interface source.
func NewClassifier(src Interfaces) *Classifier {
	return &Classifier{ifaces: src}
}

// AddressInNetwork returns the local address that lies within the given
// network. An empty specifier means the network is not configured; the
// second return is false and no error is raised.
func (c *Classifier) AddressInNetwork(cidr string) (string, bool, error) {
	if cidr == "" {
		return "", false, nil
	}

	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", false, errors.Wrapf(err, errors.KindValidation, "bad network specifier %q", cidr)
	}

	addrs, err := c.ifaces.Addrs()
	if err != nil {
		return "", false, errors.Wrap(err, errors.KindInternal, "listing local addresses")
	}

	for _, a := range addrs {
		if ipnet.Contains(a.IP) {
			return a.IP.String(), true, nil
		}
	}
	return "", false, nil
}

// NetmaskFor returns the prefix length of the local network containing addr.
func (c *Classifier) NetmaskFor(addr string) (int, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return 0, errors.Errorf(errors.KindInvalidAddress, "malformed IP address %q", addr)
	}

	addrs, err := c.ifaces.Addrs()
	if err != nil {
		return 0, errors.Wrap(err, errors.KindInternal, "listing local addresses")
	}

	for _, a := range addrs {
		if a.Network().Contains(ip) {
			return a.PrefixLen, nil
		}
	}
	return 0, errors.Errorf(errors.KindAddressResolution, "no local network contains %s", addr)
}

// IfaceFor returns the name of the interface whose network contains addr,
// or false if no local interface owns it. Absence is not an error.
func (c *Classifier) IfaceFor(addr string) (string, bool, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return "", false, errors.Errorf(errors.KindInvalidAddress, "malformed IP address %q", addr)
	}

	addrs, err := c.ifaces.Addrs()
	if err != nil {
		return "", false, errors.Wrap(err, errors.KindInternal, "listing local addresses")
	}

	for _, a := range addrs {
		if a.Network().Contains(ip) {
			return a.Iface, true, nil
		}
	}
	return "", false, nil
}

// PrimaryIPv6 returns the first global IPv6 address bound locally, skipping
// any address in exclude. Used for the default scope in prefer_ipv6 mode.
func (c *Classifier) PrimaryIPv6(exclude []string) (string, bool, error) {
	addrs, err := c.ifaces.Addrs()
	if err != nil {
		return "", false, errors.Wrap(err, errors.KindInternal, "listing local addresses")
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[e] = struct{}{}
	}

	for _, a := range addrs {
		if a.IP.To4() != nil {
			continue
		}
		if !a.IP.IsGlobalUnicast() {
			continue
		}
		s := a.IP.String()
		if _, skip := excluded[s]; skip {
			continue
		}
		return s, true, nil
	}
	return "", false, nil
}
