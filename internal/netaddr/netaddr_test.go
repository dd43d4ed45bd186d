// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netaddr

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/haplane/internal/errors"
)

// fakeInterfaces is a static interface source for tests.
type fakeInterfaces struct {
	addrs []IfaceAddr
}

func (f fakeInterfaces) Addrs() ([]IfaceAddr, error) {
	return f.addrs, nil
}

func testClassifier() *Classifier {
	return NewClassifier(fakeInterfaces{addrs: []IfaceAddr{
		{Iface: "eth0", IP: net.ParseIP("10.0.0.1"), PrefixLen: 24},
		{Iface: "eth1", IP: net.ParseIP("10.20.0.5"), PrefixLen: 16},
		{Iface: "eth0", IP: net.ParseIP("2001:db8::10"), PrefixLen: 64},
		{Iface: "lo", IP: net.ParseIP("::1"), PrefixLen: 128},
	}})
}

func TestFamilyOf(t *testing.T) {
	fam, err := FamilyOf("10.0.0.50")
	require.NoError(t, err)
	assert.Equal(t, FamilyIPv4, fam)

	fam, err = FamilyOf("2001:db8::50")
	require.NoError(t, err)
	assert.Equal(t, FamilyIPv6, fam)

	_, err = FamilyOf("not-an-address")
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidAddress, errors.GetKind(err))
}

func TestAddressInNetwork(t *testing.T) {
	c := testClassifier()

	addr, ok, err := c.AddressInNetwork("10.0.0.0/24")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", addr)

	// Returned address must lie within the configured network.
	_, ipnet, _ := net.ParseCIDR("10.0.0.0/24")
	assert.True(t, ipnet.Contains(net.ParseIP(addr)))
}

func TestAddressInNetworkUnconfigured(t *testing.T) {
	c := testClassifier()

	// Empty specifier means the scope is not configured, not an error.
	addr, ok, err := c.AddressInNetwork("")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, addr)
}

func TestAddressInNetworkNoMatch(t *testing.T) {
	c := testClassifier()

	_, ok, err := c.AddressInNetwork("192.168.99.0/24")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddressInNetworkBadSpecifier(t *testing.T) {
	c := testClassifier()

	_, _, err := c.AddressInNetwork("10.0.0.0/notaprefix")
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.GetKind(err))
}

func TestNetmaskFor(t *testing.T) {
	c := testClassifier()

	prefix, err := c.NetmaskFor("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 24, prefix)

	// Containment, not exact binding: any address in a local network resolves.
	prefix, err = c.NetmaskFor("10.20.3.3")
	require.NoError(t, err)
	assert.Equal(t, 16, prefix)
}

func TestNetmaskForUnbound(t *testing.T) {
	c := testClassifier()

	_, err := c.NetmaskFor("172.16.0.1")
	require.Error(t, err)
	assert.Equal(t, errors.KindAddressResolution, errors.GetKind(err))
}

func TestNetmaskForMalformed(t *testing.T) {
	c := testClassifier()

	_, err := c.NetmaskFor("bogus")
	require.Error(t, err)
	assert.Equal(t, errors.KindInvalidAddress, errors.GetKind(err))
}

func TestIfaceFor(t *testing.T) {
	c := testClassifier()

	iface, ok, err := c.IfaceFor("10.0.0.50")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "eth0", iface)

	_, ok, err = c.IfaceFor("172.16.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrimaryIPv6(t *testing.T) {
	c := testClassifier()

	addr, ok, err := c.PrimaryIPv6(nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2001:db8::10", addr)
}

func TestPrimaryIPv6Excluded(t *testing.T) {
	c := testClassifier()

	// Excluding the only candidate (a configured VIP) yields absence.
	_, ok, err := c.PrimaryIPv6([]string{"2001:db8::10"})
	require.NoError(t, err)
	assert.False(t, ok)
}
