// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config provides HCL configuration handling for haplane.
package config

import (
	"strings"
)

// Default values applied when the corresponding option is omitted.
const (
	DefaultMcastPort    = 4440
	DefaultStateFile    = "/var/lib/haplane/state.yaml"
	DefaultRelationsDir = "/var/lib/haplane/relations"
	DefaultAPIListen    = "127.0.0.1:9441"
	DefaultLogLevel     = "info"
)

// Config is the root haplane configuration.
type Config struct {
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty"`

	// ServiceName names the fronted service; it seeds every resource key.
	ServiceName string `hcl:"service_name" json:"service_name"`

	// NodeID identifies this node in the cluster topology. Defaults to the
	// hostname.
	NodeID string `hcl:"node_id,optional" json:"node_id,omitempty"`

	// NodeAddress is the node's primary advertised address, used for the
	// default scope when prefer_ipv6 is off.
	NodeAddress string `hcl:"node_address,optional" json:"node_address,omitempty"`

	// PreferIPv6 switches the default scope to the node's primary IPv6
	// address.
	PreferIPv6 bool `hcl:"prefer_ipv6,optional" json:"prefer_ipv6,omitempty"`

	LogLevel  string `hcl:"log_level,optional" json:"log_level,omitempty"`
	LogFormat string `hcl:"log_format,optional" json:"log_format,omitempty"`

	// StateFile backs the durable state store (one-time secrets, pass
	// bookkeeping).
	StateFile string `hcl:"state_file,optional" json:"state_file,omitempty"`

	Network   *NetworkConfig   `hcl:"network,block" json:"network,omitempty"`
	VIP       *VIPConfig       `hcl:"vip,block" json:"vip,omitempty"`
	HA        *HAConfig        `hcl:"ha,block" json:"ha,omitempty"`
	Relations *RelationsConfig `hcl:"relations,block" json:"relations,omitempty"`
	API       *APIConfig       `hcl:"api,block" json:"api,omitempty"`
}

// NetworkConfig declares the optional per-scope networks. Each entry is a
// CIDR; an empty entry means the scope is not configured on this node.
type NetworkConfig struct {
	AdminNetwork    string `hcl:"admin_network,optional" json:"admin_network,omitempty"`
	InternalNetwork string `hcl:"internal_network,optional" json:"internal_network,omitempty"`
	PublicNetwork   string `hcl:"public_network,optional" json:"public_network,omitempty"`
}

// ForScope returns the configured network for a named scope, or empty.
func (n *NetworkConfig) ForScope(scope string) string {
	if n == nil {
		return ""
	}
	switch scope {
	case "admin":
		return n.AdminNetwork
	case "internal":
		return n.InternalNetwork
	case "public":
		return n.PublicNetwork
	}
	return ""
}

// VIPConfig declares the virtual IPs to protect plus the fallback interface
// and prefix used when a VIP's owner cannot be derived locally.
type VIPConfig struct {
	// Addresses is a whitespace-separated list of VIP literals.
	Addresses string `hcl:"addresses,optional" json:"addresses,omitempty"`

	// CIDR is the fallback prefix length.
	CIDR string `hcl:"cidr,optional" json:"cidr,omitempty"`

	// Iface is the fallback interface name.
	Iface string `hcl:"iface,optional" json:"iface,omitempty"`
}

// List splits the configured VIPs in declaration order.
func (v *VIPConfig) List() []string {
	if v == nil {
		return nil
	}
	return strings.Fields(v.Addresses)
}

// HAConfig declares which HA resource kinds to generate and how the
// clustering layer binds its transport.
type HAConfig struct {
	// Resources is the ordered list of resource kinds to enable,
	// e.g. ["vips", "haproxy-init"].
	Resources []string `hcl:"resources,optional" json:"resources,omitempty"`

	// BindIface is the interface the cluster transport binds on. Falls
	// back to vip.iface when unset.
	BindIface string `hcl:"bind_iface,optional" json:"bind_iface,omitempty"`

	// McastPort is the cluster multicast port.
	McastPort int `hcl:"mcast_port,optional" json:"mcast_port,omitempty"`
}

// RelationsConfig locates the relation document directory.
type RelationsConfig struct {
	Dir string `hcl:"dir,optional" json:"dir,omitempty"`
}

// APIConfig configures the status API server.
type APIConfig struct {
	Listen string `hcl:"listen,optional" json:"listen,omitempty"`
}

// BindIface returns the effective cluster bind interface.
func (c *Config) BindIface() string {
	if c.HA != nil && c.HA.BindIface != "" {
		return c.HA.BindIface
	}
	if c.VIP != nil {
		return c.VIP.Iface
	}
	return ""
}

// McastPort returns the effective cluster multicast port.
func (c *Config) McastPort() int {
	if c.HA != nil && c.HA.McastPort != 0 {
		return c.HA.McastPort
	}
	return DefaultMcastPort
}

// HAResources returns the declared resource kinds in declaration order.
func (c *Config) HAResources() []string {
	if c.HA == nil {
		return nil
	}
	return c.HA.Resources
}

// VIPs returns the configured VIP literals in declaration order.
func (c *Config) VIPs() []string {
	return c.VIP.List()
}
