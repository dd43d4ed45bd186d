// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package relations

import (
	"sort"
	"strconv"

	"grimm.is/haplane/internal/config"
)

// OptionsAdapter exposes the service configuration through the same Field
// interface as relation adapters, so templates and callers can treat
// configuration as one more named member of the registry.
type OptionsAdapter struct {
	values map[string]string
	order  []string
}

// NewOptionsAdapter flattens cfg into an options adapter.
func NewOptionsAdapter(cfg *config.Config) *OptionsAdapter {
	a := &OptionsAdapter{values: make(map[string]string)}

	set := func(name, value string) {
		key := normalize(name)
		if _, exists := a.values[key]; !exists {
			a.order = append(a.order, key)
		}
		a.values[key] = value
	}

	set("service_name", cfg.ServiceName)
	set("node_id", cfg.NodeID)
	set("node_address", cfg.NodeAddress)
	set("prefer_ipv6", strconv.FormatBool(cfg.PreferIPv6))
	if cfg.VIP != nil {
		set("vip", cfg.VIP.Addresses)
		set("vip_cidr", cfg.VIP.CIDR)
		set("vip_iface", cfg.VIP.Iface)
	}
	if cfg.Network != nil {
		set("os-admin-network", cfg.Network.AdminNetwork)
		set("os-internal-network", cfg.Network.InternalNetwork)
		set("os-public-network", cfg.Network.PublicNetwork)
	}

	sort.Strings(a.order)
	return a
}

// Name implements Adapter.
func (a *OptionsAdapter) Name() string { return "options" }

// Kind implements Adapter.
func (a *OptionsAdapter) Kind() string { return "options" }

// Field implements Adapter.
func (a *OptionsAdapter) Field(name string) (string, bool) {
	v, ok := a.values[normalize(name)]
	return v, ok
}

// Fields implements Adapter.
func (a *OptionsAdapter) Fields() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}
