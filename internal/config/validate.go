// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"net"

	"grimm.is/haplane/internal/errors"
)

// Validate checks the configuration for internal consistency. VIP literals
// are deliberately not checked here: a malformed VIP is surfaced when its
// descriptor is built, failing only that descriptor's construction.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New(errors.KindValidation, "service_name is required")
	}

	if c.Network != nil {
		for _, cidr := range []string{c.Network.AdminNetwork, c.Network.InternalNetwork, c.Network.PublicNetwork} {
			if cidr == "" {
				continue
			}
			if _, _, err := net.ParseCIDR(cidr); err != nil {
				return errors.Wrapf(err, errors.KindValidation, "bad network %q", cidr)
			}
		}
	}

	if c.HA != nil {
		if c.HA.McastPort < 0 || c.HA.McastPort > 65535 {
			return errors.Errorf(errors.KindValidation, "mcast_port %d out of range", c.HA.McastPort)
		}
		if len(c.HA.Resources) > 0 && c.BindIface() == "" {
			return errors.New(errors.KindValidation, "ha resources declared but no bind interface (set ha.bind_iface or vip.iface)")
		}
	}

	if c.NodeAddress != "" {
		if net.ParseIP(c.NodeAddress) == nil {
			return errors.Errorf(errors.KindValidation, "bad node_address %q", c.NodeAddress)
		}
	}

	return nil
}
