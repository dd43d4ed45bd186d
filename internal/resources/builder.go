// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package resources

import (
	"strconv"

	"grimm.is/haplane/internal/config"
	"grimm.is/haplane/internal/errors"
	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/netaddr"
)

// Builder assembles the resource set from the declared HA resource kinds.
type Builder struct {
	cfg        *config.Config
	classifier *netaddr.Classifier
	logger     *logging.Logger
	kinds      map[string]func(*Set) error
}

// NewBuilder creates a resource set builder. The kind table is fixed at
// construction; declaring a kind outside it is a configuration bug.
func NewBuilder(cfg *config.Config, classifier *netaddr.Classifier, logger *logging.Logger) *Builder {
	b := &Builder{
		cfg:        cfg,
		classifier: classifier,
		logger:     logger.WithComponent("resources"),
	}
	b.kinds = map[string]func(*Set) error{
		"vips":         b.configureVIPs,
		"haproxy-init": b.configureHAProxy,
	}
	return b
}

// Build assembles a fresh set from the declared kinds, in declaration
// order. Any error leaves no partial set behind.
func (b *Builder) Build(kinds []string) (*Set, error) {
	set := &Set{}
	for _, kind := range kinds {
		fn, ok := b.kinds[kind]
		if !ok {
			return nil, errors.Errorf(errors.KindUnknownResource, "no builder for resource kind %q", kind)
		}
		if err := fn(set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// configureVIPs adds one VirtualIP per configured VIP, in configured order.
// A VIP whose owning interface cannot be determined is not managed: it is
// skipped, not fatal.
func (b *Builder) configureVIPs(set *Set) error {
	for _, vip := range b.cfg.VIPs() {
		iface, err := b.vipIface(vip)
		if err != nil {
			return err
		}
		if iface == "" {
			b.logger.Warn("no interface for VIP, not managing it", "vip", vip)
			continue
		}

		netmask, err := b.vipNetmask(vip)
		if err != nil {
			return err
		}

		if err := NewVirtualIP(b.cfg.ServiceName, vip, iface, netmask).Configure(set); err != nil {
			return err
		}
	}
	return nil
}

// vipIface picks the explicit interface override, else the local interface
// owning an address in the VIP's network. Empty means undeterminable.
func (b *Builder) vipIface(vip string) (string, error) {
	if b.cfg.VIP != nil && b.cfg.VIP.Iface != "" {
		return b.cfg.VIP.Iface, nil
	}
	iface, ok, err := b.classifier.IfaceFor(vip)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return iface, nil
}

// vipNetmask picks the explicit prefix override, else the prefix of the
// local network containing the VIP. Empty when neither is available; the
// cidr_netmask parameter is then simply omitted.
func (b *Builder) vipNetmask(vip string) (string, error) {
	if b.cfg.VIP != nil && b.cfg.VIP.CIDR != "" {
		return b.cfg.VIP.CIDR, nil
	}
	prefix, err := b.classifier.NetmaskFor(vip)
	if err != nil {
		if errors.IsKind(err, errors.KindAddressResolution) {
			return "", nil
		}
		return "", err
	}
	return strconv.Itoa(prefix), nil
}

func (b *Builder) configureHAProxy(set *Set) error {
	return NewInitService(b.cfg.ServiceName, "haproxy").Configure(set)
}
