// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package topology computes the per-network cluster address topology: for
// every address this node holds on a configured network scope, the set of
// peer backends reachable on that network.
package topology

import (
	"fmt"

	"grimm.is/haplane/internal/config"
	"grimm.is/haplane/internal/errors"
	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/netaddr"
	"grimm.is/haplane/internal/relations"
)

// Network scopes. The split scopes exist only when the node has a network
// configured for them; default always exists.
const (
	ScopeAdmin    = "admin"
	ScopeInternal = "internal"
	ScopePublic   = "public"
	ScopeDefault  = "default"
)

// splitScopes in fixed processing order. Default is always processed last.
var splitScopes = []string{ScopeAdmin, ScopeInternal, ScopePublic}

// Entry describes one local address: the network it fronts and the peers
// reachable behind it, keyed by unit name.
type Entry struct {
	Network  string            `json:"network" yaml:"network"`
	Backends map[string]string `json:"backends" yaml:"backends"`
}

// Topology maps each distinct local address to its entry.
type Topology map[string]*Entry

// Builder computes a Topology from the node's interface configuration and
// the peer cluster relation.
type Builder struct {
	classifier *netaddr.Classifier
	cfg        *config.Config
	logger     *logging.Logger
}

// NewBuilder creates a topology builder.
func NewBuilder(classifier *netaddr.Classifier, cfg *config.Config, logger *logging.Logger) *Builder {
	return &Builder{
		classifier: classifier,
		cfg:        cfg,
		logger:     logger.WithComponent("topology"),
	}
}

// Build runs one topology computation. Scopes with no configured network
// and peers with no address for a scope are skipped silently; a local
// address that cannot be matched to a local network aborts the pass.
func (b *Builder) Build(peers relations.PeerSource) (Topology, error) {
	topo := Topology{}

	for _, scope := range splitScopes {
		cidr := b.cfg.Network.ForScope(scope)
		laddr, ok, err := b.classifier.AddressInNetwork(cidr)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := b.merge(topo, laddr, peers, scope+"-address"); err != nil {
			return nil, err
		}
	}

	laddr, err := b.LocalAddress()
	if err != nil {
		return nil, err
	}
	if err := b.merge(topo, laddr, peers, ""); err != nil {
		return nil, err
	}

	b.logger.Debug("topology built", "entries", len(topo))
	return topo, nil
}

// merge folds one scope's addresses into the topology. When two scopes
// resolve to the same local address the network string takes the last
// write and the backend map is the union of both scopes' contributions.
func (b *Builder) merge(topo Topology, laddr string, peers relations.PeerSource, addressKey string) error {
	prefix, err := b.classifier.NetmaskFor(laddr)
	if err != nil {
		return err
	}

	entry := topo[laddr]
	if entry == nil {
		entry = &Entry{Backends: make(map[string]string)}
		topo[laddr] = entry
	}
	entry.Network = fmt.Sprintf("%s/%d", laddr, prefix)
	entry.Backends[b.cfg.NodeID] = laddr

	if peers != nil {
		for _, ua := range peers.IPMap(addressKey) {
			entry.Backends[ua.Unit] = ua.Address
		}
	}
	return nil
}

// LocalAddress resolves the node's default-scope address: the primary IPv6
// address (excluding configured VIPs) in prefer_ipv6 mode, otherwise the
// configured primary advertised address.
func (b *Builder) LocalAddress() (string, error) {
	if b.cfg.PreferIPv6 {
		addr, ok, err := b.classifier.PrimaryIPv6(b.cfg.VIPs())
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errors.New(errors.KindAddressResolution, "prefer_ipv6 is set but no global IPv6 address is bound")
		}
		return addr, nil
	}

	if b.cfg.NodeAddress == "" {
		return "", errors.New(errors.KindAddressResolution, "node_address is not configured")
	}
	return b.cfg.NodeAddress, nil
}
