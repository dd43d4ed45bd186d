// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package sink delivers the finished resource set to the cluster resource
// manager. The reconciler only depends on the Sink interface; the crmsh
// implementation is the production edge.
package sink

import "grimm.is/haplane/internal/resources"

// Sink receives the network binding directive and the resource set. Bind
// must be called before Apply within the same reconciliation pass.
type Sink interface {
	// Bind tells the clustering layer which interface and multicast port
	// to converge over.
	Bind(iface string, mcastPort int) error

	// Apply submits the full resource set. Descriptors are applied
	// sequentially; later duplicate keys overwrite earlier ones.
	Apply(set *resources.Set) error
}
