// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package relations wraps inbound relation data in typed adapters and
// aggregates them into a per-pass registry. A relation is one inbound data
// channel (peer cluster, messaging, database, ...) whose fields are
// discovered at runtime; adapters give each relation kind a fixed, typed
// field surface plus a generic lookup-by-name fallback.
package relations

// UnitAddress is one peer's advertised address.
type UnitAddress struct {
	Unit    string
	Address string
}

// Relation is one inbound relation's raw accessor set.
type Relation interface {
	// Name is the relation type name, e.g. "cluster" or "amqp".
	Name() string

	// Fields lists the auto-discovered accessor names.
	Fields() []string

	// Get reads a field through to the underlying relation data. Each
	// call re-reads; values are never memoized.
	Get(field string) (string, bool)
}

// PeerSource lists peer-advertised addresses for an address key. An empty
// key selects the unscoped default addresses.
type PeerSource interface {
	IPMap(addressKey string) []UnitAddress
}

// normalize maps relation and field names to identifier form.
func normalize(name string) string {
	out := []byte(name)
	for i := range out {
		if out[i] == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}
