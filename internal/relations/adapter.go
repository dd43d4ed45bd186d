// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package relations

import "sort"

// Adapter exposes one relation's fields behind a normalized lookup table.
// Adapters live for a single reconciliation pass and are rebuilt whenever
// relation data may have changed.
type Adapter interface {
	// Name is the normalized relation type name.
	Name() string

	// Kind is the generic interface type the adapter serves
	// (cluster, messaging, database, generic, options).
	Kind() string

	// Field looks a field up by normalized name. Reads go through to the
	// underlying relation on every call.
	Field(name string) (string, bool)

	// Fields lists the normalized field names the adapter exposes.
	Fields() []string
}

// relationAdapter is the base for all relation-backed adapters. The lookup
// table is populated once at construction from the relation's discovered
// accessors plus any adapter-specific additions; no accessor code is
// generated at runtime.
type relationAdapter struct {
	relation Relation
	kind     string
	fields   map[string]string // normalized name -> raw accessor name
	order    []string
}

func newRelationAdapter(rel Relation, kind string, extra []string) *relationAdapter {
	a := &relationAdapter{
		relation: rel,
		kind:     kind,
		fields:   make(map[string]string),
	}
	for _, f := range rel.Fields() {
		a.addField(f)
	}
	for _, f := range extra {
		a.addField(f)
	}
	sort.Strings(a.order)
	return a
}

func (a *relationAdapter) addField(raw string) {
	name := normalize(raw)
	if _, exists := a.fields[name]; !exists {
		a.order = append(a.order, name)
	}
	a.fields[name] = raw
}

func (a *relationAdapter) Name() string {
	return normalize(a.relation.Name())
}

func (a *relationAdapter) Kind() string {
	return a.kind
}

func (a *relationAdapter) Field(name string) (string, bool) {
	raw, ok := a.fields[normalize(name)]
	if !ok {
		return "", false
	}
	return a.relation.Get(raw)
}

func (a *relationAdapter) Fields() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// GenericAdapter wraps relation types with no dedicated adapter, exposing
// only the auto-discovered fields.
type GenericAdapter struct {
	*relationAdapter
}

// NewGenericAdapter creates the fallback adapter for rel.
func NewGenericAdapter(rel Relation) Adapter {
	return &GenericAdapter{newRelationAdapter(rel, "generic", nil)}
}

// ClusterAdapter wraps the peer cluster relation and exposes its address
// map to the topology builder.
type ClusterAdapter struct {
	*relationAdapter
	peers PeerSource
}

// NewClusterAdapter creates the cluster adapter. The relation must also act
// as a PeerSource; otherwise the adapter degrades to an empty peer set.
func NewClusterAdapter(rel Relation) Adapter {
	a := &ClusterAdapter{relationAdapter: newRelationAdapter(rel, "cluster", nil)}
	if src, ok := rel.(PeerSource); ok {
		a.peers = src
	}
	return a
}

// IPMap lists peer addresses advertised under addressKey.
func (a *ClusterAdapter) IPMap(addressKey string) []UnitAddress {
	if a.peers == nil {
		return nil
	}
	return a.peers.IPMap(addressKey)
}

// MessagingAdapter wraps an amqp-style relation.
type MessagingAdapter struct {
	*relationAdapter
}

// NewMessagingAdapter creates the messaging adapter.
func NewMessagingAdapter(rel Relation) Adapter {
	return &MessagingAdapter{newRelationAdapter(rel, "messaging", []string{"vhost", "username"})}
}

// Host returns the address clients should use: the broker's VIP when it
// fronts one, otherwise its private address.
func (a *MessagingAdapter) Host() (string, bool) {
	if vip, ok := a.Field("vip"); ok && vip != "" {
		return vip, true
	}
	return a.Field("private_address")
}

// DatabaseAdapter wraps a database relation. TLS material is modeled as
// explicit optional fields; callers check presence with the second return.
type DatabaseAdapter struct {
	*relationAdapter
}

// NewDatabaseAdapter creates the database adapter.
func NewDatabaseAdapter(rel Relation) Adapter {
	return &DatabaseAdapter{newRelationAdapter(rel, "database", []string{"password", "username", "database"})}
}

// Host returns the database host address.
func (a *DatabaseAdapter) Host() (string, bool) {
	return a.Field("db_host")
}

// SSLCA returns the CA bundle when the relation offers TLS.
func (a *DatabaseAdapter) SSLCA() (string, bool) {
	return a.Field("ssl_ca")
}

// SSLCert returns the client certificate when the relation offers one.
func (a *DatabaseAdapter) SSLCert() (string, bool) {
	return a.Field("ssl_cert")
}

// SSLKey returns the client key when the relation offers one.
func (a *DatabaseAdapter) SSLKey() (string, bool) {
	return a.Field("ssl_key")
}
