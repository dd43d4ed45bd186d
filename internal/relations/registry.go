// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package relations

// Constructor builds a typed adapter for one relation.
type Constructor func(Relation) Adapter

// BaseAdapters returns the default relation-type to adapter mapping.
// Services compose this with their own overrides at construction time; the
// composed table is never mutated afterwards.
func BaseAdapters() map[string]Constructor {
	return map[string]Constructor{
		"cluster":   NewClusterAdapter,
		"amqp":      NewMessagingAdapter,
		"shared_db": NewDatabaseAdapter,
	}
}

// Registry aggregates the adapters for all relations visible in one
// reconciliation pass. Iteration order is relation discovery order with the
// options adapter appended last.
type Registry struct {
	names    []string
	adapters map[string]Adapter
}

// NewRegistry builds a fresh registry from the currently visible relations.
// Relation types present in the composed table get their typed adapter;
// everything else falls back to the generic adapter. The options adapter,
// when given, is registered last under "options".
func NewRegistry(rels []Relation, options Adapter, overrides map[string]Constructor) *Registry {
	table := BaseAdapters()
	for name, ctor := range overrides {
		table[normalize(name)] = ctor
	}

	r := &Registry{adapters: make(map[string]Adapter)}
	for _, rel := range rels {
		name := normalize(rel.Name())
		ctor, ok := table[name]
		if !ok {
			ctor = NewGenericAdapter
		}
		r.add(name, ctor(rel))
	}

	if options != nil {
		r.add("options", options)
	}
	return r
}

func (r *Registry) add(name string, a Adapter) {
	if _, exists := r.adapters[name]; !exists {
		r.names = append(r.names, name)
	}
	r.adapters[name] = a
}

// Get returns the adapter registered under the (normalized) name.
func (r *Registry) Get(name string) (Adapter, bool) {
	a, ok := r.adapters[normalize(name)]
	return a, ok
}

// Cluster returns the peer cluster adapter when one is registered.
func (r *Registry) Cluster() (*ClusterAdapter, bool) {
	a, ok := r.adapters["cluster"]
	if !ok {
		return nil, false
	}
	c, ok := a.(*ClusterAdapter)
	return c, ok
}

// Names lists registered adapter names in iteration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Each yields (name, adapter) pairs in insertion order until fn returns
// false. Adapters are yielded lazily; fields read inside fn go through to
// the underlying relation at that moment.
func (r *Registry) Each(fn func(name string, a Adapter) bool) {
	for _, name := range r.names {
		if !fn(name, r.adapters[name]) {
			return
		}
	}
}
