// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package resources models the declarative HA resource set handed to the
// cluster resource manager: primitives, clones, and the init services the
// manager must know about. Descriptors are immutable; configuring the same
// descriptor twice produces identical output.
package resources

import "strings"

// Param is one ordered resource parameter. Order is preserved because the
// manager's diffing is order-sensitive.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Primitive is one cluster resource primitive.
type Primitive struct {
	Key    string   `json:"key"`
	Agent  string   `json:"agent"`
	Params []Param  `json:"params,omitempty"`
	Ops    []string `json:"ops,omitempty"`
}

// Clone wraps a primitive so the manager runs one instance per node.
type Clone struct {
	Key    string `json:"key"`
	Target string `json:"target"`
}

// Set is the ordered resource set built once per reconciliation pass. It is
// replaced wholesale, never mutated after a pass completes. Duplicate keys
// are kept in order; the sink applies sequentially so later entries
// overwrite earlier ones.
type Set struct {
	Primitives   []Primitive `json:"primitives,omitempty"`
	Clones       []Clone     `json:"clones,omitempty"`
	InitServices []string    `json:"init_services,omitempty"`
}

// AddPrimitive appends a primitive in declaration order.
func (s *Set) AddPrimitive(p Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// AddClone appends a clone in declaration order.
func (s *Set) AddClone(c Clone) {
	s.Clones = append(s.Clones, c)
}

// AddInitService records an init-managed service the manager controls.
func (s *Set) AddInitService(name string) {
	for _, existing := range s.InitServices {
		if existing == name {
			return
		}
	}
	s.InitServices = append(s.InitServices, name)
}

// Empty reports whether the set declares nothing.
func (s *Set) Empty() bool {
	return len(s.Primitives) == 0 && len(s.Clones) == 0 && len(s.InitServices) == 0
}

// Descriptor is one declarative HA resource. Configure appends the
// descriptor's declarative form to the set; it never mutates the
// descriptor and is safe to call repeatedly.
type Descriptor interface {
	Configure(s *Set) error
}

// keyName maps service and interface names into resource key form.
func keyName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
