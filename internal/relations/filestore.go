// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package relations

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"grimm.is/haplane/internal/errors"
)

// DefaultAddressKey is the field peers advertise their unscoped default
// address under.
const DefaultAddressKey = "private-address"

// Document is the on-disk YAML form of one relation: relation-level fields
// plus per-unit advertised fields.
type Document struct {
	Name   string                       `yaml:"name,omitempty"`
	Fields map[string]string            `yaml:"fields,omitempty"`
	Units  map[string]map[string]string `yaml:"units,omitempty"`
}

// FileRelation is a Relation backed by one relation document.
type FileRelation struct {
	doc Document
}

// NewFileRelation wraps a parsed document.
func NewFileRelation(doc Document) *FileRelation {
	return &FileRelation{doc: doc}
}

// Name implements Relation.
func (r *FileRelation) Name() string { return r.doc.Name }

// Fields implements Relation. Discovery order is stable (sorted) so the
// adapter lookup tables are deterministic across passes.
func (r *FileRelation) Fields() []string {
	out := make([]string, 0, len(r.doc.Fields))
	for f := range r.doc.Fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Get implements Relation.
func (r *FileRelation) Get(field string) (string, bool) {
	v, ok := r.doc.Fields[field]
	return v, ok
}

// IPMap implements PeerSource. Units are visited in sorted order so a pass
// processes peers deterministically; a unit with no address under the key
// is simply absent from the result.
func (r *FileRelation) IPMap(addressKey string) []UnitAddress {
	if addressKey == "" {
		addressKey = DefaultAddressKey
	}

	units := make([]string, 0, len(r.doc.Units))
	for u := range r.doc.Units {
		units = append(units, u)
	}
	sort.Strings(units)

	var out []UnitAddress
	for _, u := range units {
		if addr := r.doc.Units[u][addressKey]; addr != "" {
			out = append(out, UnitAddress{Unit: u, Address: addr})
		}
	}
	return out
}

// FileStore reads relation documents from a directory, one YAML file per
// relation. This is the edge where the peer-discovery transport delivers
// its data.
type FileStore struct {
	dir string
}

// NewFileStore creates a store over dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Relations loads every relation document, in file-name order. A missing
// directory yields an empty set: no relations have been delivered yet.
func (s *FileStore) Relations() ([]Relation, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.KindInternal, "reading relation directory %s", s.dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	rels := make([]Relation, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, errors.KindInternal, "reading relation document %s", name)
		}

		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, errors.KindValidation, "parsing relation document %s", name)
		}
		if doc.Name == "" {
			doc.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		rels = append(rels, NewFileRelation(doc))
	}
	return rels, nil
}
