// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package state provides the durable key-value store backing values that
// must survive restarts, such as secrets generated once on first
// reconciliation.
package state

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"grimm.is/haplane/internal/errors"
)

// Store is a durable string key-value store.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileStore is a Store backed by a single YAML file. Writes go through a
// temp file and rename so a crash never leaves a torn state file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store at path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrap(err, errors.KindInternal, "reading state file")
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "parsing state file")
	}
	return values, nil
}

// Get implements Store.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, "encoding state")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, errors.KindInternal, "creating state directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, errors.KindInternal, "writing state file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, errors.KindInternal, "committing state file")
	}
	return nil
}
