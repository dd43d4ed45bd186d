// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))

	_, ok, err := store.Get("secret")
	require.NoError(t, err)
	assert.False(t, ok, "missing key before first Set")

	require.NoError(t, store.Set("secret", "v1"))

	v, ok, err := store.Get("secret")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	require.NoError(t, NewFileStore(path).Set("k", "v"))

	v, ok, err := NewFileStore(path).Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.yaml"))

	require.NoError(t, store.Set("k", "v1"))
	require.NoError(t, store.Set("k", "v2"))

	v, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}
