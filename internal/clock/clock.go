// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package clock provides the time source used throughout haplane.
// Tests may swap the source to get deterministic timestamps.
package clock

import (
	"sync"
	"time"
)

var (
	mu  sync.RWMutex
	now = time.Now
)

// Now returns the current time from the active source.
func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return now()
}

// Since returns the elapsed time since t.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}

// SetSource replaces the time source. Pass nil to restore the real clock.
func SetSource(fn func() time.Time) {
	mu.Lock()
	defer mu.Unlock()
	if fn == nil {
		now = time.Now
		return
	}
	now = fn
}
