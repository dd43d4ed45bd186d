// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package relations

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"grimm.is/haplane/internal/errors"
	"grimm.is/haplane/internal/logging"
)

// Watcher triggers a callback when relation documents change. Bursts of
// writes (a transport delivering several documents at once) are coalesced
// into a single trigger.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func()
	logger   *logging.Logger
	fw       *fsnotify.Watcher
}

// NewWatcher creates a watcher over the relation directory. onChange runs
// on the watcher goroutine; it should hand off to the reconciler rather
// than block.
func NewWatcher(dir string, debounce time.Duration, logger *logging.Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "creating relation watcher")
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, errors.KindInternal, "watching relation directory %s", dir)
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger.WithComponent("relations"),
		fw:       fw,
	}, nil
}

// Run processes filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("relation data changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("relation watcher error", "error", err)

		case <-fire:
			timer = nil
			fire = nil
			w.onChange()
		}
	}
}
