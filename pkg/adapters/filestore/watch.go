package filestore

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/graft/pkg/core"
)

// debounceWindow coalesces bursts of filesystem events (editors often write
// several times per save) into a single reconcile.
const debounceWindow = 50 * time.Millisecond

// Watch observes external modifications of the backing file and streams one
// event per changed key until ctx is done. The store reconciles by diffing
// the file contents against its in-memory state, so the store's own writes
// produce no events.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: atomic renames replace the file inode, and a
	// watch on the file itself would go stale after the first replacement.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	events := make(chan core.Event)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer watcher.Close()
		defer s.setWatcherActive(false)
		s.run(ctx, watcher, events)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("filestore watcher panic", "error", err)
	}))

	return events, nil
}

func (s *Store) run(ctx context.Context, watcher *fsnotify.Watcher, events chan<- core.Event) {
	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if s.shouldIgnore(event) {
				continue
			}
			s.logger.Debug("filestore event received", "name", event.Name, "op", event.Op)
			if pending == nil {
				pending = time.NewTimer(debounceWindow)
				fire = pending.C
			} else {
				pending.Reset(debounceWindow)
			}

		case <-fire:
			pending = nil
			fire = nil
			for _, e := range s.reconcile() {
				select {
				case events <- e:
				case <-ctx.Done():
					return
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("fsnotify error", "error", err)
		}
	}
}

// shouldIgnore filters events for unrelated files and our own temp files.
func (s *Store) shouldIgnore(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return true
	}
	return base != filepath.Base(s.path)
}

// reconcile reloads the file and diffs it against the in-memory state,
// adopting the file as the source of truth and emitting one event per
// changed or removed key.
func (s *Store) reconcile() []core.Event {
	fresh, err := loadFile(s.path)
	if err != nil {
		s.logger.Error("filestore reconcile failed", "error", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	var out []core.Event
	for key, v := range fresh {
		if cur, ok := s.data[key]; !ok || !equalValue(cur, v) {
			out = append(out, core.Event{Type: core.EventPut, Key: key, Timestamp: now})
		}
	}
	for key := range s.data {
		if _, ok := fresh[key]; !ok {
			out = append(out, core.Event{Type: core.EventDelete, Key: key, Timestamp: now})
		}
	}
	s.data = fresh
	return out
}

func equalValue(a, b any) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	return a == b
}
