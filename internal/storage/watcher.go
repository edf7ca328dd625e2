// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce collapses the burst of events one atomic rename
// produces (create temp, write, rename) into a single reload.
const DefaultWatchDebounce = 200 * time.Millisecond

// =============================================================================
// STORE WATCHER
// =============================================================================

// Watcher observes the chat store file and invokes a callback after external
// changes settle. UI surfaces use it to re-read the store instead of caching
// a collection another writer may have replaced.
type Watcher struct {
	store    *ChatStore
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	mu      sync.Mutex
	pending *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the store's file. onChange fires on the
// watcher's goroutine after events quiesce for the debounce window.
func NewWatcher(store *ChatStore, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		store:    store,
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}

	// Watch the directory, not the file: atomic rename replaces the inode,
	// and a direct file watch would go stale after the first write.
	if err := fw.Add(filepath.Dir(store.Path)); err != nil {
		fw.Close()
		cancel()
		return nil, err
	}

	go w.loop()
	return w, nil
}

// Close stops watching and cancels any pending reload.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.store.Path)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.scheduleReload()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal: the store still works, the UI
			// just loses live reload until restart.
		}
	}
}

// scheduleReload arms (or re-arms) the single-slot debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.ctx.Done():
			return
		default:
		}
		if w.onChange != nil {
			w.onChange()
		}
	})
}
