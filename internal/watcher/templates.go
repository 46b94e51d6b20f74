// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package watcher reloads on-disk templates while developing.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lawia/lawia-web/internal/logging"
)

const reloadKey = "templates"

// DirWatcher watches a directory tree and calls OnChange after edits settle.
type DirWatcher struct {
	root      string
	onChange  func(path string)
	log       logging.Logger
	watcher   *fsnotify.Watcher
	debouncer *Debouncer

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatchDir starts watching root and its subdirectories. onChange receives
// the last path touched in each burst of edits.
func WatchDir(root string, debounce time.Duration, onChange func(path string), log logging.Logger) (*DirWatcher, error) {
	if log == nil {
		log = logging.Nop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &DirWatcher{
		root:      abs,
		onChange:  onChange,
		log:       log.With("component", "watcher", "dir", abs),
		watcher:   fsw,
		debouncer: NewDebouncer(debounce),
		closeCh:   make(chan struct{}),
	}
	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Root returns the absolute watched directory.
func (w *DirWatcher) Root() string {
	return w.root
}

// Close stops watching.
func (w *DirWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.debouncer.Stop()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *DirWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *DirWatcher) processEvents() {
	defer w.wg.Done()
	ctx := context.Background()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn(ctx, "watch error", "error", err)
		}
	}
}

func (w *DirWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Chmod fires on touch and on some editors' saves without content change.
	if event.Op == fsnotify.Chmod || ignored(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.log.Warn(ctx, "cannot watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	path := event.Name
	w.debouncer.Debounce(reloadKey, func() {
		w.log.Debug(ctx, "templates changed", "path", path)
		w.onChange(path)
	})
}

// ignored filters editor swap and backup files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}
