package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentx-labs/frictionless/internal/scanner"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultSettle is how long a file must stay quiet before its change is
// delivered.
const DefaultSettle = 200 * time.Millisecond

// Event is a settled change to one source file.
type Event struct {
	Path    string
	Removed bool
}

// Watcher follows every directory under a root that Walk would descend into.
type Watcher struct {
	root   string
	settle time.Duration
	log    logrus.FieldLogger
	fs     *fsnotify.Watcher
}

// New starts watching root. settle <= 0 means DefaultSettle.
func New(root string, settle time.Duration, log logrus.FieldLogger) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{root: root, settle: settle, log: log, fs: fw}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func skipped(root, dir string) bool {
	if dir == root {
		return false
	}
	name := filepath.Base(dir)
	return scanner.SkipDir(name) || strings.HasPrefix(name, ".")
}

// addTree registers dir and its descendants.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipped(w.root, path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers settled source file changes to fn until ctx is done. fn is
// called from the Run goroutine only.
func (w *Watcher) Run(ctx context.Context, fn func(Event)) error {
	pending := make(map[string]bool) // path -> removed
	timer := time.NewTimer(w.settle)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !skipped(w.root, ev.Name) {
						if err := w.addTree(ev.Name); err != nil {
							w.log.WithError(err).Warn("could not watch new directory")
						}
					}
					continue
				}
			}
			if !scanner.IsSource(ev.Name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				pending[ev.Name] = true
			case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
				pending[ev.Name] = false
			default:
				continue
			}
			timer.Reset(w.settle)

		case <-timer.C:
			for path, removed := range pending {
				// A rename target may already be back on disk.
				if removed {
					if _, err := os.Stat(path); err == nil {
						removed = false
					}
				}
				fn(Event{Path: path, Removed: removed})
			}
			pending = make(map[string]bool)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watch error")
		}
	}
}
