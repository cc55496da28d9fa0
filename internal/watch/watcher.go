// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when one file changes.
//
// The watcher registers the file's parent directory with fsnotify, because
// editors usually save by writing a temp file and renaming it over the
// original; a watch on the file inode itself would detach on the first save.
// Events are filtered down to the one name being watched and debounced, so a
// save that produces several write and rename events fires the callback once.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the callback after the last
// filesystem event, long enough for an editor's write-then-rename sequence
// to coalesce into a single callback.
const defaultDebounce = 500 * time.Millisecond

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Path is the file to watch. It must exist when New is called.
		Path string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is called after the debounce window closes. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context) error

		// Stderr is the writer for operational messages. nil defaults
		// to os.Stderr.
		Stderr io.Writer
	}

	// Watcher monitors one file and fires a debounced callback when it
	// changes. Run must be called exactly once; calling it a second time
	// returns an error.
	Watcher struct {
		path     string // absolute path of the watched file
		base     string // file name within its directory
		fsw      *fsnotify.Watcher
		onChange func(ctx context.Context) error
		stderr   io.Writer
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher for the file named in cfg. It resolves the path to
// an absolute one, verifies the file exists, and registers the parent
// directory with the underlying fsnotify watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch: no file to watch")
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", cfg.Path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch: stat %q: %w", cfg.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("watch: %q is a directory, need a file", cfg.Path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("watch: add directory %q: %w", filepath.Dir(abs), err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		fsw:      fsw,
		onChange: cfg.OnChange,
		stderr:   stderr,
		debounce: debounce,
	}, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors. Run must be called
// exactly once; a second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		dirty   bool
		timer   *time.Timer
		running atomic.Bool
	)

	// fire consumes the dirty flag and invokes the OnChange callback. It may
	// be scheduled by time.AfterFunc after the context is cancelled, so check
	// ctx.Err() as a best-effort guard; the callback receives ctx and should
	// check it for cancellation-sensitive work. The atomic "skip-if-busy"
	// guard prevents concurrent callbacks when the callback takes longer than
	// the debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping re-sync (previous run still in progress)\n")
			// Schedule a retry so the pending change is not permanently lost:
			// without it, a quiet file would never fire again.
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if !dirty {
			mu.Unlock()
			return
		}
		dirty = false
		mu.Unlock()

		if w.onChange != nil {
			if err := w.onChange(ctx); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	// Stop any pending debounce timer on exit. AfterFunc timers have no
	// channel to drain; a fire that already started is cut short by the
	// ctx.Err guard.
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			if filepath.Base(evt.Name) != w.base {
				continue
			}

			// A rename-based save arrives as Remove or Rename followed by
			// Create; treating them all as triggers lets the debounce window
			// collapse the sequence. A deleted file simply surfaces the
			// callback's own error.
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
				!evt.Has(fsnotify.Rename) && !evt.Has(fsnotify.Remove) {
				continue
			}

			mu.Lock()
			dirty = true
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Resource exhaustion means the watcher is fundamentally broken.
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}
