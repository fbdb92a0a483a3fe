// Package watcher reloads a task snapshot when it changes on disk.
//
// A Watcher follows either a single snapshot file or a directory, in which
// case any of the loader's preferred snapshot names counts. fsnotify is used
// where it is reliable; network and FUSE filesystems, or GANTRY_FORCE_POLL,
// switch to stat polling.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/loader"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked when the snapshot changes.
func WithOnChange(fn func()) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors a snapshot file or directory.
type Watcher struct {
	path             string
	dirMode          bool
	targets          map[string]bool // base names that count as a change
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool
	forcePollEnv     bool
	fsType           FilesystemType

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	lastPrint   fingerprint

	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// NewWatcher creates a watcher for path. A directory is watched for any of
// loader.PreferredNames.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
	}
	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		w.dirMode = true
		w.targets = make(map[string]bool, len(loader.PreferredNames))
		for _, name := range loader.PreferredNames {
			w.targets[name] = true
		}
	} else {
		w.targets = map[string]bool{filepath.Base(absPath): true}
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)

	return w, nil
}

// Start begins watching. The watcher stops when ctx is done or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	ctx, w.cancel = context.WithCancel(ctx)

	// Reset per-start state.
	w.useFallback = false
	w.forcePollEnv = envBool("GANTRY_FORCE_POLLING") || envBool("GANTRY_FORCE_POLL")

	w.fsType = DetectFilesystemType(w.path)
	if isRemoteFilesystem(w.fsType) {
		w.useFallback = true
	}

	forcePoll := w.forcePoll || w.forcePollEnv
	if forcePoll {
		w.useFallback = true
	}

	fp, err := w.stat()
	if err != nil && os.IsPermission(err) {
		w.cancel()
		return ErrPermission
	}
	w.lastPrint = fp

	if !w.useFallback {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			// Watch the directory: more reliable for atomic writes.
			if err := fsw.Add(w.watchDir()); err != nil {
				fsw.Close()
				w.useFallback = true
			} else {
				w.fsWatcher = fsw
				go w.watchFsnotify(ctx, fsw)
			}
		} else {
			w.useFallback = true
		}
	}

	if w.useFallback {
		go w.watchPolling(ctx)
	}
	debug.Log("watcher: %s (fs=%s, polling=%v)", w.path, w.fsType, w.useFallback)

	w.started = true
	return nil
}

// Stop stops watching. The Changed channel is left open so a goroutine
// blocked on it is not woken by a spurious receive.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when the snapshot changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// IsDir reports whether the watcher follows a directory.
func (w *Watcher) IsDir() bool {
	return w.dirMode
}

// FilesystemType returns the best-effort filesystem classification for the watched path.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval used when polling mode is active.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func (w *Watcher) watchDir() string {
	if w.dirMode {
		return w.path
	}
	return filepath.Dir(w.path)
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.targets[filepath.Base(event.Name)] {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove != 0:
				// In directory mode another snapshot may take over.
				if w.dirMode {
					w.debouncer.Trigger(w.notifyChange)
				} else {
					w.onError(ErrFileRemoved)
				}

			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// fingerprint is the observable state of the watched snapshot(s).
type fingerprint struct {
	mtime time.Time
	size  int64
	count int // existing target files
}

func (w *Watcher) stat() (fingerprint, error) {
	if !w.dirMode {
		info, err := os.Stat(w.path)
		if err != nil {
			return fingerprint{}, err
		}
		return fingerprint{mtime: info.ModTime(), size: info.Size(), count: 1}, nil
	}

	var fp fingerprint
	for name := range w.targets {
		info, err := os.Stat(filepath.Join(w.path, name))
		if err != nil {
			if os.IsPermission(err) {
				return fingerprint{}, err
			}
			continue
		}
		fp.count++
		fp.size += info.Size()
		if info.ModTime().After(fp.mtime) {
			fp.mtime = info.ModTime()
		}
	}
	return fp, nil
}

// watchPolling monitors using periodic stat checks.
func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fp, err := w.stat()
			if err != nil {
				if os.IsNotExist(err) {
					// Only report if the file existed before.
					w.mu.Lock()
					hadFile := w.lastPrint.count > 0
					w.lastPrint = fingerprint{}
					w.mu.Unlock()
					if hadFile {
						w.onError(ErrFileRemoved)
					}
				} else if os.IsPermission(err) {
					w.onError(ErrPermission)
				} else {
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			last := w.lastPrint
			changed := fp.mtime.After(last.mtime) || fp.size != last.size || fp.count != last.count
			if changed {
				w.lastPrint = fp
			}
			w.mu.Unlock()

			if changed {
				w.debouncer.Trigger(w.notifyChange)
			}
		}
	}
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()

	// Best effort: a callback may still slip in right after Stop.
	if !started {
		return
	}

	w.onChange()

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
