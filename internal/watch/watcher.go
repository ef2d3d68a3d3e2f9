// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when watched files change.
//
// Targets are file paths or doublestar patterns. Only the static directory
// prefix of each target is registered with fsnotify, so watching a single
// config file never walks the project tree. Events inside the debounce window
// are coalesced and the callback fires once with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing OnChange after the last event.
// Editors that write a temp file and rename it produce several events.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are matched against paths relative to a target's base
// directory and always apply.
var (
	defaultIgnores = []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.DS_Store",
	}

	// ErrNoTargets is returned by New when Config.Targets is empty.
	ErrNoTargets = errors.New("watch: no targets")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Targets are file paths or doublestar patterns such as
		// "/project/addonpaths.cue" or "config/**/*.cue". Relative targets are
		// resolved against the working directory.
		Targets []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the sorted,
		// deduplicated absolute paths that changed. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil logs to stderr.
		Logger *log.Logger
	}

	// target is one resolved Config.Targets entry.
	target struct {
		// base is the absolute static prefix that is watched.
		base string
		// pattern is matched against slash paths relative to base.
		pattern string
		// recursive is set when pattern can match below base's direct children.
		recursive bool
	}

	// Watcher monitors targets and fires a debounced callback when one of
	// them changes. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		targets  []target
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool
	}
)

// New resolves the targets and registers their base directories with fsnotify.
// A base directory that does not exist is an error.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Targets) == 0 {
		return nil, ErrNoTargets
	}

	targets := make([]target, 0, len(cfg.Targets))
	for _, raw := range cfg.Targets {
		t, err := resolveTarget(raw)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "watch"})
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		targets:  targets,
		logger:   logger,
		debounce: debounce,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// resolveTarget splits raw into its static base directory and the pattern
// below it. A plain file path becomes (dir, base name).
func resolveTarget(raw string) (target, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return target{}, fmt.Errorf("watch: resolve target %q: %w", raw, err)
	}

	base, pattern := doublestar.SplitPattern(filepath.ToSlash(abs))
	if !doublestar.ValidatePattern(pattern) {
		return target{}, fmt.Errorf("watch: invalid target pattern %q: %w", raw, doublestar.ErrBadPattern)
	}

	return target{
		base:      filepath.FromSlash(base),
		pattern:   pattern,
		recursive: strings.Contains(pattern, "/"),
	}, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean cancellation and
// propagates fatal watcher errors. A second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run from time.AfterFunc after ctx is cancelled, so ctx.Err()
	// is checked first. Overlapping runs are skipped and rescheduled so that
	// pending changes are never dropped.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Debug("change detected", "paths", changed)
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil {
			localTimer.Stop()
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "err", closeErr)
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

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			if !w.matches(evt.Name) {
				continue
			}

			mu.Lock()
			pending[filepath.Clean(evt.Name)] = struct{}{}
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
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// addDirectories registers each target's base directory. Recursive targets
// also register every non-ignored directory below their base.
func (w *Watcher) addDirectories() error {
	seen := make(map[string]bool)
	add := func(dir string) error {
		if seen[dir] {
			return nil
		}
		seen[dir] = true
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
		return nil
	}

	for _, t := range w.targets {
		info, err := os.Stat(t.base)
		if err != nil {
			return fmt.Errorf("watch: target directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("watch: target base %q is not a directory", t.base)
		}

		if !t.recursive {
			if err := add(t.base); err != nil {
				return err
			}
			continue
		}

		walkErr := filepath.WalkDir(t.base, func(path string, d os.DirEntry, walkDirErr error) error {
			if walkDirErr != nil {
				w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
				return nil //nolint:nilerr // intentional skip of inaccessible paths
			}
			if !d.IsDir() {
				return nil
			}
			if path != t.base && w.isIgnored(t, path) {
				return filepath.SkipDir
			}
			return add(path)
		})
		if walkErr != nil {
			return fmt.Errorf("watch: walk directory tree: %w", walkErr)
		}
	}
	return nil
}

// maybeAddDir registers a directory created after startup when it lies below
// a recursive target and is not ignored.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	for _, t := range w.targets {
		if !t.recursive || !isWithin(t.base, path) || w.isIgnored(t, path) {
			continue
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			w.logger.Warn("add new directory", "path", path, "err", addErr)
		}
		return
	}
}

// matches reports whether path is selected by a target and not ignored by it.
func (w *Watcher) matches(path string) bool {
	for _, t := range w.targets {
		rel, ok := relSlash(t.base, path)
		if !ok {
			continue
		}
		if matched, err := doublestar.Match(t.pattern, rel); err != nil || !matched {
			continue
		}
		if w.isIgnored(t, path) {
			continue
		}
		return true
	}
	return false
}

// isIgnored reports whether path, relative to t's base, matches an ignore pattern.
func (w *Watcher) isIgnored(t target, path string) bool {
	rel, ok := relSlash(t.base, path)
	if !ok {
		return false
	}
	return matchesAny(defaultIgnores, rel) || matchesAny(defaultIgnores, rel+"/")
}

func matchesAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// relSlash returns path relative to base in slash form, or false when path is
// not below base.
func relSlash(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func isWithin(base, path string) bool {
	_, ok := relSlash(base, path)
	return ok
}
