// Package watch reports changes to design files so a design can be linked
// again while it is edited.
package watch

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long changes are collected before onChange runs
const DefaultDelay = 100 * time.Millisecond

// Option configures a FileWatcher
type Option func(*FileWatcher)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(fw *FileWatcher) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// WithDelay sets the debounce delay
func WithDelay(d time.Duration) Option {
	return func(fw *FileWatcher) {
		fw.delay = d
	}
}

// FileWatcher monitors the directories of a set of glob patterns and reports
// the files matching them that changed
type FileWatcher struct {
	fsw      *fsnotify.Watcher
	batches  *Debouncer
	patterns []string
	ignored  []string
	onChange func([]string) error
	logger   *zap.Logger
	delay    time.Duration

	done    chan struct{}
	stopped sync.Once
	loop    sync.WaitGroup
}

// NewFileWatcher creates a watcher for files matching patterns. Base names
// matching an ignored pattern are skipped.
func NewFileWatcher(patterns, ignored []string, onChange func([]string) error, opts ...Option) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		fsw:      fsw,
		patterns: patterns,
		ignored:  ignored,
		onChange: onChange,
		logger:   zap.NewNop(),
		delay:    DefaultDelay,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(fw)
	}
	fw.batches = NewDebouncer(fw.delay, fw.handle)

	return fw, nil
}

// Start begins watching the directory of every pattern
func (fw *FileWatcher) Start() error {
	dirs, err := fw.directories()
	if err != nil {
		return fmt.Errorf("failed to find directories: %w", err)
	}

	for _, dir := range dirs {
		if err := fw.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		fw.logger.Debug("watching directory", zap.String("dir", dir))
	}

	fw.loop.Add(1)
	go fw.run()

	return nil
}

// Stop stops the file watcher. Only the first call has an effect.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopped.Do(func() {
		close(fw.done)
		fw.loop.Wait()
		fw.batches.Stop()
		err = fw.fsw.Close()
	})
	return err
}

// relevant lists the operations that change a design. Editors often save by
// renaming.
const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func (fw *FileWatcher) run() {
	defer fw.loop.Done()

	for {
		select {
		case <-fw.done:
			return

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", zap.Error(err))

		case ev, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&relevant == 0 || fw.shouldIgnore(ev.Name) || !fw.matchesPattern(ev.Name) {
				continue
			}
			fw.logger.Debug("design file changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			fw.batches.Add(ev.Name)
		}
	}
}

func (fw *FileWatcher) handle(files []string) {
	if err := fw.onChange(files); err != nil {
		fw.logger.Error("failed to handle design change", zap.Strings("files", files), zap.Error(err))
	}
}

// directories returns the existing directories the patterns match files in
func (fw *FileWatcher) directories() ([]string, error) {
	var dirs []string
	for _, pattern := range fw.patterns {
		matches, err := filepath.Glob(filepath.Dir(pattern))
		if err != nil {
			return nil, err
		}
		for _, dir := range matches {
			dirs = append(dirs, filepath.Clean(dir))
		}
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directory matches %s", strings.Join(fw.patterns, ", "))
	}

	sort.Strings(dirs)
	return slices.Compact(dirs), nil
}

// shouldIgnore reports hidden files and files matching an ignored pattern
func (fw *FileWatcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if base[0] == '.' {
		return true
	}
	return slices.ContainsFunc(fw.ignored, func(pattern string) bool {
		ok, _ := filepath.Match(pattern, base)
		return ok
	})
}

// matchesPattern reports whether path matches a watched pattern. Patterns
// without a directory match on the base name.
func (fw *FileWatcher) matchesPattern(path string) bool {
	if len(fw.patterns) == 0 {
		return true
	}
	return slices.ContainsFunc(fw.patterns, func(pattern string) bool {
		target := path
		if !strings.ContainsRune(pattern, filepath.Separator) {
			target = filepath.Base(path)
		}
		ok, _ := filepath.Match(pattern, target)
		return ok
	})
}

// Debouncer batches file names and hands each batch to fn once no new name
// has arrived for the delay. Batches are delivered one at a time.
type Debouncer struct {
	delay time.Duration
	fn    func([]string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool

	deliver sync.Mutex
}

// NewDebouncer returns a Debouncer calling fn with sorted batches
func NewDebouncer(delay time.Duration, fn func([]string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn, pending: map[string]struct{}{}}
}

// Add records name and restarts the delay. Names added after Stop are dropped.
func (d *Debouncer) Add(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending[name] = struct{}{}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *Debouncer) fire() {
	d.deliver.Lock()
	defer d.deliver.Unlock()

	batch := d.take()
	if len(batch) > 0 && d.fn != nil {
		d.fn(batch)
	}
}

// take empties the pending set
func (d *Debouncer) take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return nil
	}

	batch := make([]string, 0, len(d.pending))
	for name := range d.pending {
		batch = append(batch, name)
	}
	sort.Strings(batch)
	clear(d.pending)
	return batch
}

// Stop drops pending names and cancels the timer
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	clear(d.pending)
	if d.timer != nil {
		d.timer.Stop()
	}
}
