// Package spool posts image files dropped into a directory.
//
// Every *.jpg or *.jpeg file that appears in the watched directory is posted
// once it has stopped changing. A sidecar file with the same base name and a
// .json extension, if present, supplies the record; otherwise the shot is
// posted with an empty record.
package spool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/shotship/internal/domain"
	"github.com/bft-labs/shotship/pkg/log"
)

// Poster accepts shots. *shotship.Sender satisfies it.
type Poster interface {
	Post(rec domain.Record, blob []byte) error
}

// Config holds configuration options for the spool watcher.
type Config struct {
	// Dir is the directory to watch. Required.
	Dir string

	// DebounceDelay is how long a file must stay unchanged before it is posted.
	// Default: 200 milliseconds
	DebounceDelay time.Duration

	// Remove deletes the image and its sidecar after a successful post.
	Remove bool
}

// Watcher watches a spool directory and posts new images.
type Watcher struct {
	dir      string
	debounce time.Duration
	remove   bool
	poster   Poster
	logger   log.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	posted  map[string]bool
}

// New creates a watcher. A nil logger disables logging.
func New(cfg Config, poster Poster, logger log.Logger) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 200 * time.Millisecond
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		dir:      cfg.Dir,
		debounce: cfg.DebounceDelay,
		remove:   cfg.Remove,
		poster:   poster,
		logger:   logger,
		pending:  make(map[string]*time.Timer),
		posted:   make(map[string]bool),
	}
}

// Run posts images already in the directory, then watches it until ctx is
// done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if w.dir == "" {
		return errors.New("spool directory is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	// Pending timers must not outlive Run.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan string)
	defer w.stopTimers()

	if err := w.scan(ctx, ready); err != nil {
		return err
	}

	w.logger.Info("watching spool directory", log.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImage(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(ctx, event.Name, ready)

		case path := <-ready:
			w.postFile(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("spool watcher error", log.Err(err))
		}
	}
}

// scan schedules images that were present before the watch started.
func (w *Watcher) scan(ctx context.Context, ready chan<- string) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		w.schedule(ctx, filepath.Join(w.dir, e.Name()), ready)
	}
	return nil
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// postFile reads path and its sidecar and posts them.
func (w *Watcher) postFile(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	seen := w.posted[path]
	w.mu.Unlock()

	// Rewrites of an already posted file are ignored.
	if seen {
		return
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Error("failed to read spooled image", log.String("path", path), log.Err(err))
		}
		return
	}

	rec, sidecar, err := readSidecar(path)
	if err != nil {
		w.logger.Warn("ignoring invalid sidecar",
			log.String("path", sidecar),
			log.Err(err),
		)
	}

	if err := w.poster.Post(rec, blob); err != nil {
		w.logger.Warn("spooled image not posted", log.String("path", path), log.Err(err))
		return
	}

	w.mu.Lock()
	w.posted[path] = true
	w.mu.Unlock()

	w.logger.Debug("spooled image posted",
		log.String("path", path),
		log.Int("bytes", len(blob)),
		log.Int("objects", len(rec.Objects)),
	)

	if w.remove {
		w.cleanup(path, sidecar)
	}
}

func (w *Watcher) cleanup(path, sidecar string) {
	for _, p := range []string{path, sidecar} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed to remove spooled file", log.String("path", p), log.Err(err))
		}
	}
	w.mu.Lock()
	delete(w.posted, path)
	w.mu.Unlock()
}

// readSidecar loads the record stored next to image. A missing sidecar
// yields an empty record and no error.
func readSidecar(image string) (domain.Record, string, error) {
	sidecar := strings.TrimSuffix(image, filepath.Ext(image)) + ".json"

	data, err := os.ReadFile(sidecar)
	if os.IsNotExist(err) {
		return domain.Record{}, sidecar, nil
	}
	if err != nil {
		return domain.Record{}, sidecar, err
	}

	rec, err := domain.UnmarshalRecord(data)
	if err != nil {
		return domain.Record{}, sidecar, err
	}
	return rec, sidecar, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
