package stream

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

const (
	// FileWaitTimeout bounds the wait for a change notification.
	FileWaitTimeout = 1000 * time.Millisecond
	// FileQuietWindow is how long the source waits for follow-up events
	// before reading.
	FileQuietWindow = 100 * time.Millisecond
	// FilePause is the pause after each successful read.
	FilePause = 250 * time.Millisecond
)

// FileBackend watches {base}/{feed}.json for changes.
type FileBackend struct {
	wait  time.Duration
	quiet time.Duration
	pause time.Duration
}

func NewFileBackend() *FileBackend {
	return &FileBackend{wait: FileWaitTimeout, quiet: FileQuietWindow, pause: FilePause}
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Interval(time.Duration) time.Duration { return b.pause }

// Open registers a watch on the directory holding the feed file. A missing
// directory fails here and the worker retries.
func (b *FileBackend) Open(_ context.Context, base string, kind models.Kind) (Source, error) {
	path := filepath.Join(base, kind.FileName())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &fileSource{backend: b, watcher: watcher, path: path}, nil
}

type fileSource struct {
	backend *FileBackend
	watcher *fsnotify.Watcher
	path    string
	primed  bool
}

// Fetch reads the file once right after opening, then only after a change.
func (s *fileSource) Fetch(ctx context.Context) ([]byte, error) {
	if !s.primed {
		s.primed = true
		raw, err := os.ReadFile(s.path)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
	}

	if err := s.waitForChange(ctx); err != nil {
		return nil, err
	}
	s.drain(ctx)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return raw, nil
}

func (s *fileSource) waitForChange(ctx context.Context) error {
	timer := time.NewTimer(s.backend.wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ErrNoChange
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return fmt.Errorf("watch %s: %w", s.path, err)
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if s.relevant(ev) {
				return nil
			}
		}
	}
}

// drain swallows events until the file has been quiet for the quiet window.
func (s *fileSource) drain(ctx context.Context) {
	timer := time.NewTimer(s.backend.quiet)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if s.relevant(ev) {
				timer.Reset(s.backend.quiet)
			}
		}
	}
}

func (s *fileSource) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (s *fileSource) Close() error {
	return s.watcher.Close()
}
