package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

// Fetch results reported to an Observer.
const (
	ResultOK          = "ok"
	ResultIdle        = "idle"
	ResultFetchError  = "fetch_error"
	ResultDecodeError = "decode_error"
	ResultOpenError   = "open_error"
)

// Observer is told about every cycle of every worker.
type Observer interface {
	ObserveFetch(kind models.Kind, result string)
	ObserveState(kind models.Kind, state State)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(models.Kind, string) {}
func (nopObserver) ObserveState(models.Kind, State)  {}

// Lifecycle is the type-erased view of a Worker.
type Lifecycle interface {
	Kind() models.Kind
	Start(source string) error
	Stop()
	Done() <-chan struct{}
	IsRunning() bool
	State() State
	Current() (State, any)
}

type workerConfig struct {
	log      logrus.FieldLogger
	observer Observer
	retry    time.Duration
}

// Option configures a Worker.
type Option func(*workerConfig)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *workerConfig) { c.log = log }
}

func WithObserver(o Observer) Option {
	return func(c *workerConfig) { c.observer = o }
}

// WithRetryInterval overrides RetryInterval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *workerConfig) { c.retry = d }
}

// Worker runs the fetch loop of one feed. At most one loop is active at a
// time: running only turns false once the loop has exited, and Start is
// refused until then.
type Worker[T any] struct {
	feed    Feed[T]
	backend Backend
	cfg     workerConfig
	log     logrus.FieldLogger
	cell    *cell[T]

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWorker creates a stopped worker publishing feed.Initial.
func NewWorker[T any](feed Feed[T], backend Backend, opts ...Option) *Worker[T] {
	cfg := workerConfig{observer: nopObserver{}, retry: RetryInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		cfg.log = discard
	}

	done := make(chan struct{})
	close(done)

	return &Worker[T]{
		feed:    feed,
		backend: backend,
		cfg:     cfg,
		log:     cfg.log.WithFields(logrus.Fields{"feed": feed.Kind.String(), "backend": backend.Name()}),
		cell:    newCell(feed.Initial),
		done:    done,
	}
}

func (w *Worker[T]) Kind() models.Kind { return w.feed.Kind }

// Start spawns the loop against source. It fails with ErrAlreadyRunning
// while a previous loop has not exited yet.
func (w *Worker[T]) Start(source string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.running = true
	w.cancel = cancel
	w.done = done

	prev := w.cell.load()
	w.cell.store(&snapshot[T]{running: true, health: prev.health, sequence: prev.sequence, data: prev.data})
	w.cfg.observer.ObserveState(w.feed.Kind, w.stateLocked())
	go w.run(ctx, source, done)
	return nil
}

// Stop asks the loop to exit and returns immediately.
func (w *Worker[T]) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.cancel()
}

// Done is closed once the current loop has exited.
func (w *Worker[T]) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *Worker[T]) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Snapshot returns the state and the last published record from one cell
// load. The record is shared with other readers and must not be modified.
func (w *Worker[T]) Snapshot() (State, T) {
	s := w.cell.load()
	return s.state(), s.data
}

func (w *Worker[T]) State() State {
	st, _ := w.Snapshot()
	return st
}

func (w *Worker[T]) Data() T {
	_, data := w.Snapshot()
	return data
}

func (w *Worker[T]) Current() (State, any) {
	return w.Snapshot()
}

func (w *Worker[T]) stateLocked() State {
	return w.cell.load().state()
}

func (w *Worker[T]) run(ctx context.Context, source string, done chan struct{}) {
	var src Source

	defer func() {
		if src != nil {
			if err := src.Close(); err != nil {
				w.log.WithError(err).Debug("close source")
			}
		}

		w.mu.Lock()
		prev := w.cell.load()
		w.cell.store(&snapshot[T]{health: HealthUnknown, sequence: prev.sequence, data: prev.data})
		w.running = false
		w.cfg.observer.ObserveState(w.feed.Kind, w.stateLocked())
		w.mu.Unlock()

		close(done)
		w.log.Info("stream stopped")
	}()

	w.log.WithField("source", source).Info("stream started")

	for ctx.Err() == nil {
		if src == nil {
			opened, err := w.backend.Open(ctx, source, w.feed.Kind)
			if err != nil {
				w.fail(err, ResultOpenError)
				if !sleep(ctx, w.cfg.retry) {
					return
				}
				continue
			}
			src = opened
		}

		raw, err := src.Fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		switch {
		case errors.Is(err, ErrNoChange):
			w.cfg.observer.ObserveFetch(w.feed.Kind, ResultIdle)
			if !sleep(ctx, w.backend.Interval(w.feed.Interval)) {
				return
			}
			continue
		case err != nil:
			w.fail(err, ResultFetchError)
			if !sleep(ctx, w.cfg.retry) {
				return
			}
			continue
		}

		prev := w.cell.load()
		next, fresh, err := w.feed.Decode(raw, prev.data)
		if err != nil {
			w.fail(err, ResultDecodeError)
			if !sleep(ctx, w.cfg.retry) {
				return
			}
			continue
		}

		if fresh && w.feed.OnRecord != nil {
			w.feed.OnRecord(next)
		}
		w.publish(&snapshot[T]{running: true, health: HealthOk, sequence: prev.sequence + 1, data: next})

		if !sleep(ctx, w.backend.Interval(w.feed.Interval)) {
			return
		}
	}
}

func (w *Worker[T]) publish(s *snapshot[T]) {
	if prev := w.cell.load(); prev.health == HealthNotOk {
		w.log.WithField("sequence", s.sequence).Info("stream recovered")
	}
	w.cell.store(s)
	w.cfg.observer.ObserveFetch(w.feed.Kind, ResultOK)
	w.cfg.observer.ObserveState(w.feed.Kind, s.state())
}

// fail marks the feed NotOk and keeps the last good record.
func (w *Worker[T]) fail(err error, result string) {
	prev := w.cell.load()
	entry := w.log.WithError(err).WithField("result", result)
	if prev.health != HealthNotOk {
		entry.Warn("stream cycle failed")
	} else {
		entry.Debug("stream cycle failed")
	}

	next := &snapshot[T]{running: true, health: HealthNotOk, sequence: prev.sequence, data: prev.data}
	w.cell.store(next)
	w.cfg.observer.ObserveFetch(w.feed.Kind, result)
	w.cfg.observer.ObserveState(w.feed.Kind, next.state())
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// FetchOnce opens a source, fetches and decodes a single payload. It is used
// by one-shot consumers that do not need a running worker.
func FetchOnce[T any](ctx context.Context, backend Backend, base string, feed Feed[T]) (T, error) {
	src, err := backend.Open(ctx, base, feed.Kind)
	if err != nil {
		return feed.Initial, err
	}
	defer src.Close()

	raw, err := src.Fetch(ctx)
	if err != nil {
		return feed.Initial, err
	}
	next, _, err := feed.Decode(raw, feed.Initial)
	return next, err
}
