// Package facade exposes the broadcast feeds and the derived ride behind one
// start/stop control surface.
package facade

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/02loveslollipop/tpvbc/services/bcast/athlete"
	"github.com/02loveslollipop/tpvbc/services/bcast/logging"
	"github.com/02loveslollipop/tpvbc/services/bcast/models"
	"github.com/02loveslollipop/tpvbc/services/bcast/ride"
	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
)

// DefaultSource is the address of a local broadcast server.
const DefaultSource = "http://localhost:8080"

// RideObserver is told the outcome of every focus sample merged into the ride.
type RideObserver func(ride.Outcome)

type options struct {
	athlete      athlete.Athlete
	log          logrus.FieldLogger
	client       *http.Client
	observer     stream.Observer
	rideObserver RideObserver
	streamOpts   []stream.Option
	selectFn     func(address string, client *http.Client) (stream.Backend, string)
}

// Option configures a Facade.
type Option func(*options)

func WithAthlete(a athlete.Athlete) Option {
	return func(o *options) { o.athlete = a }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithHTTPClient sets the client used by the HTTP backend.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithObserver reports every worker cycle, typically to metrics.Feeds.
func WithObserver(obs stream.Observer) Option {
	return func(o *options) { o.observer = obs }
}

func WithRideObserver(fn RideObserver) Option {
	return func(o *options) { o.rideObserver = fn }
}

// WithStreamOptions passes extra options to every worker.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(o *options) { o.streamOpts = append(o.streamOpts, opts...) }
}

// WithBackendSelector replaces stream.SelectBackend.
func WithBackendSelector(fn func(address string, client *http.Client) (stream.Backend, string)) Option {
	return func(o *options) { o.selectFn = fn }
}

type workers struct {
	focus       *stream.Worker[models.Focus]
	nearest     *stream.Worker[[]models.Nearest]
	event       *stream.Worker[models.Event]
	entries     *stream.Worker[[]models.Entry]
	groups      *stream.Worker[[]models.Group]
	resultsIndv *stream.Worker[[]models.ResultIndv]
	resultsTeam *stream.Worker[[]models.ResultTeam]
	all         []stream.Lifecycle
}

// Facade owns one worker per feed and the ride fed by the focus worker.
type Facade struct {
	opts options
	log  logrus.FieldLogger
	ride *ride.Tracker

	mu      sync.RWMutex
	source  string
	workers *workers
}

// New builds a stopped facade. Until Start, every feed reports its
// placeholder record against the default HTTP backend.
func New(opts ...Option) *Facade {
	o := options{athlete: athlete.Default(), selectFn: stream.SelectBackend}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Discard()
	}

	f := &Facade{
		opts: o,
		log:  logging.Component(o.log, "facade"),
		ride: ride.NewTracker(o.athlete),
	}

	backend, _ := o.selectFn(DefaultSource, o.client)
	f.workers = f.build(backend)
	return f
}

func (f *Facade) build(backend stream.Backend) *workers {
	opts := []stream.Option{stream.WithLogger(f.opts.log)}
	if f.opts.observer != nil {
		opts = append(opts, stream.WithObserver(f.opts.observer))
	}
	opts = append(opts, f.opts.streamOpts...)

	focus := stream.FocusFeed()
	focus.OnRecord = f.updateRide

	w := &workers{
		focus:       stream.NewWorker(focus, backend, opts...),
		nearest:     stream.NewWorker(stream.NearestFeed(), backend, opts...),
		event:       stream.NewWorker(stream.EventFeed(), backend, opts...),
		entries:     stream.NewWorker(stream.EntriesFeed(), backend, opts...),
		groups:      stream.NewWorker(stream.GroupsFeed(), backend, opts...),
		resultsIndv: stream.NewWorker(stream.ResultsIndvFeed(), backend, opts...),
		resultsTeam: stream.NewWorker(stream.ResultsTeamFeed(), backend, opts...),
	}
	w.all = []stream.Lifecycle{w.focus, w.nearest, w.event, w.entries, w.groups, w.resultsIndv, w.resultsTeam}
	return w
}

// updateRide runs in the focus loop before the focus snapshot is published.
func (f *Facade) updateRide(sample models.Focus) {
	outcome := f.ride.Update(sample)
	if outcome == ride.Reset {
		f.log.WithField("time", sample.Time).Info("ride restarted")
	}
	if f.opts.rideObserver != nil {
		f.opts.rideObserver(outcome)
	}
}

// Start selects the backend for address, rebuilds every worker and starts
// them. While any worker is still running it logs a warning and returns
// stream.ErrAlreadyRunning without changing anything.
func (f *Facade) Start(address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, w := range f.workers.all {
		if w.IsRunning() {
			f.log.WithFields(logrus.Fields{"source": f.source, "requested": address}).Warn("broadcast already running")
			return stream.ErrAlreadyRunning
		}
	}

	backend, base := f.opts.selectFn(address, f.opts.client)
	f.workers = f.build(backend)
	f.source = address

	for _, w := range f.workers.all {
		if err := w.Start(base); err != nil {
			return fmt.Errorf("start %s: %w", w.Kind(), err)
		}
	}
	f.log.WithFields(logrus.Fields{"source": address, "backend": backend.Name()}).Info("broadcast started")
	return nil
}

// Stop asks every worker to exit without waiting.
func (f *Facade) Stop() {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, w := range f.workers.all {
		w.Stop()
	}
	f.log.Info("broadcast stopping")
}

// StopAndWait stops every worker and waits until all loops have exited.
func (f *Facade) StopAndWait(ctx context.Context) error {
	f.mu.RLock()
	all := f.workers.all
	f.mu.RUnlock()

	for _, w := range all {
		w.Stop()
	}
	for _, w := range all {
		select {
		case <-w.Done():
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", w.Kind(), ctx.Err())
		}
	}
	return nil
}

// Running reports whether every worker is running.
func (f *Facade) Running() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, w := range f.workers.all {
		if !w.IsRunning() {
			return false
		}
	}
	return true
}

// Source is the address passed to the last successful Start.
func (f *Facade) Source() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.source
}

func (f *Facade) Athlete() athlete.Athlete {
	return f.opts.athlete
}

// Ride returns a copy of the current ride.
func (f *Facade) Ride() ride.Ride {
	return f.ride.Snapshot()
}

// ResetRide discards the current ride and opens a new session.
func (f *Facade) ResetRide() {
	f.ride.Reset()
}

func (f *Facade) current() *workers {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.workers
}

// Feed returns the state and record of the named feed.
func (f *Facade) Feed(kind models.Kind) (stream.State, any, error) {
	for _, w := range f.current().all {
		if w.Kind() == kind {
			st, data := w.Current()
			return st, data, nil
		}
	}
	return stream.State{}, nil, fmt.Errorf("%w: %s", stream.ErrUnknownFeed, kind)
}

// States returns the state of every feed.
func (f *Facade) States() map[models.Kind]stream.State {
	all := f.current().all
	out := make(map[models.Kind]stream.State, len(all))
	for _, w := range all {
		out[w.Kind()] = w.State()
	}
	return out
}

func (f *Facade) FocusData() models.Focus { return f.current().focus.Data() }
func (f *Facade) FocusState() stream.State { return f.current().focus.State() }
func (f *Facade) NearestData() []models.Nearest { return f.current().nearest.Data() }
func (f *Facade) NearestState() stream.State { return f.current().nearest.State() }
func (f *Facade) EventData() models.Event { return f.current().event.Data() }
func (f *Facade) EventState() stream.State { return f.current().event.State() }
func (f *Facade) EntriesData() []models.Entry { return f.current().entries.Data() }
func (f *Facade) EntriesState() stream.State { return f.current().entries.State() }
func (f *Facade) GroupsData() []models.Group { return f.current().groups.Data() }
func (f *Facade) GroupsState() stream.State { return f.current().groups.State() }
func (f *Facade) ResultsIndvState() stream.State { return f.current().resultsIndv.State() }
func (f *Facade) ResultsTeamState() stream.State { return f.current().resultsTeam.State() }

func (f *Facade) ResultsIndvData() []models.ResultIndv {
	return f.current().resultsIndv.Data()
}

func (f *Facade) ResultsTeamData() []models.ResultTeam {
	return f.current().resultsTeam.Data()
}
