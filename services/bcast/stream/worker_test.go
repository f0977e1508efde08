package stream

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

const (
	waitFor = 3 * time.Second
	tick    = 5 * time.Millisecond
)

func fastFocusFeed() Feed[models.Focus] {
	feed := FocusFeed()
	feed.Interval = 5 * time.Millisecond
	return feed
}

type recordingObserver struct {
	mu      sync.Mutex
	results map[string]int
}

func (o *recordingObserver) ObserveFetch(_ models.Kind, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.results == nil {
		o.results = map[string]int{}
	}
	o.results[result]++
}

func (o *recordingObserver) ObserveState(models.Kind, State) {}

func (o *recordingObserver) count(result string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.results[result]
}

func TestWorkerPublishesFromHTTP(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		fmt.Fprintf(w, `[{"name":"Rider","time":%d,"power":200}]`, n)
	}))
	defer srv.Close()

	var hooked atomic.Int64
	feed := fastFocusFeed()
	feed.OnRecord = func(f models.Focus) { hooked.Store(int64(f.Time)) }

	obs := &recordingObserver{}
	w := NewWorker(feed, NewHTTPBackend(srv.Client()), WithObserver(obs))

	st, data := w.Snapshot()
	assert.Equal(t, State{Health: HealthUnknown}, st)
	assert.Equal(t, models.Placeholder, data.Name)

	require.NoError(t, w.Start(srv.URL))
	assert.True(t, w.IsRunning())

	require.Eventually(t, func() bool { return w.State().Sequence >= 3 }, waitFor, tick)

	st, data = w.Snapshot()
	assert.Equal(t, HealthOk, st.Health)
	assert.True(t, st.Running)
	assert.Equal(t, "Rider", data.Name)
	assert.GreaterOrEqual(t, hooked.Load(), int64(3))
	assert.GreaterOrEqual(t, obs.count(ResultOK), 3)

	w.Stop()
	<-w.Done()
	st = w.State()
	assert.False(t, st.Running)
	assert.Equal(t, HealthUnknown, st.Health)
	assert.Equal(t, "Rider", w.Data().Name)
}

func TestWorkerUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	w := NewWorker(fastFocusFeed(), NewHTTPBackend(nil), WithRetryInterval(20*time.Millisecond))
	require.NoError(t, w.Start(addr))

	require.Eventually(t, func() bool { return w.State().Health == HealthNotOk }, waitFor, tick)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, uint64(0), w.State().Sequence)

	w.Stop()
	require.Eventually(t, func() bool { return !w.IsRunning() }, waitFor, tick)
	assert.Equal(t, HealthUnknown, w.State().Health)
}

func TestWorkerUnresponsiveHostTurnsNotOkWithinRetryInterval(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	w := NewWorker(fastFocusFeed(), NewHTTPBackend(nil))
	require.NoError(t, w.Start(srv.URL))
	defer func() {
		w.Stop()
		<-w.Done()
	}()

	started := time.Now()
	require.Eventually(t, func() bool { return w.State().Health == HealthNotOk }, RetryInterval+300*time.Millisecond, tick)
	assert.Less(t, time.Since(started), RetryInterval+300*time.Millisecond)
	assert.Zero(t, w.State().Sequence)
}

func TestWorkerKeepsDataOnDecodeError(t *testing.T) {
	var broken atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			w.Write([]byte(`{"oops":`))
			return
		}
		w.Write([]byte(`[{"name":"A","time":5}]`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	w := NewWorker(fastFocusFeed(), NewHTTPBackend(srv.Client()), WithRetryInterval(10*time.Millisecond), WithObserver(obs))
	require.NoError(t, w.Start(srv.URL))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.State().Sequence >= 1 }, waitFor, tick)
	broken.Store(true)
	require.Eventually(t, func() bool { return w.State().Health == HealthNotOk }, waitFor, tick)

	seq := w.State().Sequence
	time.Sleep(50 * time.Millisecond)
	st, data := w.Snapshot()
	assert.Equal(t, HealthNotOk, st.Health)
	assert.Equal(t, seq, st.Sequence)
	assert.Equal(t, "A", data.Name)
	assert.Greater(t, obs.count(ResultDecodeError), 0)

	broken.Store(false)
	require.Eventually(t, func() bool { return w.State().Health == HealthOk }, waitFor, tick)
	assert.Greater(t, w.State().Sequence, seq)
}

func TestWorkerStatusErrorIsNotOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	w := NewWorker(fastFocusFeed(), NewHTTPBackend(srv.Client()), WithRetryInterval(10*time.Millisecond), WithObserver(obs))
	require.NoError(t, w.Start(srv.URL))
	defer w.Stop()

	require.Eventually(t, func() bool { return obs.count(ResultFetchError) > 0 }, waitFor, tick)
	assert.Equal(t, HealthNotOk, w.State().Health)
	assert.Zero(t, w.State().Sequence)
}

func TestWorkerStartWhileRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	w := NewWorker(NearestFeed(), NewHTTPBackend(srv.Client()))
	require.NoError(t, w.Start(srv.URL))
	assert.ErrorIs(t, w.Start(srv.URL), ErrAlreadyRunning)

	w.Stop()
	w.Stop()
	<-w.Done()
	assert.False(t, w.IsRunning())

	require.NoError(t, w.Start(srv.URL))
	require.Eventually(t, func() bool { return w.State().Sequence >= 1 }, waitFor, tick)
	assert.Empty(t, w.Data())
	w.Stop()
	<-w.Done()
}

func TestWorkerDoneBeforeStart(t *testing.T) {
	w := NewWorker(EventFeed(), NewHTTPBackend(nil))
	select {
	case <-w.Done():
	default:
		t.Fatal("done channel of a stopped worker must be closed")
	}
	w.Stop()
	assert.False(t, w.IsRunning())
}

func TestWorkerWatchesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "focus.json")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBF"+`[{"name":"File","time":1}]`), 0o644))

	w := NewWorker(fastFocusFeed(), testFileBackend())
	require.NoError(t, w.Start(dir))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.Data().Time == 1 }, waitFor, tick)
	assert.Equal(t, HealthOk, w.State().Health)

	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBF"+`[{"name":"File","time":2}]`), 0o644))
	require.Eventually(t, func() bool { return w.Data().Time == 2 }, waitFor, tick)
	assert.GreaterOrEqual(t, w.State().Sequence, uint64(2))
}

func TestWorkerRecoversFromWatchFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "later")

	w := NewWorker(fastFocusFeed(), testFileBackend(), WithRetryInterval(10*time.Millisecond))
	require.NoError(t, w.Start(dir))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.State().Health == HealthNotOk }, waitFor, tick)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "focus.json"), []byte(`[{"name":"Late","time":9}]`), 0o644))

	require.Eventually(t, func() bool { return w.State().Health == HealthOk }, waitFor, tick)
	assert.Equal(t, "Late", w.Data().Name)
}

func TestWorkerWriteBurstPublishesOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "focus.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Burst","time":0}]`), 0o644))

	w := NewWorker(fastFocusFeed(), &FileBackend{wait: 200 * time.Millisecond, quiet: FileQuietWindow, pause: 10 * time.Millisecond})
	require.NoError(t, w.Start(dir))
	defer w.Stop()

	require.Eventually(t, func() bool { return w.State().Sequence == 1 }, waitFor, tick)

	for i := 1; i <= 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`[{"name":"Burst","time":%d}]`, i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return w.Data().Time == 5 }, waitFor, tick)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, uint64(2), w.State().Sequence)
}

func TestWorkerStateIsConsistentAcrossStop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"A","time":1}]`))
	}))
	defer srv.Close()

	w := NewWorker(fastFocusFeed(), NewHTTPBackend(srv.Client()))

	var stopReading atomic.Bool
	var mismatch atomic.Value
	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		for !stopReading.Load() {
			if st := w.State(); !st.Running && st.Health != HealthUnknown {
				mismatch.Store(st)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		require.NoError(t, w.Start(srv.URL))
		require.Eventually(t, func() bool { return w.State().Health == HealthOk }, waitFor, tick)
		w.Stop()
		<-w.Done()
		assert.Equal(t, State{Health: HealthUnknown, Sequence: w.State().Sequence}, w.State())
	}

	stopReading.Store(true)
	readers.Wait()
	assert.Nil(t, mismatch.Load())
}
