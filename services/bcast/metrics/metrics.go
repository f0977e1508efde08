package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
)

var (
	// Registry holds the collectors of this process.
	Registry = prometheus.NewRegistry()

	feedFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tpvbc",
			Subsystem: "feed",
			Name:      "fetch_total",
			Help:      "Fetch cycles per feed and result.",
		},
		[]string{"feed", "result"},
	)

	feedSequence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tpvbc",
			Subsystem: "feed",
			Name:      "sequence",
			Help:      "Sequence number of the last published snapshot.",
		},
		[]string{"feed"},
	)

	feedHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tpvbc",
			Subsystem: "feed",
			Name:      "health",
			Help:      "Feed health: 0 unknown, 1 ok, 2 not ok.",
		},
		[]string{"feed"},
	)

	feedRunning = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tpvbc",
			Subsystem: "feed",
			Name:      "running",
			Help:      "1 while the feed loop is active.",
		},
		[]string{"feed"},
	)

	rideUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tpvbc",
			Subsystem: "ride",
			Name:      "updates_total",
			Help:      "Focus samples merged into the ride, by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tpvbc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tpvbc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		feedFetches,
		feedSequence,
		feedHealth,
		feedRunning,
		rideUpdates,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Feeds reports worker cycles. It satisfies stream.Observer.
type Feeds struct{}

func (Feeds) ObserveFetch(kind models.Kind, result string) {
	feedFetches.WithLabelValues(kind.String(), result).Inc()
}

func (Feeds) ObserveState(kind models.Kind, state stream.State) {
	feed := kind.String()
	feedSequence.WithLabelValues(feed).Set(float64(state.Sequence))
	feedHealth.WithLabelValues(feed).Set(float64(state.Health))
	running := 0.0
	if state.Running {
		running = 1
	}
	feedRunning.WithLabelValues(feed).Set(running)
}

// RecordRideUpdate counts one ride update outcome.
func RecordRideUpdate(outcome string) {
	rideUpdates.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records a served request. path should be the route
// template, not the raw URL.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(strings.ToUpper(method), path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(strings.ToUpper(method), path).Observe(duration.Seconds())
}
