package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/02loveslollipop/tpvbc/services/api/config"
	"github.com/02loveslollipop/tpvbc/services/api/db"
	"github.com/02loveslollipop/tpvbc/services/bcast/athlete"
	"github.com/02loveslollipop/tpvbc/services/bcast/metrics"
	"github.com/02loveslollipop/tpvbc/services/bcast/models"
	"github.com/02loveslollipop/tpvbc/services/bcast/ride"
	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
)

// Broadcast is the control surface served by the API.
type Broadcast interface {
	Start(address string) error
	Stop()
	StopAndWait(ctx context.Context) error
	Running() bool
	Source() string
	States() map[models.Kind]stream.State
	Feed(kind models.Kind) (stream.State, any, error)
	Ride() ride.Ride
	ResetRide()
	Athlete() athlete.Athlete
}

// ResultsStore reads archived results. It is optional.
type ResultsStore interface {
	ListResultsIndv(ctx context.Context, q db.ResultsQuery) ([]db.ResultIndv, error)
	ListResultsTeam(ctx context.Context, q db.ResultsQuery) ([]db.ResultTeam, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg       config.Config
	broadcast Broadcast
	store     ResultsStore
	log       logrus.FieldLogger
	engine    *gin.Engine
}

// New constructs a server with routes and middleware. store may be nil when
// no database is configured.
func New(cfg config.Config, broadcast Broadcast, store ResultsStore, log logrus.FieldLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	engine.Use(requestMetrics())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, broadcast: broadcast, store: store, log: log, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "running": s.broadcast.Running()})
	})
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.registerV1Routes()
}
