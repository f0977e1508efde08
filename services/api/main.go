package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/02loveslollipop/tpvbc/services/api/config"
	"github.com/02loveslollipop/tpvbc/services/api/db"
	httpserver "github.com/02loveslollipop/tpvbc/services/api/http"
	"github.com/02loveslollipop/tpvbc/services/bcast/athlete"
	"github.com/02loveslollipop/tpvbc/services/bcast/facade"
	"github.com/02loveslollipop/tpvbc/services/bcast/logging"
	"github.com/02loveslollipop/tpvbc/services/bcast/metrics"
	"github.com/02loveslollipop/tpvbc/services/bcast/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logging error: %v", err)
	}

	rider := athlete.Default()
	if cfg.AthleteProfile != "" {
		rider, err = athlete.LoadProfile(cfg.AthleteProfile)
		if err != nil {
			logger.WithError(err).Fatal("athlete profile error")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store httpserver.ResultsStore
	if cfg.DatabaseURL != "" {
		archive, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Fatal("db connection error")
		}
		defer archive.Close()
		store = archive
	} else {
		logger.Info("DATABASE_URL not set, results archive disabled")
	}

	bcast := facade.New(
		facade.WithAthlete(rider),
		facade.WithLogger(logger),
		facade.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		facade.WithObserver(metrics.Feeds{}),
		facade.WithRideObserver(func(o ride.Outcome) { metrics.RecordRideUpdate(o.String()) }),
	)

	if cfg.Autostart {
		if err := bcast.Start(cfg.Source); err != nil {
			logger.WithError(err).Fatal("broadcast start error")
		}
	}

	srv := httpserver.New(cfg, bcast, store, logging.Component(logger, "http"))
	logger.WithField("addr", cfg.ListenAddr()).Info("broadcast API listening")

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("server error")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := bcast.StopAndWait(stopCtx); err != nil {
		logger.WithError(err).Warn("feeds did not stop in time")
	}
}
