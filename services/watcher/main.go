package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/02loveslollipop/tpvbc/services/bcast/logging"
	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/archive"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/config"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/db"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("watcher failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	wlog := logging.Component(logger, "watcher")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store archive.Store
	if cfg.DryRun {
		wlog.Info("dry-run: results will be logged, not written")
	} else {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		store = pg
	}

	backend, base := stream.SelectBackend(cfg.Source, &http.Client{Timeout: cfg.RequestTimeout})
	wlog.WithFields(logrus.Fields{"source": cfg.Source, "backend": backend.Name()}).Info("watching broadcast results")

	archiver := archive.New(backend, base, store, cfg.ValueEpsilon, cfg.RequestTimeout, wlog)

	if cfg.Schedule == "" {
		_, err := archiver.RunOnce(ctx)
		return err
	}

	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(wlog)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(wlog))),
	)
	if _, err := c.AddFunc(cfg.Schedule, func() {
		if _, err := archiver.RunOnce(ctx); err != nil {
			wlog.WithError(err).Error("archive pass failed")
		}
	}); err != nil {
		return err
	}

	wlog.WithField("schedule", cfg.Schedule).Info("scheduler started")
	c.Start()
	<-ctx.Done()

	wlog.Info("shutting down")
	<-c.Stop().Done()
	return nil
}
