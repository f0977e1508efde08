// Package archive copies the broadcast results into the database.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/models"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/utils"
)

// Store persists result rows.
type Store interface {
	LastResultsIndv(ctx context.Context, event string) (map[models.ResultKey]models.ResultIndvRow, error)
	LastResultsTeam(ctx context.Context, event string) (map[models.ResultKey]models.ResultTeamRow, error)
	UpsertResultsIndv(ctx context.Context, rows []models.ResultIndvRow) error
	UpsertResultsTeam(ctx context.Context, rows []models.ResultTeamRow) error
}

// Archiver runs fetch, diff and upsert passes. A nil store means dry run.
type Archiver struct {
	backend stream.Backend
	base    string
	store   Store
	epsilon float64
	timeout time.Duration
	log     logrus.FieldLogger
}

// New builds an archiver for the source address.
func New(backend stream.Backend, base string, store Store, epsilon float64, timeout time.Duration, log logrus.FieldLogger) *Archiver {
	return &Archiver{backend: backend, base: base, store: store, epsilon: epsilon, timeout: timeout, log: log}
}

// Fetch reads the event and both result feeds once.
func (a *Archiver) Fetch(ctx context.Context) (models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	snap := models.Snapshot{RetrievedAt: time.Now().UTC().Truncate(time.Second)}

	event, err := stream.FetchOnce(ctx, a.backend, a.base, stream.EventFeed())
	if err != nil {
		return snap, fmt.Errorf("fetch event: %w", err)
	}
	snap.Event = utils.EventKey(event)

	indv, err := stream.FetchOnce(ctx, a.backend, a.base, stream.ResultsIndvFeed())
	if err != nil {
		return snap, fmt.Errorf("fetch individual results: %w", err)
	}
	team, err := stream.FetchOnce(ctx, a.backend, a.base, stream.ResultsTeamFeed())
	if err != nil {
		return snap, fmt.Errorf("fetch team results: %w", err)
	}

	snap.Indv = utils.BuildIndvRows(snap.Event, indv)
	snap.Team = utils.BuildTeamRows(snap.Event, team)
	return snap, nil
}

// RunOnce archives the current results and returns how many rows were written.
func (a *Archiver) RunOnce(ctx context.Context) (int, error) {
	snap, err := a.Fetch(ctx)
	if err != nil {
		return 0, err
	}

	log := a.log.WithField("event", snap.Event)
	log.WithFields(logrus.Fields{"indv": len(snap.Indv), "team": len(snap.Team)}).Info("fetched results")

	if a.store == nil {
		for _, r := range snap.Indv {
			log.Infof("dry-run: would upsert indv location=%d position=%d name=%s points=%d", r.Location, r.Position, r.Name, r.PointsTotal)
		}
		for _, r := range snap.Team {
			log.Infof("dry-run: would upsert team location=%d position=%d team=%s time=%.3f", r.Location, r.Position, r.Team, r.TimeS)
		}
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	lastIndv, err := a.store.LastResultsIndv(ctx, snap.Event)
	if err != nil {
		return 0, fmt.Errorf("load stored individual results: %w", err)
	}
	lastTeam, err := a.store.LastResultsTeam(ctx, snap.Event)
	if err != nil {
		return 0, fmt.Errorf("load stored team results: %w", err)
	}

	pendingIndv := utils.FilterChangedIndv(snap.Indv, lastIndv)
	pendingTeam := utils.FilterChangedTeam(snap.Team, lastTeam, a.epsilon)

	if len(pendingIndv) == 0 && len(pendingTeam) == 0 {
		log.WithField("retrieval", snap.RetrievedAt.Format(time.RFC3339)).Info("no changed results")
		return 0, nil
	}

	if err := a.store.UpsertResultsIndv(ctx, pendingIndv); err != nil {
		return 0, fmt.Errorf("upsert individual results: %w", err)
	}
	if err := a.store.UpsertResultsTeam(ctx, pendingTeam); err != nil {
		return len(pendingIndv), fmt.Errorf("upsert team results: %w", err)
	}

	log.WithFields(logrus.Fields{"indv": len(pendingIndv), "team": len(pendingTeam)}).Info("archived results")
	return len(pendingIndv) + len(pendingTeam), nil
}
