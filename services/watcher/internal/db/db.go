package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/tpvbc/services/watcher/internal/models"
)

// Store writes archived results through a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a pool for databaseURL.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	s.pool.Close()
}

// UpsertResultsIndv inserts/updates individual results.
func (s *Store) UpsertResultsIndv(ctx context.Context, rows []models.ResultIndvRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO tpvbc.results_indv (event, location, position, name, country, team, team_code, points, points_total, time_s, delta_time_s, is_eliminated, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
ON CONFLICT (event, location, position) DO UPDATE
SET name = EXCLUDED.name,
    country = EXCLUDED.country,
    team = EXCLUDED.team,
    team_code = EXCLUDED.team_code,
    points = EXCLUDED.points,
    points_total = EXCLUDED.points_total,
    time_s = EXCLUDED.time_s,
    delta_time_s = EXCLUDED.delta_time_s,
    is_eliminated = EXCLUDED.is_eliminated,
    updated_at = NOW()`

	for _, r := range rows {
		batch.Queue(query, r.Event, r.Location, r.Position, r.Name, r.Country, r.Team, r.TeamCode, r.Points, r.PointsTotal, r.TimeS, r.DeltaTimeS, r.IsEliminated)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range rows {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// UpsertResultsTeam inserts/updates team results.
func (s *Store) UpsertResultsTeam(ctx context.Context, rows []models.ResultTeamRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO tpvbc.results_team (event, location, position, team, team_code, points_total, time_s, delta_time_s, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
ON CONFLICT (event, location, position) DO UPDATE
SET team = EXCLUDED.team,
    team_code = EXCLUDED.team_code,
    points_total = EXCLUDED.points_total,
    time_s = EXCLUDED.time_s,
    delta_time_s = EXCLUDED.delta_time_s,
    updated_at = NOW()`

	for _, r := range rows {
		batch.Queue(query, r.Event, r.Location, r.Position, r.Team, r.TeamCode, r.PointsTotal, r.TimeS, r.DeltaTimeS)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range rows {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// LastResultsIndv loads the stored individual results of an event.
func (s *Store) LastResultsIndv(ctx context.Context, event string) (map[models.ResultKey]models.ResultIndvRow, error) {
	rows, err := s.pool.Query(ctx, `
SELECT event, location, position, name, country, team, team_code, points, points_total, time_s, delta_time_s, is_eliminated
FROM tpvbc.results_indv
WHERE event = $1`, event)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[models.ResultKey]models.ResultIndvRow)
	for rows.Next() {
		var r models.ResultIndvRow
		if err := rows.Scan(&r.Event, &r.Location, &r.Position, &r.Name, &r.Country, &r.Team, &r.TeamCode, &r.Points, &r.PointsTotal, &r.TimeS, &r.DeltaTimeS, &r.IsEliminated); err != nil {
			return nil, err
		}
		result[r.Key()] = r
	}

	return result, rows.Err()
}

// LastResultsTeam loads the stored team results of an event.
func (s *Store) LastResultsTeam(ctx context.Context, event string) (map[models.ResultKey]models.ResultTeamRow, error) {
	rows, err := s.pool.Query(ctx, `
SELECT event, location, position, team, team_code, points_total, time_s, delta_time_s
FROM tpvbc.results_team
WHERE event = $1`, event)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[models.ResultKey]models.ResultTeamRow)
	for rows.Next() {
		var r models.ResultTeamRow
		if err := rows.Scan(&r.Event, &r.Location, &r.Position, &r.Team, &r.TeamCode, &r.PointsTotal, &r.TimeS, &r.DeltaTimeS); err != nil {
			return nil, err
		}
		result[r.Key()] = r
	}

	return result, rows.Err()
}
