package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps read access to the archived race results.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ResultIndv is one archived individual result.
type ResultIndv struct {
	Event        string    `json:"event"`
	Location     int       `json:"location"`
	Position     int       `json:"position"`
	Name         string    `json:"name"`
	Country      string    `json:"country"`
	Team         string    `json:"team"`
	TeamCode     string    `json:"team_code"`
	Points       int       `json:"points"`
	PointsTotal  int       `json:"points_total"`
	TimeS        int       `json:"time_s"`
	DeltaTimeS   int       `json:"delta_time_s"`
	IsEliminated bool      `json:"is_eliminated"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ResultTeam is one archived team result.
type ResultTeam struct {
	Event       string    `json:"event"`
	Location    int       `json:"location"`
	Position    int       `json:"position"`
	Team        string    `json:"team"`
	TeamCode    string    `json:"team_code"`
	PointsTotal int       `json:"points_total"`
	TimeS       float64   `json:"time_s"`
	DeltaTimeS  float64   `json:"delta_time_s"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ResultsQuery holds filters for retrieving results.
type ResultsQuery struct {
	Event    string
	Location *int
	Limit    int
}

const resultsIndvBase = `
    SELECT event, location, position, name, country, team, team_code, points, points_total, time_s, delta_time_s, is_eliminated, updated_at
    FROM tpvbc.results_indv
`

const resultsTeamBase = `
    SELECT event, location, position, team, team_code, points_total, time_s, delta_time_s, updated_at
    FROM tpvbc.results_team
`

func buildResultsQuery(base string, q ResultsQuery) (string, []any) {
	conditions := []string{}
	args := []any{}

	if q.Event != "" {
		args = append(args, q.Event)
		conditions = append(conditions, "event = $"+strconv.Itoa(len(args)))
	}
	if q.Location != nil {
		args = append(args, *q.Location)
		conditions = append(conditions, "location = $"+strconv.Itoa(len(args)))
	}

	query := strings.Builder{}
	query.WriteString(base)
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	query.WriteString(" ORDER BY event, location, position")
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	return query.String(), args
}

// ListResultsIndv returns archived individual results.
func (s *Store) ListResultsIndv(ctx context.Context, q ResultsQuery) ([]ResultIndv, error) {
	sql, args := buildResultsQuery(resultsIndvBase, q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]ResultIndv, 0)
	for rows.Next() {
		var r ResultIndv
		if err := rows.Scan(
			&r.Event,
			&r.Location,
			&r.Position,
			&r.Name,
			&r.Country,
			&r.Team,
			&r.TeamCode,
			&r.Points,
			&r.PointsTotal,
			&r.TimeS,
			&r.DeltaTimeS,
			&r.IsEliminated,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListResultsTeam returns archived team results.
func (s *Store) ListResultsTeam(ctx context.Context, q ResultsQuery) ([]ResultTeam, error) {
	sql, args := buildResultsQuery(resultsTeamBase, q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]ResultTeam, 0)
	for rows.Next() {
		var r ResultTeam
		if err := rows.Scan(
			&r.Event,
			&r.Location,
			&r.Position,
			&r.Team,
			&r.TeamCode,
			&r.PointsTotal,
			&r.TimeS,
			&r.DeltaTimeS,
			&r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
