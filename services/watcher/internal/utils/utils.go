package utils

import (
	"math"
	"strings"

	feeds "github.com/02loveslollipop/tpvbc/services/bcast/models"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/models"
)

// UnnamedEvent keys results when the event feed carries no name.
const UnnamedEvent = "unnamed"

// EventKey derives the archive key of an event.
func EventKey(ev feeds.Event) string {
	name := strings.TrimSpace(ev.Name)
	if name == "" || name == feeds.Placeholder {
		return UnnamedEvent
	}
	return name
}

// BuildIndvRows converts feed results into database-ready rows.
func BuildIndvRows(event string, results []feeds.ResultIndv) []models.ResultIndvRow {
	rows := make([]models.ResultIndvRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, models.ResultIndvRow{
			Event:        event,
			Location:     r.Location,
			Position:     r.Position,
			Name:         strings.TrimSpace(r.Name),
			Country:      strings.TrimSpace(r.Country),
			Team:         strings.TrimSpace(r.Team),
			TeamCode:     strings.TrimSpace(r.TeamCode),
			Points:       r.Points,
			PointsTotal:  r.PointsTotal,
			TimeS:        r.Time,
			DeltaTimeS:   r.DeltaTime,
			IsEliminated: r.IsEliminated,
		})
	}
	return dedupe(rows, models.ResultIndvRow.Key)
}

// BuildTeamRows converts feed team results into database-ready rows.
func BuildTeamRows(event string, results []feeds.ResultTeam) []models.ResultTeamRow {
	rows := make([]models.ResultTeamRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, models.ResultTeamRow{
			Event:       event,
			Location:    r.Location,
			Position:    r.Position,
			Team:        strings.TrimSpace(r.Team),
			TeamCode:    strings.TrimSpace(r.TeamCode),
			PointsTotal: r.PointsTotal,
			TimeS:       r.Time,
			DeltaTimeS:  r.DeltaTime,
		})
	}
	return dedupe(rows, models.ResultTeamRow.Key)
}

// dedupe keeps the last row per key; a batch may not touch a key twice.
func dedupe[R any](rows []R, key func(R) models.ResultKey) []R {
	index := make(map[models.ResultKey]int, len(rows))
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

// FilterChangedIndv selects rows that are new or differ from the stored copy.
func FilterChangedIndv(rows []models.ResultIndvRow, last map[models.ResultKey]models.ResultIndvRow) []models.ResultIndvRow {
	out := make([]models.ResultIndvRow, 0, len(rows))
	for _, r := range rows {
		prev, ok := last[r.Key()]
		if !ok || prev != r {
			out = append(out, r)
		}
	}
	return out
}

// FilterChangedTeam selects rows that are new or differ from the stored copy.
// Times are compared with tolerance.
func FilterChangedTeam(rows []models.ResultTeamRow, last map[models.ResultKey]models.ResultTeamRow, epsilon float64) []models.ResultTeamRow {
	out := make([]models.ResultTeamRow, 0, len(rows))
	for _, r := range rows {
		prev, ok := last[r.Key()]
		if !ok {
			out = append(out, r)
			continue
		}
		if prev.Team != r.Team || prev.TeamCode != r.TeamCode || prev.PointsTotal != r.PointsTotal ||
			!ValuesEqual(prev.TimeS, r.TimeS, epsilon) || !ValuesEqual(prev.DeltaTimeS, r.DeltaTimeS, epsilon) {
			out = append(out, r)
		}
	}
	return out
}

// ValuesEqual compares two float values with tolerance.
func ValuesEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}
