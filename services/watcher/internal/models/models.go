package models

import "time"

// ResultKey identifies a result row within one event.
type ResultKey struct {
	Location int
	Position int
}

// ResultIndvRow is an individual result ready for the results_indv table.
type ResultIndvRow struct {
	Event        string
	Location     int
	Position     int
	Name         string
	Country      string
	Team         string
	TeamCode     string
	Points       int
	PointsTotal  int
	TimeS        int
	DeltaTimeS   int
	IsEliminated bool
}

// Key returns the row's position key.
func (r ResultIndvRow) Key() ResultKey {
	return ResultKey{Location: r.Location, Position: r.Position}
}

// ResultTeamRow is a team result ready for the results_team table.
type ResultTeamRow struct {
	Event       string
	Location    int
	Position    int
	Team        string
	TeamCode    string
	PointsTotal int
	TimeS       float64
	DeltaTimeS  float64
}

// Key returns the row's position key.
func (r ResultTeamRow) Key() ResultKey {
	return ResultKey{Location: r.Location, Position: r.Position}
}

// Snapshot is one archiver pass over the broadcast source.
type Snapshot struct {
	Event       string
	RetrievedAt time.Time
	Indv        []ResultIndvRow
	Team        []ResultTeamRow
}
