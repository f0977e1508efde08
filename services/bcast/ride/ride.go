// Package ride derives ride analytics from the focus feed.
package ride

import (
	"github.com/google/uuid"

	"github.com/02loveslollipop/tpvbc/services/bcast/athlete"
	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

// Outcome tells what an Update did with a sample.
type Outcome int

const (
	// Duplicate samples carry a time already seen; only wind changed.
	Duplicate Outcome = iota
	// Applied samples advanced the ride.
	Applied
	// Reset samples went back in time and started a new session.
	Reset
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Reset:
		return "reset"
	default:
		return "duplicate"
	}
}

// Ride is the aggregate of one ride session.
type Ride struct {
	SessionID        string          `json:"session_id"`
	Athlete          athlete.Athlete `json:"athlete"`
	Total            Metrics         `json:"total"`
	CurrentLap       LapSplit        `json:"current_lap"`
	PastLaps         []LapSplit      `json:"past_laps"`
	TimeInHRZones    TimeInZones     `json:"time_in_hr_zones"`
	TimeInPowerZones TimeInZones     `json:"time_in_power_zones"`
}

// New starts an empty ride for an athlete.
func New(a athlete.Athlete) *Ride {
	return &Ride{SessionID: uuid.NewString(), Athlete: a, PastLaps: []LapSplit{}}
}

// Update merges a focus sample. A sample older than the last one resets the
// ride and is not applied; the next sample starts the new session.
func (r *Ride) Update(f models.Focus) Outcome {
	outcome := Duplicate

	switch {
	case r.Total.Time < f.Time:
		delta := f.Time - r.Total.Time
		r.TimeInHRZones.AddTime(r.Athlete.HRZones.Classify(f.HeartRate), delta)
		r.TimeInPowerZones.AddTime(r.Athlete.PowerZones.Classify(f.Power), delta)

		prevTime, prevDistance := r.Total.Time, r.Total.DistanceKM
		r.Total.apply(f, r.Athlete.WeightKG)
		r.advanceLap(f, delta, prevTime, prevDistance)
		outcome = Applied
	case f.Time < r.Total.Time:
		r.Reset()
		outcome = Reset
	}

	r.Total.Wind.update(f)
	return outcome
}

func (r *Ride) advanceLap(f models.Focus, delta, prevTime int, prevDistance float64) {
	switch {
	case !r.CurrentLap.started:
		r.CurrentLap = newLap(r.Total.Lap, prevTime, prevDistance)
	case r.Total.Lap > r.CurrentLap.Number:
		r.PastLaps = append(r.PastLaps, r.CurrentLap)
		r.CurrentLap = newLap(r.Total.Lap, prevTime, prevDistance)
	}
	r.CurrentLap.add(f, delta, r.Total.DistanceKM)
}

// Reset clears every accumulated value and opens a new session.
func (r *Ride) Reset() {
	r.SessionID = uuid.NewString()
	r.Total = Metrics{}
	r.CurrentLap = LapSplit{}
	r.PastLaps = []LapSplit{}
	r.TimeInHRZones = TimeInZones{}
	r.TimeInPowerZones = TimeInZones{}
}

// Clone returns a copy with its own histories and laps.
func (r *Ride) Clone() Ride {
	out := *r
	out.Total = r.Total.clone()
	out.PastLaps = append([]LapSplit{}, r.PastLaps...)
	return out
}
