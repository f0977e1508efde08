package ride

import "github.com/02loveslollipop/tpvbc/services/bcast/models"

// LapSplit summarises one lap of the ride.
type LapSplit struct {
	Number          int     `json:"number"`
	StartTime       int     `json:"start_time"`
	StartDistanceKM float64 `json:"start_distance_km"`
	Duration        int     `json:"duration"`
	DistanceKM      float64 `json:"distance_km"`
	AvgSpeed        float64 `json:"avg_speed"`
	AvgPower        float64 `json:"avg_power"`
	AvgHeartRate    float64 `json:"avg_heartrate"`
	MaxPower        int     `json:"max_power"`
	MaxHeartRate    int     `json:"max_heartrate"`

	started  bool
	powerSum float64
	hrSum    float64
}

func newLap(number, startTime int, startDistanceKM float64) LapSplit {
	return LapSplit{Number: number, StartTime: startTime, StartDistanceKM: startDistanceKM, started: true}
}

// add credits a sample ending an interval of delta seconds to the lap.
func (l *LapSplit) add(f models.Focus, delta int, totalDistanceKM float64) {
	l.Duration += delta
	l.DistanceKM = totalDistanceKM - l.StartDistanceKM
	if f.Power > l.MaxPower {
		l.MaxPower = f.Power
	}
	if f.HeartRate > l.MaxHeartRate {
		l.MaxHeartRate = f.HeartRate
	}
	l.powerSum += float64(f.Power * delta)
	l.hrSum += float64(f.HeartRate * delta)
	if l.Duration > 0 {
		l.AvgSpeed = l.DistanceKM / float64(l.Duration) * 3600
		l.AvgPower = l.powerSum / float64(l.Duration)
		l.AvgHeartRate = l.hrSum / float64(l.Duration)
	}
}
