package ride

import (
	"fmt"

	"github.com/02loveslollipop/tpvbc/services/bcast/models"
)

// speedDivisor converts the upstream speed and wind encoding to km/h.
const speedDivisor = 275.0

// Speed is tracked in km/h.
type Speed struct {
	Cur float64 `json:"cur"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`

	seeded bool
}

func (s *Speed) update(f models.Focus) {
	s.Cur = float64(f.Speed) / speedDivisor
	if !s.seeded || s.Cur > s.Max {
		s.Max = s.Cur
	}
	if f.Time > 0 {
		s.Avg = float64(f.Distance) / float64(f.Time) * 3.6
	}
	s.seeded = true
}

// Series is a current/min/max/avg reading with its plotted history. It backs
// both heart rate and cadence.
type Series struct {
	Cur     int   `json:"cur"`
	Min     int   `json:"min"`
	Max     int   `json:"max"`
	Avg     int   `json:"avg"`
	History []int `json:"history"`

	seeded bool
}

func (s *Series) update(cur, avg int) {
	s.Cur = cur
	if !s.seeded || cur < s.Min {
		s.Min = cur
	}
	if !s.seeded || cur > s.Max {
		s.Max = cur
	}
	s.Avg = avg
	s.History = append(s.History, cur)
	s.seeded = true
}

// Power is tracked in watts. Nrm and Avg are taken from upstream.
type Power struct {
	Cur     int     `json:"cur"`
	Max     int     `json:"max"`
	Nrm     int     `json:"nrm"`
	Avg     int     `json:"avg"`
	WPK     float64 `json:"wpk"`
	History []int   `json:"history"`

	seeded bool
}

func (p *Power) update(f models.Focus, weightKG float64) {
	p.Cur = f.Power
	if !p.seeded || p.Cur > p.Max {
		p.Max = p.Cur
	}
	p.Nrm = f.NrmPower
	p.Avg = f.AvgPower
	if weightKG > 0 {
		p.WPK = float64(p.Cur) / weightKG
	}
	p.History = append(p.History, p.Cur)
	p.seeded = true
}

// Height reports the cumulative ascent as sent upstream and the current slope.
type Height struct {
	Ascend int `json:"ascend"`
	Slope  int `json:"slope"`
}

func (h *Height) update(f models.Focus) {
	h.Ascend = f.Height
	h.Slope = f.Slope
}

// Wind is valid before the ride timer starts.
type Wind struct {
	Speed float64 `json:"speed"`
	Angle int     `json:"angle"`
	Draft int     `json:"draft"`
}

func (w *Wind) update(f models.Focus) {
	w.Speed = float64(f.WindSpeed) / speedDivisor
	w.Angle = f.WindAngle
	w.Draft = f.Draft
}

// Metrics accumulates one ride's statistics.
type Metrics struct {
	Time       int     `json:"time"`
	DistanceKM float64 `json:"distance_km"`
	TSS        int     `json:"tss"`
	Calories   int     `json:"calories"`
	Lap        int     `json:"lap"`
	Speed      Speed   `json:"speed"`
	HeartRate  Series  `json:"heartrate"`
	Cadence    Series  `json:"cadence"`
	Power      Power   `json:"power"`
	Height     Height  `json:"height"`
	Wind       Wind    `json:"wind"`
}

func (m *Metrics) apply(f models.Focus, weightKG float64) {
	m.Time = f.Time
	m.DistanceKM = float64(f.Distance) / 1000
	m.TSS = f.TSS
	m.Calories = f.Calories

	m.Speed.update(f)
	m.HeartRate.update(f.HeartRate, f.AvgHeartRate)
	m.Cadence.update(f.Cadence, f.AvgCadence)
	m.Power.update(f, weightKG)
	m.Height.update(f)

	if f.EventLapsDone >= 0 {
		m.Lap = f.EventLapsDone + 1
	}
}

// TimeHMS formats the elapsed time as HH:MM:SS.
func (m Metrics) TimeHMS() string {
	return fmt.Sprintf("%02d:%02d:%02d", m.Time/3600, (m.Time/60)%60, m.Time%60)
}

func (m Metrics) clone() Metrics {
	out := m
	out.HeartRate.History = append([]int(nil), m.HeartRate.History...)
	out.Cadence.History = append([]int(nil), m.Cadence.History...)
	out.Power.History = append([]int(nil), m.Power.History...)
	return out
}
