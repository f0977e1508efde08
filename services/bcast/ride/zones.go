package ride

import "github.com/02loveslollipop/tpvbc/services/bcast/athlete"

// ZoneCount is the number of buckets in a TimeInZones.
const ZoneCount = 7

// TimeInZones holds the seconds spent in each zone.
type TimeInZones [ZoneCount]int

// AddTime credits seconds to a zone. Indices outside the buckets, including
// the Classify sentinel, are ignored.
func (t *TimeInZones) AddTime(zone, seconds int) {
	if zone < 0 || zone >= ZoneCount {
		return
	}
	t[zone] += seconds
}

// Total returns the seconds across all buckets.
func (t TimeInZones) Total() int {
	total := 0
	for _, s := range t {
		total += s
	}
	return total
}

// Percentages returns each bucket's share of the total. With no time at all
// the first bucket reports 100.
func (t TimeInZones) Percentages() [ZoneCount]float64 {
	var out [ZoneCount]float64
	total := t.Total()
	if total == 0 {
		out[0] = 100
		return out
	}
	for i, s := range t {
		out[i] = float64(s) / float64(total) * 100
	}
	return out
}

// ZoneShare is the time spent in one named zone.
type ZoneShare struct {
	Zone       string  `json:"zone"`
	From       int     `json:"from"`
	To         int     `json:"to"`
	Seconds    int     `json:"seconds"`
	Percentage float64 `json:"percentage"`
}

// Shares pairs every bucket with its zone definition.
func (t TimeInZones) Shares(zones athlete.Zones) []ZoneShare {
	pct := t.Percentages()
	out := make([]ZoneShare, 0, ZoneCount)
	for i := 0; i < ZoneCount && i < len(zones); i++ {
		out = append(out, ZoneShare{
			Zone:       zones[i].Name,
			From:       zones[i].From,
			To:         zones[i].To,
			Seconds:    t[i],
			Percentage: pct[i],
		})
	}
	return out
}
