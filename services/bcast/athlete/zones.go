package athlete

import "fmt"

// Ceiling is the upper bound of the open-ended top zone.
const Ceiling = 9999

// Zone is one intensity band, inclusive on both ends.
type Zone struct {
	Name string `json:"name" yaml:"name"`
	From int    `json:"from" yaml:"from"`
	To   int    `json:"to" yaml:"to"`
}

// Contains reports whether value falls inside the band.
func (z Zone) Contains(value int) bool {
	return value >= z.From && value <= z.To
}

func (z Zone) String() string {
	return fmt.Sprintf("%s %d-%d", z.Name, z.From, z.To)
}

// Zones is an ordered set of contiguous bands starting at zero.
type Zones []Zone

type band struct {
	name     string
	fraction float64
}

var heartRateBands = []band{
	{"Recovery", 0.80},
	{"Aerobic", 0.89},
	{"Tempo", 0.94},
	{"SubThreshold", 0.99},
	{"SuperThreshold", 1.02},
	{"Aerobic Capacity", 1.05},
	{"Anaerobic", 0},
}

var powerBands = []band{
	{"Recovery", 0.55},
	{"Endurance", 0.75},
	{"Tempo", 0.90},
	{"Threshold", 1.05},
	{"VO2 Max", 1.20},
	{"Anaerobic", 1.50},
	{"Neuromuscular", 0},
}

// HeartRateZones builds the seven heart rate zones for a threshold in bpm.
func HeartRateZones(threshold int) Zones {
	return fromThreshold(threshold, heartRateBands)
}

// PowerZones builds the seven power zones for a threshold (FTP) in watts.
func PowerZones(threshold int) Zones {
	return fromThreshold(threshold, powerBands)
}

// fromThreshold truncates threshold*fraction for every upper bound. The last
// band has no fraction and runs up to Ceiling.
func fromThreshold(threshold int, bands []band) Zones {
	zones := make(Zones, 0, len(bands))
	from := 0
	for i, b := range bands {
		to := Ceiling
		if i < len(bands)-1 {
			to = int(float64(threshold) * b.fraction)
		}
		zones = append(zones, Zone{Name: b.name, From: from, To: to})
		from = to + 1
	}
	return zones
}

// Classify returns the index of the first zone containing value, or len(z)
// when no zone does. Callers indexing fixed-size trackers must guard against
// the len(z) result.
func (z Zones) Classify(value int) int {
	for i, zone := range z {
		if zone.Contains(value) {
			return i
		}
	}
	return len(z)
}

// Name returns the name of the zone containing value, or "Unknown".
func (z Zones) Name(value int) string {
	idx := z.Classify(value)
	if idx >= len(z) {
		return "Unknown"
	}
	return z[idx].Name
}

// Names lists the zone names in order.
func (z Zones) Names() []string {
	out := make([]string, len(z))
	for i, zone := range z {
		out[i] = zone.Name
	}
	return out
}
