package athlete

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHRThreshold    = 171
	DefaultPowerThreshold = 200
	DefaultWeightKG       = 61.0
)

// Athlete carries the thresholds used to derive zones and W/kg.
type Athlete struct {
	HRThreshold    int     `json:"hr_threshold"`
	PowerThreshold int     `json:"power_threshold"`
	WeightKG       float64 `json:"weight_kg"`
	HRZones        Zones   `json:"hr_zones"`
	PowerZones     Zones   `json:"power_zones"`
}

// New builds an athlete and derives both zone sets.
func New(hrThreshold, powerThreshold int, weightKG float64) (Athlete, error) {
	if hrThreshold <= 0 {
		return Athlete{}, fmt.Errorf("invalid hr threshold: %d", hrThreshold)
	}
	if powerThreshold <= 0 {
		return Athlete{}, fmt.Errorf("invalid power threshold: %d", powerThreshold)
	}
	if weightKG <= 0 {
		return Athlete{}, fmt.Errorf("invalid weight: %v", weightKG)
	}
	return Athlete{
		HRThreshold:    hrThreshold,
		PowerThreshold: powerThreshold,
		WeightKG:       weightKG,
		HRZones:        HeartRateZones(hrThreshold),
		PowerZones:     PowerZones(powerThreshold),
	}, nil
}

// Default returns the built-in profile: 171 bpm, 200 W, 61 kg.
func Default() Athlete {
	a, _ := New(DefaultHRThreshold, DefaultPowerThreshold, DefaultWeightKG)
	return a
}

type profileFile struct {
	HRThreshold    int     `yaml:"hr_threshold"`
	PowerThreshold int     `yaml:"power_threshold"`
	WeightKG       float64 `yaml:"weight_kg"`
}

// LoadProfile reads a YAML profile. Missing keys fall back to the defaults.
func LoadProfile(path string) (Athlete, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Athlete{}, fmt.Errorf("read athlete profile: %w", err)
	}
	return ParseProfile(raw)
}

// ParseProfile decodes a YAML profile document.
func ParseProfile(raw []byte) (Athlete, error) {
	p := profileFile{
		HRThreshold:    DefaultHRThreshold,
		PowerThreshold: DefaultPowerThreshold,
		WeightKG:       DefaultWeightKG,
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Athlete{}, fmt.Errorf("decode athlete profile: %w", err)
	}
	a, err := New(p.HRThreshold, p.PowerThreshold, p.WeightKG)
	if err != nil {
		return Athlete{}, fmt.Errorf("athlete profile: %w", err)
	}
	return a, nil
}
