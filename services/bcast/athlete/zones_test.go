package athlete

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerZonesFor200W(t *testing.T) {
	zones := PowerZones(200)
	require.Len(t, zones, 7)

	expected := Zones{
		{Name: "Recovery", From: 0, To: 110},
		{Name: "Endurance", From: 111, To: 150},
		{Name: "Tempo", From: 151, To: 180},
		{Name: "Threshold", From: 181, To: 210},
		{Name: "VO2 Max", From: 211, To: 240},
		{Name: "Anaerobic", From: 241, To: 300},
		{Name: "Neuromuscular", From: 301, To: Ceiling},
	}
	assert.Equal(t, expected, zones)
}

func TestHeartRateZonesTruncate(t *testing.T) {
	zones := HeartRateZones(171)
	require.Len(t, zones, 7)

	uppers := []int{136, 152, 160, 169, 174, 179, Ceiling}
	for i, z := range zones {
		assert.Equal(t, uppers[i], z.To, "zone %d", i)
	}
	assert.Equal(t, "Aerobic Capacity", zones[5].Name)
	assert.Equal(t, "Anaerobic", zones[6].Name)
}

func TestZonesContiguousForManyThresholds(t *testing.T) {
	for threshold := 100; threshold <= 400; threshold++ {
		for _, zones := range []Zones{HeartRateZones(threshold), PowerZones(threshold)} {
			require.Len(t, zones, 7)
			assert.Equal(t, 0, zones[0].From)
			assert.Equal(t, Ceiling, zones[len(zones)-1].To)

			for i := 0; i < len(zones)-1; i++ {
				assert.Equal(t, zones[i].To+1, zones[i+1].From, "threshold %d zone %d", threshold, i)
				assert.Equal(t, i, zones.Classify(zones[i].To))
				assert.Equal(t, i+1, zones.Classify(zones[i].To+1))
			}
		}
	}
}

func TestClassifySentinel(t *testing.T) {
	zones := PowerZones(200)

	assert.Equal(t, 0, zones.Classify(0))
	assert.Equal(t, 6, zones.Classify(Ceiling))
	assert.Equal(t, len(zones), zones.Classify(Ceiling+1))
	assert.Equal(t, len(zones), zones.Classify(-1))
}

func TestZoneName(t *testing.T) {
	zones := PowerZones(200)

	assert.Equal(t, "Recovery", zones.Name(50))
	assert.Equal(t, "Endurance", zones.Name(150))
	assert.Equal(t, "Anaerobic", zones.Name(250))
	assert.Equal(t, "Neuromuscular", zones.Name(400))
	assert.Equal(t, "Unknown", zones.Name(20000))
	assert.Equal(t, []string{"Recovery", "Endurance", "Tempo", "Threshold", "VO2 Max", "Anaerobic", "Neuromuscular"}, zones.Names())
}
