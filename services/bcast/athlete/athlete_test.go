package athlete

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	a := Default()

	assert.Equal(t, 171, a.HRThreshold)
	assert.Equal(t, 200, a.PowerThreshold)
	assert.Equal(t, 61.0, a.WeightKG)
	assert.Equal(t, HeartRateZones(171), a.HRZones)
	assert.Equal(t, PowerZones(200), a.PowerZones)
}

func TestNewRejectsNonPositive(t *testing.T) {
	_, err := New(0, 200, 61)
	assert.Error(t, err)
	_, err = New(171, -5, 61)
	assert.Error(t, err)
	_, err = New(171, 200, 0)
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "athlete.yaml")
	require.NoError(t, os.WriteFile(path, []byte("power_threshold: 250\nweight_kg: 70.5\n"), 0o644))

	a, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultHRThreshold, a.HRThreshold)
	assert.Equal(t, 250, a.PowerThreshold)
	assert.Equal(t, 70.5, a.WeightKG)
	assert.Equal(t, PowerZones(250), a.PowerZones)
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseProfile([]byte("hr_threshold: [1, 2"))
	assert.Error(t, err)

	_, err = ParseProfile([]byte("weight_kg: -1\n"))
	assert.ErrorContains(t, err, "athlete profile")
}
