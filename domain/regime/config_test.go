package regime

import (
	"testing"

	"goregime/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min above max", func(c *Config) { c.MinSegments = 5; c.MaxSegments = 3 }},
		{"zero min segments", func(c *Config) { c.MinSegments = 0 }},
		{"non-positive duration", func(c *Config) { c.MinSegmentDurationHours = 0 }},
		{"variance multiplier below 1", func(c *Config) { c.VarianceRatioMultiplier = 0.9 }},
		{"p threshold out of range", func(c *Config) { c.MeanShiftMaxP = 1.5 }},
		{"weights not summing to 1", func(c *Config) { c.MethodSupportWeight = 0.9 }},
		{"tiny sample cap", func(c *Config) { c.SampleCap = 1 }},
		{"bad window fraction", func(c *Config) { c.WindowFractions = []float64{1.5} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, core.IsConfigError(err), "expected ErrInvalidConfig, got %v", err)
		})
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	doc := []byte("min_segments: 3\nmax_segments: 6\nclinical_mode: true\n")
	cfg, err := LoadConfig(doc)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MinSegments)
	assert.Equal(t, 6, cfg.MaxSegments)
	assert.True(t, cfg.ClinicalMode)
	// Untouched fields keep their defaults.
	assert.Equal(t, 2.0, cfg.VarianceRatioMultiplier)
	assert.Equal(t, 0.2, cfg.EntropyTolerance)
}

func TestLoadConfigRejectsInvalidDocument(t *testing.T) {
	_, err := LoadConfig([]byte("min_segments: 9\nmax_segments: 2\n"))
	require.Error(t, err)
	assert.True(t, core.IsConfigError(err))
}
