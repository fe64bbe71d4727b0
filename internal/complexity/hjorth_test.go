package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHjorthComplexitySinusoidNearOne(t *testing.T) {
	v, ok := HjorthComplexity(sineValues(1000, 25)).Value()
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 0.1)
}

func TestHjorthComplexityNoiseExceedsSinusoid(t *testing.T) {
	sine, ok := HjorthComplexity(sineValues(1000, 25)).Value()
	require.True(t, ok)
	noise, ok := HjorthComplexity(noiseValues(1000, 19)).Value()
	require.True(t, ok)
	assert.Greater(t, noise, sine)
}

func TestHjorthComplexityConstantUnavailable(t *testing.T) {
	m := HjorthComplexity(make([]float64, 50))
	assert.False(t, m.Computable())
}

func TestHjorthComplexityShortSeriesUnavailable(t *testing.T) {
	m := HjorthComplexity([]float64{1, 2, 3})
	assert.False(t, m.Computable())
}
