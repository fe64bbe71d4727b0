package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionRatioNoiseExceedsPattern(t *testing.T) {
	pattern := make([]float64, 256)
	for i := range pattern {
		pattern[i] = float64(i % 2)
	}

	patternRatio, ok := CompressionRatio(pattern).Value()
	require.True(t, ok)
	noiseRatio, ok := CompressionRatio(noiseValues(256, 31)).Value()
	require.True(t, ok)

	assert.Greater(t, noiseRatio, patternRatio)
}

func TestCompressionRatioBounds(t *testing.T) {
	for _, values := range [][]float64{
		make([]float64, 64),
		noiseValues(64, 5),
		logisticValues(64, 0.4),
	} {
		v, ok := CompressionRatio(values).Value()
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestCompressionRatioShortSeriesUnavailable(t *testing.T) {
	m := CompressionRatio(noiseValues(8, 1))
	assert.False(t, m.Computable())
}
