package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractalDimensionConstantIsOne(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 5.5
	}

	v, ok := FractalDimension(values).Value()
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestFractalDimensionLineNearOne(t *testing.T) {
	values := make([]float64, 400)
	for i := range values {
		values[i] = 0.25 * float64(i)
	}

	v, ok := FractalDimension(values).Value()
	require.True(t, ok)
	assert.Less(t, v, 1.4)
	assert.GreaterOrEqual(t, v, 1.0)
}

func TestFractalDimensionNoiseExceedsLine(t *testing.T) {
	line := make([]float64, 400)
	for i := range line {
		line[i] = float64(i)
	}

	lineDim, ok := FractalDimension(line).Value()
	require.True(t, ok)
	noiseDim, ok := FractalDimension(noiseValues(400, 29)).Value()
	require.True(t, ok)

	assert.Greater(t, noiseDim, lineDim)
	assert.LessOrEqual(t, noiseDim, 3.0)
}

func TestFractalDimensionShortSeriesUnavailable(t *testing.T) {
	m := FractalDimension(noiseValues(10, 1))
	assert.False(t, m.Computable())
}
