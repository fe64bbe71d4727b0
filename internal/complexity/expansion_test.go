package complexity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logisticValues(n int, x0 float64) []float64 {
	values := make([]float64, n)
	x := x0
	for i := range values {
		values[i] = x
		x = 4 * x * (1 - x)
	}
	return values
}

func TestExpansionRateChaoticMapDiverges(t *testing.T) {
	v, ok := ExpansionRate(context.Background(), logisticValues(2000, 0.4), 500).Value()
	require.True(t, ok)
	assert.Greater(t, v, 0.1)
}

func TestExpansionRatePeriodicSignalNearZero(t *testing.T) {
	// Incommensurate period so phase-space neighbors sit at genuine small
	// distances instead of floating-point epsilon.
	v, ok := ExpansionRate(context.Background(), sineValues(1000, 23.7), 500).Value()
	require.True(t, ok)
	assert.Less(t, v, 0.05)
	assert.GreaterOrEqual(t, v, 0.0)
}

func TestExpansionRateShortSeriesUnavailable(t *testing.T) {
	m := ExpansionRate(context.Background(), noiseValues(20, 1), 500)
	assert.False(t, m.Computable())
}

func TestExpansionRateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := ExpansionRate(ctx, noiseValues(500, 1), 500)
	require.False(t, m.Computable())
	assert.Equal(t, "deadline exceeded", m.FailureReason())
}
