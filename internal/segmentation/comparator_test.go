package segmentation

import (
	"math/rand"
	"testing"
	"time"

	"goregime/domain/regime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shiftedSeries(t *testing.T, n int, firstMean, secondMean, noise float64, seed int64) *regime.Series {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		mean := firstMean
		if i >= n/2 {
			mean = secondMean
		}
		values[i] = mean + rng.NormFloat64()*noise
	}
	s, err := regime.FromValues(values, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, err)
	return s
}

func TestCompareFlagsSignificantShift(t *testing.T) {
	cfg := regime.DefaultConfig()
	series := shiftedSeries(t, 120, 5, 10, 0.1, 3)

	result, err := Optimize([]regime.MergedChangePoint{mergedAt(60, 0.9)}, series, cfg)
	require.NoError(t, err)

	comparisons := Compare(result, series, cfg)
	require.Len(t, comparisons, 1)

	cmp := comparisons[0]
	assert.True(t, cmp.Significant)
	assert.InDelta(t, 5.0, cmp.MeanDifference, 0.2)
	p, ok := cmp.PValue.Value()
	require.True(t, ok)
	assert.Less(t, p, 0.001)
	assert.Contains(t, cmp.Description, "mean rose")
}

func TestCompareNoShiftNotSignificant(t *testing.T) {
	cfg := regime.DefaultConfig()
	series := shiftedSeries(t, 120, 7, 7, 0.5, 4)

	result, err := Optimize(nil, series, cfg)
	require.NoError(t, err)

	comparisons := Compare(result, series, cfg)
	require.Len(t, comparisons, 1)
	assert.False(t, comparisons[0].Significant)
	assert.Contains(t, comparisons[0].Description, "no statistically meaningful shift")
}

func TestCompareImprovementFlags(t *testing.T) {
	cfg := regime.DefaultConfig()
	target := 6.0
	cfg.TargetValue = &target

	// Second half is closer to target, less variable, tighter range.
	rng := rand.New(rand.NewSource(5))
	values := make([]float64, 120)
	for i := range values {
		if i < 60 {
			values[i] = 10 + rng.NormFloat64()*1.5
		} else {
			values[i] = 6.2 + rng.NormFloat64()*0.2
		}
	}
	series, err := regime.FromValues(values, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Hour)
	require.NoError(t, err)

	result, err := Optimize([]regime.MergedChangePoint{mergedAt(60, 0.9)}, series, cfg)
	require.NoError(t, err)

	comparisons := Compare(result, series, cfg)
	require.Len(t, comparisons, 1)
	assert.True(t, comparisons[0].MeanCloserToTarget)
	assert.True(t, comparisons[0].VariabilityDecreased)
	assert.True(t, comparisons[0].RangeDecreased)
}

func TestCompareWithoutTargetSkipsFlags(t *testing.T) {
	cfg := regime.DefaultConfig()
	series := shiftedSeries(t, 120, 5, 10, 0.1, 6)

	result, err := Optimize([]regime.MergedChangePoint{mergedAt(60, 0.9)}, series, cfg)
	require.NoError(t, err)

	comparisons := Compare(result, series, cfg)
	require.Len(t, comparisons, 1)
	assert.False(t, comparisons[0].MeanCloserToTarget)
	assert.False(t, comparisons[0].VariabilityDecreased)
	assert.False(t, comparisons[0].RangeDecreased)
}
