package regime

import (
	"testing"
	"time"

	"goregime/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestNewSeriesRejectsNonMonotonicTime(t *testing.T) {
	points := []Point{
		{Time: testStart, Value: 1},
		{Time: testStart.Add(5 * time.Minute), Value: 2},
		{Time: testStart.Add(2 * time.Minute), Value: 3},
	}
	_, err := NewSeries(points, 5*time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNonMonotonicTime)
}

func TestNewSeriesRejectsTooShort(t *testing.T) {
	_, err := NewSeries([]Point{{Time: testStart, Value: 1}}, time.Minute)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientDataError(err))
}

func TestSeriesIsImmutable(t *testing.T) {
	points := []Point{
		{Time: testStart, Value: 1},
		{Time: testStart.Add(5 * time.Minute), Value: 2},
	}
	s, err := NewSeries(points, 5*time.Minute)
	require.NoError(t, err)

	points[0].Value = 99
	assert.Equal(t, 1.0, s.At(0).Value, "series must copy its input")

	values := s.Values()
	values[1] = 99
	assert.Equal(t, 2.0, s.At(1).Value, "Values must copy out")
}

func TestSeriesInfersIntervalFromMedianGap(t *testing.T) {
	points := []Point{
		{Time: testStart, Value: 1},
		{Time: testStart.Add(5 * time.Minute), Value: 2},
		{Time: testStart.Add(10 * time.Minute), Value: 3},
		// Recording dropout: a large gap must not skew the inferred interval.
		{Time: testStart.Add(2 * time.Hour), Value: 4},
		{Time: testStart.Add(2*time.Hour + 5*time.Minute), Value: 5},
	}
	s, err := NewSeries(points, 0)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, s.Interval())
}

func TestFromValues(t *testing.T) {
	s, err := FromValues([]float64{1, 2, 3, 4}, testStart, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, testStart.Add(3*time.Minute), s.TimeAt(3))
	assert.Equal(t, 60.0, s.SamplesPerHour())
	assert.Equal(t, []float64{2, 3}, s.ValuesBetween(1, 3))
}
