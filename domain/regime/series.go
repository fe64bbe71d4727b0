package regime

import (
	"time"

	"goregime/domain/core"
)

// Point is one observation of the monitored signal.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is an ordered physiological recording: timestamps are monotonic
// non-decreasing and the slice is never mutated after construction. All
// derived artifacts are recomputed deterministically from (Series, Config).
type Series struct {
	points   []Point
	interval time.Duration
}

// NewSeries validates ordering and wraps the observations. The nominal
// sampling interval is what the upstream device reports (e.g. 5 minutes for
// CGM traces); when zero it is inferred from the median gap.
func NewSeries(points []Point, interval time.Duration) (*Series, error) {
	if len(points) < 2 {
		return nil, core.NewInsufficientDataError("series", 2, len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time.Before(points[i-1].Time) {
			return nil, core.ErrNonMonotonicTime
		}
	}
	owned := make([]Point, len(points))
	copy(owned, points)

	if interval <= 0 {
		interval = inferInterval(owned)
	}
	return &Series{points: owned, interval: interval}, nil
}

// FromValues builds a series from bare values at a fixed sampling interval,
// anchored at start. Convenient for tests and for collaborators that only
// hold a numeric array.
func FromValues(values []float64, start time.Time, interval time.Duration) (*Series, error) {
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Time: start.Add(time.Duration(i) * interval), Value: v}
	}
	return NewSeries(points, interval)
}

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.points) }

// At returns the observation at index i.
func (s *Series) At(i int) Point { return s.points[i] }

// Values copies out the raw numeric values.
func (s *Series) Values() []float64 {
	values := make([]float64, len(s.points))
	for i, p := range s.points {
		values[i] = p.Value
	}
	return values
}

// ValuesBetween copies values of the half-open index range [start, end).
func (s *Series) ValuesBetween(start, end int) []float64 {
	values := make([]float64, 0, end-start)
	for i := start; i < end; i++ {
		values = append(values, s.points[i].Value)
	}
	return values
}

// TimeAt returns the timestamp at index i.
func (s *Series) TimeAt(i int) time.Time { return s.points[i].Time }

// Interval returns the nominal sampling interval.
func (s *Series) Interval() time.Duration { return s.interval }

// Duration returns the recording span from first to last observation.
func (s *Series) Duration() time.Duration {
	return s.points[len(s.points)-1].Time.Sub(s.points[0].Time)
}

// SamplesPerHour converts the nominal interval into a sample rate.
func (s *Series) SamplesPerHour() float64 {
	if s.interval <= 0 {
		return 0
	}
	return float64(time.Hour) / float64(s.interval)
}

func inferInterval(points []Point) time.Duration {
	gaps := make([]time.Duration, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		gaps = append(gaps, points[i].Time.Sub(points[i-1].Time))
	}
	// Median gap is robust against recording dropouts.
	for i := 0; i < len(gaps)-1; i++ {
		for j := i + 1; j < len(gaps); j++ {
			if gaps[i] > gaps[j] {
				gaps[i], gaps[j] = gaps[j], gaps[i]
			}
		}
	}
	return gaps[len(gaps)/2]
}
