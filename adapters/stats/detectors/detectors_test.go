package detectors

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"goregime/domain/regime"
	"goregime/internal/indicators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSeries(t *testing.T, values []float64) (*regime.Series, indicators.IndicatorSet, regime.Config) {
	t.Helper()
	cfg := regime.DefaultConfig()
	cfg.MinWindow = 8

	s, err := regime.FromValues(values, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 5*time.Minute)
	require.NoError(t, err)
	ind, err := indicators.Compute(s, cfg)
	require.NoError(t, err)
	return s, ind, cfg
}

func TestMeanShiftDetectorFiresNearMidpoint(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 200)
	for i := range values {
		mean := 5.0
		if i >= 100 {
			mean = 10.0
		}
		values[i] = mean + rng.NormFloat64()*0.1
	}
	series, ind, cfg := buildSeries(t, values)

	candidates, err := (&MeanShiftDetector{}).Detect(context.Background(), series, ind, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	best := candidates[0]
	for _, c := range candidates {
		if c.Significance > best.Significance {
			best = c
		}
	}
	assert.InDelta(t, 100, best.Position, 5, "strongest vote lands within a few samples of the true shift")
	assert.Greater(t, best.EffectSize, 0.5)
	p, ok := best.PValue.Value()
	require.True(t, ok)
	assert.Less(t, p, 0.01)
}

func TestVarianceRatioDetectorFiresOnVolatilityChange(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	values := make([]float64, 240)
	for i := range values {
		sigma := 0.2
		if i >= 120 {
			sigma = 2.5
		}
		values[i] = 7 + rng.NormFloat64()*sigma
	}
	series, ind, cfg := buildSeries(t, values)

	candidates, err := (&VarianceRatioDetector{}).Detect(context.Background(), series, ind, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	best := candidates[0]
	for _, c := range candidates {
		if c.Significance > best.Significance {
			best = c
		}
	}
	assert.InDelta(t, 120, best.Position, float64(ind.Smallest().Window))
	assert.GreaterOrEqual(t, best.Significance, cfg.VarianceRatioMultiplier)
	assert.False(t, best.PValue.Computable(), "ratio test has no p-value")
}

func TestVarianceRatioDetectorIgnoresMeanStep(t *testing.T) {
	// A pure level shift inflates the variance of windows straddling it;
	// the persistence probe must reject those, leaving localization of the
	// step to the mean-shift detector.
	rng := rand.New(rand.NewSource(16))
	values := make([]float64, 400)
	for i := range values {
		mean := 5.0
		if i >= 200 {
			mean = 10.0
		}
		values[i] = mean + rng.NormFloat64()*0.1
	}
	series, ind, cfg := buildSeries(t, values)

	candidates, err := (&VarianceRatioDetector{}).Detect(context.Background(), series, ind, cfg)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestTrendChangeDetectorFiresOnSlopeBreak(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	values := make([]float64, 200)
	for i := range values {
		// V shape: clear downward then upward trend, slope break of 1.0
		// units per sample at index 100.
		if i < 100 {
			values[i] = 100 - 0.5*float64(i) + rng.NormFloat64()*0.5
		} else {
			values[i] = 50 + 0.5*float64(i-100) + rng.NormFloat64()*0.5
		}
	}
	series, ind, cfg := buildSeries(t, values)

	candidates, err := (&TrendChangeDetector{}).Detect(context.Background(), series, ind, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	best := candidates[0]
	for _, c := range candidates {
		if c.Significance > best.Significance {
			best = c
		}
	}
	assert.InDelta(t, 100, best.Position, float64(ind.Largest().Window)/2)
	assert.Greater(t, best.EffectSize, cfg.TrendMinSlopeDelta)
}

func TestDetectorsQuietOnConstantSeries(t *testing.T) {
	values := make([]float64, 120)
	for i := range values {
		values[i] = 6.5
	}
	series, ind, cfg := buildSeries(t, values)

	for _, det := range NewBank().detectors {
		candidates, err := det.Detect(context.Background(), series, ind, cfg)
		require.NoError(t, err, "detector %s", det.Method())
		assert.Empty(t, candidates, "detector %s must stay quiet on a constant series", det.Method())
	}
}

func TestBankRunsAllDetectors(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	values := make([]float64, 200)
	for i := range values {
		mean := 5.0
		if i >= 100 {
			mean = 10.0
		}
		values[i] = mean + rng.NormFloat64()*0.1
	}
	series, ind, cfg := buildSeries(t, values)

	result := NewBank().DetectAll(context.Background(), series, ind, cfg)
	assert.Empty(t, result.Failures)
	require.NotEmpty(t, result.Candidates)

	for i := 1; i < len(result.Candidates); i++ {
		assert.LessOrEqual(t, result.Candidates[i-1].Position, result.Candidates[i].Position,
			"bank output must be chronologically ordered")
	}
}

type explodingDetector struct{}

func (d *explodingDetector) Method() regime.DetectorMethod { return "exploding" }
func (d *explodingDetector) Detect(context.Context, *regime.Series, indicators.IndicatorSet, regime.Config) ([]regime.ChangePointCandidate, error) {
	panic("numerical meltdown")
}

type failingDetector struct{}

func (d *failingDetector) Method() regime.DetectorMethod { return "failing" }
func (d *failingDetector) Detect(context.Context, *regime.Series, indicators.IndicatorSet, regime.Config) ([]regime.ChangePointCandidate, error) {
	return nil, errors.New("window too small")
}

func TestBankIsolatesFailures(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	values := make([]float64, 200)
	for i := range values {
		mean := 5.0
		if i >= 100 {
			mean = 10.0
		}
		values[i] = mean + rng.NormFloat64()*0.1
	}
	series, ind, cfg := buildSeries(t, values)

	bank := &Bank{detectors: []Detector{
		&explodingDetector{},
		&failingDetector{},
		&MeanShiftDetector{},
	}}
	result := bank.DetectAll(context.Background(), series, ind, cfg)

	require.Len(t, result.Failures, 2)
	reasons := map[regime.DetectorMethod]string{}
	for _, f := range result.Failures {
		reasons[f.Method] = f.Reason
	}
	assert.Contains(t, reasons[regime.DetectorMethod("exploding")], "panic")
	assert.Contains(t, reasons[regime.DetectorMethod("failing")], "window too small")

	// The healthy detector still contributed.
	assert.NotEmpty(t, result.Candidates)
}

func TestPickPeaksKeepsLocalMaxima(t *testing.T) {
	hits := []scoredPosition{
		{position: 10, score: 2},
		{position: 12, score: 5},
		{position: 14, score: 3},
		{position: 40, score: 4},
	}
	peaks := pickPeaks(hits, 5)
	require.Len(t, peaks, 2)
	assert.Equal(t, 12, peaks[0].position)
	assert.Equal(t, 40, peaks[1].position)
}

func TestDetectorsRespectContextCancellation(t *testing.T) {
	values := make([]float64, 400)
	for i := range values {
		values[i] = math.Sin(float64(i) / 9)
	}
	series, ind, cfg := buildSeries(t, values)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&MeanShiftDetector{}).Detect(ctx, series, ind, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
