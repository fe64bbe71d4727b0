package detectors

import (
	"context"
	"math"

	"goregime/domain/core"
	"goregime/domain/regime"
	"goregime/internal/indicators"

	"gonum.org/v1/gonum/stat"
)

// TrendChangeDetector fits linear regressions to the windows before and
// after each candidate position and flags slope breaks. A position fires
// when |slope difference| exceeds cfg.TrendMinSlopeDelta (series units per
// sample) and the combined fit quality of both windows clears cfg.TrendMinR2.
type TrendChangeDetector struct{}

func (d *TrendChangeDetector) Method() regime.DetectorMethod {
	return regime.MethodTrendChange
}

func (d *TrendChangeDetector) Detect(ctx context.Context, series *regime.Series, ind indicators.IndicatorSet, cfg regime.Config) ([]regime.ChangePointCandidate, error) {
	// Trend fits want the longest supported window.
	w := ind.Largest().Window
	n := series.Len()
	if n < 2*w {
		return nil, core.NewInsufficientDataError("trend-change detector", 2*w, n)
	}

	xs := make([]float64, w)
	for i := range xs {
		xs[i] = float64(i)
	}

	hits := make([]scoredPosition, 0, n/w)
	for p := w; p+w <= n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		left := series.ValuesBetween(p-w, p)
		right := series.ValuesBetween(p, p+w)

		alphaL, betaL := stat.LinearRegression(xs, left, nil, false)
		alphaR, betaR := stat.LinearRegression(xs, right, nil, false)

		slopeDelta := math.Abs(betaR - betaL)
		if slopeDelta <= cfg.TrendMinSlopeDelta {
			continue
		}

		r2L := stat.RSquared(xs, left, nil, alphaL, betaL)
		r2R := stat.RSquared(xs, right, nil, alphaR, betaR)
		if math.IsNaN(r2L) || math.IsNaN(r2R) {
			continue
		}
		// Combined fit quality: both windows must individually look linear,
		// so the gate is on the weaker fit.
		if math.Min(r2L, r2R) <= cfg.TrendMinR2 {
			continue
		}
		hits = append(hits, scoredPosition{position: p, score: slopeDelta})
	}

	candidates := make([]regime.ChangePointCandidate, 0, len(hits))
	for _, peak := range pickPeaks(hits, w) {
		candidates = append(candidates, regime.ChangePointCandidate{
			Position:     peak.position,
			Method:       regime.MethodTrendChange,
			Significance: peak.score / cfg.TrendMinSlopeDelta,
			EffectSize:   peak.score,
			PValue:       core.MetricUnavailable("slope-break test carries no p-value"),
		})
	}
	return candidates, nil
}
