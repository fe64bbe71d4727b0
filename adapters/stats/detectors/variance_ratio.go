package detectors

import (
	"context"
	"math"

	"goregime/domain/core"
	"goregime/domain/regime"
	"goregime/internal/indicators"

	"github.com/montanaflynn/stats"
)

// minUsefulVariance guards the ratio against numerically dead windows.
const minUsefulVariance = 1e-12

// VarianceRatioDetector flags positions where the variance of the trailing
// window differs sharply from the variance of the leading window. A position
// fires only when its ratio exceeds both the configured percentile of all
// computed ratios and the fixed multiplier.
type VarianceRatioDetector struct{}

func (d *VarianceRatioDetector) Method() regime.DetectorMethod {
	return regime.MethodVarianceRatio
}

func (d *VarianceRatioDetector) Detect(ctx context.Context, series *regime.Series, ind indicators.IndicatorSet, cfg regime.Config) ([]regime.ChangePointCandidate, error) {
	scale := ind.Smallest()
	w := scale.Window
	n := series.Len()
	if n < 2*w {
		return nil, core.NewInsufficientDataError("variance-ratio detector", 2*w, n)
	}

	positions := make([]int, 0, n)
	ratios := make([]float64, 0, n)
	for p := w; p+w <= n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Trailing windows: variance[p-1] covers [p-w, p), variance[p+w-1]
		// covers [p, p+w).
		left := scale.Variance[p-1]
		right := scale.Variance[p+w-1]
		if math.IsNaN(left) || math.IsNaN(right) {
			continue
		}
		if left < minUsefulVariance && right < minUsefulVariance {
			continue
		}
		left = math.Max(left, minUsefulVariance)
		right = math.Max(right, minUsefulVariance)
		ratio := math.Max(left, right) / math.Min(left, right)
		positions = append(positions, p)
		ratios = append(ratios, ratio)
	}
	if len(ratios) == 0 {
		return nil, nil
	}

	cutoff, err := stats.Percentile(ratios, cfg.VarianceRatioPercentile)
	if err != nil {
		return nil, err
	}

	hits := make([]scoredPosition, 0, len(ratios))
	for i, ratio := range ratios {
		if ratio >= cutoff && ratio >= cfg.VarianceRatioMultiplier {
			if !sustainedChange(scale.Variance, positions[i], w, n, cfg.VarianceRatioMultiplier) {
				continue
			}
			hits = append(hits, scoredPosition{position: positions[i], score: ratio})
		}
	}

	if len(hits) == 0 {
		return nil, nil
	}

	candidates := make([]regime.ChangePointCandidate, 0, len(hits))
	for _, peak := range pickPeaks(hits, w) {
		candidates = append(candidates, regime.ChangePointCandidate{
			Position:     peak.position,
			Method:       regime.MethodVarianceRatio,
			Significance: peak.score,
			EffectSize:   peak.score,
			PValue:       core.MetricUnavailable("ratio test carries no p-value"),
		})
	}
	return candidates, nil
}

// sustainedChange screens out the straddle artifact: a pure mean step
// inflates the variance of any window crossing it for exactly one window
// length, so a genuine variance change must still show an elevated ratio when
// the high-variance side is probed one full window further out. Positions too
// close to the series edge to probe are given the benefit of the doubt.
func sustainedChange(variance []float64, p, w, n int, multiplier float64) bool {
	left := math.Max(variance[p-1], minUsefulVariance)
	right := math.Max(variance[p+w-1], minUsefulVariance)

	if right >= left {
		if p+2*w > n {
			return true
		}
		confirm := math.Max(variance[p+2*w-1], minUsefulVariance)
		return confirm/left >= multiplier
	}
	if p-2*w < 0 {
		return true
	}
	confirm := math.Max(variance[p-w-1], minUsefulVariance)
	return confirm/right >= multiplier
}
