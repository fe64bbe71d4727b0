package detectors

import (
	"context"
	"math"

	"goregime/adapters/stats/welch"
	"goregime/domain/core"
	"goregime/domain/regime"
	"goregime/internal/indicators"
)

// MeanShiftDetector runs Welch's two-sample location test between the
// windows on either side of each candidate position. A position fires when
// p < cfg.MeanShiftMaxP and Cohen's |d| > cfg.MeanShiftMinEffect.
type MeanShiftDetector struct{}

func (d *MeanShiftDetector) Method() regime.DetectorMethod {
	return regime.MethodMeanShift
}

func (d *MeanShiftDetector) Detect(ctx context.Context, series *regime.Series, ind indicators.IndicatorSet, cfg regime.Config) ([]regime.ChangePointCandidate, error) {
	w := ind.Smallest().Window
	n := series.Len()
	if n < 2*w {
		return nil, core.NewInsufficientDataError("mean-shift detector", 2*w, n)
	}

	hits := make([]scoredPosition, 0, n/w)
	results := make(map[int]welch.Result)
	for p := w; p+w <= n; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := welch.Test(series.ValuesBetween(p-w, p), series.ValuesBetween(p, p+w))
		pVal, ok := res.PValue.Value()
		if !ok {
			continue
		}
		if pVal < cfg.MeanShiftMaxP && math.Abs(res.EffectSize) > cfg.MeanShiftMinEffect {
			// |t| peaks at the true boundary; p-values saturate at 0 across a
			// whole plateau and cannot rank positions.
			score := math.Abs(res.TStatistic)
			hits = append(hits, scoredPosition{position: p, score: score})
			results[p] = res
		}
	}

	candidates := make([]regime.ChangePointCandidate, 0, len(hits))
	for _, peak := range pickPeaks(hits, w) {
		res := results[peak.position]
		candidates = append(candidates, regime.ChangePointCandidate{
			Position:     peak.position,
			Method:       regime.MethodMeanShift,
			Significance: peak.score,
			EffectSize:   math.Abs(res.EffectSize),
			PValue:       res.PValue,
		})
	}
	return candidates, nil
}
