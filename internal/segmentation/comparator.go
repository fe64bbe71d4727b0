package segmentation

import (
	"fmt"
	"math"

	"goregime/adapters/stats/welch"
	"goregime/domain/core"
	"goregime/domain/regime"
)

// Compare runs pairwise statistics over each adjacent segment pair:
// mean difference, variability (CV) difference, Welch significance test
// with Cohen's d, and the target-relative improvement flags. Improvement
// flags are narrative aids only; they never affect correctness.
func Compare(result regime.SegmentationResult, series *regime.Series, cfg regime.Config) []regime.SegmentComparison {
	segments := result.Segments
	comparisons := make([]regime.SegmentComparison, 0, len(segments)-1)

	for i := 1; i < len(segments); i++ {
		left, right := segments[i-1], segments[i]
		test := welch.Test(
			series.ValuesBetween(left.StartIndex, left.EndIndex),
			series.ValuesBetween(right.StartIndex, right.EndIndex),
		)

		cmp := regime.SegmentComparison{
			LeftIndex:      i - 1,
			RightIndex:     i,
			MeanDifference: right.Stats.Mean - left.Stats.Mean,
			RangeChange:    segmentRange(right) - segmentRange(left),
			TStatistic:     test.TStatistic,
			PValue:         test.PValue,
			EffectSize:     test.EffectSize,
			Significant:    test.Significant(cfg.SignificantMaxP, cfg.SignificantMinEffect),
			CVDifference:   cvDifference(left, right),
		}

		if cfg.TargetValue != nil {
			target := *cfg.TargetValue
			cmp.MeanCloserToTarget = math.Abs(right.Stats.Mean-target) < math.Abs(left.Stats.Mean-target)
			cmp.VariabilityDecreased = right.Stats.StdDev < left.Stats.StdDev
			cmp.RangeDecreased = segmentRange(right) < segmentRange(left)
		}

		cmp.Description = describeComparison(cmp)
		comparisons = append(comparisons, cmp)
	}
	return comparisons
}

func segmentRange(s regime.Segment) float64 {
	return s.Stats.Max - s.Stats.Min
}

func cvDifference(left, right regime.Segment) core.Metric {
	cvL, okL := left.Stats.CV.Value()
	cvR, okR := right.Stats.CV.Value()
	if !okL || !okR {
		return core.MetricUnavailable("CV undefined on at least one side")
	}
	return core.MetricValue(cvR - cvL)
}

func describeComparison(cmp regime.SegmentComparison) string {
	verdict := "no statistically meaningful shift"
	if cmp.Significant {
		direction := "rose"
		if cmp.MeanDifference < 0 {
			direction = "fell"
		}
		verdict = fmt.Sprintf("mean %s by %.2f (d=%.2f)", direction, math.Abs(cmp.MeanDifference), cmp.EffectSize)
	}
	return fmt.Sprintf("segments %d-%d: %s, p=%s", cmp.LeftIndex+1, cmp.RightIndex+1, verdict, cmp.PValue)
}
