// Package welch implements Welch's unequal-variance two-sample location
// test with Cohen's d effect size. It backs both the mean-shift change-point
// detector and the adjacent-segment comparator.
package welch

import (
	"math"

	"goregime/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// maxEffectSize caps Cohen's d when the pooled variance vanishes.
const maxEffectSize = 1e6

// Result holds the outcome of one two-sample comparison.
type Result struct {
	TStatistic float64
	DF         float64
	PValue     core.Metric
	// EffectSize is Cohen's d with pooled standard deviation.
	EffectSize float64
	MeanLeft   float64
	MeanRight  float64
	MeanDiff   float64
}

// Test compares two samples. Degenerate inputs (fewer than two values per
// side, or zero variance on both sides) yield a not-computable p-value
// rather than a fabricated significance.
func Test(left, right []float64) Result {
	n1 := float64(len(left))
	n2 := float64(len(right))
	if n1 < 2 || n2 < 2 {
		return Result{PValue: core.MetricUnavailable("need at least two samples per side")}
	}

	mean1, var1 := meanVariance(left)
	mean2, var2 := meanVariance(right)

	res := Result{
		MeanLeft:  mean1,
		MeanRight: mean2,
		MeanDiff:  mean2 - mean1,
	}

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		// Identical constants on both sides: no detectable shift.
		if mean1 == mean2 {
			res.PValue = core.MetricValue(1)
			return res
		}
		// Different constants: a shift with no sampling noise. Cohen's d is
		// unbounded here; cap it so results stay serializable.
		res.PValue = core.MetricValue(0)
		res.EffectSize = maxEffectSize
		if mean2 < mean1 {
			res.EffectSize = -maxEffectSize
		}
		return res
	}

	res.TStatistic = (mean2 - mean1) / se

	// Welch-Satterthwaite degrees of freedom.
	res.DF = math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	p := 2 * dist.CDF(-math.Abs(res.TStatistic))
	res.PValue = core.MetricValue(clamp01(p))

	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	if pooledVar > 0 {
		res.EffectSize = (mean2 - mean1) / math.Sqrt(pooledVar)
	}
	return res
}

// Significant applies the caller's gate: p below maxP and |d| at least minEffect.
func (r Result) Significant(maxP, minEffect float64) bool {
	p, ok := r.PValue.Value()
	if !ok {
		return false
	}
	return p < maxP && math.Abs(r.EffectSize) >= minEffect
}

func meanVariance(data []float64) (float64, float64) {
	n := float64(len(data))
	var sum float64
	for _, v := range data {
		sum += v
	}
	mean := sum / n

	var sumSq float64
	for _, v := range data {
		d := v - mean
		sumSq += d * d
	}
	return mean, sumSq / (n - 1)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
