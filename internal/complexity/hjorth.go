package complexity

import (
	"math"

	"goregime/domain/core"
)

// HjorthComplexity is the classical Hjorth parameter: the mobility of the
// first derivative divided by the mobility of the signal. 1 for a pure
// sinusoid, larger for signals with richer frequency content.
func HjorthComplexity(values []float64) core.Metric {
	if len(values) < 4 {
		return core.MetricUnavailable("series too short for Hjorth parameters")
	}

	d1 := diff(values)
	d2 := diff(d1)

	var0 := populationVariance(values)
	var1 := populationVariance(d1)
	var2 := populationVariance(d2)
	if var0 == 0 || var1 == 0 {
		return core.MetricUnavailable("degenerate variance")
	}

	mobility := math.Sqrt(var1 / var0)
	return core.MetricValue(math.Sqrt(var2/var1) / mobility)
}

func diff(values []float64) []float64 {
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

func populationVariance(values []float64) float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
