package complexity

import (
	"math"

	"goregime/domain/core"

	"github.com/montanaflynn/stats"
)

// ApproxEntropy computes ApEn(m, r) with tolerance r = rFactor * stdev.
// A constant sequence is perfectly regular: ApEn 0.
func ApproxEntropy(values []float64, m int, rFactor float64) core.Metric {
	n := len(values)
	if n < m+2 {
		return core.MetricUnavailable("series shorter than embedding needs")
	}
	sd, _ := stats.StandardDeviationSample(values)
	if sd == 0 {
		return core.MetricValue(0)
	}
	r := rFactor * sd

	phi := func(dim int) float64 {
		count := n - dim + 1
		var sum float64
		for i := 0; i < count; i++ {
			matches := 0
			for j := 0; j < count; j++ {
				if chebyshevWithin(values[i:i+dim], values[j:j+dim], r) {
					matches++
				}
			}
			// Self-match included, so matches >= 1 and the log is finite.
			sum += math.Log(float64(matches) / float64(count))
		}
		return sum / float64(count)
	}

	return core.MetricValue(phi(m) - phi(m+1))
}

// SampleEntropy computes SampEn(m, r), excluding self-matches. When no
// template matches exist the estimate is undefined and reported as not
// computable, never as 0.
func SampleEntropy(values []float64, m int, rFactor float64) core.Metric {
	n := len(values)
	if n < m+2 {
		return core.MetricUnavailable("series shorter than embedding needs")
	}
	sd, _ := stats.StandardDeviationSample(values)
	if sd == 0 {
		// All templates match at every length: -ln(1) = 0.
		return core.MetricValue(0)
	}
	r := rFactor * sd

	var matchesM, matchesM1 float64
	count := n - m
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			if chebyshevWithin(values[i:i+m], values[j:j+m], r) {
				matchesM++
				if chebyshevWithin(values[i:i+m+1], values[j:j+m+1], r) {
					matchesM1++
				}
			}
		}
	}

	if matchesM == 0 {
		return core.MetricUnavailable("no template matches at length m")
	}
	if matchesM1 == 0 {
		return core.MetricUnavailable("no template matches at length m+1")
	}
	return core.MetricValue(-math.Log(matchesM1 / matchesM))
}

// PermutationEntropy computes normalized ordinal-pattern entropy of the
// given order with delay 1. Ties break by index, which keeps the measure
// invariant under strictly monotonic transforms.
func PermutationEntropy(values []float64, order int) core.Metric {
	n := len(values)
	if n < order+1 {
		return core.MetricUnavailable("series shorter than pattern order")
	}

	factorial := 1
	for i := 2; i <= order; i++ {
		factorial *= i
	}

	// Counts live in a slice indexed by the Lehmer code so the entropy sum
	// below accumulates in a fixed order; map iteration would reorder the
	// floating-point additions between calls.
	counts := make([]int, factorial)
	windows := n - order + 1
	for i := 0; i < windows; i++ {
		counts[ordinalPattern(values[i:i+order])]++
	}

	var entropy float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(windows)
		entropy -= p * math.Log(p)
	}
	return core.MetricValue(entropy / math.Log(float64(factorial)))
}

// ordinalPattern encodes the rank order of a window as a Lehmer code in
// [0, len(window)!). Ties rank the earlier index lower, so equal later
// values never count as smaller.
func ordinalPattern(window []float64) int {
	n := len(window)
	code := 0
	for i := 0; i < n; i++ {
		smaller := 0
		for j := i + 1; j < n; j++ {
			if window[j] < window[i] {
				smaller++
			}
		}
		code = code*(n-i) + smaller
	}
	return code
}

func chebyshevWithin(a, b []float64, r float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > r {
			return false
		}
	}
	return true
}
