package complexity

import (
	"math"

	"goregime/domain/core"

	"gonum.org/v1/gonum/stat"
)

// boxCountScales is the number of logarithmically spaced box sizes used in
// the box-counting fit.
const boxCountScales = 20

// FractalDimension estimates the box-counting dimension of the signal's
// graph, normalized to the unit square, via a log-log linear fit across
// logarithmically spaced scales. The estimate is clipped to [1,3].
func FractalDimension(values []float64) core.Metric {
	n := len(values)
	if n < 20 {
		return core.MetricUnavailable("series too short for box counting")
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		// A flat line is one-dimensional by definition.
		return core.MetricValue(1)
	}

	norm := make([]float64, n)
	for i, v := range values {
		norm[i] = (v - min) / (max - min)
	}

	epsMax := 0.25
	epsMin := math.Max(2.0/float64(n), 1.0/128)
	if epsMin >= epsMax {
		return core.MetricUnavailable("no usable scale range")
	}

	logInvEps := make([]float64, 0, boxCountScales)
	logCounts := make([]float64, 0, boxCountScales)
	for k := 0; k < boxCountScales; k++ {
		t := float64(k) / float64(boxCountScales-1)
		eps := math.Exp(math.Log(epsMax) + t*(math.Log(epsMin)-math.Log(epsMax)))
		count := countBoxes(norm, eps)
		logInvEps = append(logInvEps, math.Log(1/eps))
		logCounts = append(logCounts, math.Log(float64(count)))
	}

	_, slope := stat.LinearRegression(logInvEps, logCounts, nil, false)
	return core.MetricValue(clip(slope, 1, 3))
}

// countBoxes covers the normalized graph with eps-sized boxes: for each
// time bin, the number of boxes is the vertical extent of the samples in
// the bin divided by eps.
func countBoxes(norm []float64, eps float64) int {
	n := len(norm)
	bins := int(math.Ceil(1 / eps))
	count := 0
	for b := 0; b < bins; b++ {
		lo := b * n / bins
		hi := (b + 1) * n / bins
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		vMin, vMax := norm[lo], norm[lo]
		for _, v := range norm[lo:hi] {
			if v < vMin {
				vMin = v
			}
			if v > vMax {
				vMax = v
			}
		}
		count += int(math.Floor((vMax-vMin)/eps)) + 1
	}
	return count
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
