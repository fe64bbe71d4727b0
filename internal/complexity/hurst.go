package complexity

import (
	"math"

	"goregime/domain/core"

	"gonum.org/v1/gonum/stat"
)

// HurstExponent estimates long-range dependence via rescaled-range (R/S)
// analysis: average R/S over blocks at logarithmically spaced window sizes,
// then a log-log linear fit. 0.5 means uncorrelated noise; the documented
// fallback for insufficient data is 0.5, substituted by the caller.
func HurstExponent(values []float64) core.Metric {
	n := len(values)
	if n < 32 {
		return core.MetricUnavailable("series too short for rescaled-range analysis")
	}

	var logSizes, logRS []float64
	for _, size := range hurstWindowSizes(n) {
		rs := averageRescaledRange(values, size)
		if rs <= 0 {
			continue
		}
		logSizes = append(logSizes, math.Log(float64(size)))
		logRS = append(logRS, math.Log(rs))
	}
	if len(logSizes) < 4 {
		return core.MetricUnavailable("degenerate variance across window sizes")
	}

	_, slope := stat.LinearRegression(logSizes, logRS, nil, false)
	return core.MetricValue(clip(slope, 0, 1))
}

// hurstWindowSizes spaces ~10 window sizes logarithmically in [8, n/2].
func hurstWindowSizes(n int) []int {
	const points = 10
	minSize, maxSize := 8.0, float64(n/2)
	sizes := make([]int, 0, points)
	last := 0
	for k := 0; k < points; k++ {
		t := float64(k) / float64(points-1)
		size := int(math.Round(math.Exp(math.Log(minSize) + t*(math.Log(maxSize)-math.Log(minSize)))))
		if size > last {
			sizes = append(sizes, size)
			last = size
		}
	}
	return sizes
}

// averageRescaledRange computes mean R/S over the non-overlapping blocks of
// the given size. Blocks with zero variance are skipped.
func averageRescaledRange(values []float64, size int) float64 {
	blocks := len(values) / size
	if blocks == 0 {
		return 0
	}

	var sum float64
	used := 0
	for b := 0; b < blocks; b++ {
		block := values[b*size : (b+1)*size]

		var mean float64
		for _, v := range block {
			mean += v
		}
		mean /= float64(size)

		var cum, cumMin, cumMax, sqSum float64
		for _, v := range block {
			dev := v - mean
			cum += dev
			if cum < cumMin {
				cumMin = cum
			}
			if cum > cumMax {
				cumMax = cum
			}
			sqSum += dev * dev
		}
		sd := math.Sqrt(sqSum / float64(size))
		if sd == 0 {
			continue
		}
		sum += (cumMax - cumMin) / sd
		used++
	}
	if used == 0 {
		return 0
	}
	return sum / float64(used)
}
