// Package indicators computes sliding-window statistics over a series at
// multiple scales. Detectors consume these instead of re-deriving rolling
// stats from the raw values.
package indicators

import (
	"math"
	"sort"

	"goregime/domain/core"
	"goregime/domain/regime"
)

// Scale holds trailing-window statistics for one window size. Positions
// before FirstValid have no full window behind them and carry NaN.
type Scale struct {
	Window     int
	FirstValid int
	Mean       []float64
	Variance   []float64
	Slope      []float64
}

// IndicatorSet is the multi-scale output of the window computer.
type IndicatorSet struct {
	Scales []Scale
	// Degraded is set when the series could not support the configured
	// window ladder and the computation fell back to fewer scales.
	Degraded bool
}

// Smallest returns the scale with the smallest window.
func (s IndicatorSet) Smallest() Scale { return s.Scales[0] }

// Largest returns the scale with the largest window.
func (s IndicatorSet) Largest() Scale { return s.Scales[len(s.Scales)-1] }

// Compute derives window sizes from the configured fractions of the series
// length, floor-bounded by cfg.MinWindow, and fills rolling mean, variance
// and slope for each. It fails only when not even the minimum window fits
// twice; a partially supported ladder degrades instead.
func Compute(series *regime.Series, cfg regime.Config) (IndicatorSet, error) {
	n := series.Len()
	if n < 2*cfg.MinWindow {
		return IndicatorSet{}, core.NewInsufficientDataError("indicator windows", 2*cfg.MinWindow, n)
	}

	windows := windowLadder(n, cfg)
	degraded := len(windows) < len(cfg.WindowFractions)

	values := series.Values()
	scales := make([]Scale, 0, len(windows))
	for _, w := range windows {
		scales = append(scales, computeScale(values, w))
	}

	return IndicatorSet{Scales: scales, Degraded: degraded}, nil
}

// windowLadder resolves the configured fractions into distinct window sizes
// that the series can support (n >= 2w), smallest first. At least the
// floor window always survives because the caller checked n >= 2*MinWindow.
func windowLadder(n int, cfg regime.Config) []int {
	seen := make(map[int]bool)
	windows := make([]int, 0, len(cfg.WindowFractions))
	for _, frac := range cfg.WindowFractions {
		w := int(frac * float64(n))
		if w < cfg.MinWindow {
			w = cfg.MinWindow
		}
		if n < 2*w || seen[w] {
			continue
		}
		seen[w] = true
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		windows = append(windows, cfg.MinWindow)
	}
	sort.Ints(windows)
	return windows
}

func computeScale(values []float64, w int) Scale {
	n := len(values)
	scale := Scale{
		Window:     w,
		FirstValid: w - 1,
		Mean:       nanSlice(n),
		Variance:   nanSlice(n),
		Slope:      nanSlice(n),
	}

	// Sliding sums for mean and variance over the trailing window [i-w+1, i].
	var sum, sumSq float64
	for i, v := range values {
		sum += v
		sumSq += v * v
		if i >= w {
			old := values[i-w]
			sum -= old
			sumSq -= old * old
		}
		if i < w-1 {
			continue
		}
		mean := sum / float64(w)
		scale.Mean[i] = mean
		// Sample variance with Bessel's correction.
		variance := (sumSq - float64(w)*mean*mean) / float64(w-1)
		if variance < 0 {
			variance = 0
		}
		scale.Variance[i] = variance
		scale.Slope[i] = windowSlope(values[i-w+1:i+1], mean)
	}
	return scale
}

// windowSlope fits a least-squares line over the window with x = 0..w-1,
// in series units per sample.
func windowSlope(window []float64, mean float64) float64 {
	w := float64(len(window))
	xMean := (w - 1) / 2
	var num, den float64
	for i, v := range window {
		dx := float64(i) - xMean
		num += dx * (v - mean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
