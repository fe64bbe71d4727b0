package complexity

import (
	"context"
	"math"

	"goregime/domain/core"
)

const (
	// expansionDim and expansionDelay define the phase-space reconstruction.
	expansionDim   = 3
	expansionDelay = 1
	// temporalGuard excludes near-in-time neighbors that are trivially close.
	temporalGuard = 10
	// divergenceHorizon is the number of steps the neighbor pair is tracked.
	divergenceHorizon = 5
)

// ExpansionRate estimates a Lyapunov-like divergence rate: embed the signal
// in phase space, pair each point with its nearest neighbor outside a
// temporal guard window, and average the log-divergence growth over a short
// horizon. Positive values mean nearby trajectories separate exponentially.
//
// The neighbor search is O(n^2) in the worst case, so the outer loop is
// strided down to at most sampleCap points and the context deadline is
// honored between points.
func ExpansionRate(ctx context.Context, values []float64, sampleCap int) core.Metric {
	span := (expansionDim - 1) * expansionDelay
	points := len(values) - span
	usable := points - divergenceHorizon
	if usable < 2*temporalGuard+2 {
		return core.MetricUnavailable("series too short for phase-space reconstruction")
	}

	stride := 1
	if usable > sampleCap {
		stride = (usable + sampleCap - 1) / sampleCap
	}

	var sum float64
	pairs := 0
	for i := 0; i < usable; i += stride {
		if ctx.Err() != nil {
			return core.MetricUnavailable("deadline exceeded")
		}
		j, d0 := nearestNeighbor(values, i, usable)
		if j < 0 || d0 == 0 {
			continue
		}
		dh := embeddedDistance(values, i+divergenceHorizon, j+divergenceHorizon)
		if dh == 0 {
			continue
		}
		sum += math.Log(dh/d0) / float64(divergenceHorizon)
		pairs++
	}
	if pairs == 0 {
		return core.MetricUnavailable("no usable neighbor pairs")
	}

	rate := sum / float64(pairs)
	if rate < 0 {
		rate = 0
	}
	return core.MetricValue(rate)
}

// nearestNeighbor finds the phase-space point closest to i, excluding
// indices within the temporal guard window.
func nearestNeighbor(values []float64, i, usable int) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for j := 0; j < usable; j++ {
		if abs(i-j) <= temporalGuard {
			continue
		}
		d := embeddedDistance(values, i, j)
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestDist
}

// embeddedDistance is the Euclidean distance between the delay-embedded
// vectors anchored at indices i and j.
func embeddedDistance(values []float64, i, j int) float64 {
	var sum float64
	for k := 0; k < expansionDim; k++ {
		d := values[i+k*expansionDelay] - values[j+k*expansionDelay]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
