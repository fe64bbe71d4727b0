// Package complexity estimates nonlinear-dynamics metrics over a value
// sequence: entropies, fractal dimension, long-range memory, trajectory
// expansion, compressibility, and Hjorth parameters. Each estimator returns
// a core.Metric so a failed estimate is an explicit "not computable" rather
// than a numeric sentinel, and the profiler renormalizes the composite score
// over whatever did compute.
package complexity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"goregime/domain/core"
	"goregime/domain/regime"
)

// maxConcurrentExpansion caps the expansion-rate estimators running at once.
// The estimator is quadratic even after sampling; segment profiles fan out
// concurrently and would otherwise stack several of them.
const maxConcurrentExpansion = 2

// Per-metric weights of the composite score. Provenance: ported unchanged
// from the tuned reference system; expansion rate dominates because it is the
// most direct chaos indicator.
var compositeWeights = []float64{
	0.15, // approximate entropy
	0.10, // sample entropy
	0.10, // permutation entropy
	0.10, // spectral entropy
	0.05, // fractal dimension
	0.10, // Hurst exponent
	0.20, // expansion rate
	0.10, // compression ratio
	0.10, // Hjorth complexity
}

var metricNames = []string{
	"approx_entropy",
	"sample_entropy",
	"permutation_entropy",
	"spectral_entropy",
	"fractal_dimension",
	"hurst_exponent",
	"expansion_rate",
	"compression_ratio",
	"hjorth_complexity",
}

// Profiler runs the full estimator bank over a value sequence. One Profiler
// is shared across the whole-series and per-segment profiles of an analysis
// so the expansion semaphore bounds total concurrent quadratic work.
type Profiler struct {
	dimension int
	tolerance float64
	sampleCap int
	timeout   time.Duration

	expansionSem *semaphore.Weighted
}

// NewProfiler builds a profiler from the complexity section of the config.
func NewProfiler(cfg regime.Config) *Profiler {
	return &Profiler{
		dimension:    cfg.EmbeddingDimension,
		tolerance:    cfg.EntropyTolerance,
		sampleCap:    cfg.SampleCap,
		timeout:      cfg.MetricTimeout,
		expansionSem: semaphore.NewWeighted(maxConcurrentExpansion),
	}
}

// Profile estimates all nine metrics concurrently and assembles the profile.
// A metric that panics, times out, or declines to compute is recorded as a
// failure; the composite is renormalized over the metrics that computed.
func (p *Profiler) Profile(ctx context.Context, values []float64) regime.ComplexityProfile {
	type outcome struct {
		index  int
		metric core.Metric
	}

	estimators := []func(ctx context.Context) core.Metric{
		func(_ context.Context) core.Metric { return ApproxEntropy(values, p.dimension, p.tolerance) },
		func(_ context.Context) core.Metric { return SampleEntropy(values, p.dimension, p.tolerance) },
		func(_ context.Context) core.Metric { return PermutationEntropy(values, 3) },
		func(_ context.Context) core.Metric { return SpectralEntropy(values) },
		func(_ context.Context) core.Metric { return FractalDimension(values) },
		func(_ context.Context) core.Metric { return HurstExponent(values) },
		p.boundedExpansion(values),
		func(_ context.Context) core.Metric { return CompressionRatio(values) },
		func(_ context.Context) core.Metric { return HjorthComplexity(values) },
	}

	resultChan := make(chan outcome, len(estimators))
	for i, estimate := range estimators {
		go func(idx int, estimate func(ctx context.Context) core.Metric) {
			defer func() {
				if r := recover(); r != nil {
					resultChan <- outcome{index: idx, metric: core.MetricUnavailable(fmt.Sprintf("panic: %v", r))}
				}
			}()
			resultChan <- outcome{index: idx, metric: p.runMetric(ctx, estimate)}
		}(i, estimate)
	}

	metrics := make([]core.Metric, len(estimators))
	for range estimators {
		out := <-resultChan
		metrics[out.index] = out.metric
	}

	profile := regime.ComplexityProfile{
		ApproxEntropy:      metrics[0],
		SampleEntropy:      metrics[1],
		PermutationEntropy: metrics[2],
		SpectralEntropy:    metrics[3],
		FractalDimension:   metrics[4],
		HurstExponent:      metrics[5],
		ExpansionRate:      metrics[6],
		CompressionRatio:   metrics[7],
		HjorthComplexity:   metrics[8],
	}

	for i, m := range metrics {
		if !m.Computable() {
			profile.Failures = append(profile.Failures, regime.MetricFailure{
				Metric: metricNames[i],
				Reason: m.FailureReason(),
			})
		}
	}
	sort.Slice(profile.Failures, func(i, j int) bool {
		return profile.Failures[i].Metric < profile.Failures[j].Metric
	})

	profile.CompositeScore = compositeScore(metrics)
	return profile
}

// runMetric enforces the per-metric deadline. Estimators that take a context
// observe cancellation themselves; the rest are abandoned at the deadline and
// their eventual result discarded via the buffered channel.
func (p *Profiler) runMetric(parent context.Context, estimate func(ctx context.Context) core.Metric) core.Metric {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	done := make(chan core.Metric, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- core.MetricUnavailable(fmt.Sprintf("panic: %v", r))
			}
		}()
		done <- estimate(ctx)
	}()

	select {
	case m := <-done:
		return m
	case <-ctx.Done():
		return core.MetricUnavailable("deadline exceeded")
	}
}

// boundedExpansion wraps the expansion-rate estimator behind the shared
// semaphore so concurrent segment profiles cannot stack quadratic scans.
func (p *Profiler) boundedExpansion(values []float64) func(ctx context.Context) core.Metric {
	return func(ctx context.Context) core.Metric {
		if err := p.expansionSem.Acquire(ctx, 1); err != nil {
			return core.MetricUnavailable("deadline exceeded")
		}
		defer p.expansionSem.Release(1)
		return ExpansionRate(ctx, values, p.sampleCap)
	}
}

// compositeScore maps each computed metric onto [0,1] and takes the weighted
// mean, renormalizing the weights over the metrics that computed. Scalings,
// in estimator order:
//
//	approximate entropy / 2       (typical physiological range 0..2)
//	sample entropy / 2.5
//	permutation entropy           (already normalized)
//	spectral entropy              (already normalized)
//	(fractal dimension - 1) / 2   (curve dimension lives in [1,3])
//	2 * |Hurst - 0.5|             (distance from uncorrelated noise)
//	expansion rate / 0.2          (saturates at strong divergence)
//	compression ratio             (already in [0,1])
//	(Hjorth complexity - 1) / 4
func compositeScore(metrics []core.Metric) float64 {
	scalings := []func(v float64) float64{
		func(v float64) float64 { return clip(v/2, 0, 1) },
		func(v float64) float64 { return clip(v/2.5, 0, 1) },
		func(v float64) float64 { return clip(v, 0, 1) },
		func(v float64) float64 { return clip(v, 0, 1) },
		func(v float64) float64 { return clip((v-1)/2, 0, 1) },
		func(v float64) float64 { return clip(2*math.Abs(v-0.5), 0, 1) },
		func(v float64) float64 { return clip(v/0.2, 0, 1) },
		func(v float64) float64 { return clip(v, 0, 1) },
		func(v float64) float64 { return clip((v-1)/4, 0, 1) },
	}

	var weighted, totalWeight float64
	for i, m := range metrics {
		v, ok := m.Value()
		if !ok {
			continue
		}
		weighted += compositeWeights[i] * scalings[i](v)
		totalWeight += compositeWeights[i]
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}
