// Package detectors holds the change-point detector bank: a fixed list of
// typed detector implementations behind one interface, registered at
// construction and fanned out concurrently. A failing detector contributes
// an empty candidate list plus a recorded failure reason; it never aborts
// the bank.
package detectors

import (
	"context"
	"fmt"
	"sort"

	"goregime/domain/regime"
	"goregime/internal/indicators"
)

// Detector is the contract every change-point detection method satisfies.
// Implementations are pure functions of their read-only inputs.
type Detector interface {
	Method() regime.DetectorMethod
	Detect(ctx context.Context, series *regime.Series, ind indicators.IndicatorSet, cfg regime.Config) ([]regime.ChangePointCandidate, error)
}

// BankResult aggregates candidates and per-detector failures.
type BankResult struct {
	Candidates []regime.ChangePointCandidate
	Failures   []regime.DetectorFailure
}

// Bank runs all registered detectors.
type Bank struct {
	detectors []Detector
}

// NewBank registers the three standard detectors.
func NewBank() *Bank {
	return &Bank{
		detectors: []Detector{
			&VarianceRatioDetector{},
			&MeanShiftDetector{},
			&TrendChangeDetector{},
		},
	}
}

// Methods lists the registered detector methods.
func (b *Bank) Methods() []regime.DetectorMethod {
	methods := make([]regime.DetectorMethod, len(b.detectors))
	for i, d := range b.detectors {
		methods[i] = d.Method()
	}
	return methods
}

// DetectAll runs every detector concurrently and collects their candidates,
// chronologically ordered. Panics and errors inside one detector are
// converted into a DetectorFailure.
func (b *Bank) DetectAll(ctx context.Context, series *regime.Series, ind indicators.IndicatorSet, cfg regime.Config) BankResult {
	type outcome struct {
		index      int
		candidates []regime.ChangePointCandidate
		err        error
	}

	resultChan := make(chan outcome, len(b.detectors))
	for i, det := range b.detectors {
		go func(det Detector, idx int) {
			defer func() {
				if r := recover(); r != nil {
					resultChan <- outcome{index: idx, err: fmt.Errorf("panic: %v", r)}
				}
			}()
			candidates, err := det.Detect(ctx, series, ind, cfg)
			resultChan <- outcome{index: idx, candidates: candidates, err: err}
		}(det, i)
	}

	var result BankResult
	for range b.detectors {
		out := <-resultChan
		if out.err != nil {
			result.Failures = append(result.Failures, regime.DetectorFailure{
				Method: b.detectors[out.index].Method(),
				Reason: out.err.Error(),
			})
			continue
		}
		result.Candidates = append(result.Candidates, out.candidates...)
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Position < result.Candidates[j].Position
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Method < result.Failures[j].Method
	})
	return result
}

// scoredPosition is a thresholded detector hit awaiting peak selection.
type scoredPosition struct {
	position int
	score    float64
}

// pickPeaks keeps positions whose score is a local maximum within the given
// radius. Detector scores peak at the true boundary, so suppression keeps
// one candidate per physical change instead of a plateau of near-duplicates.
func pickPeaks(hits []scoredPosition, radius int) []scoredPosition {
	peaks := make([]scoredPosition, 0, len(hits))
	for i, h := range hits {
		isPeak := true
		for j := i - 1; j >= 0 && hits[j].position >= h.position-radius; j-- {
			if hits[j].score >= h.score {
				isPeak = false
				break
			}
		}
		if isPeak {
			for j := i + 1; j < len(hits) && hits[j].position <= h.position+radius; j++ {
				if hits[j].score > h.score {
					isPeak = false
					break
				}
			}
		}
		if isPeak {
			peaks = append(peaks, h)
		}
	}
	return peaks
}
