// Package app wires the analysis pipeline: indicators, detector bank,
// aggregation, optimization, comparison, quality grading, complexity
// profiling, and classification, assembled into one immutable report.
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"goregime/adapters/stats/detectors"
	"goregime/domain/core"
	"goregime/domain/regime"
	"goregime/internal/classify"
	"goregime/internal/complexity"
	"goregime/internal/indicators"
	"goregime/internal/segmentation"
)

// AnalysisService runs one full segmentation-and-classification analysis.
// Stateless between calls: every result is recomputed from (series, config).
type AnalysisService struct {
	logger *log.Logger
	bank   *detectors.Bank
}

// NewAnalysisService builds the service with the standard detector bank.
// A nil logger falls back to stderr.
func NewAnalysisService(logger *log.Logger) *AnalysisService {
	if logger == nil {
		logger = log.New(os.Stderr, "[AnalysisService] ", log.LstdFlags)
	}
	return &AnalysisService{
		logger: logger,
		bank:   detectors.NewBank(),
	}
}

// Analyze runs the whole pipeline over the series and returns the report.
func (s *AnalysisService) Analyze(ctx context.Context, series *regime.Series, cfg regime.Config) (*regime.AnalysisReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config rejected: %w", err)
	}

	s.logger.Printf("analyzing %d samples spanning %.1f hours", series.Len(), series.Duration().Hours())

	// 1. Rolling indicators across the window ladder.
	ind, err := indicators.Compute(series, cfg)
	if err != nil {
		return nil, fmt.Errorf("indicator computation failed: %w", err)
	}
	if ind.Degraded {
		s.logger.Printf("series too short for the full window ladder, running single-scale")
	}

	// 2. Detector bank, concurrent.
	bankResult := s.bank.DetectAll(ctx, series, ind, cfg)
	s.logger.Printf("detectors produced %d candidates, %d detector failures",
		len(bankResult.Candidates), len(bankResult.Failures))

	// 3. Merge candidates and build the bounded segmentation.
	merged := segmentation.Aggregate(bankResult.Candidates, series, len(s.bank.Methods()), cfg)
	segResult, err := segmentation.Optimize(merged, series, cfg)
	if err != nil {
		return nil, fmt.Errorf("segment optimization failed: %w", err)
	}

	// 4. Adjacent-pair comparisons and the quality grade.
	comparisons := segmentation.Compare(segResult, series, cfg)
	quality := segmentation.EvaluateQuality(segResult, comparisons, cfg)
	s.logger.Printf("segmented into %d segments, grade %s (%.0f)",
		len(segResult.Segments), quality.Grade, quality.Score)

	// 5. Complexity profiles: whole series plus every segment, in parallel.
	// The profiler is shared so its expansion semaphore bounds total work.
	profiler := complexity.NewProfiler(cfg)
	seriesProfile, segmentProfiles, err := s.profileAll(ctx, profiler, series, segResult.Segments)
	if err != nil {
		return nil, err
	}

	// 6. Classification from the whole-series profile and its CV.
	seriesStats := segmentation.Describe(series.Values())
	classification := classify.Classify(seriesProfile, seriesStats.CV, cfg)
	s.logger.Printf("classified %s, level %d, composite %.3f",
		classification.Regime, classification.Level, classification.Score)

	report := &regime.AnalysisReport{
		ID:        core.ReportID(core.NewID()),
		CreatedAt: core.Now(),
		Series: regime.SeriesInfo{
			Samples:       series.Len(),
			DurationHours: series.Duration().Hours(),
			IntervalSecs:  series.Interval().Seconds(),
			Degraded:      ind.Degraded,
		},
		Segmentation:     segResult,
		Comparisons:      comparisons,
		Quality:          quality,
		SeriesProfile:    seriesProfile,
		SegmentProfiles:  segmentProfiles,
		Classification:   classification,
		DetectorFailures: bankResult.Failures,
	}

	fingerprint, err := report.ComputeFingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint failed: %w", err)
	}
	report.Fingerprint = fingerprint
	return report, nil
}

// profileAll fans the profiler out over the whole series and each segment.
// Profiles never error; the group only propagates context cancellation.
func (s *AnalysisService) profileAll(ctx context.Context, profiler *complexity.Profiler, series *regime.Series, segments []regime.Segment) (regime.ComplexityProfile, []regime.ComplexityProfile, error) {
	var seriesProfile regime.ComplexityProfile
	segmentProfiles := make([]regime.ComplexityProfile, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		seriesProfile = profiler.Profile(gctx, series.Values())
		return nil
	})
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			segmentProfiles[i] = profiler.Profile(gctx, series.ValuesBetween(seg.StartIndex, seg.EndIndex))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return regime.ComplexityProfile{}, nil, err
	}
	return seriesProfile, segmentProfiles, nil
}
