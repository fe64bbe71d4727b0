// Package segmentation turns raw detector candidates into a bounded,
// clinically sized partition of the series and grades the result.
package segmentation

import (
	"fmt"
	"sort"

	"goregime/domain/regime"
)

// Aggregate groups candidates whose positions fall within the minimum
// segment duration of each other, keeps the highest-significance candidate
// of each group as representative, and scores each merged point's
// importance. Output is deduplicated and chronologically ordered.
func Aggregate(candidates []regime.ChangePointCandidate, series *regime.Series, totalMethods int, cfg regime.Config) []regime.MergedChangePoint {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]regime.ChangePointCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	minGap := minSeparationSamples(series, cfg)

	// Per-method effect-size maxima normalize magnitudes across methods
	// whose raw effect scales are not comparable (variance ratios vs.
	// Cohen's d vs. slope deltas).
	maxEffect := make(map[regime.DetectorMethod]float64)
	for _, c := range sorted {
		if c.EffectSize > maxEffect[c.Method] {
			maxEffect[c.Method] = c.EffectSize
		}
	}

	var merged []regime.MergedChangePoint
	group := []regime.ChangePointCandidate{sorted[0]}
	for _, c := range sorted[1:] {
		if c.Position-group[len(group)-1].Position < minGap {
			group = append(group, c)
			continue
		}
		merged = append(merged, mergeGroup(group, series, totalMethods, maxEffect, cfg))
		group = []regime.ChangePointCandidate{c}
	}
	merged = append(merged, mergeGroup(group, series, totalMethods, maxEffect, cfg))

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Position < merged[j].Position
	})
	return merged
}

func mergeGroup(group []regime.ChangePointCandidate, series *regime.Series, totalMethods int, maxEffect map[regime.DetectorMethod]float64, cfg regime.Config) regime.MergedChangePoint {
	rep := group[0]
	methods := make(map[regime.DetectorMethod]bool)
	for _, c := range group {
		methods[c.Method] = true
		if c.Significance > rep.Significance {
			rep = c
		}
	}

	supporting := make([]regime.DetectorMethod, 0, len(methods))
	for m := range methods {
		supporting = append(supporting, m)
	}
	sort.Slice(supporting, func(i, j int) bool { return supporting[i] < supporting[j] })

	support := float64(len(methods)) / float64(totalMethods)
	plausibility := positionalPlausibility(rep.Position, series)
	magnitude := 0.0
	if maxEffect[rep.Method] > 0 {
		magnitude = rep.EffectSize / maxEffect[rep.Method]
	}

	point := regime.MergedChangePoint{
		Position:          rep.Position,
		SupportingMethods: supporting,
		Significance:      rep.Significance,
		EffectSize:        rep.EffectSize,
		Importance: cfg.MethodSupportWeight*support +
			cfg.PositionWeight*plausibility +
			cfg.MagnitudeWeight*magnitude,
	}
	if cfg.ClinicalMode {
		point.Annotation = annotate(rep, point.Importance)
	}
	return point
}

// positionalPlausibility penalizes change points near the recording edges:
// full penalty inside the first/last 10% of the recording duration, half
// penalty in the 10-20% band, none beyond. The bands are measured in time,
// not sample index, so recording gaps do not shift them.
func positionalPlausibility(position int, series *regime.Series) float64 {
	total := series.Duration()
	if total <= 0 {
		return 1
	}
	f := float64(series.TimeAt(position).Sub(series.TimeAt(0))) / float64(total)
	if f > 0.5 {
		f = 1 - f
	}
	switch {
	case f < 0.10:
		return 0
	case f < 0.20:
		return 0.5
	default:
		return 1
	}
}

// annotate attaches the heuristic clinical-mode pattern label. The label is
// speculative pattern matching over the winning method, not validated
// clinical output; downstream renderers must present it as enrichment only.
func annotate(rep regime.ChangePointCandidate, importance float64) *regime.Annotation {
	var pattern regime.AnnotationPattern
	switch rep.Method {
	case regime.MethodMeanShift:
		pattern = regime.PatternAbruptShift
	case regime.MethodTrendChange:
		pattern = regime.PatternDrift
	default:
		pattern = regime.PatternVariabilityChange
	}
	return &regime.Annotation{
		Pattern:    pattern,
		Confidence: clamp01(importance),
		Note:       fmt.Sprintf("heuristic %s signature from %s detector; not a diagnostic finding", pattern, rep.Method),
	}
}

// minSeparationSamples converts the minimum segment duration into a sample
// count, floored at one so grouping always terminates.
func minSeparationSamples(series *regime.Series, cfg regime.Config) int {
	gap := int(cfg.MinSegmentDurationHours * series.SamplesPerHour())
	if gap < 1 {
		gap = 1
	}
	return gap
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
