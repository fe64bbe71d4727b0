package segmentation

import (
	"math"
	"sort"

	"goregime/domain/core"
	"goregime/domain/regime"

	"github.com/montanaflynn/stats"
)

// Optimize selects a bounded set of boundaries from the merged change
// points and materializes the final partition:
//   - all points fit within MaxSegments: use them directly;
//   - too many points: keep the most important MaxSegments-1, re-sorted
//     chronologically;
//   - no points at all: degenerate to MinSegments equal-duration segments.
//
// The returned segments are contiguous, non-overlapping, and cover the
// whole series.
func Optimize(merged []regime.MergedChangePoint, series *regime.Series, cfg regime.Config) (regime.SegmentationResult, error) {
	n := series.Len()
	meta := regime.OptimizationMeta{OriginalChangePoints: len(merged)}

	var boundaries []int
	retained := merged
	switch {
	case len(merged) == 0:
		boundaries = equalSplitBoundaries(n, cfg.MinSegments)
		meta.DegenerateSplit = true
		retained = nil
	case len(merged)+1 <= cfg.MaxSegments:
		for _, m := range merged {
			boundaries = append(boundaries, m.Position)
		}
	default:
		ranked := make([]regime.MergedChangePoint, len(merged))
		copy(ranked, merged)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Importance > ranked[j].Importance
		})
		ranked = ranked[:cfg.MaxSegments-1]
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Position < ranked[j].Position
		})
		retained = ranked
		for _, m := range ranked {
			boundaries = append(boundaries, m.Position)
		}
		meta.OptimizationApplied = true
	}

	// Too few retained points for the configured floor: split the longest
	// segments until the partition reaches MinSegments.
	boundaries = padToMinimum(boundaries, n, cfg.MinSegments)

	meta.RetainedChangePoints = len(retained)
	if meta.OriginalChangePoints > 0 {
		meta.RetainedRatio = float64(meta.RetainedChangePoints) / float64(meta.OriginalChangePoints)
	}

	segments := buildSegments(boundaries, series)

	// Defensive assertion: unreachable given the selection logic above.
	if len(segments) < cfg.MinSegments || len(segments) > cfg.MaxSegments {
		return regime.SegmentationResult{}, core.NewConfigError("segment bounds",
			"optimizer produced a segment count outside [min_segments, max_segments]")
	}

	return regime.SegmentationResult{
		Segments:     segments,
		ChangePoints: retained,
		Optimization: meta,
	}, nil
}

// equalSplitBoundaries cuts the index range into count equal parts.
func equalSplitBoundaries(n, count int) []int {
	boundaries := make([]int, 0, count-1)
	for i := 1; i < count; i++ {
		boundaries = append(boundaries, i*n/count)
	}
	return boundaries
}

// padToMinimum inserts midpoint cuts into the longest segments until the
// partition holds at least minSegments pieces.
func padToMinimum(boundaries []int, n, minSegments int) []int {
	for len(boundaries)+1 < minSegments {
		edges := append(append([]int{0}, boundaries...), n)
		longest, cut := 0, -1
		for i := 1; i < len(edges); i++ {
			length := edges[i] - edges[i-1]
			if length > longest {
				longest = length
				cut = edges[i-1] + length/2
			}
		}
		if cut <= 0 || contains(boundaries, cut) {
			break
		}
		boundaries = append(boundaries, cut)
		sort.Ints(boundaries)
	}
	return boundaries
}

func contains(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// buildSegments materializes the partition [0,b1), [b1,b2), ..., [bk,n)
// with descriptive statistics per segment.
func buildSegments(boundaries []int, series *regime.Series) []regime.Segment {
	n := series.Len()
	edges := append(append([]int{0}, boundaries...), n)

	segments := make([]regime.Segment, 0, len(edges)-1)
	for i := 1; i < len(edges); i++ {
		start, end := edges[i-1], edges[i]
		seg := regime.Segment{
			StartIndex: start,
			EndIndex:   end,
			StartTime:  series.TimeAt(start),
			EndTime:    series.TimeAt(end - 1),
			Stats:      Describe(series.ValuesBetween(start, end)),
		}
		seg.DurationHours = seg.EndTime.Sub(seg.StartTime).Hours()
		segments = append(segments, seg)
	}
	return segments
}

// Describe computes the descriptive statistics of one segment's values.
func Describe(values []float64) regime.DescriptiveStats {
	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationSample(values)
	if math.IsNaN(stdDev) {
		stdDev = 0
	}
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	median, _ := stats.Median(values)

	desc := regime.DescriptiveStats{
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Median: median,
	}
	if mean != 0 {
		desc.CV = core.MetricValue(100 * stdDev / math.Abs(mean))
	} else {
		desc.CV = core.MetricUnavailable("zero mean")
	}
	return desc
}
