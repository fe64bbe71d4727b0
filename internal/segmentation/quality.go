package segmentation

import (
	"fmt"

	"goregime/domain/regime"
)

// Score weights: regime separation dominates because splitting noise into
// "segments" is the failure mode that matters clinically.
const (
	countWeight      = 30.0
	separationWeight = 50.0
	durationWeight   = 20.0
)

// EvaluateQuality grades a segmentation 0-100 from (a) segment-count
// appropriateness, (b) the fraction of adjacent pairs with statistically
// significant separation, and (c) minimum-duration compliance.
func EvaluateQuality(result regime.SegmentationResult, comparisons []regime.SegmentComparison, cfg regime.Config) regime.QualityReport {
	countScore := segmentCountScore(len(result.Segments), cfg)

	separation := 0.0
	if len(comparisons) > 0 {
		significant := 0
		for _, cmp := range comparisons {
			if cmp.Significant {
				significant++
			}
		}
		separation = float64(significant) / float64(len(comparisons))
	}

	compliant := 0
	for _, seg := range result.Segments {
		if seg.DurationHours >= cfg.MinSegmentDurationHours {
			compliant++
		}
	}
	durationScore := float64(compliant) / float64(len(result.Segments))

	score := countWeight*countScore + separationWeight*separation + durationWeight*durationScore

	report := regime.QualityReport{
		Score: score,
		Grade: gradeFor(score),
	}
	report.Description = fmt.Sprintf(
		"%d segments (%s count), %.0f%% of adjacent pairs significantly separated, %d/%d segments meet the %.0fh duration floor",
		len(result.Segments), countQualifier(countScore),
		separation*100, compliant, len(result.Segments), cfg.MinSegmentDurationHours,
	)
	return report
}

// segmentCountScore awards the full component inside the configured bounds
// and decays with the distance outside them.
func segmentCountScore(count int, cfg regime.Config) float64 {
	if count >= cfg.MinSegments && count <= cfg.MaxSegments {
		return 1
	}
	distance := 0
	if count < cfg.MinSegments {
		distance = cfg.MinSegments - count
	} else {
		distance = count - cfg.MaxSegments
	}
	score := 1 - 0.25*float64(distance)
	if score < 0 {
		score = 0
	}
	return score
}

func countQualifier(score float64) string {
	if score >= 1 {
		return "appropriate"
	}
	return "out-of-bounds"
}

func gradeFor(score float64) regime.QualityGrade {
	switch {
	case score >= 85:
		return regime.GradeExcellent
	case score >= 70:
		return regime.GradeGood
	case score > 50:
		// Exclusive bound: a segmentation with zero significant separation
		// tops out at exactly 50 and must not read as Fair.
		return regime.GradeFair
	default:
		return regime.GradePoor
	}
}
