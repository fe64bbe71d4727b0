package regime

import (
	"time"

	"goregime/domain/core"
)

// DescriptiveStats summarizes the values inside one segment.
type DescriptiveStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	// CV is the coefficient of variation in percent; not computable when the
	// segment mean is zero.
	CV core.Metric `json:"cv"`
}

// Segment is a contiguous regime of the series, index range [StartIndex, EndIndex).
type Segment struct {
	StartIndex    int              `json:"start_index"`
	EndIndex      int              `json:"end_index"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
	DurationHours float64          `json:"duration_hours"`
	Stats         DescriptiveStats `json:"stats"`
}

// Len returns the number of samples in the segment.
func (s Segment) Len() int { return s.EndIndex - s.StartIndex }

// OptimizationMeta records what the boundary optimizer did.
type OptimizationMeta struct {
	OriginalChangePoints int     `json:"original_change_points"`
	RetainedChangePoints int     `json:"retained_change_points"`
	RetainedRatio        float64 `json:"retained_ratio"`
	OptimizationApplied  bool    `json:"optimization_applied"`
	DegenerateSplit      bool    `json:"degenerate_split"`
}

// SegmentationResult is the selected partition of the series. Segments are
// contiguous, non-overlapping, and cover the whole series.
type SegmentationResult struct {
	Segments     []Segment           `json:"segments"`
	ChangePoints []MergedChangePoint `json:"change_points"`
	Optimization OptimizationMeta    `json:"optimization"`
}

// SegmentComparison holds pairwise statistics of two adjacent segments.
type SegmentComparison struct {
	LeftIndex  int `json:"left_index"`
	RightIndex int `json:"right_index"`

	MeanDifference float64     `json:"mean_difference"`
	CVDifference   core.Metric `json:"cv_difference"`
	RangeChange    float64     `json:"range_change"`

	TStatistic float64     `json:"t_statistic"`
	PValue     core.Metric `json:"p_value"`
	EffectSize float64     `json:"effect_size"`
	// Significant = p < cfg.SignificantMaxP AND |d| >= cfg.SignificantMinEffect.
	Significant bool `json:"significant"`

	// Improvement flags relative to Config.TargetValue. Narrative aids only.
	MeanCloserToTarget   bool `json:"mean_closer_to_target"`
	VariabilityDecreased bool `json:"variability_decreased"`
	RangeDecreased       bool `json:"range_decreased"`

	Description string `json:"description"`
}

// QualityGrade is the ordinal grade of a segmentation.
type QualityGrade string

const (
	GradeExcellent QualityGrade = "Excellent"
	GradeGood      QualityGrade = "Good"
	GradeFair      QualityGrade = "Fair"
	GradePoor      QualityGrade = "Poor"
)

// QualityReport grades how well the segmentation separates real regimes.
type QualityReport struct {
	Score       float64      `json:"score"` // 0..100
	Grade       QualityGrade `json:"grade"`
	Description string       `json:"description"`
}
