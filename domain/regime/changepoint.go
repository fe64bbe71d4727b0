package regime

import "goregime/domain/core"

// DetectorMethod names one change-point detection method.
type DetectorMethod string

const (
	MethodVarianceRatio DetectorMethod = "variance_ratio"
	MethodMeanShift     DetectorMethod = "mean_shift"
	MethodTrendChange   DetectorMethod = "trend_change"
)

// ChangePointCandidate is a single detector's vote for a boundary position.
type ChangePointCandidate struct {
	Position     int            `json:"position"`
	Method       DetectorMethod `json:"method"`
	Significance float64        `json:"significance"`
	EffectSize   float64        `json:"effect_size"`
	// PValue is only meaningful for test-based detectors; the variance-ratio
	// detector reports it as not computable.
	PValue core.Metric `json:"p_value"`
}

// AnnotationPattern is a heuristic label for the shape of a change point.
// These labels are enrichment metadata with no validated clinical grounding.
type AnnotationPattern string

const (
	PatternAbruptShift       AnnotationPattern = "abrupt-shift"
	PatternDrift             AnnotationPattern = "drift"
	PatternVariabilityChange AnnotationPattern = "variability-change"
)

// Annotation is optional clinical-mode enrichment for a merged change point.
type Annotation struct {
	Pattern    AnnotationPattern `json:"pattern"`
	Confidence float64           `json:"confidence"`
	Note       string            `json:"note"`
}

// MergedChangePoint is the deduplicated representative of a candidate group.
// Immutable once derived.
type MergedChangePoint struct {
	Position          int              `json:"position"`
	SupportingMethods []DetectorMethod `json:"supporting_methods"`
	Importance        float64          `json:"importance"`
	Significance      float64          `json:"significance"`
	EffectSize        float64          `json:"effect_size"`
	Annotation        *Annotation      `json:"annotation,omitempty"`
}

// Supports reports whether the given method voted for this point.
func (m MergedChangePoint) Supports(method DetectorMethod) bool {
	for _, mm := range m.SupportingMethods {
		if mm == method {
			return true
		}
	}
	return false
}

// DetectorFailure records why one detector produced no candidates. A failed
// detector never aborts the bank.
type DetectorFailure struct {
	Method DetectorMethod `json:"method"`
	Reason string         `json:"reason"`
}
