package regime

import (
	"encoding/json"

	"goregime/domain/core"
)

// SeriesInfo is the report's summary of the analyzed input.
type SeriesInfo struct {
	Samples       int     `json:"samples"`
	DurationHours float64 `json:"duration_hours"`
	IntervalSecs  float64 `json:"interval_secs"`
	Degraded      bool    `json:"degraded"` // single-scale indicator fallback was used
}

// AnalysisReport is the immutable aggregate result of one analysis call.
// It is the whole external contract: serializable for renderers, never
// cached or mutated by the engine.
type AnalysisReport struct {
	ID        core.ReportID  `json:"id"`
	CreatedAt core.Timestamp `json:"created_at"`

	Series           SeriesInfo                `json:"series"`
	Segmentation     SegmentationResult        `json:"segmentation"`
	Comparisons      []SegmentComparison       `json:"comparisons"`
	Quality          QualityReport             `json:"quality"`
	SeriesProfile    ComplexityProfile         `json:"series_profile"`
	SegmentProfiles  []ComplexityProfile       `json:"segment_profiles"`
	Classification   BrittlenessClassification `json:"classification"`
	DetectorFailures []DetectorFailure         `json:"detector_failures,omitempty"`

	// Fingerprint hashes the deterministic content (everything except ID
	// and CreatedAt); identical inputs yield identical fingerprints.
	Fingerprint core.Fingerprint `json:"fingerprint"`
}

// MarshalDocument returns the canonical JSON encoding consumed by external
// renderers (HTML/PDF exporters, web endpoints).
func (r AnalysisReport) MarshalDocument() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ComputeFingerprint hashes the report content that must be deterministic.
func (r AnalysisReport) ComputeFingerprint() (core.Fingerprint, error) {
	stable := r
	stable.ID = ""
	stable.CreatedAt = core.Timestamp{}
	stable.Fingerprint = ""
	data, err := json.Marshal(stable)
	if err != nil {
		return "", err
	}
	return core.NewFingerprint(data), nil
}
