package regime

import (
	"time"

	"goregime/domain/core"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the analysis. All thresholds that were
// historically buried in the estimators live here, because silently changing
// them changes the clinical semantics they were tuned for.
type Config struct {
	// Segmentation shape.
	MinSegmentDurationHours float64 `yaml:"min_segment_duration_hours" json:"min_segment_duration_hours"`
	MinSegments             int     `yaml:"min_segments" json:"min_segments"`
	MaxSegments             int     `yaml:"max_segments" json:"max_segments"`

	// ClinicalMode enables heuristic change-point annotations. The labels
	// are speculative pattern matching, never diagnostic output.
	ClinicalMode bool `yaml:"clinical_mode" json:"clinical_mode"`

	// TargetValue is an optional therapeutic target (e.g. mean glucose);
	// when set, the comparator emits directional improvement flags.
	TargetValue *float64 `yaml:"target_value,omitempty" json:"target_value,omitempty"`

	// Indicator windows: each scale is a fraction of series length,
	// floor-bounded by MinWindow.
	WindowFractions []float64 `yaml:"window_fractions" json:"window_fractions"`
	MinWindow       int       `yaml:"min_window" json:"min_window"`

	// Detector thresholds. Provenance: ported unchanged from the tuned
	// reference system; see DESIGN.md before editing any of them.
	VarianceRatioMultiplier float64 `yaml:"variance_ratio_multiplier" json:"variance_ratio_multiplier"` // default 2.0
	VarianceRatioPercentile float64 `yaml:"variance_ratio_percentile" json:"variance_ratio_percentile"` // default 95
	MeanShiftMaxP           float64 `yaml:"mean_shift_max_p" json:"mean_shift_max_p"`                   // default 0.01
	MeanShiftMinEffect      float64 `yaml:"mean_shift_min_effect" json:"mean_shift_min_effect"`         // default 0.5 (Cohen's d)
	TrendMinSlopeDelta      float64 `yaml:"trend_min_slope_delta" json:"trend_min_slope_delta"`         // default 0.1 units/sample
	TrendMinR2              float64 `yaml:"trend_min_r2" json:"trend_min_r2"`                           // default 0.5

	// Aggregator importance weights, must sum to 1.
	MethodSupportWeight float64 `yaml:"method_support_weight" json:"method_support_weight"` // default 0.4
	PositionWeight      float64 `yaml:"position_weight" json:"position_weight"`             // default 0.3
	MagnitudeWeight     float64 `yaml:"magnitude_weight" json:"magnitude_weight"`           // default 0.3

	// Comparator significance gate: p < SignificantMaxP AND |d| >= SignificantMinEffect.
	SignificantMaxP      float64 `yaml:"significant_max_p" json:"significant_max_p"`           // default 0.05
	SignificantMinEffect float64 `yaml:"significant_min_effect" json:"significant_min_effect"` // default 0.3

	// Complexity profiling.
	EntropyTolerance   float64       `yaml:"entropy_tolerance" json:"entropy_tolerance"`     // r = tol * stdev, default 0.2
	EmbeddingDimension int           `yaml:"embedding_dimension" json:"embedding_dimension"` // default 2 (entropy), expansion uses 3
	SampleCap          int           `yaml:"sample_cap" json:"sample_cap"`                   // bound on O(n^2) expansion-rate work
	MetricTimeout      time.Duration `yaml:"metric_timeout" json:"metric_timeout"`           // per-metric deadline

	// Classifier thresholds (CV values in percent).
	StableMaxCV float64 `yaml:"stable_max_cv" json:"stable_max_cv"` // default 36
}

// DefaultConfig returns the tuned defaults of the reference system.
func DefaultConfig() Config {
	return Config{
		MinSegmentDurationHours: 24,
		MinSegments:             2,
		MaxSegments:             4,
		WindowFractions:         []float64{0.05, 0.1, 0.2},
		MinWindow:               8,
		VarianceRatioMultiplier: 2.0,
		VarianceRatioPercentile: 95,
		MeanShiftMaxP:           0.01,
		MeanShiftMinEffect:      0.5,
		TrendMinSlopeDelta:      0.1,
		TrendMinR2:              0.5,
		MethodSupportWeight:     0.4,
		PositionWeight:          0.3,
		MagnitudeWeight:         0.3,
		SignificantMaxP:         0.05,
		SignificantMinEffect:    0.3,
		EntropyTolerance:        0.2,
		EmbeddingDimension:      2,
		SampleCap:               500,
		MetricTimeout:           10 * time.Second,
		StableMaxCV:             36,
	}
}

// LoadConfig parses a YAML document over the defaults, then validates.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, core.NewConfigError("yaml", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config eagerly, before any computation runs.
func (c Config) Validate() error {
	if c.MinSegments < 1 {
		return core.NewConfigError("min_segments", "must be at least 1")
	}
	if c.MaxSegments < c.MinSegments {
		return core.NewConfigError("max_segments", "must be >= min_segments")
	}
	if c.MinSegmentDurationHours <= 0 {
		return core.NewConfigError("min_segment_duration_hours", "must be positive")
	}
	if len(c.WindowFractions) == 0 {
		return core.NewConfigError("window_fractions", "at least one scale required")
	}
	for _, f := range c.WindowFractions {
		if f <= 0 || f >= 1 {
			return core.NewConfigError("window_fractions", "fractions must be in (0,1)")
		}
	}
	if c.MinWindow < 2 {
		return core.NewConfigError("min_window", "must be at least 2")
	}
	if c.VarianceRatioMultiplier <= 1 {
		return core.NewConfigError("variance_ratio_multiplier", "must exceed 1")
	}
	if c.VarianceRatioPercentile <= 0 || c.VarianceRatioPercentile >= 100 {
		return core.NewConfigError("variance_ratio_percentile", "must be in (0,100)")
	}
	if c.MeanShiftMaxP <= 0 || c.MeanShiftMaxP >= 1 {
		return core.NewConfigError("mean_shift_max_p", "must be in (0,1)")
	}
	if c.MeanShiftMinEffect <= 0 {
		return core.NewConfigError("mean_shift_min_effect", "must be positive")
	}
	if c.TrendMinSlopeDelta <= 0 {
		return core.NewConfigError("trend_min_slope_delta", "must be positive")
	}
	if c.TrendMinR2 <= 0 || c.TrendMinR2 >= 1 {
		return core.NewConfigError("trend_min_r2", "must be in (0,1)")
	}
	weightSum := c.MethodSupportWeight + c.PositionWeight + c.MagnitudeWeight
	if weightSum < 0.999 || weightSum > 1.001 {
		return core.NewConfigError("importance weights", "must sum to 1")
	}
	if c.SignificantMaxP <= 0 || c.SignificantMaxP >= 1 {
		return core.NewConfigError("significant_max_p", "must be in (0,1)")
	}
	if c.SignificantMinEffect <= 0 {
		return core.NewConfigError("significant_min_effect", "must be positive")
	}
	if c.EntropyTolerance <= 0 {
		return core.NewConfigError("entropy_tolerance", "must be positive")
	}
	if c.EmbeddingDimension < 1 {
		return core.NewConfigError("embedding_dimension", "must be at least 1")
	}
	if c.SampleCap < 10 {
		return core.NewConfigError("sample_cap", "must be at least 10")
	}
	if c.MetricTimeout <= 0 {
		return core.NewConfigError("metric_timeout", "must be positive")
	}
	if c.StableMaxCV <= 0 {
		return core.NewConfigError("stable_max_cv", "must be positive")
	}
	return nil
}

// MarshalYAML-friendly round trip for exporting the effective config.
func (c Config) MarshalDocument() ([]byte, error) {
	return yaml.Marshal(c)
}
