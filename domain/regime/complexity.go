package regime

import "goregime/domain/core"

// ComplexityProfile holds the nonlinear-dynamics characterization of one
// value sequence (a segment or the whole series). Every estimator that could
// not run reports a not-computable Metric with a recorded reason instead of
// a magic numeric sentinel.
type ComplexityProfile struct {
	ApproxEntropy      core.Metric `json:"approx_entropy"`
	SampleEntropy      core.Metric `json:"sample_entropy"`
	PermutationEntropy core.Metric `json:"permutation_entropy"`
	SpectralEntropy    core.Metric `json:"spectral_entropy"`
	FractalDimension   core.Metric `json:"fractal_dimension"`
	HurstExponent      core.Metric `json:"hurst_exponent"`
	ExpansionRate      core.Metric `json:"expansion_rate"`
	CompressionRatio   core.Metric `json:"compression_ratio"`
	HjorthComplexity   core.Metric `json:"hjorth_complexity"`

	// CompositeScore is the fixed weighted sum of the per-metric [0,1]
	// component scores, renormalized over the metrics that computed.
	CompositeScore float64 `json:"composite_score"`

	// Failures lists each metric that fell back, with its reason.
	Failures []MetricFailure `json:"failures,omitempty"`
}

// MetricFailure records one estimator falling back to its documented default.
type MetricFailure struct {
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

// BrittlenessLevel is the ordinal stability regime, 1 (stable) to 5 (chaotic).
type BrittlenessLevel int

// StabilityRegime names the matched classification rule.
type StabilityRegime string

const (
	RegimeChaotic            StabilityRegime = "chaotic"
	RegimeQuasiPeriodic      StabilityRegime = "quasi-periodic/unstable"
	RegimeRandom             StabilityRegime = "random/undifferentiated"
	RegimeMemoryLoss         StabilityRegime = "memory-loss/erratic"
	RegimeFrequencyDisorder  StabilityRegime = "frequency-domain disordered"
	RegimeStable             StabilityRegime = "stable"
	RegimeModeratelyUnstable StabilityRegime = "moderately unstable"
)

// BrittlenessClassification is the deterministic output of the rule table.
type BrittlenessClassification struct {
	Level     BrittlenessLevel `json:"level"` // 1..5
	Regime    StabilityRegime  `json:"regime"`
	Score     float64          `json:"score"`
	Rationale string           `json:"rationale"`
	RuleIndex int              `json:"rule_index"` // 1-based position of the matched rule
}
