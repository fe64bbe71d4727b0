// Package classify maps a complexity profile onto an ordinal stability
// regime through a fixed priority-ordered decision table. The table is total:
// the last rule has no condition, so every input classifies.
package classify

import (
	"fmt"
	"math"

	"goregime/domain/core"
	"goregime/domain/regime"
)

// Decision thresholds. Provenance: ported unchanged from the tuned reference
// system; the stable-CV bound alone is configurable because it tracks the
// published glycemic-variability target.
const (
	chaoticMinExpansion  = 0.1
	chaoticMinEntropy    = 0.7
	chaoticMinCV         = 40
	unstableMinExpansion = 0.01
	unstableMinCV        = 30
	randomMinEntropy     = 0.8
	randomMaxHurstDist   = 0.1
	erraticMinEntropy    = 0.6
	erraticMaxHurst      = 0.3
	disorderedMinEntropy = 0.7
	disorderedMinCV      = 35
)

// Classify runs the decision table over the profile and the sequence's
// coefficient of variation (percent). Metrics that did not compute enter the
// table at their documented fallbacks: expansion 0, Hurst 0.5, CV 0.
func Classify(profile regime.ComplexityProfile, cv core.Metric, cfg regime.Config) regime.BrittlenessClassification {
	expansion := profile.ExpansionRate.Or(0)
	hurst := profile.HurstExponent.Or(0.5)
	entropy := entropyInput(profile)
	cvPct := cv.Or(0)

	level, matched, rule := matchRule(expansion, entropy, hurst, cvPct, cfg.StableMaxCV)
	return regime.BrittlenessClassification{
		Level:     level,
		Regime:    matched,
		Score:     profile.CompositeScore,
		Rationale: rationale(matched, expansion, entropy, hurst, cvPct),
		RuleIndex: rule,
	}
}

// entropyInput selects the normalized entropy the rules compare against.
// Permutation entropy is preferred: it is already in [0,1] and robust to
// amplitude. Spectral entropy substitutes, then a scaled ApEn.
func entropyInput(profile regime.ComplexityProfile) float64 {
	if v, ok := profile.PermutationEntropy.Value(); ok {
		return v
	}
	if v, ok := profile.SpectralEntropy.Value(); ok {
		return v
	}
	if v, ok := profile.ApproxEntropy.Value(); ok {
		if scaled := v / 2; scaled < 1 {
			return scaled
		}
		return 1
	}
	return 0
}

func matchRule(expansion, entropy, hurst, cvPct, stableMaxCV float64) (regime.BrittlenessLevel, regime.StabilityRegime, int) {
	switch {
	case expansion > chaoticMinExpansion && entropy > chaoticMinEntropy && cvPct > chaoticMinCV:
		return 5, regime.RegimeChaotic, 1
	case expansion > unstableMinExpansion && expansion <= chaoticMinExpansion && cvPct > unstableMinCV:
		return 4, regime.RegimeQuasiPeriodic, 2
	case expansion <= unstableMinExpansion && entropy > randomMinEntropy && math.Abs(hurst-0.5) < randomMaxHurstDist:
		return 3, regime.RegimeRandom, 3
	case entropy > erraticMinEntropy && hurst < erraticMaxHurst:
		return 3, regime.RegimeMemoryLoss, 4
	case entropy > disorderedMinEntropy && cvPct > disorderedMinCV:
		return 3, regime.RegimeFrequencyDisorder, 5
	case cvPct < stableMaxCV && expansion < unstableMinExpansion:
		return 1, regime.RegimeStable, 6
	default:
		return 2, regime.RegimeModeratelyUnstable, 7
	}
}

func rationale(matched regime.StabilityRegime, expansion, entropy, hurst, cvPct float64) string {
	detail := fmt.Sprintf("expansion rate %.3f, entropy %.2f, Hurst %.2f, CV %.1f%%", expansion, entropy, hurst, cvPct)
	switch matched {
	case regime.RegimeChaotic:
		return "diverging trajectories with high entropy and high variability: " + detail
	case regime.RegimeQuasiPeriodic:
		return "weak trajectory divergence with elevated variability: " + detail
	case regime.RegimeRandom:
		return "high entropy without divergence or long-range memory: " + detail
	case regime.RegimeMemoryLoss:
		return "elevated entropy with anti-persistent memory: " + detail
	case regime.RegimeFrequencyDisorder:
		return "broadband spectral content with elevated variability: " + detail
	case regime.RegimeStable:
		return "low variability and no trajectory divergence: " + detail
	default:
		return "no dominant instability signature: " + detail
	}
}
