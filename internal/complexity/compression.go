package complexity

import (
	"math"

	"goregime/domain/core"

	"github.com/montanaflynn/stats"
)

// CompressionRatio binarizes the signal at its median and runs greedy
// dictionary (LZ78-style) compression over the bit string, reporting
// compressed/raw length with each phrase costing a dictionary pointer plus
// one literal bit. Regular signals compress well (low ratio), disordered
// signals do not.
func CompressionRatio(values []float64) core.Metric {
	n := len(values)
	if n < 16 {
		return core.MetricUnavailable("series too short for compression estimate")
	}
	median, err := stats.Median(values)
	if err != nil {
		return core.MetricUnavailable(err.Error())
	}

	bits := make([]byte, n)
	for i, v := range values {
		if v >= median {
			bits[i] = '1'
		} else {
			bits[i] = '0'
		}
	}

	phrases := dictionaryPhrases(bits)
	pointerBits := math.Ceil(math.Log2(float64(phrases + 1)))
	compressed := float64(phrases) * (pointerBits + 1)
	return core.MetricValue(clip(compressed/float64(n), 0, 1))
}

// dictionaryPhrases counts LZ78 phrases: each phrase extends the longest
// previously seen phrase by one bit.
func dictionaryPhrases(bits []byte) int {
	dict := make(map[string]bool)
	phrases := 0
	start := 0
	for end := 1; end <= len(bits); end++ {
		phrase := string(bits[start:end])
		if dict[phrase] && end < len(bits) {
			continue
		}
		dict[phrase] = true
		phrases++
		start = end
	}
	return phrases
}
