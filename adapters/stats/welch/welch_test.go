package welch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparatedGroupsAreSignificant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	left := make([]float64, 50)
	right := make([]float64, 50)
	for i := range left {
		left[i] = 5 + rng.NormFloat64()*0.1
		right[i] = 10 + rng.NormFloat64()*0.1
	}

	res := Test(left, right)
	p, ok := res.PValue.Value()
	require.True(t, ok)
	assert.Less(t, p, 0.001)
	assert.Greater(t, res.EffectSize, 0.5)
	assert.InDelta(t, 5.0, res.MeanDiff, 0.1)
	assert.True(t, res.Significant(0.01, 0.5))
}

func TestIdenticalSamplesNotSignificant(t *testing.T) {
	sample := []float64{4, 5, 6, 5, 4, 5, 6, 5}
	res := Test(sample, sample)
	p, ok := res.PValue.Value()
	require.True(t, ok)
	assert.InDelta(t, 1.0, p, 1e-9)
	assert.False(t, res.Significant(0.05, 0.3))
}

func TestDegenerateInputs(t *testing.T) {
	res := Test([]float64{1}, []float64{2, 3})
	assert.False(t, res.PValue.Computable())

	// Constant equal sides: p = 1.
	res = Test([]float64{3, 3, 3}, []float64{3, 3, 3})
	p, ok := res.PValue.Value()
	require.True(t, ok)
	assert.Equal(t, 1.0, p)

	// Constant different sides: certain shift, capped effect size.
	res = Test([]float64{3, 3, 3}, []float64{9, 9, 9})
	p, ok = res.PValue.Value()
	require.True(t, ok)
	assert.Equal(t, 0.0, p)
	assert.False(t, math.IsInf(res.EffectSize, 0))
}

func TestEffectSizeSign(t *testing.T) {
	lower := []float64{10, 11, 9, 10, 12, 10}
	higher := []float64{20, 21, 19, 20, 22, 20}

	assert.Positive(t, Test(lower, higher).EffectSize)
	assert.Negative(t, Test(higher, lower).EffectSize)
}
