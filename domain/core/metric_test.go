package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricValue(t *testing.T) {
	m := MetricValue(0.42)
	v, ok := m.Value()
	assert.True(t, ok)
	assert.Equal(t, 0.42, v)
	assert.True(t, m.Computable())
	assert.Equal(t, 0.42, m.Or(9))
}

func TestMetricUnavailable(t *testing.T) {
	m := MetricUnavailable("degenerate variance")
	_, ok := m.Value()
	assert.False(t, ok)
	assert.Equal(t, "degenerate variance", m.FailureReason())
	assert.Equal(t, 0.5, m.Or(0.5))
}

func TestMetricRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		m := MetricValue(v)
		assert.False(t, m.Computable(), "non-finite %v must not be computable", v)
	}
}

func TestMetricJSONRoundTrip(t *testing.T) {
	for _, m := range []Metric{MetricValue(1.5), MetricUnavailable("no matches")} {
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var back Metric
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, m, back)
	}
}
