package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// Metric is an optional scalar: either a computed value, or a recorded
// reason why the value could not be computed. Nonlinear-dynamics estimators
// historically overload 0, 0.5 and NaN as failure sentinels; Metric replaces
// all of those with one explicit representation.
type Metric struct {
	value  float64
	ok     bool
	reason string
}

// MetricValue wraps a successfully computed value. NaN and Inf inputs are
// converted into not-computable metrics so they can never leak downstream.
func MetricValue(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MetricUnavailable("non-finite result")
	}
	return Metric{value: v, ok: true}
}

// MetricUnavailable records a metric that could not be computed.
func MetricUnavailable(reason string) Metric {
	return Metric{reason: reason}
}

// Value returns the computed value and whether it is valid.
func (m Metric) Value() (float64, bool) {
	return m.value, m.ok
}

// Or returns the computed value, or fallback when not computable.
func (m Metric) Or(fallback float64) float64 {
	if m.ok {
		return m.value
	}
	return fallback
}

// Computable reports whether the metric holds a valid value.
func (m Metric) Computable() bool {
	return m.ok
}

// FailureReason returns the recorded reason for a not-computable metric.
func (m Metric) FailureReason() string {
	return m.reason
}

// String renders the metric for logs and rationale text.
func (m Metric) String() string {
	if !m.ok {
		return fmt.Sprintf("n/a (%s)", m.reason)
	}
	return fmt.Sprintf("%.4f", m.value)
}

type metricJSON struct {
	Value      *float64 `json:"value,omitempty"`
	Computable bool     `json:"computable"`
	Reason     string   `json:"reason,omitempty"`
}

// MarshalJSON encodes the metric as {value, computable, reason}.
func (m Metric) MarshalJSON() ([]byte, error) {
	doc := metricJSON{Computable: m.ok, Reason: m.reason}
	if m.ok {
		v := m.value
		doc.Value = &v
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the {value, computable, reason} form.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var doc metricJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Computable && doc.Value != nil {
		*m = MetricValue(*doc.Value)
		return nil
	}
	*m = MetricUnavailable(doc.Reason)
	return nil
}
