package gigya

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-operation call counts and latencies of the gateway.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg
// (the default registerer when reg is nil). Collectors that are already
// registered are reused so several gateways can share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "socialbridge",
			Subsystem: "gigya",
			Name:      "calls_total",
			Help:      "Identity provider calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "socialbridge",
			Subsystem: "gigya",
			Name:      "call_duration_seconds",
			Help:      "Identity provider call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	if err := reg.Register(m.calls); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		m.calls = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		m.duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func (m *Metrics) observe(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// outcome maps an error to a low-cardinality label value.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrTokenExchange):
		return "token_error"
	case errors.Is(err, ErrAuthentication):
		return "authentication_error"
	default:
		return "error"
	}
}
