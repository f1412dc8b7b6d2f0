package metrics

import "github.com/prometheus/client_golang/prometheus"

// ContactMetrics exposes counters/histograms for the contact relay.
type ContactMetrics struct {
	submissionsTotal *prometheus.CounterVec
	relayTotal       *prometheus.CounterVec
	relayLatency     *prometheus.HistogramVec
}

// NewContactMetrics registers the contact collectors on reg, or the default registerer when reg is nil.
func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roblar",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome and response mode",
		}, []string{"outcome", "mode"}),
		relayTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roblar",
			Subsystem: "contact",
			Name:      "relay_total",
			Help:      "Upstream email relay attempts by provider and result",
		}, []string{"provider", "result", "direct"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roblar",
			Subsystem: "contact",
			Name:      "relay_latency_seconds",
			Help:      "Latency of the upstream email provider call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.relayTotal, m.relayLatency)
	return m
}

// ObserveSubmission counts one finished submission.
func (m *ContactMetrics) ObserveSubmission(outcome, mode string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome, mode).Inc()
}

// ObserveRelay records the result and latency of one provider call.
func (m *ContactMetrics) ObserveRelay(provider, result string, direct bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if direct {
		label = "true"
	}
	m.relayTotal.WithLabelValues(provider, result, label).Inc()
	m.relayLatency.WithLabelValues(provider).Observe(seconds)
}
