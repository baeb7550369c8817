package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead intake flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	storeErrorsTotal *prometheus.CounterVec
	notifyLatency    prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Name:      "submissions_total",
			Help:      "Lead form submissions by outcome",
		}, []string{"outcome", "spam"}),
		storeErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Name:      "store_errors_total",
			Help:      "Lead store failures that were logged and skipped",
		}, []string{"op"}),
		notifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadintake",
			Name:      "notify_latency_seconds",
			Help:      "Latency of operator channel sends",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.storeErrorsTotal, m.notifyLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string, spam bool) {
	if m == nil {
		return
	}
	label := "false"
	if spam {
		label = "true"
	}
	m.submissionsTotal.WithLabelValues(outcome, label).Inc()
}

func (m *LeadMetrics) ObserveStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrorsTotal.WithLabelValues(op).Inc()
}

func (m *LeadMetrics) ObserveNotifyLatency(seconds float64) {
	if m == nil {
		return
	}
	m.notifyLatency.Observe(seconds)
}
