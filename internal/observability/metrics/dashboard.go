package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DashboardMetrics tracks orchestrator outcomes and presentation events
type DashboardMetrics struct {
	requestsTotal     *prometheus.CounterVec
	staleTotal        *prometheus.CounterVec
	noticesTotal      *prometheus.CounterVec
	preferenceWrites  *prometheus.CounterVec
	sinkPublishTotal  *prometheus.CounterVec
	inflightRequests  prometheus.Gauge
	currentCallLength prometheus.Histogram
}

// NewDashboardMetrics creates and registers dashboard metrics
func NewDashboardMetrics(registry prometheus.Registerer) (*DashboardMetrics, error) {
	m := &DashboardMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Dashboard fetch requests by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		staleTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_stale_responses_total",
			Help: "Responses discarded because a newer request was issued",
		}, []string{"stage"}),
		noticesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_notices_total",
			Help: "User notices raised by severity",
		}, []string{"severity"}),
		preferenceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_preference_writes_total",
			Help: "Preference store writes by key and status",
		}, []string{"key", "status"}),
		sinkPublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_sink_publish_total",
			Help: "Integration sink publishes by sink and status",
		}, []string{"sink", "status"}),
		inflightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_inflight_requests",
			Help: "Fetch requests currently in progress",
		}),
		currentCallLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "Time from trigger to rendered report",
			Buckets: prometheus.ExponentialBuckets(BucketStart50ms, BucketFactor2, BucketCount10),
		}),
	}

	collectors := []prometheus.Collector{
		m.requestsTotal, m.staleTotal, m.noticesTotal, m.preferenceWrites,
		m.sinkPublishTotal, m.inflightRequests, m.currentCallLength,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordRequest records the outcome of a fetch trigger
func (m *DashboardMetrics) RecordRequest(trigger, outcome string, seconds float64) {
	m.requestsTotal.WithLabelValues(trigger, outcome).Inc()
	if outcome == "rendered" {
		m.currentCallLength.Observe(seconds)
	}
}

// RecordStale records a discarded response
func (m *DashboardMetrics) RecordStale(stage string) {
	m.staleTotal.WithLabelValues(stage).Inc()
}

// RecordNotice records a user notice
func (m *DashboardMetrics) RecordNotice(severity string) {
	m.noticesTotal.WithLabelValues(severity).Inc()
}

// RecordPreferenceWrite records a preference store write
func (m *DashboardMetrics) RecordPreferenceWrite(key string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.preferenceWrites.WithLabelValues(key, status).Inc()
}

// RecordSinkPublish records an integration publish
func (m *DashboardMetrics) RecordSinkPublish(sink string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.sinkPublishTotal.WithLabelValues(sink, status).Inc()
}

// RequestStarted and RequestFinished bracket an in-flight request
func (m *DashboardMetrics) RequestStarted()  { m.inflightRequests.Inc() }
func (m *DashboardMetrics) RequestFinished() { m.inflightRequests.Dec() }
