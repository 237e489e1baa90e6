// Package metrics holds the Prometheus collectors shared by the monitor components.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "channel_alert_monitor"

// Poll cycle results.
const (
	CycleOK         = "ok"
	CycleRecovered  = "recovered"
	CycleAuthFailed = "auth_failed"
)

// Fetch failure reasons.
const (
	ReasonRateLimited = "rate_limited"
	ReasonTransport   = "transport"
	ReasonStatus      = "status"
	ReasonDecode      = "decode"
)

type Metrics struct {
	PollCycles        *prometheus.CounterVec
	MessagesProcessed prometheus.Counter
	FetchFailures     *prometheus.CounterVec
	Notifications     *prometheus.CounterVec
	WatermarkAdvanced prometheus.Gauge
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PollCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Poll cycles by result (ok, recovered, auth_failed).",
		}, []string{"result"}),
		MessagesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_processed_total",
			Help:      "Messages handed to the notification dispatcher.",
		}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Remote channel requests that degraded to an empty result, by reason.",
		}, []string{"reason"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by channel and status.",
		}, []string{"channel", "status"}),
		WatermarkAdvanced: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watermark_advanced_timestamp_seconds",
			Help:      "Unix time the watermark last moved forward.",
		}),
	}
}

func (m *Metrics) ObservePollCycle(result string) {
	if m == nil {
		return
	}
	m.PollCycles.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveMessages(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MessagesProcessed.Add(float64(n))
	m.WatermarkAdvanced.Set(float64(time.Now().Unix()))
}

func (m *Metrics) ObserveFetchFailure(reason string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveNotification(channel string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.Notifications.WithLabelValues(channel, status).Inc()
}
