package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePollCycle("ok")
	m.ObservePollCycle("ok")
	m.ObserveMessages(3)
	m.ObserveMessages(0)
	m.ObserveFetchFailure(ReasonRateLimited)
	m.ObserveNotification("push", true)
	m.ObserveNotification("desktop", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PollCycles.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.MessagesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(ReasonRateLimited)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("push", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("desktop", "failure")))
	assert.Greater(t, testutil.ToFloat64(m.WatermarkAdvanced), 0.0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePollCycle("ok")
		m.ObserveMessages(1)
		m.ObserveFetchFailure(ReasonTransport)
		m.ObserveNotification("push", false)
	})
}
