package bot

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the bot.
type Metrics struct {
	messagesTotal   *prometheus.CounterVec
	messageDuration *prometheus.HistogramVec
	cacheOps        *prometheus.CounterVec
	fetchErrors     *prometheus.CounterVec
}

// RegisterMetrics sets up Prometheus metrics collection on the default
// registry. Call once per process.
func RegisterMetrics() *Metrics {
	m := &Metrics{
		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_messages_total",
				Help: "Total number of messages processed",
			},
			[]string{"intent", "status"},
		),
		messageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_message_duration_seconds",
				Help:    "Per-message handling duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"intent"},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_cache_operations_total",
				Help: "Cache lookups by data kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_fetch_errors_total",
				Help: "Upstream fetch failures by data kind",
			},
			[]string{"kind"},
		),
	}

	prometheus.MustRegister(
		m.messagesTotal,
		m.messageDuration,
		m.cacheOps,
		m.fetchErrors,
	)

	return m
}

// CacheOps exposes the cache counter vec for the facade to increment.
func (m *Metrics) CacheOps() *prometheus.CounterVec {
	return m.cacheOps
}

// FetchErrors exposes the fetch failure counter vec for the facade.
func (m *Metrics) FetchErrors() *prometheus.CounterVec {
	return m.fetchErrors
}

func (m *Metrics) observeMessage(intent, status string, seconds float64) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent, status).Inc()
	m.messageDuration.WithLabelValues(intent).Observe(seconds)
}
