package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotifierMetrics records dispatch outcomes per notification channel.
type NotifierMetrics struct {
	duration *prometheus.HistogramVec
	sent     *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewNotifierMetrics registers the notifier metrics on the provided registerer.
func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	if reg == nil {
		return &NotifierMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_dispatch_seconds",
		Help:    "Duration of notification channel dispatches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sent",
		Help: "Successful notification dispatches.",
	}, []string{"channel"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failed",
		Help: "Failed notification dispatches.",
	}, []string{"channel"})
	reg.MustRegister(duration, sent, failed)
	return &NotifierMetrics{
		duration: duration,
		sent:     sent,
		failed:   failed,
	}
}

// ObserveDispatch records the duration for the named channel.
func (n *NotifierMetrics) ObserveDispatch(channel string, duration time.Duration) {
	if n == nil || n.duration == nil {
		return
	}
	n.duration.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

// IncSent increments the sent counter for the named channel.
func (n *NotifierMetrics) IncSent(channel string) {
	if n == nil || n.sent == nil {
		return
	}
	n.sent.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncFailed increments the failure counter for the named channel.
func (n *NotifierMetrics) IncFailed(channel string) {
	if n == nil || n.failed == nil {
		return
	}
	n.failed.WithLabelValues(normalizeLabel(channel)).Inc()
}
