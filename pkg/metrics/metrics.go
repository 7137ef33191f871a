package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Dispatch metrics
	SendsTotal  *prometheus.CounterVec
	SendLatency *prometheus.HistogramVec

	// Delivery queue metrics
	QueueDepth     prometheus.Gauge
	QueueProcessed prometheus.Counter

	// Reminder sweep metrics
	SweepsTotal   prometheus.Counter
	RemindersSent *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SendsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_sends_total",
			Help:      "Total number of notification send attempts",
		}, []string{"channel", "status"}),
		SendLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_send_duration_seconds",
			Help:      "Time spent dispatching a notification to a provider",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"channel"}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "delivery_queue_depth",
			Help:      "Current number of payloads waiting in the delivery queue",
		}),
		QueueProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_queue_processed_total",
			Help:      "Total number of payloads drained from the delivery queue",
		}),
		SweepsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_sweeps_total",
			Help:      "Total number of reminder sweep invocations",
		}),
		RemindersSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of appointment reminders fired",
		}, []string{"window"}),
	}
}
