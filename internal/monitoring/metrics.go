package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointment_reminders_sent_total",
			Help: "Reminder notices published by the scheduler",
		},
	)

	NoticesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointment_notices_dropped_total",
			Help: "Notification events dropped because the dispatch queue was full",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RemindersSent)
	prometheus.MustRegister(NoticesDropped)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
