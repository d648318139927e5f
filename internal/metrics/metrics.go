package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audittrail_http_requests_total",
		Help: "Total number of HTTP requests handled, by method and status",
	}, []string{"method", "status"})
	softDeletesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audittrail_soft_deletes_total",
		Help: "Total number of entities logically deleted",
	})
	remindersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audittrail_task_reminders_total",
		Help: "Total number of remediation task reminders recorded",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(httpRequestsTotal, softDeletesTotal, remindersTotal)
}

// IncHTTPRequest counts one handled HTTP request.
func IncHTTPRequest(method, status string) { httpRequestsTotal.WithLabelValues(method, status).Inc() }

// IncSoftDelete counts one logical deletion.
func IncSoftDelete() { softDeletesTotal.Inc() }

// IncReminder counts one recorded task reminder.
func IncReminder() { remindersTotal.Inc() }
