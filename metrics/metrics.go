// Package metrics exposes Prometheus counters for the HTTP surface.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agendapro_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	webhookAuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agendapro_webhook_auth_failures_total",
		Help: "Webhook calls rejected for a missing or invalid API key.",
	})

	appointmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agendapro_appointments_created_total",
		Help: "Appointments created through any channel.",
	})

	leadsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agendapro_leads_captured_total",
		Help: "Leads captured from inbound webhook messages.",
	})
)

// Middleware counts every request against its matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// WebhookAuthFailure records a rejected webhook call.
func WebhookAuthFailure() { webhookAuthFailures.Inc() }

// AppointmentCreated records a successfully created appointment.
func AppointmentCreated() { appointmentsCreated.Inc() }

// LeadCaptured records a new lead.
func LeadCaptured() { leadsCaptured.Inc() }
