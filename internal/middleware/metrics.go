package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP and Chef Freddie collectors
type Metrics struct {
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	chefCalls *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "porkchop",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "porkchop",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		chefCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "porkchop",
			Name:      "chef_freddie_requests_total",
			Help:      "Chef Freddie questions by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.requests, m.durations, m.chefCalls)
	return m
}

// Handler records every request under its route template
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.durations.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// ChefCall counts one Chef Freddie answer; outcome is "ok" or "error"
func (m *Metrics) ChefCall(outcome string) {
	if m == nil {
		return
	}
	m.chefCalls.WithLabelValues(outcome).Inc()
}
