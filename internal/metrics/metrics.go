package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StreamConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "secretpages_stream_connections",
		Help: "Current number of active message stream subscriptions",
	})
	MessagesSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "secretpages_messages_saved_total",
		Help: "Total number of secret message saves",
	})
	FriendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "secretpages_friend_requests_total",
		Help: "Friend request operations by outcome",
	}, []string{"outcome"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(StreamConnections, MessagesSavedTotal, FriendRequestsTotal, HTTPRequestsTotal, HTTPRequestDuration)
}

// GinMiddleware records per-request counters and latencies for Prometheus.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
