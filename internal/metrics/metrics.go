package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// HTTPMetrics exposes request-level instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sales    prometheus.Counter
	voids    prometheus.Counter
}

// Module wires the Prometheus HTTP metrics.
var Module = fx.Module("metrics",
	fx.Provide(New),
)

func New() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vestra_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vestra_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sales: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestra_sales_committed_total",
			Help: "Sales committed through POS checkout.",
		}),
		voids: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vestra_sales_voided_total",
			Help: "Sales voided through the delete guard.",
		}),
	}
}

// RecordSale increments the committed-sale counter.
func (m *HTTPMetrics) RecordSale() {
	if m == nil {
		return
	}
	m.sales.Inc()
}

// RecordVoid increments the voided-sale counter.
func (m *HTTPMetrics) RecordVoid() {
	if m == nil {
		return
	}
	m.voids.Inc()
}

// GinMiddleware records request counts and latency per route template.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
