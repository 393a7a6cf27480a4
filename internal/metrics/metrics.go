package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookgraph"

// Coercion directions used as the "direction" label.
const (
	DirectionSerialize    = "serialize"
	DirectionParseValue   = "parse_value"
	DirectionParseLiteral = "parse_literal"
)

type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	coercionErrors  *prometheus.CounterVec
	booksCreated    prometheus.Counter
}

// New registers every collector on a private registry so multiple instances
// (tests, several servers in one process) never collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		coercionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scalar_coercion_errors_total",
			Help:      "DateTime scalar coercion failures by direction.",
		}, []string{"direction"}),
		booksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "books_created_total",
			Help:      "Books persisted through createBook.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.coercionErrors,
		m.booksCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CoercionFailed(direction string) {
	if m == nil {
		return
	}
	m.coercionErrors.WithLabelValues(direction).Inc()
}

func (m *Metrics) BookCreated() {
	if m == nil {
		return
	}
	m.booksCreated.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
