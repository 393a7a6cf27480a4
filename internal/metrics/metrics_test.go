package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.CoercionFailed(DirectionParseLiteral)
	m.CoercionFailed(DirectionParseLiteral)
	m.BookCreated()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.coercionErrors.WithLabelValues(DirectionParseLiteral)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.coercionErrors.WithLabelValues(DirectionSerialize)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.booksCreated))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.CoercionFailed(DirectionSerialize) })
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.BookCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookgraph_books_created_total 1")
}
