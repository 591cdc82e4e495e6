package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knyharnia/bookstore/pkg/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsMiddleware(t *testing.T) {
	metrics.InitMetrics()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/books/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// path标签必须是路由模板而不是实际URL（避免高基数）
	labels := map[string]string{"method": "GET", "path": "/books/:id", "status": "200"}
	before := counterValue(t, metrics.HTTPRequestsTotal.With(labels))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/abc123", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, before+1, counterValue(t, metrics.HTTPRequestsTotal.With(labels)))
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	metrics.InitMetrics()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	labels := map[string]string{"method": "GET", "path": "unmatched", "status": "404"}
	before := counterValue(t, metrics.HTTPRequestsTotal.With(labels))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, before+1, counterValue(t, metrics.HTTPRequestsTotal.With(labels)))
}
