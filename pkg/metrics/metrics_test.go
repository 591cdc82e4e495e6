package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

// TestInitMetrics 初始化后所有指标可用，重复调用不panic
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 幂等

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, CatalogCacheHitsTotal)
	assert.NotNil(t, CatalogCacheMissesTotal)
	assert.NotNil(t, BooksCreatedTotal)
	assert.NotNil(t, BooksCreateFailedTotal)
	assert.NotNil(t, BookCreationDuration)
	assert.NotNil(t, UploadBreakerState)
}

// TestCounter 基础Counter递增
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)

	assert.Equal(t, before+2, getCounterValue(t, BooksCreatedTotal))
}

// TestCounterVec 带标签的Counter按标签独立计数
func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"category": "new"}
	before := getCounterValue(t, CatalogCacheHitsTotal.With(labels))

	IncCounterVec(CatalogCacheHitsTotal, labels)
	IncCounterVec(CatalogCacheHitsTotal, map[string]string{"category": "sales"})

	assert.Equal(t, before+1, getCounterValue(t, CatalogCacheHitsTotal.With(labels)))
}

// TestNilSafety 未初始化的指标调用不panic
func TestNilSafety(t *testing.T) {
	IncCounter(nil)
	ObserveHistogram(nil, 1.0)
	IncCounterVec(nil, map[string]string{"category": "new"})
}
