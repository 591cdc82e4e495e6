// Package metrics 提供基于Prometheus的指标收集
//
// 指标命名规范：
// - Counter以_total结尾（books_created_total）
// - Histogram以单位结尾（book_creation_duration_seconds）
// - 避免高基数标签（不要用user_id、book_id做标签）
//
// 抓取入口：/metrics（promhttp.Handler，见cmd/api）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 防止重复注册（promauto重复注册会panic）
	initialized bool

	// HTTP请求指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时分布
	HTTPRequestDuration *prometheus.HistogramVec

	// 目录（首页三视图）指标

	// CatalogCacheHitsTotal 目录缓存命中数，标签：category（new/sales/bestsellers）
	CatalogCacheHitsTotal *prometheus.CounterVec

	// CatalogCacheMissesTotal 目录缓存未命中数（含缓存降级）
	CatalogCacheMissesTotal *prometheus.CounterVec

	// 图书创建指标

	// BooksCreatedTotal 图书创建成功总数
	BooksCreatedTotal prometheus.Counter

	// BooksCreateFailedTotal 图书创建失败总数，标签：reason
	// （forbidden/conflict/not_found/validation/upload_failed/infrastructure）
	BooksCreateFailedTotal *prometheus.CounterVec

	// BookCreationDuration 图书创建耗时分布（含上传与写库）
	BookCreationDuration prometheus.Histogram

	// 上传网关指标

	// UploadBreakerState 上传熔断器状态（0=CLOSED 1=OPEN 2=HALF_OPEN）
	UploadBreakerState prometheus.Gauge
)

// InitMetrics 初始化并注册所有指标
// 在进程启动时调用一次
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency distribution",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "path"})

	CatalogCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Catalog listing cache hits per category",
	}, []string{"category"})

	CatalogCacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Catalog listing cache misses per category (including cache errors)",
	}, []string{"category"})

	BooksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "books_created_total",
		Help: "Total number of books created successfully",
	})

	BooksCreateFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "books_create_failed_total",
		Help: "Total number of failed book creations by reason",
	}, []string{"reason"})

	BookCreationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "book_creation_duration_seconds",
		Help:    "Book creation latency including image upload and persistence",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	UploadBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upload_breaker_state",
		Help: "Image upload circuit breaker state (0=closed 1=open 2=half-open)",
	})
}

// IncCounter 递增Counter
func IncCounter(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(c *prometheus.CounterVec, labels map[string]string) {
	if c != nil {
		c.With(labels).Inc()
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(h prometheus.Histogram, value float64) {
	if h != nil {
		h.Observe(value)
	}
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(h *prometheus.HistogramVec, labels map[string]string, value float64) {
	if h != nil {
		h.With(labels).Observe(value)
	}
}
