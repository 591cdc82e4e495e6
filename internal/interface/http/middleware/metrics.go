package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/knyharnia/bookstore/pkg/metrics"
)

// Metrics HTTP请求监控中间件
// 按method/path/status计数，按method/path记录耗时分布
// path使用路由模板（/books/:id/favorite），避免高基数标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			// 未匹配任何路由（404），归入同一标签
			path = "unmatched"
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
