package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/knyharnia/bookstore/internal/infrastructure/config"
	"github.com/knyharnia/bookstore/internal/infrastructure/storage"
	"github.com/knyharnia/bookstore/internal/interface/http/handler"
	"github.com/knyharnia/bookstore/internal/interface/http/middleware"
	"github.com/knyharnia/bookstore/pkg/response"
)

// newRouter 创建Gin引擎并注册全部路由
func newRouter(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	authMiddleware *middleware.AuthMiddleware,
	coverStorage *storage.S3Storage,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// HTTP请求监控（/metrics暴露）
	r.Use(middleware.Metrics())

	// 健康检查（附带上传熔断器状态，便于排查封面上传故障）
	r.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{
			"status":         "healthy",
			"upload_breaker": coverStorage.BreakerState().String(),
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议禁用或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, userHandler, bookHandler, authMiddleware)

	return r
}
