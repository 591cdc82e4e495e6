package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/knyharnia/bookstore/docs" // swagger文档
	appbook "github.com/knyharnia/bookstore/internal/application/book"
	appuser "github.com/knyharnia/bookstore/internal/application/user"
	"github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/domain/reference"
	"github.com/knyharnia/bookstore/internal/domain/user"
	"github.com/knyharnia/bookstore/internal/infrastructure/config"
	"github.com/knyharnia/bookstore/internal/infrastructure/event"
	"github.com/knyharnia/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/knyharnia/bookstore/internal/infrastructure/persistence/redis"
	"github.com/knyharnia/bookstore/internal/infrastructure/storage"
	"github.com/knyharnia/bookstore/internal/interface/http/handler"
	"github.com/knyharnia/bookstore/internal/interface/http/middleware"
	"github.com/knyharnia/bookstore/pkg/jwt"
	"github.com/knyharnia/bookstore/pkg/metrics"
)

// main 主程序入口
// 说明：手动依赖注入（cmd/api/wire.go提供Wire版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - S3桶: %s (%s)\n", cfg.S3.Bucket, cfg.S3.Region)

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化基础设施连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	coverStorage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("初始化对象存储失败: %v", err)
	}

	eventPublisher, err := event.NewPublisher(cfg)
	if err != nil {
		log.Fatalf("初始化事件发布者失败: %v", err)
	}
	defer eventPublisher.Close()

	// 4. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	referenceRepo := mysql.NewReferenceRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	catalogCache := redis.NewCatalogCache(redisClient, cfg.Catalog.CacheTTL)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)
	resolver := reference.NewResolver(referenceRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore, cfg.JWT.AccessTokenExpire)
	homeListingUseCase := appbook.NewHomeListingUseCase(bookService, catalogCache, cfg.Catalog.PageSize)
	createBookUseCase := appbook.NewCreateBookUseCase(
		bookService, userRepo, resolver, coverStorage, txManager, eventPublisher, catalogCache,
	)
	favoriteUseCase := appbook.NewFavoriteBookUseCase(bookService, catalogCache)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, jwtManager)
	bookHandler := handler.NewBookHandler(homeListingUseCase, createBookUseCase, favoriteUseCase, cfg.S3.MaxFileSize)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 5. 初始化Gin引擎并注册路由
	r := newRouter(cfg, userHandler, bookHandler, authMiddleware, coverStorage)

	// 6. 启动服务（支持优雅关停）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n✓ 服务启动: http://localhost%s\n", srv.Addr)
		fmt.Printf("  首页列表: GET  /books\n")
		fmt.Printf("  创建图书: POST /books/create (admin)\n")
		fmt.Printf("  API文档:  GET  /swagger/index.html\n\n")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待退出信号
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("收到退出信号，开始优雅关停...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("关停服务失败: %v", err)
	}
	log.Println("服务已退出")
}

// registerRoutes 注册业务路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 认证模块
	auth := r.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.POST("/refresh", userHandler.RefreshToken)
		auth.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
	}

	// 图书模块
	books := r.Group("/books")
	{
		// 首页三视图：匿名可访问，登录用户附带收藏标记
		books.GET("", authMiddleware.OptionalAuth(), bookHandler.HomeListing)
		books.GET("/", authMiddleware.OptionalAuth(), bookHandler.HomeListing)

		// 创建图书：需要admin
		books.POST("/create",
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdmin(),
			bookHandler.CreateBook,
		)

		// 收藏
		books.POST("/:id/favorite", authMiddleware.RequireAuth(), bookHandler.Favorite)
		books.DELETE("/:id/favorite", authMiddleware.RequireAuth(), bookHandler.Unfavorite)
	}
}
