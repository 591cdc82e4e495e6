//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 使用方式：
// 1. 修改依赖关系后运行 `wire gen ./cmd/api`
// 2. Wire生成wire_gen.go，包含完整的依赖创建代码
// 3. main.go可切换为调用InitializeApp()
//
// Wire在编译期生成代码：零运行时开销、类型安全、编译期检测循环依赖

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,          // 加载配置文件
	mysql.NewDB,          // 创建MySQL连接
	redis.NewClient,      // 创建Redis连接
	storage.NewS3Storage, // 创建S3存储
	event.NewPublisher,   // 创建事件发布者
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewReferenceRepository,
	mysql.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	reference.NewResolver,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	provideLogoutUseCase,
	provideHomeListingUseCase,
	provideCreateBookUseCase,
	provideFavoriteUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	provideBookHandler,
)

// =========================================
// 自定义Provider
// （构造函数需要从Config提取标量参数的依赖）
// =========================================

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

func provideAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, sessionStore)
}

func provideCatalogCache(cfg *config.Config, client *goredis.Client) *redis.CatalogCache {
	return redis.NewCatalogCache(client, cfg.Catalog.CacheTTL)
}

func provideLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	cfg *config.Config,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire)
}

func provideLogoutUseCase(sessionStore *redis.SessionStore, cfg *config.Config) *appuser.LogoutUseCase {
	return appuser.NewLogoutUseCase(sessionStore, cfg.JWT.AccessTokenExpire)
}

func provideHomeListingUseCase(
	bookService book.Service,
	cache *redis.CatalogCache,
	cfg *config.Config,
) *appbook.HomeListingUseCase {
	return appbook.NewHomeListingUseCase(bookService, cache, cfg.Catalog.PageSize)
}

func provideCreateBookUseCase(
	bookService book.Service,
	userRepo user.Repository,
	resolver *reference.Resolver,
	coverStorage *storage.S3Storage,
	txManager *mysql.TxManager,
	events *event.Publisher,
	cache *redis.CatalogCache,
) *appbook.CreateBookUseCase {
	return appbook.NewCreateBookUseCase(bookService, userRepo, resolver, coverStorage, txManager, events, cache)
}

func provideFavoriteUseCase(bookService book.Service, cache *redis.CatalogCache) *appbook.FavoriteBookUseCase {
	return appbook.NewFavoriteBookUseCase(bookService, cache)
}

func provideBookHandler(
	homeListingUseCase *appbook.HomeListingUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	favoriteUseCase *appbook.FavoriteBookUseCase,
	cfg *config.Config,
) *handler.BookHandler {
	return handler.NewBookHandler(homeListingUseCase, createBookUseCase, favoriteUseCase, cfg.S3.MaxFileSize)
}

// InitializeApp 初始化整个应用
// Wire会在wire_gen.go中生成实际的初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideCatalogCache,
		newRouter,
	)
	return nil, nil
}
