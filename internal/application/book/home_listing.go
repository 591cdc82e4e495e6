package book

import (
	"context"
	"log"

	"github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/pkg/metrics"
)

// 视图名（缓存Key后缀与监控标签共用）
const (
	ViewNewest      = "new"
	ViewSales       = "sales"
	ViewBestsellers = "bestsellers"
)

// ListingCache 首页视图缓存接口
// infrastructure/persistence/redis.CatalogCache是生产实现
type ListingCache interface {
	// Get 读取视图缓存，返回(是否命中, 错误)
	Get(ctx context.Context, view string, dest interface{}) (bool, error)

	// Set 写入视图缓存
	Set(ctx context.Context, view string, value interface{}) error

	// Invalidate 删除视图缓存
	Invalidate(ctx context.Context, views ...string) error
}

// HomeListingUseCase 首页三视图查询用例
// 设计说明：
// 1. 缓存只存与请求者无关的图书投影，收藏标记每次实时计算
//    （同一份缓存服务所有用户，登录态差异只体现在favorited上）
// 2. 缓存读写失败都降级回源数据库，不影响请求结果
// 3. 三个视图各自独立缓存，各自回源
type HomeListingUseCase struct {
	bookService book.Service
	cache       ListingCache // 可以为nil（禁用缓存）
	pageSize    int
}

// NewHomeListingUseCase 创建首页查询用例
func NewHomeListingUseCase(bookService book.Service, cache ListingCache, pageSize int) *HomeListingUseCase {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &HomeListingUseCase{
		bookService: bookService,
		cache:       cache,
		pageSize:    pageSize,
	}
}

// Execute 查询三视图
// userID为空表示匿名请求，所有favorited为false
func (uc *HomeListingUseCase) Execute(ctx context.Context, userID string) (*HomeListingResponse, error) {
	newBooks, err := uc.loadView(ctx, ViewNewest, uc.bookService.NewestBooks)
	if err != nil {
		return nil, err
	}

	salesBooks, err := uc.loadView(ctx, ViewSales, uc.bookService.OnSaleBooks)
	if err != nil {
		return nil, err
	}

	bestsellerBooks, err := uc.loadView(ctx, ViewBestsellers, uc.bookService.BestsellerBooks)
	if err != nil {
		return nil, err
	}

	// 三个视图可能有重复图书，一次IN查询覆盖全部ID
	favorited, err := uc.favoritedSet(ctx, userID, newBooks, salesBooks, bestsellerBooks)
	if err != nil {
		return nil, err
	}

	return &HomeListingResponse{
		NewBooks:        annotate(newBooks, favorited),
		SalesBooks:      annotate(salesBooks, favorited),
		BestsellerBooks: annotate(bestsellerBooks, favorited),
	}, nil
}

// loadView 读取单个视图（Cache-Aside）
func (uc *HomeListingUseCase) loadView(
	ctx context.Context,
	view string,
	fetch func(ctx context.Context, limit int) ([]*book.Book, error),
) ([]ListedBook, error) {
	if uc.cache != nil {
		var cached []ListedBook
		hit, err := uc.cache.Get(ctx, view, &cached)
		if err != nil {
			// 缓存故障降级回源
			log.Printf("读取%s视图缓存失败: %v", view, err)
		} else if hit {
			metrics.IncCounterVec(metrics.CatalogCacheHitsTotal, map[string]string{"category": view})
			return cached, nil
		}
		metrics.IncCounterVec(metrics.CatalogCacheMissesTotal, map[string]string{"category": view})
	}

	books, err := fetch(ctx, uc.pageSize)
	if err != nil {
		return nil, err
	}

	listed := make([]ListedBook, len(books))
	for i, b := range books {
		listed[i] = toListedBook(b)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, view, listed); err != nil {
			log.Printf("写入%s视图缓存失败: %v", view, err)
		}
	}

	return listed, nil
}

// favoritedSet 计算请求者已收藏的图书ID集合
func (uc *HomeListingUseCase) favoritedSet(ctx context.Context, userID string, views ...[]ListedBook) (map[string]bool, error) {
	if userID == "" {
		return map[string]bool{}, nil
	}

	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, view := range views {
		for _, b := range view {
			if !seen[b.ID] {
				seen[b.ID] = true
				ids = append(ids, b.ID)
			}
		}
	}

	return uc.bookService.FavoritedIDs(ctx, userID, ids)
}

// annotate 给视图打上收藏标记
func annotate(books []ListedBook, favorited map[string]bool) []FavoritedBook {
	result := make([]FavoritedBook, len(books))
	for i, b := range books {
		result[i] = FavoritedBook{Book: b, Favorited: favorited[b.ID]}
	}
	return result
}
