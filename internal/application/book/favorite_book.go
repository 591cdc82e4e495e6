package book

import (
	"context"
	"log"

	"github.com/knyharnia/bookstore/internal/domain/book"
)

// FavoriteBookUseCase 收藏/取消收藏用例
// 收藏数影响畅销视图排序，因此操作成功后失效bestsellers缓存
type FavoriteBookUseCase struct {
	bookService book.Service
	cache       ListingCache // 可以为nil
}

// NewFavoriteBookUseCase 创建收藏用例
func NewFavoriteBookUseCase(bookService book.Service, cache ListingCache) *FavoriteBookUseCase {
	return &FavoriteBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Favorite 收藏图书
func (uc *FavoriteBookUseCase) Favorite(ctx context.Context, userID, bookID string) error {
	if err := uc.bookService.Favorite(ctx, userID, bookID); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// Unfavorite 取消收藏
func (uc *FavoriteBookUseCase) Unfavorite(ctx context.Context, userID, bookID string) error {
	if err := uc.bookService.Unfavorite(ctx, userID, bookID); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *FavoriteBookUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, ViewBestsellers); err != nil {
		log.Printf("失效畅销缓存失败: %v", err)
	}
}
