package book

import (
	"context"
)

// 首页三类视图的排序契约（实现必须保证确定性顺序，平局有次级排序键）：
// - 新书：created_at DESC, id DESC
// - 打折：仅discounted_price < original_price，
//   按(original_price - discounted_price) DESC, created_at DESC
// - 畅销：sales_count DESC, favorites_count DESC, id DESC

// Repository 图书仓储接口
// 设计说明：
// 1. domain层定义接口，infrastructure/persistence/mysql实现
// 2. Create必须原子写入图书与全部关联行（作者关联等），不允许部分创建可见
// 3. 书名唯一冲突（包括并发写入时数据库唯一索引触发的冲突）
//    统一转换为ErrTitleDuplicate
type Repository interface {
	// Create 创建图书（图书行+关联行单事务写入）
	Create(ctx context.Context, b *Book) error

	// FindByID 根据ID查找图书（含引用实体与创建者）
	FindByID(ctx context.Context, id string) (*Book, error)

	// FindByTitle 根据书名精确查找（区分大小写，按存储值匹配）
	// 不存在返回ErrBookNotFound
	FindByTitle(ctx context.Context, title string) (*Book, error)

	// ListNewest 新书视图，最多limit条
	ListNewest(ctx context.Context, limit int) ([]*Book, error)

	// ListOnSale 打折视图，最多limit条
	ListOnSale(ctx context.Context, limit int) ([]*Book, error)

	// ListBestsellers 畅销视图，最多limit条
	ListBestsellers(ctx context.Context, limit int) ([]*Book, error)

	// FavoritedIDs 在bookIDs中筛选出userID已收藏的图书ID集合
	// 收藏标记必须每次请求实时计算，不允许进共享缓存
	FavoritedIDs(ctx context.Context, userID string, bookIDs []string) (map[string]bool, error)

	// AddFavorite 添加收藏（重复收藏返回ErrAlreadyFavorited）
	AddFavorite(ctx context.Context, userID, bookID string) error

	// RemoveFavorite 取消收藏（未收藏返回ErrNotFavorited）
	RemoveFavorite(ctx context.Context, userID, bookID string) error
}
