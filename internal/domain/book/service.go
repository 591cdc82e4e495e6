package book

import (
	"context"
	"errors"
)

// Service 图书领域服务
// 封装跨实体的业务规则；编排（权限、上传、缓存）在application层
type Service interface {
	// EnsureTitleAvailable 书名唯一性预检查
	// 已存在返回ErrTitleDuplicate；这是乐观预检查，
	// 并发场景的权威兜底是Create时的数据库唯一索引
	EnsureTitleAvailable(ctx context.Context, title string) error

	// CreateBook 校验并持久化新图书（单事务，全部关联一起写入）
	CreateBook(ctx context.Context, b *Book) error

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id string) (*Book, error)

	// NewestBooks 新书视图
	NewestBooks(ctx context.Context, limit int) ([]*Book, error)

	// OnSaleBooks 打折视图
	OnSaleBooks(ctx context.Context, limit int) ([]*Book, error)

	// BestsellerBooks 畅销视图
	BestsellerBooks(ctx context.Context, limit int) ([]*Book, error)

	// FavoritedIDs 请求者在bookIDs中已收藏的子集
	FavoritedIDs(ctx context.Context, userID string, bookIDs []string) (map[string]bool, error)

	// Favorite / Unfavorite 收藏关系维护
	Favorite(ctx context.Context, userID, bookID string) error
	Unfavorite(ctx context.Context, userID, bookID string) error
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// EnsureTitleAvailable 书名唯一性预检查
func (s *service) EnsureTitleAvailable(ctx context.Context, title string) error {
	existing, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil // 书名可用
		}
		return err
	}
	if existing != nil {
		return ErrTitleDuplicate
	}
	return nil
}

// CreateBook 校验并持久化
// Repository负责把持久化时的唯一索引冲突转换为ErrTitleDuplicate，
// 因此并发创建相同书名时最多一个成功，其余得到与预检查相同的冲突错误
func (s *service) CreateBook(ctx context.Context, b *Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) NewestBooks(ctx context.Context, limit int) ([]*Book, error) {
	return s.repo.ListNewest(ctx, limit)
}

func (s *service) OnSaleBooks(ctx context.Context, limit int) ([]*Book, error) {
	return s.repo.ListOnSale(ctx, limit)
}

func (s *service) BestsellerBooks(ctx context.Context, limit int) ([]*Book, error) {
	return s.repo.ListBestsellers(ctx, limit)
}

func (s *service) FavoritedIDs(ctx context.Context, userID string, bookIDs []string) (map[string]bool, error) {
	if userID == "" || len(bookIDs) == 0 {
		return map[string]bool{}, nil
	}
	return s.repo.FavoritedIDs(ctx, userID, bookIDs)
}

func (s *service) Favorite(ctx context.Context, userID, bookID string) error {
	if _, err := s.repo.FindByID(ctx, bookID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, bookID)
}

func (s *service) Unfavorite(ctx context.Context, userID, bookID string) error {
	if _, err := s.repo.FindByID(ctx, bookID); err != nil {
		return err
	}
	return s.repo.RemoveFavorite(ctx, userID, bookID)
}
