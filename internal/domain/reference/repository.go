package reference

import (
	"context"
)

// Repository 引用实体仓储接口
// 设计说明：
// 1. domain层定义接口，infrastructure层实现（依赖倒置）
// 2. 任何ID不存在时返回对应的ErrXxxNotFound
type Repository interface {
	// FindLanguage 根据ID查找语言
	FindLanguage(ctx context.Context, id uint) (*Language, error)

	// FindCategory 根据ID查找分类
	FindCategory(ctx context.Context, id uint) (*Category, error)

	// FindPublisher 根据ID查找出版社
	FindPublisher(ctx context.Context, id uint) (*Publisher, error)

	// FindGenre 根据ID查找体裁
	FindGenre(ctx context.Context, id uint) (*Genre, error)

	// FindAuthors 根据ID列表查找作者
	// ids为空返回ErrNoAuthors；任一ID不存在返回ErrAuthorNotFound
	FindAuthors(ctx context.Context, ids []uint) ([]Author, error)
}

// Resolver 引用解析器
// 把一次创建请求携带的五组ID解析为完整的引用实体集合，
// 任一缺失立即短路返回对应的NotFound错误
type Resolver struct {
	repo Repository
}

// NewResolver 创建引用解析器
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// IDs 创建请求中的引用ID集合
type IDs struct {
	LanguageID  uint
	CategoryID  uint
	PublisherID uint
	GenreID     uint
	AuthorIDs   []uint
}

// Resolve 解析全部引用
func (r *Resolver) Resolve(ctx context.Context, ids IDs) (*Set, error) {
	if len(ids.AuthorIDs) == 0 {
		return nil, ErrNoAuthors
	}

	lang, err := r.repo.FindLanguage(ctx, ids.LanguageID)
	if err != nil {
		return nil, err
	}

	cat, err := r.repo.FindCategory(ctx, ids.CategoryID)
	if err != nil {
		return nil, err
	}

	pub, err := r.repo.FindPublisher(ctx, ids.PublisherID)
	if err != nil {
		return nil, err
	}

	genre, err := r.repo.FindGenre(ctx, ids.GenreID)
	if err != nil {
		return nil, err
	}

	authors, err := r.repo.FindAuthors(ctx, ids.AuthorIDs)
	if err != nil {
		return nil, err
	}

	return &Set{
		Language:  *lang,
		Category:  *cat,
		Publisher: *pub,
		Genre:     *genre,
		Authors:   authors,
	}, nil
}
