package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/knyharnia/bookstore/internal/domain/reference"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// referenceRepository 引用实体仓储实现（MySQL）
// 语言/分类/出版社/体裁/作者都是小表，按主键点查即可
type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository 创建引用实体仓储
func NewReferenceRepository(db *gorm.DB) reference.Repository {
	return &referenceRepository{db: db}
}

// FindLanguage 根据ID查找语言
func (r *referenceRepository) FindLanguage(ctx context.Context, id uint) (*reference.Language, error) {
	var model LanguageModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reference.ErrLanguageNotFound
		}
		return nil, apperrors.Wrap(err, "查询语言失败")
	}
	return &reference.Language{ID: model.ID, Name: model.Name}, nil
}

// FindCategory 根据ID查找分类
func (r *referenceRepository) FindCategory(ctx context.Context, id uint) (*reference.Category, error) {
	var model CategoryModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reference.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return &reference.Category{ID: model.ID, Name: model.Name}, nil
}

// FindPublisher 根据ID查找出版社
func (r *referenceRepository) FindPublisher(ctx context.Context, id uint) (*reference.Publisher, error) {
	var model PublisherModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reference.ErrPublisherNotFound
		}
		return nil, apperrors.Wrap(err, "查询出版社失败")
	}
	return &reference.Publisher{ID: model.ID, Name: model.Name}, nil
}

// FindGenre 根据ID查找体裁
func (r *referenceRepository) FindGenre(ctx context.Context, id uint) (*reference.Genre, error) {
	var model GenreModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reference.ErrGenreNotFound
		}
		return nil, apperrors.Wrap(err, "查询体裁失败")
	}
	return &reference.Genre{ID: model.ID, Name: model.Name}, nil
}

// FindAuthors 根据ID列表查找作者
// 返回数量与去重后的请求数量不一致说明有ID不存在
func (r *referenceRepository) FindAuthors(ctx context.Context, ids []uint) ([]reference.Author, error) {
	if len(ids) == 0 {
		return nil, reference.ErrNoAuthors
	}

	// 去重，保持请求顺序
	seen := make(map[uint]bool, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var models []AuthorModel
	if err := r.db.WithContext(ctx).Where("id IN ?", unique).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	if len(models) != len(unique) {
		return nil, reference.ErrAuthorNotFound
	}

	byID := make(map[uint]AuthorModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}

	authors := make([]reference.Author, len(unique))
	for i, id := range unique {
		m := byID[id]
		authors[i] = reference.Author{ID: m.ID, FullName: m.FullName}
	}
	return authors, nil
}
