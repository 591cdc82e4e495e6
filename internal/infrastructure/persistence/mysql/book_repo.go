package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/domain/reference"
	"github.com/knyharnia/bookstore/internal/domain/user"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// bookRepository 图书仓储实现（MySQL）
// 设计说明：
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如书名唯一索引冲突），转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// 图书行与book_authors关联行在同一事务写入（GORM关联创建自动开事务），
// 作者/引用实体已存在，只写外键和连接表，不允许级联upsert
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	db := dbFromContext(ctx, r.db).WithContext(ctx)
	err := db.
		Omit("Language", "Category", "Publisher", "Genre", "User", "Authors.*").
		Create(model).Error
	if err != nil {
		// 并发创建同名图书时唯一索引触发，语义与预检查一致
		if isDuplicateError(err) {
			return book.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书（含全部引用实体与创建者）
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := r.preload(ctx).Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByTitle 根据书名精确查找
// 列使用binary collation比较，保证区分大小写
func (r *bookRepository) FindByTitle(ctx context.Context, title string) (*book.Book, error) {
	var model BookModel
	err := r.preload(ctx).Where("BINARY title = ?", title).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// ListNewest 新书视图：created_at DESC, id DESC
func (r *bookRepository) ListNewest(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := r.preload(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询新书列表失败")
	}
	return toBookEntities(models), nil
}

// ListOnSale 打折视图：仅折后价低于原价的图书，
// 按折扣力度降序，平局按创建时间降序
func (r *bookRepository) ListOnSale(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := r.preload(ctx).
		Where("discounted_price < original_price").
		Order("(original_price - discounted_price) DESC, created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询打折列表失败")
	}
	return toBookEntities(models), nil
}

// ListBestsellers 畅销视图：sales_count DESC, favorites_count DESC, id DESC
func (r *bookRepository) ListBestsellers(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := r.preload(ctx).
		Order("sales_count DESC, favorites_count DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询畅销列表失败")
	}
	return toBookEntities(models), nil
}

// FavoritedIDs 在bookIDs中筛选出userID已收藏的图书ID集合
// 单条IN查询，结果只包含已收藏的ID
func (r *bookRepository) FavoritedIDs(ctx context.Context, userID string, bookIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("user_id = ? AND book_id IN ?", userID, bookIDs).
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询收藏状态失败")
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// AddFavorite 添加收藏并递增图书收藏数（单事务）
func (r *bookRepository) AddFavorite(ctx context.Context, userID, bookID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fav := &FavoriteModel{UserID: userID, BookID: bookID}
		if err := tx.Create(fav).Error; err != nil {
			if isDuplicateError(err) {
				return book.ErrAlreadyFavorited
			}
			return apperrors.Wrap(err, "添加收藏失败")
		}

		err := tx.Model(&BookModel{}).
			Where("id = ?", bookID).
			Update("favorites_count", gorm.Expr("favorites_count + 1")).Error
		if err != nil {
			return apperrors.Wrap(err, "更新收藏数失败")
		}
		return nil
	})
}

// RemoveFavorite 取消收藏并递减图书收藏数（单事务）
func (r *bookRepository) RemoveFavorite(ctx context.Context, userID, bookID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND book_id = ?", userID, bookID).
			Delete(&FavoriteModel{})
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "取消收藏失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrNotFavorited
		}

		err := tx.Model(&BookModel{}).
			Where("id = ? AND favorites_count > 0", bookID).
			Update("favorites_count", gorm.Expr("favorites_count - 1")).Error
		if err != nil {
			return apperrors.Wrap(err, "更新收藏数失败")
		}
		return nil
	})
}

// preload 列表/详情查询统一预加载全部关联
func (r *bookRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Language").
		Preload("Category").
		Preload("Publisher").
		Preload("Genre").
		Preload("Authors").
		Preload("User")
}

// =========================================
// 辅助函数：模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
// 作者只携带ID，连接表行由GORM写入，作者行本身不被修改
func toBookModel(b *book.Book) *BookModel {
	authors := make([]AuthorModel, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = AuthorModel{ID: a.ID}
	}

	model := &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		PagesQuantity:   b.PagesQuantity,
		Summary:         b.Summary,
		CoverImageLink:  b.CoverImageLink,
		OriginalPrice:   b.OriginalPrice,
		DiscountedPrice: b.DiscountedPrice,
		ISBN:            b.ISBN,
		AvailableBooks:  b.AvailableBooks,
		PublicationYear: b.PublicationYear,
		FavoritesCount:  b.FavoritesCount,
		SalesCount:      b.SalesCount,
		LanguageID:      b.Language.ID,
		CategoryID:      b.Category.ID,
		PublisherID:     b.Publisher.ID,
		GenreID:         b.Genre.ID,
		Authors:         authors,
	}
	if b.User != nil {
		model.UserID = b.User.ID
	}
	return model
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	authors := make([]reference.Author, len(model.Authors))
	for i, a := range model.Authors {
		authors[i] = reference.Author{ID: a.ID, FullName: a.FullName}
	}

	b := &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		PagesQuantity:   model.PagesQuantity,
		Summary:         model.Summary,
		CoverImageLink:  model.CoverImageLink,
		OriginalPrice:   model.OriginalPrice,
		DiscountedPrice: model.DiscountedPrice,
		ISBN:            model.ISBN,
		AvailableBooks:  model.AvailableBooks,
		PublicationYear: model.PublicationYear,
		FavoritesCount:  model.FavoritesCount,
		SalesCount:      model.SalesCount,
		Language:        reference.Language{ID: model.Language.ID, Name: model.Language.Name},
		Category:        reference.Category{ID: model.Category.ID, Name: model.Category.Name},
		Publisher:       reference.Publisher{ID: model.Publisher.ID, Name: model.Publisher.Name},
		Genre:           reference.Genre{ID: model.Genre.ID, Name: model.Genre.Name},
		Authors:         authors,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.User.ID != "" {
		b.User = &user.User{
			ID:        model.User.ID,
			Username:  model.User.Username,
			Email:     model.User.Email,
			Role:      model.User.Role,
			CreatedAt: model.User.CreatedAt,
			UpdatedAt: model.User.UpdatedAt,
		}
	}

	return b
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
