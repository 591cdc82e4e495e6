package book

import (
	"time"

	"github.com/google/uuid"

	"github.com/knyharnia/bookstore/internal/domain/reference"
	"github.com/knyharnia/bookstore/internal/domain/user"
)

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. ID是服务端生成的UUID字符串
// 2. 价格统一使用int64存储最小货币单位（分），避免浮点精度问题
// 3. Title是业务唯一标识（数据库唯一索引兜底并发场景）
// 4. 引用实体以完整形式内嵌（响应需要{id,name}投影，不暴露裸外键）
// 5. FavoritesCount/SalesCount由收藏/订单等协作方维护，本核心只读
type Book struct {
	ID              string
	Title           string
	PagesQuantity   int
	Summary         string
	CoverImageLink  string // 仅在封面上传成功后写入，创建成功的图书永远非空
	OriginalPrice   int64  // 原价（分）
	DiscountedPrice int64  // 折后价（分），<=OriginalPrice
	ISBN            string
	AvailableBooks  int // 库存
	PublicationYear int
	FavoritesCount  int
	SalesCount      int

	Language  reference.Language
	Category  reference.Category
	Publisher reference.Publisher
	Genre     reference.Genre
	Authors   []reference.Author

	User *user.User // 创建者

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书（工厂方法）
// refs必须是已解析的引用集合（Authors非空），coverImageLink必须是
// 上传成功后的真实链接
func NewBook(
	title string,
	pagesQuantity int,
	summary string,
	coverImageLink string,
	originalPrice, discountedPrice int64,
	isbn string,
	availableBooks int,
	publicationYear int,
	refs *reference.Set,
	creator *user.User,
) *Book {
	now := time.Now()
	return &Book{
		ID:              uuid.NewString(),
		Title:           title,
		PagesQuantity:   pagesQuantity,
		Summary:         summary,
		CoverImageLink:  coverImageLink,
		OriginalPrice:   originalPrice,
		DiscountedPrice: discountedPrice,
		ISBN:            isbn,
		AvailableBooks:  availableBooks,
		PublicationYear: publicationYear,
		Language:        refs.Language,
		Category:        refs.Category,
		Publisher:       refs.Publisher,
		Genre:           refs.Genre,
		Authors:         refs.Authors,
		User:            creator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OnSale 是否在打折（salesBooks视图的筛选条件）
// 折后价等于原价不算打折
func (b *Book) OnSale() bool {
	return b.DiscountedPrice < b.OriginalPrice
}

// Discount 折扣力度（分），salesBooks视图按此降序排列
func (b *Book) Discount() int64 {
	return b.OriginalPrice - b.DiscountedPrice
}

// Validate 创建前的业务规则校验
func (b *Book) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if b.PagesQuantity <= 0 {
		return ErrInvalidPages
	}
	if b.OriginalPrice < 0 || b.DiscountedPrice < 0 {
		return ErrInvalidPrice
	}
	if b.DiscountedPrice > b.OriginalPrice {
		return ErrDiscountExceedsPrice
	}
	if b.AvailableBooks < 0 {
		return ErrInvalidStock
	}
	if len(b.Authors) == 0 {
		return ErrNoAuthors
	}
	if b.CoverImageLink == "" {
		return ErrMissingCover
	}
	return nil
}
