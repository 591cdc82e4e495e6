package book

import (
	"time"

	"github.com/knyharnia/bookstore/internal/domain/book"
	"github.com/knyharnia/bookstore/internal/domain/reference"
)

// API投影类型
// 设计说明：
// 1. JSON字段统一camelCase（既有客户端契约）
// 2. 价格是最小货币单位（分）的JSON数字
// 3. 列表与创建响应都携带完整的引用实体{id,name}投影；
//    列表额外带收藏数/销量，创建响应额外带创建者
// 4. 用户投影不含密码哈希

// RefView 引用实体投影（语言/分类/出版社/体裁）
type RefView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// AuthorView 作者投影
type AuthorView struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}

// UserView 用户投影
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ListedBook 首页列表中的图书投影
type ListedBook struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	PagesQuantity   int          `json:"pagesQuantity"`
	Summary         string       `json:"summary"`
	CoverImageLink  string       `json:"coverImageLink"`
	OriginalPrice   int64        `json:"originalPrice"`
	DiscountedPrice int64        `json:"discountedPrice"`
	ISBN            string       `json:"isbn"`
	AvailableBooks  int          `json:"availableBooks"`
	PublicationYear int          `json:"publicationYear"`
	FavoritesCount  int          `json:"favoritesCount"`
	SalesCount      int          `json:"salesCount"`
	Language        RefView      `json:"language"`
	Category        RefView      `json:"category"`
	Publisher       RefView      `json:"publisher"`
	Genre           RefView      `json:"genre"`
	Authors         []AuthorView `json:"authors"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// FavoritedBook 列表条目：图书 + 请求者的收藏标记
// 收藏标记每次请求实时计算，匿名请求恒为false
type FavoritedBook struct {
	Book      ListedBook `json:"book"`
	Favorited bool       `json:"favorited"`
}

// HomeListingResponse 首页三视图响应
type HomeListingResponse struct {
	NewBooks        []FavoritedBook `json:"newBooks"`
	SalesBooks      []FavoritedBook `json:"salesBooks"`
	BestsellerBooks []FavoritedBook `json:"bestsellerBooks"`
}

// CreatedBook 创建成功后的完整图书投影
type CreatedBook struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	PagesQuantity   int          `json:"pagesQuantity"`
	Summary         string       `json:"summary"`
	CoverImageLink  string       `json:"coverImageLink"`
	OriginalPrice   int64        `json:"originalPrice"`
	DiscountedPrice int64        `json:"discountedPrice"`
	ISBN            string       `json:"isbn"`
	AvailableBooks  int          `json:"availableBooks"`
	PublicationYear int          `json:"publicationYear"`
	Language        RefView      `json:"language"`
	Category        RefView      `json:"category"`
	Publisher       RefView      `json:"publisher"`
	Genre           RefView      `json:"genre"`
	Authors         []AuthorView `json:"authors"`
	User            *UserView    `json:"user"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// =========================================
// 实体 → 投影转换
// =========================================

func toAuthorViews(authors []reference.Author) []AuthorView {
	views := make([]AuthorView, len(authors))
	for i, a := range authors {
		views[i] = AuthorView{ID: a.ID, FullName: a.FullName}
	}
	return views
}

func toListedBook(b *book.Book) ListedBook {
	return ListedBook{
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
		Language:        RefView{ID: b.Language.ID, Name: b.Language.Name},
		Category:        RefView{ID: b.Category.ID, Name: b.Category.Name},
		Publisher:       RefView{ID: b.Publisher.ID, Name: b.Publisher.Name},
		Genre:           RefView{ID: b.Genre.ID, Name: b.Genre.Name},
		Authors:         toAuthorViews(b.Authors),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toCreatedBook(b *book.Book) *CreatedBook {
	created := &CreatedBook{
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
		Language:        RefView{ID: b.Language.ID, Name: b.Language.Name},
		Category:        RefView{ID: b.Category.ID, Name: b.Category.Name},
		Publisher:       RefView{ID: b.Publisher.ID, Name: b.Publisher.Name},
		Genre:           RefView{ID: b.Genre.ID, Name: b.Genre.Name},
		Authors:         toAuthorViews(b.Authors),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.User != nil {
		created.User = &UserView{
			ID:       b.User.ID,
			Username: b.User.Username,
			Email:    b.User.Email,
			Role:     b.User.Role,
		}
	}
	return created
}
