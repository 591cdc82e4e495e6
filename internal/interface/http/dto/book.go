package dto

import (
	"encoding/json"

	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// CreateBookForm 创建图书的multipart表单
// 既有客户端契约：引用实体字段是JSON编码的字符串
// （如 language={"id":1,"name":"Ukrainian"}，authors=[{"id":1,"fullName":"Maus Pol"}]），
// 服务端只取其中的ID，名称以数据库为准
type CreateBookForm struct {
	Title           string `form:"title" binding:"required"`
	PagesQuantity   int    `form:"pagesQuantity" binding:"required"`
	Summary         string `form:"summary"`
	OriginalPrice   int64  `form:"originalPrice"`
	DiscountedPrice int64  `form:"discountedPrice"`
	ISBN            string `form:"isbn"`
	AvailableBooks  int    `form:"availableBooks"`
	PublicationYear int    `form:"publicationYear"`
	Language        string `form:"language" binding:"required"`
	Category        string `form:"category" binding:"required"`
	Publisher       string `form:"publisher" binding:"required"`
	Genre           string `form:"genre" binding:"required"`
	Authors         string `form:"authors" binding:"required"`
}

// refPayload 引用实体JSON载荷（只关心id）
type refPayload struct {
	ID uint `json:"id"`
}

// ReferenceIDs 解析表单中JSON编码的引用ID
func (f *CreateBookForm) ReferenceIDs() (languageID, categoryID, publisherID, genreID uint, authorIDs []uint, err error) {
	parse := func(raw, field string) (uint, error) {
		var ref refPayload
		if jsonErr := json.Unmarshal([]byte(raw), &ref); jsonErr != nil {
			return 0, apperrors.New(apperrors.ErrCodeBindError, "malformed "+field+" payload")
		}
		return ref.ID, nil
	}

	if languageID, err = parse(f.Language, "language"); err != nil {
		return
	}
	if categoryID, err = parse(f.Category, "category"); err != nil {
		return
	}
	if publisherID, err = parse(f.Publisher, "publisher"); err != nil {
		return
	}
	if genreID, err = parse(f.Genre, "genre"); err != nil {
		return
	}

	var authors []refPayload
	if jsonErr := json.Unmarshal([]byte(f.Authors), &authors); jsonErr != nil {
		err = apperrors.New(apperrors.ErrCodeBindError, "malformed authors payload")
		return
	}
	authorIDs = make([]uint, len(authors))
	for i, a := range authors {
		authorIDs[i] = a.ID
	}
	return
}
