package book

import (
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	// ErrTitleDuplicate 书名已存在
	// 消息文案是既有产品契约的一部分，不要改动
	ErrTitleDuplicate = apperrors.New(apperrors.ErrCodeTitleDuplicate,
		"Book title already exists, please select another one")

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeValidation, "title is required")

	// ErrInvalidPages 页数必须为正整数
	ErrInvalidPages = apperrors.New(apperrors.ErrCodeValidation, "pagesQuantity must be a positive integer")

	// ErrInvalidPrice 价格不能为负
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeValidation, "price must not be negative")

	// ErrDiscountExceedsPrice 折后价不能高于原价
	ErrDiscountExceedsPrice = apperrors.New(apperrors.ErrCodeValidation, "discountedPrice must not exceed originalPrice")

	// ErrInvalidStock 库存不能为负
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeValidation, "availableBooks must not be negative")

	// ErrNoAuthors 图书至少要有一位作者
	ErrNoAuthors = apperrors.New(apperrors.ErrCodeValidation, "book must have at least one author")

	// ErrMissingCover 创建成功的图书必须有封面链接
	ErrMissingCover = apperrors.New(apperrors.ErrCodeValidation, "cover image link is required")

	// ErrAlreadyFavorited 重复收藏
	ErrAlreadyFavorited = apperrors.New(apperrors.ErrCodeConflict, "book already favorited")

	// ErrNotFavorited 未收藏不能取消收藏
	ErrNotFavorited = apperrors.New(apperrors.ErrCodeNotFound, "book is not in favorites")
)
