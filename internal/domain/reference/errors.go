package reference

import (
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// 引用实体领域错误
// 缺失的引用必须作为领域错误报告并指明是哪类引用，
// 不能放任外键冲突在存储层深处爆炸
var (
	ErrLanguageNotFound  = apperrors.New(apperrors.ErrCodeReferenceNotFound, "language not found")
	ErrCategoryNotFound  = apperrors.New(apperrors.ErrCodeReferenceNotFound, "category not found")
	ErrPublisherNotFound = apperrors.New(apperrors.ErrCodeReferenceNotFound, "publisher not found")
	ErrGenreNotFound     = apperrors.New(apperrors.ErrCodeReferenceNotFound, "genre not found")
	ErrAuthorNotFound    = apperrors.New(apperrors.ErrCodeReferenceNotFound, "author not found")

	ErrNoAuthors = apperrors.New(apperrors.ErrCodeValidation, "book must have at least one author")
)
