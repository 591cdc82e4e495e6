package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// 统一响应辅助
// 设计说明：
// 1. 本服务的API契约使用真实HTTP状态码与裸JSON响应体
//    （200/201返回业务数据本身，错误返回{"message": ...}）
// 2. 业务错误码到HTTP状态码的映射集中在本包，Handler只需调用Error
// 3. 书名冲突按既有产品契约映射到403（而非409），不要"修正"

// ErrorBody 错误响应体
type ErrorBody struct {
	Message string `json:"message"`
}

// OK 200响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应（资源创建成功）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := useCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只进日志，不回传客户端
	if appErr.Err != nil {
		log.Printf("request failed: %v", appErr)
	}

	c.JSON(httpStatus(appErr.Code), ErrorBody{Message: appErr.Message})
}

// ErrorWithStatus 指定HTTP状态码返回错误消息
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Message: message})
}

// httpStatus 业务错误码 → HTTP状态码
func httpStatus(code int) int {
	switch code {
	case apperrors.ErrCodeUnauthorized,
		apperrors.ErrCodeInvalidToken,
		apperrors.ErrCodeTokenExpired,
		apperrors.ErrCodeBadPassword:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeTitleDuplicate:
		// 产品契约：重复书名返回403
		return http.StatusForbidden
	case apperrors.ErrCodeConflict,
		apperrors.ErrCodeEmailDuplicate:
		return http.StatusConflict
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeUserNotFound,
		apperrors.ErrCodeBookNotFound,
		apperrors.ErrCodeReferenceNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeValidation,
		apperrors.ErrCodeBindError,
		apperrors.ErrCodeWeakPassword:
		return http.StatusBadRequest
	case apperrors.ErrCodeUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
