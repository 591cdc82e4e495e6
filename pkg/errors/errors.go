package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不直接暴露HTTP状态码）
// 2. Message是面向客户端的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 客户端可见的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapWithCode 指定错误码包装底层错误
// 用途：上传失败等需要保留原始错误、但错误码不是Internal的场景
func WrapWithCode(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（权限不足、资源冲突、参数错误）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）
//
// 重试语义：
// - Forbidden/Conflict/NotFound/Validation：客户端导致，不建议重试
// - UploadFailed/Infrastructure：调用方可重试，服务端保证无部分写入

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal     = 50000 // 内部错误（Infrastructure）
	ErrCodeDatabase     = 50001 // 数据库错误
	ErrCodeCache        = 50002 // 缓存服务错误
	ErrCodeUploadFailed = 50003 // 图片上传失败（含超时、熔断）

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized = 40100 // 未登录
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeBadPassword  = 40103 // 密码错误
	ErrCodeForbidden    = 40104 // 无权限（非admin创建图书等）

	// 资源错误（40400-40499）
	ErrCodeNotFound          = 40400 // 资源不存在（通用）
	ErrCodeUserNotFound      = 40401 // 用户不存在
	ErrCodeBookNotFound      = 40402 // 图书不存在
	ErrCodeReferenceNotFound = 40403 // 引用实体不存在（作者/语言/分类/出版社/体裁）

	// 业务冲突错误（40000-40099）
	ErrCodeConflict       = 40000 // 资源冲突（通用）
	ErrCodeTitleDuplicate = 40001 // 书名已存在
	ErrCodeEmailDuplicate = 40003 // 邮箱已存在
	ErrCodeWeakPassword   = 40005 // 密码强度不足

	// 参数错误（40900-40999）
	ErrCodeValidation = 40900 // 参数校验失败
	ErrCodeBindError  = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal = New(ErrCodeInternal, "internal server error")
	ErrDatabase = New(ErrCodeDatabase, "database error")
	ErrCache    = New(ErrCodeCache, "cache service error")

	// 认证授权
	ErrUnauthorized = New(ErrCodeUnauthorized, "authentication required")
	ErrInvalidToken = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "token expired")
	ErrBadPassword  = New(ErrCodeBadPassword, "incorrect password")
	ErrForbidden    = New(ErrCodeForbidden, "permission denied")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "user not found")

	// 业务冲突
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "email already registered")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "password must be 8-20 characters with letters and digits")

	// 参数错误
	ErrValidation = New(ErrCodeValidation, "invalid parameters")
	ErrBindError  = New(ErrCodeBindError, "malformed request")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}

// IsCode 判断错误是否携带指定业务错误码
func IsCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
