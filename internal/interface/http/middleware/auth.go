package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/knyharnia/bookstore/internal/domain/user"
	"github.com/knyharnia/bookstore/pkg/jwt"
	"github.com/knyharnia/bookstore/pkg/response"
)

// Context键
const (
	ctxKeyUserID   = "user_id"
	ctxKeyEmail    = "email"
	ctxKeyUsername = "username"
	ctxKeyRole     = "role"
	ctxKeyToken    = "token"
)

// TokenBlacklist 已失效Token查询接口
// infrastructure/persistence/redis.SessionStore是生产实现
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 验证Token有效性
// 3. 检查Token黑名单（RequireAuth与OptionalAuth都检查）
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist // 可以为nil（禁用黑名单）
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/books")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.POST("/create", handler.CreateBook)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 黑名单检查（用户已登出或Token被强制失效）
		if m.blacklist != nil {
			isBlacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
			if err != nil {
				response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to verify token")
				c.Abort()
				return
			}
			if isBlacklisted {
				response.ErrorWithStatus(c, http.StatusUnauthorized, "token revoked")
				c.Abort()
				return
			}
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		m.inject(c, claims, tokenString)
		c.Next()
	}
}

// OptionalAuth 可选登录
// 有有效Token则注入用户信息，没有、无效或已登出则作为匿名用户继续
// （首页接口登录/匿名都可访问，登录态只影响favorited标记）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString := parts[1]
			if m.revoked(c.Request.Context(), tokenString) {
				c.Next()
				return
			}
			if claims, err := m.jwtManager.ParseToken(tokenString); err == nil {
				m.inject(c, claims, tokenString)
			}
		}

		c.Next()
	}
}

// revoked Token是否已登出
// 黑名单查询失败时按已失效处理：请求降级为匿名而不是报错
func (m *AuthMiddleware) revoked(ctx context.Context, token string) bool {
	if m.blacklist == nil {
		return false
	}
	isBlacklisted, err := m.blacklist.IsInBlacklist(ctx, token)
	return err != nil || isBlacklisted
}

// RequireAdmin 要求admin角色（必须在RequireAuth之后使用）
// 基于Token声明的快速拒绝；创建用例内还会按数据库角色做权威校验
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != user.RoleAdmin {
			response.ErrorWithStatus(c, http.StatusForbidden, "permission denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) inject(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(ctxKeyUserID, claims.UserID)
	c.Set(ctxKeyEmail, claims.Email)
	c.Set(ctxKeyUsername, claims.Username)
	c.Set(ctxKeyRole, claims.Role)
	c.Set(ctxKeyToken, token)
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID（匿名返回空串）
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(ctxKeyUserID); exists {
		if uid, ok := userID.(string); ok {
			return uid
		}
	}
	return ""
}

// GetRole 从Context获取当前登录用户角色
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ctxKeyRole); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}

// GetToken 从Context获取原始Access Token（登出时加入黑名单用）
func GetToken(c *gin.Context) string {
	if token, exists := c.Get(ctxKeyToken); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetUserID 从Context获取用户ID（不存在则panic）
// 仅用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) string {
	userID := GetUserID(c)
	if userID == "" {
		panic("user_id not found in context")
	}
	return userID
}
