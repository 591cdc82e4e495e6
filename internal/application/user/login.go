package user

import (
	"context"
	"log"
	"time"

	"github.com/knyharnia/bookstore/internal/domain/user"
	"github.com/knyharnia/bookstore/internal/infrastructure/persistence/redis"
	"github.com/knyharnia/bookstore/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	sessionTTL   time.Duration
}

// NewLoginUseCase 创建登录用例
// sessionTTL取Refresh Token有效期
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	sessionTTL time.Duration,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"` // Access Token有效期（秒）
}

// UserInfo 用户信息（不含密码哈希）
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Username, u.Email, u.Role)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis（失败不影响登录）
	if uc.sessionStore != nil {
		sessionData := map[string]interface{}{
			"user_id":  u.ID,
			"email":    u.Email,
			"username": u.Username,
			"login_at": time.Now().Unix(),
			"ip":       req.ClientIP,
		}
		if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.sessionTTL); err != nil {
			log.Printf("保存会话失败: %v", err)
		}
	}

	return &LoginResponse{
		User: UserInfo{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
	blacklistTTL time.Duration
}

// NewLogoutUseCase 创建登出用例
// blacklistTTL取Access Token有效期（过期后Token自然失效）
func NewLogoutUseCase(sessionStore *redis.SessionStore, blacklistTTL time.Duration) *LogoutUseCase {
	return &LogoutUseCase{
		sessionStore: sessionStore,
		blacklistTTL: blacklistTTL,
	}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, userID, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止过期前继续使用）
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.blacklistTTL); err != nil {
		return err
	}

	return nil
}
