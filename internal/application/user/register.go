package user

import (
	"context"

	"github.com/knyharnia/bookstore/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 应用层只做流程编排，校验和加密由领域服务负责
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}, nil
}
