package user

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// Service 用户领域服务
// 密码加密、凭证验证等不属于单个实体的业务逻辑放在这里
type Service interface {
	// Register 用户注册（新用户角色固定为RoleUser，admin由运营侧授予）
	Register(ctx context.Context, username, email, password string) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 验证明文密码与哈希是否匹配
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 用户名长度2-50
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if !isValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "invalid email address")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if len(username) < 2 || len(username) > 50 {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "username must be 2-50 characters")
	}

	// bcrypt自动加盐，cost=12平衡安全与性能
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	u := NewUser(username, email, string(hashedPassword), RoleUser)

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return u, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}

	return u, nil
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrBadPassword
		}
		return apperrors.Wrap(err, "failed to verify password")
	}
	return nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validatePasswordStrength 密码强度校验：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}

	var hasLetter, hasDigit bool
	for _, ch := range password {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}

	return nil
}
