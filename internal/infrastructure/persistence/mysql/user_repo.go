package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/knyharnia/bookstore/internal/domain/user"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// userRepository 用户仓储实现（MySQL）
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 邮箱唯一索引冲突转换为ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
		Role:     u.Role,
	}
}

func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Password:  model.Password,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
