package user

import (
	"time"

	"github.com/google/uuid"
)

// 角色常量
// RoleAdmin拥有图书上架权限（创建图书前由中间件/用例校验）
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. ID是服务端生成的UUID字符串（对外不暴露自增主键）
// 2. 密码只保存bcrypt哈希，实体不提供任何明文访问方法
// 3. 领域实体不依赖GORM tag（infrastructure层负责映射）
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	Role      string // user | admin
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword, role string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员（图书上架等操作的权限依据）
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
