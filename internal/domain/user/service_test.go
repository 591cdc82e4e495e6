package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

// fakeUserRepo 内存用户仓储（测试用）
type fakeUserRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	if _, exists := r.byEmail[u.Email]; exists {
		return apperrors.ErrEmailDuplicate
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func TestRegister_Success(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	u, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, RoleUser, u.Role) // 新注册用户不可能是admin
	assert.NotEqual(t, "password123", u.Password)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"邮箱格式错误", "alice", "not-an-email", "password123"},
		{"密码太短", "alice", "alice@example.com", "pw1"},
		{"密码无数字", "alice", "alice@example.com", "passwordonly"},
		{"密码无字母", "alice", "alice@example.com", "12345678"},
		{"用户名太短", "a", "alice@example.com", "password123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			assert.Error(t, err)
			assert.True(t, apperrors.IsAppError(err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "alice@example.com", "password456")
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// 正确密码
	u, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	// 错误密码
	_, err = svc.Login(ctx, "alice@example.com", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrBadPassword)

	// 用户不存在
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestIsAdmin(t *testing.T) {
	admin := NewUser("root", "root@example.com", "hash", RoleAdmin)
	normal := NewUser("alice", "alice@example.com", "hash", RoleUser)

	assert.True(t, admin.IsAdmin())
	assert.False(t, normal.IsAdmin())
}
