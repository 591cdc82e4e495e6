package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appuser "github.com/knyharnia/bookstore/internal/application/user"
	"github.com/knyharnia/bookstore/internal/domain/user"
	"github.com/knyharnia/bookstore/pkg/jwt"
)

func newUserTestRouter(t *testing.T) (*gin.Engine, *jwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userService := user.NewService(&memUserRepo{users: make(map[string]*user.User)})
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	registerUC := appuser.NewRegisterUseCase(userService)
	loginUC := appuser.NewLoginUseCase(userService, jwtManager, nil, 24*time.Hour)
	h := NewUserHandler(registerUC, loginUC, nil, jwtManager)

	router := gin.New()
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
	}
	return router, jwtManager
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := newUserTestRouter(t)

	// 注册
	w := postJSON(t, router, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered appuser.RegisterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.ID)
	assert.Equal(t, "alice", registered.Username)
	assert.Equal(t, user.RoleUser, registered.Role)

	// 重复邮箱
	w = postJSON(t, router, "/auth/register", gin.H{
		"username": "bob",
		"email":    "alice@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 登录
	w = postJSON(t, router, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login appuser.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, registered.ID, login.User.ID)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Positive(t, login.ExpiresIn)

	// 错误密码
	w = postJSON(t, router, "/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_BadPayload(t *testing.T) {
	router, _ := newUserTestRouter(t)

	w := postJSON(t, router, "/auth/register", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshToken(t *testing.T) {
	router, jwtManager := newUserTestRouter(t)

	pair, err := jwtManager.GenerateToken("uid-1", "alice", "alice@example.com", "user")
	require.NoError(t, err)

	w := postJSON(t, router, "/auth/refresh", gin.H{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["accessToken"])

	// 无效Refresh Token
	w = postJSON(t, router, "/auth/refresh", gin.H{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
