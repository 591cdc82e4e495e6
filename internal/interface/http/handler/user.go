package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appuser "github.com/knyharnia/bookstore/internal/application/user"
	"github.com/knyharnia/bookstore/internal/interface/http/dto"
	"github.com/knyharnia/bookstore/internal/interface/http/middleware"
	"github.com/knyharnia/bookstore/pkg/jwt"
	"github.com/knyharnia/bookstore/pkg/response"
)

// UserHandler 用户HTTP处理器
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	jwtManager      *jwt.Manager
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	jwtManager *jwt.Manager,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		jwtManager:      jwtManager,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} appuser.RegisterResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "邮箱已注册"
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} appuser.LoginResponse
// @Failure      401 {object} response.ErrorBody "邮箱或密码错误"
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Router       /auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	token := middleware.GetToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), userID, token); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "logged out"})
}

// RefreshToken 刷新Access Token
// @Summary      刷新Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} dto.RefreshTokenResponse
// @Failure      401 {object} response.ErrorBody "Refresh Token无效或过期"
// @Router       /auth/refresh [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RefreshTokenResponse{AccessToken: accessToken})
}
