package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library-api/internal/application/user"
	"github.com/xiebiao/library-api/internal/interface/http/dto"
	"github.com/xiebiao/library-api/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
	"github.com/xiebiao/library-api/pkg/response"
)

// AuthHandler Token签发、刷新与注销
type AuthHandler struct {
	obtain  *appuser.ObtainTokenUseCase
	refresh *appuser.RefreshTokenUseCase
	revoke  *appuser.RevokeTokenUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	obtain *appuser.ObtainTokenUseCase,
	refresh *appuser.RefreshTokenUseCase,
	revoke *appuser.RevokeTokenUseCase,
) *AuthHandler {
	return &AuthHandler{
		obtain:  obtain,
		refresh: refresh,
		revoke:  revoke,
	}
}

// ObtainToken 登录换取Token对
// @Summary      获取Token
// @Description  用户名密码换取Access/Refresh Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.TokenObtainRequest true "登录信息"
// @Success      200 {object} response.Response "data为{access, refresh, expires_in}"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/token/ [post]
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req dto.TokenObtainRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	pair, err := h.obtain.Execute(c.Request.Context(), appuser.ObtainTokenRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pair)
}

// RefreshToken 刷新Access Token
// @Summary      刷新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.TokenRefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshTokenResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "Token无效、过期或已注销"
// @Router       /api/token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.TokenRefreshRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.refresh.Execute(c.Request.Context(), req.Refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RevokeToken 注销
// @Summary      注销
// @Description  当前Access Token加入黑名单；传入refresh时一并作废
// @Tags         认证
// @Accept       json
// @Security     BearerAuth
// @Param        request body dto.TokenRevokeRequest false "Refresh Token(可选)"
// @Success      204 "已注销"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/token/revoke/ [post]
func (h *AuthHandler) RevokeToken(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	// 请求体可选，空请求体只注销Access Token
	var req dto.TokenRevokeRequest
	if err := dto.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.revoke.Execute(c.Request.Context(), appuser.RevokeTokenRequest{
		AccessClaims: claims,
		RefreshToken: req.Refresh,
	}); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
