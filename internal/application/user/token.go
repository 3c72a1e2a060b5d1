package user

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/domain/user"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
	"github.com/xiebiao/library-api/pkg/jwt"
)

// SessionStore 会话与Token黑名单存储
// 由infrastructure/persistence/redis.SessionStore实现
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsInBlacklist(ctx context.Context, jti string) (bool, error)
}

// ObtainTokenUseCase 登录换取Token对
// 设计说明：
// 1. 校验用户名密码(领域服务)
// 2. 签发Access/Refresh Token对，Access Token携带角色
// 3. 保存会话到Redis，保存失败只记录日志
type ObtainTokenUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	log          *zap.Logger
}

// NewObtainTokenUseCase 创建登录用例
func NewObtainTokenUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore SessionStore, log *zap.Logger) *ObtainTokenUseCase {
	return &ObtainTokenUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		log:          log,
	}
}

// ObtainTokenRequest 登录请求
type ObtainTokenRequest struct {
	Username string
	Password string
	ClientIP string
}

// Execute 执行登录
func (uc *ObtainTokenUseCase) Execute(ctx context.Context, req ObtainTokenRequest) (*jwt.TokenPair, error) {
	// 1. 校验用户名密码
	u, err := uc.userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发Token对
	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Username, u.Role.String())
	if err != nil {
		return nil, err
	}

	// 3. 保存会话(有效期与Refresh Token一致)
	session := map[string]interface{}{
		"username": u.Username,
		"role":     u.Role.String(),
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, session, uc.jwtManager.RefreshTTL()); err != nil {
		uc.log.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return pair, nil
}

// RefreshTokenUseCase 用Refresh Token换取新的Access Token
// 业务规则：
// 1. 只接受Refresh Token
// 2. 已注销(黑名单)的Refresh Token不可用
// 3. 重新读取用户，角色变更与账号停用立即生效
type RefreshTokenUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewRefreshTokenUseCase 创建刷新用例
func NewRefreshTokenUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RefreshTokenResponse 刷新响应
type RefreshTokenResponse struct {
	AccessToken string `json:"access"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Execute 执行刷新
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	// 1. 解析Refresh Token
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// 2. 黑名单检查
	revoked, err := uc.sessionStore.IsInBlacklist(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	// 3. 重新读取用户
	u, err := uc.userService.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}

	// 4. 签发新的Access Token
	access, err := uc.jwtManager.GenerateAccessToken(u.ID, u.Username, u.Role.String())
	if err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{
		AccessToken: access,
		ExpiresIn:   int64(uc.jwtManager.AccessTTL().Seconds()),
	}, nil
}

// RevokeTokenUseCase 注销
// 1. Access Token加入黑名单(TTL为剩余有效期)
// 2. 如提供Refresh Token且属于同一用户，一并加入黑名单
// 3. 删除会话
type RevokeTokenUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore SessionStore
}

// NewRevokeTokenUseCase 创建注销用例
func NewRevokeTokenUseCase(jwtManager *jwt.Manager, sessionStore SessionStore) *RevokeTokenUseCase {
	return &RevokeTokenUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// RevokeTokenRequest 注销请求
type RevokeTokenRequest struct {
	AccessClaims *jwt.Claims // 由认证中间件解析
	RefreshToken string      // 可选
}

// Execute 执行注销
func (uc *RevokeTokenUseCase) Execute(ctx context.Context, req RevokeTokenRequest) error {
	userID := req.AccessClaims.UserID

	if req.RefreshToken != "" {
		refresh, err := uc.jwtManager.ParseRefreshToken(req.RefreshToken)
		if err != nil {
			return err
		}
		if refresh.UserID != userID {
			return apperrors.ErrInvalidToken
		}
		if err := uc.sessionStore.AddToBlacklist(ctx, refresh.ID, uc.jwtManager.Remaining(refresh)); err != nil {
			return err
		}
	}

	if err := uc.sessionStore.AddToBlacklist(ctx, req.AccessClaims.ID, uc.jwtManager.Remaining(req.AccessClaims)); err != nil {
		return err
	}

	return uc.sessionStore.DeleteSession(ctx, userID)
}
