package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/domain/user"
)

// CreateUserUseCase 创建用户用例(libctl create-user与启动引导使用)
type CreateUserUseCase struct {
	userService user.Service
}

// NewCreateUserUseCase 创建用例
func NewCreateUserUseCase(userService user.Service) *CreateUserUseCase {
	return &CreateUserUseCase{userService: userService}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
	Role     string // admin | member，空表示member
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Execute 执行创建
func (uc *CreateUserUseCase) Execute(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	u, err := uc.userService.CreateUser(ctx, req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String(),
	}, nil
}

// EnsureAdmin 确保初始管理员存在
// 用户名为空时跳过；用户名已存在时视为成功，不修改已有账号
func (uc *CreateUserUseCase) EnsureAdmin(ctx context.Context, username, email, password string, log *zap.Logger) error {
	if username == "" {
		return nil
	}

	_, err := uc.Execute(ctx, CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     user.RoleAdmin.String(),
	})
	switch {
	case err == nil:
		log.Info("已创建初始管理员", zap.String("username", username))
		return nil
	case errors.Is(err, user.ErrUsernameDuplicate):
		log.Debug("初始管理员已存在", zap.String("username", username))
		return nil
	default:
		return err
	}
}
