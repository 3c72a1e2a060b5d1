package user

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

// bcryptCost bcrypt计算强度
const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

// Service 用户领域服务
type Service interface {
	// CreateUser 创建用户（命令行工具与启动引导使用）
	CreateUser(ctx context.Context, username, email, password string, role Role) (*User, error)

	// Authenticate 校验用户名密码，返回启用状态的用户
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// GetUser 根据ID获取启用状态的用户（刷新Token时使用）
	GetUser(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcryptCost}
}

// CreateUser 创建用户
// 业务规则：
// 1. 用户名1-150位，字母数字及@.+-_
// 2. 密码至少8位
// 3. 角色必须是admin或member
// 4. 用户名唯一性由数据库UNIQUE索引保证
func (s *service) CreateUser(ctx context.Context, username, email, password string, role Role) (*User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(username, email, string(hashed), role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate 校验用户名密码
// 用户不存在、密码错误、账号停用均返回ErrInvalidCredentials
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser 根据ID获取用户
// 停用用户视为不存在
func (s *service) GetUser(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserNotFound
	}
	return u, nil
}
