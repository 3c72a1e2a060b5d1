package user

import (
	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.ErrUserNotFound

	// ErrUsernameDuplicate 用户名已存在
	ErrUsernameDuplicate = apperrors.ErrUsernameDuplicate.WithField("username", "A user with that username already exists.")

	// ErrInvalidCredentials 用户名或密码错误（不区分具体原因）
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.ErrWeakPassword.WithField("password", "This password is too short. It must contain at least 8 characters.")

	// ErrInvalidRole 未定义的角色
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid input.").WithField("role", "Must be one of: admin, member.")

	// ErrInvalidUsername 用户名不合法
	ErrInvalidUsername = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid input.").WithField("username", "Enter a valid username. Letters, digits and @/./+/-/_ only, at most 150 characters.")
)
