package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，HTTPStatus由Code所在区间决定
// 2. Message是返回给客户端的提示信息（对应响应体的detail字段）
// 3. Fields是字段级校验错误（如isbn重复），仅校验类错误携带
// 4. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int                 `json:"code"`
	Message string              `json:"detail"`
	Fields  map[string][]string `json:"errors,omitempty"`
	Err     error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码与提示比较，预定义错误经WithField派生后仍可用errors.Is匹配
// target带字段错误时，e必须包含相同的字段
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code != t.Code || e.Message != t.Message {
		return false
	}
	for field := range t.Fields {
		if _, ok := e.Fields[field]; !ok {
			return false
		}
	}
	return true
}

// HTTPStatus 返回错误码对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code >= 40100 && e.Code < 40200:
		return http.StatusUnauthorized
	case e.Code >= 40300 && e.Code < 40400:
		return http.StatusForbidden
	case e.Code >= 40400 && e.Code < 40500:
		return http.StatusNotFound
	case e.Code == ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case e.Code >= 40000 && e.Code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WithField 派生一个携带字段级错误的副本（不修改预定义错误本身）
func (e *AppError) WithField(field, msg string) *AppError {
	fields := make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = append([]string(nil), v...)
	}
	fields[field] = append(fields[field], msg)
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  fields,
		Err:     e.Err,
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Validation 创建携带字段错误的参数校验错误
func Validation(fields map[string][]string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParams,
		Message: "Invalid input.",
		Fields:  fields,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx/409xx: 参数错误与业务规则校验失败（HTTP 400）
// - 401xx: 未认证（HTTP 401）
// - 403xx: 已认证但无权限（HTTP 403）
// - 404xx: 资源不存在（HTTP 404）
// - 5xxxx: 服务端错误（HTTP 500）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal   = 50000 // 内部错误
	ErrCodeRedisError = 50002 // Redis错误

	// 认证错误（40100-40199）
	ErrCodeUnauthorized       = 40100 // 未登录
	ErrCodeInvalidToken       = 40101 // Token无效
	ErrCodeTokenExpired       = 40102 // Token过期
	ErrCodeInvalidCredentials = 40103 // 用户名或密码错误
	ErrCodeTokenRevoked       = 40104 // Token已注销

	// 授权错误（40300-40399）
	ErrCodeForbidden = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeUserNotFound = 40401 // 用户不存在
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 业务规则错误（40000-40099）
	ErrCodeBookArchived      = 40001 // 图书已归档
	ErrCodeUsernameDuplicate = 40003 // 用户名已存在
	ErrCodeISBNDuplicate     = 40004 // ISBN已存在
	ErrCodeWeakPassword      = 40005 // 密码强度不足

	// 限流（40029）
	ErrCodeTooManyRequests = 40029

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal   = New(ErrCodeInternal, "A server error occurred.")
	ErrRedisError = New(ErrCodeRedisError, "A server error occurred.")

	// 认证
	ErrUnauthorized       = New(ErrCodeUnauthorized, "Authentication credentials were not provided.")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "Given token not valid for any token type.")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "Token is expired.")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "No active account found with the given credentials.")
	ErrTokenRevoked       = New(ErrCodeTokenRevoked, "Token is blacklisted.")

	// 授权
	ErrForbidden = New(ErrCodeForbidden, "You do not have permission to perform this action.")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "Not found.")
	ErrBookNotFound = New(ErrCodeBookNotFound, "Not found.")

	// 业务规则
	ErrUsernameDuplicate = New(ErrCodeUsernameDuplicate, "A user with that username already exists.")
	ErrWeakPassword      = New(ErrCodeWeakPassword, "This password is too short. It must contain at least 8 characters.")

	// 限流
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "Request was throttled.")

	// 参数错误
	ErrBindError = New(ErrCodeBindError, "Malformed request.")
)

// =========================================
// 辅助函数
// =========================================

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}
