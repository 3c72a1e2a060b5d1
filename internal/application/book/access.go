package book

import (
	"github.com/xiebiao/library-api/internal/domain/user"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
	"github.com/xiebiao/library-api/pkg/metrics"
)

// Variant 端点分组
// 两组端点对同一资源的权限与可见性规则不同：
//   - Restricted: /api/books/，列表排除已归档，仅admin可写
//   - Permissive: /api/shared/books/，列表包含已归档，任意登录用户可创建
type Variant int

const (
	VariantRestricted Variant = iota
	VariantPermissive
)

func (v Variant) String() string {
	switch v {
	case VariantRestricted:
		return "restricted"
	case VariantPermissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// Action 对图书的操作
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionArchive
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// Actor 已认证的调用者(由认证中间件从Token中解析)
type Actor struct {
	UserID uint
	Role   user.Role
}

// 权限错误，detail对每种操作给出明确提示
var (
	ErrCreateForbidden = apperrors.New(apperrors.ErrCodeForbidden, "You do not have permission to create books.")
	ErrUpdateForbidden = apperrors.New(apperrors.ErrCodeForbidden, "You do not have permission to update books.")
	ErrDeleteForbidden = apperrors.New(apperrors.ErrCodeForbidden, "You do not have permission to delete books.")
)

// Authorize 判断actor能否在指定端点分组上执行操作
// 设计说明:
// 1. 按角色穷举，未定义的角色一律拒绝
// 2. 读操作对所有登录用户开放
// 3. 只有Permissive分组允许member创建
func Authorize(actor Actor, v Variant, a Action) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleMember:
		return memberPolicy(v, a)
	default:
		return apperrors.ErrForbidden
	}
}

func memberPolicy(v Variant, a Action) error {
	switch a {
	case ActionRead:
		return nil
	case ActionCreate:
		switch v {
		case VariantPermissive:
			return nil
		case VariantRestricted:
			return ErrCreateForbidden
		default:
			return apperrors.ErrForbidden
		}
	case ActionUpdate:
		return ErrUpdateForbidden
	case ActionArchive:
		return ErrDeleteForbidden
	default:
		return apperrors.ErrForbidden
	}
}

// authorizeObserved 权限检查，拒绝时记录一次操作指标
func authorizeObserved(m *metrics.Metrics, operation string, actor Actor, v Variant, a Action) error {
	err := Authorize(actor, v, a)
	if err != nil {
		m.ObserveBookOperation(operation, resultOf(err))
	}
	return err
}
