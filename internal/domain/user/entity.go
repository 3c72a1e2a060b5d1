package user

import (
	"fmt"
	"time"
)

// Role 用户角色
// 取值只能是RoleAdmin或RoleMember，持久化时存储String()的结果
type Role int

const (
	RoleMember Role = iota // 普通会员（默认）
	RoleAdmin              // 管理员
)

// String 角色的存储/传输形式
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Valid 是否为已定义的角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// ParseRole 解析角色字符串
// 空字符串视为默认角色member
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "member", "":
		return RoleMember, nil
	default:
		return RoleMember, ErrInvalidRole
	}
}

// User 用户实体（聚合根）
// 说明：Password是bcrypt哈希值，明文密码不进入实体
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string, role Role) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
