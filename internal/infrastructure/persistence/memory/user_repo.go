package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/library-api/internal/domain/user"
)

// UserRepository 内存用户仓储
type UserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]*user.User
}

// NewUserRepository 创建内存用户仓储
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uint]*user.User)}
}

var _ user.Repository = (*UserRepository)(nil)

// Create 创建用户，用户名重复返回ErrUsernameDuplicate
func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.ErrUsernameDuplicate
		}
	}

	r.nextID++
	now := time.Now()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	r.users[u.ID] = &stored
	return nil
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(_ context.Context, id uint) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}
