package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装字段校验与归档状态规则
// 2. 不做角色判断，访问控制在application层完成
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - 字段长度与非空校验
	// - ISBN不能与任何已有记录重复(由仓储返回ErrISBNDuplicate)
	CreateBook(ctx context.Context, f Fields) (*Book, error)

	// GetActiveBook 获取未归档图书，已归档视为不存在
	GetActiveBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 按条件查询
	ListBooks(ctx context.Context, filter Filter) ([]*Book, error)

	// UpdateBook 更新图书，成功后b为更新后的值
	// 业务规则:已归档图书不可修改
	UpdateBook(ctx context.Context, b *Book, p Patch) error

	// ArchiveBook 归档图书，重复归档为空操作
	ArchiveBook(ctx context.Context, b *Book) error
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, f Fields) (*Book, error) {
	// 1. 创建实体并校验
	b := NewBook(f)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	// 2. 持久化(ISBN唯一性由UNIQUE索引保证，并发创建同样会失败)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetActiveBook 获取未归档图书
func (s *service) GetActiveBook(ctx context.Context, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsArchived() {
		return nil, ErrBookNotFound
	}
	return b, nil
}

// ListBooks 按条件查询
func (s *service) ListBooks(ctx context.Context, filter Filter) ([]*Book, error) {
	return s.repo.List(ctx, filter)
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, b *Book, p Patch) error {
	// 1. 在副本上应用，持久化失败时b保持原值
	next := *b
	if err := next.Apply(p); err != nil {
		return err
	}

	// 2. 持久化
	if err := s.repo.Update(ctx, &next); err != nil {
		return err
	}

	*b = next
	return nil
}

// ArchiveBook 归档图书
func (s *service) ArchiveBook(ctx context.Context, b *Book) error {
	if !b.Archive() {
		return nil
	}
	return s.repo.Archive(ctx, b.ID)
}
