package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 仓储不做可见性判断，是否排除已归档图书由调用方决定
type Repository interface {
	// Create 创建图书
	// ISBN与任意已有记录(包括已归档)重复时返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(包括已归档)
	// 不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// List 按条件查询，结果按ID升序
	List(ctx context.Context, filter Filter) ([]*Book, error)

	// Update 保存可写字段，只作用于未归档记录
	// 不存在或已归档时返回ErrBookNotFound，ISBN重复时返回ErrISBNDuplicate
	Update(ctx context.Context, book *Book) error

	// Archive 归档
	// 幂等:已归档时为空操作；不存在时返回ErrBookNotFound
	Archive(ctx context.Context, id uint) error
}
