// Package memory 提供基于内存的仓储实现
// 用于database.driver=memory的本地开发模式以及上层的测试
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/library-api/internal/domain/book"
)

// BookRepository 内存图书仓储
// 设计说明:
// 1. 用互斥锁保证单条记录操作的原子性
// 2. ISBN唯一性覆盖已归档记录，与MySQL的UNIQUE索引一致
// 3. 返回值均为副本，调用方修改不影响存储
type BookRepository struct {
	mu     sync.RWMutex
	nextID uint
	books  map[uint]*book.Book
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{books: make(map[uint]*book.Book)}
}

var _ book.Repository = (*BookRepository)(nil)

// Create 创建图书
func (r *BookRepository) Create(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isbnTaken(b.ISBN, 0) {
		return book.ErrISBNDuplicate
	}

	r.nextID++
	now := time.Now()
	b.ID = r.nextID
	b.CreatedAt = now
	b.UpdatedAt = now

	stored := *b
	r.books[b.ID] = &stored
	return nil
}

// FindByID 根据ID查找图书
func (r *BookRepository) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

// List 按条件查询，结果按ID升序
func (r *BookRepository) List(_ context.Context, filter book.Filter) ([]*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		if filter.Matches(b) {
			cp := *b
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Update 保存可写字段(归档状态不在此处修改)，已归档按不存在处理
func (r *BookRepository) Update(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.books[b.ID]
	if !ok || stored.IsArchived() {
		return book.ErrBookNotFound
	}
	if r.isbnTaken(b.ISBN, b.ID) {
		return book.ErrISBNDuplicate
	}

	stored.Title = b.Title
	stored.Author = b.Author
	stored.PublishedDate = b.PublishedDate
	stored.ISBN = b.ISBN
	stored.Pages = b.Pages
	stored.Language = b.Language
	stored.UpdatedAt = time.Now()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

// Archive 归档，幂等
func (r *BookRepository) Archive(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if stored.Archive() {
		stored.UpdatedAt = time.Now()
	}
	return nil
}

// isbnTaken 调用方需持有锁
func (r *BookRepository) isbnTaken(isbn string, exceptID uint) bool {
	for id, b := range r.books {
		if id != exceptID && b.ISBN == isbn {
			return true
		}
	}
	return false
}
