package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library-api/internal/domain/book"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. book.Filter中的每个谓词翻译为一个GORM Scope
// 4. 唯一索引冲突转换为ErrISBNDuplicate
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书(包括已归档)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// List 按条件查询
func (r *bookRepository) List(ctx context.Context, filter book.Filter) ([]*book.Book, error) {
	var models []BookModel
	if err := listQuery(r.db.WithContext(ctx), filter).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// listQuery 把Filter翻译为查询
func listQuery(db *gorm.DB, filter book.Filter) *gorm.DB {
	preds := filter.Predicates()
	scopes := make([]func(*gorm.DB) *gorm.DB, len(preds))
	for i, p := range preds {
		scopes[i] = predicateScope(p)
	}
	return db.Model(&BookModel{}).Scopes(scopes...).Order("id ASC")
}

// predicateScope 单个谓词对应的Scope
func predicateScope(p book.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch p.Kind {
		case book.KindAuthorContains:
			return db.Where("LOWER(author) LIKE ?", containsPattern(strings.ToLower(p.Text)))
		case book.KindPublishedOn:
			return db.Where("published_date = ?", p.Date.Format(book.DateLayout))
		case book.KindPublishedOnOrAfter:
			return db.Where("published_date >= ?", p.Date.Format(book.DateLayout))
		case book.KindNotArchived:
			return db.Where("is_archived = ?", false)
		default:
			// 未知谓词不匹配任何记录，与Predicate.Matches保持一致
			return db.Where("1 = 0")
		}
	}
}

// Update 保存可写字段(不修改is_archived)
// 条件带is_archived = false，加载后被并发归档的记录不会被改写
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ? AND is_archived = ?", b.ID, false).
		Updates(map[string]interface{}{
		"title":          b.Title,
		"author":         b.Author,
		"published_date": b.PublishedDate,
		"isbn":           b.ISBN,
		"pages":          b.Pages,
		"language":       b.Language,
		"updated_at":     now,
	})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		if err := r.mustExist(ctx, b.ID, true); err != nil {
			return err
		}
	}

	b.UpdatedAt = now
	return nil
}

// Archive 归档，已归档时为空操作
func (r *bookRepository) Archive(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ? AND is_archived = ?", id, false).
		Updates(map[string]interface{}{
			"is_archived": true,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "归档图书失败")
	}
	if result.RowsAffected == 0 {
		return r.mustExist(ctx, id, false)
	}
	return nil
}

// mustExist 影响行数为0时区分"不存在"与"值未变化"
// activeOnly为true时已归档记录也按不存在处理
func (r *bookRepository) mustExist(ctx context.Context, id uint, activeOnly bool) error {
	query := r.db.WithContext(ctx).Model(&BookModel{}).Where("id = ?", id)
	if activeOnly {
		query = query.Where("is_archived = ?", false)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询图书失败")
	}
	if count == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		ISBN:          b.ISBN,
		Pages:         b.Pages,
		Language:      b.Language,
		IsArchived:    b.IsArchived(),
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *book.Book {
	state := book.StateActive
	if m.IsArchived {
		state = book.StateArchived
	}
	return &book.Book{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		PublishedDate: book.DateOf(m.PublishedDate),
		ISBN:          m.ISBN,
		Pages:         m.Pages,
		Language:      m.Language,
		State:         state,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
