package dto

import (
	"time"

	"github.com/xiebiao/library-api/internal/domain/book"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

// BookRequest 创建/整体更新(PUT)请求
// validator tag说明:
// - required: 必填字段(pages为指针，区分未传与0)
// - datetime=2006-01-02: 日期格式
// is_archived不可写，请求中出现时忽略
type BookRequest struct {
	Title         string `json:"title" binding:"required,max=255" example:"Dune"`
	Author        string `json:"author" binding:"required,max=100" example:"Frank Herbert"`
	PublishedDate string `json:"published_date" binding:"required,datetime=2006-01-02" example:"2024-01-01"`
	ISBN          string `json:"isbn" binding:"required,max=13" example:"0441013597"`
	Pages         *int   `json:"pages" binding:"required,min=0" example:"412"`
	Language      string `json:"language" binding:"required,max=20" example:"en"`
}

// Fields 转换为领域字段
func (r *BookRequest) Fields() (book.Fields, error) {
	published, err := book.ParseDate(r.PublishedDate)
	if err != nil {
		return book.Fields{}, book.ErrInvalidDate
	}
	return book.Fields{
		Title:         r.Title,
		Author:        r.Author,
		PublishedDate: published,
		ISBN:          r.ISBN,
		Pages:         *r.Pages,
		Language:      r.Language,
	}, nil
}

// BookPatchRequest 部分更新(PATCH)请求，未出现的字段保持不变
type BookPatchRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=255"`
	Author        *string `json:"author" binding:"omitempty,max=100"`
	PublishedDate *string `json:"published_date" binding:"omitempty,datetime=2006-01-02"`
	ISBN          *string `json:"isbn" binding:"omitempty,max=13"`
	Pages         *int    `json:"pages" binding:"omitempty,min=0"`
	Language      *string `json:"language" binding:"omitempty,max=20"`
}

// Patch 转换为领域Patch
func (r *BookPatchRequest) Patch() (book.Patch, error) {
	p := book.Patch{
		Title:    r.Title,
		Author:   r.Author,
		ISBN:     r.ISBN,
		Pages:    r.Pages,
		Language: r.Language,
	}
	if r.PublishedDate != nil {
		published, err := book.ParseDate(*r.PublishedDate)
		if err != nil {
			return book.Patch{}, book.ErrInvalidDate
		}
		p.PublishedDate = &published
	}
	return p, nil
}

// ListBooksQuery 列表查询参数
// published_date只在/api/shared/books/生效
type ListBooksQuery struct {
	Author        string `form:"author" example:"Tolkien"`
	PublishedDate string `form:"published_date" example:"2024-01-01"`
}

// errInvalidDateParam 查询参数中的日期非法
var errInvalidDateParam = apperrors.Validation(map[string][]string{
	"published_date": {"Enter a valid date."},
})

// Date 解析published_date，未传时返回nil
func (q *ListBooksQuery) Date() (*time.Time, error) {
	if q.PublishedDate == "" {
		return nil, nil
	}
	d, err := book.ParseDate(q.PublishedDate)
	if err != nil {
		return nil, errInvalidDateParam
	}
	return &d, nil
}
