package book

import (
	"errors"
	"net/http"

	"github.com/xiebiao/library-api/internal/domain/book"
	apperrors "github.com/xiebiao/library-api/pkg/errors"
	"github.com/xiebiao/library-api/pkg/metrics"
)

// BookDTO 图书响应DTO
type BookDTO struct {
	ID            uint   `json:"id" example:"1"`
	Title         string `json:"title" example:"Dune"`
	Author        string `json:"author" example:"Frank Herbert"`
	PublishedDate string `json:"published_date" example:"2024-01-01"`
	ISBN          string `json:"isbn" example:"0441013597"`
	Pages         int    `json:"pages" example:"412"`
	Language      string `json:"language" example:"en"`
	IsArchived    bool   `json:"is_archived" example:"false"`
}

func toDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate.Format(book.DateLayout),
		ISBN:          b.ISBN,
		Pages:         b.Pages,
		Language:      b.Language,
		IsArchived:    b.IsArchived(),
	}
}

// toDTOs 空结果返回空切片，序列化为[]
func toDTOs(books []*book.Book) []BookDTO {
	results := make([]BookDTO, len(books))
	for i, b := range books {
		results[i] = toDTO(b)
	}
	return results
}

// resultOf 把用例结果归类为指标标签
func resultOf(err error) string {
	if err == nil {
		return metrics.ResultSuccess
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return metrics.ResultError
	}
	switch appErr.HTTPStatus() {
	case http.StatusForbidden:
		return metrics.ResultDenied
	case http.StatusNotFound:
		return metrics.ResultNotFound
	case http.StatusBadRequest:
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
