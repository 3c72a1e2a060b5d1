package book

import (
	apperrors "github.com/xiebiao/library-api/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(受限视图下已归档图书也返回此错误)
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrISBNDuplicate ISBN已存在(包括已归档图书)
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "Invalid input.").WithField("isbn", "book with this isbn already exists.")

	// ErrBookArchived 图书已归档，不可修改
	ErrBookArchived = apperrors.New(apperrors.ErrCodeBookArchived, "Book is archived.")

	// ErrInvalidDate 日期格式不正确
	ErrInvalidDate = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid input.").WithField("published_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
)
