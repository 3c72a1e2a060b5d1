package book

import (
	"context"
	"time"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/pkg/metrics"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. Restricted分组只看未归档图书，只支持author过滤
// 2. Permissive分组包含已归档图书，支持author与published_date过滤
// 3. 查询条件是不可变的book.Filter，由仓储翻译为SQL
type ListBooksUseCase struct {
	bookService book.Service
	metrics     *metrics.Metrics
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, m *metrics.Metrics) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		metrics:     m,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Actor         Actor
	Variant       Variant
	Author        string     // 作者包含(不区分大小写)，空表示不过滤
	PublishedDate *time.Time // 出版日期等于，仅Permissive分组生效
}

// Filter 根据端点分组构造查询条件
func (req ListBooksRequest) Filter() book.Filter {
	var f book.Filter
	if req.Variant == VariantRestricted {
		f = f.With(book.NotArchived())
	}
	if req.Author != "" {
		f = f.With(book.AuthorContains(req.Author))
	}
	if req.Variant == VariantPermissive && req.PublishedDate != nil {
		f = f.With(book.PublishedOn(*req.PublishedDate))
	}
	return f
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp []BookDTO, err error) {
	defer func() { uc.metrics.ObserveBookOperation("list_"+req.Variant.String(), resultOf(err)) }()

	// 1. 权限检查
	if err := Authorize(req.Actor, req.Variant, ActionRead); err != nil {
		return nil, err
	}

	// 2. 查询
	books, err := uc.bookService.ListBooks(ctx, req.Filter())
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	return toDTOs(books), nil
}

// RecentBooksUseCase 最近出版图书查询用例
// 业务规则:
// 1. published_date >= 今天-30天(含边界)，今天按UTC日期计算
// 2. 不设上界，未来日期同样返回
// 3. 与其他默认视图一致，排除已归档图书
type RecentBooksUseCase struct {
	bookService book.Service
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewRecentBooksUseCase 创建最近出版查询用例
func NewRecentBooksUseCase(bookService book.Service, m *metrics.Metrics) *RecentBooksUseCase {
	return &RecentBooksUseCase{
		bookService: bookService,
		metrics:     m,
		now:         time.Now,
	}
}

// RecentBooksRequest 最近出版查询请求
type RecentBooksRequest struct {
	Actor Actor
}

// Execute 执行最近出版查询用例
func (uc *RecentBooksUseCase) Execute(ctx context.Context, req RecentBooksRequest) (resp []BookDTO, err error) {
	defer func() { uc.metrics.ObserveBookOperation("recent", resultOf(err)) }()

	if err := Authorize(req.Actor, VariantRestricted, ActionRead); err != nil {
		return nil, err
	}

	filter := book.NewFilter(
		book.NotArchived(),
		book.PublishedSince(uc.now().UTC(), book.RecentWindow),
	)
	books, err := uc.bookService.ListBooks(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toDTOs(books), nil
}
