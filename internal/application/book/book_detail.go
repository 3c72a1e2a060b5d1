package book

import (
	"context"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/pkg/metrics"
)

// GetBookUseCase 图书详情用例
// 已归档图书视为不存在
type GetBookUseCase struct {
	bookService book.Service
	metrics     *metrics.Metrics
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, m *metrics.Metrics) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, metrics: m}
}

// GetBookRequest 详情请求
type GetBookRequest struct {
	Actor Actor
	ID    uint
}

// Execute 执行详情用例
func (uc *GetBookUseCase) Execute(ctx context.Context, req GetBookRequest) (dto *BookDTO, err error) {
	defer func() { uc.metrics.ObserveBookOperation("get", resultOf(err)) }()

	if err := Authorize(req.Actor, VariantRestricted, ActionRead); err != nil {
		return nil, err
	}

	b, err := uc.bookService.GetActiveBook(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	out := toDTO(b)
	return &out, nil
}

// UpdateBookUseCase 更新图书用例(PUT整体更新、PATCH部分更新)
// 业务规则:
// 1. 仅admin可更新，member无论图书是否存在都返回403
// 2. 已归档图书返回404
// 3. is_archived不可通过更新修改
type UpdateBookUseCase struct {
	bookService book.Service
	events      book.EventPublisher
	metrics     *metrics.Metrics
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service, events book.EventPublisher, m *metrics.Metrics) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, events: events, metrics: m}
}

// UpdateBookRequest 更新请求
type UpdateBookRequest struct {
	Actor Actor
	ID    uint
	Patch book.Patch
}

// Authorize 解析请求体之前的权限检查，拒绝时计入指标
func (uc *UpdateBookUseCase) Authorize(actor Actor) error {
	return authorizeObserved(uc.metrics, "update", actor, VariantRestricted, ActionUpdate)
}

// Execute 执行更新用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (dto *BookDTO, err error) {
	defer func() { uc.metrics.ObserveBookOperation("update", resultOf(err)) }()

	// 1. 权限检查(先于查询)
	if err := Authorize(req.Actor, VariantRestricted, ActionUpdate); err != nil {
		return nil, err
	}

	// 2. 查询未归档图书
	b, err := uc.bookService.GetActiveBook(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// 3. 更新
	if err := uc.bookService.UpdateBook(ctx, b, req.Patch); err != nil {
		return nil, err
	}

	// 4. 发布事件
	uc.events.Publish(ctx, book.NewEvent(book.EventUpdated, b, req.Actor.UserID))

	out := toDTO(b)
	return &out, nil
}

// ArchiveBookUseCase 归档图书用例(DELETE)
// 业务规则:
// 1. 仅admin可归档
// 2. 软删除:记录保留，is_archived置为true
// 3. 已归档图书在该端点上不可见，再次DELETE返回404
type ArchiveBookUseCase struct {
	bookService book.Service
	events      book.EventPublisher
	metrics     *metrics.Metrics
}

// NewArchiveBookUseCase 创建归档用例
func NewArchiveBookUseCase(bookService book.Service, events book.EventPublisher, m *metrics.Metrics) *ArchiveBookUseCase {
	return &ArchiveBookUseCase{bookService: bookService, events: events, metrics: m}
}

// ArchiveBookRequest 归档请求
type ArchiveBookRequest struct {
	Actor Actor
	ID    uint
}

// Authorize 解析路径参数之前的权限检查，拒绝时计入指标
func (uc *ArchiveBookUseCase) Authorize(actor Actor) error {
	return authorizeObserved(uc.metrics, "archive", actor, VariantRestricted, ActionArchive)
}

// Execute 执行归档用例
func (uc *ArchiveBookUseCase) Execute(ctx context.Context, req ArchiveBookRequest) (err error) {
	defer func() { uc.metrics.ObserveBookOperation("archive", resultOf(err)) }()

	if err := Authorize(req.Actor, VariantRestricted, ActionArchive); err != nil {
		return err
	}

	b, err := uc.bookService.GetActiveBook(ctx, req.ID)
	if err != nil {
		return err
	}

	if err := uc.bookService.ArchiveBook(ctx, b); err != nil {
		return err
	}

	uc.events.Publish(ctx, book.NewEvent(book.EventArchived, b, req.Actor.UserID))
	return nil
}
