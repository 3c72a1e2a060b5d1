package book

import (
	"context"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/pkg/metrics"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 先做角色检查再做字段校验，无权限的请求不会触达存储
// 2. 创建成功后发布book.created事件，发布失败不影响结果
type CreateBookUseCase struct {
	bookService book.Service
	events      book.EventPublisher
	metrics     *metrics.Metrics
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, events book.EventPublisher, m *metrics.Metrics) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		events:      events,
		metrics:     m,
	}
}

// CreateBookRequest 创建请求
type CreateBookRequest struct {
	Actor   Actor
	Variant Variant
	Fields  book.Fields
}

// Authorize 解析请求体之前的权限检查，拒绝时计入指标
func (uc *CreateBookUseCase) Authorize(actor Actor, v Variant) error {
	return authorizeObserved(uc.metrics, "create_"+v.String(), actor, v, ActionCreate)
}

// Execute 执行创建用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (dto *BookDTO, err error) {
	defer func() { uc.metrics.ObserveBookOperation("create_"+req.Variant.String(), resultOf(err)) }()

	// 1. 权限检查
	if err := Authorize(req.Actor, req.Variant, ActionCreate); err != nil {
		return nil, err
	}

	// 2. 调用领域服务(字段校验、ISBN唯一)
	b, err := uc.bookService.CreateBook(ctx, req.Fields)
	if err != nil {
		return nil, err
	}

	// 3. 发布事件
	uc.events.Publish(ctx, book.NewEvent(book.EventCreated, b, req.Actor.UserID))

	out := toDTO(b)
	return &out, nil
}
