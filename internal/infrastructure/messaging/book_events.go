package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/pkg/circuitbreaker"
	"github.com/xiebiao/library-api/pkg/metrics"
)

// publishTimeout 单条事件的发布超时
const publishTimeout = 2 * time.Second

// MessagePublisher 底层消息发布接口(*mq.Publisher实现)
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventPublisher 通过消息队列发布图书事件
// 设计说明:
// 1. 实现domain/book.EventPublisher，发布失败只记录日志
// 2. 经熔断器调用，Broker不可用时快速跳过
// 3. 发布使用独立超时，不受请求取消影响
type BookEventPublisher struct {
	pub     MessagePublisher
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewBookEventPublisher 创建图书事件发布者
func NewBookEventPublisher(pub MessagePublisher, breaker *circuitbreaker.CircuitBreaker, m *metrics.Metrics, log *zap.Logger) *BookEventPublisher {
	return &BookEventPublisher{
		pub:     pub,
		breaker: breaker,
		metrics: m,
		log:     log,
	}
}

// Publish 发布事件，路由键为事件类型
func (p *BookEventPublisher) Publish(ctx context.Context, evt book.Event) {
	routingKey := string(evt.Type)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.pub.Publish(ctx, routingKey, evt)
	})
	if err != nil {
		p.metrics.ObservePublish(routingKey, metrics.ResultError)
		p.log.Warn("图书事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Uint("book_id", evt.BookID),
			zap.Error(err),
		)
		return
	}
	p.metrics.ObservePublish(routingKey, metrics.ResultSuccess)
}

// NewBreaker 创建事件发布用的熔断器，状态与请求结果写入监控指标
func NewBreaker(m *metrics.Metrics, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker("mq-publisher", circuitbreaker.Config{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		ReadyToTrip:  circuitbreaker.ConsecutiveFailures(5),
		IsSuccessful: circuitbreaker.IgnoreContextErrors,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			m.SetBreakerState(name, int(to))
			log.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		OnRequest: m.ObserveBreakerRequest,
	})
}

// LogPublisher 消息队列未启用时使用，只记录日志
type LogPublisher struct {
	log *zap.Logger
}

// NewLogPublisher 创建日志事件发布者
func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish 以Debug级别记录事件
func (p *LogPublisher) Publish(_ context.Context, evt book.Event) {
	p.log.Debug("图书事件",
		zap.String("type", string(evt.Type)),
		zap.Uint("book_id", evt.BookID),
		zap.String("isbn", evt.ISBN),
		zap.Uint("actor_id", evt.ActorID),
	)
}
