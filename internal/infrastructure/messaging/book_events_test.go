package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/pkg/circuitbreaker"
	"github.com/xiebiao/library-api/pkg/metrics"
	"github.com/xiebiao/library-api/pkg/mq"
)

type published struct {
	routingKey string
	message    interface{}
}

// fakePublisher 记录发布的消息，err非nil时发布失败
type fakePublisher struct {
	mu    sync.Mutex
	err   error
	calls []published
	ctxOK []bool
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, published{routingKey, message})
	f.ctxOK = append(f.ctxOK, ctx.Err() == nil)
	return f.err
}

func sampleEvent(t book.EventType) book.Event {
	return book.Event{Type: t, BookID: 42, ISBN: "9780441013593", ActorID: 1, OccurredAt: time.Now().UTC()}
}

func TestBookEventPublisher(t *testing.T) {
	m := metrics.New("test")

	t.Run("按事件类型路由", func(t *testing.T) {
		fake := &fakePublisher{}
		p := NewBookEventPublisher(fake, NewBreaker(m, zap.NewNop()), m, zap.NewNop())

		p.Publish(context.Background(), sampleEvent(book.EventCreated))
		p.Publish(context.Background(), sampleEvent(book.EventArchived))

		require.Len(t, fake.calls, 2)
		assert.Equal(t, "book.created", fake.calls[0].routingKey)
		assert.Equal(t, "book.archived", fake.calls[1].routingKey)
		assert.Equal(t, uint(42), fake.calls[0].message.(book.Event).BookID)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesPublishedTotal.WithLabelValues("book.created", metrics.ResultSuccess)))
	})

	t.Run("请求取消后仍然发布", func(t *testing.T) {
		fake := &fakePublisher{}
		p := NewBookEventPublisher(fake, NewBreaker(m, zap.NewNop()), m, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p.Publish(ctx, sampleEvent(book.EventUpdated))

		require.Len(t, fake.ctxOK, 1)
		assert.True(t, fake.ctxOK[0])
	})

	t.Run("Broker故障后熔断", func(t *testing.T) {
		fake := &fakePublisher{err: errors.New("connection refused")}
		breaker := NewBreaker(m, zap.NewNop())
		p := NewBookEventPublisher(fake, breaker, m, zap.NewNop())

		for i := 0; i < 8; i++ {
			p.Publish(context.Background(), sampleEvent(book.EventUpdated))
		}

		assert.Len(t, fake.calls, 5, "连续失败5次后不再调用Broker")
		assert.Equal(t, circuitbreaker.StateOpen, breaker.State())
		assert.Equal(t, 8.0, testutil.ToFloat64(m.MessagesPublishedTotal.WithLabelValues("book.updated", metrics.ResultError)))
		assert.Equal(t, float64(circuitbreaker.StateOpen), testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("mq-publisher")))
		t.Logf("✓ 熔断器已打开，拒绝%v次", testutil.ToFloat64(m.CircuitBreakerRequests.WithLabelValues("mq-publisher", circuitbreaker.ResultRejected)))
	})
}

func TestLogPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLogPublisher(zap.NewNop()).Publish(context.Background(), sampleEvent(book.EventCreated))
	})
}

func TestDecodeBookEvent(t *testing.T) {
	t.Run("完整事件", func(t *testing.T) {
		evt, err := DecodeBookEvent(mq.Delivery{
			RoutingKey: "book.updated",
			Body:       []byte(`{"type":"book.updated","book_id":3,"isbn":"123","actor_id":9,"occurred_at":"2024-01-02T03:04:05Z"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, book.EventUpdated, evt.Type)
		assert.Equal(t, uint(3), evt.BookID)
		assert.Equal(t, uint(9), evt.ActorID)
	})

	t.Run("缺少type时使用路由键", func(t *testing.T) {
		evt, err := DecodeBookEvent(mq.Delivery{RoutingKey: "book.archived", Body: []byte(`{"book_id":1}`)})
		require.NoError(t, err)
		assert.Equal(t, book.EventArchived, evt.Type)
	})

	t.Run("非法JSON被确认丢弃", func(t *testing.T) {
		var invalid int
		h := BookEventHandler(func(context.Context, book.Event) error {
			t.Fatal("不应调用")
			return nil
		}, func(mq.Delivery, error) { invalid++ })

		assert.NoError(t, h(context.Background(), mq.Delivery{Body: []byte("{")}))
		assert.Equal(t, 1, invalid)
	})

	t.Run("处理失败返回错误以便重新入队", func(t *testing.T) {
		boom := errors.New("boom")
		h := BookEventHandler(func(context.Context, book.Event) error { return boom }, nil)
		assert.ErrorIs(t, h(context.Background(), mq.Delivery{Body: []byte(`{"book_id":1}`)}), boom)
	})
}
