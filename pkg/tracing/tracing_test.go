package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withRecorder 安装记录Span的全局Provider，测试结束后恢复
func withRecorder(t *testing.T, rate float64) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	rec := tracetest.NewSpanRecorder()
	tp, err := NewProvider(context.Background(), Config{ServiceName: "library-api-test", SamplingRate: rate},
		sdktrace.WithSpanProcessor(rec))
	require.NoError(t, err)
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return rec
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid(), "未启用时为No-op Span")
	assert.Empty(t, TraceID(ctx))
	assert.Empty(t, SpanID(ctx))
}

func TestStartSpan(t *testing.T) {
	rec := withRecorder(t, 1)

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "GET /api/books/")
		childCtx, child := StartSpan(ctx, "BookRepository.List")
		child.End()
		root.End()

		assert.Equal(t, TraceID(ctx), TraceID(childCtx))
		assert.NotEqual(t, SpanID(ctx), SpanID(childCtx))
		assert.Len(t, TraceID(ctx), 32)
		t.Logf("✓ TraceID=%s", TraceID(ctx))
	})

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "BookRepository.List", ended[0].Name())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())

	attrs := ended[1].Resource().Attributes()
	found := false
	for _, kv := range attrs {
		if string(kv.Key) == "service.name" {
			found = kv.Value.AsString() == "library-api-test"
		}
	}
	assert.True(t, found, "资源属性包含service.name")
}

func TestSampling(t *testing.T) {
	rec := withRecorder(t, 0)

	_, span := StartSpan(context.Background(), "dropped")
	span.End()

	assert.False(t, span.SpanContext().IsSampled())
	assert.Empty(t, rec.Ended(), "采样率为0时根Span不导出")
}
