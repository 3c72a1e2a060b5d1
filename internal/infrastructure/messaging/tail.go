package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xiebiao/library-api/internal/domain/book"
	"github.com/xiebiao/library-api/pkg/mq"
)

// BookEventRoutingKeys 订阅全部图书事件
var BookEventRoutingKeys = []string{"book.*"}

// DecodeBookEvent 解析消息体为图书事件
// 消息体缺少type时以路由键补齐
func DecodeBookEvent(d mq.Delivery) (book.Event, error) {
	var evt book.Event
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		return book.Event{}, fmt.Errorf("解析图书事件失败: %w", err)
	}
	if evt.Type == "" {
		evt.Type = book.EventType(d.RoutingKey)
	}
	return evt, nil
}

// BookEventHandler 把图书事件处理函数适配为mq.Handler
// 无法解析的消息直接确认丢弃，避免反复重新入队
func BookEventHandler(fn func(ctx context.Context, evt book.Event) error, onInvalid func(d mq.Delivery, err error)) mq.Handler {
	return func(ctx context.Context, d mq.Delivery) error {
		evt, err := DecodeBookEvent(d)
		if err != nil {
			if onInvalid != nil {
				onInvalid(d, err)
			}
			return nil
		}
		return fn(ctx, evt)
	}
}
