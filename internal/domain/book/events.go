package book

import (
	"context"
	"time"
)

// EventType 图书领域事件类型，同时用作消息路由键
type EventType string

const (
	EventCreated  EventType = "book.created"
	EventUpdated  EventType = "book.updated"
	EventArchived EventType = "book.archived"
)

// Event 图书领域事件
type Event struct {
	Type       EventType `json:"type"`
	BookID     uint      `json:"book_id"`
	ISBN       string    `json:"isbn"`
	ActorID    uint      `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent 根据图书当前状态构造事件
func NewEvent(t EventType, b *Book, actorID uint) Event {
	return Event{
		Type:       t,
		BookID:     b.ID,
		ISBN:       b.ISBN,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher 领域事件发布接口
// 实现方不得因发布失败而影响调用方的业务结果
type EventPublisher interface {
	Publish(ctx context.Context, evt Event)
}
