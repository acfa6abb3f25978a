package pubsub

import "context"

type EventType string

const (
	// EventTypeCreated marks a new item such as a notification or a log record.
	EventTypeCreated EventType = "created"
	// EventTypeUpdated marks a change to existing state, e.g. counters.
	EventTypeUpdated EventType = "updated"
)

type Event[T any] struct {
	Type    EventType
	Payload T
}

type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
