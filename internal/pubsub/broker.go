package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// defaultQueueSize bounds both the delivery channel and the overflow queue
// of each subscriber.
const defaultQueueSize = 64

// Broker fans published events out to every live subscriber. Publish never
// blocks: each subscriber has its own pump goroutine, and a subscriber that
// falls behind loses its oldest events while keeping publish order.
type Broker[T any] struct {
	mu        sync.RWMutex
	subs      map[*subscription[T]]struct{}
	closed    bool
	queueSize int
}

func NewBroker[T any]() *Broker[T] {
	return &Broker[T]{
		subs:      make(map[*subscription[T]]struct{}),
		queueSize: defaultQueueSize,
	}
}

type subscription[T any] struct {
	out  chan Event[T]
	wake chan struct{}
	stop chan struct{}

	mu      sync.Mutex
	queue   []Event[T]
	dropped int
}

func (s *subscription[T]) push(ev Event[T], limit int) {
	s.mu.Lock()
	if len(s.queue) >= limit {
		var zero Event[T]
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.dropped++
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pop takes the oldest queued event and the number dropped since the last pop.
func (s *subscription[T]) pop() (Event[T], bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := s.dropped
	s.dropped = 0
	if len(s.queue) == 0 {
		return Event[T]{}, false, dropped
	}
	ev := s.queue[0]
	s.queue[0] = Event[T]{}
	s.queue = s.queue[1:]
	return ev, true, dropped
}

// flush hands queued events to out while it has room.
func (s *subscription[T]) flush(pending Event[T], has bool) {
	for {
		if !has {
			if pending, has, _ = s.pop(); !has {
				return
			}
		}
		select {
		case s.out <- pending:
			has = false
		default:
			return
		}
	}
}

// Subscribe returns a channel that receives events until ctx is done or the
// broker shuts down. Events still queued at that point are handed over as
// long as the channel has room, then it is closed. Subscribing to a closed
// broker yields a closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	s := &subscription[T]{
		out:  make(chan Event[T], b.queueSize),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	b.subs[s] = struct{}{}
	go b.pump(ctx, s)
	return s.out
}

func (b *Broker[T]) pump(ctx context.Context, s *subscription[T]) {
	var (
		pending Event[T]
		has     bool
	)
	defer func() {
		b.remove(s)
		s.flush(pending, has)
		close(s.out)
	}()

	for {
		if !has {
			var dropped int
			pending, has, dropped = s.pop()
			if dropped > 0 {
				slog.Debug("pubsub: subscriber fell behind", "dropped", dropped, "type", fmt.Sprintf("%T", *new(T)))
			}
		}
		if !has {
			select {
			case <-s.wake:
				continue
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
		select {
		case s.out <- pending:
			has = false
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}
	}
}

func (b *Broker[T]) remove(s *subscription[T]) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("publish on closed pubsub broker", "type", eventType, "payload_type", fmt.Sprintf("%T", payload))
		return
	}

	ev := Event[T]{Type: eventType, Payload: payload}
	for s := range b.subs {
		s.push(ev, b.queueSize)
	}
}

// Shutdown ends every subscription. It is safe to call more than once.
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for s := range b.subs {
		close(s.stop)
		delete(b.subs, s)
	}
	b.mu.Unlock()
	slog.Debug("pubsub broker shut down", "type", fmt.Sprintf("%T", *new(T)))
}

func (b *Broker[T]) GetSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
