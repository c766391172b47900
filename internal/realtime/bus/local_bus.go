package bus

import (
	"context"
	"sync"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/realtime"
)

// localBus is a single-process Bus used when no Redis address is configured
// (development, tests). Messages published are forwarded in-process only.
type localBus struct {
	log *logger.Logger

	mu       sync.RWMutex
	onMsg    func(m realtime.SSEMessage)
	closed   bool
	messages chan realtime.SSEMessage
}

func NewLocalBus(log *logger.Logger) Bus {
	return &localBus{
		log:      log.With("service", "LocalBus"),
		messages: make(chan realtime.SSEMessage, 64),
	}
}

func (b *localBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	select {
	case b.messages <- msg:
	default:
		b.log.Warn("Dropping realtime message; local bus buffer full", "channel", msg.Channel)
	}
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-b.messages:
				if !ok {
					return
				}
				onMsg(m)
			}
		}
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.messages)
	}
	return nil
}
