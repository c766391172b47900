package bus

import (
	"context"

	"github.com/glowist/glowist-backend/internal/realtime"
)

// Bus carries realtime messages between app instances. The forwarder delivers
// every message published on any instance, including this one.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
