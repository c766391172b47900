package bus

import (
	"context"
	"testing"
	"time"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/realtime"
)

func TestLocalBusForwardsPublishedMessages(t *testing.T) {
	b := NewLocalBus(logger.NewNop())
	defer b.Close()

	received := make(chan realtime.SSEMessage, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := b.StartForwarder(ctx, func(m realtime.SSEMessage) { received <- m }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	msg := realtime.SSEMessage{
		Channel: realtime.UserChannel("u1"),
		Event:   realtime.SSEEventShelfUpdated,
	}
	if err := b.Publish(ctx, msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-received:
		if got.Channel != msg.Channel || got.Event != msg.Event {
			t.Fatalf("forwarded %+v, want %+v", got, msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message was not forwarded")
	}
}

func TestLocalBusPublishAfterClose(t *testing.T) {
	b := NewLocalBus(logger.NewNop())
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Publishing on a closed bus is a quiet no-op, not a panic.
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "user:u1"}); err != nil {
		t.Fatalf("Publish after close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
