package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventPublisher is implemented by Publisher and NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type Publisher struct {
	client *redis.Client
	maxLen int64
}

// NewPublisher appends events to Redis streams. Streams are trimmed to roughly
// maxLen entries; pass 0 to keep everything.
func NewPublisher(client *redis.Client, maxLen int64) *Publisher {
	return &Publisher{client: client, maxLen: maxLen}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event": eventJSON,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher drops events. Used when no Redis is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
