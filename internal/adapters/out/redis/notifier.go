package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes fulfillment events over Redis Pub/Sub. Each event name
// is a channel; the payload travels as JSON. Delivery is fire-and-forget:
// subscribers that are offline simply miss the message.
type Notifier struct {
	client *redis.Client
}

// NewNotifier creates a Pub/Sub notifier over the given Redis client.
func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

// Emit publishes one event. The payload is marshaled to JSON before
// publishing so subscribers in any language can decode it.
func (n *Notifier) Emit(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return n.client.Publish(ctx, event, body).Err()
}
