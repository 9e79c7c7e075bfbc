package notifier

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/processor"
	"github.com/vidforge/vidforge/pkg/logger"
)

const DefaultChannelPrefix = "notify:user:"

// RedisNotifier pushes job events onto a per-owner redis pub/sub channel.
// Delivery is fire and forget: publish errors are logged and swallowed, and a
// channel with no subscriber is not an error. Per-video ordering is preserved
// because each job body publishes its events sequentially.
type RedisNotifier struct {
	client *redis.Client
	prefix string
	logger logger.Logger
}

func NewRedisNotifier(client *redis.Client, prefix string, log logger.Logger) *RedisNotifier {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisNotifier{client: client, prefix: prefix, logger: log}
}

// ChannelFor names the pub/sub channel carrying one owner's events.
func (n *RedisNotifier) ChannelFor(ownerID uuid.UUID) string {
	return n.prefix + ownerID.String()
}

type envelope struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

func (n *RedisNotifier) EmitProgress(ctx context.Context, ownerID uuid.UUID, payload processor.ProgressPayload) {
	n.publish(ctx, ownerID, envelope{Kind: "progress", Payload: payload})
}

func (n *RedisNotifier) EmitStatus(ctx context.Context, ownerID uuid.UUID, payload processor.StatusPayload) {
	n.publish(ctx, ownerID, envelope{Kind: "status", Payload: payload})
}

func (n *RedisNotifier) EmitError(ctx context.Context, ownerID uuid.UUID, payload processor.ErrorPayload) {
	n.publish(ctx, ownerID, envelope{Kind: "error", Payload: payload})
}

func (n *RedisNotifier) publish(ctx context.Context, ownerID uuid.UUID, env envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		n.logger.Errorf("notifier: failed to marshal %s event for user %s: %v", env.Kind, ownerID, err)
		return
	}
	if err := n.client.Publish(ctx, n.ChannelFor(ownerID), data).Err(); err != nil {
		n.logger.Errorf("notifier: failed to publish %s event for user %s: %v", env.Kind, ownerID, err)
	}
}
