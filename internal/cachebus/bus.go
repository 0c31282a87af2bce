package cachebus

import (
	"context"
	"encoding/json"

	"kalkulai-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channel = "catalog_cache_events"

// Bus fans catalog cache invalidations out to the other instances over a
// redis pub/sub channel. Each instance flushes its local snapshot and result
// caches when a peer publishes an invalidation.
type Bus struct {
	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

type invalidationMessage struct {
	InstanceID string `json:"instance_id"`
	Reason     string `json:"reason"`
}

func NewBus(rdb *redis.Client, log logger.ILogger) *Bus {
	return &Bus{
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (b *Bus) PublishInvalidation(ctx context.Context, reason string) error {
	if b.rdb == nil {
		return nil
	}
	payload, _ := json.Marshal(invalidationMessage{
		InstanceID: b.instanceID,
		Reason:     reason,
	})
	return b.rdb.Publish(ctx, channel, payload).Err()
}

// Listen blocks on the redis subscription and calls onInvalidate for every
// invalidation published by another instance. Messages this instance
// published itself are skipped: the local caches were already flushed at
// write time. Run it in its own goroutine.
func (b *Bus) Listen(ctx context.Context, onInvalidate func()) {
	if b.rdb == nil {
		return
	}

	pubsub := b.rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload invalidationMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			b.logger.Warn("cachebus", "failed to parse invalidation message", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		if payload.InstanceID == b.instanceID {
			continue
		}

		b.logger.Info("cachebus", "cache invalidation received", map[string]interface{}{
			"reason": payload.Reason,
		})
		onInvalidate()
	}
}
