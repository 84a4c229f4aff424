package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jackyeh168/sales_engine/src/internal/domain/shared"
	"github.com/jackyeh168/sales_engine/src/internal/platform/config"
	"github.com/jackyeh168/sales_engine/src/internal/platform/logger"
)

// RedisEventPublisher publishes JSON envelopes on a Redis pub/sub channel.
type RedisEventPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisEventPublisher connects to cfg.Addr and verifies the connection.
func NewRedisEventPublisher(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisEventPublisher, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisEventPublisherWithClient(rdb, cfg.Channel, log), nil
}

// NewRedisEventPublisherWithClient wraps an existing client.
func NewRedisEventPublisherWithClient(rdb *goredis.Client, channel string, log *logger.Logger) *RedisEventPublisher {
	if strings.TrimSpace(channel) == "" {
		channel = "sales.events"
	}
	return &RedisEventPublisher{
		log:     log.With("component", "RedisEventPublisher", "channel", channel),
		rdb:     rdb,
		channel: channel,
	}
}

var _ shared.EventPublisher = (*RedisEventPublisher)(nil)

// Publish sends the JSON envelope of event to the channel.
func (p *RedisEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis event publisher not initialized")
	}
	raw, err := Encode(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

// PublishBatch sends all events in one pipeline, preserving order.
func (p *RedisEventPublisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis event publisher not initialized")
	}
	if len(events) == 0 {
		return nil
	}

	payloads := make([][]byte, 0, len(events))
	for _, event := range events {
		raw, err := Encode(event)
		if err != nil {
			return err
		}
		payloads = append(payloads, raw)
	}

	_, err := p.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, raw := range payloads {
			pipe.Publish(ctx, p.channel, raw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis publish batch: %w", err)
	}
	p.log.Debug("published events", "count", len(events))
	return nil
}

// Close releases the Redis client.
func (p *RedisEventPublisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}
