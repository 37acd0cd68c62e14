package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/pkg/config"
)

// NewRedis returns a connected client. Callers check cfg.Enabled first.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// PubSub fans messages out through a single Redis channel so every API instance sees them.
type PubSub struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewPubSub wraps client for the given channel.
func NewPubSub(client *redis.Client, channel string, logger *zap.Logger) *PubSub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PubSub{client: client, channel: channel, logger: logger}
}

// Publish sends payload on the channel.
func (p *PubSub) Publish(ctx context.Context, payload []byte) error {
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Subscribe delivers every message to fn until ctx is cancelled.
func (p *PubSub) Subscribe(ctx context.Context, fn func([]byte)) error {
	sub := p.client.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe to %s: %w", p.channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					p.logger.Warn("redis subscription closed", zap.String("channel", p.channel))
					return
				}
				fn([]byte(msg.Payload))
			}
		}
	}()
	return nil
}
