package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/location-map/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Redis struct {
	client     *redis.Client
	subscriber *redis.Client
	logger     *zap.Logger
}

func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Отдельный пул под XREAD BLOCK: долгие чтения не должны мешать XADD
	subscriber := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.SubscriberPoolSize,

		// XREAD BLOCK должен прерываться при отмене контекста ленты
		ContextTimeoutEnabled: true,
	})

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("subscriber_pool_size", cfg.SubscriberPoolSize),
	)

	return &Redis{
		client:     client,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return errors.Join(r.subscriber.Close(), r.client.Close())
}

func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

// Subscriber - клиент для блокирующих чтений стримов
func (r *Redis) Subscriber() *redis.Client {
	return r.subscriber
}
