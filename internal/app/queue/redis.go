package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a simple list-backed queue: LPUSH to enqueue, BRPOP to
// consume. Popped messages are gone whether or not the handler succeeds.
type RedisQueue struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisQueue(redisURL string, logger *slog.Logger) (*RedisQueue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &RedisQueue{client: client, logger: logger}, nil
}

func (q *RedisQueue) Publish(ctx context.Context, queueName string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode queue message: %w", err)
	}

	if err := q.client.LPush(ctx, queueName, body).Err(); err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	return nil
}

func (q *RedisQueue) Consume(ctx context.Context, queueName string, handler Handler) error {
	q.logger.Info("consuming redis queue", "queue", queueName)

	for {
		// finite timeout so ctx cancellation is noticed between pops
		result, err := q.client.BRPop(ctx, 5*time.Second, queueName).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			q.logger.Error("queue pop failed", "queue", queueName, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		// BRPop returns [key, value]
		if len(result) != 2 {
			continue
		}

		if err := handler(ctx, []byte(result[1])); err != nil {
			q.logger.Error("message handler failed", "queue", queueName, "error", err)
		}
	}
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
