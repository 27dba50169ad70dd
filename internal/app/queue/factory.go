package queue

import (
	"fmt"
	"log/slog"

	"reelscribe/internal/config"
)

// New selects a queue backend from configuration.
func New(cfg config.QueueConfig, logger *slog.Logger) (Queue, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisQueue(cfg.RedisURL, logger)
	case "rabbitmq":
		return NewRabbitQueue(cfg.AMQPURL, logger)
	default:
		return nil, fmt.Errorf("unknown queue backend %q (want redis or rabbitmq)", cfg.Backend)
	}
}
