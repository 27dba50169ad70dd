package queue

import (
	"context"
	"fmt"
	"log/slog"

	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitQueue is the RabbitMQ backend. Queues are durable and consumed with
// a prefetch of 1; messages are acked after the handler returns, success or
// not, to preserve at-most-once semantics across backends.
type RabbitQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

func NewRabbitQueue(amqpURL string, logger *slog.Logger) (*RabbitQueue, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &RabbitQueue{conn: conn, channel: ch, logger: logger}, nil
}

func (q *RabbitQueue) declare(queueName string) error {
	_, err := q.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	return nil
}

func (q *RabbitQueue) Publish(ctx context.Context, queueName string, payload interface{}) error {
	if err := q.declare(queueName); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode queue message: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (q *RabbitQueue) Consume(ctx context.Context, queueName string, handler Handler) error {
	if err := q.declare(queueName); err != nil {
		return err
	}

	msgs, err := q.channel.Consume(
		queueName,
		"",    // consumer tag
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", queueName, err)
	}

	q.logger.Info("consuming rabbitmq queue", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				q.logger.Warn("rabbitmq channel closed", "queue", queueName)
				return nil
			}

			if err := handler(ctx, msg.Body); err != nil {
				q.logger.Error("message handler failed", "queue", queueName, "error", err)
			}
			// acked regardless of handler outcome; failures are recorded
			// on the job, not redelivered
			if err := msg.Ack(false); err != nil {
				q.logger.Error("failed to ack message", "queue", queueName, "error", err)
			}
		}
	}
}

func (q *RabbitQueue) Close() error {
	if err := q.channel.Close(); err != nil {
		q.conn.Close()
		return err
	}
	return q.conn.Close()
}
