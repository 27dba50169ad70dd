// Package queue provides the job queue boundary with Redis and RabbitMQ
// backends. Delivery is at-most-once: a message is acknowledged (or popped)
// before or regardless of handler success, and failed jobs are not
// redelivered.
package queue

import "context"

// JobMessage enqueues one audio processing job.
type JobMessage struct {
	JobID string `json:"job_id"`
	URL   string `json:"url"`
}

// RecipeMessage enqueues one recipe extraction job.
type RecipeMessage struct {
	RecipeID string `json:"recipe_id"`
	URL      string `json:"url"`
	UserID   string `json:"user_id"`
}

// Handler processes one raw queue message. A returned error is logged by the
// consumer; it never stops the consume loop.
type Handler func(ctx context.Context, body []byte) error

// Queue is the message transport capability.
type Queue interface {
	// Publish enqueues a JSON payload on the named queue.
	Publish(ctx context.Context, queueName string, payload interface{}) error

	// Consume blocks, delivering messages from the named queue to handler
	// until ctx is cancelled.
	Consume(ctx context.Context, queueName string, handler Handler) error

	Close() error
}
