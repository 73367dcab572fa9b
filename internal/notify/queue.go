package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"observation-tracker/internal/worker"
)

// Queue feeds intents to the worker pool. Delivery failures are logged and
// dropped; they never retry and never touch the committed write that
// triggered them.
type Queue struct {
	pool       *worker.WorkerPool
	dispatcher Dispatcher
}

func NewQueue(pool *worker.WorkerPool, dispatcher Dispatcher) *Queue {
	return &Queue{pool: pool, dispatcher: dispatcher}
}

func (q *Queue) Enqueue(intent Intent) {
	q.pool.Submit(func(ctx context.Context) error {
		if err := q.dispatcher.Dispatch(ctx, intent); err != nil {
			log.Error().
				Err(err).
				Str("to", intent.To).
				Str("subject", intent.Subject).
				Msg("Notification dispatch failed")
		}
		return nil
	})
}
