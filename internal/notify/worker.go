package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultBatchSize caps how many notifications one drain pass fetches at once.
const defaultBatchSize = 50

// Queue is the slice of the repository the worker needs.
type Queue interface {
	Pending(ctx context.Context, limit int) ([]Notification, error)
	Mark(ctx context.Context, id, status string) error
}

// Worker polls the notification queue and emails uploaders. Delivery is
// at-least-once: a crash between send and mark re-sends the confirmation,
// and duplicate emails are tolerated.
type Worker struct {
	queue    Queue
	mailer   Mailer
	interval time.Duration
	batch    int
}

// NewWorker creates a Worker polling at the given interval.
func NewWorker(queue Queue, mailer Mailer, interval time.Duration) *Worker {
	return &Worker{
		queue:    queue,
		mailer:   mailer,
		interval: interval,
		batch:    defaultBatchSize,
	}
}

// Run drains the queue once immediately, then on every tick until ctx is
// cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// drain processes pending notifications in batches until the queue is empty
// or a queue error occurs.
func (w *Worker) drain(ctx context.Context) {
	for {
		batch, err := w.queue.Pending(ctx, w.batch)
		if err != nil {
			log.Error().Err(err).Msg("fetching pending notifications failed")
			return
		}
		if len(batch) == 0 {
			return
		}

		for _, n := range batch {
			w.process(ctx, n)
		}

		if len(batch) < w.batch {
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, n Notification) {
	if n.UserEmail == "" {
		// No recipient on the upload event; nothing to send.
		log.Warn().Str("blob", n.BlobName).Msg("upload event has no user email, skipping")
		w.mark(ctx, n.ID, StatusSkipped)
		return
	}

	if err := w.mailer.Send(ctx, n.UserEmail); err != nil {
		// No in-process retry: delivery retries belong to the provider.
		log.Error().Err(err).Str("blob", n.BlobName).Str("email", n.UserEmail).
			Msg("confirmation email delivery failed")
		w.mark(ctx, n.ID, StatusFailed)
		return
	}

	log.Info().Str("blob", n.BlobName).Str("email", n.UserEmail).Msg("confirmation email sent")
	w.mark(ctx, n.ID, StatusSent)
}

func (w *Worker) mark(ctx context.Context, id, status string) {
	if err := w.queue.Mark(ctx, id, status); err != nil {
		// The row stays pending and is retried next tick; the duplicate send
		// that may follow is within the delivery contract.
		log.Error().Err(err).Str("id", id).Str("status", status).
			Msg("marking notification failed")
	}
}
