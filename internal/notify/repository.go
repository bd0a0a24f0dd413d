// Package notify records upload events and delivers confirmation emails.
// The upload path inserts an event row; a separate worker process consumes
// it. Nothing else couples the two paths.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Notification is one upload event awaiting (or past) email delivery.
type Notification struct {
	ID        string
	BlobName  string
	UserEmail string
	Status    string
	CreatedAt time.Time
	SentAt    *time.Time
}

// Repository persists notifications in Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Enqueue records a pending notification for a freshly uploaded blob.
// It satisfies the blob.Events interface.
func (r *Repository) Enqueue(ctx context.Context, blobName, userEmail string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (blob_name, user_email) VALUES ($1, $2)`,
		blobName, userEmail,
	)
	if err != nil {
		return fmt.Errorf("enqueue notification for %q: %w", blobName, err)
	}
	return nil
}

// Pending returns up to limit unprocessed notifications, oldest first.
// Rows stay pending until marked, so a crash before Mark re-delivers:
// at-least-once is the contract.
func (r *Repository) Pending(ctx context.Context, limit int) ([]Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, blob_name, user_email, status, created_at, sent_at
		 FROM notifications
		 WHERE status = $1
		 ORDER BY created_at
		 LIMIT $2`,
		StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending notifications: %w", err)
	}
	defer rows.Close()

	var pending []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.BlobName, &n.UserEmail, &n.Status, &n.CreatedAt, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		pending = append(pending, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending notifications: %w", err)
	}
	return pending, nil
}

// Mark sets the notification's final status. Sent notifications also get a
// delivery timestamp.
func (r *Repository) Mark(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications
		 SET status = $2,
		     sent_at = CASE WHEN $2 = 'sent' THEN now() ELSE sent_at END
		 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("mark notification %s as %s: %w", id, status, err)
	}
	return nil
}
