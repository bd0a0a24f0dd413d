package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue keeps notifications in memory and records status transitions.
type fakeQueue struct {
	pending    []Notification
	marked     map[string]string
	pendingErr error
}

func newFakeQueue(pending ...Notification) *fakeQueue {
	return &fakeQueue{pending: pending, marked: make(map[string]string)}
}

func (q *fakeQueue) Pending(_ context.Context, limit int) ([]Notification, error) {
	if q.pendingErr != nil {
		return nil, q.pendingErr
	}
	var out []Notification
	for _, n := range q.pending {
		if q.marked[n.ID] != "" {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (q *fakeQueue) Mark(_ context.Context, id, status string) error {
	q.marked[id] = status
	return nil
}

// fakeMailer records send attempts and optionally fails them.
type fakeMailer struct {
	sent    []string
	sendErr error
}

func (m *fakeMailer) Send(_ context.Context, to string) error {
	m.sent = append(m.sent, to)
	return m.sendErr
}

func TestWorkerSendsAndMarks(t *testing.T) {
	queue := newFakeQueue(
		Notification{ID: "1", BlobName: "a.docx", UserEmail: "a@example.com"},
		Notification{ID: "2", BlobName: "b.docx", UserEmail: "b@example.com"},
	)
	mailer := &fakeMailer{}
	w := NewWorker(queue, mailer, time.Minute)

	w.drain(context.Background())

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.sent)
	assert.Equal(t, StatusSent, queue.marked["1"])
	assert.Equal(t, StatusSent, queue.marked["2"])
}

func TestWorkerSkipsEmptyRecipient(t *testing.T) {
	queue := newFakeQueue(
		Notification{ID: "1", BlobName: "a.docx", UserEmail: ""},
		Notification{ID: "2", BlobName: "b.docx", UserEmail: "b@example.com"},
	)
	mailer := &fakeMailer{}
	w := NewWorker(queue, mailer, time.Minute)

	w.drain(context.Background())

	// The event without a recipient is skipped without an error; the rest
	// of the batch is still delivered.
	assert.Equal(t, []string{"b@example.com"}, mailer.sent)
	assert.Equal(t, StatusSkipped, queue.marked["1"])
	assert.Equal(t, StatusSent, queue.marked["2"])
}

func TestWorkerNoRetryOnDeliveryFailure(t *testing.T) {
	queue := newFakeQueue(
		Notification{ID: "1", BlobName: "a.docx", UserEmail: "a@example.com"},
	)
	mailer := &fakeMailer{sendErr: errors.New("sendgrid responded 503")}
	w := NewWorker(queue, mailer, time.Minute)

	w.drain(context.Background())
	w.drain(context.Background())

	// Exactly one attempt: the failed notification is marked and never retried.
	assert.Equal(t, []string{"a@example.com"}, mailer.sent)
	assert.Equal(t, StatusFailed, queue.marked["1"])
}

func TestWorkerDrainsFullBatches(t *testing.T) {
	queue := newFakeQueue(
		Notification{ID: "1", BlobName: "a.docx", UserEmail: "a@example.com"},
		Notification{ID: "2", BlobName: "b.docx", UserEmail: "b@example.com"},
		Notification{ID: "3", BlobName: "c.docx", UserEmail: "c@example.com"},
	)
	mailer := &fakeMailer{}
	w := NewWorker(queue, mailer, time.Minute)
	w.batch = 2

	w.drain(context.Background())

	assert.Len(t, mailer.sent, 3)
	for _, id := range []string{"1", "2", "3"} {
		assert.Equal(t, StatusSent, queue.marked[id])
	}
}

func TestWorkerStopsOnQueueError(t *testing.T) {
	queue := newFakeQueue()
	queue.pendingErr = errors.New("connection refused")
	mailer := &fakeMailer{}
	w := NewWorker(queue, mailer, time.Minute)

	w.drain(context.Background())

	assert.Empty(t, mailer.sent)
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	queue := newFakeQueue()
	mailer := &fakeMailer{}
	w := NewWorker(queue, mailer, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "worker did not stop after context cancellation")
	}
}
