package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glabrego/vidfeed/internal/engagement"
)

const (
	EventPending = "pending"
	EventSent    = "sent"
)

// PendingEvent is an outbox row still waiting to be posted.
type PendingEvent struct {
	engagement.Event
	Attempts  int
	LastError string
}

// AppendEvents writes events to the outbox. Re-appending a known id is a
// no-op.
func (r *Repository) AppendEvents(ctx context.Context, events []engagement.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO events (id, kind, video_id, title, author, occurred_at, status)
VALUES (?, ?, ?, ?, ?, ?, 'pending')
ON CONFLICT(id) DO NOTHING
`)
	if err != nil {
		return fmt.Errorf("prepare event statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		_, err := stmt.ExecContext(ctx, ev.ID, string(ev.Kind), ev.VideoID, ev.Title, ev.Author, ev.At.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("append event %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// PendingEvents returns the oldest unsent events.
func (r *Repository) PendingEvents(ctx context.Context, limit int) ([]PendingEvent, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, kind, video_id, title, author, occurred_at, attempts, last_error
FROM events
WHERE status = 'pending'
ORDER BY occurred_at, id
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending events: %w", err)
	}
	defer rows.Close()

	var out []PendingEvent
	for rows.Next() {
		var ev PendingEvent
		var kind, occurredAt string
		var title, author, lastError sql.NullString
		if err := rows.Scan(&ev.ID, &kind, &ev.VideoID, &title, &author, &occurredAt, &ev.Attempts, &lastError); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = engagement.Kind(kind)
		ev.Title = title.String
		ev.Author = author.String
		ev.LastError = lastError.String
		ev.At, err = time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parse event occurred_at %q: %w", occurredAt, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

func (r *Repository) MarkEventSent(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE events SET status = 'sent', sent_at = ?, attempts = attempts + 1, last_error = NULL
WHERE id = ?
`, at.UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("mark event %s sent: %w", id, err)
	}
	return nil
}

func (r *Repository) MarkEventFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE events SET attempts = attempts + 1, last_error = ?
WHERE id = ?
`, msg, id)
	if err != nil {
		return fmt.Errorf("mark event %s failed: %w", id, err)
	}
	return nil
}

// CountEvents returns how many outbox rows have the given status.
func (r *Repository) CountEvents(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = ?`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s events: %w", status, err)
	}
	return n, nil
}

// PruneSentEvents deletes sent rows older than before.
func (r *Repository) PruneSentEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE status = 'sent' AND sent_at < ?`, before.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune sent events: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
