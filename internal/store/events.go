package store

import (
	"context"
	"time"
)

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	VisitorID string
	Metadata  string
	CreatedAt time.Time
}

const createEvent = `
INSERT INTO events (level, category, message, visitor_id, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, level, category, message, visitor_id, metadata, created_at
`

// CreateEventParams are the columns of a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	VisitorID string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event and returns the stored row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.VisitorID, arg.Metadata, arg.CreatedAt.UTC())
	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.VisitorID, &e.Metadata, &e.CreatedAt)
	return e, err
}

const listActivity = `
SELECT id, level, category, message, visitor_id, metadata, created_at
FROM events
WHERE level IN ('warning', 'error') OR category = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`

// ListActivityParams pages through warnings, errors and the audit category.
type ListActivityParams struct {
	AuditCategory string
	Limit         int64
	Offset        int64
}

// ListActivity returns warnings, errors and audit entries, newest first.
func (q *Queries) ListActivity(ctx context.Context, arg ListActivityParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listActivity, arg.AuditCategory, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.VisitorID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countActivity = `
SELECT COUNT(*) FROM events
WHERE level IN ('warning', 'error') OR category = ?
`

// CountActivity returns how many rows ListActivity can page through.
func (q *Queries) CountActivity(ctx context.Context, auditCategory string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countActivity, auditCategory).Scan(&n)
	return n, err
}

const countEvents = `SELECT COUNT(*) FROM events`

// CountEvents returns the number of stored events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEvents).Scan(&n)
	return n, err
}

const deleteEventsBefore = `DELETE FROM events WHERE created_at < ?`

// DeleteEventsBefore removes events older than cutoff and reports how many.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
