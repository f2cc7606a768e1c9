// Package events is the booking activity timeline. Events are written in the
// same transaction as the change they describe, so a rolled back change
// leaves no trace.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Type string

const (
	BookingCreated  Type = "booking.created"
	BookingUpdated  Type = "booking.updated"
	PaymentRecorded Type = "payment.recorded"
	PaymentUpdated  Type = "payment.updated"
	PaymentDeleted  Type = "payment.deleted"
)

type Event struct {
	ID         string         `json:"id"`
	BookingID  string         `json:"bookingId"`
	EventType  Type           `json:"eventType"`
	Summary    string         `json:"summary"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

func Insert(ctx context.Context, tx pgx.Tx, e *Event) error {
	var s *string
	if len(e.Data) > 0 {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return fmt.Errorf("event data: %w", err)
		}
		str := string(b)
		s = &str
	}
	const q = `
INSERT INTO booking_events (id, booking_id, event_type, summary, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := tx.Exec(ctx, q, e.ID, e.BookingID, string(e.EventType), e.Summary, e.OccurredAt, s)
	return err
}

func ListByBooking(ctx context.Context, db *pgxpool.Pool, bookingID string) ([]Event, error) {
	const q = `
SELECT id, booking_id, event_type, summary, occurred_at, COALESCE(data, '{}'::jsonb)
FROM booking_events
WHERE booking_id = $1
ORDER BY occurred_at ASC, created_at ASC
`
	rows, err := db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		var typ string
		if err := rows.Scan(&e.ID, &e.BookingID, &typ, &e.Summary, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		e.EventType = Type(typ)
		if len(e.Data) == 0 {
			e.Data = nil
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
