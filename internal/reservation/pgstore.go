package reservation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hostelbooking/internal/booking"
	"hostelbooking/internal/events"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/payment"
	"hostelbooking/pkg/db"
)

// PGStore implements Store on Postgres.
type PGStore struct {
	pool     *pgxpool.Pool
	bookings *booking.Repository
	payments *payment.Repository
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{
		pool:     pool,
		bookings: booking.NewRepository(pool),
		payments: payment.NewRepository(pool),
	}
}

func (s *PGStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(pgTx{tx: tx})
	})
}

func (s *PGStore) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *PGStore) ListBookings(ctx context.Context, f booking.Filter, p listing.Params) ([]booking.Booking, int64, error) {
	return s.bookings.List(ctx, f, p)
}

func (s *PGStore) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func (s *PGStore) ListPaymentsByBooking(ctx context.Context, bookingID string) ([]payment.Payment, error) {
	return s.payments.ListByBooking(ctx, bookingID)
}

func (s *PGStore) ListPayments(ctx context.Context, f payment.Filter, p listing.Params) ([]payment.Payment, int64, error) {
	return s.payments.List(ctx, f, p)
}

func (s *PGStore) ListEvents(ctx context.Context, bookingID string) ([]events.Event, error) {
	return events.ListByBooking(ctx, s.pool, bookingID)
}

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) GetBookingForUpdate(ctx context.Context, id string) (*booking.Booking, error) {
	return booking.GetForUpdate(ctx, t.tx, id)
}

func (t pgTx) BookingExists(ctx context.Context, id string) (bool, error) {
	return booking.Exists(ctx, t.tx, id)
}

func (t pgTx) InsertBooking(ctx context.Context, b *booking.Booking) error {
	return booking.Insert(ctx, t.tx, b)
}

func (t pgTx) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	return booking.Update(ctx, t.tx, b)
}

func (t pgTx) SetBookingPayment(ctx context.Context, bookingID string, paymentID *string, at time.Time) error {
	return booking.SetPayment(ctx, t.tx, bookingID, paymentID, at)
}

// DeleteBooking relies on payments.booking_id ON DELETE CASCADE.
func (t pgTx) DeleteBooking(ctx context.Context, id string) error {
	return booking.Delete(ctx, t.tx, id)
}

func (t pgTx) GetPaymentForUpdate(ctx context.Context, id string) (*payment.Payment, error) {
	return payment.GetForUpdate(ctx, t.tx, id)
}

func (t pgTx) InsertPayment(ctx context.Context, p *payment.Payment) error {
	return payment.Insert(ctx, t.tx, p)
}

func (t pgTx) UpdatePayment(ctx context.Context, p *payment.Payment) error {
	return payment.Update(ctx, t.tx, p)
}

// DeletePayment relies on bookings.payment_id ON DELETE SET NULL.
func (t pgTx) DeletePayment(ctx context.Context, id string) error {
	return payment.Delete(ctx, t.tx, id)
}

func (t pgTx) RecordEvent(ctx context.Context, e *events.Event) error {
	return events.Insert(ctx, t.tx, e)
}
