package reservation

import (
	"context"
	"time"

	"hostelbooking/internal/booking"
	"hostelbooking/internal/events"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/payment"
)

// Store is the storage boundary of the service. Writes only happen through a
// Tx handed out by WithTx; a Tx must not be used after fn returns.
type Store interface {
	// WithTx runs fn in one atomic unit. If fn returns an error none of its
	// writes are visible to any later read.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	ListBookings(ctx context.Context, f booking.Filter, p listing.Params) ([]booking.Booking, int64, error)

	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	ListPaymentsByBooking(ctx context.Context, bookingID string) ([]payment.Payment, error)
	ListPayments(ctx context.Context, f payment.Filter, p listing.Params) ([]payment.Payment, int64, error)

	ListEvents(ctx context.Context, bookingID string) ([]events.Event, error)
}

// Tx carries the writes of one atomic unit.
type Tx interface {
	GetBookingForUpdate(ctx context.Context, id string) (*booking.Booking, error)
	BookingExists(ctx context.Context, id string) (bool, error)
	InsertBooking(ctx context.Context, b *booking.Booking) error
	UpdateBooking(ctx context.Context, b *booking.Booking) error
	SetBookingPayment(ctx context.Context, bookingID string, paymentID *string, at time.Time) error
	DeleteBooking(ctx context.Context, id string) error

	GetPaymentForUpdate(ctx context.Context, id string) (*payment.Payment, error)
	InsertPayment(ctx context.Context, p *payment.Payment) error
	UpdatePayment(ctx context.Context, p *payment.Payment) error
	DeletePayment(ctx context.Context, id string) error

	RecordEvent(ctx context.Context, e *events.Event) error
}
