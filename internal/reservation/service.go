package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hostelbooking/internal/apperror"
	"hostelbooking/internal/booking"
	"hostelbooking/internal/events"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/payment"
	"hostelbooking/internal/reference"
)

type Service struct {
	Store Store
	Refs  reference.Set
	Log   *logrus.Logger

	Now   func() time.Time
	NewID func() string
}

func NewService(store Store, refs reference.Set, log *logrus.Logger) *Service {
	return &Service{
		Store: store,
		Refs:  refs,
		Log:   log,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// BookingDetail is a booking with its linked payment expanded.
type BookingDetail struct {
	booking.Booking
	Payment *payment.Payment `json:"payment,omitempty"`
}

// BookingPayments is every payment referencing a booking, plus the totals fold.
type BookingPayments struct {
	Payments []payment.Summary `json:"payments"`
	Totals   payment.Totals    `json:"totals"`
}

type Page[T any] struct {
	Items []T          `json:"items"`
	Meta  listing.Meta `json:"meta"`
}

// SaveBooking validates and persists b: insert when b.ID is empty, full
// update otherwise. Reference, payment link and creation time of an existing
// booking are kept when the caller omits them.
func (s *Service) SaveBooking(ctx context.Context, b *booking.Booking) error {
	now := s.now()

	if b.ID == "" {
		candidate := *b
		candidate.ID = s.newID()
		if err := candidate.Prepare(now, s.Refs.Booking); err != nil {
			return err
		}
		err := s.inTx(ctx, "save booking", logrus.Fields{"booking_id": candidate.ID}, func(tx Tx) error {
			if err := tx.InsertBooking(ctx, &candidate); err != nil {
				return err
			}
			return s.record(ctx, tx, candidate.ID, events.BookingCreated, "booking "+candidate.Reference+" created", now, bookingData(&candidate))
		})
		if err != nil {
			return err
		}
		*b = candidate
		return nil
	}

	var saved booking.Booking
	err := s.inTx(ctx, "save booking", logrus.Fields{"booking_id": b.ID}, func(tx Tx) error {
		existing, err := tx.GetBookingForUpdate(ctx, b.ID)
		if err != nil {
			return err
		}
		candidate := *b
		if candidate.Reference == "" {
			candidate.Reference = existing.Reference
		}
		if candidate.PaymentID == nil {
			candidate.PaymentID = existing.PaymentID
		}
		candidate.CreatedAt = existing.CreatedAt
		if err := candidate.Prepare(now, s.Refs.Booking); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, &candidate); err != nil {
			return err
		}
		saved = candidate
		return s.record(ctx, tx, candidate.ID, events.BookingUpdated, "booking "+candidate.Reference+" updated", now, bookingData(&candidate))
	})
	if err != nil {
		return err
	}
	*b = saved
	return nil
}

// SavePayment validates and persists p. The owning booking must exist. On
// update the booking link, reference, creation time and an already stored
// paidAt are kept.
func (s *Service) SavePayment(ctx context.Context, p *payment.Payment) error {
	now := s.now()

	if p.ID == "" {
		candidate := *p
		candidate.ID = s.newID()
		if err := candidate.Prepare(now, s.Refs.Payment); err != nil {
			return err
		}
		err := s.inTx(ctx, "save payment", logrus.Fields{"payment_id": candidate.ID, "booking_id": candidate.BookingID}, func(tx Tx) error {
			ok, err := tx.BookingExists(ctx, candidate.BookingID)
			if err != nil {
				return err
			}
			if !ok {
				return &apperror.ReferentialError{Entity: "booking", ID: candidate.BookingID}
			}
			if err := tx.InsertPayment(ctx, &candidate); err != nil {
				return err
			}
			return s.record(ctx, tx, candidate.BookingID, events.PaymentRecorded, "payment "+candidate.Reference+" recorded", now, paymentData(&candidate))
		})
		if err != nil {
			return err
		}
		*p = candidate
		return nil
	}

	var saved payment.Payment
	err := s.inTx(ctx, "save payment", logrus.Fields{"payment_id": p.ID}, func(tx Tx) error {
		existing, err := tx.GetPaymentForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		candidate := *p
		candidate.BookingID = existing.BookingID
		candidate.CreatedAt = existing.CreatedAt
		if candidate.Reference == "" {
			candidate.Reference = existing.Reference
		}
		if existing.PaidAt != nil {
			candidate.PaidAt = existing.PaidAt
		}
		if err := candidate.Prepare(now, s.Refs.Payment); err != nil {
			return err
		}
		if err := tx.UpdatePayment(ctx, &candidate); err != nil {
			return err
		}
		saved = candidate
		return s.record(ctx, tx, candidate.BookingID, events.PaymentUpdated, "payment "+candidate.Reference+" updated", now, paymentData(&candidate))
	})
	if err != nil {
		return err
	}
	*p = saved
	return nil
}

// CreatePayment records a standalone payment against an existing booking.
// It does not touch the booking's primary payment link.
func (s *Service) CreatePayment(ctx context.Context, p payment.Payment) (*payment.Payment, error) {
	p.ID = ""
	p.Reference = ""
	p.PaidAt = nil
	if err := s.SavePayment(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) UpdateBooking(ctx context.Context, id string, patch booking.Patch) (*BookingDetail, error) {
	now := s.now()
	err := s.inTx(ctx, "update booking", logrus.Fields{"booking_id": id}, func(tx Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(b)
		if err := b.Prepare(now, s.Refs.Booking); err != nil {
			return err
		}
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		return s.record(ctx, tx, b.ID, events.BookingUpdated, "booking "+b.Reference+" updated", now, bookingData(b))
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(ctx, id)
}

func (s *Service) UpdatePayment(ctx context.Context, id string, patch payment.Patch) (*payment.Payment, error) {
	now := s.now()
	var out *payment.Payment
	err := s.inTx(ctx, "update payment", logrus.Fields{"payment_id": id}, func(tx Tx) error {
		p, err := tx.GetPaymentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(p)
		if err := p.Prepare(now, s.Refs.Payment); err != nil {
			return err
		}
		if err := tx.UpdatePayment(ctx, p); err != nil {
			return err
		}
		out = p
		return s.record(ctx, tx, p.BookingID, events.PaymentUpdated, "payment "+p.Reference+" updated", now, paymentData(p))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetBooking(ctx context.Context, id string) (*BookingDetail, error) {
	b, err := s.Store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &BookingDetail{Booking: *b}
	if b.PaymentID != nil {
		p, err := s.Store.GetPayment(ctx, *b.PaymentID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		detail.Payment = p
	}
	return detail, nil
}

func (s *Service) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	return s.Store.GetPayment(ctx, id)
}

// DeleteBooking removes the booking together with every payment referencing it.
func (s *Service) DeleteBooking(ctx context.Context, id string) error {
	return s.inTx(ctx, "delete booking", logrus.Fields{"booking_id": id}, func(tx Tx) error {
		return tx.DeleteBooking(ctx, id)
	})
}

// DeletePayment removes a payment and clears the booking link if it pointed at it.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	now := s.now()
	return s.inTx(ctx, "delete payment", logrus.Fields{"payment_id": id}, func(tx Tx) error {
		p, err := tx.GetPaymentForUpdate(ctx, id)
		if err != nil {
			return err
		}
		b, err := tx.GetBookingForUpdate(ctx, p.BookingID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		if b != nil && b.PaymentID != nil && *b.PaymentID == id {
			if err := tx.SetBookingPayment(ctx, b.ID, nil, now); err != nil {
				return err
			}
		}
		if err := tx.DeletePayment(ctx, id); err != nil {
			return err
		}
		if b == nil {
			return nil
		}
		return s.record(ctx, tx, b.ID, events.PaymentDeleted, "payment "+p.Reference+" deleted", now, paymentData(p))
	})
}

// PaymentsForBooking returns all payments referencing bookingID, not only the
// linked one, with their totals. An unknown booking yields an empty result.
func (s *Service) PaymentsForBooking(ctx context.Context, bookingID string) (*BookingPayments, error) {
	ps, err := s.Store.ListPaymentsByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &BookingPayments{
		Payments: payment.Flatten(ps),
		Totals:   payment.Summarize(ps),
	}, nil
}

// BookingEvents returns the activity timeline of a booking, oldest first.
func (s *Service) BookingEvents(ctx context.Context, bookingID string) ([]events.Event, error) {
	return s.Store.ListEvents(ctx, bookingID)
}

func (s *Service) ListBookings(ctx context.Context, f booking.Filter, p listing.Params) (*Page[booking.Booking], error) {
	items, total, err := s.Store.ListBookings(ctx, f, p)
	if err != nil {
		return nil, err
	}
	return &Page[booking.Booking]{Items: items, Meta: listing.BuildMeta(total, p)}, nil
}

func (s *Service) ListPayments(ctx context.Context, f payment.Filter, p listing.Params) (*Page[payment.Payment], error) {
	items, total, err := s.Store.ListPayments(ctx, f, p)
	if err != nil {
		return nil, err
	}
	return &Page[payment.Payment]{Items: items, Meta: listing.BuildMeta(total, p)}, nil
}

func (s *Service) record(ctx context.Context, tx Tx, bookingID string, typ events.Type, summary string, at time.Time, data map[string]any) error {
	return tx.RecordEvent(ctx, &events.Event{
		ID:         s.newID(),
		BookingID:  bookingID,
		EventType:  typ,
		Summary:    summary,
		OccurredAt: at,
		Data:       data,
	})
}

func bookingData(b *booking.Booking) map[string]any {
	return map[string]any{
		"reference": b.Reference,
		"status":    string(b.Status),
		"room":      b.RoomNumber,
		"nights":    b.Nights,
	}
}

func paymentData(p *payment.Payment) map[string]any {
	return map[string]any{
		"paymentId": p.ID,
		"reference": p.Reference,
		"amount":    p.Amount.StringFixed(2),
		"method":    string(p.Method),
		"status":    string(p.Status),
	}
}

// inTx runs fn atomically. Validation, referential and not-found errors are
// returned as-is (nothing was written); anything else is logged and wrapped in
// a TxAbortError.
func (s *Service) inTx(ctx context.Context, op string, fields logrus.Fields, fn func(tx Tx) error) error {
	err := s.Store.WithTx(ctx, fn)
	if err == nil {
		return nil
	}
	if _, ok := apperror.AsValidation(err); ok {
		return err
	}
	if _, ok := apperror.AsReferential(err); ok {
		return err
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	s.logger().WithFields(fields).WithError(err).WithField("op", op).Error("transaction aborted")
	return &apperror.TxAbortError{Op: op, Err: err}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}
