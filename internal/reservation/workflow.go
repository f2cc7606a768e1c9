package reservation

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hostelbooking/internal/apperror"
	"hostelbooking/internal/booking"
	"hostelbooking/internal/events"
	"hostelbooking/internal/payment"
	"hostelbooking/internal/validation"
)

// CreateBookingInput is the raw booking form. Numeric and date fields are
// strings and are parsed here so each failure can name its field.
type CreateBookingInput struct {
	FullName   string
	Email      string
	Phone      string
	Gender     string
	Age        string
	IDNumber   string
	Location   string
	Occupation string

	RoomNumber string
	RoomType   string
	HostelName string
	CheckIn    string
	Duration   string

	BookingFee    string
	PaymentMethod string
	PaymentNumber string
	Notes         string

	// Status overrides the default pending status when set.
	Status string
}

// Created is the result of CreateBookingWithPayment.
type Created struct {
	Booking BookingDetail   `json:"booking"`
	Payment payment.Payment `json:"payment"`
}

const dateLayout = "2006-01-02"

// CreateBookingWithPayment creates a booking and its initial payment as one
// atomic unit: insert booking, insert payment, link booking -> payment. The
// initial payment is always recorded as completed, whatever the method.
func (s *Service) CreateBookingWithPayment(ctx context.Context, in CreateBookingInput) (*Created, error) {
	if err := in.requirePresent(); err != nil {
		return nil, err
	}
	fee, duration, checkIn, err := in.parse()
	if err != nil {
		return nil, err
	}

	method := payment.MethodCash
	if m := strings.TrimSpace(in.PaymentMethod); m != "" {
		if method, err = payment.ParseMethod(m); err != nil {
			return nil, apperror.Invalid("paymentMethod", "INVALID_PAYMENT_METHOD", "paymentMethod must be one of [cash card mobile bank_transfer]")
		}
	}
	status := booking.StatusPending
	if st := strings.TrimSpace(in.Status); st != "" {
		if status, err = booking.ParseStatus(st); err != nil {
			return nil, apperror.Invalid("status", "INVALID_ENUM", "status must be one of [pending confirmed cancelled completed]")
		}
	}
	age := 0
	if a := strings.TrimSpace(in.Age); a != "" {
		if age, err = strconv.Atoi(a); err != nil {
			return nil, apperror.Invalid("age", "INVALID_AGE", "age must be a whole number")
		}
	}

	now := s.now()
	b := booking.Booking{
		ID:            s.newID(),
		FullName:      strings.TrimSpace(in.FullName),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Gender:        booking.Gender(strings.ToLower(strings.TrimSpace(in.Gender))),
		Age:           age,
		IDNumber:      strings.TrimSpace(in.IDNumber),
		Location:      strings.TrimSpace(in.Location),
		Occupation:    strings.TrimSpace(in.Occupation),
		RoomNumber:    strings.TrimSpace(in.RoomNumber),
		RoomType:      strings.TrimSpace(in.RoomType),
		HostelName:    strings.TrimSpace(in.HostelName),
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, duration),
		Duration:      duration,
		Nights:        duration,
		Amount:        fee,
		PaymentMethod: string(method),
		PaymentNumber: strings.TrimSpace(in.PaymentNumber),
		Notes:         strings.TrimSpace(in.Notes),
		Status:        status,
	}
	if err := b.Prepare(now, s.Refs.Booking); err != nil {
		return nil, err
	}

	paidAt := now
	p := payment.Payment{
		ID:        s.newID(),
		BookingID: b.ID,
		Method:    method,
		Status:    payment.StatusCompleted,
		Amount:    fee,
		PaidAt:    &paidAt,
	}
	if err := p.Prepare(now, s.Refs.Payment); err != nil {
		return nil, err
	}

	err = s.inTx(ctx, "create booking", logrus.Fields{"booking_id": b.ID, "payment_id": p.ID, "room": b.RoomNumber}, func(tx Tx) error {
		if err := tx.InsertBooking(ctx, &b); err != nil {
			return err
		}
		if err := tx.InsertPayment(ctx, &p); err != nil {
			return err
		}
		paymentID := p.ID
		if err := tx.SetBookingPayment(ctx, b.ID, &paymentID, now); err != nil {
			return err
		}
		b.PaymentID = &paymentID
		b.UpdatedAt = now

		if err := s.record(ctx, tx, b.ID, events.BookingCreated, "booking "+b.Reference+" created", now, bookingData(&b)); err != nil {
			return err
		}
		return s.record(ctx, tx, b.ID, events.PaymentRecorded, "payment "+p.Reference+" recorded", now, paymentData(&p))
	})
	if err != nil {
		return nil, err
	}

	linked := p
	return &Created{
		Booking: BookingDetail{Booking: b, Payment: &linked},
		Payment: p,
	}, nil
}

func (in CreateBookingInput) requirePresent() error {
	required := []struct {
		field, value string
	}{
		{"fullName", in.FullName},
		{"roomNumber", in.RoomNumber},
		{"checkIn", in.CheckIn},
		{"duration", in.Duration},
		{"bookingFee", in.BookingFee},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperror.Required(r.field)
		}
	}
	return nil
}

func (in CreateBookingInput) parse() (decimal.Decimal, int, time.Time, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(in.BookingFee))
	if err != nil || !fee.IsPositive() {
		return decimal.Zero, 0, time.Time{}, apperror.Invalid("bookingFee", "INVALID_BOOKING_FEE", "bookingFee must be a number greater than 0")
	}
	if validation.Money("bookingFee", fee) != nil {
		return decimal.Zero, 0, time.Time{}, apperror.Invalid("bookingFee", "INVALID_BOOKING_FEE", "bookingFee must have at most 2 decimal places and be less than "+validation.MoneyLimit.String())
	}

	duration, err := strconv.Atoi(strings.TrimSpace(in.Duration))
	if err != nil || duration < 1 {
		return decimal.Zero, 0, time.Time{}, apperror.Invalid("duration", "INVALID_DURATION", "duration must be a whole number of days, at least 1")
	}

	checkIn, err := ParseDate(in.CheckIn)
	if err != nil {
		return decimal.Zero, 0, time.Time{}, apperror.Invalid("checkIn", "INVALID_CHECK_IN", "checkIn must be a date (YYYY-MM-DD) or RFC3339 timestamp")
	}

	return fee, duration, checkIn, nil
}

// ParseDate accepts YYYY-MM-DD (UTC midnight) or RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
