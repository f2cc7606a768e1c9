package reservation_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hostelbooking/internal/apperror"
	"hostelbooking/internal/booking"
	"hostelbooking/internal/events"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/payment"
	"hostelbooking/internal/reference"
	"hostelbooking/internal/reservation"
	"hostelbooking/internal/reservation/memstore"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newService(t *testing.T) (*reservation.Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	c := &clock{t: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)}

	refs := reference.NewSet("BK-", "PM-")
	refs.Booking.Now = c.now
	refs.Payment.Now = c.now

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	n := 0
	svc := reservation.NewService(store, refs, log)
	svc.Now = c.now
	svc.NewID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return svc, store
}

func janeInput() reservation.CreateBookingInput {
	return reservation.CreateBookingInput{
		FullName:   "Jane Doe",
		RoomNumber: "A101",
		CheckIn:    "2024-02-01",
		Duration:   "7",
		BookingFee: "50000",
	}
}

func TestCreateBookingWithPayment_EndToEnd(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	got, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := got.Booking
	if b.Nights != 7 || b.Duration != 7 {
		t.Fatalf("expected 7 nights / duration 7, got %d / %d", b.Nights, b.Duration)
	}
	wantOut := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC)
	if !b.CheckOut.Equal(wantOut) {
		t.Fatalf("expected checkOut %s, got %s", wantOut, b.CheckOut)
	}
	if b.Status != booking.StatusPending {
		t.Fatalf("expected pending, got %q", b.Status)
	}
	if !strings.HasPrefix(b.Reference, "BK-") || len(b.Reference) <= 3 {
		t.Fatalf("unexpected booking reference %q", b.Reference)
	}

	p := got.Payment
	if p.Status != payment.StatusCompleted || p.Method != payment.MethodCash {
		t.Fatalf("unexpected payment status/method %q/%q", p.Status, p.Method)
	}
	if !p.Amount.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected amount 50000, got %s", p.Amount)
	}
	if p.PaidAt == nil || p.PaidAt.IsZero() {
		t.Fatalf("expected paidAt to be set")
	}
	if !strings.HasPrefix(p.Reference, "PM-") {
		t.Fatalf("unexpected payment reference %q", p.Reference)
	}
	if p.BookingID != b.ID {
		t.Fatalf("payment not linked to booking")
	}
	if b.PaymentID == nil || *b.PaymentID != p.ID {
		t.Fatalf("booking payment link %v does not match payment %s", b.PaymentID, p.ID)
	}
	if b.Payment == nil || b.Payment.ID != p.ID {
		t.Fatalf("expected linked payment expanded on booking")
	}

	// Committed state matches the returned objects.
	stored, err := svc.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if stored.PaymentID == nil || *stored.PaymentID != p.ID || stored.Payment == nil {
		t.Fatalf("stored booking not linked: %+v", stored)
	}
	if nb, np := store.Counts(); nb != 1 || np != 1 {
		t.Fatalf("expected 1 booking and 1 payment, got %d and %d", nb, np)
	}
}

func TestCreateBookingWithPayment_StatusAndMethodOverrides(t *testing.T) {
	svc, _ := newService(t)
	in := janeInput()
	in.Status = "confirmed"
	in.PaymentMethod = "mobile"

	got, err := svc.CreateBookingWithPayment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Booking.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed, got %q", got.Booking.Status)
	}
	// The initial payment is completed regardless of method.
	if got.Payment.Method != payment.MethodMobile || got.Payment.Status != payment.StatusCompleted {
		t.Fatalf("unexpected payment %q/%q", got.Payment.Method, got.Payment.Status)
	}
}

func TestCreateBookingWithPayment_RequiredFields(t *testing.T) {
	cases := []struct {
		field string
		clear func(*reservation.CreateBookingInput)
	}{
		{"fullName", func(in *reservation.CreateBookingInput) { in.FullName = " " }},
		{"roomNumber", func(in *reservation.CreateBookingInput) { in.RoomNumber = "" }},
		{"checkIn", func(in *reservation.CreateBookingInput) { in.CheckIn = "" }},
		{"duration", func(in *reservation.CreateBookingInput) { in.Duration = "" }},
		{"bookingFee", func(in *reservation.CreateBookingInput) { in.BookingFee = "" }},
	}
	for _, c := range cases {
		t.Run(c.field, func(t *testing.T) {
			svc, store := newService(t)
			in := janeInput()
			c.clear(&in)

			_, err := svc.CreateBookingWithPayment(context.Background(), in)
			v, ok := apperror.AsValidation(err)
			if !ok || v.Field != c.field || v.Code != "REQUIRED" {
				t.Fatalf("expected %s REQUIRED, got %v", c.field, err)
			}
			if nb, np := store.Counts(); nb != 0 || np != 0 {
				t.Fatalf("storage touched on validation failure")
			}
		})
	}
}

func TestCreateBookingWithPayment_ParseErrorsAreDistinct(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*reservation.CreateBookingInput)
		field string
		code  string
	}{
		{"fee not a number", func(in *reservation.CreateBookingInput) { in.BookingFee = "lots" }, "bookingFee", "INVALID_BOOKING_FEE"},
		{"fee zero", func(in *reservation.CreateBookingInput) { in.BookingFee = "0" }, "bookingFee", "INVALID_BOOKING_FEE"},
		{"fee below a cent", func(in *reservation.CreateBookingInput) { in.BookingFee = "0.001" }, "bookingFee", "INVALID_BOOKING_FEE"},
		{"fee too large", func(in *reservation.CreateBookingInput) { in.BookingFee = "1e12" }, "bookingFee", "INVALID_BOOKING_FEE"},
		{"duration fractional", func(in *reservation.CreateBookingInput) { in.Duration = "1.5" }, "duration", "INVALID_DURATION"},
		{"duration zero", func(in *reservation.CreateBookingInput) { in.Duration = "0" }, "duration", "INVALID_DURATION"},
		{"check-in garbage", func(in *reservation.CreateBookingInput) { in.CheckIn = "next tuesday" }, "checkIn", "INVALID_CHECK_IN"},
		{"bad method", func(in *reservation.CreateBookingInput) { in.PaymentMethod = "cheque" }, "paymentMethod", "INVALID_PAYMENT_METHOD"},
		{"bad email", func(in *reservation.CreateBookingInput) { in.Email = "jane-at-example" }, "email", "INVALID_EMAIL"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, store := newService(t)
			in := janeInput()
			c.mut(&in)

			_, err := svc.CreateBookingWithPayment(context.Background(), in)
			v, ok := apperror.AsValidation(err)
			if !ok || v.Field != c.field || v.Code != c.code {
				t.Fatalf("expected %s/%s, got %v", c.field, c.code, err)
			}
			if nb, np := store.Counts(); nb != 0 || np != 0 {
				t.Fatalf("storage touched on validation failure")
			}
		})
	}
}

func TestCreateBookingWithPayment_LongStayNightsMatchDuration(t *testing.T) {
	svc, _ := newService(t)
	in := janeInput()
	in.Duration = "200000"

	got, err := svc.CreateBookingWithPayment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Booking.Nights != 200000 || got.Booking.Duration != 200000 {
		t.Fatalf("expected nights = duration = 200000, got %d / %d", got.Booking.Nights, got.Booking.Duration)
	}
}

func TestCreateBookingWithPayment_FeeWithTrailingZerosAccepted(t *testing.T) {
	svc, _ := newService(t)
	in := janeInput()
	in.BookingFee = "9999999999.990"

	got, err := svc.CreateBookingWithPayment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Payment.Amount.StringFixed(2) != "9999999999.99" {
		t.Fatalf("unexpected amount %s", got.Payment.Amount)
	}
}

func TestCreateBookingWithPayment_RFC3339CheckIn(t *testing.T) {
	svc, _ := newService(t)
	in := janeInput()
	in.CheckIn = "2024-02-01T14:00:00Z"
	in.Duration = "2"

	got, err := svc.CreateBookingWithPayment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Booking.CheckOut.Equal(time.Date(2024, 2, 3, 14, 0, 0, 0, time.UTC)) || got.Booking.Nights != 2 {
		t.Fatalf("unexpected stay %s / %d nights", got.Booking.CheckOut, got.Booking.Nights)
	}
}

func TestCreateBookingWithPayment_RollsBackOnFailure(t *testing.T) {
	for _, op := range []string{"InsertPayment", "SetBookingPayment", "RecordEvent"} {
		t.Run(op, func(t *testing.T) {
			svc, store := newService(t)
			boom := errors.New("injected failure")
			store.FailOn = func(name string) error {
				if name == op {
					return boom
				}
				return nil
			}

			_, err := svc.CreateBookingWithPayment(context.Background(), janeInput())
			ta, ok := apperror.AsTxAbort(err)
			if !ok {
				t.Fatalf("expected TxAbortError, got %v", err)
			}
			if !errors.Is(ta, boom) {
				t.Fatalf("expected cause to be kept, got %v", ta.Err)
			}

			// Neither the booking (id-1) nor the payment (id-2) is visible.
			if _, err := svc.GetBooking(context.Background(), "id-1"); !errors.Is(err, apperror.ErrNotFound) {
				t.Fatalf("booking visible after rollback: %v", err)
			}
			if _, err := svc.GetPayment(context.Background(), "id-2"); !errors.Is(err, apperror.ErrNotFound) {
				t.Fatalf("payment visible after rollback: %v", err)
			}
			res, err := svc.PaymentsForBooking(context.Background(), "id-1")
			if err != nil || len(res.Payments) != 0 {
				t.Fatalf("expected no payments after rollback, got %v %v", res, err)
			}
			if nb, np := store.Counts(); nb != 0 || np != 0 {
				t.Fatalf("expected empty store, got %d bookings %d payments", nb, np)
			}
		})
	}
}

func TestCreateBookingWithPayment_ReferenceCollisionFailsWrite(t *testing.T) {
	svc, store := newService(t)
	fixed := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	svc.Refs.Booking.Now = func() time.Time { return fixed }

	if _, err := svc.CreateBookingWithPayment(context.Background(), janeInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateBookingWithPayment(context.Background(), janeInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict on duplicate reference, got %v", err)
	}
	if nb, np := store.Counts(); nb != 1 || np != 1 {
		t.Fatalf("expected only the first booking committed, got %d/%d", nb, np)
	}
}

func TestPaymentsForBooking_Totals(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	in := janeInput()
	in.BookingFee = "100"
	created, err := svc.CreateBookingWithPayment(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bookingID := created.Booking.ID

	for _, p := range []payment.Payment{
		{BookingID: bookingID, Amount: decimal.NewFromInt(50), Status: payment.StatusPending},
		{BookingID: bookingID, Amount: decimal.NewFromInt(25), Status: payment.StatusCompleted, Method: payment.MethodCard},
	} {
		if _, err := svc.CreatePayment(ctx, p); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}

	res, err := svc.PaymentsForBooking(ctx, bookingID)
	if err != nil {
		t.Fatalf("payments: %v", err)
	}
	if len(res.Payments) != 3 {
		t.Fatalf("expected all 3 payments, got %d", len(res.Payments))
	}
	tot := res.Totals
	if !tot.Total.Equal(decimal.NewFromInt(175)) || !tot.Completed.Equal(decimal.NewFromInt(125)) ||
		!tot.Pending.Equal(decimal.NewFromInt(50)) || !tot.Failed.IsZero() || !tot.Refunded.IsZero() {
		t.Fatalf("unexpected totals %+v", tot)
	}

	// Standalone payments do not move the primary link.
	b, err := svc.GetBooking(ctx, bookingID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if *b.PaymentID != created.Payment.ID {
		t.Fatalf("primary payment link changed")
	}
}

func TestPaymentsForBooking_UnknownBooking(t *testing.T) {
	svc, _ := newService(t)
	res, err := svc.PaymentsForBooking(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Payments) != 0 || !res.Totals.Total.IsZero() {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestCreatePayment_ReferentialError(t *testing.T) {
	svc, store := newService(t)
	_, err := svc.CreatePayment(context.Background(), payment.Payment{BookingID: "nope", Amount: decimal.NewFromInt(1)})
	r, ok := apperror.AsReferential(err)
	if !ok || r.ID != "nope" {
		t.Fatalf("expected referential error, got %v", err)
	}
	if _, np := store.Counts(); np != 0 {
		t.Fatalf("payment written despite missing booking")
	}
}

func TestSaveBooking_InsertThenUpdateKeepsReference(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	b := booking.Booking{
		FullName:   "Sam Lee",
		RoomNumber: "B2",
		CheckIn:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Duration:   3,
		Amount:     decimal.NewFromInt(300),
	}
	if err := svc.SaveBooking(ctx, &b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b.ID == "" || b.Reference == "" || b.Nights != 3 {
		t.Fatalf("unexpected saved booking %+v", b)
	}
	ref := b.Reference

	update := b
	update.Reference = ""
	update.Notes = "extended"
	if err := svc.SaveBooking(ctx, &update); err != nil {
		t.Fatalf("update: %v", err)
	}
	if update.Reference != ref {
		t.Fatalf("reference changed from %q to %q", ref, update.Reference)
	}

	bad := update
	bad.CheckOut = bad.CheckIn
	if _, ok := apperror.AsValidation(svc.SaveBooking(ctx, &bad)); !ok {
		t.Fatalf("expected validation error")
	}
	stored, _ := svc.GetBooking(ctx, b.ID)
	if stored.Notes != "extended" || !stored.CheckOut.Equal(b.CheckOut) {
		t.Fatalf("failed save leaked into storage: %+v", stored.Booking)
	}
}

func TestSaveBooking_UnknownID(t *testing.T) {
	svc, _ := newService(t)
	b := booking.Booking{ID: "ghost"}
	if err := svc.SaveBooking(context.Background(), &b); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateBooking_PartialAndNightsRederived(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newOut := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
	phone := "+254700000000"
	got, err := svc.UpdateBooking(ctx, created.Booking.ID, booking.Patch{CheckOut: &newOut, Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Nights != 10 || got.Duration != 7 {
		t.Fatalf("expected nights 10 and duration 7 (not reconciled), got %d/%d", got.Nights, got.Duration)
	}
	if got.Phone != phone || got.FullName != "Jane Doe" || got.Reference != created.Booking.Reference {
		t.Fatalf("unexpected partial update result %+v", got.Booking)
	}
	if got.Payment == nil {
		t.Fatalf("expected expanded payment")
	}
}

func TestUpdatePayment_PaidAtNeverCleared(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	paidAt := *created.Payment.PaidAt

	refunded := payment.StatusRefunded
	got, err := svc.UpdatePayment(ctx, created.Payment.ID, payment.Patch{Status: &refunded})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.PaidAt == nil || !got.PaidAt.Equal(paidAt) {
		t.Fatalf("paidAt changed: %v", got.PaidAt)
	}

	// A full save that drops paidAt still keeps the stored one.
	full := *got
	full.PaidAt = nil
	full.Status = payment.StatusPending
	if err := svc.SavePayment(ctx, &full); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, _ := svc.GetPayment(ctx, created.Payment.ID)
	if stored.PaidAt == nil || !stored.PaidAt.Equal(paidAt) {
		t.Fatalf("paidAt cleared by save: %v", stored.PaidAt)
	}
}

func TestUpdatePayment_CompletingBackfillsPaidAt(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p, err := svc.CreatePayment(ctx, payment.Payment{BookingID: created.Booking.ID, Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if p.PaidAt != nil {
		t.Fatalf("pending payment has paidAt")
	}

	completed := payment.StatusCompleted
	got, err := svc.UpdatePayment(ctx, p.ID, payment.Patch{Status: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.PaidAt == nil {
		t.Fatalf("expected paidAt backfilled")
	}
}

func TestDeletePayment_ClearsLink(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeletePayment(ctx, created.Payment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	b, err := svc.GetBooking(ctx, created.Booking.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.PaymentID != nil || b.Payment != nil {
		t.Fatalf("expected link cleared, got %v", b.PaymentID)
	}
	if err := svc.DeletePayment(ctx, created.Payment.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPaymentLink_StampsServiceClock(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, err := svc.GetBooking(ctx, created.Booking.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.UpdatedAt.Equal(created.Booking.UpdatedAt) {
		t.Fatalf("stored updatedAt %v, returned %v", stored.UpdatedAt, created.Booking.UpdatedAt)
	}
	if stored.UpdatedAt.Before(stored.CreatedAt) {
		t.Fatalf("updatedAt %v before createdAt %v", stored.UpdatedAt, stored.CreatedAt)
	}

	if err := svc.DeletePayment(ctx, created.Payment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after, err := svc.GetBooking(ctx, created.Booking.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if !after.UpdatedAt.After(stored.UpdatedAt) {
		t.Fatalf("unlinking should advance updatedAt: before %v, after %v", stored.UpdatedAt, after.UpdatedAt)
	}
	if after.UpdatedAt.Year() != 2024 {
		t.Fatalf("updatedAt should come from the service clock, got %v", after.UpdatedAt)
	}
}

func TestDeleteBooking_RemovesPayments(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteBooking(ctx, created.Booking.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if nb, np := store.Counts(); nb != 0 || np != 0 {
		t.Fatalf("expected empty store, got %d/%d", nb, np)
	}
	if err := svc.DeleteBooking(ctx, created.Booking.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListBookings_FilterAndPage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, name := range []string{"Jane Doe", "John Smith", "Janet Moss"} {
		in := janeInput()
		in.FullName = name
		if _, err := svc.CreateBookingWithPayment(ctx, in); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	page, err := svc.ListBookings(ctx, booking.Filter{Search: "jan"}, listing.Params{Page: 1, PerPage: 1, SortOrder: "desc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Meta.Total != 2 || page.Meta.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page.Meta)
	}
	if page.Items[0].FullName != "Janet Moss" {
		t.Fatalf("expected newest first, got %q", page.Items[0].FullName)
	}

	payments, err := svc.ListPayments(ctx, payment.Filter{Status: payment.StatusCompleted}, listing.Params{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if payments.Meta.Total != 3 {
		t.Fatalf("expected 3 completed payments, got %d", payments.Meta.Total)
	}
}

func TestBookingEvents_Timeline(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	confirmed := booking.StatusConfirmed
	if _, err := svc.UpdateBooking(ctx, created.Booking.ID, booking.Patch{Status: &confirmed}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeletePayment(ctx, created.Payment.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}

	evs, err := svc.BookingEvents(ctx, created.Booking.ID)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	want := []events.Type{events.BookingCreated, events.PaymentRecorded, events.BookingUpdated, events.PaymentDeleted}
	if len(evs) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(evs))
	}
	for i, e := range evs {
		if e.EventType != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], e.EventType)
		}
	}
	if evs[2].Data["status"] != "confirmed" {
		t.Fatalf("unexpected update data %v", evs[2].Data)
	}
}

func TestBookingEvents_NotWrittenOnFailure(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateBookingWithPayment(ctx, janeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	empty := ""
	if _, err := svc.UpdateBooking(ctx, created.Booking.ID, booking.Patch{RoomNumber: &empty}); err == nil {
		t.Fatalf("expected validation error")
	}
	evs, _ := svc.BookingEvents(ctx, created.Booking.ID)
	if len(evs) != 2 {
		t.Fatalf("failed update left an event: %d events", len(evs))
	}
}
