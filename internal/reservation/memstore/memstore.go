// Package memstore is an in-memory reservation.Store for tests and local
// tooling. Transactions work on a copy of the data that replaces the live maps
// only when the callback succeeds.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hostelbooking/internal/apperror"
	"hostelbooking/internal/booking"
	"hostelbooking/internal/events"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/payment"
	"hostelbooking/internal/reservation"
)

type Store struct {
	mu       sync.RWMutex
	bookings map[string]booking.Booking
	payments map[string]payment.Payment
	events   []events.Event

	// FailOn, when set, is consulted before every Tx write with the method
	// name (e.g. "InsertPayment"); a non-nil result fails that write.
	FailOn func(op string) error
}

var _ reservation.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		bookings: map[string]booking.Booking{},
		payments: map[string]payment.Payment{},
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx reservation.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:    s,
		bookings: make(map[string]booking.Booking, len(s.bookings)),
		payments: make(map[string]payment.Payment, len(s.payments)),
		events:   append([]events.Event(nil), s.events...),
	}
	for k, v := range s.bookings {
		tx.bookings[k] = v
	}
	for k, v := range s.payments {
		tx.payments[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.bookings = tx.bookings
	s.payments = tx.payments
	s.events = tx.events
	return nil
}

func (s *Store) GetBooking(_ context.Context, id string) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (s *Store) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return clonePayment(p), nil
}

func (s *Store) ListPaymentsByBooking(_ context.Context, bookingID string) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []payment.Payment{}
	for _, p := range s.payments {
		if p.BookingID == bookingID {
			out = append(out, *clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListBookings supports the same filters as the SQL repository. Sorting is by
// creation time only.
func (s *Store) ListBookings(_ context.Context, f booking.Filter, p listing.Params) ([]booking.Booking, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []booking.Booking
	for _, b := range s.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.HostelName != "" && !strings.EqualFold(b.HostelName, strings.TrimSpace(f.HostelName)) {
			continue
		}
		if f.From != nil && b.CheckIn.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.CheckIn.Before(*f.To) {
			continue
		}
		if search != "" && !containsAny(search, b.FullName, b.Reference, b.RoomNumber, b.Email, b.Phone) {
			continue
		}
		matched = append(matched, *cloneBooking(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if p.SortOrder == "asc" {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	start, end := p.Window(len(matched))
	return append([]booking.Booking{}, matched[start:end]...), int64(len(matched)), nil
}

func (s *Store) ListPayments(_ context.Context, f payment.Filter, p listing.Params) ([]payment.Payment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []payment.Payment
	for _, pm := range s.payments {
		if f.BookingID != "" && pm.BookingID != f.BookingID {
			continue
		}
		if f.Status != "" && pm.Status != f.Status {
			continue
		}
		if f.Method != "" && pm.Method != f.Method {
			continue
		}
		if search != "" && !containsAny(search, pm.Reference) {
			continue
		}
		matched = append(matched, *clonePayment(pm))
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if p.SortOrder == "asc" {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	start, end := p.Window(len(matched))
	return append([]payment.Payment{}, matched[start:end]...), int64(len(matched)), nil
}

func (s *Store) ListEvents(_ context.Context, bookingID string) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []events.Event{}
	for _, e := range s.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Counts reports the number of committed bookings and payments.
func (s *Store) Counts() (bookings, payments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings), len(s.payments)
}

type memTx struct {
	store    *Store
	bookings map[string]booking.Booking
	payments map[string]payment.Payment
	events   []events.Event
}

func (t *memTx) fail(op string) error {
	if t.store.FailOn == nil {
		return nil
	}
	return t.store.FailOn(op)
}

func (t *memTx) GetBookingForUpdate(_ context.Context, id string) (*booking.Booking, error) {
	b, ok := t.bookings[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (t *memTx) BookingExists(_ context.Context, id string) (bool, error) {
	_, ok := t.bookings[id]
	return ok, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *booking.Booking) error {
	if err := t.fail("InsertBooking"); err != nil {
		return err
	}
	if _, ok := t.bookings[b.ID]; ok {
		return fmt.Errorf("%w: booking %s already exists", apperror.ErrConflict, b.ID)
	}
	for _, other := range t.bookings {
		if other.Reference == b.Reference {
			return fmt.Errorf("%w: booking reference %s already exists", apperror.ErrConflict, b.Reference)
		}
	}
	t.bookings[b.ID] = *cloneBooking(*b)
	return nil
}

func (t *memTx) UpdateBooking(_ context.Context, b *booking.Booking) error {
	if err := t.fail("UpdateBooking"); err != nil {
		return err
	}
	if _, ok := t.bookings[b.ID]; !ok {
		return apperror.ErrNotFound
	}
	t.bookings[b.ID] = *cloneBooking(*b)
	return nil
}

func (t *memTx) SetBookingPayment(_ context.Context, bookingID string, paymentID *string, at time.Time) error {
	if err := t.fail("SetBookingPayment"); err != nil {
		return err
	}
	b, ok := t.bookings[bookingID]
	if !ok {
		return apperror.ErrNotFound
	}
	if paymentID != nil {
		if _, ok := t.payments[*paymentID]; !ok {
			return &apperror.ReferentialError{Entity: "payment", ID: *paymentID}
		}
	}
	b.PaymentID = cloneString(paymentID)
	b.UpdatedAt = at
	t.bookings[bookingID] = b
	return nil
}

func (t *memTx) DeleteBooking(_ context.Context, id string) error {
	if err := t.fail("DeleteBooking"); err != nil {
		return err
	}
	if _, ok := t.bookings[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(t.bookings, id)
	for pid, p := range t.payments {
		if p.BookingID == id {
			delete(t.payments, pid)
		}
	}
	kept := t.events[:0:0]
	for _, e := range t.events {
		if e.BookingID != id {
			kept = append(kept, e)
		}
	}
	t.events = kept
	return nil
}

func (t *memTx) GetPaymentForUpdate(_ context.Context, id string) (*payment.Payment, error) {
	p, ok := t.payments[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return clonePayment(p), nil
}

func (t *memTx) InsertPayment(_ context.Context, p *payment.Payment) error {
	if err := t.fail("InsertPayment"); err != nil {
		return err
	}
	if _, ok := t.bookings[p.BookingID]; !ok {
		return &apperror.ReferentialError{Entity: "booking", ID: p.BookingID}
	}
	if _, ok := t.payments[p.ID]; ok {
		return fmt.Errorf("%w: payment %s already exists", apperror.ErrConflict, p.ID)
	}
	for _, other := range t.payments {
		if other.Reference == p.Reference {
			return fmt.Errorf("%w: payment reference %s already exists", apperror.ErrConflict, p.Reference)
		}
	}
	t.payments[p.ID] = *clonePayment(*p)
	return nil
}

func (t *memTx) UpdatePayment(_ context.Context, p *payment.Payment) error {
	if err := t.fail("UpdatePayment"); err != nil {
		return err
	}
	existing, ok := t.payments[p.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	next := *clonePayment(*p)
	if existing.PaidAt != nil {
		next.PaidAt = existing.PaidAt
	}
	t.payments[p.ID] = next
	return nil
}

func (t *memTx) DeletePayment(_ context.Context, id string) error {
	if err := t.fail("DeletePayment"); err != nil {
		return err
	}
	if _, ok := t.payments[id]; !ok {
		return apperror.ErrNotFound
	}
	delete(t.payments, id)
	for bid, b := range t.bookings {
		if b.PaymentID != nil && *b.PaymentID == id {
			b.PaymentID = nil
			t.bookings[bid] = b
		}
	}
	return nil
}

func (t *memTx) RecordEvent(_ context.Context, e *events.Event) error {
	if err := t.fail("RecordEvent"); err != nil {
		return err
	}
	if _, ok := t.bookings[e.BookingID]; !ok {
		return &apperror.ReferentialError{Entity: "booking", ID: e.BookingID}
	}
	t.events = append(t.events, *e)
	return nil
}

func containsAny(needle string, haystack ...string) bool {
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func cloneBooking(b booking.Booking) *booking.Booking {
	b.PaymentID = cloneString(b.PaymentID)
	return &b
}

func clonePayment(p payment.Payment) *payment.Payment {
	if p.PaidAt != nil {
		t := *p.PaidAt
		p.PaidAt = &t
	}
	return &p
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
