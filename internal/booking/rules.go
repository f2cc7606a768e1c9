package booking

import (
	"time"

	"hostelbooking/internal/reference"
	"hostelbooking/internal/validation"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// Nights is ceil((out - in) / 1 day), never less than 1. The difference is
// taken in milliseconds because time.Duration saturates at about 292 years.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.UnixMilli() - checkIn.UnixMilli()
	if diff <= 0 {
		return 1
	}
	n := (diff + dayMillis - 1) / dayMillis
	if n < 1 {
		return 1
	}
	return int(n)
}

// Prepare runs the save-time rules: defaults, validation, reference and
// nights derivation. The booking is left untouched when validation fails.
//
// Duration is not reconciled against nights. Updating one date without
// updating duration leaves the two out of step.
func (b *Booking) Prepare(now time.Time, refs *reference.Generator) error {
	candidate := *b
	if candidate.Status == "" {
		candidate.Status = StatusPending
	}
	if err := validation.Struct(candidate); err != nil {
		return err
	}
	if err := validation.Money("amount", candidate.Amount); err != nil {
		return err
	}

	if candidate.Reference == "" {
		candidate.Reference = refs.Next()
	}
	if !candidate.CheckIn.IsZero() && !candidate.CheckOut.IsZero() {
		candidate.Nights = Nights(candidate.CheckIn, candidate.CheckOut)
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now
	}
	candidate.UpdatedAt = now

	*b = candidate
	return nil
}
