package payment

import (
	"time"

	"hostelbooking/internal/reference"
	"hostelbooking/internal/validation"
)

// Prepare runs the save-time rules. It fires on every save, so an update that
// flips status to completed backfills paidAt. paidAt is never cleared once set.
func (p *Payment) Prepare(now time.Time, refs *reference.Generator) error {
	candidate := *p
	if candidate.Method == "" {
		candidate.Method = MethodCash
	}
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
	if candidate.Status == StatusCompleted && candidate.PaidAt == nil {
		paidAt := now
		candidate.PaidAt = &paidAt
	}
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now
	}
	candidate.UpdatedAt = now

	*p = candidate
	return nil
}
