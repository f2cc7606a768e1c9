package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals buckets payment amounts by status. Total covers every payment,
// including ones whose status is outside the known set.
type Totals struct {
	Total     decimal.Decimal `json:"total"`
	Completed decimal.Decimal `json:"completed"`
	Pending   decimal.Decimal `json:"pending"`
	Failed    decimal.Decimal `json:"failed"`
	Refunded  decimal.Decimal `json:"refunded"`
}

// Summarize folds payments into Totals. It has no side effects; the same input
// always yields the same result.
func Summarize(payments []Payment) Totals {
	t := Totals{
		Total:     decimal.Zero,
		Completed: decimal.Zero,
		Pending:   decimal.Zero,
		Failed:    decimal.Zero,
		Refunded:  decimal.Zero,
	}
	for _, p := range payments {
		t.Total = t.Total.Add(p.Amount)
		switch p.Status {
		case StatusCompleted:
			t.Completed = t.Completed.Add(p.Amount)
		case StatusPending:
			t.Pending = t.Pending.Add(p.Amount)
		case StatusFailed:
			t.Failed = t.Failed.Add(p.Amount)
		case StatusRefunded:
			t.Refunded = t.Refunded.Add(p.Amount)
		}
	}
	return t
}

// Summary is the flat response row for a payment listed under a booking.
type Summary struct {
	ID        string     `json:"id"`
	Reference string     `json:"reference"`
	Amount    string     `json:"amount"`
	Method    Method     `json:"method"`
	Status    Status     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func Flatten(payments []Payment) []Summary {
	out := make([]Summary, 0, len(payments))
	for _, p := range payments {
		out = append(out, Summary{
			ID:        p.ID,
			Reference: p.Reference,
			Amount:    p.Amount.StringFixed(2),
			Method:    p.Method,
			Status:    p.Status,
			Notes:     p.Notes,
			PaidAt:    p.PaidAt,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}
