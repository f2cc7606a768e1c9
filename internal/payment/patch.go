package payment

import "github.com/shopspring/decimal"

// Patch is a partial update. The owning booking and paidAt cannot be patched.
type Patch struct {
	Method *Method          `json:"method"`
	Status *Status          `json:"status"`
	Amount *decimal.Decimal `json:"amount"`
	Notes  *string          `json:"notes"`
}

func (p Patch) Apply(pm *Payment) {
	if p.Method != nil {
		pm.Method = *p.Method
	}
	if p.Status != nil {
		pm.Status = *p.Status
	}
	if p.Amount != nil {
		pm.Amount = *p.Amount
	}
	if p.Notes != nil {
		pm.Notes = *p.Notes
	}
}
