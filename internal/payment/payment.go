package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodMobile       Method = "mobile"
	MethodBankTransfer Method = "bank_transfer"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodCard, MethodMobile, MethodBankTransfer:
		return Method(s), nil
	default:
		return "", fmt.Errorf("unknown payment method: %s", s)
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown payment status: %s", s)
	}
}

type Payment struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference"`
	BookingID string          `json:"bookingId" validate:"required"`
	Method    Method          `json:"method" validate:"oneof=cash card mobile bank_transfer"`
	Status    Status          `json:"status" validate:"oneof=pending completed failed refunded"`
	Amount    decimal.Decimal `json:"amount" validate:"gte=0"`
	Notes     string          `json:"notes,omitempty"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Filter struct {
	BookingID string
	Status    Status
	Method    Method
	Search    string
}
