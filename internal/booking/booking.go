package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderUnset, GenderMale, GenderFemale, GenderOther:
		return Gender(s), nil
	default:
		return "", fmt.Errorf("unknown gender: %s", s)
	}
}

// Booking is a guest's reservation of a room for a date range.
//
// Field order matters: validation reports the first failing field in
// declaration order.
type Booking struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`

	FullName   string `json:"fullName" validate:"required"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
	Gender     Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Age        int    `json:"age,omitempty" validate:"gte=0"`
	IDNumber   string `json:"idNumber,omitempty"`
	Location   string `json:"location,omitempty"`
	Occupation string `json:"occupation,omitempty"`

	RoomNumber string    `json:"roomNumber" validate:"required"`
	RoomType   string    `json:"roomType,omitempty"`
	HostelName string    `json:"hostelName,omitempty"`
	CheckIn    time.Time `json:"checkIn" validate:"required"`
	CheckOut   time.Time `json:"checkOut" validate:"required,gtfield=CheckIn"`
	Duration   int       `json:"duration" validate:"required,gte=1"`
	Nights     int       `json:"nights"`

	Amount        decimal.Decimal `json:"amount" validate:"gte=0"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	PaymentNumber string          `json:"paymentNumber,omitempty"`
	Notes         string          `json:"notes,omitempty"`

	Status    Status  `json:"status" validate:"oneof=pending confirmed cancelled completed"`
	PaymentID *string `json:"paymentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter narrows booking listings. Zero values mean "any".
type Filter struct {
	Status     Status
	Search     string
	HostelName string
	From       *time.Time
	To         *time.Time
}
