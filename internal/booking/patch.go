package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patch is a partial update: only non-nil fields are applied.
type Patch struct {
	FullName   *string `json:"fullName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Gender     *Gender `json:"gender"`
	Age        *int    `json:"age"`
	IDNumber   *string `json:"idNumber"`
	Location   *string `json:"location"`
	Occupation *string `json:"occupation"`

	RoomNumber *string    `json:"roomNumber"`
	RoomType   *string    `json:"roomType"`
	HostelName *string    `json:"hostelName"`
	CheckIn    *time.Time `json:"checkIn"`
	CheckOut   *time.Time `json:"checkOut"`
	Duration   *int       `json:"duration"`

	Amount        *decimal.Decimal `json:"amount"`
	PaymentMethod *string          `json:"paymentMethod"`
	PaymentNumber *string          `json:"paymentNumber"`
	Notes         *string          `json:"notes"`
	Status        *Status          `json:"status"`
}

func (p Patch) Apply(b *Booking) {
	setString(&b.FullName, p.FullName)
	setString(&b.Email, p.Email)
	setString(&b.Phone, p.Phone)
	if p.Gender != nil {
		b.Gender = *p.Gender
	}
	if p.Age != nil {
		b.Age = *p.Age
	}
	setString(&b.IDNumber, p.IDNumber)
	setString(&b.Location, p.Location)
	setString(&b.Occupation, p.Occupation)

	setString(&b.RoomNumber, p.RoomNumber)
	setString(&b.RoomType, p.RoomType)
	setString(&b.HostelName, p.HostelName)
	if p.CheckIn != nil {
		b.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		b.CheckOut = *p.CheckOut
	}
	if p.Duration != nil {
		b.Duration = *p.Duration
	}

	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	setString(&b.PaymentMethod, p.PaymentMethod)
	setString(&b.PaymentNumber, p.PaymentNumber)
	setString(&b.Notes, p.Notes)
	if p.Status != nil {
		b.Status = *p.Status
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
