package reference

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBookingPrefix = "BK-"
	DefaultPaymentPrefix = "PM-"
)

// Generator produces human-readable references: prefix + upper-cased base-36
// encoding of the clock in milliseconds.
//
// There is no sequence counter and no randomness: two calls within the same
// millisecond return the same token. The storage layer declares reference
// UNIQUE, so a collision surfaces as a failed write, never as shared data.
type Generator struct {
	Prefix string
	Now    func() time.Time
}

func New(prefix string) *Generator {
	return &Generator{Prefix: prefix, Now: time.Now}
}

func (g *Generator) Next() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return g.Prefix + Token(now())
}

// Token is the base-36 millisecond token for t, without prefix.
func Token(t time.Time) string {
	return strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
}

// Set pairs the booking and payment generators used by the services.
type Set struct {
	Booking *Generator
	Payment *Generator
}

func NewSet(bookingPrefix, paymentPrefix string) Set {
	if bookingPrefix == "" {
		bookingPrefix = DefaultBookingPrefix
	}
	if paymentPrefix == "" {
		paymentPrefix = DefaultPaymentPrefix
	}
	return Set{Booking: New(bookingPrefix), Payment: New(paymentPrefix)}
}
