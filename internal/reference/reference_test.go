package reference

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestToken_Base36UpperMillis(t *testing.T) {
	ts := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got := Token(ts)

	if got != strings.ToUpper(got) {
		t.Fatalf("expected upper-case token, got %q", got)
	}
	n, err := strconv.ParseInt(strings.ToLower(got), 36, 64)
	if err != nil {
		t.Fatalf("token is not base-36: %v", err)
	}
	if n != ts.UnixMilli() {
		t.Fatalf("expected %d, got %d", ts.UnixMilli(), n)
	}
}

func TestGenerator_SameMillisecondCollides(t *testing.T) {
	fixed := time.UnixMilli(1706745600123)
	g := &Generator{Prefix: "BK-", Now: func() time.Time { return fixed }}

	a, b := g.Next(), g.Next()
	if !strings.HasPrefix(a, "BK-") {
		t.Fatalf("expected BK- prefix, got %q", a)
	}
	// Known weakness: no sequence, no randomness.
	if a != b {
		t.Fatalf("expected identical tokens within one millisecond, got %q and %q", a, b)
	}
}

func TestNewSet_DefaultPrefixes(t *testing.T) {
	s := NewSet("", "")
	if s.Booking.Prefix != "BK-" || s.Payment.Prefix != "PM-" {
		t.Fatalf("unexpected prefixes %q %q", s.Booking.Prefix, s.Payment.Prefix)
	}
}
