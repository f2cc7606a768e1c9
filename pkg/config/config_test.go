package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("BOOKING_REF_PREFIX", "")
	t.Setenv("PAYMENT_REF_PREFIX", "")
	t.Setenv("API_MAX_PER_PAGE", "")

	cfg := Load()
	if cfg.HTTPAddr != ":8081" {
		t.Fatalf("expected :8081, got %q", cfg.HTTPAddr)
	}
	if cfg.Booking.BookingRefPrefix != "BK-" || cfg.Booking.PaymentRefPrefix != "PM-" {
		t.Fatalf("unexpected prefixes: %q %q", cfg.Booking.BookingRefPrefix, cfg.Booking.PaymentRefPrefix)
	}
	if cfg.Booking.MaxPerPage != 200 {
		t.Fatalf("expected max per page 200, got %d", cfg.Booking.MaxPerPage)
	}
}

func TestLoad_PortFallbackAndBadInt(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9000")
	t.Setenv("API_MAX_PER_PAGE", "lots")

	cfg := Load()
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.HTTPAddr)
	}
	if cfg.Booking.MaxPerPage != 200 {
		t.Fatalf("expected fallback 200, got %d", cfg.Booking.MaxPerPage)
	}
}
