package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"hostelbooking/internal/api"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/reservation"
	"hostelbooking/pkg/config"
)

const maxBodyBytes = 1 << 20

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		api.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body")
		return false
	}
	return true
}

// looseString accepts a JSON string, number or null. Form clients send
// numeric fields either way; parsing happens in the service so errors name
// the field.
type looseString string

var errNotScalar = errors.New("expected a string, number or null")

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = looseString(n)
	default:
		return errNotScalar
	}
	return nil
}

func listOptions(cfg config.Config) listing.Options {
	return listing.Options{
		DefaultPerPage: listing.DefaultOptions.DefaultPerPage,
		MaxPerPage:     cfg.Booking.MaxPerPage,
	}
}

// optionalDate parses a query date; the second result is false when present
// but malformed.
func optionalDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := reservation.ParseDate(raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
