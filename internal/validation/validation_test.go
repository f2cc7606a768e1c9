package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hostelbooking/internal/apperror"
)

type sample struct {
	Name   string          `json:"name" validate:"required"`
	Email  string          `json:"email" validate:"omitempty,email"`
	Kind   string          `json:"kind" validate:"omitempty,oneof=a b"`
	Start  time.Time       `json:"start" validate:"required"`
	End    time.Time       `json:"end" validate:"required,gtfield=Start"`
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
}

func valid() sample {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return sample{Name: "x", Start: start, End: start.Add(time.Hour), Amount: decimal.NewFromInt(1)}
}

func TestStruct_OK(t *testing.T) {
	if err := Struct(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStruct_FirstFieldWins(t *testing.T) {
	s := valid()
	s.Name = ""
	s.Email = "not-an-email"

	err := Struct(s)
	v, ok := apperror.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.Field != "name" || v.Code != "REQUIRED" {
		t.Fatalf("expected name/REQUIRED, got %s/%s", v.Field, v.Code)
	}
}

func TestMoney(t *testing.T) {
	for _, ok := range []string{"0", "0.01", "12.5", "1.500", "9999999999.99", "-9999999999.99"} {
		if err := Money("amount", decimal.RequireFromString(ok)); err != nil {
			t.Fatalf("%s: unexpected error %v", ok, err)
		}
	}

	cases := []struct {
		in   string
		code string
	}{
		{"0.001", "INVALID_PRECISION"},
		{"12.345", "INVALID_PRECISION"},
		{"10000000000", "OUT_OF_RANGE"},
		{"1e12", "OUT_OF_RANGE"},
	}
	for _, c := range cases {
		v, ok := apperror.AsValidation(Money("amount", decimal.RequireFromString(c.in)))
		if !ok || v.Field != "amount" || v.Code != c.code {
			t.Fatalf("%s: expected amount/%s, got %+v", c.in, c.code, v)
		}
	}
}

func TestStruct_DecimalAndDates(t *testing.T) {
	s := valid()
	s.Amount = decimal.NewFromInt(-1)
	v, _ := apperror.AsValidation(Struct(s))
	if v == nil || v.Field != "amount" || v.Code != "OUT_OF_RANGE" {
		t.Fatalf("expected amount/OUT_OF_RANGE, got %+v", v)
	}

	s = valid()
	s.End = s.Start
	v, _ = apperror.AsValidation(Struct(s))
	if v == nil || v.Field != "end" || v.Code != "INVALID_DATE_RANGE" {
		t.Fatalf("expected end/INVALID_DATE_RANGE, got %+v", v)
	}
}
