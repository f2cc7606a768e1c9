package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hostelbooking/internal/apperror"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the process-wide validator. Field names in errors are the
// json tag names; decimal.Decimal fields validate as float64 so numeric tags
// like gte=0 apply to money.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		validate = v
	})
	return validate
}

// Struct validates s and converts the first failing field into an
// *apperror.ValidationError. Fields are checked in declaration order.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err
	}
	return fromFieldError(ves[0])
}

func fromFieldError(fe validator.FieldError) *apperror.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperror.Required(field)
	case "email":
		return apperror.Invalid(field, "INVALID_EMAIL", field+" must be a valid email address")
	case "oneof":
		return apperror.Invalid(field, "INVALID_ENUM", fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
	case "gtfield":
		return apperror.Invalid(field, "INVALID_DATE_RANGE", fmt.Sprintf("%s must be after %s", field, lowerFirst(fe.Param())))
	case "gte":
		return apperror.Invalid(field, "OUT_OF_RANGE", fmt.Sprintf("%s must be >= %s", field, fe.Param()))
	case "gt":
		return apperror.Invalid(field, "OUT_OF_RANGE", fmt.Sprintf("%s must be > %s", field, fe.Param()))
	default:
		return apperror.Invalid(field, "VALIDATION_FAILED", fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Amounts are stored as NUMERIC(12,2).
const MoneyScale = 2

// MoneyLimit is the exclusive upper bound of a storable amount.
var MoneyLimit = decimal.New(1, 10)

// Money reports a ValidationError when d has more than two decimal places or
// does not fit the storage column. Trailing zeros ("1.500") are fine.
func Money(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return apperror.Invalid(field, "INVALID_PRECISION", field+" must have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(MoneyLimit) {
		return apperror.Invalid(field, "OUT_OF_RANGE", field+" must be less than "+MoneyLimit.String())
	}
	return nil
}
