package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write hits a uniqueness constraint
	// (for instance two references minted in the same millisecond).
	ErrConflict = errors.New("conflict")
)

// ValidationError identifies the first offending field of a record or request.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

func Invalid(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Code: "REQUIRED", Message: field + " is required"}
}

// ReferentialError reports a write against a parent record that does not exist.
type ReferentialError struct {
	Entity string
	ID     string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Entity, e.ID)
}

// TxAbortError wraps any failure inside an atomic unit. Everything written in
// the unit has been rolled back by the time the caller sees it.
type TxAbortError struct {
	Op  string
	Err error
}

func (e *TxAbortError) Error() string {
	return fmt.Sprintf("%s aborted: %v", e.Op, e.Err)
}

func (e *TxAbortError) Unwrap() error { return e.Err }

func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func AsReferential(err error) (*ReferentialError, bool) {
	var r *ReferentialError
	ok := errors.As(err, &r)
	return r, ok
}

func AsTxAbort(err error) (*TxAbortError, bool) {
	var t *TxAbortError
	ok := errors.As(err, &t)
	return t, ok
}
