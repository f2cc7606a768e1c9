package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hostelbooking/internal/apperror"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeAPIError(w, status, APIError{Code: code, Message: message})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteServiceError maps a service error onto the error envelope. Details of
// unexpected failures are only exposed when exposeDetail is set (non-prod).
func WriteServiceError(w http.ResponseWriter, err error, exposeDetail bool) {
	if v, ok := apperror.AsValidation(err); ok {
		writeAPIError(w, http.StatusBadRequest, APIError{
			Code:    "VALIDATION_FAILED",
			Message: v.Message,
			Field:   v.Field,
			Reason:  v.Code,
		})
		return
	}
	if r, ok := apperror.AsReferential(err); ok {
		WriteError(w, http.StatusUnprocessableEntity, "BOOKING_NOT_FOUND", r.Error())
		return
	}
	if errors.Is(err, apperror.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}
	if errors.Is(err, apperror.ErrConflict) {
		WriteError(w, http.StatusConflict, "CONFLICT", "a record with the same reference already exists, retry")
		return
	}

	code, msg := "INTERNAL", "internal error"
	if ta, ok := apperror.AsTxAbort(err); ok {
		code, msg = abortCode(ta.Op), ta.Op+" failed"
	}
	if exposeDetail {
		msg = msg + ": " + err.Error()
	}
	WriteError(w, http.StatusInternalServerError, code, msg)
}

func abortCode(op string) string {
	switch op {
	case "create booking":
		return "BOOKING_CREATE_FAILED"
	default:
		return "TX_ABORTED"
	}
}

func writeAPIError(w http.ResponseWriter, status int, e APIError) {
	WriteJSON(w, status, ErrorEnvelope{Error: e})
}
