package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hostelbooking/internal/api"
	"hostelbooking/internal/apperror"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/payment"
	"hostelbooking/internal/reservation"
	"hostelbooking/pkg/config"
)

type PaymentHandlers struct {
	Cfg     config.Config
	Service *reservation.Service
}

// Create records an additional payment against an existing booking. The
// booking's primary payment link is left alone.
func (h PaymentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req payment.Payment
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Service.CreatePayment(r.Context(), req)
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusCreated, p)
}

func (h PaymentHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := payment.Filter{
		BookingID: strings.TrimSpace(q.Get("booking_id")),
		Search:    strings.TrimSpace(q.Get("q")),
	}
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st, err := payment.ParseStatus(s)
		if err != nil {
			api.WriteServiceError(w, apperror.Invalid("status", "INVALID_ENUM", err.Error()), false)
			return
		}
		f.Status = st
	}
	if s := strings.TrimSpace(q.Get("method")); s != "" {
		m, err := payment.ParseMethod(s)
		if err != nil {
			api.WriteServiceError(w, apperror.Invalid("method", "INVALID_ENUM", err.Error()), false)
			return
		}
		f.Method = m
	}

	p := listing.Parse(r, "createdAt", "desc", listOptions(h.Cfg))
	page, err := h.Service.ListPayments(r.Context(), f, p)
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, page)
}

func (h PaymentHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h PaymentHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	var patch payment.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	p, err := h.Service.UpdatePayment(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

func (h PaymentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePayment(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
