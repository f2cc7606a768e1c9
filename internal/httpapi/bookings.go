package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hostelbooking/internal/api"
	"hostelbooking/internal/apperror"
	"hostelbooking/internal/booking"
	"hostelbooking/internal/listing"
	"hostelbooking/internal/reservation"
	"hostelbooking/pkg/config"
)

type BookingHandlers struct {
	Cfg     config.Config
	Service *reservation.Service
}

type createBookingRequest struct {
	FullName   looseString `json:"fullName"`
	Email      looseString `json:"email"`
	Phone      looseString `json:"phone"`
	Gender     looseString `json:"gender"`
	Age        looseString `json:"age"`
	IDNumber   looseString `json:"idNumber"`
	Location   looseString `json:"location"`
	Occupation looseString `json:"occupation"`

	RoomNumber looseString `json:"roomNumber"`
	RoomType   looseString `json:"roomType"`
	HostelName looseString `json:"hostelName"`
	CheckIn    looseString `json:"checkIn"`
	Duration   looseString `json:"duration"`

	BookingFee    looseString `json:"bookingFee"`
	PaymentMethod looseString `json:"paymentMethod"`
	PaymentNumber looseString `json:"paymentNumber"`
	Notes         looseString `json:"notes"`
	Status        looseString `json:"status"`
}

func (req createBookingRequest) input() reservation.CreateBookingInput {
	return reservation.CreateBookingInput{
		FullName:      string(req.FullName),
		Email:         string(req.Email),
		Phone:         string(req.Phone),
		Gender:        string(req.Gender),
		Age:           string(req.Age),
		IDNumber:      string(req.IDNumber),
		Location:      string(req.Location),
		Occupation:    string(req.Occupation),
		RoomNumber:    string(req.RoomNumber),
		RoomType:      string(req.RoomType),
		HostelName:    string(req.HostelName),
		CheckIn:       string(req.CheckIn),
		Duration:      string(req.Duration),
		BookingFee:    string(req.BookingFee),
		PaymentMethod: string(req.PaymentMethod),
		PaymentNumber: string(req.PaymentNumber),
		Notes:         string(req.Notes),
		Status:        string(req.Status),
	}
}

func (h BookingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.Service.CreateBookingWithPayment(r.Context(), req.input())
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h BookingHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f booking.Filter

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st, err := booking.ParseStatus(s)
		if err != nil {
			api.WriteServiceError(w, apperror.Invalid("status", "INVALID_ENUM", err.Error()), false)
			return
		}
		f.Status = st
	}
	f.Search = strings.TrimSpace(q.Get("q"))
	f.HostelName = strings.TrimSpace(q.Get("hostel"))

	var ok bool
	if f.From, ok = optionalDate(q.Get("from")); !ok {
		api.WriteServiceError(w, apperror.Invalid("from", "INVALID_DATE", "from must be a date"), false)
		return
	}
	if f.To, ok = optionalDate(q.Get("to")); !ok {
		api.WriteServiceError(w, apperror.Invalid("to", "INVALID_DATE", "to must be a date"), false)
		return
	}

	p := listing.Parse(r, "createdAt", "desc", listOptions(h.Cfg))
	page, err := h.Service.ListBookings(r.Context(), f, p)
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, page)
}

func (h BookingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

// bookingPatchRequest shadows the patch dates so they accept YYYY-MM-DD as
// well as RFC3339.
type bookingPatchRequest struct {
	booking.Patch
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
}

func (h BookingHandlers) Patch(w http.ResponseWriter, r *http.Request) {
	var req bookingPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := req.Patch
	if req.CheckIn != nil {
		t, err := reservation.ParseDate(*req.CheckIn)
		if err != nil {
			api.WriteServiceError(w, apperror.Invalid("checkIn", "INVALID_CHECK_IN", "checkIn must be a date"), false)
			return
		}
		patch.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, err := reservation.ParseDate(*req.CheckOut)
		if err != nil {
			api.WriteServiceError(w, apperror.Invalid("checkOut", "INVALID_CHECK_OUT", "checkOut must be a date"), false)
			return
		}
		patch.CheckOut = &t
	}

	b, err := h.Service.UpdateBooking(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h BookingHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h BookingHandlers) Payments(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.PaymentsForBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

func (h BookingHandlers) Events(w http.ResponseWriter, r *http.Request) {
	evs, err := h.Service.BookingEvents(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteServiceError(w, err, !h.Cfg.IsProd())
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"events": evs})
}
