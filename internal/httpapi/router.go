package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"hostelbooking/internal/api"
	"hostelbooking/internal/reservation"
	"hostelbooking/pkg/config"
)

type Dependencies struct {
	Cfg     config.Config
	Service *reservation.Service
	Log     *logrus.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(api.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	bookingHandlers := BookingHandlers{Cfg: deps.Cfg, Service: deps.Service}
	paymentHandlers := PaymentHandlers{Cfg: deps.Cfg, Service: deps.Service}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandlers.Create)
			r.Get("/", bookingHandlers.List)
			r.Get("/{id}", bookingHandlers.Get)
			r.Patch("/{id}", bookingHandlers.Patch)
			r.Delete("/{id}", bookingHandlers.Delete)
			r.Get("/{id}/payments", bookingHandlers.Payments)
			r.Get("/{id}/events", bookingHandlers.Events)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", paymentHandlers.Create)
			r.Get("/", paymentHandlers.List)
			r.Get("/{id}", paymentHandlers.Get)
			r.Patch("/{id}", paymentHandlers.Patch)
			r.Delete("/{id}", paymentHandlers.Delete)
		})
	})

	return r
}
