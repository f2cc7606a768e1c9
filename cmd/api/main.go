package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hostelbooking/internal/httpapi"
	"hostelbooking/internal/reference"
	"hostelbooking/internal/reservation"
	"hostelbooking/pkg/config"
	"hostelbooking/pkg/db"
	"hostelbooking/pkg/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("db open")
	}
	defer conn.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	svc := reservation.NewService(
		reservation.NewPGStore(conn),
		reference.NewSet(cfg.Booking.BookingRefPrefix, cfg.Booking.PaymentRefPrefix),
		log,
	)
	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:     cfg,
		Service: svc,
		Log:     log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http serve")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
}
