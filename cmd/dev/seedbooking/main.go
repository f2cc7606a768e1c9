package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"hostelbooking/internal/reference"
	"hostelbooking/internal/reservation"
	"hostelbooking/pkg/config"
	"hostelbooking/pkg/db"
	"hostelbooking/pkg/logging"
)

func main() {
	var (
		fullName = flag.String("name", "Jane Doe", "guest full name")
		email    = flag.String("email", "", "guest email")
		room     = flag.String("room", "A101", "room number")
		hostel   = flag.String("hostel", "", "hostel name")
		checkIn  = flag.String("check-in", time.Now().UTC().Format("2006-01-02"), "check-in date (YYYY-MM-DD)")
		duration = flag.String("duration", "1", "stay length in days")
		fee      = flag.String("fee", "100", "booking fee, recorded as the initial completed payment")
		method   = flag.String("method", "cash", "payment method (cash|card|mobile|bank_transfer)")
		status   = flag.String("status", "", "initial booking status (default pending)")
	)
	flag.Parse()

	cfg := config.Load()
	log := logging.New(cfg)
	ctx := context.Background()

	pool, err := db.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("db open")
	}
	defer pool.Close()

	if cfg.MigrationsPath != "" {
		if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
			log.WithError(err).Fatal("migrate")
		}
	}

	svc := reservation.NewService(
		reservation.NewPGStore(pool),
		reference.NewSet(cfg.Booking.BookingRefPrefix, cfg.Booking.PaymentRefPrefix),
		log,
	)

	created, err := svc.CreateBookingWithPayment(ctx, reservation.CreateBookingInput{
		FullName:      *fullName,
		Email:         *email,
		RoomNumber:    *room,
		HostelName:    *hostel,
		CheckIn:       *checkIn,
		Duration:      *duration,
		BookingFee:    *fee,
		PaymentMethod: *method,
		Status:        *status,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create booking: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(created)
}
