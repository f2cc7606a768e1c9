package main

import (
	"context"

	"hostelbooking/pkg/config"
	"hostelbooking/pkg/db"
	"hostelbooking/pkg/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg)
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	// Uses DIRECT_URL if set.
	if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	// Sanity check that the runtime connection opens too. DSNs are not logged.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("runtime db open failed")
	}
	pool.Close()

	log.WithField("path", cfg.MigrationsPath).Info("migrations applied")
}
