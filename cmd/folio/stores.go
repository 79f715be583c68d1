package main

import (
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/folio/internal/config"
	"github.com/alfredjeanlab/folio/internal/events"
	"github.com/alfredjeanlab/folio/internal/store"
	"github.com/alfredjeanlab/folio/internal/store/memory"
	"github.com/alfredjeanlab/folio/internal/store/postgres"
)

// openStore returns the Postgres store when FOLIO_DATABASE_URL is set and an
// in-memory store, optionally seeded from FOLIO_FIXTURE, otherwise.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		s, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Info("store: postgres")
		return s, nil
	}
	if cfg.Fixture == "" {
		logger.Warn("store: in-memory with no fixture (FOLIO_FIXTURE not set)")
		return memory.New(), nil
	}
	f, err := store.LoadFixture(cfg.Fixture)
	if err != nil {
		return nil, err
	}
	s, err := memory.NewFromFixture(f)
	if err != nil {
		return nil, err
	}
	logger.Info("store: in-memory", "fixture", cfg.Fixture, "profiles", len(f.Profiles))
	return s, nil
}

// openPublisher connects to NATS when FOLIO_NATS_URL is set.
func openPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		logger.Info("events disabled (FOLIO_NATS_URL not set)")
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info("events enabled", "nats_url", cfg.NATSURL)
	return pub, nil
}
