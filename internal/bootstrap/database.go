package bootstrap

import (
	"log"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/store"
)

// initializeDatabase opens the store, runs migrations and seeds demo data
// when enabled.
func initializeDatabase(cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	log.Printf("Database ready (driver=%s)", cfg.DatabaseDriver)

	if cfg.SeedDemoData {
		if err := db.SeedDemoData(); err != nil {
			log.Printf("Warning: failed to seed demo data: %v", err)
		}
	}

	return db, nil
}
