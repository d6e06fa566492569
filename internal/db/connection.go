// Package db provides the Postgres connection pool and schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk/ledger/internal/config"

	// Import postgres driver for registration with database/sql
	_ "github.com/lib/pq"
)

// Connect opens the pool, applies pool limits and verifies the connection.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Msg("connecting to database")

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Dur("conn_max_lifetime", cfg.ConnMaxLifetime).
		Msg("connected to database")

	return db, nil
}
