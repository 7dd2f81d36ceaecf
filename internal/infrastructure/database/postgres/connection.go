package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"credit-engine/internal/config"
)

const (
	poolMaxConns          = 10
	poolMaxConnIdleTime   = 5 * time.Minute
	poolHealthCheckPeriod = time.Minute

	pingAttempts = 3
	pingTimeout  = 5 * time.Second
)

// NewConnectionPool opens a pgx pool against the configured URL and verifies
// connectivity before handing it out. The decision path takes row locks, so a
// dead pool at startup is a hard failure rather than something to limp past.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty in configuration")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}
	poolConfig.MaxConns = poolMaxConns
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime
	poolConfig.HealthCheckPeriod = poolHealthCheckPeriod

	logger.Info("Connecting to PostgreSQL", "host", poolConfig.ConnConfig.Host, "db", poolConfig.ConnConfig.Database)
	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pingWithRetry(ctx, dbpool, logger); err != nil {
		dbpool.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connection established")
	return dbpool, nil
}

func pingWithRetry(ctx context.Context, dbpool *pgxpool.Pool, logger *slog.Logger) error {
	var lastErr error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = dbpool.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}

		logger.Warn("Database ping failed", "attempt", attempt, "error", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return fmt.Errorf("failed to ping database after %d attempts: %w", pingAttempts, lastErr)
}
