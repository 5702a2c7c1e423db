package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"skillshare/internal/config"
)

// Connect opens the Postgres database that backs the shared session store.
func Connect(cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	if cfg.DBHost == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("missing database configuration")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if logger != nil {
		logger.Info("connected to database", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	}
	return db, nil
}
