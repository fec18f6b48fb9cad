package config

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/Taichi-iskw/yt-harvest/internal/errors"
)

// connectTimeout bounds pool creation and the initial ping
const connectTimeout = 10 * time.Second

// NewDatabasePool creates a PostgreSQL connection pool for the harvest run store.
// A missing database URL is an InvalidArg error; an unreachable server is a Dependency error.
func NewDatabasePool(ctx context.Context, config *Config) (*pgxpool.Pool, error) {
	dbConfig, err := config.ParseDatabaseConfig()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "failed to parse database config")
	}

	poolConfig, err := pgxpool.ParseConfig(dbConfig.ConnectionString())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "failed to parse database config")
	}

	poolConfig.MaxConns = dbConfig.MaxConns
	poolConfig.MinConns = dbConfig.MinConns
	poolConfig.MaxConnLifetime = dbConfig.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbConfig.MaxConnIdleTime
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "ytharvest"

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDependency, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeDependency, "failed to ping database")
	}

	return pool, nil
}
