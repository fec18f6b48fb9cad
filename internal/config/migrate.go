package config

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Taichi-iskw/yt-harvest/migrations"
)

// RunMigrations applies all embedded migrations to the database at databaseURL.
// It returns the schema version after the run.
func RunMigrations(databaseURL string) (uint, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	return version, nil
}

// MigrateDatabase runs migrations against the configured database
func (c *Config) MigrateDatabase() (uint, error) {
	dbConfig, err := c.ParseDatabaseConfig()
	if err != nil {
		return 0, fmt.Errorf("failed to parse database config: %w", err)
	}
	return RunMigrations(dbConfig.URL())
}
