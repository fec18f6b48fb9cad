package cmd

import (
	"context"
	"fmt"

	"github.com/Taichi-iskw/yt-harvest/cmd/runs"
	"github.com/Taichi-iskw/yt-harvest/internal/config"
	"github.com/Taichi-iskw/yt-harvest/internal/repository"
)

func init() {
	rootCmd.AddCommand(runs.NewRunsCommand(openRunStore))
}

// openRunStore connects to the configured database and returns the harvest run repository
func openRunStore(ctx context.Context) (repository.HarvestRepository, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return repository.NewHarvestRepository(dbPool), dbPool.Close, nil
}
