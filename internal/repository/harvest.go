package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Taichi-iskw/yt-harvest/internal/model"
)

// HarvestRepository defines operations for harvest run persistence
type HarvestRepository interface {
	// SaveRun stores a run and all of its records in one transaction
	SaveRun(ctx context.Context, result *model.HarvestResult) error

	// GetRun retrieves a run header by its ID
	GetRun(ctx context.Context, id uuid.UUID) (*model.HarvestRun, error)

	// ListRuns retrieves run headers, newest first, with pagination
	ListRuns(ctx context.Context, limit, offset int) ([]*model.HarvestRun, error)

	// ListRecords retrieves the records of a run in enumeration order
	ListRecords(ctx context.Context, runID uuid.UUID) ([]model.HarvestRecord, error)
}
