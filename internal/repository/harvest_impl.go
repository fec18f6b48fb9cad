package repository

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/model"
)

var recordColumns = []string{"run_id", "position", "video_id", "title", "views", "likes", "comments", "subtitles_en"}

// harvestRepository implements HarvestRepository using PostgreSQL
type harvestRepository struct {
	pool Pool
}

// NewHarvestRepository creates a new instance of HarvestRepository
func NewHarvestRepository(pool Pool) HarvestRepository {
	return &harvestRepository{
		pool: pool,
	}
}

// SaveRun inserts the run header, then bulk loads its records using COPY FROM
func (r *harvestRepository) SaveRun(ctx context.Context, result *model.HarvestResult) error {
	if result == nil {
		return apperrors.New(apperrors.CodeInvalidArg, "harvest result is nil")
	}
	run := result.Run
	if run.ID == uuid.Nil {
		return apperrors.New(apperrors.CodeInvalidArg, "harvest run has no ID")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return handlePostgreSQLError(err, "failed to begin transaction")
	}

	sql := "INSERT INTO harvest_runs (id, channel_id, channel_ref, requested_limit, record_count, created_at) VALUES ($1, $2, $3, $4, $5, $6)"
	_, err = tx.Exec(ctx, sql, run.ID.String(), run.ChannelID, run.ChannelRef, run.RequestedLimit, len(result.Records), run.CreatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		return handlePostgreSQLError(err, "failed to create harvest run")
	}

	if len(result.Records) > 0 {
		rows := make([][]any, len(result.Records))
		for i, rec := range result.Records {
			rows[i] = recordRow(run.ID, i, rec)
		}

		_, err = tx.CopyFrom(ctx, pgx.Identifier{"harvest_records"}, recordColumns, pgx.CopyFromRows(rows))
		if err != nil {
			_ = tx.Rollback(ctx)
			return handlePostgreSQLError(err, "failed to create harvest records using COPY FROM")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return handlePostgreSQLError(err, "failed to commit harvest run")
	}

	return nil
}

// recordRow flattens a record into COPY FROM column order; absent values become NULL
func recordRow(runID uuid.UUID, position int, rec model.HarvestRecord) []any {
	row := []any{runID.String(), position, rec.VideoID, nil, nil, nil, nil, nil}
	if s := rec.Statistics; s != nil {
		row[3] = s.Title
		row[4] = toBigint(s.Views)
		row[5] = toBigint(s.Likes)
		row[6] = toBigint(s.Comments)
	}
	if rec.Subtitles != nil {
		row[7] = *rec.Subtitles
	}
	return row
}

// toBigint clamps a counter into the BIGINT range
func toBigint(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// GetRun retrieves a run header by its ID
func (r *harvestRepository) GetRun(ctx context.Context, id uuid.UUID) (*model.HarvestRun, error) {
	sql := "SELECT id::text, channel_id, channel_ref, requested_limit, record_count, created_at FROM harvest_runs WHERE id = $1"
	row := r.pool.QueryRow(ctx, sql, id.String())

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "harvest run not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get harvest run")
	}

	return run, nil
}

// ListRuns retrieves run headers, newest first, with pagination
func (r *harvestRepository) ListRuns(ctx context.Context, limit, offset int) ([]*model.HarvestRun, error) {
	if limit <= 0 || offset < 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "limit must be positive and offset non-negative")
	}

	sql := "SELECT id::text, channel_id, channel_ref, requested_limit, record_count, created_at FROM harvest_runs ORDER BY created_at DESC, id LIMIT $1 OFFSET $2"
	rows, err := r.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list harvest runs")
	}
	defer rows.Close()

	runs := []*model.HarvestRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan harvest run row")
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate harvest run rows")
	}

	return runs, nil
}

// ListRecords retrieves the records of a run in enumeration order
func (r *harvestRepository) ListRecords(ctx context.Context, runID uuid.UUID) ([]model.HarvestRecord, error) {
	sql := "SELECT video_id, title, views, likes, comments, subtitles_en FROM harvest_records WHERE run_id = $1 ORDER BY position"
	rows, err := r.pool.Query(ctx, sql, runID.String())
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list harvest records")
	}
	defer rows.Close()

	records := []model.HarvestRecord{}
	for rows.Next() {
		var (
			rec                    model.HarvestRecord
			title                  *string
			views, likes, comments *int64
		)
		if err := rows.Scan(&rec.VideoID, &title, &views, &likes, &comments, &rec.Subtitles); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan harvest record row")
		}
		if title != nil || views != nil || likes != nil || comments != nil {
			rec.Statistics = &model.VideoStatistics{
				Title:    deref(title),
				Views:    uint64(deref(views)),
				Likes:    uint64(deref(likes)),
				Comments: uint64(deref(comments)),
			}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate harvest record rows")
	}

	return records, nil
}

func scanRun(row pgx.Row) (*model.HarvestRun, error) {
	var (
		run model.HarvestRun
		id  string
	)
	if err := row.Scan(&id, &run.ChannelID, &run.ChannelRef, &run.RequestedLimit, &run.RecordCount, &run.CreatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	run.ID = parsed

	return &run, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
