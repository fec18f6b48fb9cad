package harvest

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/model"
)

// ChannelResolver resolves an operator channel reference to a channel ID
type ChannelResolver interface {
	Resolve(ctx context.Context, reference string) (string, error)
}

// UploadEnumerator lists up to limit upload IDs of a channel
type UploadEnumerator interface {
	Enumerate(ctx context.Context, channelID string, limit int) ([]string, error)
}

// StatsFetcher maps video IDs to statistics; unknown videos are absent
type StatsFetcher interface {
	FetchStats(ctx context.Context, videoIDs []string) (map[string]model.VideoStatistics, error)
}

// CaptionFetcher produces a caption artifact per video, best-effort
type CaptionFetcher interface {
	Fetch(ctx context.Context, videoID string) bool
	Path(videoID string) string
}

// ProgressFunc is notified once per video before it is processed
type ProgressFunc func(position, total int)

// Harvester runs the harvesting pipeline for one channel
type Harvester struct {
	resolver   ChannelResolver
	enumerator UploadEnumerator
	stats      StatsFetcher
	captions   CaptionFetcher
	normalize  func(string) string
	progress   ProgressFunc
	logger     zerolog.Logger
	now        func() time.Time
}

// NewHarvester creates a new Harvester
func NewHarvester(
	resolver ChannelResolver,
	enumerator UploadEnumerator,
	stats StatsFetcher,
	captions CaptionFetcher,
	normalize func(string) string,
	logger zerolog.Logger,
) *Harvester {
	return &Harvester{
		resolver:   resolver,
		enumerator: enumerator,
		stats:      stats,
		captions:   captions,
		normalize:  normalize,
		progress:   func(int, int) {},
		logger:     logger,
		now:        time.Now,
	}
}

// OnProgress sets the per-video progress callback
func (h *Harvester) OnProgress(fn ProgressFunc) {
	if fn == nil {
		fn = func(int, int) {}
	}
	h.progress = fn
}

// Run harvests up to limit videos of the channel named by channelRef.
// A resolution, enumeration or statistics error aborts the run; a missing caption or
// missing statistics only leaves the corresponding record fields empty.
func (h *Harvester) Run(ctx context.Context, channelRef string, limit int) (*model.HarvestResult, error) {
	if limit < 0 {
		return nil, errors.New(errors.CodeInvalidArg, "limit must not be negative")
	}

	run := model.HarvestRun{
		ID:             uuid.New(),
		ChannelRef:     channelRef,
		RequestedLimit: limit,
		CreatedAt:      h.now().UTC(),
	}
	logger := h.logger.With().Str("run_id", run.ID.String()).Logger()

	channelID, err := h.resolver.Resolve(ctx, channelRef)
	if err != nil {
		return nil, err
	}
	run.ChannelID = channelID
	logger.Info().Str("channel_id", channelID).Msg("channel resolved")

	videoIDs, err := h.enumerator.Enumerate(ctx, channelID, limit)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("videos", len(videoIDs)).Msg("uploads enumerated")

	stats, err := h.stats.FetchStats(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	records := make([]model.HarvestRecord, 0, len(videoIDs))
	for i, videoID := range videoIDs {
		h.progress(i+1, len(videoIDs))

		record := model.HarvestRecord{VideoID: videoID}
		if s, ok := stats[videoID]; ok {
			record.Statistics = &s
		} else {
			logger.Debug().Str("video_id", videoID).Msg("no statistics returned")
		}

		if h.captions.Fetch(ctx, videoID) {
			record.Subtitles = h.readCaption(logger, videoID)
		}

		// Fetch swallows a canceled context, so the rest of the run would only record null captions
		if err := ctx.Err(); err != nil {
			return nil, interrupted(err, i+1, len(videoIDs))
		}

		records = append(records, record)
	}

	run.RecordCount = len(records)
	return &model.HarvestResult{Run: run, Records: records}, nil
}

// readCaption returns the normalized caption of videoID, or nil when no artifact exists
func (h *Harvester) readCaption(logger zerolog.Logger, videoID string) *string {
	path := h.captions.Path(videoID)

	raw, err := os.ReadFile(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("video_id", videoID).Str("path", path).Msg("failed to read caption artifact")
		}
		return nil
	}

	text := h.normalize(string(raw))
	return &text
}

func interrupted(err error, position, total int) error {
	msg := fmt.Sprintf("harvest interrupted at video %d/%d", position, total)
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeTimeout, msg)
	}
	return errors.Wrap(err, errors.CodeInternal, msg)
}
