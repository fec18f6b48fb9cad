package youtube

import (
	"context"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/model"
)

// maxBatchSize is the most IDs videos.list accepts per call
const maxBatchSize = 50

// StatisticsBatcher fetches video metadata and statistics in bounded batches
type StatisticsBatcher struct {
	api API
}

// NewStatisticsBatcher creates a new StatisticsBatcher
func NewStatisticsBatcher(api API) *StatisticsBatcher {
	return &StatisticsBatcher{api: api}
}

// FetchStats maps each video the service recognizes to its statistics.
// Deleted or private videos are simply absent from the result.
func (b *StatisticsBatcher) FetchStats(ctx context.Context, videoIDs []string) (map[string]model.VideoStatistics, error) {
	stats := make(map[string]model.VideoStatistics, len(videoIDs))

	for start := 0; start < len(videoIDs); start += maxBatchSize {
		end := min(start+maxBatchSize, len(videoIDs))

		res, err := b.api.Videos(ctx, videoIDs[start:end])
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeExternal, "failed to fetch video statistics")
		}

		for _, v := range res.Items {
			if v == nil || v.Id == "" {
				continue
			}

			// Hidden counters are omitted by the service and default to zero
			var s model.VideoStatistics
			if v.Snippet != nil {
				s.Title = v.Snippet.Title
			}
			if v.Statistics != nil {
				s.Views = v.Statistics.ViewCount
				s.Likes = v.Statistics.LikeCount
				s.Comments = v.Statistics.CommentCount
			}
			stats[v.Id] = s
		}
	}

	return stats, nil
}
