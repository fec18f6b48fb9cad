package youtube

import (
	"context"

	ytapi "google.golang.org/api/youtube/v3"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
)

// maxPageSize is the largest page the playlistItems endpoint serves
const maxPageSize = 50

// UploadEnumerator lists the most recent uploads of a channel
type UploadEnumerator struct {
	api API
}

// NewUploadEnumerator creates a new UploadEnumerator
func NewUploadEnumerator(api API) *UploadEnumerator {
	return &UploadEnumerator{api: api}
}

// Enumerate returns at most limit video IDs from the channel's uploads collection,
// in the order the service returns them
func (e *UploadEnumerator) Enumerate(ctx context.Context, channelID string, limit int) ([]string, error) {
	if channelID == "" {
		return nil, errors.New(errors.CodeInvalidArg, "channel ID is required")
	}
	if limit < 0 {
		return nil, errors.New(errors.CodeInvalidArg, "limit must not be negative")
	}
	if limit == 0 {
		return []string{}, nil
	}

	uploads, err := e.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, min(limit, maxPageSize))
	pageToken := ""

	for len(videoIDs) < limit {
		pageSize := min(maxPageSize, limit-len(videoIDs))

		page, err := e.api.PlaylistItems(ctx, uploads, int64(pageSize), pageToken)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeExternal, "failed to list uploads of channel "+channelID)
		}

		for _, item := range page.Items {
			id := playlistItemVideoID(item)
			if id == "" {
				continue
			}
			videoIDs = append(videoIDs, id)
			if len(videoIDs) >= limit {
				break
			}
		}

		// A repeated token would request the same page forever
		if page.NextPageToken == "" || page.NextPageToken == pageToken {
			break
		}
		pageToken = page.NextPageToken
	}

	return videoIDs, nil
}

// uploadsPlaylistID resolves the channel's uploads collection
func (e *UploadEnumerator) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	res, err := e.api.ChannelContentDetails(ctx, channelID)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to get content details of channel "+channelID)
	}

	for _, ch := range res.Items {
		if ch.ContentDetails == nil || ch.ContentDetails.RelatedPlaylists == nil {
			continue
		}
		if uploads := ch.ContentDetails.RelatedPlaylists.Uploads; uploads != "" {
			return uploads, nil
		}
	}

	return "", errors.New(errors.CodeNotFound, "uploads collection not found for channel "+channelID)
}

func playlistItemVideoID(item *ytapi.PlaylistItem) string {
	if item == nil {
		return ""
	}
	if item.Snippet != nil && item.Snippet.ResourceId != nil && item.Snippet.ResourceId.VideoId != "" {
		return item.Snippet.ResourceId.VideoId
	}
	if item.ContentDetails != nil {
		return item.ContentDetails.VideoId
	}
	return ""
}
