package youtube

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
)

// WatchURL returns the canonical watch page URL of a video
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// API is the subset of the YouTube Data API the harvester consumes
type API interface {
	// SearchChannels searches channels matching query
	SearchChannels(ctx context.Context, query string, maxResults int64) (*ytapi.SearchListResponse, error)

	// ChannelContentDetails fetches contentDetails (related playlists) of a channel
	ChannelContentDetails(ctx context.Context, channelID string) (*ytapi.ChannelListResponse, error)

	// PlaylistItems fetches one page of a playlist; pageToken is empty for the first page
	PlaylistItems(ctx context.Context, playlistID string, maxResults int64, pageToken string) (*ytapi.PlaylistItemListResponse, error)

	// Videos fetches snippet and statistics for up to 50 video IDs
	Videos(ctx context.Context, ids []string) (*ytapi.VideoListResponse, error)
}

// dataAPI implements API on top of the generated YouTube client
type dataAPI struct {
	svc *ytapi.Service
}

// NewService creates a YouTube Data API client authenticated with an API key
func NewService(ctx context.Context, apiKey string) (*ytapi.Service, error) {
	if apiKey == "" {
		return nil, errors.New(errors.CodeInvalidArg, "YouTube API key is required (set api_key or YOUTUBE_API_KEY)")
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	svc, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey), option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to create YouTube service")
	}
	return svc, nil
}

// NewAPI creates an API backed by svc
func NewAPI(svc *ytapi.Service) API {
	return &dataAPI{svc: svc}
}

func (a *dataAPI) SearchChannels(ctx context.Context, query string, maxResults int64) (*ytapi.SearchListResponse, error) {
	return a.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults).
		Context(ctx).
		Do()
}

func (a *dataAPI) ChannelContentDetails(ctx context.Context, channelID string) (*ytapi.ChannelListResponse, error) {
	return a.svc.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
}

func (a *dataAPI) PlaylistItems(ctx context.Context, playlistID string, maxResults int64, pageToken string) (*ytapi.PlaylistItemListResponse, error) {
	call := a.svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(maxResults).
		Context(ctx)

	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	return call.Do()
}

func (a *dataAPI) Videos(ctx context.Context, ids []string) (*ytapi.VideoListResponse, error) {
	return a.svc.Videos.List([]string{"snippet", "statistics"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
}
