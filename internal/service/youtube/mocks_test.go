package youtube

import (
	"context"

	"github.com/stretchr/testify/mock"
	ytapi "google.golang.org/api/youtube/v3"
)

// mockAPI is a mock implementation of API for testing
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) SearchChannels(ctx context.Context, query string, maxResults int64) (*ytapi.SearchListResponse, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ytapi.SearchListResponse), args.Error(1)
}

func (m *mockAPI) ChannelContentDetails(ctx context.Context, channelID string) (*ytapi.ChannelListResponse, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ytapi.ChannelListResponse), args.Error(1)
}

func (m *mockAPI) PlaylistItems(ctx context.Context, playlistID string, maxResults int64, pageToken string) (*ytapi.PlaylistItemListResponse, error) {
	args := m.Called(ctx, playlistID, maxResults, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ytapi.PlaylistItemListResponse), args.Error(1)
}

func (m *mockAPI) Videos(ctx context.Context, ids []string) (*ytapi.VideoListResponse, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ytapi.VideoListResponse), args.Error(1)
}

// uploadsResponse builds a channels.list response carrying an uploads playlist ID
func uploadsResponse(uploads string) *ytapi.ChannelListResponse {
	return &ytapi.ChannelListResponse{
		Items: []*ytapi.Channel{{
			ContentDetails: &ytapi.ChannelContentDetails{
				RelatedPlaylists: &ytapi.ChannelContentDetailsRelatedPlaylists{Uploads: uploads},
			},
		}},
	}
}

// playlistPage builds a playlistItems.list page with the given video IDs
func playlistPage(nextPageToken string, videoIDs ...string) *ytapi.PlaylistItemListResponse {
	items := make([]*ytapi.PlaylistItem, len(videoIDs))
	for i, id := range videoIDs {
		items[i] = &ytapi.PlaylistItem{
			Snippet: &ytapi.PlaylistItemSnippet{
				ResourceId: &ytapi.ResourceId{Kind: "youtube#video", VideoId: id},
			},
		}
	}
	return &ytapi.PlaylistItemListResponse{Items: items, NextPageToken: nextPageToken}
}
