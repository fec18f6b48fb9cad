package harvest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-harvest/internal/errors"
	"github.com/Taichi-iskw/yt-harvest/internal/model"
	"github.com/Taichi-iskw/yt-harvest/internal/service/caption"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, reference string) (string, error) {
	args := m.Called(ctx, reference)
	return args.String(0), args.Error(1)
}

type mockEnumerator struct {
	mock.Mock
}

func (m *mockEnumerator) Enumerate(ctx context.Context, channelID string, limit int) ([]string, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockStatsFetcher struct {
	mock.Mock
}

func (m *mockStatsFetcher) FetchStats(ctx context.Context, videoIDs []string) (map[string]model.VideoStatistics, error) {
	args := m.Called(ctx, videoIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.VideoStatistics), args.Error(1)
}

// fakeCaptions writes the configured raw caption for a video when fetched
type fakeCaptions struct {
	dir     string
	tracks  map[string]string
	fetched []string
}

func (f *fakeCaptions) Fetch(ctx context.Context, videoID string) bool {
	f.fetched = append(f.fetched, videoID)
	raw, ok := f.tracks[videoID]
	if !ok {
		return false
	}
	return os.WriteFile(f.Path(videoID), []byte(raw), 0644) == nil
}

func (f *fakeCaptions) Path(videoID string) string {
	return filepath.Join(f.dir, videoID+".en.vtt")
}

func TestHarvester_Run(t *testing.T) {
	ctx := context.Background()
	const ref = "https://www.youtube.com/@example"

	resolver := &mockResolver{}
	resolver.On("Resolve", mock.Anything, ref).Return("UCexample", nil)

	enumerator := &mockEnumerator{}
	enumerator.On("Enumerate", mock.Anything, "UCexample", 3).Return([]string{"v1", "v2", "v3"}, nil)

	stats := &mockStatsFetcher{}
	stats.On("FetchStats", mock.Anything, []string{"v1", "v2", "v3"}).
		Return(map[string]model.VideoStatistics{
			"v1": {Title: "One", Views: 10, Likes: 1, Comments: 2},
			"v3": {Title: "Three", Views: 30},
		}, nil)

	captions := &fakeCaptions{
		dir: t.TempDir(),
		tracks: map[string]string{
			"v1": "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n<00:00:00.500>hello<c> there</c>\nhello there\n",
			"v2": "1\n00:00:00.000 --> 00:00:01.000\n",
		},
	}

	var progress [][2]int
	h := NewHarvester(resolver, enumerator, stats, captions, caption.Normalize, zerolog.Nop())
	h.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	h.OnProgress(func(pos, total int) { progress = append(progress, [2]int{pos, total}) })

	result, err := h.Run(ctx, ref, 3)
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "v1", result.Records[0].VideoID)
	assert.Equal(t, "v2", result.Records[1].VideoID)
	assert.Equal(t, "v3", result.Records[2].VideoID)

	require.NotNil(t, result.Records[0].Statistics)
	assert.Equal(t, model.VideoStatistics{Title: "One", Views: 10, Likes: 1, Comments: 2}, *result.Records[0].Statistics)
	require.NotNil(t, result.Records[0].Subtitles)
	assert.Equal(t, "WEBVTT hello there", *result.Records[0].Subtitles)

	// statistics missing, caption present but empty after cleaning
	assert.Nil(t, result.Records[1].Statistics)
	require.NotNil(t, result.Records[1].Subtitles)
	assert.Equal(t, "", *result.Records[1].Subtitles)

	// no caption artifact
	require.NotNil(t, result.Records[2].Statistics)
	assert.Nil(t, result.Records[2].Subtitles)

	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
	assert.Equal(t, []string{"v1", "v2", "v3"}, captions.fetched)

	assert.Equal(t, "UCexample", result.Run.ChannelID)
	assert.Equal(t, ref, result.Run.ChannelRef)
	assert.Equal(t, 3, result.Run.RequestedLimit)
	assert.Equal(t, 3, result.Run.RecordCount)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.Run.ID.String())

	out, err := json.Marshal(result.Records[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"video_id":"v2","subtitles_en":""}`, string(out))

	out, err = json.Marshal(result.Records[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"video_id":"v3","title":"Three","views":30,"likes":0,"comments":0,"subtitles_en":null}`, string(out))
}

func TestHarvester_RunResolverFailureIsFatal(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Resolve", mock.Anything, "@nobody").
		Return("", apperrors.New(apperrors.CodeNotFound, "channel not found: @nobody"))

	enumerator := &mockEnumerator{}
	stats := &mockStatsFetcher{}
	captions := &fakeCaptions{dir: t.TempDir()}

	h := NewHarvester(resolver, enumerator, stats, captions, caption.Normalize, zerolog.Nop())
	result, err := h.Run(context.Background(), "@nobody", 5)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	enumerator.AssertNotCalled(t, "Enumerate", mock.Anything, mock.Anything, mock.Anything)
	stats.AssertNotCalled(t, "FetchStats", mock.Anything, mock.Anything)
	assert.Empty(t, captions.fetched)
}

func TestHarvester_RunStatsFailureIsFatal(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Resolve", mock.Anything, "@x").Return("UCx", nil)
	enumerator := &mockEnumerator{}
	enumerator.On("Enumerate", mock.Anything, "UCx", 2).Return([]string{"a", "b"}, nil)
	stats := &mockStatsFetcher{}
	stats.On("FetchStats", mock.Anything, []string{"a", "b"}).
		Return(nil, apperrors.Wrap(assert.AnError, apperrors.CodeExternal, "failed to fetch video statistics"))
	captions := &fakeCaptions{dir: t.TempDir()}

	h := NewHarvester(resolver, enumerator, stats, captions, caption.Normalize, zerolog.Nop())
	_, err := h.Run(context.Background(), "@x", 2)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeExternal))
	assert.Empty(t, captions.fetched)
}

func TestHarvester_RunZeroVideos(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Resolve", mock.Anything, "https://www.youtube.com/channel/UCempty").Return("UCempty", nil)
	enumerator := &mockEnumerator{}
	enumerator.On("Enumerate", mock.Anything, "UCempty", 0).Return([]string{}, nil)
	stats := &mockStatsFetcher{}
	stats.On("FetchStats", mock.Anything, []string{}).Return(map[string]model.VideoStatistics{}, nil)

	h := NewHarvester(resolver, enumerator, stats, &fakeCaptions{dir: t.TempDir()}, caption.Normalize, zerolog.Nop())
	result, err := h.Run(context.Background(), "https://www.youtube.com/channel/UCempty", 0)

	require.NoError(t, err)
	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
}

func TestHarvester_RunNegativeLimit(t *testing.T) {
	resolver := &mockResolver{}
	h := NewHarvester(resolver, &mockEnumerator{}, &mockStatsFetcher{}, &fakeCaptions{dir: t.TempDir()}, caption.Normalize, zerolog.Nop())

	_, err := h.Run(context.Background(), "@x", -1)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArg))
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

// cancelingCaptions cancels the run context while fetching the first video
type cancelingCaptions struct {
	fakeCaptions
	cancel context.CancelFunc
}

func (c *cancelingCaptions) Fetch(ctx context.Context, videoID string) bool {
	if len(c.fetched) == 0 {
		c.cancel()
	}
	return c.fakeCaptions.Fetch(ctx, videoID)
}

func newThreeVideoMocks() (*mockResolver, *mockEnumerator, *mockStatsFetcher) {
	resolver := &mockResolver{}
	resolver.On("Resolve", mock.Anything, "@example").Return("UCexample", nil)
	enumerator := &mockEnumerator{}
	enumerator.On("Enumerate", mock.Anything, "UCexample", 3).Return([]string{"v1", "v2", "v3"}, nil)
	stats := &mockStatsFetcher{}
	stats.On("FetchStats", mock.Anything, []string{"v1", "v2", "v3"}).
		Return(map[string]model.VideoStatistics{}, nil)
	return resolver, enumerator, stats
}

func TestHarvester_RunStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolver, enumerator, stats := newThreeVideoMocks()
	captions := &cancelingCaptions{
		fakeCaptions: fakeCaptions{dir: t.TempDir()},
		cancel:       cancel,
	}

	h := NewHarvester(resolver, enumerator, stats, captions, caption.Normalize, zerolog.Nop())
	result, err := h.Run(ctx, "@example", 3)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "harvest interrupted at video 1/3")
	assert.Equal(t, []string{"v1"}, captions.fetched)
}

func TestHarvester_RunDeadlineIsTimeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	resolver, enumerator, stats := newThreeVideoMocks()
	h := NewHarvester(resolver, enumerator, stats, &fakeCaptions{dir: t.TempDir()}, caption.Normalize, zerolog.Nop())

	_, err := h.Run(ctx, "@example", 3)

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTimeout, apperrors.CodeOf(err))
}

func TestHarvester_RunIgnoresArtifactWhenFetchFails(t *testing.T) {
	resolver, enumerator, stats := newThreeVideoMocks()
	captions := &fakeCaptions{
		dir:    t.TempDir(),
		tracks: map[string]string{"v2": "fresh caption\n"},
	}
	// left over from an earlier run; this run's fetch of v1 fails
	require.NoError(t, os.WriteFile(captions.Path("v1"), []byte("stale caption\n"), 0644))

	h := NewHarvester(resolver, enumerator, stats, captions, caption.Normalize, zerolog.Nop())
	result, err := h.Run(context.Background(), "@example", 3)

	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Nil(t, result.Records[0].Subtitles)
	require.NotNil(t, result.Records[1].Subtitles)
	assert.Equal(t, "fresh caption", *result.Records[1].Subtitles)
	assert.Nil(t, result.Records[2].Subtitles)
}
