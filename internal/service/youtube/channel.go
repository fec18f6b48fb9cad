package youtube

import (
	"context"
	"strings"

	"github.com/Taichi-iskw/yt-harvest/internal/errors"
)

const channelSegment = "/channel/"

// ChannelResolver turns an operator-supplied channel reference into a channel ID
type ChannelResolver struct {
	api API
}

// NewChannelResolver creates a new ChannelResolver
func NewChannelResolver(api API) *ChannelResolver {
	return &ChannelResolver{api: api}
}

// Resolve returns the channel ID named by reference.
// References containing a /channel/<id> segment resolve without a network call;
// anything else is looked up by handle, requesting a single search result.
func (r *ChannelResolver) Resolve(ctx context.Context, reference string) (string, error) {
	ref := normalizeReference(reference)
	if ref == "" {
		return "", errors.New(errors.CodeInvalidArg, "channel reference is required")
	}

	if id, ok := ChannelIDFromReference(ref); ok {
		return id, nil
	}
	if strings.Contains(ref, channelSegment) {
		return "", errors.New(errors.CodeInvalidArg, "channel reference has an empty channel ID: "+reference)
	}

	handle := HandleFromReference(ref)
	if handle == "" {
		return "", errors.New(errors.CodeInvalidArg, "channel reference has no handle: "+reference)
	}

	res, err := r.api.SearchChannels(ctx, handle, 1)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternal, "failed to search channel "+handle)
	}

	for _, item := range res.Items {
		if item.Snippet != nil && item.Snippet.ChannelId != "" {
			return item.Snippet.ChannelId, nil
		}
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}

	return "", errors.New(errors.CodeNotFound, "channel not found: "+handle)
}

// ChannelIDFromReference extracts the ID from a reference with an explicit /channel/<id> segment
func ChannelIDFromReference(reference string) (string, bool) {
	ref := normalizeReference(reference)
	idx := strings.Index(ref, channelSegment)
	if idx < 0 {
		return "", false
	}

	id, _, _ := strings.Cut(ref[idx+len(channelSegment):], "/")
	if id == "" {
		return "", false
	}
	return id, true
}

// HandleFromReference returns the last non-empty path segment of reference
func HandleFromReference(reference string) string {
	ref := strings.TrimRight(normalizeReference(reference), "/")
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

// normalizeReference drops surrounding whitespace, the query string and the fragment
func normalizeReference(reference string) string {
	ref := strings.TrimSpace(reference)
	if idx := strings.IndexAny(ref, "?#"); idx >= 0 {
		ref = ref[:idx]
	}
	return ref
}
