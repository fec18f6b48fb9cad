package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Channel represents a resolved YouTube channel
type Channel struct {
	ID        string `json:"id" db:"id"`
	Reference string `json:"reference" db:"reference"` // reference as supplied by the operator
}

// VideoStatistics holds the metadata and engagement counters of one video
type VideoStatistics struct {
	Title    string `json:"title" db:"title"`
	Views    uint64 `json:"views" db:"views"`
	Likes    uint64 `json:"likes" db:"likes"`
	Comments uint64 `json:"comments" db:"comments"`
}

// HarvestRecord is the output row for one enumerated video.
// Statistics is nil when the metadata service did not return the video;
// Subtitles is nil when no caption artifact was produced.
type HarvestRecord struct {
	VideoID    string
	Statistics *VideoStatistics
	Subtitles  *string
}

// harvestRecordJSON is the flattened wire shape of HarvestRecord
type harvestRecordJSON struct {
	VideoID   string  `json:"video_id"`
	Title     *string `json:"title,omitempty"`
	Views     *uint64 `json:"views,omitempty"`
	Likes     *uint64 `json:"likes,omitempty"`
	Comments  *uint64 `json:"comments,omitempty"`
	Subtitles *string `json:"subtitles_en"`
}

// MarshalJSON flattens statistics into the record and always emits subtitles_en
func (r HarvestRecord) MarshalJSON() ([]byte, error) {
	out := harvestRecordJSON{
		VideoID:   r.VideoID,
		Subtitles: r.Subtitles,
	}
	if s := r.Statistics; s != nil {
		out.Title = &s.Title
		out.Views = &s.Views
		out.Likes = &s.Likes
		out.Comments = &s.Comments
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON; statistics are present when any statistics field is
func (r *HarvestRecord) UnmarshalJSON(data []byte) error {
	var in harvestRecordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = HarvestRecord{VideoID: in.VideoID, Subtitles: in.Subtitles}
	if in.Title == nil && in.Views == nil && in.Likes == nil && in.Comments == nil {
		return nil
	}

	stats := &VideoStatistics{}
	if in.Title != nil {
		stats.Title = *in.Title
	}
	if in.Views != nil {
		stats.Views = *in.Views
	}
	if in.Likes != nil {
		stats.Likes = *in.Likes
	}
	if in.Comments != nil {
		stats.Comments = *in.Comments
	}
	r.Statistics = stats
	return nil
}

// HarvestRun describes one execution of the harvesting pipeline
type HarvestRun struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ChannelID      string    `json:"channel_id" db:"channel_id"`
	ChannelRef     string    `json:"channel_ref" db:"channel_ref"`
	RequestedLimit int       `json:"requested_limit" db:"requested_limit"`
	RecordCount    int       `json:"record_count" db:"record_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// HarvestResult is the assembled artifact of a run, records in enumeration order
type HarvestResult struct {
	Run     HarvestRun
	Records []HarvestRecord
}
