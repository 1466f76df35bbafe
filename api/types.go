package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Quality tokens understood by the backend in place of a format id.
const (
	BestVideo = "bestvideo"
	BestAudio = "bestaudio"
)

// Job statuses reported by the backend.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "error"
)

type listFormatsRequest struct {
	Link string `json:"link"`
}

type listFormatsResponse struct {
	Formats []json.RawMessage `json:"formats"`
	Results []json.RawMessage `json:"results"`
}

// DownloadRequest asks for an immediate download.
type DownloadRequest struct {
	URL          string `json:"youtube_url" jsonschema:"description=Source video URL"`
	VideoQuality string `json:"video_quality" jsonschema:"description=Video format id or bestvideo"`
	AudioQuality string `json:"audio_quality" jsonschema:"description=Audio format id or bestaudio"`
}

// DownloadResponse carries whatever the backend knows about the started download.
type DownloadResponse struct {
	FilePath string `json:"file_path,omitempty"`
	TaskID   string `json:"task_id,omitempty"`
}

// ScheduleRequest asks for a download at an absolute instant.
type ScheduleRequest struct {
	DownloadRequest
	// ScheduledTime is an RFC 3339 UTC timestamp.
	ScheduledTime string `json:"scheduled_time" jsonschema:"description=Absolute UTC instant (RFC 3339)"`
}

type ScheduleResponse struct {
	TaskID string `json:"task_id"`
}

// Job is a download task as the backend reports it.
type Job struct {
	TaskID        string    `json:"task_id"`
	URL           string    `json:"youtube_url"`
	VideoQuality  string    `json:"video_quality,omitempty"`
	AudioQuality  string    `json:"audio_quality,omitempty"`
	Status        string    `json:"status"`
	ScheduledTime Timestamp `json:"scheduled_time,omitempty"`
	FilePath      string    `json:"file_path,omitempty"`
	// TimeRemaining is in minutes.
	TimeRemaining *float64 `json:"time_remaining,omitempty"`
}

// ScheduledJobs is the scheduled list together with the server clock.
type ScheduledJobs struct {
	Scheduled   []Job     `json:"scheduled"`
	CurrentTime Timestamp `json:"current_time"`
}

// Health is the answer of the health endpoints.
type Health struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the service declared itself alive.
func (h Health) OK() bool {
	return h.Status == "ok" || (h.Status == "" && h.Message != "")
}

func (h Health) String() string {
	if h.Message != "" {
		return h.Message
	}
	return h.Status
}

// Timestamp decodes the backend's time values. Values without a zone are UTC.
// The zero value means the field was null, empty or missing.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp parses the formats the backend is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Option exposes the timestamp as an optional instant.
func (t Timestamp) Option() mo.Option[time.Time] {
	if t.IsZero() {
		return mo.None[time.Time]()
	}
	return mo.Some(t.Time)
}
