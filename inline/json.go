package inline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/jobs"
)

// Format is the JSON shape of a format. Missing attributes are null.
type Format struct {
	ID         string   `json:"id" jsonschema:"required"`
	Ext        string   `json:"ext"`
	Kind       string   `json:"kind" jsonschema:"enum=combined,enum=video,enum=audio,enum=none"`
	Resolution *string  `json:"resolution"`
	FPS        *float64 `json:"fps"`
	Channels   *float64 `json:"channels"`
	FileSize   *uint64  `json:"filesize" jsonschema:"description=Size in bytes, possibly approximate"`
	TBR        *float64 `json:"tbr"`
	Protocol   *string  `json:"protocol"`
	VCodec     *string  `json:"vcodec"`
	VBR        *float64 `json:"vbr"`
	ACodec     *string  `json:"acodec"`
	ABR        *float64 `json:"abr"`
	ASR        *float64 `json:"asr"`
	MoreInfo   *string  `json:"more_info"`
}

type FormatsOutput struct {
	URL     string    `json:"url"`
	Formats []*Format `json:"formats"`
}

// SubmitOutput describes an accepted download or schedule request.
type SubmitOutput struct {
	Operation     string  `json:"operation" jsonschema:"enum=download,enum=schedule"`
	URL           string  `json:"url"`
	VideoQuality  string  `json:"video_quality"`
	AudioQuality  string  `json:"audio_quality"`
	ScheduledTime *string `json:"scheduled_time,omitempty"`
	TaskID        string  `json:"task_id,omitempty"`
	FilePath      string  `json:"file_path,omitempty"`
	Message       string  `json:"message"`
}

type Job struct {
	TaskID           string     `json:"task_id"`
	URL              string     `json:"url"`
	VideoQuality     string     `json:"video_quality"`
	AudioQuality     string     `json:"audio_quality"`
	Status           string     `json:"status"`
	ScheduledTime    *time.Time `json:"scheduled_time"`
	FilePath         string     `json:"file_path,omitempty"`
	MinutesRemaining *float64   `json:"minutes_remaining"`
}

type JobsOutput struct {
	Tab        string     `json:"tab"`
	ServerTime *time.Time `json:"server_time"`
	Jobs       []*Job     `json:"jobs"`
}

func ptr[T any](o mo.Option[T]) *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

func kindOf(f format.Format) string {
	switch {
	case f.IsCombined():
		return "combined"
	case f.IsVideoOnly():
		return "video"
	case f.IsAudioOnly():
		return "audio"
	default:
		return format.None
	}
}

func newFormat(f format.Format) *Format {
	return &Format{
		ID:         f.ID,
		Ext:        f.Ext,
		Kind:       kindOf(f),
		Resolution: ptr(f.Resolution),
		FPS:        ptr(f.FPS),
		Channels:   ptr(f.Channels),
		FileSize:   ptr(f.FileSize),
		TBR:        ptr(f.TBR),
		Protocol:   ptr(f.Protocol),
		VCodec:     ptr(f.VCodec),
		VBR:        ptr(f.VBR),
		ACodec:     ptr(f.ACodec),
		ABR:        ptr(f.ABR),
		ASR:        ptr(f.ASR),
		MoreInfo:   ptr(f.MoreInfo),
	}
}

func newFormatsOutput(url string, formats []format.Format) *FormatsOutput {
	return &FormatsOutput{
		URL:     url,
		Formats: lo.Map(formats, func(f format.Format, _ int) *Format { return newFormat(f) }),
	}
}

func newSubmitOutput(operation string, req api.DownloadRequest, message string) *SubmitOutput {
	return &SubmitOutput{
		Operation:    operation,
		URL:          req.URL,
		VideoQuality: req.VideoQuality,
		AudioQuality: req.AudioQuality,
		Message:      message,
	}
}

func newJobsOutput(tab jobs.Tab, snapshot jobs.Snapshot, list []jobs.Job, now time.Time) *JobsOutput {
	return &JobsOutput{
		Tab:        tab.String(),
		ServerTime: ptr(snapshot.ServerTime),
		Jobs: lo.Map(list, func(j jobs.Job, _ int) *Job {
			return &Job{
				TaskID:           j.TaskID,
				URL:              j.URL,
				VideoQuality:     j.VideoQuality,
				AudioQuality:     j.AudioQuality,
				Status:           j.Status,
				ScheduledTime:    ptr(j.ScheduledTime.Option()),
				FilePath:         j.FilePath,
				MinutesRemaining: ptr(j.MinutesRemaining(now)),
			}
		}),
	}
}

func writeJson(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
