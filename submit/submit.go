// Package submit turns a selection into download and schedule requests.
//
// Immediate and scheduled submissions keep separate status records, so the
// outcome of one never hides the outcome of the other. Nothing is
// deduplicated: every submission creates a new job on the backend.
package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/log"
	"github.com/ytgrab-cli/ytgrab/selection"
)

var (
	ErrEmptyURL            = errors.New("empty URL")
	ErrNoFormat            = errors.New("no format selected")
	ErrIncompleteSelection = errors.New("video and audio must both be selected")
	ErrMissingSchedule     = errors.New("date and time are required")
	ErrInvalidSchedule     = errors.New("invalid date or time")
)

const (
	DownloadFailedMessage = "Download failed"
	ScheduleFailedMessage = "Failed to schedule download"
)

// Client is the part of the service client the submitter needs.
type Client interface {
	Download(ctx context.Context, req api.DownloadRequest) (api.DownloadResponse, error)
	Schedule(ctx context.Context, req api.ScheduleRequest) (api.ScheduleResponse, error)
}

// Status is the state of one kind of submission.
type Status struct {
	Loading bool
	// Message is the text to show: a result on success, an explanation on failure.
	Message string
	Err     error
}

func (s Status) Failed() bool {
	return s.Err != nil
}

type Submitter struct {
	client   Client
	location *time.Location

	DownloadStatus Status
	ScheduleStatus Status
}

// New returns a submitter reading schedule dates and times in loc, or time.Local when nil.
func New(client Client, loc *time.Location) *Submitter {
	if loc == nil {
		loc = time.Local
	}
	return &Submitter{client: client, location: loc}
}

// validationMessage maps a local validation error to its text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyURL):
		return "Please enter a video URL"
	case errors.Is(err, ErrNoFormat), errors.Is(err, ErrIncompleteSelection):
		return "Please select a format to download."
	case errors.Is(err, ErrMissingSchedule):
		return "Please select date and time"
	case errors.Is(err, ErrInvalidSchedule):
		return "Please enter the date as YYYY-MM-DD and the time as HH:MM"
	default:
		return err.Error()
	}
}

// DownloadRequest validates the inputs of an immediate download.
func DownloadRequest(url string, c selection.Choice) (api.DownloadRequest, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return api.DownloadRequest{}, ErrEmptyURL
	}

	req := api.DownloadRequest{URL: url}
	switch {
	case c.Best:
		req.VideoQuality, req.AudioQuality = api.BestVideo, api.BestAudio
	case c.Mode == selection.Combined:
		if c.Format == "" {
			return api.DownloadRequest{}, ErrNoFormat
		}
		req.VideoQuality, req.AudioQuality = c.Format, c.Format
	default:
		if c.Video == "" || c.Audio == "" {
			return api.DownloadRequest{}, ErrIncompleteSelection
		}
		req.VideoQuality, req.AudioQuality = c.Video, c.Audio
	}

	return req, nil
}

// ScheduleRequest validates the inputs of a scheduled download. Streams
// without a pick fall back to the best-quality tokens.
func ScheduleRequest(url, date, clock string, c selection.Choice, loc *time.Location) (api.ScheduleRequest, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return api.ScheduleRequest{}, ErrEmptyURL
	}

	at, err := CombineLocal(date, clock, loc)
	if err != nil {
		return api.ScheduleRequest{}, err
	}

	req := api.ScheduleRequest{
		DownloadRequest: api.DownloadRequest{URL: url, VideoQuality: api.BestVideo, AudioQuality: api.BestAudio},
		ScheduledTime:   at.Format(time.RFC3339),
	}

	switch {
	case c.Best:
	case c.Mode == selection.Combined:
		if c.Format != "" {
			req.VideoQuality, req.AudioQuality = c.Format, c.Format
		}
	default:
		if c.Video != "" {
			req.VideoQuality = c.Video
		}
		if c.Audio != "" {
			req.AudioQuality = c.Audio
		}
	}

	return req, nil
}

// CombineLocal reads date (YYYY-MM-DD) and clock (HH:MM or HH:MM:SS) as a
// wall-clock time in loc and returns the same instant in UTC.
func CombineLocal(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, ErrMissingSchedule
	}
	if loc == nil {
		loc = time.Local
	}

	layout := "2006-01-02 15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "2006-01-02 15:04:05"
	}

	t, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	return t.UTC(), nil
}

// BeginDownload validates and marks the download as loading.
// On a validation error no call must be made and the status already says why.
func (s *Submitter) BeginDownload(url string, c selection.Choice) (api.DownloadRequest, error) {
	req, err := DownloadRequest(url, c)
	if err != nil {
		s.DownloadStatus = Status{Err: err, Message: validationMessage(err)}
		return req, err
	}

	s.DownloadStatus = Status{Loading: true}
	return req, nil
}

// SendDownload performs the call. It leaves the submitter untouched.
func (s *Submitter) SendDownload(ctx context.Context, req api.DownloadRequest) (api.DownloadResponse, error) {
	resp, err := s.client.Download(ctx, req)
	entry := log.With(log.Fields{"url": req.URL, "video": req.VideoQuality, "audio": req.AudioQuality})
	if err != nil {
		entry.Errorf("download: %s", err)
	} else {
		entry.WithField("task_id", resp.TaskID).Info("download started")
	}
	return resp, err
}

// EndDownload records the outcome of SendDownload.
func (s *Submitter) EndDownload(resp api.DownloadResponse, err error) {
	if err != nil {
		s.DownloadStatus = Status{Err: err, Message: api.Message(err, DownloadFailedMessage)}
		return
	}

	ref := resp.TaskID
	if ref == "" {
		ref = resp.FilePath
	}
	s.DownloadStatus = Status{Message: "Download started. Task ID: " + ref}
}

// BeginSchedule validates, converts the time and marks the schedule as loading.
func (s *Submitter) BeginSchedule(url, date, clock string, c selection.Choice) (api.ScheduleRequest, error) {
	req, err := ScheduleRequest(url, date, clock, c, s.location)
	if err != nil {
		s.ScheduleStatus = Status{Err: err, Message: validationMessage(err)}
		return req, err
	}

	s.ScheduleStatus = Status{Loading: true}
	return req, nil
}

func (s *Submitter) SendSchedule(ctx context.Context, req api.ScheduleRequest) (api.ScheduleResponse, error) {
	resp, err := s.client.Schedule(ctx, req)
	entry := log.With(log.Fields{"url": req.URL, "at": req.ScheduledTime})
	if err != nil {
		entry.Errorf("schedule: %s", err)
	} else {
		entry.WithField("task_id", resp.TaskID).Info("download scheduled")
	}
	return resp, err
}

func (s *Submitter) EndSchedule(resp api.ScheduleResponse, err error) {
	if err != nil {
		s.ScheduleStatus = Status{Err: err, Message: api.Message(err, ScheduleFailedMessage)}
		return
	}
	s.ScheduleStatus = Status{Message: "Download scheduled. Task ID: " + resp.TaskID}
}

// Download runs Begin, Send and End in one go.
func (s *Submitter) Download(ctx context.Context, url string, c selection.Choice) (api.DownloadResponse, error) {
	req, err := s.BeginDownload(url, c)
	if err != nil {
		return api.DownloadResponse{}, err
	}

	resp, err := s.SendDownload(ctx, req)
	s.EndDownload(resp, err)
	return resp, err
}

func (s *Submitter) Schedule(ctx context.Context, url, date, clock string, c selection.Choice) (api.ScheduleResponse, error) {
	req, err := s.BeginSchedule(url, date, clock, c)
	if err != nil {
		return api.ScheduleResponse{}, err
	}

	resp, err := s.SendSchedule(ctx, req)
	s.EndSchedule(resp, err)
	return resp, err
}
