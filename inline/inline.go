// Package inline runs lookups, submissions and job listings without the TUI,
// printing text or JSON for scripts.
package inline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/mo"
	"github.com/ytgrab-cli/ytgrab/fetcher"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/log"
	"github.com/ytgrab-cli/ytgrab/selection"
	"github.com/ytgrab-cli/ytgrab/submit"
)

var (
	ErrNoMatch         = errors.New("no format matches the selector")
	ErrNoSeparate      = errors.New("no separate video and audio streams for this URL")
	ErrConflictingPick = errors.New("a combined format cannot be mixed with video or audio selectors")
)

func prepare(options *Options) {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Location == nil {
		options.Location = time.Local
	}
}

// Formats looks the URL up and prints its usable formats.
func Formats(ctx context.Context, options *Options) error {
	prepare(options)

	catalog, err := fetcher.New(options.Client).Lookup(ctx, options.URL)
	if err != nil {
		return errors.New(fetcher.Message(err))
	}

	var formats []format.Format
	kind, filtered := options.Kind.Get()
	switch {
	case !filtered:
		formats = catalog.Usable()
	case kind == format.KindVideo:
		formats = catalog.VideoOnly()
	case kind == format.KindAudio:
		formats = catalog.AudioOnly()
	default:
		formats = catalog.Combined()
	}

	if options.Json {
		return writeJson(options.Out, newFormatsOutput(catalog.URL, formats))
	}

	for _, f := range formats {
		k := kind
		if !filtered {
			k = labelKind(f)
		}
		fmt.Fprintln(options.Out, format.Label(f, k))
	}
	return nil
}

func labelKind(f format.Format) format.Kind {
	switch {
	case f.IsVideoOnly():
		return format.KindVideo
	case f.IsAudioOnly():
		return format.KindAudio
	default:
		return format.KindCombined
	}
}

func pick(picker FormatPicker, formats []format.Format) (string, error) {
	f, ok := picker(formats).Get()
	if !ok {
		return "", ErrNoMatch
	}
	return f.ID, nil
}

// choose turns the selectors into a choice, looking the URL up only when a
// selector needs the catalog.
func choose(ctx context.Context, options *Options) (selection.Choice, error) {
	var resolver selection.Resolver

	if options.Best {
		resolver.UseBest(true)
		return resolver.Resolve(), nil
	}

	separate := options.Video.IsPresent() || options.Audio.IsPresent()
	if options.Format.IsPresent() && separate {
		return selection.Choice{}, ErrConflictingPick
	}
	if !options.Format.IsPresent() && !separate {
		return resolver.Resolve(), nil
	}

	catalog, err := fetcher.New(options.Client).Lookup(ctx, options.URL)
	if err != nil {
		return selection.Choice{}, errors.New(fetcher.Message(err))
	}
	resolver.Load(catalog)

	if picker, ok := options.Format.Get(); ok {
		if resolver.Mode() != selection.Combined && !resolver.Toggle() {
			return selection.Choice{}, ErrNoMatch
		}
		id, err := pick(picker, resolver.Options(format.KindCombined))
		if err != nil {
			return selection.Choice{}, err
		}
		resolver.SetFormat(id)
		return resolver.Resolve(), nil
	}

	if resolver.Mode() != selection.Separate && !resolver.Toggle() {
		return selection.Choice{}, ErrNoSeparate
	}

	pickInto := func(o mo.Option[FormatPicker], kind format.Kind, set func(string)) error {
		picker, ok := o.Get()
		if !ok {
			return nil
		}
		id, err := pick(picker, resolver.Options(kind))
		if err != nil {
			return err
		}
		set(id)
		return nil
	}

	if err := pickInto(options.Video, format.KindVideo, resolver.SetVideo); err != nil {
		return selection.Choice{}, err
	}
	if err := pickInto(options.Audio, format.KindAudio, resolver.SetAudio); err != nil {
		return selection.Choice{}, err
	}

	return resolver.Resolve(), nil
}

// Download submits an immediate download.
func Download(ctx context.Context, options *Options) error {
	prepare(options)

	choice, err := choose(ctx, options)
	if err != nil {
		return err
	}

	s := submit.New(options.Client, options.Location)
	req, err := s.BeginDownload(options.URL, choice)
	if err != nil {
		return errors.New(s.DownloadStatus.Message)
	}

	resp, err := s.SendDownload(ctx, req)
	s.EndDownload(resp, err)
	if s.DownloadStatus.Failed() {
		return errors.New(s.DownloadStatus.Message)
	}

	log.Infof("download %s accepted as %s", req.URL, resp.TaskID)

	if options.Json {
		out := newSubmitOutput("download", req, s.DownloadStatus.Message)
		out.TaskID, out.FilePath = resp.TaskID, resp.FilePath
		return writeJson(options.Out, out)
	}

	_, err = fmt.Fprintln(options.Out, s.DownloadStatus.Message)
	return err
}

// Schedule submits a download for the given local date and time.
func Schedule(ctx context.Context, options *Options) error {
	prepare(options)

	choice, err := choose(ctx, options)
	if err != nil {
		return err
	}

	s := submit.New(options.Client, options.Location)
	req, err := s.BeginSchedule(options.URL, options.Date, options.Time, choice)
	if err != nil {
		return errors.New(s.ScheduleStatus.Message)
	}

	resp, err := s.SendSchedule(ctx, req)
	s.EndSchedule(resp, err)
	if s.ScheduleStatus.Failed() {
		return errors.New(s.ScheduleStatus.Message)
	}

	log.Infof("download %s scheduled at %s as %s", req.URL, req.ScheduledTime, resp.TaskID)

	if options.Json {
		out := newSubmitOutput("schedule", req.DownloadRequest, s.ScheduleStatus.Message)
		out.TaskID = resp.TaskID
		out.ScheduledTime = &req.ScheduledTime
		return writeJson(options.Out, out)
	}

	_, err = fmt.Fprintln(options.Out, s.ScheduleStatus.Message)
	return err
}

// Jobs prints the jobs under options.Tab.
func Jobs(ctx context.Context, options *Options) error {
	prepare(options)

	board := jobs.NewBoard(options.Client)
	if err := board.Refresh(ctx); err != nil {
		return errors.New(board.Message)
	}

	list := board.View(options.Tab)
	now := time.Now()

	if options.Json {
		return writeJson(options.Out, newJobsOutput(options.Tab, board.Snapshot, list, now))
	}

	for _, j := range list {
		line := fmt.Sprintf("%s\t%s\t%s\t%s", j.TaskID, j.Status, j.Qualities(), j.URL)
		if at, ok := j.ScheduledTime.Option().Get(); ok {
			line += "\t" + at.In(options.Location).Format("2006-01-02 15:04")
		}
		if left, ok := j.MinutesRemaining(now).Get(); ok {
			line += fmt.Sprintf("\t%.1f min", left)
		}
		fmt.Fprintln(options.Out, line)
	}
	return nil
}
