package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/format"
	"github.com/ytgrab-cli/ytgrab/jobs"
)

type stubClient struct {
	formats   []json.RawMessage
	listed    int
	downloads []api.DownloadRequest
	schedules []api.ScheduleRequest
	completed []api.Job
}

func (s *stubClient) ListFormats(context.Context, string) ([]json.RawMessage, error) {
	s.listed++
	return s.formats, nil
}

func (s *stubClient) Download(_ context.Context, req api.DownloadRequest) (api.DownloadResponse, error) {
	s.downloads = append(s.downloads, req)
	return api.DownloadResponse{TaskID: "t-1"}, nil
}

func (s *stubClient) Schedule(_ context.Context, req api.ScheduleRequest) (api.ScheduleResponse, error) {
	s.schedules = append(s.schedules, req)
	return api.ScheduleResponse{TaskID: "t-2"}, nil
}

func (s *stubClient) PastDownloads(context.Context) ([]api.Job, error) {
	return s.completed, nil
}

func (s *stubClient) ScheduledDownloads(context.Context) (api.ScheduledJobs, error) {
	return api.ScheduledJobs{}, nil
}

func (s *stubClient) DeleteScheduled(context.Context, string) error {
	return nil
}

func entry(id, vcodec, acodec string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"id":%q,"ext":"mp4","vcodec":%q,"acodec":%q}`, id, vcodec, acodec))
}

func TestParseFormatPicker(t *testing.T) {
	formats := []format.Format{{ID: "18"}, {ID: "22"}, {ID: "137"}}

	Convey("ParseFormatPicker", t, func() {
		for value, want := range map[string]string{
			"first": "18",
			"last":  "137",
			"[1]":   "22",
			"[99]":  "137",
			"22":    "22",
		} {
			picker, err := ParseFormatPicker(value)
			So(err, ShouldBeNil)
			So(picker(formats).MustGet().ID, ShouldEqual, want)
		}

		picker, err := ParseFormatPicker("999")
		So(err, ShouldBeNil)
		So(picker(formats).IsAbsent(), ShouldBeTrue)

		_, err = ParseFormatPicker("[x]")
		So(err, ShouldNotBeNil)
	})
}

func TestInline(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with mixed formats", t, func() {
		client := &stubClient{formats: []json.RawMessage{
			entry("18", "avc1", "mp4a"),
			entry("137", "avc1", "none"),
			entry("140", "none", "mp4a"),
			entry("sb0", "none", "none"),
		}}
		var buf bytes.Buffer
		options := &Options{Out: &buf, Client: client, Location: time.UTC, URL: "https://youtu.be/x"}

		Convey("Formats lists usable formats as JSON", func() {
			options.Json = true
			So(Formats(ctx, options), ShouldBeNil)

			var out FormatsOutput
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.URL, ShouldEqual, "https://youtu.be/x")
			So(lo.Map(out.Formats, func(f *Format, _ int) string { return f.ID }), ShouldResemble, []string{"18", "137", "140"})
			So(out.Formats[1].Kind, ShouldEqual, "video")
			So(out.Formats[0].FPS, ShouldBeNil)
		})

		Convey("Formats can be limited to audio", func() {
			options.Kind = mo.Some(format.KindAudio)
			So(Formats(ctx, options), ShouldBeNil)
			So(buf.String(), ShouldStartWith, "140")
		})

		Convey("Best downloads skip the lookup", func() {
			options.Best = true
			So(Download(ctx, options), ShouldBeNil)
			So(client.listed, ShouldEqual, 0)
			So(client.downloads[0].VideoQuality, ShouldEqual, api.BestVideo)
			So(buf.String(), ShouldContainSubstring, "t-1")
		})

		Convey("A combined pick is sent as both qualities", func() {
			options.Format = mo.Some(lo.Must(ParseFormatPicker("first")))
			So(Download(ctx, options), ShouldBeNil)
			So(client.downloads[0].VideoQuality, ShouldEqual, "18")
			So(client.downloads[0].AudioQuality, ShouldEqual, "18")
		})

		Convey("Separate picks switch the mode", func() {
			options.Video = mo.Some(lo.Must(ParseFormatPicker("137")))
			options.Audio = mo.Some(lo.Must(ParseFormatPicker("140")))
			So(Download(ctx, options), ShouldBeNil)
			So(client.downloads[0].VideoQuality, ShouldEqual, "137")
			So(client.downloads[0].AudioQuality, ShouldEqual, "140")
		})

		Convey("A download without any pick is refused", func() {
			So(Download(ctx, options), ShouldNotBeNil)
			So(client.downloads, ShouldBeEmpty)
		})

		Convey("Mixing selectors is refused", func() {
			options.Format = mo.Some(lo.Must(ParseFormatPicker("first")))
			options.Audio = mo.Some(lo.Must(ParseFormatPicker("first")))
			So(Download(ctx, options), ShouldEqual, ErrConflictingPick)
		})

		Convey("Schedule falls back to the best streams", func() {
			options.Date, options.Time = "2024-06-01", "14:30"
			options.Json = true
			So(Schedule(ctx, options), ShouldBeNil)
			So(client.schedules[0].ScheduledTime, ShouldEqual, "2024-06-01T14:30:00Z")
			So(client.schedules[0].AudioQuality, ShouldEqual, api.BestAudio)

			var out SubmitOutput
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
			So(out.TaskID, ShouldEqual, "t-2")
			So(*out.ScheduledTime, ShouldEqual, "2024-06-01T14:30:00Z")
		})

		Convey("Schedule without a time is refused", func() {
			options.Date = "2024-06-01"
			So(Schedule(ctx, options), ShouldNotBeNil)
			So(client.schedules, ShouldBeEmpty)
		})
	})

	Convey("Jobs prints the completed list", t, func() {
		client := &stubClient{completed: []api.Job{{TaskID: "c-1", Status: api.StatusCompleted}}}
		var buf bytes.Buffer
		options := &Options{Out: &buf, Client: client, Tab: jobs.TabCompleted, Json: true}

		So(Jobs(ctx, options), ShouldBeNil)

		var out JobsOutput
		So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
		So(out.Jobs, ShouldHaveLength, 1)
		So(out.Jobs[0].TaskID, ShouldEqual, "c-1")
		So(out.Jobs[0].MinutesRemaining, ShouldBeNil)
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema", t, func() {
		for _, name := range Schemas {
			s, err := Schema(name)
			So(err, ShouldBeNil)
			So(s, ShouldNotBeNil)
		}

		_, err := Schema("nope")
		So(err, ShouldNotBeNil)
	})
}
