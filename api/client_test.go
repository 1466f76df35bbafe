package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
)

type recorded struct {
	method, path, requestID, auth string
	body                           map[string]any
}

func newBackend(handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method:    r.Method,
			path:      r.URL.Path,
			requestID: r.Header.Get("X-Request-ID"),
			auth:      r.Header.Get("Authorization"),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		calls = append(calls, rec)
		handler(w, r)
	}))
	return srv, &calls
}

func TestListFormats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend answering with results", t, func() {
		srv, calls := newBackend(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"count":2,"results":[{"id":"18"},{"id":"140"}]}`)
		})
		defer srv.Close()

		Convey("The link is posted below the prefix and entries are returned", func() {
			raw, err := New(srv.URL, WithToken("tkn")).ListFormats(ctx, "https://youtu.be/x")
			So(err, ShouldBeNil)
			So(raw, ShouldHaveLength, 2)

			c := (*calls)[0]
			So(c.method, ShouldEqual, http.MethodPost)
			So(c.path, ShouldEqual, "/api/download/list-qualities")
			So(c.body["link"], ShouldEqual, "https://youtu.be/x")
			So(c.auth, ShouldEqual, "Bearer tkn")

			id, err := uuid.Parse(c.requestID)
			So(err, ShouldBeNil)
			So(id.Version(), ShouldEqual, uuid.Version(7))
		})
	})

	Convey("Given a backend answering with formats", t, func() {
		srv, _ := newBackend(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"formats":[{"ID":"22"}]}`)
		})
		defer srv.Close()

		raw, err := New(srv.URL, WithPrefix("")).ListFormats(ctx, "u")
		So(err, ShouldBeNil)
		So(raw, ShouldHaveLength, 1)
	})

	Convey("Given a failing backend", t, func() {
		srv, _ := newBackend(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"yt-dlp error"}`, http.StatusInternalServerError)
		})
		defer srv.Close()

		_, err := New(srv.URL).ListFormats(ctx, "u")
		So(IsStatus(err, http.StatusInternalServerError), ShouldBeTrue)
		So(Message(err, "Failed to fetch qualities"), ShouldEqual, "Failed to fetch qualities")
	})

	Convey("Given an unreachable backend", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		_, err := New(addr).ListFormats(ctx, "u")
		So(errors.Is(err, ErrConnect), ShouldBeTrue)
		So(Message(err, "Failed to fetch qualities"), ShouldEqual, "Could not connect to the download service")
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend accepting downloads", t, func() {
		srv, calls := newBackend(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/download/download-video":
				fmt.Fprint(w, `{"file_path":"/downloads/a.mp4"}`)
			case "/api/download/schedule-download":
				fmt.Fprint(w, `{"task_id":"t-1"}`)
			}
		})
		defer srv.Close()
		client := New(srv.URL + "/")

		Convey("Download sends the quality tokens", func() {
			resp, err := client.Download(ctx, DownloadRequest{URL: "u", VideoQuality: "137", AudioQuality: "140"})
			So(err, ShouldBeNil)
			So(resp.FilePath, ShouldEqual, "/downloads/a.mp4")

			body := (*calls)[0].body
			So(body["youtube_url"], ShouldEqual, "u")
			So(body["video_quality"], ShouldEqual, "137")
			So(body["audio_quality"], ShouldEqual, "140")
		})

		Convey("Schedule flattens the download fields next to scheduled_time", func() {
			resp, err := client.Schedule(ctx, ScheduleRequest{
				DownloadRequest: DownloadRequest{URL: "u", VideoQuality: BestVideo, AudioQuality: BestAudio},
				ScheduledTime:   "2024-06-01T19:30:00Z",
			})
			So(err, ShouldBeNil)
			So(resp.TaskID, ShouldEqual, "t-1")

			body := (*calls)[0].body
			So(body["youtube_url"], ShouldEqual, "u")
			So(body["scheduled_time"], ShouldEqual, "2024-06-01T19:30:00Z")
		})
	})
}

func TestJobLists(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend with jobs", t, func() {
		srv, calls := newBackend(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/api/download/past-downloads":
				fmt.Fprint(w, `[{"task_id":"a","youtube_url":"u1","status":"completed","file_path":"/x.mp4"}]`)
			case r.URL.Path == "/api/download/scheduled-downloads" && r.Method == http.MethodGet:
				fmt.Fprint(w, `{"scheduled":[{"task_id":"b","youtube_url":"u2","status":"scheduled","scheduled_time":"2024-06-01T19:30:00","time_remaining":12.5}],"current_time":"2024-06-01T19:17:30.123456"}`)
			case r.Method == http.MethodDelete:
				w.WriteHeader(http.StatusOK)
			}
		})
		defer srv.Close()
		client := New(srv.URL)

		Convey("Past downloads decode", func() {
			jobs, err := client.PastDownloads(ctx)
			So(err, ShouldBeNil)
			So(jobs, ShouldHaveLength, 1)
			So(jobs[0].Status, ShouldEqual, StatusCompleted)
			So(jobs[0].ScheduledTime.IsZero(), ShouldBeTrue)
		})

		Convey("Scheduled downloads read naive times as UTC", func() {
			resp, err := client.ScheduledDownloads(ctx)
			So(err, ShouldBeNil)
			So(resp.Scheduled, ShouldHaveLength, 1)

			job := resp.Scheduled[0]
			So(job.ScheduledTime.Equal(time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC)), ShouldBeTrue)
			So(*job.TimeRemaining, ShouldEqual, 12.5)
			So(resp.CurrentTime.Location(), ShouldEqual, time.UTC)
		})

		Convey("Delete targets the task id", func() {
			So(client.DeleteScheduled(ctx, "b c"), ShouldBeNil)
			So((*calls)[0].method, ShouldEqual, http.MethodDelete)
			So((*calls)[0].path, ShouldEqual, "/api/download/scheduled-downloads/b c")
		})

		Convey("Delete refuses an empty id without calling", func() {
			So(client.DeleteScheduled(ctx, ""), ShouldNotBeNil)
			So(*calls, ShouldBeEmpty)
		})
	})
}

func TestHealth(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend with a health route", t, func() {
		srv, _ := newBackend(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status":"ok"}`)
		})
		defer srv.Close()

		h, err := New(srv.URL).Health(ctx)
		So(err, ShouldBeNil)
		So(h.OK(), ShouldBeTrue)
	})

	Convey("Given a backend with only a root route", t, func() {
		srv, calls := newBackend(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, `{"message":"YouTube Video Downloader API is running."}`)
		})
		defer srv.Close()

		h, err := New(srv.URL).Health(ctx)
		So(err, ShouldBeNil)
		So(h.OK(), ShouldBeTrue)
		So(h.String(), ShouldContainSubstring, "running")
		So(*calls, ShouldHaveLength, 2)
	})
}

func TestTimestamp(t *testing.T) {
	Convey("Timestamps accept the shapes the backend emits", t, func() {
		want := time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC)
		for _, s := range []string{
			"2024-06-01T19:30:00Z",
			"2024-06-01T19:30:00",
			"2024-06-01 19:30:00",
			"2024-06-01T21:30:00+02:00",
		} {
			ts, err := ParseTimestamp(s)
			So(err, ShouldBeNil)
			So(ts.Equal(want), ShouldBeTrue)
		}

		var ts Timestamp
		So(json.Unmarshal([]byte("null"), &ts), ShouldBeNil)
		So(ts.Option().IsAbsent(), ShouldBeTrue)
		So(json.Unmarshal([]byte(`"tomorrow"`), &ts), ShouldNotBeNil)
	})
}
