package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func backend(paths *[]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*paths = append(*paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/download/past-downloads":
			_, _ = io.WriteString(w, `[{"task_id":"done-1","youtube_url":"https://youtu.be/a","video_quality":"18","audio_quality":"18","status":"completed","file_path":"/data/a.mp4"}]`)
		case "/download/scheduled-downloads":
			_, _ = io.WriteString(w, `{"scheduled":[{"task_id":"sched-<1>","youtube_url":"https://youtu.be/b","status":"scheduled","scheduled_time":"2030-01-01T10:00:00","time_remaining":12.5}],"current_time":"2029-12-31T10:00:00"}`)
		case "/health":
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestApp(t *testing.T) {
	Convey("Given an app in front of a backend", t, func() {
		var paths []string
		srv := backend(&paths)
		defer srv.Close()

		app, err := NewApp(srv.URL)
		So(err, ShouldBeNil)

		Convey("/api requests are forwarded without the prefix", func() {
			rec := get(app.Router(), "/api/health")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"ok"`)
			So(paths, ShouldResemble, []string{"/health"})
		})

		Convey("The overview lists both job lists escaped", func() {
			rec := get(app.Router(), "/")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")

			body := rec.Body.String()
			So(body, ShouldContainSubstring, "done-1")
			So(body, ShouldContainSubstring, "a.mp4")
			So(body, ShouldContainSubstring, "sched-&lt;1&gt;")
			So(body, ShouldContainSubstring, "12.5 min")
		})

		Convey("The scheduled tab hides completed jobs", func() {
			body := get(app.Router(), "/?tab=scheduled").Body.String()
			So(body, ShouldNotContainSubstring, "done-1")
			So(body, ShouldContainSubstring, "sched-")
		})

		Convey("/healthz answers locally", func() {
			rec := get(app.Router(), "/healthz")
			So(rec.Code, ShouldEqual, http.StatusOK)

			var body map[string]string
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["status"], ShouldEqual, "ok")
			So(paths, ShouldBeEmpty)
		})
	})

	Convey("A failing backend", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		app, err := NewApp(srv.URL)
		So(err, ShouldBeNil)

		rec := get(app.Router(), "/")
		So(rec.Code, ShouldEqual, http.StatusBadGateway)
		So(rec.Body.String(), ShouldContainSubstring, "Failed to fetch downloads")
	})

	Convey("NewApp rejects a backend without a host", t, func() {
		_, err := NewApp("localhost")
		So(err, ShouldNotBeNil)
	})
}

func TestUnsafeJobURL(t *testing.T) {
	Convey("A job URL with a script scheme is not linked", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/download/past-downloads":
				_, _ = io.WriteString(w, `[]`)
			case "/download/scheduled-downloads":
				_, _ = io.WriteString(w, `{"scheduled":[{"task_id":"s-1","youtube_url":"javascript:alert(document.cookie)","status":"scheduled","scheduled_time":"2030-01-01T10:00:00Z"}]}`)
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		app, err := NewApp(srv.URL)
		So(err, ShouldBeNil)

		rec := get(app.Router(), "/")
		So(rec.Code, ShouldEqual, http.StatusOK)

		body := rec.Body.String()
		So(body, ShouldContainSubstring, "s-1")
		So(body, ShouldNotContainSubstring, `href="javascript:`)
		So(body, ShouldContainSubstring, `href="about:invalid#TemplFailedSanitizationURL"`)
	})
}
