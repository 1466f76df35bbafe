package version

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytgrab-cli/ytgrab/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare orders versions component by component", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"1.0.0", "1.0.0", 0},
			{"v1.2.0", "1.1.9", 1},
			{"0.3.1", "0.10.0", -1},
			{"2.0.0", "v1.99.99", 1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}
	})

	Convey("Compare rejects malformed versions", t, func() {
		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release endpoint", t, func() {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprint(w, `{"tag_name":"v1.4.2"}`)
		}))
		defer srv.Close()

		prev := ReleasesURL
		ReleasesURL = srv.URL
		defer func() { ReleasesURL = prev }()
		So(versionCacher.Set(""), ShouldBeNil)

		Convey("Latest strips the tag prefix and caches the answer", func() {
			v, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "1.4.2")

			v, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "1.4.2")
			So(calls, ShouldEqual, 1)
		})
	})
}
