package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("GacheFs writes through the active backend", t, func() {
		SetMemMapFs()
		var fs GacheFs

		So(fs.MkdirAll("/cache/ytgrab", os.ModePerm), ShouldBeNil)
		f, err := fs.OpenFile("/cache/ytgrab/urls.json", os.O_CREATE|os.O_RDWR, 0o644)
		So(err, ShouldBeNil)
		_, err = f.Write([]byte("{}"))
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		exists, err := API().Exists("/cache/ytgrab/urls.json")
		So(err, ShouldBeNil)
		So(exists, ShouldBeTrue)
	})
}
