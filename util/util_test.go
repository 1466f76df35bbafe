package util

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytgrab-cli/ytgrab/filesystem"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "format", "formats"), ShouldEqual, "1 format")
		So(Quantify(0, "format", "formats"), ShouldEqual, "0 formats")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("scheduled"), ShouldEqual, "Scheduled")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestShortenURL(t *testing.T) {
	Convey("ShortenURL", t, func() {
		Convey("Short URLs are untouched", func() {
			So(ShortenURL("https://youtu.be/abc", 40), ShouldEqual, "https://youtu.be/abc")
		})

		Convey("Long URLs are cut to the limit with an ellipsis", func() {
			long := "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL1234567890"
			short := ShortenURL(long, 40)
			So(len(short), ShouldEqual, 40)
			So(strings.HasSuffix(short, "..."), ShouldBeTrue)
			So(strings.HasPrefix(long, strings.TrimSuffix(short, "...")), ShouldBeTrue)
		})

		Convey("Empty stays empty", func() {
			So(ShortenURL("", 40), ShouldEqual, "")
		})
	})
}

func TestMin(t *testing.T) {
	Convey("Min", t, func() {
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Min[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/x/y", 0o755), ShouldBeNil)
		So(fs.WriteFile("/x/y/z.txt", []byte("z"), 0o644), ShouldBeNil)

		So(Delete("/x/y/z.txt"), ShouldBeNil)
		So(Delete("/x"), ShouldBeNil)

		exists, _ := fs.Exists("/x")
		So(exists, ShouldBeFalse)
		So(Delete("/nope"), ShouldNotBeNil)
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 1)
		So(s.Pop(), ShouldEqual, 0)
		s.Push(3)
		s.Clear()
		So(s.Len(), ShouldEqual, 0)
	})
}
