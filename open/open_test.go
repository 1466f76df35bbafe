package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("The handler command receives the input last", t, func() {
		cmd, ok := command("https://youtu.be/x")
		if !ok {
			SkipSo(cmd, ShouldNotBeNil)
			return
		}
		So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://youtu.be/x")
	})
}
