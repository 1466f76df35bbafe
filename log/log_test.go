package log

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/ytgrab-cli/ytgrab/filesystem"
	"github.com/ytgrab-cli/ytgrab/key"
	"github.com/ytgrab-cli/ytgrab/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup succeeds and calls are no-ops", func() {
			So(Setup(), ShouldBeNil)
			So(func() { Info("nothing") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")

		Convey("Setup creates today's log file", func() {
			So(Setup(), ShouldBeNil)
			Info("hello")

			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			exists, err := filesystem.API().Exists(path)
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)

			data, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "hello")
		})

		Reset(func() {
			viper.Set(key.LogsWrite, false)
			_ = Setup()
		})
	})
}
