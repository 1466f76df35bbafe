package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytgrab-cli/ytgrab/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			So(filepath.Dir(path), ShouldEqual, Config())
		})

		Convey("Files live inside their directories", func() {
			So(filepath.Dir(URLHistory()), ShouldEqual, Cache())
			So(filepath.Base(ConfigFile()), ShouldEqual, "ytgrab.toml")
		})

		Convey("YTGRAB_CONFIG_PATH overrides the config directory", func() {
			t.Setenv(EnvConfigPath, "/tmp/ytgrab-test-config")
			So(Config(), ShouldEqual, "/tmp/ytgrab-test-config")
		})
	})
}
