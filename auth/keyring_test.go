package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestToken(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		So(DeleteToken(), ShouldBeNil)

		Convey("Token is empty without error", func() {
			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("A saved token can be read back and deleted", func() {
			So(SetToken("s3cret"), ShouldBeNil)
			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "s3cret")

			So(DeleteToken(), ShouldBeNil)
			token, _ = Token()
			So(token, ShouldBeEmpty)
		})
	})
}
