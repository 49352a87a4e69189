package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestKeyring(t *testing.T) {
	Convey("Given a mocked keyring", t, func() {
		keyring.MockInit()

		Convey("It should be unauthenticated without a token", func() {
			So(Authenticated(Keyring{}), ShouldBeFalse)
		})

		Convey("It should store and return the token", func() {
			So(SetToken("ya29.token"), ShouldBeNil)
			token, ok := Keyring{}.Token()
			So(ok, ShouldBeTrue)
			So(token, ShouldEqual, "ya29.token")
			So(Authenticated(Keyring{}), ShouldBeTrue)
		})

		Convey("It should forget the token on delete", func() {
			So(SetToken("ya29.token"), ShouldBeNil)
			So(DeleteToken(), ShouldBeNil)
			So(Authenticated(Keyring{}), ShouldBeFalse)
		})

		Convey("Deleting twice should not fail", func() {
			So(DeleteToken(), ShouldBeNil)
			So(DeleteToken(), ShouldBeNil)
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Static sources", t, func() {
		So(Authenticated(Static("abc")), ShouldBeTrue)
		So(Authenticated(Static("")), ShouldBeFalse)
		So(Authenticated(nil), ShouldBeFalse)
	})
}
