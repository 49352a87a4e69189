package network

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("New should share the transport", t, func() {
		c := New(5 * time.Second)
		So(c.Timeout, ShouldEqual, 5*time.Second)
		So(c.Transport, ShouldEqual, Client.Transport)
	})
}
