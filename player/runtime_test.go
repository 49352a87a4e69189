package player

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRuntime(t *testing.T) {
	Convey("Given a runtime that is not ready", t, func() {
		rt := NewRuntime()

		Convey("A registered callback should wait for MarkReady", func() {
			var fired atomic.Int32
			id := rt.WhenReady(func() { fired.Add(1) })
			So(id, ShouldNotEqual, 0)
			So(fired.Load(), ShouldEqual, 0)

			rt.MarkReady()
			So(fired.Load(), ShouldEqual, 1)
			So(rt.Ready(), ShouldBeTrue)
		})

		Convey("MarkReady should fire only once", func() {
			var fired atomic.Int32
			rt.WhenReady(func() { fired.Add(1) })
			rt.MarkReady()
			rt.MarkReady()
			So(fired.Load(), ShouldEqual, 1)
		})

		Convey("The last registration should win", func() {
			var first, second atomic.Int32
			rt.WhenReady(func() { first.Add(1) })
			rt.WhenReady(func() { second.Add(1) })
			rt.MarkReady()
			So(first.Load(), ShouldEqual, 0)
			So(second.Load(), ShouldEqual, 1)
		})

		Convey("Release should clear only its own registration", func() {
			var first, second atomic.Int32
			stale := rt.WhenReady(func() { first.Add(1) })
			rt.WhenReady(func() { second.Add(1) })
			rt.Release(stale)
			rt.MarkReady()
			So(second.Load(), ShouldEqual, 1)
		})

		Convey("Release of the current registration should silence it", func() {
			var fired atomic.Int32
			id := rt.WhenReady(func() { fired.Add(1) })
			rt.Release(id)
			rt.MarkReady()
			So(fired.Load(), ShouldEqual, 0)
		})

		Convey("Registering after readiness should run immediately", func() {
			rt.MarkReady()
			var fired atomic.Int32
			id := rt.WhenReady(func() { fired.Add(1) })
			So(id, ShouldEqual, 0)
			So(fired.Load(), ShouldEqual, 1)
		})
	})
}

func TestBootstrap(t *testing.T) {
	Convey("Given a missing player binary", t, func() {
		rt := NewRuntime()
		err := <-rt.Bootstrap(context.Background(), "tubular-no-such-player", time.Second)

		Convey("Bootstrap should fail and leave the runtime not ready", func() {
			So(err, ShouldNotBeNil)
			So(rt.Ready(), ShouldBeFalse)
			So(rt.Binary(), ShouldBeEmpty)
		})
	})
}
