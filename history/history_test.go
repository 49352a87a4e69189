package history

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubular-cli/tubular/filesystem"
	"github.com/tubular-cli/tubular/gateway"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given two videos", t, func() {
		So(Clear(), ShouldBeNil)

		clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		now = func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}
		defer func() { now = time.Now }()

		rick := &gateway.Video{ID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", ChannelID: "UCrick", ChannelTitle: "RickAstleyVEVO"}
		gopher := &gateway.Video{ID: "gopher1", Title: "Concurrency is not Parallelism", ChannelID: "UCgo", ChannelTitle: "The Go Programming Language"}

		Convey("When both are saved", func() {
			So(Save(rick), ShouldBeNil)
			So(Save(gopher), ShouldBeNil)

			Convey("They are listed most recent first", func() {
				videos, err := Recent()
				So(err, ShouldBeNil)
				So(len(videos), ShouldEqual, 2)
				So(videos[0].ID, ShouldEqual, gopher.ID)
				So(videos[1].ID, ShouldEqual, rick.ID)
			})

			Convey("Watching again moves a video up and counts it", func() {
				So(Save(rick), ShouldBeNil)
				videos, err := Recent()
				So(err, ShouldBeNil)
				So(videos[0].ID, ShouldEqual, rick.ID)
				So(videos[0].Times, ShouldEqual, 2)
			})

			Convey("Filtering matches titles and channels loosely", func() {
				videos, err := Filter("never give")
				So(err, ShouldBeNil)
				So(len(videos), ShouldEqual, 1)
				So(videos[0].ID, ShouldEqual, rick.ID)

				videos, err = Filter("go programming")
				So(err, ShouldBeNil)
				So(len(videos), ShouldEqual, 1)
				So(videos[0].ID, ShouldEqual, gopher.ID)

				videos, err = Filter("  ")
				So(err, ShouldBeNil)
				So(len(videos), ShouldEqual, 2)
			})

			Convey("Removing a video forgets it", func() {
				So(Remove(rick.ID), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldNotContainKey, rick.ID)
				So(saved, ShouldContainKey, gopher.ID)
			})
		})

		Convey("The display name drops the VEVO suffix", func() {
			So(newSavedVideo(rick).String(), ShouldEqual, "Never Gonna Give You Up - RickAstley..")
		})
	})
}
