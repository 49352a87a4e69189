package gateway

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseVideoID(t *testing.T) {
	Convey("Video ids are found in the usual places", t, func() {
		for _, input := range []string{
			"dQw4w9WgXcQ",
			" dQw4w9WgXcQ\n",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			"https://youtu.be/dQw4w9WgXcQ",
			"https://youtube.com/shorts/dQw4w9WgXcQ",
			"https://www.youtube.com/embed/dQw4w9WgXcQ",
			"https://music.youtube.com/watch?v=dQw4w9WgXcQ",
		} {
			id, err := ParseVideoID(input)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "dQw4w9WgXcQ")
		}
	})

	Convey("Anything else is rejected", t, func() {
		for _, input := range []string{
			"",
			"short",
			"https://example.com/watch?v=dQw4w9WgXcQ",
			"https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw",
			"https://youtu.be/",
		} {
			_, err := ParseVideoID(input)
			So(err, ShouldNotBeNil)
		}
	})
}
