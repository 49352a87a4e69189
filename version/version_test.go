package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubular-cli/tubular/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Versions compare component by component", t, func() {
		for _, c := range []struct {
			a, b string
			want int
		}{
			{"1.2.3", "1.2.3", 0},
			{"v1.2.4", "1.2.3", 1},
			{"1.10.0", "1.9.9", 1},
			{"0.3.0", "1.0.0", -1},
		} {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release feed", t, func() {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"tag_name":"v1.4.0"}`))
		}))
		defer srv.Close()

		previous := releasesURL
		releasesURL = srv.URL
		defer func() { releasesURL = previous }()
		_ = versionCacher.Set("")

		Convey("The latest version is fetched once and cached", func() {
			v, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "1.4.0")

			v, err = Latest(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "1.4.0")
			So(calls, ShouldEqual, 1)
		})
	})
}

func TestComparePartial(t *testing.T) {
	Convey("Short and pre-release versions are normalized", t, func() {
		got, err := Compare("1.2", "1.2.0")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, 0)

		got, err = Compare("v2.0.0-rc1", "1.9.0")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, 1)
	})
}
