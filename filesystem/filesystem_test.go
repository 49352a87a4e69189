package filesystem

import (
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Use should install any afero backend", func() {
			Use(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			So(API().WriteFile("/x", []byte("x"), 0o644), ShouldNotBeNil)
			SetMemMapFs()
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("Given the gache adapter on an in-memory backend", t, func() {
		SetMemMapFs()
		var fs GacheFs

		Convey("MkdirAll should create directories", func() {
			So(fs.MkdirAll("/cache/tubular", os.ModePerm), ShouldBeNil)
			exists, err := API().DirExists("/cache/tubular")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("OpenFile should round trip contents", func() {
			f, err := fs.OpenFile("/cache/meta.json", os.O_CREATE|os.O_RDWR, 0o644)
			So(err, ShouldBeNil)
			_, err = io.WriteString(f, `{}`)
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			data, err := API().ReadFile("/cache/meta.json")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `{}`)
		})
	})
}
