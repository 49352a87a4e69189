package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/filesystem"
	"github.com/tubular-cli/tubular/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate every default", func() {
			So(Setup(), ShouldBeNil)
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Durations should be readable as durations", func() {
			So(Setup(), ShouldBeNil)
			So(viper.GetDuration(key.GatewayTimeout), ShouldEqual, 15*time.Second)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("gateway.api_key"), ShouldEqual, "gateway_api_key")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.GatewayAPIKey]

		Convey("Env should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "TUBULAR_GATEWAY_API_KEY")
		})

		Convey("typeName should describe durations", func() {
			f := Default[key.CacheMetadataLifetime]
			So(f.typeName(), ShouldEqual, "duration")
		})
	})
}
