// Package main is the entry point for the tubular application.
package main

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/cmd"
	"github.com/tubular-cli/tubular/config"
	"github.com/tubular-cli/tubular/internal/cache"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/where"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go func() {
		if err := cache.CollectGarbage(where.Metadata(), viper.GetDuration(key.CacheMetadataLifetime)); err != nil {
			log.Warn(err)
		}
	}()

	cmd.Execute()
}
