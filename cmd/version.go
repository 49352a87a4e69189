package cmd

import (
	"context"
	"os"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/constant"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/style"
	"github.com/tubular-cli/tubular/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
	versionCmd.Flags().BoolP("latest", "l", false, "Also look up the latest published release")
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"green":   style.Fg(color.Green),
	"yellow":  style.Fg(color.Yellow),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}      {{ bold .Version }}{{ if .Latest }} {{ faint "latest" }} {{ green .Latest }}{{ end }}
  {{ faint "Git Commit" }}   {{ bold .Revision }}
  {{ faint "Build Date" }}   {{ bold .BuiltAt }}
  {{ faint "Built By" }}     {{ bold .BuiltBy }}
  {{ faint "Platform" }}     {{ bold .Platform }}
  {{ faint "API" }}          {{ bold .API }}
  {{ faint "Player" }}       {{ bold .Player }}
  {{ faint "Signed in" }}    {{ if .SignedIn }}{{ green "yes" }}{{ else }}{{ yellow "no" }}{{ end }}
`))

// versionCmd prints the version and build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Long:  "Display the application version, build revision, platform, the API it talks to and the account state.",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		var latest string
		if lo.Must(cmd.Flags().GetBool("latest")) {
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			var err error
			latest, err = version.Latest(ctx)
			handleErr(err)
		} else {
			defer version.Notify()
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), map[string]any{
			"App":      constant.App,
			"Version":  constant.Version,
			"Latest":   latest,
			"Revision": constant.Revision,
			"BuiltAt":  strings.TrimSpace(constant.BuiltAt),
			"BuiltBy":  constant.BuiltBy,
			"Platform": runtime.GOOS + "/" + runtime.GOARCH,
			"API":      constant.DefaultAPIBase,
			"Player":   viper.GetString(key.Player),
			"SignedIn": auth.Authenticated(auth.Keyring{}),
		}))
	},
}
