package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/config"
	"github.com/tubular-cli/tubular/constant"
	"github.com/tubular-cli/tubular/style"
	"github.com/tubular-cli/tubular/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")
	envCmd.Flags().BoolP("json", "j", false, "Print the variables as a JSON object")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVariables returns the names of every supported environment variable, sorted.
func envVariables() []string {
	names := lo.Map(config.EnvExposed, func(k string, _ int) string {
		field := config.Default[k]
		return field.Env()
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)
	return lo.Uniq(names)
}

// envCmd displays the supported environment variables and their values.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long: `Display the supported environment variables and their current values.
API credentials are usually passed this way, e.g. ` + strings.ToUpper(constant.App) + `_GATEWAY_API_KEY.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		values := make(map[string]string)
		var names []string
		for _, env := range envVariables() {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}
			values[env] = value
			names = append(names, env)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(values))
			return
		}

		for _, env := range names {
			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if value := values[env]; value != "" {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
