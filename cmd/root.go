// Package cmd implements the command-line interface for tubular.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/constant"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/history"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/player"
	"github.com/tubular-cli/tubular/style"
	"github.com/tubular-cli/tubular/tui"
	"github.com/tubular-cli/tubular/util"
	"github.com/tubular-cli/tubular/version"
	"github.com/tubular-cli/tubular/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember watched videos in the local history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnWatch, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().Bool("popular", false, "Start by browsing the most popular videos")
	rootCmd.Flags().StringP("search", "s", "", "Start by browsing the videos matching this query")
	rootCmd.MarkFlagsMutuallyExclusive("popular", "search")

	rootCmd.PersistentFlags().StringP("player", "P", "", "The player executable to use")
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.PersistentFlags().Lookup("player")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// temp files of a previous run, such as stale mpv sockets
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the tubular application.
var rootCmd = &cobra.Command{
	Use:   constant.App + " [video]",
	Short: "Watch, like and subscribe from the terminal",
	Long: style.Fg(color.Brand)(constant.Banner) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Watch, like and subscribe from the terminal"),
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionHistory,
	Example: strings.Join([]string{
		"  " + constant.App + " dQw4w9WgXcQ",
		"  " + constant.App + " https://youtu.be/dQw4w9WgXcQ",
		"  " + constant.App + "                # pick from history",
		"  " + constant.App + " --popular      # pick from the popular chart",
		"  " + constant.App + " -s \"rick astley\"",
	}, "\n"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		var videoID string
		if len(args) == 1 {
			id, err := gateway.ParseVideoID(args[0])
			handleErr(err)
			videoID = id
		}
		popular := lo.Must(cmd.Flags().GetBool("popular"))
		query := strings.TrimSpace(lo.Must(cmd.Flags().GetString("search")))
		if videoID != "" && (popular || query != "") {
			handleErr(fmt.Errorf("a video cannot be combined with --popular or --search"))
		}

		CheckDependencies()

		rt := player.Default
		ready := rt.Bootstrap(cmd.Context(), viper.GetString(key.Player), viper.GetDuration(key.PlayerRuntimeWait))
		go func() {
			if err := <-ready; err != nil {
				log.Error(err)
			}
		}()

		src := auth.Keyring{}
		options := tui.Options{
			VideoID:    videoID,
			Popular:    popular,
			Query:      query,
			Gateway:    gateway.NewFromConfig(src),
			Auth:       src,
			Runtime:    rt,
			Factory:    player.MPVFactory(rt, false),
			PiPFactory: player.MPVFactory(rt, true),
		}
		handleErr(tui.Run(&options))
	},
}

// completionHistory suggests ids of watched videos, most recent first.
func completionHistory(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	videos, err := history.Recent()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	videos = lo.Filter(videos, func(v *history.SavedVideo, _ int) bool {
		return strings.HasPrefix(v.ID, toComplete)
	})

	return lo.Map(videos, func(v *history.SavedVideo, _ int) string {
		return v.ID + "\t" + v.Title
	}), cobra.ShellCompDirectiveNoFileComp
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
