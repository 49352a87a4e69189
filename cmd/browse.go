package cmd

import (
	"encoding/json"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/constant"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/style"
	"github.com/tubular-cli/tubular/util"
)

func init() {
	rootCmd.AddCommand(popularCmd)
	popularCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	popularCmd.Flags().StringP("page", "p", "", "Token of the page to list, as printed after the previous one")

	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	searchCmd.Flags().IntP("limit", "n", 0, "Show at most this many videos (default is gateway.page_size)")
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most popular videos",
	Long: `List the chart of most popular videos for the region set by gateway.region.
Pass the printed page token to --page to list the following page.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		page, err := gateway.NewFromConfig(auth.Keyring{}).Popular(cmd.Context(), lo.Must(cmd.Flags().GetString("page")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(page))
			return
		}

		printVideos(cmd, page.Videos)
		if page.NextPageToken != "" {
			cmd.Println(style.Faint("next page: " + page.NextPageToken))
		}
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>...",
	Short:   "Search for videos",
	Example: "  " + constant.App + " search never gonna give you up --limit 5",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.TrimSpace(strings.Join(args, " "))
		videos, err := gateway.NewFromConfig(auth.Keyring{}).Search(cmd.Context(), query, lo.Must(cmd.Flags().GetInt("limit")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(videos))
			return
		}
		printVideos(cmd, videos)
	},
}

func printVideos(cmd *cobra.Command, videos []*gateway.Video) {
	if len(videos) == 0 {
		cmd.Println(style.Faint("No videos found"))
		return
	}

	for _, video := range videos {
		details := []string{gateway.DisplayTitle(video.ChannelTitle)}
		if video.Views > 0 {
			details = append(details, util.Views(video.Views))
		}
		if !video.PublishedAt.IsZero() {
			details = append(details, humanize.Time(video.PublishedAt))
		}
		cmd.Printf("%s %s %s\n",
			style.Fg(color.Purple)(video.ID),
			video.Title,
			style.Faint(strings.Join(details, " · ")),
		)
	}
}
