package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/history"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("filter", "f", "", "Only show videos whose title or channel fuzzily match")
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	historyCmd.Flags().IntP("limit", "n", 0, "Show at most this many videos")
	historyCmd.Flags().StringP("remove", "r", "", "Forget the video with this id")
	historyCmd.MarkFlagsMutuallyExclusive("remove", "filter")
	historyCmd.MarkFlagsMutuallyExclusive("remove", "json")
}

// historyCmd lists or edits the watch history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently watched videos",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if id := lo.Must(cmd.Flags().GetString("remove")); id != "" {
			handleErr(history.Remove(id))
			fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(id))
			return
		}

		videos, err := history.Filter(lo.Must(cmd.Flags().GetString("filter")))
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(videos) > limit {
			videos = videos[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(videos))
			return
		}

		if len(videos) == 0 {
			cmd.Println(style.Faint("Nothing watched yet"))
			return
		}

		for _, video := range videos {
			cmd.Printf("%s %s %s\n",
				style.Fg(color.Purple)(video.ID),
				video.String(),
				style.Faint(humanize.Time(video.WatchedAt)),
			)
		}
	},
}
