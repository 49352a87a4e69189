package tui

import (
	"fmt"

	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/history"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/util"
)

// listItem wraps a history entry for the list component.
type listItem struct {
	video *history.SavedVideo
}

func (t *listItem) Title() string {
	return t.video.Title
}

func (t *listItem) Description() string {
	times := ""
	if t.video.Times > 1 {
		times = " · " + util.Quantify(t.video.Times, "time", "times")
	}
	return fmt.Sprintf("%s %s · %s%s",
		icon.Get(icon.History),
		gateway.DisplayTitle(t.video.ChannelTitle),
		util.Ago(t.video.WatchedAt),
		times,
	)
}

func (t *listItem) FilterValue() string {
	return t.video.Title + " " + t.video.ChannelTitle
}
