package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/open"
	"github.com/tubular-cli/tubular/session"
	"github.com/tubular-cli/tubular/style"
	"github.com/tubular-cli/tubular/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case historyState:
		output = b.viewHistory()
	case browseState:
		output = listExtraPaddingStyle.Render(b.browseC.View())
	case watchState:
		output = b.viewWatch()
	case pipState:
		output = b.viewPiP()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(true, []string{
		style.Title("Loading"),
		"",
		b.spinnerC.View() + " Fetching video",
	})
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewWatch() string {
	snap := b.watch.Snapshot()
	video := snap.Video

	lines := []string{
		style.Title(truncate.StringWithTail(video.Title, uint(max(b.width-2, 1)), "…")),
		"",
		b.channelLine(snap),
		style.Faint(util.Views(video.Views) + " · " + util.Ago(video.PublishedAt)),
		"",
		b.ratingButtons(snap) + "  " + b.subscribeButton(snap),
		"",
		b.playbackLine(snap.Playback),
		"",
	}
	lines = append(lines, b.description(video)...)

	if viper.GetBool(key.TUIShowURLs) {
		lines = append(lines, "", style.Faint(icon.Get(icon.Link)+" "+open.ShareURL(video.ID)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPiP() string {
	snap := b.watch.Snapshot()

	return b.renderLines(true, []string{
		style.Tag(style.Base, style.Peach)(icon.Get(icon.PiP)+" Mini-player") + " " +
			style.Bold(truncate.StringWithTail(snap.Video.Title, uint(max(b.width/2, 1)), "…")),
		"",
		b.playbackLine(snap.Playback),
		b.ratingButtons(snap) + "  " + b.subscribeButton(snap),
	})
}

func (b *statefulBubble) channelLine(snap session.Snapshot) string {
	if snap.Channel == nil {
		return style.Bold(gateway.DisplayTitle(snap.Video.ChannelTitle))
	}

	line := style.Bold(gateway.DisplayTitle(snap.Channel.Title))
	if snap.Channel.Verified() {
		line += " " + style.Verified(icon.Get(icon.Verified))
	}
	if snap.Channel.Subscribers > 0 {
		line += style.Faint(" · " + util.Compact(snap.Channel.Subscribers) + " subscribers")
	}
	return line
}

func (b *statefulBubble) ratingButtons(snap session.Snapshot) string {
	like := fmt.Sprintf("%s %s", icon.Get(icon.Liked), util.Compact(snap.Video.Likes))
	dislike := icon.Get(icon.Disliked)

	// the remote has not confirmed the rating; r reads it again
	unknown := snap.Authenticated && !snap.Rating.Reconciled && !snap.InFlight.Rating

	render := func(label string, pressed bool) string {
		switch {
		case unknown:
			return style.Unknown(label + " ?")
		case pressed && snap.InFlight.Rating:
			return style.Pending(label)
		case pressed:
			return style.Pressed(label)
		default:
			return style.Released(label)
		}
	}

	return render(like, snap.Rating.Rating == session.RatingLiked) + " " +
		render(dislike, snap.Rating.Rating == session.RatingDisliked)
}

func (b *statefulBubble) subscribeButton(snap session.Snapshot) string {
	if !snap.Authenticated {
		return style.Released(icon.Get(icon.Lock) + " Subscribe")
	}

	status := snap.Subscription
	switch {
	case status.InFlight:
		label := "Subscribing"
		if !status.Subscription.Subscribed {
			label = "Unsubscribing"
		}
		return style.Pending(b.spinnerC.View() + label)
	case !status.Reconciled:
		return style.Unknown("Subscribe ?")
	case status.Subscription.Subscribed:
		return style.Released(icon.Get(icon.Subscribed) + " Subscribed")
	default:
		return style.Subscribe("Subscribe")
	}
}

func (b *statefulBubble) playbackLine(status session.PlaybackStatus) string {
	switch {
	case status.Err != nil:
		return style.Fg(style.Red)(icon.Get(icon.Fail) + " Player failed: " + status.Err.Error())
	case status.State == session.PlaybackUninitialized:
		return b.spinnerC.View() + " Waiting for the player"
	case status.State == session.PlaybackLoading:
		return b.spinnerC.View() + " Loading"
	case status.State == session.PlaybackActive:
		return style.Fg(style.Green)(icon.Get(icon.Progress) + " Playing")
	case status.State == session.PlaybackRelocated:
		return style.Faint(fmt.Sprintf("%s Moved at %.0fs", icon.Get(icon.PiP), status.Position))
	default:
		return style.Faint("Closed")
	}
}

func (b *statefulBubble) description(video *gateway.Video) []string {
	limit := gateway.DescriptionPreview
	if b.expanded {
		limit = 0
	}

	width := viper.GetInt(key.TUIDescriptionWidth)
	if b.width > 0 && (width <= 0 || width > b.width) {
		width = b.width
	}

	text := video.DescriptionText(limit)
	if width > 0 {
		text = wrap.String(wordwrap.String(text, width), width)
	}
	return strings.Split(text, "\n")
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), max(b.width, 1))
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " An error occurred:",
		"",
		errorMsg,
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
