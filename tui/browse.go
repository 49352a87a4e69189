package tui

import (
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/util"
)

// listing is what the browse list shows: the popular chart, or the results of a search.
type listing struct {
	query string
	// next is the token of the following chart page, empty on the last one.
	next string
}

func (l listing) title() string {
	if l.query != "" {
		return fmt.Sprintf("Search: %s", l.query)
	}
	return "Popular"
}

type browseLoadedMsg struct {
	videos []*gateway.Video
	next   string
	// more appends the videos instead of replacing the list.
	more bool
}

// browseItem wraps a listed video for the list component.
type browseItem struct {
	video *gateway.Video
}

func (t *browseItem) Title() string {
	return t.video.Title
}

func (t *browseItem) Description() string {
	description := gateway.DisplayTitle(t.video.ChannelTitle)
	if t.video.Views > 0 {
		description += " · " + util.Views(t.video.Views)
	}
	if !t.video.PublishedAt.IsZero() {
		description += " · " + util.Ago(t.video.PublishedAt)
	}
	return fmt.Sprintf("%s %s", icon.Get(icon.Popular), description)
}

func (t *browseItem) FilterValue() string {
	return t.video.Title + " " + t.video.ChannelTitle
}

// loadBrowse fetches the search results, or the chart page of pageToken.
func (b *statefulBubble) loadBrowse(pageToken string) tea.Cmd {
	ctx, gw, query := b.ctx, b.options.Gateway, b.listing.query
	return func() tea.Msg {
		if query != "" {
			videos, err := gw.Search(ctx, query, 0)
			if err != nil {
				return err
			}
			return browseLoadedMsg{videos: videos}
		}

		page, err := gw.Popular(ctx, pageToken)
		if err != nil {
			return err
		}
		return browseLoadedMsg{videos: page.Videos, next: page.NextPageToken, more: pageToken != ""}
	}
}

func (b *statefulBubble) applyBrowse(msg browseLoadedMsg) tea.Cmd {
	items := lo.Map(msg.videos, func(v *gateway.Video, _ int) list.Item {
		return &browseItem{video: v}
	})

	b.listing.next = msg.next
	b.browseC.Title = b.listing.title()
	b.home = browseState
	b.setState(browseState)

	if msg.more {
		return b.browseC.SetItems(append(b.browseC.Items(), items...))
	}
	b.browseC.ResetSelected()
	return b.browseC.SetItems(items)
}

// browsePopular replaces the browse list with the first page of the chart.
func (b *statefulBubble) browsePopular() tea.Cmd {
	b.listing = listing{}
	b.setState(loadingState)
	return b.loadBrowse("")
}

func (b *statefulBubble) updateBrowse(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.browseC.FilterState() != list.Filtering {
		item, selected := b.browseC.SelectedItem().(*browseItem)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && selected:
			b.setState(loadingState)
			return b, tea.Batch(cmd, b.openWatch(item.video.ID))
		case bubblesKey.Matches(msg, b.keymap.more) && b.listing.next != "":
			return b, tea.Batch(cmd, b.loadBrowse(b.listing.next))
		case bubblesKey.Matches(msg, b.keymap.back) && b.browseC.FilterState() == list.Unfiltered:
			if err := b.loadHistory(); err != nil {
				b.raiseError(err)
				return b, cmd
			}
			b.home = historyState
			b.setState(historyState)
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.close()
			return b, tea.Quit
		}
	}

	var listCmd tea.Cmd
	b.browseC, listCmd = b.browseC.Update(msg)
	return b, tea.Batch(cmd, listCmd)
}
