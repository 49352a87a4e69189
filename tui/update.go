package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tubular-cli/tubular/internal/ui"
	"github.com/tubular-cli/tubular/session"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case error:
		b.busy = false
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		var tick tea.Cmd
		b.spinnerC, tick = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, tick)
	case browseLoadedMsg:
		return b, tea.Batch(cmd, b.applyBrowse(msg))
	case watchOpenedMsg:
		b.adopt(msg.watch, msg.pip)
		return b, tea.Batch(cmd, waitForChange(msg.watch), ui.NotifyError(msg.err))
	case watchChangedMsg:
		// changes of a replaced watch are dropped
		if msg.watch != b.watch {
			return b, cmd
		}
		return b, tea.Batch(cmd, waitForChange(msg.watch))
	case intentDoneMsg:
		// outcomes of a replaced watch are dropped
		if msg.watch != nil && msg.watch != b.watch {
			return b, cmd
		}
		b.busy = false
		return b, tea.Batch(cmd, ui.NotifyError(msg.err))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.close()
			return b, tea.Quit
		}
	}

	switch b.state {
	case historyState:
		return b.updateHistory(msg, cmd)
	case browseState:
		return b.updateBrowse(msg, cmd)
	case watchState, pipState:
		return b.updateWatch(msg, cmd)
	case errorState:
		return b.updateError(msg, cmd)
	default:
		return b, cmd
	}
}

func (b *statefulBubble) updateHistory(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		item, selected := b.historyC.SelectedItem().(*listItem)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && selected:
			b.setState(loadingState)
			return b, tea.Batch(cmd, b.openWatch(item.video.ID))
		case bubblesKey.Matches(msg, b.keymap.remove) && selected:
			return b, tea.Batch(cmd, b.removeFromHistory(item))
		case bubblesKey.Matches(msg, b.keymap.browse):
			return b, tea.Batch(cmd, b.browsePopular())
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.close()
			return b, tea.Quit
		}
	}

	var listCmd tea.Cmd
	b.historyC, listCmd = b.historyC.Update(msg)
	return b, tea.Batch(cmd, listCmd)
}

func (b *statefulBubble) updateWatch(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || b.watch == nil {
		return b, cmd
	}

	if bubblesKey.Matches(keyMsg, b.keymap.quit) {
		b.close()
		return b, tea.Quit
	}

	// the watch is being replaced
	if b.busy {
		return b, cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.subscribe):
		return b, tea.Batch(cmd, b.toggleSubscription())
	case bubblesKey.Matches(keyMsg, b.keymap.like):
		return b, tea.Batch(cmd, b.toggleRating(session.PressLike))
	case bubblesKey.Matches(keyMsg, b.keymap.dislike):
		return b, tea.Batch(cmd, b.toggleRating(session.PressDislike))
	case bubblesKey.Matches(keyMsg, b.keymap.refresh):
		return b, tea.Batch(cmd, b.reconcile())
	case bubblesKey.Matches(keyMsg, b.keymap.pip):
		return b, tea.Batch(cmd, b.relocate())
	case bubblesKey.Matches(keyMsg, b.keymap.share):
		return b, tea.Batch(cmd, b.share())
	case bubblesKey.Matches(keyMsg, b.keymap.expand):
		b.expanded = !b.expanded
	case bubblesKey.Matches(keyMsg, b.keymap.back) && b.options.VideoID == "":
		b.watch.Close()
		b.watch = nil
		if b.home == historyState {
			if err := b.loadHistory(); err != nil {
				b.raiseError(err)
				return b, cmd
			}
		}
		b.setState(b.home)
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		b.close()
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		switch {
		case b.watch != nil:
			b.setState(b.previous)
		case b.options.VideoID == "":
			b.setState(b.home)
		default:
			b.close()
			return b, tea.Quit
		}
	}
	return b, cmd
}
