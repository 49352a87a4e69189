package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/history"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/open"
	"github.com/tubular-cli/tubular/session"
)

type (
	watchOpenedMsg struct {
		watch *session.Watch
		pip   bool
		// err is why the watch was opened in place of the requested one.
		err error
	}
	watchChangedMsg struct {
		watch *session.Watch
	}
	intentDoneMsg struct {
		watch *session.Watch
		err   error
	}
)

func (b *statefulBubble) loadHistory() error {
	videos, err := history.Recent()
	if err != nil {
		return err
	}

	b.historyC.SetItems(lo.Map(videos, func(v *history.SavedVideo, _ int) list.Item {
		return &listItem{video: v}
	}))
	return nil
}

func (b *statefulBubble) removeFromHistory(item *listItem) tea.Cmd {
	if err := history.Remove(item.video.ID); err != nil {
		return func() tea.Msg { return err }
	}
	b.historyC.RemoveItem(b.historyC.Index())
	return nil
}

// openWatch opens videoID in the main view and records it in the history.
func (b *statefulBubble) openWatch(videoID string) tea.Cmd {
	ctx, deps := b.ctx, b.deps(false)
	return func() tea.Msg {
		w, err := session.Open(ctx, deps, videoID)
		if err != nil {
			return err
		}

		if viper.GetBool(key.HistorySaveOnWatch) {
			if err := history.Save(w.Video()); err != nil {
				log.Warnf("save history: %v", err)
			}
		}
		return watchOpenedMsg{watch: w}
	}
}

// waitForChange delivers the next change of w, or nothing once w is closed.
func waitForChange(w *session.Watch) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changed():
			return watchChangedMsg{watch: w}
		case <-w.Done():
			return nil
		}
	}
}

func (b *statefulBubble) toggleSubscription() tea.Cmd {
	ctx, w := b.ctx, b.watch
	return func() tea.Msg {
		return intentDoneMsg{watch: w, err: w.RequestToggleSubscription(ctx)}
	}
}

func (b *statefulBubble) toggleRating(p session.Press) tea.Cmd {
	ctx, w := b.ctx, b.watch
	return func() tea.Msg {
		return intentDoneMsg{watch: w, err: w.RequestToggleRating(ctx, p)}
	}
}

func (b *statefulBubble) reconcile() tea.Cmd {
	ctx, w := b.ctx, b.watch
	return func() tea.Msg {
		return intentDoneMsg{watch: w, err: w.RequestReconcile(ctx)}
	}
}

// relocate moves playback between the main view and the mini-player.
// The old watch is closed only after the new one is open. If that fails,
// playback resumes where it was.
func (b *statefulBubble) relocate() tea.Cmd {
	ctx, w := b.ctx, b.watch
	pip := b.state != pipState
	deps, fallback := b.deps(pip), b.deps(!pip)
	b.busy = true

	return func() tea.Msg {
		handoff, err := w.RequestRelocate()
		if err != nil {
			return intentDoneMsg{watch: w, err: err}
		}

		next, err := session.OpenRelocated(ctx, deps, handoff)
		if err != nil {
			log.Warnf("relocate %s: %v", handoff.VideoID, err)
			return watchOpenedMsg{watch: w.Reopen(fallback, handoff), pip: !pip, err: err}
		}
		return watchOpenedMsg{watch: next, pip: pip}
	}
}

func (b *statefulBubble) share() tea.Cmd {
	videoID := b.watch.Video().ID
	return func() tea.Msg {
		if err := open.Share(videoID); err != nil {
			return intentDoneMsg{err: err}
		}
		return nil
	}
}
