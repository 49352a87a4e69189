package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	switch {
	case b.options.VideoID != "":
		return tea.Batch(b.spinnerC.Tick, b.openWatch(b.options.VideoID))
	case b.options.browsing():
		return tea.Batch(b.spinnerC.Tick, b.loadBrowse(""))
	default:
		return b.spinnerC.Tick
	}
}
