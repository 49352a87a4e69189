// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/gateway"
	"github.com/tubular-cli/tubular/player"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// VideoID is opened right away. When empty the watch history is shown instead,
	// or the popular chart or search results if asked for.
	VideoID string
	// Popular lists the most popular videos.
	Popular bool
	// Query lists the videos matching it. It takes precedence over Popular.
	Query   string
	Gateway gateway.Gateway
	Auth    auth.Source
	Runtime *player.Runtime
	// Factory creates the main player; PiPFactory the mini-player.
	Factory    player.Factory
	PiPFactory player.Factory
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)
	defer bubble.close()

	if options.VideoID == "" {
		if err := bubble.loadHistory(); err != nil {
			return err
		}
		if !options.browsing() {
			bubble.setState(historyState)
		}
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}

func (o *Options) browsing() bool {
	return o.VideoID == "" && (o.Popular || o.Query != "")
}
