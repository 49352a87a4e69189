package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/tubular-cli/tubular/internal/ui"
	"github.com/tubular-cli/tubular/session"
	"github.com/tubular-cli/tubular/style"
	"github.com/tubular-cli/tubular/util"
)

// statefulBubble holds the view state and the currently open watch.
type statefulBubble struct {
	state    state
	previous state
	// busy is set while a relocation replaces the watch.
	busy bool

	keymap *statefulKeymap

	spinnerC spinner.Model
	helpC    help.Model
	historyC list.Model
	browseC  list.Model

	// home is the list a closed watch returns to.
	home    state
	listing listing

	engagement *session.Engagement
	watch      *session.Watch
	expanded   bool
	lastError  error

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	if b.state != s {
		b.previous = b.state
	}
	b.state = s
	b.keymap.setState(s)
}

// deps returns the session collaborators for the main view or the mini-player.
func (b *statefulBubble) deps(pip bool) session.Deps {
	factory := b.options.Factory
	if pip && b.options.PiPFactory != nil {
		factory = b.options.PiPFactory
	}
	return session.Deps{
		Metadata:   b.options.Gateway,
		Engagement: b.engagement,
		Factory:    factory,
		Runtime:    b.options.Runtime,
	}
}

// adopt replaces the open watch, closing the previous one.
func (b *statefulBubble) adopt(w *session.Watch, pip bool) {
	if b.watch != nil && b.watch != w {
		b.watch.Close()
	}
	b.watch = w
	b.busy = false
	if pip {
		b.setState(pipState)
	} else {
		b.setState(watchState)
	}
}

func (b *statefulBubble) close() {
	if b.watch != nil {
		b.watch.Close()
		b.watch = nil
	}
	b.cancel()
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	for _, l := range []*list.Model{&b.historyC, &b.browseC} {
		l.SetSize(width-xx, height-yy)
		l.Help.Width = width - xx
	}

	b.width = width - x
	b.height = height - y
	b.helpC.Width = width - xx
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		keymap:     keymap,
		engagement: session.NewEngagement(options.Gateway, options.Auth),
		notifier:   &ui.Model{},
		options:    options,
		home:       historyState,
		listing:    listing{query: options.Query},
	}
	bubble.ctx, bubble.cancel = context.WithCancel(context.Background())

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	newList := func(title string, bg lipgloss.Color) list.Model {
		l := list.New([]list.Item{}, delegate, 0, 0)
		l.KeyMap = keymap.forList()
		l.AdditionalShortHelpKeys = keymap.ShortHelp
		l.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return keymap.FullHelp()[0]
		}
		l.Title = title
		l.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(bg).Padding(0, 1)
		l.Styles.NoItems = paddingStyle
		l.SetStatusBarItemName("video", "videos")
		l.SetShowPagination(false)
		return l
	}

	bubble.historyC = newList("History", style.Yellow)
	bubble.browseC = newList(bubble.listing.title(), style.Red)

	bubble.setState(loadingState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
