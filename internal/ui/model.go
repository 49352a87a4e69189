// Package ui renders short-lived notices at the bottom of a view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tubular-cli/tubular/color"
	"github.com/tubular-cli/tubular/icon"
	"github.com/tubular-cli/tubular/session"
	"github.com/tubular-cli/tubular/style"
)

// Lifetime is how long a notice stays visible.
const Lifetime = 3 * time.Second

// Level selects how a notice is drawn.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// NotifyMsg shows a notice.
type NotifyMsg struct {
	Text  string
	Level Level
}

// ClearNotificationMsg hides the notice it names, unless a newer one replaced it.
type ClearNotificationMsg struct {
	seq int
}

// Model holds the notice currently shown.
type Model struct {
	notification NotifyMsg
	seq          int
}

// Notify returns a command that shows text.
func Notify(text string, level Level) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Text: text, Level: level}
	}
}

// NotifyError turns a session error into a notice. Conflicts and queued seeks are informational;
// a missing sign-in is a warning and everything else is an error. Discarded responses show nothing.
func NotifyError(err error) tea.Cmd {
	if err == nil || session.Discarded(err) {
		return nil
	}

	switch {
	case session.Notice(err):
		return Notify(describe(err), LevelInfo)
	case session.ConditionOf(err) == session.Unauthenticated:
		return Notify("Sign in with `auth login` to do that", LevelWarning)
	default:
		return Notify(describe(err), LevelError)
	}
}

func describe(err error) string {
	switch session.ConditionOf(err) {
	case session.ConflictingIntent:
		return "Still waiting for the previous request"
	case session.PlayerNotReady:
		return "Player is not ready yet"
	case session.TransportFailure:
		return "Request failed, change reverted"
	default:
		return err.Error()
	}
}

func clearAfter(seq int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{seq: seq}
	})
}

// Update applies notice messages. Other messages are ignored.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		m.seq++
		m.notification = msg
		return clearAfter(m.seq)
	case ClearNotificationMsg:
		if msg.seq == m.seq {
			m.notification = NotifyMsg{}
		}
	}
	return nil
}

// Text returns the visible notice, if any.
func (m *Model) Text() string {
	return m.notification.Text
}

// View appends the notice to the last line of content.
func (m *Model) View(content string) string {
	if m.notification.Text == "" {
		return content
	}

	var notice string
	switch m.notification.Level {
	case LevelError:
		notice = style.Fg(color.Red)(icon.Get(icon.Fail) + " " + m.notification.Text)
	case LevelWarning:
		notice = style.Fg(color.Yellow)(icon.Get(icon.Lock) + " " + m.notification.Text)
	default:
		notice = style.Faint(m.notification.Text)
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + notice
	return strings.Join(lines, "\n")
}
