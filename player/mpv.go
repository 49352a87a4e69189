package player

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/constant"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/where"
)

const (
	socketWaitDelay = 300 * time.Millisecond
	quitTimeout     = 3 * time.Second
)

// MPVOptions configures mpv instances.
type MPVOptions struct {
	// Binary is the mpv executable. Defaults to "mpv".
	Binary string
	// Autoplay starts playback unpaused.
	Autoplay bool
	// SocketRetries bounds how long Load waits for the IPC socket.
	SocketRetries int
	// Title overrides the window title.
	Title string
	// Floating opens a small borderless window that stays on top.
	Floating bool
}

// MPV implements Handle using mpv's JSON-IPC protocol.
type MPV struct {
	opts       MPVOptions
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	ready      chan struct{}
	readyOnce  sync.Once
	events     *EventListener
	mu         sync.Mutex
	destroyed  bool
}

var _ Handle = (*MPV)(nil)

// NewMPV creates an mpv handle. Nothing is started until Load.
func NewMPV(opts MPVOptions) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.SocketRetries <= 0 {
		opts.SocketRetries = 10
	}
	return &MPV{
		opts:   opts,
		exited: make(chan struct{}),
		ready:  make(chan struct{}),
	}
}

// MPVFactory returns a Factory producing mpv handles that use the binary resolved by rt.
// Floating handles are used for the mini-player.
func MPVFactory(rt *Runtime, floating bool) Factory {
	return func() (Handle, error) {
		binary := rt.Binary()
		if binary == "" {
			binary = viper.GetString(key.Player)
		}
		return NewMPV(MPVOptions{
			Binary:        binary,
			Autoplay:      viper.GetBool(key.PlayerAutoplay),
			SocketRetries: viper.GetInt(key.PlayerSocketRetries),
			Floating:      floating,
		}), nil
	}
}

// Load starts an idle mpv process, attaches the event listener and then loads the video,
// so the file-loaded event cannot be missed.
func (m *MPV) Load(ctx context.Context, videoID string) error {
	target, err := sanitizeMediaTarget(constant.WatchURL + url.QueryEscape(videoID))
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return fmt.Errorf("load %s: player destroyed", videoID)
	}
	if m.cmd != nil {
		m.mu.Unlock()
		return fmt.Errorf("load %s: player already loaded", videoID)
	}

	socket := filepath.Join(where.Temp(), "mpv-"+uuid.NewString()[:8]+".sock")

	title := sanitizeTitle(m.opts.Title)
	if title == "" {
		title = constant.App + " - " + videoID
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		fmt.Sprintf("--input-ipc-server=%s", socket),
		fmt.Sprintf("--title=%s", title),
		fmt.Sprintf("--pause=%s", map[bool]string{true: "no", false: "yes"}[m.opts.Autoplay]),
	}
	if m.opts.Floating {
		args = append(args, "--ontop", "--no-border", "--geometry=30%-24-24")
	}

	cmd := exec.Command(m.opts.Binary, args...)
	cmd.SysProcAttr = detached()
	if err := cmd.Start(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("start mpv: %w", err)
	}

	m.cmd = cmd
	m.socketPath = socket
	exited := m.exited
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()
	m.mu.Unlock()

	if err := m.waitForSocket(ctx); err != nil {
		log.Warnf("killing mpv: %v", err)
		_ = terminate(cmd)
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	if err := m.listen(); err != nil {
		return err
	}

	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", videoID, err)
	}
	return nil
}

// listen attaches the event listener that reports readiness.
func (m *MPV) listen() error {
	m.mu.Lock()
	events := NewEventListener(m.socketPath, m.handleEvent, "eof-reached")
	m.events = events
	m.mu.Unlock()

	if err := events.Start(); err != nil {
		return fmt.Errorf("mpv events: %w", err)
	}
	return nil
}

func (m *MPV) handleEvent(name string, data json.RawMessage) {
	switch name {
	case "file-loaded":
		m.markReady()
	case "eof-reached":
		if string(data) == "true" {
			log.Debugf("mpv %s: end of file", m.Socket())
		}
	}
}

func (m *MPV) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

// Ready is closed when mpv reports the video as loaded.
func (m *MPV) Ready() <-chan struct{} {
	return m.ready
}

// Exited is closed when the mpv process exits, including after Destroy.
func (m *MPV) Exited() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket(ctx context.Context) error {
	for i := 0; i < m.opts.SocketRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", m.Socket())
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.Socket(), m.opts.SocketRetries)
}

// CurrentTime returns the current playback position in seconds.
func (m *MPV) CurrentTime() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// Destroy quits mpv, waiting briefly before killing it, and removes the socket.
func (m *MPV) Destroy() error {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil
	}
	m.destroyed = true
	cmd, events, socket := m.cmd, m.events, m.socketPath
	m.mu.Unlock()

	if events != nil {
		events.Stop()
	}
	if cmd == nil {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = terminate(cmd)
	}

	if err := os.Remove(socket); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.socketPath
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return 0, err
	}

	if len(data) == 0 || string(data) == "null" {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	var val float64
	if err := json.Unmarshal(data, &val); err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}
	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not look like flags
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
