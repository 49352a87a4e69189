package session

import (
	"context"
	"sync"

	"github.com/samber/mo"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/player"
)

// PlaybackState is the lifecycle state of a Playback.
type PlaybackState int

const (
	PlaybackUninitialized PlaybackState = iota
	PlaybackLoading
	PlaybackActive
	PlaybackRelocated
	PlaybackClosed
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackLoading:
		return "loading"
	case PlaybackActive:
		return "active"
	case PlaybackRelocated:
		return "relocated"
	case PlaybackClosed:
		return "closed"
	default:
		return "uninitialized"
	}
}

// Handoff carries a video and its playback position to another presentation context.
type Handoff struct {
	VideoID  string  `json:"videoId"`
	Position float64 `json:"position"`
}

// PlaybackStatus is a read-only view of a Playback.
type PlaybackStatus struct {
	State PlaybackState `json:"state"`
	// Position is the captured position after relocation, or the queued seek before readiness.
	Position float64 `json:"position"`
	Err      error   `json:"-"`
}

// PlaybackConfig wires a Playback to its collaborators.
type PlaybackConfig struct {
	VideoID string
	Factory player.Factory
	Runtime *player.Runtime
	// Start is a position to seek to once the player is ready.
	Start mo.Option[float64]
	// OnChange is called after every state change, without locks held.
	OnChange func()
}

// Playback owns at most one player handle for a single video.
type Playback struct {
	cfg PlaybackConfig

	mu           sync.Mutex
	state        PlaybackState
	handle       player.Handle
	pending      mo.Option[float64]
	position     float64
	registration uint64
	mounted      bool
	err          error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPlayback returns an uninitialized playback. Nothing happens until Mount.
func NewPlayback(cfg PlaybackConfig) *Playback {
	if cfg.Runtime == nil {
		cfg.Runtime = player.Default
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Playback{
		cfg:     cfg,
		pending: cfg.Start,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *Playback) changed() {
	if p.cfg.OnChange != nil {
		p.cfg.OnChange()
	}
}

// Status returns the current state.
func (p *Playback) Status() PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := PlaybackStatus{State: p.state, Err: p.err}
	switch p.state {
	case PlaybackRelocated:
		status.Position = p.position
	case PlaybackUninitialized, PlaybackLoading:
		status.Position = p.pending.OrElse(0)
	}
	return status
}

// Mount asks for a player as soon as the player runtime is ready.
// Mounting twice has no further effect.
func (p *Playback) Mount() {
	p.mu.Lock()
	if p.mounted || p.state != PlaybackUninitialized {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	p.mu.Unlock()

	// may run instantiate synchronously
	id := p.cfg.Runtime.WhenReady(p.instantiate)

	p.mu.Lock()
	if p.state == PlaybackClosed || p.state == PlaybackRelocated {
		p.mu.Unlock()
		p.cfg.Runtime.Release(id)
		return
	}
	p.registration = id
	p.mu.Unlock()
}

// instantiate creates and loads the handle. It runs once, from the runtime ready callback.
func (p *Playback) instantiate() {
	p.mu.Lock()
	if p.state != PlaybackUninitialized {
		p.mu.Unlock()
		return
	}
	p.registration = 0

	handle, err := p.cfg.Factory()
	if err != nil {
		p.err = err
		p.mu.Unlock()
		log.WithFields(log.Fields{"video": p.cfg.VideoID}).Errorf("create player: %v", err)
		p.changed()
		return
	}

	p.handle = handle
	p.state = PlaybackLoading
	p.wg.Add(1)
	p.mu.Unlock()
	p.changed()

	go p.load(handle)
}

func (p *Playback) load(handle player.Handle) {
	defer p.wg.Done()

	if err := handle.Load(p.ctx, p.cfg.VideoID); err != nil {
		if p.ctx.Err() != nil {
			return
		}
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		log.WithFields(log.Fields{"video": p.cfg.VideoID}).Errorf("load player: %v", err)
		p.changed()
		return
	}

	select {
	case <-handle.Ready():
		p.markReady(handle)
	case <-handle.Exited():
		p.ended(handle)
		return
	case <-p.ctx.Done():
		return
	}

	select {
	case <-handle.Exited():
		p.ended(handle)
	case <-p.ctx.Done():
	}
}

// ended closes the playback after its player went away by itself.
// It runs on the load goroutine and so must not wait for it.
func (p *Playback) ended(handle player.Handle) {
	p.mu.Lock()
	if p.handle != handle || (p.state != PlaybackLoading && p.state != PlaybackActive) {
		p.mu.Unlock()
		return
	}
	p.state = PlaybackClosed
	p.handle = nil
	p.pending = mo.None[float64]()
	registration := p.registration
	p.registration = 0
	p.mu.Unlock()

	p.cancel()
	p.cfg.Runtime.Release(registration)
	if err := handle.Destroy(); err != nil {
		log.WithFields(log.Fields{"video": p.cfg.VideoID}).Warnf("destroy player: %v", err)
	}
	log.WithFields(log.Fields{"video": p.cfg.VideoID}).Info("player exited")
	p.changed()
}

// markReady moves a loading handle to active and applies the queued seek.
// Notifications for a stale handle or a second notification are ignored.
func (p *Playback) markReady(handle player.Handle) {
	p.mu.Lock()
	if p.handle != handle || p.state != PlaybackLoading {
		p.mu.Unlock()
		return
	}
	p.state = PlaybackActive
	position, seek := p.pending.Get()
	p.pending = mo.None[float64]()
	p.mu.Unlock()

	if seek {
		if err := handle.Seek(position); err != nil {
			log.WithFields(log.Fields{"video": p.cfg.VideoID, "position": position}).Warnf("seek after ready: %v", err)
		}
	}
	p.changed()
}

// RequestSeek seeks an active player. Before readiness the position is queued,
// replacing any earlier one, and a PlayerNotReady notice is returned.
func (p *Playback) RequestSeek(seconds float64) error {
	const op = "seek"
	if seconds < 0 {
		seconds = 0
	}

	p.mu.Lock()
	switch p.state {
	case PlaybackUninitialized, PlaybackLoading:
		p.pending = mo.Some(seconds)
		p.mu.Unlock()
		p.changed()
		return newError(PlayerNotReady, op, p.cfg.VideoID, nil)
	case PlaybackActive:
		handle := p.handle
		p.mu.Unlock()
		if err := handle.Seek(seconds); err != nil {
			return newError(TransportFailure, op, p.cfg.VideoID, err)
		}
		return nil
	default:
		p.mu.Unlock()
		return newError(PlayerNotReady, op, p.cfg.VideoID, errPlaybackEnded)
	}
}

// Relocate captures the playback position, releases the local player and returns the handoff
// for a new Playback in another context. Before readiness the queued position is carried.
func (p *Playback) Relocate() (Handoff, error) {
	const op = "relocate"

	p.mu.Lock()
	state, handle := p.state, p.handle
	p.mu.Unlock()

	var position float64
	switch state {
	case PlaybackActive:
		pos, err := handle.CurrentTime()
		if err != nil {
			return Handoff{}, newError(TransportFailure, op, p.cfg.VideoID, err)
		}
		position = pos
	case PlaybackUninitialized, PlaybackLoading:
	default:
		return Handoff{}, newError(PlayerNotReady, op, p.cfg.VideoID, errPlaybackEnded)
	}

	p.mu.Lock()
	if p.state != state || p.handle != handle {
		p.mu.Unlock()
		return Handoff{}, newError(ConflictingIntent, op, p.cfg.VideoID, nil)
	}
	if state != PlaybackActive {
		position = p.pending.OrElse(0)
	}
	p.state = PlaybackRelocated
	p.position = position
	p.pending = mo.None[float64]()
	p.handle = nil
	registration := p.registration
	p.registration = 0
	p.mu.Unlock()

	p.teardown(handle, registration)
	p.changed()

	log.WithFields(log.Fields{"video": p.cfg.VideoID, "position": position}).Info("playback relocated")
	return Handoff{VideoID: p.cfg.VideoID, Position: position}, nil
}

// Close tears the playback down and destroys the handle. It is safe to call more than once.
func (p *Playback) Close() {
	p.mu.Lock()
	if p.state == PlaybackClosed {
		p.mu.Unlock()
		return
	}
	p.state = PlaybackClosed
	handle := p.handle
	p.handle = nil
	registration := p.registration
	p.registration = 0
	p.mu.Unlock()

	p.teardown(handle, registration)
	p.changed()
}

func (p *Playback) teardown(handle player.Handle, registration uint64) {
	p.cancel()
	p.cfg.Runtime.Release(registration)
	if handle != nil {
		if err := handle.Destroy(); err != nil {
			log.WithFields(log.Fields{"video": p.cfg.VideoID}).Warnf("destroy player: %v", err)
		}
	}
	p.wg.Wait()
}
