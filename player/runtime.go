package player

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/tubular-cli/tubular/log"
)

// Runtime is the process-wide readiness signal of the player backend.
//
// It holds a single callback slot: registering replaces any earlier registration,
// since only one player is active at a time. MarkReady fires at most once.
type Runtime struct {
	mu     sync.Mutex
	ready  bool
	binary string
	seq    uint64
	slotID uint64
	slot   func()
}

// NewRuntime returns a runtime that is not ready yet.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Default is the runtime shared by the application.
var Default = NewRuntime()

// WhenReady registers cb to run once the runtime becomes ready and returns the registration id.
// If the runtime is already ready, cb runs immediately and the returned id is zero.
func (r *Runtime) WhenReady(cb func()) uint64 {
	r.mu.Lock()
	if r.ready {
		r.mu.Unlock()
		cb()
		return 0
	}

	r.seq++
	r.slotID = r.seq
	r.slot = cb
	id := r.slotID
	r.mu.Unlock()
	return id
}

// Release clears the slot if it still holds registration id.
func (r *Runtime) Release(id uint64) {
	if id == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotID == id {
		r.slotID = 0
		r.slot = nil
	}
}

// MarkReady flips the runtime to ready and runs the registered callback, if any.
// Only the first call has an effect.
func (r *Runtime) MarkReady() {
	r.mu.Lock()
	if r.ready {
		r.mu.Unlock()
		return
	}
	r.ready = true
	cb := r.slot
	r.slot, r.slotID = nil, 0
	r.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Ready reports whether MarkReady has been called.
func (r *Runtime) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Binary returns the resolved player executable. Empty until Bootstrap succeeds.
func (r *Runtime) Binary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.binary
}

// Bootstrap resolves and probes the player binary in the background and marks r ready on success.
// The returned channel receives the outcome once and is then closed.
func (r *Runtime) Bootstrap(ctx context.Context, name string, wait time.Duration) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		path, err := exec.LookPath(name)
		if err != nil {
			log.Errorf("player runtime: %v", err)
			done <- fmt.Errorf("player %q not found: %w", name, err)
			return
		}

		if wait > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, wait)
			defer cancel()
		}

		if err := exec.CommandContext(ctx, path, "--version").Run(); err != nil {
			log.Errorf("player runtime probe: %v", err)
			done <- fmt.Errorf("player %q is not usable: %w", path, err)
			return
		}

		r.mu.Lock()
		r.binary = path
		r.mu.Unlock()

		log.Infof("player runtime ready: %s", path)
		r.MarkReady()
		done <- nil
	}()

	return done
}
