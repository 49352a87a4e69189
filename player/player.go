// Package player defines the embedded player capability used by playback sessions.
// The primary implementation drives mpv through its JSON-IPC interface.
package player

import "context"

// Handle is one player instance bound to a single video.
type Handle interface {
	// Load starts playback of the video. Readiness is reported later through Ready.
	Load(ctx context.Context, videoID string) error

	// Seek moves playback to an absolute position in seconds.
	Seek(seconds float64) error

	// CurrentTime reports the elapsed playback position in seconds.
	CurrentTime() (float64, error)

	// Ready is closed once, when the loaded video can accept seeks.
	Ready() <-chan struct{}

	// Exited is closed when the player goes away on its own, e.g. the user closed its window.
	Exited() <-chan struct{}

	// Destroy stops playback and releases the instance. It is safe to call more than once.
	Destroy() error
}

// Factory creates a fresh, unloaded Handle.
type Factory func() (Handle, error)
