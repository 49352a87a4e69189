package session

import (
	"errors"
	"fmt"
)

// Condition classifies every failure surfaced by a session.
type Condition string

const (
	// Unauthenticated means no user is signed in; nothing was attempted and no state changed.
	Unauthenticated Condition = "UNAUTHENTICATED"
	// TransportFailure means a remote or player call failed; optimistic state was rolled back.
	TransportFailure Condition = "TRANSPORT_FAILURE"
	// ConflictingIntent means a request for the same entity is still outstanding. It is a notice.
	ConflictingIntent Condition = "CONFLICTING_INTENT"
	// PlayerNotReady means the player cannot take the request yet. Seeks are queued.
	PlayerNotReady Condition = "PLAYER_NOT_READY"
)

// Error implements error so a Condition can be matched with errors.Is.
func (c Condition) Error() string {
	return string(c)
}

// Error is the only error type returned by session operations.
type Error struct {
	Condition Condition
	Op        string
	Entity    string
	Err       error
}

func newError(c Condition, op, entity string, err error) *Error {
	return &Error{Condition: c, Op: op, Entity: entity, Err: err}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Condition, e.Op)
	if e.Entity != "" {
		msg += " " + e.Entity
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error's Condition.
func (e *Error) Is(target error) bool {
	c, ok := target.(Condition)
	return ok && c == e.Condition
}

// ConditionOf returns the Condition of err, or "" if err did not come from a session.
func ConditionOf(err error) Condition {
	var e *Error
	if errors.As(err, &e) {
		return e.Condition
	}
	return ""
}

// Notice reports whether err is informational rather than a failure.
func Notice(err error) bool {
	switch ConditionOf(err) {
	case ConflictingIntent, PlayerNotReady:
		return true
	default:
		return false
	}
}

// Discarded reports whether err is a response dropped because its watch closed.
// Nothing is left to show for it.
func Discarded(err error) bool {
	return errors.Is(err, errDiscarded)
}

var (
	errPlaybackEnded = errors.New("playback ended")
	errNotCleared    = errors.New("subscription was not cleared")
	errNoHandle      = errors.New("no subscription handle returned")
	errDiscarded     = errors.New("session closed before the response arrived")
)
