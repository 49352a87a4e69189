package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken is returned by user operations when no access token is available.
	ErrNoToken = errors.New("no access token")
	// ErrNotFound is returned when a video or channel does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("empty search query")
)

// StatusError is a non-success response from the platform API.
type StatusError struct {
	Op         string
	StatusCode int
	Reason     string
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %d %s (%s)", e.Op, e.StatusCode, msg, e.Reason)
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, msg)
}

// Unauthorized reports whether err is a rejected or missing credential.
func Unauthorized(err error) bool {
	if errors.Is(err, ErrNoToken) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
	}
	return false
}

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
