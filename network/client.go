// Package network provides the shared HTTP client used for all platform API traffic.
package network

import (
	"net/http"
	"time"
)

// Client is shared across the application.
// Per-request deadlines come from the caller's context and the gateway timeout.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// New returns a client sharing the tuned transport with the given overall timeout.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: Client.Transport,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}
