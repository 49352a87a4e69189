// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "tubular"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent with every request to the platform API.
	UserAgent = App + "/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Platform endpoints.
const (
	// DefaultAPIBase is the root of the platform's public data API.
	DefaultAPIBase = "https://www.googleapis.com/youtube/v3"

	// WatchURL is prefixed to a video id to build a shareable link.
	WatchURL = "https://www.youtube.com/watch?v="

	// ChannelURL is prefixed to a channel id to build a channel link.
	ChannelURL = "https://www.youtube.com/channel/"

	// Repository is the GitHub owner/name pair releases are published under.
	Repository = "tubular-cli/tubular"
)

// GOOS values the open and player packages branch on.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
