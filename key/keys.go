// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Gateway - these keys configure access to the platform's remote API.
const (
	GatewayBaseURL   = "gateway.base_url"
	GatewayAPIKey    = "gateway.api_key"
	GatewayTimeout   = "gateway.timeout"
	GatewayRateLimit = "gateway.rate_limit"
	GatewayLanguage  = "gateway.language"
	GatewayRegion    = "gateway.region"
	GatewayPageSize  = "gateway.page_size"
)

// Metadata Cache - these keys govern how long video and channel metadata stays on disk.
const (
	CacheMetadataLifetime = "cache.metadata_lifetime"
)

// Media Playback - these keys maintain the state and configuration for the external video player.
const (
	Player              = "player.default"
	PlayerAutoplay      = "player.autoplay"
	PlayerRuntimeWait   = "player.runtime_wait"
	PlayerSocketRetries = "player.socket_retries"
)

// History Tracking - these keys configure the persistence of watched videos.
const (
	HistorySaveOnWatch = "history.save_on_watch"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the watch view's layout.
const (
	TUIDescriptionWidth = "tui.description_width"
	TUIShowURLs         = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
