// Package key defines the canonical set of configuration identifiers.
package key

// Download service - where the backend lives and how long a call may take.
const (
	APIBaseURL = "api.base_url"
	APIPrefix  = "api.prefix"
	APITimeout = "api.timeout"
)

// Scheduling - the location used to turn a local date and time into an absolute instant.
const (
	ScheduleTimezone = "schedule.timezone"
)

// Local proxy server.
const (
	ServeAddr    = "serve.addr"
	ServeBackend = "serve.backend"
)

// URL history suggestions.
const (
	SearchShowURLSuggestions = "search.show_url_suggestions"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Terminal user interface.
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowURLs    = "tui.show_urls"
	TUIURLPrompt   = "tui.url_prompt"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI execution environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	CliHealthCheck  = "cli.health_check"
)
