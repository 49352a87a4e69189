package style

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, trimmed to what the interface draws with.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Surface = lipgloss.Color("#313244")

	Mauve    = lipgloss.Color("#cba6f7")
	Lavender = lipgloss.Color("#b4befe")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
)

// Roles.
var (
	AccentColor    = Mauve
	SecondaryColor = Lavender
	WarningColor   = Yellow
	ErrorColor     = Red
	HiRed          = Red
)
