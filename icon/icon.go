// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/key"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Mark
	Link
	Liked
	Disliked
	Subscribed
	PiP
	Verified
	Lock
	History
	Popular
)

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(o_o)",
		squares: "🟨",
	},
	Mark: {
		emoji:   "🔖",
		nerd:    "",
		plain:   "*",
		kaomoji: "(•̀ᴗ•́)",
		squares: "🟪",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "->",
		kaomoji: "(☞ﾟヮﾟ)☞",
		squares: "🟦",
	},
	Liked: {
		emoji:   "👍",
		nerd:    "",
		plain:   "+",
		kaomoji: "(^_^)b",
		squares: "🟩",
	},
	Disliked: {
		emoji:   "👎",
		nerd:    "",
		plain:   "-",
		kaomoji: "(-_-)p",
		squares: "🟥",
	},
	Subscribed: {
		emoji:   "🔔",
		nerd:    "",
		plain:   "@",
		kaomoji: "(ง'̀-'́)ง",
		squares: "🟧",
	},
	PiP: {
		emoji:   "📺",
		nerd:    "",
		plain:   "[]",
		kaomoji: "[¬º-°]¬",
		squares: "⬛",
	},
	Verified: {
		emoji:   "✅",
		nerd:    "",
		plain:   "v",
		kaomoji: "(✔)",
		squares: "🟩",
	},
	Lock: {
		emoji:   "🔒",
		nerd:    "",
		plain:   "!",
		kaomoji: "(⌐■_■)",
		squares: "⬜",
	},
	History: {
		emoji:   "📜",
		nerd:    "",
		plain:   "#",
		kaomoji: "(¬‿¬)",
		squares: "🟫",
	},
	Popular: {
		emoji:   "🔥",
		nerd:    "\U000f0238",
		plain:   ">",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🟧",
	},
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
