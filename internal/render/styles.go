package render

import (
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StylePink       = styles.PinkStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// StyleInfo describes a markdown style for selection menus
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names
func StyleNames() []string {
	list := AvailableStyles()
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether name is a glamour standard style
func IsBuiltinStyle(name string) bool {
	_, ok := styles.DefaultStyles[name]
	return ok
}

// NormalizeStyle maps palette-style spellings to glamour style names
func NormalizeStyle(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tokyonight", "tokyo_night":
		return StyleTokyoNight
	case "plain", "none":
		return StyleNoTTY
	default:
		return strings.TrimSpace(name)
	}
}
