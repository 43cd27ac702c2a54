// Package tui provides the terminal user interface for relaychat.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relaychat/internal/render"
)

// Color variables (updated from palette)
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
	colorTextMute  lipgloss.Color
)

// Style variables (rebuilt when the palette changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle lipgloss.Style
	userBubbleStyle   lipgloss.Style
	userLabelStyle    lipgloss.Style
	botBubbleStyle    lipgloss.Style
	botLabelStyle     lipgloss.Style
	pendingStyle      lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	errorStyle lipgloss.Style

	// Login screen
	loginPanelStyle lipgloss.Style
	loginTitleStyle lipgloss.Style
	loginLabelStyle lipgloss.Style
	loginFocusStyle lipgloss.Style

	// Config menu
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
)

// Gradient colors for the thinking animation (fixed colors)
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles from the active palette
func UpdateTheme() {
	p := render.CurrentPalette()

	colorBorder = p.Border
	colorPrimary = p.Primary
	colorSecondary = p.Secondary
	colorAccent = p.Accent
	colorWarning = p.Warning
	colorError = p.Error
	colorText = p.Text
	colorTextDim = p.TextDim
	colorTextMute = p.TextMute

	rebuildStyles()
}

// ApplyTheme activates the named palette, keeping the current one if unknown
func ApplyTheme(name string) bool {
	ok := render.SetPalette(name)
	UpdateTheme()
	return ok
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)
	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	hintStyle = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)
	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	botBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)
	botLabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)
	inputLabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).MarginRight(1)
	loadingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorTextMute).MarginTop(1)
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorTextDim).Bold(true)
	statusDescStyle = lipgloss.NewStyle().Foreground(colorTextMute)
	feedbackStyle = lipgloss.NewStyle().Foreground(colorWarning).Italic(true)

	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	loginPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 3)
	loginTitleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).MarginBottom(1)
	loginLabelStyle = lipgloss.NewStyle().Foreground(colorTextDim).Width(10)
	loginFocusStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Width(10)

	configTitleStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true).MarginBottom(1).PaddingLeft(1)
	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)
	configMenuItemStyle = lipgloss.NewStyle().Foreground(colorText).PaddingLeft(2)
	configMenuSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	configValueStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	configEnabledStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	configDisabledStyle = lipgloss.NewStyle().Foreground(colorError)
	configPathStyle = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)
}
