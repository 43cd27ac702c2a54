package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relaychat/internal/config"
	"github.com/diogo/relaychat/internal/models"
	"github.com/diogo/relaychat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewChoice
)

// settingItem is one editable line of the menu. Toggles flip a bool key,
// everything else opens a choice list.
type settingItem struct {
	label   string
	key     string
	toggle  bool
	choices func() []string
	value   func(config.Config) string
}

func boolChoice(v bool) string { return strconv.FormatBool(v) }

var settingItems = []settingItem{
	{
		label:   "Strategy",
		key:     "strategy",
		choices: strategyNames,
		value:   func(c config.Config) string { return c.Strategy },
	},
	{
		label:   "Auth Mode",
		key:     "auth_mode",
		choices: func() []string { return []string{"mock", "static"} },
		value:   func(c config.Config) string { return c.AuthMode },
	},
	{
		label:   "Log Level",
		key:     "log_level",
		choices: func() []string { return []string{"debug", "info", "warn", "error"} },
		value:   func(c config.Config) string { return c.LogLevel },
	},
	{
		label:   "Log Format",
		key:     "log_format",
		choices: func() []string { return []string{"text", "json"} },
		value:   func(c config.Config) string { return c.LogFormat },
	},
	{
		label:  "Copy to Clipboard",
		key:    "copy_to_clipboard",
		toggle: true,
		value:  func(c config.Config) string { return boolChoice(c.CopyToClipboard) },
	},
	{
		label:   "Markdown Style",
		key:     "markdown.style",
		choices: render.StyleNames,
		value:   func(c config.Config) string { return c.Markdown.Style },
	},
	{
		label:   "TUI Theme",
		key:     "tui_theme",
		choices: render.PaletteNames,
		value:   func(c config.Config) string { return c.TUITheme },
	},
}

func strategyNames() []string {
	all := models.AllStrategies()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return names
}

// SaveFunc persists a configuration
type SaveFunc func(config.Config) error

// ConfigModel is the interactive settings menu
type ConfigModel struct {
	config     config.Config
	configPath string
	save       SaveFunc

	view         configView
	cursor       int
	choiceCursor int

	feedback string

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the menu for cfg, persisting changes with save
func NewConfigModel(cfg config.Config, configPath string, save SaveFunc) ConfigModel {
	if save == nil {
		save = config.SaveConfig
	}
	return ConfigModel{
		config:     cfg,
		configPath: configPath,
		save:       save,
	}
}

// Config returns the current (possibly edited) configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// exitIndex is the cursor position of the Exit entry
func exitIndex() int { return len(settingItems) }

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	if m.view == viewMain {
		n := exitIndex() + 1
		m.cursor = (m.cursor + delta + n) % n
		return
	}
	n := len(settingItems[m.cursor].choices())
	m.choiceCursor = (m.choiceCursor + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewMain {
		if m.cursor == exitIndex() {
			return m, tea.Quit
		}
		item := settingItems[m.cursor]
		if item.toggle {
			current, _ := strconv.ParseBool(item.value(m.config))
			return m.apply(item, boolChoice(!current))
		}

		m.choiceCursor = 0
		for i, c := range item.choices() {
			if c == item.value(m.config) {
				m.choiceCursor = i
				break
			}
		}
		m.view = viewChoice
		return m, nil
	}

	item := settingItems[m.cursor]
	m.view = viewMain
	return m.apply(item, item.choices()[m.choiceCursor])
}

// apply sets key to value, saves, and reports the outcome
func (m ConfigModel) apply(item settingItem, value string) (tea.Model, tea.Cmd) {
	next := m.config
	if err := config.SetValue(&next, item.key, value); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback()
	}
	if err := m.save(next); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback()
	}

	m.config = next
	if item.key == "tui_theme" {
		ApplyTheme(value)
	}
	m.feedback = fmt.Sprintf("%s set to %s", item.label, value)
	return m, clearFeedback()
}

// View renders the menu
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		headerStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration")),
		configPanelStyle.Width(contentWidth).Render(
			"Config: " + configPathStyle.Render(m.configPath),
		),
	}

	var body string
	if m.view == viewMain {
		body = m.renderMainMenu()
	} else {
		body = m.renderChoices()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func menuLine(selected bool, label string) string {
	if selected {
		return configMenuSelectedStyle.Render("▸ " + label)
	}
	return configMenuItemStyle.Render(label)
}

func (m ConfigModel) renderMainMenu() string {
	lines := make([]string, 0, len(settingItems)+2)
	for i, item := range settingItems {
		value := item.value(m.config)
		var rendered string
		switch {
		case item.toggle && value == "true":
			rendered = configEnabledStyle.Render("enabled")
		case item.toggle:
			rendered = configDisabledStyle.Render("disabled")
		default:
			rendered = configValueStyle.Render(value)
		}
		label := fmt.Sprintf("%-20s", item.label)
		lines = append(lines, menuLine(m.cursor == i, label)+rendered)
	}
	lines = append(lines, "", menuLine(m.cursor == exitIndex(), "Exit"))
	return strings.Join(lines, "\n")
}

func (m ConfigModel) renderChoices() string {
	item := settingItems[m.cursor]
	current := item.value(m.config)

	lines := []string{configTitleStyle.Render("Select " + item.label)}
	for i, c := range item.choices() {
		line := menuLine(m.choiceCursor == i, c)
		if c == current {
			line += configEnabledStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view == viewChoice {
		back = "Back"
	}
	items := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" "+back),
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the settings menu for cfg
func RunConfig(cfg config.Config, configPath string) error {
	ApplyTheme(cfg.TUITheme)
	p := tea.NewProgram(NewConfigModel(cfg, configPath, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
