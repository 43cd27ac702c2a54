package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relaychat/internal/auth"
)

const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

type (
	loginResultMsg struct {
		username string
		result   auth.Result
	}

	// loggedInMsg tells the App the gate is open
	loggedInMsg struct {
		username string
	}
)

// LoginModel is the login screen
type LoginModel struct {
	ctx    context.Context
	gate   *auth.Gate
	inputs [fieldCount]textinput.Model
	focus  int

	checking bool
	reason   string

	width  int
	height int
}

// NewLoginModel creates the login screen for gate
func NewLoginModel(ctx context.Context, gate *auth.Gate) LoginModel {
	if ctx == nil {
		ctx = context.Background()
	}

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 128
	user.Prompt = ""
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 256
	pass.Prompt = ""
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return LoginModel{
		ctx:    ctx,
		gate:   gate,
		inputs: [fieldCount]textinput.Model{user, pass},
	}
}

// Init starts the cursor blink
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reason returns the last rejection reason
func (m LoginModel) Reason() string {
	return m.reason
}

func (m *LoginModel) setFocus(i int) {
	m.focus = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// Update handles messages for the login screen
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "enter":
			if m.checking {
				return m, nil
			}
			m.checking = true
			return m, m.login()
		}

	case loginResultMsg:
		m.checking = false
		if !msg.result.Authenticated() {
			m.reason = msg.result.Reason
			m.inputs[fieldPassword].SetValue("")
			return m, nil
		}
		m.reason = ""
		username := msg.username
		return m, func() tea.Msg { return loggedInMsg{username: username} }
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// login checks the credentials off the UI goroutine
func (m LoginModel) login() tea.Cmd {
	ctx, gate := m.ctx, m.gate
	creds := auth.Credentials{
		Username: m.inputs[fieldUsername].Value(),
		Password: m.inputs[fieldPassword].Value(),
	}
	return func() tea.Msg {
		return loginResultMsg{username: creds.Username, result: gate.Login(ctx, creds)}
	}
}

// View renders the login form
func (m LoginModel) View() string {
	label := func(i int, text string) string {
		if i == m.focus {
			return loginFocusStyle.Render(text)
		}
		return loginLabelStyle.Render(text)
	}

	rows := []string{
		loginTitleStyle.Render("✦ Sign in"),
		lipgloss.JoinHorizontal(lipgloss.Left, label(fieldUsername, "Username"), m.inputs[fieldUsername].View()),
		lipgloss.JoinHorizontal(lipgloss.Left, label(fieldPassword, "Password"), m.inputs[fieldPassword].View()),
		"",
	}
	switch {
	case m.checking:
		rows = append(rows, hintStyle.Render("Checking..."))
	case m.reason != "":
		rows = append(rows, errorStyle.Render(m.reason))
	default:
		rows = append(rows, hintStyle.Render("Tab to switch field • Enter to sign in • Esc to quit"))
	}

	panel := loginPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
