package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relaychat/internal/conversation"
	"github.com/diogo/relaychat/internal/exchange"
	"github.com/diogo/relaychat/internal/models"
	"github.com/diogo/relaychat/internal/render"
)

// Message types for the chat screen
type (
	animationTickMsg time.Time

	exchangeDoneMsg struct {
		result models.ExchangeResult
		err    error
	}

	feedbackClearMsg struct{}

	// logoutMsg asks the App to close the session and show the login screen
	logoutMsg struct{}

	// resetMsg asks the App for a fresh session
	resetMsg struct{}
)

// clipboardWriter is swapped in tests
var clipboardWriter = clipboard.WriteAll

// ChatOptions are the display settings of the chat screen
type ChatOptions struct {
	Title           string
	Subtitle        string
	Render          render.Options
	CopyToClipboard bool
}

// ChatModel is the conversation screen
type ChatModel struct {
	ctx     context.Context
	handler *exchange.Handler
	log     conversation.Log
	opts    ChatOptions
	user    string

	viewport viewport.Model
	textarea textarea.Model

	loading        bool
	ready          bool
	lastVersion    uint64
	rendered       bool
	animationFrame int
	feedback       string

	width  int
	height int
}

// NewChatModel creates the chat screen for handler
func NewChatModel(ctx context.Context, handler *exchange.Handler, user string, opts ChatOptions) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	if opts.Title == "" {
		opts.Title = "relaychat"
	}
	if opts.Render.Style == "" {
		opts.Render = render.DefaultOptions()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return ChatModel{
		ctx:      ctx,
		handler:  handler,
		log:      handler.Log(),
		opts:     opts,
		user:     user,
		textarea: ta,
	}
}

// Init starts the cursor blink
func (m ChatModel) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearFeedback() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Loading reports whether an exchange is outstanding
func (m ChatModel) Loading() bool {
	return m.loading
}

// Update handles messages and updates the model
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+o":
			if !m.loading {
				return m, func() tea.Msg { return logoutMsg{} }
			}
			return m, nil

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				m.textarea.Reset()
				return m, nil
			}
			if cmd, handled := m.command(input); handled {
				m.textarea.Reset()
				return m, cmd
			}

			m.textarea.Reset()
			m.loading = true
			m.animationFrame = 0
			return m, tea.Batch(m.submit(input), animationTick())
		}

	case exchangeDoneMsg:
		m.loading = false
		m.refresh(true)
		if msg.err == nil && msg.result.OK() && m.opts.CopyToClipboard {
			if err := clipboardWriter(msg.result.Reply); err == nil {
				m.feedback = "Reply copied to clipboard"
				cmds = append(cmds, clearFeedback())
			}
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			m.refresh(false)
			cmds = append(cmds, animationTick())
		}

	case feedbackClearMsg:
		m.feedback = ""
	}

	// Only keys reach the textarea, and only while idle
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// command handles slash commands and exit words
func (m *ChatModel) command(input string) (tea.Cmd, bool) {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		return tea.Quit, true
	case "/logout":
		return func() tea.Msg { return logoutMsg{} }, true
	case "/reset":
		return func() tea.Msg { return resetMsg{} }, true
	case "/copy":
		return m.copyLastReply(), true
	}
	return nil, false
}

// submit runs one exchange off the UI goroutine
func (m ChatModel) submit(text string) tea.Cmd {
	ctx, handler := m.ctx, m.handler
	return func() tea.Msg {
		result, err := handler.Submit(ctx, text)
		return exchangeDoneMsg{result: result, err: err}
	}
}

func (m *ChatModel) copyLastReply() tea.Cmd {
	reply, ok := conversation.LastBotReply(m.log)
	if !ok {
		m.feedback = "Nothing to copy yet"
		return clearFeedback()
	}
	if err := clipboardWriter(reply); err != nil {
		m.feedback = "Clipboard unavailable"
		return clearFeedback()
	}
	m.feedback = "Copied to clipboard"
	return clearFeedback()
}

func (m *ChatModel) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 6
	statusHeight := 2
	vpHeight := height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.refresh(true)
}

// refresh re-renders the transcript. Without force it only does so when the
// log version moved.
func (m *ChatModel) refresh(force bool) {
	if !m.ready {
		return
	}
	version := m.log.Version()
	if !force && m.rendered && version == m.lastVersion {
		return
	}
	m.lastVersion = version
	m.rendered = true

	width := m.viewport.Width - 6
	if width < 20 {
		width = 20
	}
	m.viewport.SetContent(renderTranscript(m.log.Messages(), width, m.opts.Render))
	m.viewport.GotoBottom()
}

// renderTranscript draws the conversation as labeled bubbles
func renderTranscript(msgs []models.Message, width int, opts render.Options) string {
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case msg.IsUser():
			b.WriteString(userLabelStyle.Render("● You"))
			b.WriteString("\n")
			b.WriteString(userBubbleStyle.Width(width).Render(msg.Text))
		case msg.Pending:
			b.WriteString(botLabelStyle.Render("✦ Assistant"))
			b.WriteString("\n")
			b.WriteString(pendingStyle.Render("⋯ " + msg.Text))
		default:
			b.WriteString(botLabelStyle.Render("✦ Assistant"))
			b.WriteString("\n")
			body := render.Reply(msg.Text, opts.WithWidth(width-4))
			b.WriteString(botBubbleStyle.Width(width).Render(body))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderPending draws the pending indicator with a cycling spinner glyph
func renderPending(text string, frame int) string {
	glyphs := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	color := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(color).Bold(true).Render(glyphs[frame%len(glyphs)])
	return spin + " " + pendingStyle.Render(text)
}

// View renders the chat screen
func (m ChatModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	headerParts := []string{titleStyle.Render("✦ " + m.opts.Title)}
	if m.opts.Subtitle != "" {
		headerParts = append(headerParts, hintStyle.Render("  •  "), subtitleStyle.Render(m.opts.Subtitle))
	}
	if m.user != "" {
		headerParts = append(headerParts, hintStyle.Render("  •  "), subtitleStyle.Render(m.user))
	}
	sections = append(sections, headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...),
	))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	var input string
	if m.loading {
		input = renderPending("Waiting for a reply", m.animationFrame)
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ChatModel) renderStatusBar(width int) string {
	if m.feedback != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(feedbackStyle.Render(m.feedback))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy"},
		{"Ctrl+O", "Logout"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, fmt.Sprintf("%s%s", statusKeyStyle.Render(s.key), statusDescStyle.Render(" "+s.desc)))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}
