package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/relaychat/internal/auth"
	"github.com/diogo/relaychat/internal/exchange"
	"github.com/diogo/relaychat/internal/logging"
)

// SessionFactory builds a fresh handler (new log and responder state)
type SessionFactory func() *exchange.Handler

// AppConfig wires the App
type AppConfig struct {
	Gate       *auth.Gate
	NewSession SessionFactory
	Chat       ChatOptions
	Logger     logging.Logger
}

// App shows the login screen until the gate opens, then the chat
type App struct {
	ctx    context.Context
	cfg    AppConfig
	logger logging.Logger

	login  LoginModel
	chat   ChatModel
	inChat bool

	width  int
	height int
}

// NewApp creates the root model
func NewApp(ctx context.Context, cfg AppConfig) App {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Gate == nil {
		cfg.Gate = auth.NewGate(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	a := App{
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		login:  NewLoginModel(ctx, cfg.Gate),
	}
	if cfg.Gate.Authorized() {
		a.openChat(cfg.Gate.Username())
	}
	return a
}

// InChat reports whether the chat screen is showing
func (a App) InChat() bool {
	return a.inChat
}

// Init initializes the active screen
func (a App) Init() tea.Cmd {
	if a.inChat {
		return a.chat.Init()
	}
	return a.login.Init()
}

// openChat starts a new session and greets the user
func (a *App) openChat(username string) tea.Cmd {
	handler := a.cfg.NewSession()
	handler.Greet()

	a.chat = NewChatModel(a.ctx, handler, username, a.cfg.Chat)
	a.inChat = true
	if a.width > 0 {
		a.chat, _ = a.chat.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return a.chat.Init()
}

// Update routes messages to the active screen
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.login, _ = a.login.Update(msg)
		if a.inChat {
			a.chat, cmd = a.chat.Update(msg)
		}
		return a, cmd

	case loggedInMsg:
		a.logger.Info("login accepted", logging.StringField("user", msg.username))
		return a, a.openChat(msg.username)

	case logoutMsg:
		a.logger.Info("logout", logging.StringField("user", a.cfg.Gate.Username()))
		a.cfg.Gate.Logout()
		a.inChat = false
		a.login = NewLoginModel(a.ctx, a.cfg.Gate)
		a.login, _ = a.login.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, a.login.Init()

	case resetMsg:
		if a.inChat && !a.chat.Loading() {
			return a, a.openChat(a.cfg.Gate.Username())
		}
		return a, nil
	}

	if a.inChat {
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}
	a.login, cmd = a.login.Update(msg)
	return a, cmd
}

// View renders the active screen
func (a App) View() string {
	if a.inChat {
		return a.chat.View()
	}
	return a.login.View()
}

// RunApp runs the interactive program until the user quits or ctx ends
func RunApp(ctx context.Context, cfg AppConfig) error {
	if cfg.NewSession == nil {
		return fmt.Errorf("no session factory configured")
	}

	p := tea.NewProgram(
		NewApp(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
