package commands

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/diogo/relaychat/internal/api"
	"github.com/diogo/relaychat/internal/config"
	"github.com/diogo/relaychat/internal/exchange"
	"github.com/diogo/relaychat/internal/logging"
	"github.com/diogo/relaychat/internal/models"
	"github.com/diogo/relaychat/internal/script"
	"github.com/diogo/relaychat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunApp(ctx context.Context, cfg tui.AppConfig) error
	RunConfig(cfg config.Config, configPath string) error
}

// ResponderFactory returns a constructor for per-session responders and a
// function releasing whatever the responders share.
type ResponderFactory func(cfg config.Config, logger logging.Logger) (func() exchange.Responder, func(), error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig returns the layered configuration (file, .env, environment).
	LoadConfig func() (config.Config, error)

	// OpenLog creates the diagnostic logger for cfg.
	OpenLog func(cfg config.Config) (logging.Logger, io.Closer, error)

	// Responders builds the responder for the configured strategy.
	Responders ResponderFactory

	// ReadPassword reads a secret without echo.
	ReadPassword func() ([]byte, error)

	// PipedStdin reports whether stdin carries input.
	PipedStdin func() bool

	// StdoutTTY reports whether stdout is a terminal.
	StdoutTTY func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunApp(ctx context.Context, cfg tui.AppConfig) error {
	return tui.RunApp(ctx, cfg)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, configPath string) error {
	return tui.RunConfig(cfg, configPath)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:          &DefaultTUI{},
		LoadConfig:   func() (config.Config, error) { return config.Load(".env") },
		OpenLog:      openLogFile,
		Responders:   defaultResponders,
		ReadPassword: readPassword,
		PipedStdin:   pipedStdin,
		StdoutTTY:    isStdoutTTY,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// openLogFile writes diagnostics to the configured log file, keeping the
// terminal free for the UI.
func openLogFile(cfg config.Config) (logging.Logger, io.Closer, error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewFile(path, logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})
}

// defaultResponders shares one remote client across sessions; scripted
// sessions each get a fresh responder so /reset starts over.
func defaultResponders(cfg config.Config, logger logging.Logger) (func() exchange.Responder, func(), error) {
	switch models.StrategyFromName(cfg.Strategy) {
	case models.StrategyScript:
		s := script.DefaultScript()
		if cfg.ScriptFile != "" {
			loaded, err := script.LoadScript(cfg.ScriptFile)
			if err != nil {
				return nil, nil, err
			}
			s = loaded
		}
		return func() exchange.Responder { return script.NewResponder(s) }, func() {}, nil

	default:
		client, err := api.NewClient(cfg.BaseURL,
			api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
			api.WithProxy(cfg.Proxy),
			api.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		return func() exchange.Responder { return client }, client.Close, nil
	}
}

func readPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func pipedStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
