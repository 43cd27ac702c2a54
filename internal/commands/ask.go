package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/relaychat/internal/config"
	"github.com/diogo/relaychat/internal/conversation"
	"github.com/diogo/relaychat/internal/models"
	"github.com/diogo/relaychat/internal/render"
)

// Gradient colors for animation
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

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorError   = lipgloss.Color("#f7768e")
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	apologyBubbleStyle = assistantBubbleStyle.
				BorderForeground(colorError)
)

// clipboardWrite is swapped in tests
var clipboardWrite = clipboard.WriteAll

// spinner draws the pending indicator on stderr while an exchange runs
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	color := gradientColors[s.frame%len(gradientColors)]
	glyph := lipgloss.NewStyle().Foreground(color).Bold(true).Render(chars[s.frame%len(chars)])
	msg := lipgloss.NewStyle().Foreground(colorText).Italic(true).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s", glyph, msg)
}

// finish stops the animation and clears the line. Safe to call twice.
func (s *spinner) finish() {
	s.mu.Lock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
	s.mu.Unlock()
	<-s.done
}

// runAsk sends one message through the exchange handler and prints the
// message that settled the exchange.
func runAsk(ctx context.Context, deps *Dependencies, opts *globalOptions, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("message cannot be empty")
	}

	rt, err := newRuntime(deps, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	tty := deps.StdoutTTY != nil && deps.StdoutTTY()
	handler := rt.newSession()

	var spin *spinner
	if tty {
		spin = newSpinner(deps.Stderr, models.PendingText)
		spin.start()
	}
	result, err := handler.Submit(ctx, input)
	if spin != nil {
		spin.finish()
	}
	if err != nil {
		return err
	}

	last, _ := conversation.Last(handler.Log())
	if err := writeReply(deps, rt.cfg, opts, last.Text, result.OK(), tty); err != nil {
		return err
	}

	if !result.OK() {
		path, _ := config.GetLogPath(rt.cfg)
		return fmt.Errorf("exchange failed (%s), see %s", result.Kind, path)
	}

	if opts.copy || rt.cfg.CopyToClipboard {
		if err := clipboardWrite(last.Text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if tty {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}
	return nil
}

// writeReply prints text to --output, a decorated bubble on a terminal, or
// raw to stdout
func writeReply(deps *Dependencies, cfg config.Config, opts *globalOptions, text string, ok, tty bool) error {
	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if tty {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", opts.output)))
		}
		return nil
	}

	if !tty {
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ Assistant"))
	if !ok {
		fmt.Fprintln(deps.Stdout, apologyBubbleStyle.Width(bubbleWidth).Render(text))
		return nil
	}
	body := render.Reply(text, render.OptionsFromConfig(cfg.Markdown, bubbleWidth-4))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(body))
	return nil
}
