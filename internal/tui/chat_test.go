package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/relaychat/internal/conversation"
	"github.com/diogo/relaychat/internal/exchange"
	"github.com/diogo/relaychat/internal/models"
	"github.com/diogo/relaychat/internal/render"
)

func newTestHandler(result models.ExchangeResult) *exchange.Handler {
	return exchange.NewHandler(conversation.NewMemoryLog(), exchange.ResponderFunc(
		func(ctx context.Context, req models.ExchangeRequest) models.ExchangeResult {
			return result
		},
	))
}

func newTestChat(t *testing.T, result models.ExchangeResult) ChatModel {
	t.Helper()
	h := newTestHandler(result)
	h.Greet()
	m := NewChatModel(context.Background(), h, "ana", ChatOptions{
		Render: render.DefaultOptions().WithStyle(render.StyleNoTTY),
	})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func enter(m ChatModel, text string) (ChatModel, tea.Cmd) {
	m.textarea.SetValue(text)
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

// firstCmd extracts the first command of a batch
func firstCmd(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected tea.BatchMsg, got %T", msg)
	}
	return batch[0]
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestChatModel_ViewNotReady(t *testing.T) {
	h := newTestHandler(models.Success("x"))
	m := NewChatModel(context.Background(), h, "", ChatOptions{})
	if !strings.Contains(m.View(), "Initializing") {
		t.Errorf("View() before sizing = %q, want initializing text", m.View())
	}
}

func TestChatModel_ShowsGreeting(t *testing.T) {
	m := newTestChat(t, models.Success("x"))
	if !strings.Contains(m.viewport.View(), "How can I help") {
		t.Errorf("greeting not rendered:\n%s", m.viewport.View())
	}
}

func TestChatModel_SubmitCycle(t *testing.T) {
	m := newTestChat(t, models.Success("the answer"))

	m, cmd := enter(m, "  question  ")
	if !m.Loading() {
		t.Fatal("expected loading after enter")
	}
	if m.textarea.Value() != "" {
		t.Errorf("textarea not cleared: %q", m.textarea.Value())
	}

	done := firstCmd(t, cmd)()
	msg, ok := done.(exchangeDoneMsg)
	if !ok {
		t.Fatalf("submit returned %T, want exchangeDoneMsg", done)
	}
	if !msg.result.OK() || msg.err != nil {
		t.Fatalf("unexpected result %+v, err %v", msg.result, msg.err)
	}

	m, _ = m.Update(msg)
	if m.Loading() {
		t.Error("loading should end when the exchange settles")
	}

	view := m.viewport.View()
	for _, want := range []string{"question", "the answer"} {
		if !strings.Contains(view, want) {
			t.Errorf("transcript missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, models.PendingText) {
		t.Error("pending indicator still rendered after settlement")
	}
}

func TestChatModel_FailureShowsApology(t *testing.T) {
	failure := models.ServerFailure("bad request", 400, errors.New("bad request"))
	m := newTestChat(t, failure)

	m, cmd := enter(m, "hello")
	m, _ = m.Update(firstCmd(t, cmd)())

	view := m.viewport.View()
	if !strings.Contains(view, "Sorry, there was a problem") {
		t.Errorf("apology not rendered:\n%s", view)
	}
	if strings.Contains(view, "bad request") {
		t.Error("server detail leaked into the transcript")
	}
}

func TestChatModel_InputIgnoredWhileLoading(t *testing.T) {
	m := newTestChat(t, models.Success("x"))
	m, _ = enter(m, "first")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	if m.textarea.Value() != "" {
		t.Errorf("typing while loading changed input to %q", m.textarea.Value())
	}
	_ = cmd

	m.textarea.SetValue("second")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter while loading must not start another exchange")
	}
}

func TestChatModel_EmptyInputIsIgnored(t *testing.T) {
	m := newTestChat(t, models.Success("x"))
	before := m.log.Len()

	m, cmd := enter(m, "   ")
	if m.Loading() || cmd != nil {
		t.Error("blank input must not start an exchange")
	}
	if m.log.Len() != before {
		t.Error("blank input must not add messages")
	}
}

func TestChatModel_Commands(t *testing.T) {
	tests := []struct {
		input string
		want  func(tea.Msg) bool
	}{
		{"exit", func(msg tea.Msg) bool { _, ok := msg.(tea.QuitMsg); return ok }},
		{"/quit", func(msg tea.Msg) bool { _, ok := msg.(tea.QuitMsg); return ok }},
		{"/logout", func(msg tea.Msg) bool { _, ok := msg.(logoutMsg); return ok }},
		{"/reset", func(msg tea.Msg) bool { _, ok := msg.(resetMsg); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m := newTestChat(t, models.Success("x"))
			m, cmd := enter(m, tt.input)
			if m.Loading() {
				t.Error("commands must not start an exchange")
			}
			if cmd == nil || !tt.want(cmd()) {
				t.Errorf("%q produced the wrong message", tt.input)
			}
		})
	}
}

func TestChatModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newTestChat(t, models.Success("x"))
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if !isQuit(cmd) {
			t.Errorf("key %v should quit", key)
		}
	}
}

func TestChatModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := clipboardWriter
	clipboardWriter = func(s string) error { copied = s; return nil }
	defer func() { clipboardWriter = orig }()

	m := newTestChat(t, models.Success("copy me"))
	m, cmd := enter(m, "hi")
	m, _ = m.Update(firstCmd(t, cmd)())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if copied != "copy me" {
		t.Errorf("copied %q, want %q", copied, "copy me")
	}
	if m.feedback == "" {
		t.Error("expected feedback after copy")
	}

	m, _ = m.Update(feedbackClearMsg{})
	if m.feedback != "" {
		t.Error("feedback should clear")
	}
}

func TestChatModel_CopyFailure(t *testing.T) {
	orig := clipboardWriter
	clipboardWriter = func(string) error { return errors.New("no display") }
	defer func() { clipboardWriter = orig }()

	m := newTestChat(t, models.Success("x"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if m.feedback != "Clipboard unavailable" {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestChatModel_AutoCopy(t *testing.T) {
	var copied string
	orig := clipboardWriter
	clipboardWriter = func(s string) error { copied = s; return nil }
	defer func() { clipboardWriter = orig }()

	h := newTestHandler(models.Success("auto"))
	m := NewChatModel(context.Background(), h, "", ChatOptions{CopyToClipboard: true})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	m, cmd := enter(m, "hi")
	m.Update(firstCmd(t, cmd)())
	if copied != "auto" {
		t.Errorf("auto copy = %q, want %q", copied, "auto")
	}
}

func TestRenderTranscript(t *testing.T) {
	msgs := []models.Message{
		models.NewBotMessage("welcome"),
		models.NewUserMessage("hello"),
		models.NewPendingMessage(),
	}
	out := renderTranscript(msgs, 60, render.DefaultOptions().WithStyle(render.StyleNoTTY))

	for _, want := range []string{"welcome", "hello", models.PendingText, "You", "Assistant"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTranscript() missing %q", want)
		}
	}
}

func TestChatModel_StatusBar(t *testing.T) {
	m := newTestChat(t, models.Success("x"))
	bar := m.renderStatusBar(100)
	for _, want := range []string{"Send", "Copy", "Logout", "Quit"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}
