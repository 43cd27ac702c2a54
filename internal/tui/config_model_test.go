package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/relaychat/internal/config"
	"github.com/diogo/relaychat/internal/render"
)

type saveRecorder struct {
	saved []config.Config
	err   error
}

func (r *saveRecorder) save(cfg config.Config) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, cfg)
	return nil
}

func newTestConfigModel(t *testing.T, rec *saveRecorder) ConfigModel {
	t.Helper()
	m := NewConfigModel(config.DefaultConfig(), "/tmp/relaychat/config.json", rec.save)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model.(ConfigModel)
}

func press(m ConfigModel, key tea.KeyMsg) ConfigModel {
	model, _ := m.Update(key)
	return model.(ConfigModel)
}

func cursorTo(m ConfigModel, key string) ConfigModel {
	for i, item := range settingItems {
		if item.key == key {
			m.cursor = i
		}
	}
	return m
}

func TestConfigModel_View(t *testing.T) {
	m := newTestConfigModel(t, &saveRecorder{})
	view := m.View()

	for _, want := range []string{"Configuration", "config.json", "Strategy", "Markdown Style", "TUI Theme", "Exit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestConfigModel_ViewNotReady(t *testing.T) {
	m := NewConfigModel(config.DefaultConfig(), "", nil)
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("expected initializing text before sizing")
	}
}

func TestConfigModel_Navigation(t *testing.T) {
	m := newTestConfigModel(t, &saveRecorder{})

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != exitIndex() {
		t.Errorf("cursor = %d, want wrap to %d", m.cursor, exitIndex())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestConfigModel_ToggleClipboard(t *testing.T) {
	rec := &saveRecorder{}
	m := cursorTo(newTestConfigModel(t, rec), "copy_to_clipboard")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Config().CopyToClipboard {
		t.Error("clipboard toggle not applied")
	}
	if len(rec.saved) != 1 || !rec.saved[0].CopyToClipboard {
		t.Errorf("saved = %+v", rec.saved)
	}
	if !strings.Contains(m.feedback, "Copy to Clipboard set to true") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_ChooseStrategy(t *testing.T) {
	rec := &saveRecorder{}
	m := cursorTo(newTestConfigModel(t, rec), "strategy")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewChoice {
		t.Fatal("enter should open the choice list")
	}
	if m.choiceCursor != 0 {
		t.Errorf("choice cursor should start on the current value, got %d", m.choiceCursor)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.view != viewMain {
		t.Error("selection should return to the main view")
	}
	if got := m.Config().Strategy; got != "script" {
		t.Errorf("Strategy = %q, want script", got)
	}
}

func TestConfigModel_EscBacksOutOfChoice(t *testing.T) {
	m := cursorTo(newTestConfigModel(t, &saveRecorder{}), "markdown.style")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(ConfigModel)
	if m.view != viewMain || cmd != nil {
		t.Error("esc in a choice list should go back, not quit")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("esc on the main view should quit")
	}
}

func TestConfigModel_RejectedValueKeepsConfig(t *testing.T) {
	rec := &saveRecorder{}
	m := cursorTo(newTestConfigModel(t, rec), "auth_mode")

	// static requires a users file, which the default config lacks
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Config().AuthMode != "mock" {
		t.Errorf("AuthMode = %q, want mock", m.Config().AuthMode)
	}
	if len(rec.saved) != 0 {
		t.Error("invalid config must not be saved")
	}
	if !strings.HasPrefix(m.feedback, "Error:") {
		t.Errorf("feedback = %q, want error", m.feedback)
	}
}

func TestConfigModel_SaveFailure(t *testing.T) {
	rec := &saveRecorder{err: errors.New("disk full")}
	m := cursorTo(newTestConfigModel(t, rec), "copy_to_clipboard")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Config().CopyToClipboard {
		t.Error("failed save must not change the config")
	}
	if !strings.Contains(m.feedback, "disk full") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_ThemeApplied(t *testing.T) {
	defer ApplyTheme(render.DefaultPalette)

	m := cursorTo(newTestConfigModel(t, &saveRecorder{}), "tui_theme")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	names := render.PaletteNames()
	target := 0
	for i, n := range names {
		if n != m.Config().TUITheme {
			target = i
			break
		}
	}
	m.choiceCursor = target
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := render.CurrentPalette().Name; got != names[target] {
		t.Errorf("CurrentPalette() = %q, want %q", got, names[target])
	}
	if m.Config().TUITheme != names[target] {
		t.Errorf("TUITheme = %q, want %q", m.Config().TUITheme, names[target])
	}
}

func TestConfigModel_ExitQuits(t *testing.T) {
	m := newTestConfigModel(t, &saveRecorder{})
	m.cursor = exitIndex()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Error("Exit should quit")
	}
}
