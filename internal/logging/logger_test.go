package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		" warn ":  WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"info":    InfoLevel,
		"":        InfoLevel,
		"verbose": InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLogger_JSONOutputWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: InfoLevel, Format: "json", Output: &buf})

	log.WithFields(StringField("component", "exchange")).
		Error("exchange failed", IntField("status", 500), ErrorField(errors.New("boom")))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "exchange failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["component"] != "exchange" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["status"] != "500" {
		t.Errorf("status = %v", entry["status"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WarnLevel, Format: "text", Output: &buf})

	log.Info("hidden")
	log.Debug("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message in output, got %q", buf.String())
	}
}

func TestLogger_WithFieldsIsImmutable(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: InfoLevel, Output: &buf})
	_ = base.WithFields(StringField("k", "v"))

	base.Info("plain")
	if strings.Contains(buf.String(), `"k"`) {
		t.Errorf("base logger should not carry derived fields: %s", buf.String())
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "relaychat.log")

	log, closer, err := NewFile(path, Config{Level: DebugLevel})
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	log.Debug("written", DurationField("took", 2*time.Second), BoolField("ok", true))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "written") || !strings.Contains(string(data), "2s") {
		t.Errorf("unexpected log content: %s", data)
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("discarded")
	log.WithFields(StringField("a", "b")).Info("discarded")
}

func TestErrorFieldNil(t *testing.T) {
	if f := ErrorField(nil); f.Value != "<nil>" {
		t.Errorf("ErrorField(nil) = %+v", f)
	}
}
