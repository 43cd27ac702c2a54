package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// withHome points the config directory at a temp dir
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds = %d, want 300", cfg.TimeoutSeconds)
	}
	if cfg.Strategy != "remote" {
		t.Errorf("Strategy = %q, want remote", cfg.Strategy)
	}
	if cfg.AuthMode != "mock" {
		t.Errorf("AuthMode = %q, want mock", cfg.AuthMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := withHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".relaychat", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %q, want %q", path, want)
	}
}

func TestGetLogPath(t *testing.T) {
	home := withHome(t)

	path, err := GetLogPath(DefaultConfig())
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if want := filepath.Join(home, ".relaychat", "relaychat.log"); path != want {
		t.Errorf("GetLogPath() = %q, want %q", path, want)
	}

	cfg := DefaultConfig()
	cfg.LogFile = "/tmp/custom.log"
	path, _ = GetLogPath(cfg)
	if path != "/tmp/custom.log" {
		t.Errorf("GetLogPath() = %q, want /tmp/custom.log", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := withHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://chat.example.com"
	cfg.Strategy = "script"
	cfg.CopyToClipboard = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".relaychat", "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file perm = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL || loaded.Strategy != "script" || !loaded.CopyToClipboard {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data, _ := json.Marshal(map[string]any{"base_url": "https://other.example.com"})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom() returned error: %v", err)
	}
	if cfg.BaseURL != "https://other.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds = %d, want default 300", cfg.TimeoutSeconds)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err == nil {
		t.Fatal("LoadConfigFrom() expected error for invalid JSON")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("invalid file should fall back to defaults, got %q", cfg.BaseURL)
	}
}

func TestLoad_Layering(t *testing.T) {
	home := withHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://file.example.com"
	cfg.LogLevel = "warn"
	if err := SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	dotenv := filepath.Join(home, ".env")
	content := "RELAYCHAT_BASE_URL=https://dotenv.example.com\nRELAYCHAT_STRATEGY=script\n"
	if err := os.WriteFile(dotenv, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// Real environment wins over .env
	t.Setenv("RELAYCHAT_BASE_URL", "https://env.example.com")
	t.Setenv("RELAYCHAT_TIMEOUT_SECONDS", "30")
	// godotenv sets RELAYCHAT_STRATEGY; make sure the test cleans it up
	t.Setenv("RELAYCHAT_STRATEGY", "")
	os.Unsetenv("RELAYCHAT_STRATEGY")

	got, err := Load(dotenv)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if got.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q, want environment value", got.BaseURL)
	}
	if got.Strategy != "script" {
		t.Errorf("Strategy = %q, want .env value", got.Strategy)
	}
	if got.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want file value", got.LogLevel)
	}
	if got.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", got.TimeoutSeconds)
	}
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	home := withHome(t)

	if _, err := Load(filepath.Join(home, "nope.env")); err != nil {
		t.Errorf("Load() with missing .env returned error: %v", err)
	}
	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") returned error: %v", err)
	}
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	withHome(t)

	t.Setenv("RELAYCHAT_TIMEOUT_SECONDS", "soon")
	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for non-numeric timeout")
	}

	t.Setenv("RELAYCHAT_TIMEOUT_SECONDS", "10")
	t.Setenv("RELAYCHAT_STRATEGY", "telepathy")
	if _, err := Load(""); err == nil {
		t.Error("Load() expected validation error for unknown strategy")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, "BaseURL"},
		{"relative base url", func(c *Config) { c.BaseURL = "localhost" }, "BaseURL"},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, "TimeoutSeconds"},
		{"unknown strategy", func(c *Config) { c.Strategy = "magic" }, "Strategy"},
		{"static without users", func(c *Config) { c.AuthMode = "static" }, "UsersFile"},
		{"static with users", func(c *Config) { c.AuthMode = "static"; c.UsersFile = "/tmp/u.yaml" }, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"bad proxy", func(c *Config) { c.Proxy = "not a url" }, "Proxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %s", err, tt.wantErr)
			}
		})
	}
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"base_url", "https://x.example.com", false, func(c Config) bool { return c.BaseURL == "https://x.example.com" }},
		{"timeout_seconds", "60", false, func(c Config) bool { return c.TimeoutSeconds == 60 }},
		{"timeout_seconds", "sixty", true, nil},
		{"copy_to_clipboard", "true", false, func(c Config) bool { return c.CopyToClipboard }},
		{"copy_to_clipboard", "maybe", true, nil},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"strategy", "invalid", true, nil},
		{"no_such_key", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			before := cfg
			err := SetValue(&cfg, tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("SetValue() expected error")
				}
				if cfg != before {
					t.Error("failed SetValue() must leave config unchanged")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetValue() returned error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("SetValue(%q, %q) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != len(setters) {
		t.Errorf("Keys() returned %d keys, want %d", len(keys), len(setters))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
			break
		}
	}
}
