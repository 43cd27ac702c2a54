// Package config handles configuration for relaychat.
//
// Values are layered: defaults, then ~/.relaychat/config.json, then a .env
// file, then RELAYCHAT_* environment variables. Command-line flags are
// applied last by the commands package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is the chat backend compiled into the binary.
// Override at build time with -ldflags "-X .../internal/config.DefaultBaseURL=...".
var DefaultBaseURL = "http://localhost:5000"

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "RELAYCHAT"

const (
	dirName        = ".relaychat"
	configFileName = "config.json"
	logFileName    = "relaychat.log"
)

var validate = validator.New()

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the chat backend; requests go to BaseURL + "/chat".
	BaseURL string `json:"base_url" validate:"required,url"`
	// TimeoutSeconds bounds one exchange at the transport level.
	TimeoutSeconds int `json:"timeout_seconds" validate:"min=1,max=3600"`
	// Strategy selects the remote backend or the offline script.
	Strategy   string `json:"strategy" validate:"oneof=remote script"`
	ScriptFile string `json:"script_file,omitempty"`

	AuthMode  string `json:"auth_mode" validate:"oneof=mock static"`
	UsersFile string `json:"users_file,omitempty" validate:"required_if=AuthMode static"`

	LogLevel  string `json:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `json:"log_format" validate:"oneof=text json"`
	// LogFile defaults to ~/.relaychat/relaychat.log when empty.
	LogFile string `json:"log_file,omitempty"`

	Proxy           string         `json:"proxy,omitempty" validate:"omitempty,url"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// envOverrides mirrors the settable fields; nil means "not set"
type envOverrides struct {
	BaseURL         *string `envconfig:"BASE_URL"`
	TimeoutSeconds  *int    `envconfig:"TIMEOUT_SECONDS"`
	Strategy        *string `envconfig:"STRATEGY"`
	ScriptFile      *string `envconfig:"SCRIPT_FILE"`
	AuthMode        *string `envconfig:"AUTH_MODE"`
	UsersFile       *string `envconfig:"USERS_FILE"`
	LogLevel        *string `envconfig:"LOG_LEVEL"`
	LogFormat       *string `envconfig:"LOG_FORMAT"`
	LogFile         *string `envconfig:"LOG_FILE"`
	Proxy           *string `envconfig:"PROXY"`
	CopyToClipboard *bool   `envconfig:"COPY_TO_CLIPBOARD"`
	TUITheme        *string `envconfig:"TUI_THEME"`
	MarkdownStyle   *string `envconfig:"MARKDOWN_STYLE"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		TimeoutSeconds:  300,
		Strategy:        "remote",
		AuthMode:        "mock",
		LogLevel:        "info",
		LogFormat:       "text",
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// GetLogPath returns the diagnostic log path for cfg
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, logFileName), nil
}

// LoadConfig loads the configuration file on top of the defaults
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration file at path on top of the defaults
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, configFileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays RELAYCHAT_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	setString(&cfg.BaseURL, env.BaseURL)
	setString(&cfg.Strategy, env.Strategy)
	setString(&cfg.ScriptFile, env.ScriptFile)
	setString(&cfg.AuthMode, env.AuthMode)
	setString(&cfg.UsersFile, env.UsersFile)
	setString(&cfg.LogLevel, env.LogLevel)
	setString(&cfg.LogFormat, env.LogFormat)
	setString(&cfg.LogFile, env.LogFile)
	setString(&cfg.Proxy, env.Proxy)
	setString(&cfg.TUITheme, env.TUITheme)
	setString(&cfg.Markdown.Style, env.MarkdownStyle)
	if env.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *env.TimeoutSeconds
	}
	if env.CopyToClipboard != nil {
		cfg.CopyToClipboard = *env.CopyToClipboard
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load resolves the full configuration: file, .env at dotenvPath, environment.
func Load(dotenvPath string) (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}
	if err := LoadDotEnv(dotenvPath); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setters maps `config set` keys to field updates
var setters = map[string]func(*Config, string) error{
	"base_url":          func(c *Config, v string) error { c.BaseURL = v; return nil },
	"timeout_seconds":   func(c *Config, v string) error { return setInt(&c.TimeoutSeconds, v) },
	"strategy":          func(c *Config, v string) error { c.Strategy = v; return nil },
	"script_file":       func(c *Config, v string) error { c.ScriptFile = v; return nil },
	"auth_mode":         func(c *Config, v string) error { c.AuthMode = v; return nil },
	"users_file":        func(c *Config, v string) error { c.UsersFile = v; return nil },
	"log_level":         func(c *Config, v string) error { c.LogLevel = v; return nil },
	"log_format":        func(c *Config, v string) error { c.LogFormat = v; return nil },
	"log_file":          func(c *Config, v string) error { c.LogFile = v; return nil },
	"proxy":             func(c *Config, v string) error { c.Proxy = v; return nil },
	"copy_to_clipboard": func(c *Config, v string) error { return setBool(&c.CopyToClipboard, v) },
	"tui_theme":         func(c *Config, v string) error { c.TUITheme = v; return nil },
	"markdown.style":    func(c *Config, v string) error { c.Markdown.Style = v; return nil },
}

// Keys returns the keys accepted by SetValue
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue updates one field by key and validates the result
func SetValue(cfg *Config, key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}

	updated := *cfg
	if err := set(&updated, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*cfg = updated
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("not an integer: %q", v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("not a boolean: %q", v)
	}
	*dst = b
	return nil
}
