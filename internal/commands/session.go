package commands

import (
	"fmt"

	"github.com/diogo/relaychat/internal/config"
	"github.com/diogo/relaychat/internal/conversation"
	"github.com/diogo/relaychat/internal/exchange"
	"github.com/diogo/relaychat/internal/logging"
)

// runtime is the per-invocation wiring shared by the chat and one-shot paths
type runtime struct {
	cfg        config.Config
	logger     logging.Logger
	responders func() exchange.Responder
	closers    []func()
}

// loadConfig layers the global flags over the loaded configuration
func loadConfig(deps *Dependencies, opts *globalOptions) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := []struct{ key, value string }{
		{"base_url", opts.baseURL},
		{"strategy", opts.strategy},
		{"log_level", opts.logLevel},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if err := config.SetValue(&cfg, o.key, o.value); err != nil {
			return cfg, fmt.Errorf("invalid --%s: %w", flagName(o.key), err)
		}
	}
	return cfg, nil
}

func flagName(key string) string {
	switch key {
	case "base_url":
		return "base-url"
	case "log_level":
		return "log-level"
	default:
		return key
	}
}

func newRuntime(deps *Dependencies, opts *globalOptions) (*runtime, error) {
	cfg, err := loadConfig(deps, opts)
	if err != nil {
		return nil, err
	}

	logger, closer, err := deps.OpenLog(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger}
	if closer != nil {
		rt.closers = append(rt.closers, func() { _ = closer.Close() })
	}

	responders, release, err := deps.Responders(cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.responders = responders
	if release != nil {
		rt.closers = append(rt.closers, release)
	}

	logger.Info("relaychat started",
		logging.StringField("version", Version),
		logging.StringField("strategy", cfg.Strategy),
		logging.StringField("base_url", cfg.BaseURL),
	)
	return rt, nil
}

// newSession returns a handler with an empty log and a fresh responder
func (rt *runtime) newSession() *exchange.Handler {
	return exchange.NewHandler(conversation.NewMemoryLog(), rt.responders(), exchange.WithLogger(rt.logger))
}

// Close releases resources in reverse order of acquisition
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
