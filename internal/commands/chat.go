package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/relaychat/internal/auth"
	"github.com/diogo/relaychat/internal/models"
	"github.com/diogo/relaychat/internal/render"
	"github.com/diogo/relaychat/internal/tui"
)

func newChatCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Sign in and start an interactive chat session.

Type 'exit', 'quit', or press Esc to end the session. /logout returns to the
sign-in screen, /reset starts a new conversation and /copy copies the last reply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), deps, opts)
		},
	}
}

func runInteractive(ctx context.Context, deps *Dependencies, opts *globalOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(deps, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	authenticator, err := auth.NewAuthenticator(rt.cfg.AuthMode, rt.cfg.UsersFile)
	if err != nil {
		return fmt.Errorf("failed to set up sign-in: %w", err)
	}

	tui.ApplyTheme(rt.cfg.TUITheme)

	subtitle := rt.cfg.BaseURL
	if models.StrategyFromName(rt.cfg.Strategy) == models.StrategyScript {
		subtitle = "questionnaire"
	}

	err = deps.TUI.RunApp(ctx, tui.AppConfig{
		Gate:       auth.NewGate(authenticator),
		NewSession: rt.newSession,
		Chat: tui.ChatOptions{
			Title:           "relaychat",
			Subtitle:        subtitle,
			Render:          render.OptionsFromConfig(rt.cfg.Markdown, render.DefaultOptions().Width),
			CopyToClipboard: rt.cfg.CopyToClipboard,
		},
		Logger: rt.logger,
	})
	if err != nil && ctx.Err() != nil {
		// the program was stopped by context cancellation
		return nil
	}
	return err
}
