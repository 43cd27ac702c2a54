package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/relaychat/internal/devserver"
	"github.com/diogo/relaychat/internal/logging"
)

func newDevServerCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	var (
		addr    string
		warmup  time.Duration
		origins []string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local echo backend",
		Long: `Run a local backend that speaks the /chat contract and echoes each message.

POST /chat answers {"response": "You said: ..."}, 400 for a missing message and
503 while warming up. GET /health reports readiness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := logging.InfoLevel
			if opts.logLevel != "" {
				level = logging.ParseLevel(opts.logLevel)
			}
			logger := logging.New(logging.Config{Level: level, Format: format, Output: deps.Stderr})

			srv := devserver.NewServer(addr,
				devserver.WithLogger(logger),
				devserver.WithWarmup(warmup),
				devserver.WithAllowedOrigins(origins...),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", devserver.DefaultAddr, "Listen address")
	cmd.Flags().DurationVar(&warmup, "warmup", 0, "Answer 503 for this long after start")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed CORS origin (repeatable, default *)")
	cmd.Flags().StringVar(&format, "log-format", "text", "Request log format (text, json)")
	return cmd
}
