// Package commands provides CLI commands for relaychat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalOptions holds flag values shared by the subcommands
type globalOptions struct {
	baseURL  string
	strategy string
	logLevel string

	output string
	file   string
	copy   bool
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "relaychat [message]",
		Short: "Terminal chat client for a remote AI backend",
		Long: `relaychat is a terminal chat client. After signing in, every message is
relayed to the backend's /chat endpoint and the reply is shown in the
conversation. Failures are reported with a fixed apology; details go to the
log file.

Examples:
  relaychat                              Sign in and start chatting
  relaychat "What is Go?"                Send a single message
  relaychat -f message.md                Read the message from a file
  cat message.md | relaychat             Read the message from stdin
  relaychat "Hello" -o reply.md          Save the reply to a file
  relaychat --strategy script            Run the offline questionnaire
  relaychat devserver                    Run a local echo backend`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "relaychat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			input, ok, err := readInput(deps, opts, args)
			if err != nil {
				return err
			}
			if ok {
				return runAsk(cmd.Context(), deps, opts, input)
			}
			return runInteractive(cmd.Context(), deps, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.baseURL, "base-url", "", "Backend base URL; messages are posted to <base-url>/chat")
	pf.StringVar(&opts.strategy, "strategy", "", "Reply strategy (remote, script)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read message from file")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.AddCommand(
		newChatCmd(deps, opts),
		NewConfigCmd(deps, opts),
		newHashPasswordCmd(deps),
		newDevServerCmd(deps, opts),
	)
	return cmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput returns the one-shot message from --file, stdin, or the
// positional argument. ok is false when none was given.
func readInput(deps *Dependencies, opts *globalOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.PipedStdin != nil && deps.PipedStdin() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}
