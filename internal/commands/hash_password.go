package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/relaychat/internal/auth"
)

func newHashPasswordCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password for the static users file",
		Long: `Read a password without echo and print its argon2id hash.

Paste the hash into the users file used by auth_mode "static":

  users:
    alice: $argon2id$v=19$m=65536,t=3,p=2$...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(deps.Stderr, "Password: ")
			password, err := deps.ReadPassword()
			fmt.Fprintln(deps.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if len(password) == 0 {
				return fmt.Errorf("password cannot be empty")
			}

			hash, err := auth.HashPassword(string(password))
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, hash)
			return nil
		},
	}
}
