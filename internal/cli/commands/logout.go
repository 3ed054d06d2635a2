package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func runLogout(cmd *cobra.Command, serverAlias string) error {
	mgr, _, err := newSession(serverAlias)
	if err != nil {
		return err
	}

	// Resolve first so an authenticated session gets its backend logout
	// attempt. Local clearing happens regardless of the outcome, and
	// logging out while anonymous is a no-op that still clears any
	// residual credential.
	mgr.Restore(cmd.Context())

	if err := mgr.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear stored credential: %w", err)
	}

	fmt.Println("✓ Logged out")
	return nil
}
