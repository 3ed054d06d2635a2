package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd, serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func runWhoami(cmd *cobra.Command, serverAlias string) error {
	mgr, _, err := newSession(serverAlias)
	if err != nil {
		return err
	}

	snap := mgr.Restore(cmd.Context())
	if !snap.IsAuthenticated {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("User:  %s (%s)\n", snap.User.Name, snap.User.Email)
	fmt.Printf("Role:  %s\n", snap.User.Role)
	return nil
}
