package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var identifier, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with an Arkiv server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, identifier, password, serverAlias)
		},
	}

	cmd.Flags().StringVar(&identifier, "user", "", "Username or email (or set ARKIV_USER)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set ARKIV_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func runLogin(cmd *cobra.Command, identifier, password, serverAlias string) error {
	// Check for environment variables (useful for CI/CD)
	if identifier == "" {
		identifier = os.Getenv("ARKIV_USER")
	}
	if password == "" {
		password = os.Getenv("ARKIV_PASSWORD")
	}

	if identifier == "" {
		return fmt.Errorf("user is required (use --user flag or ARKIV_USER env var)")
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or ARKIV_PASSWORD env var)")
		}
	}

	mgr, api, err := newSession(serverAlias)
	if err != nil {
		return err
	}

	fmt.Printf("Logging in to %s...\n", api.Server())

	user, err := mgr.Login(cmd.Context(), identifier, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", user.Name, user.Email)
	if user.IsAdmin() {
		fmt.Println("  Role: Admin")
	}

	return nil
}
