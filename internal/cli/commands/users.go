package commands

import (
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arkiv-dev/arkiv/internal/cli/client"
)

// NewUsersCmd creates the users command group (admin only)
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin only)",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersAddCmd())
	cmd.AddCommand(newUsersRmCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAdmin(cmd, mgr); err != nil {
				return err
			}

			users, err := api.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
			for _, user := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
					user.ID, user.Name, user.Email, user.Role, user.IsActive)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func newUsersAddCmd() *cobra.Command {
	var serverAlias, name, email, password, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" {
				return fmt.Errorf("name and email are required")
			}
			if role != client.RoleAdmin && role != client.RoleStaff {
				return fmt.Errorf("role must be %q or %q", client.RoleAdmin, client.RoleStaff)
			}

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
					return fmt.Errorf("password is required in non-interactive mode (use --password flag)")
				}
			}

			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAdmin(cmd, mgr); err != nil {
				return err
			}

			user, err := api.CreateUser(cmd.Context(), client.CreateUserRequest{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Printf("✓ User created: %s (%s, %s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&role, "role", client.RoleStaff, "Role: admin or staff")

	return cmd
}

func newUsersRmCmd() *cobra.Command {
	var serverAlias string
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAdmin(cmd, mgr); err != nil {
				return err
			}

			if !force {
				confirm := promptui.Prompt{
					Label:     fmt.Sprintf("Delete user %s", args[0]),
					IsConfirm: true,
				}
				if _, err := confirm.Run(); err != nil {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := api.DeleteUser(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			fmt.Println("✓ User deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
