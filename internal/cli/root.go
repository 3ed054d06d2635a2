package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arkiv-dev/arkiv/internal/apierror"
	"github.com/arkiv-dev/arkiv/internal/cli/commands"
	"github.com/arkiv-dev/arkiv/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "arkiv",
	Short: "Arkiv - Document archive management",
	Long: `Arkiv CLI - Manage your document archive from the terminal.

Browse, upload and download archived documents, manage categories and
users, and follow the activity log of your Arkiv server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := os.Getenv("ARKIV_LOG_LEVEL")
		if level == "" {
			level = "warn"
		}
		logger.Init(level, "console")
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("arkiv version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewDocsCmd())
	rootCmd.AddCommand(commands.NewCategoriesCmd())
	rootCmd.AddCommand(commands.NewActivityCmd())
	rootCmd.AddCommand(commands.NewNotificationsCmd())
	rootCmd.AddCommand(commands.NewUsersCmd())
}

// Execute runs the root command. Every failure surfaces as a printed
// message; nothing is swallowed into a log nobody sees.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apierror.Message(err))
		return err
	}
	return nil
}
