package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arkiv-dev/arkiv/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "init <server-url>",
		Short: "Register an Arkiv server in arkiv.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], alias)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "default", "Alias for the server")

	return cmd
}

func runInit(serverURL, alias string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Printf("Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{Servers: []config.Server{}}
		isNewConfig = true
	}

	for _, server := range cfg.Servers {
		if server.URL == serverURL {
			fmt.Printf("Server %s is already configured\n", serverURL)
			return nil
		}
	}

	cfg.Servers = append(cfg.Servers, config.Server{URL: serverURL, Alias: alias})

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Printf("✓ Created %s\n", config.ConfigFileName)
	}
	fmt.Printf("✓ Added server %s (%s)\n", alias, serverURL)
	fmt.Println("Run 'arkiv login' to authenticate.")

	return nil
}
