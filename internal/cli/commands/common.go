package commands

import (
	"context"
	"fmt"

	"github.com/arkiv-dev/arkiv/internal/cli/auth"
	"github.com/arkiv-dev/arkiv/internal/cli/client"
	"github.com/arkiv-dev/arkiv/internal/cli/config"
	"github.com/arkiv-dev/arkiv/internal/cli/serverselect"
	"github.com/arkiv-dev/arkiv/internal/logger"
	"github.com/arkiv-dev/arkiv/internal/session"
)

// commandContext is the slice of *cobra.Command the session helpers need.
type commandContext interface {
	Context() context.Context
}

// getSelectedServer loads the config and returns the selected server.
// This is common logic used by most commands.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'arkiv init' to create a configuration file", err)
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return server, nil
}

// newSession builds the API client and the session manager for the selected
// server. One manager per invocation: it is the only writer of session
// state for the process.
func newSession(serverAlias string) (*session.Manager, *client.Client, error) {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return nil, nil, err
	}

	api := client.New(config.ResolveURL(server), auth.Default)
	mgr := session.NewManager(api, auth.Default, logger.GetLogger())
	return mgr, api, nil
}

// requireAuth restores the session and fails when it resolves anonymous.
// Protected commands call this before touching their resource so they never
// act on an unresolved session.
func requireAuth(cmd commandContext, mgr *session.Manager) (session.Snapshot, error) {
	snap := mgr.Restore(cmd.Context())
	if !snap.IsAuthenticated {
		return snap, fmt.Errorf("not authenticated. Please run 'arkiv login' first")
	}
	return snap, nil
}

// requireAdmin additionally checks the admin role.
func requireAdmin(cmd commandContext, mgr *session.Manager) (session.Snapshot, error) {
	snap, err := requireAuth(cmd, mgr)
	if err != nil {
		return snap, err
	}
	if !snap.IsAdmin {
		return snap, fmt.Errorf("admin access required")
	}
	return snap, nil
}
