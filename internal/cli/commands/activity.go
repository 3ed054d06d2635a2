package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewActivityCmd creates the activity command
func NewActivityCmd() *cobra.Command {
	var serverAlias string
	var page int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			result, err := api.ListActivityLogs(cmd.Context(), page)
			if err != nil {
				return fmt.Errorf("failed to list activity logs: %w", err)
			}

			if len(result.Items) == 0 {
				fmt.Println("No activity recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tUSER\tACTION\tDESCRIPTION")
			for _, entry := range result.Items {
				user := entry.UserID
				if entry.User != nil {
					user = entry.User.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					entry.CreatedAt.Format(time.RFC3339), user, entry.Action, entry.Description)
			}
			w.Flush()

			p := result.Pagination
			if p.LastPage > 1 {
				fmt.Printf("\nPage %d of %d (%d total)\n", p.CurrentPage, p.LastPage, p.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")

	return cmd
}
