package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/arkiv-dev/arkiv/internal/cli/client"
)

// NewNotificationsCmd creates the notifications command group
func NewNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Show and manage notifications",
	}

	cmd.AddCommand(newNotificationsListCmd())
	cmd.AddCommand(newNotificationsReadCmd())
	cmd.AddCommand(newNotificationsWatchCmd())

	return cmd
}

func printNotifications(w io.Writer, list []notificationLine) {
	for _, n := range list {
		marker := " "
		if !n.read {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s  %s: %s\n", marker, n.createdAt.Format("2006-01-02 15:04"), n.title, n.message)
	}
}

type notificationLine struct {
	createdAt time.Time
	title     string
	message   string
	read      bool
}

func newNotificationsListCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			list, err := api.ListNotifications(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list notifications: %w", err)
			}

			if len(list.Notifications) == 0 {
				fmt.Println("No notifications")
				return nil
			}

			lines := make([]notificationLine, len(list.Notifications))
			for i, n := range list.Notifications {
				lines[i] = notificationLine{n.CreatedAt, n.Title, n.Message, n.IsRead}
			}
			printNotifications(os.Stdout, lines)
			fmt.Printf("\n%d unread\n", list.UnreadCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func newNotificationsReadCmd() *cobra.Command {
	var serverAlias string
	var all bool

	cmd := &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark notifications as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("notification ID is required (or use --all)")
			}

			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			if all {
				if err := api.MarkAllNotificationsRead(cmd.Context()); err != nil {
					return fmt.Errorf("failed to mark notifications read: %w", err)
				}
				fmt.Println("✓ All notifications marked read")
				return nil
			}

			if err := api.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to mark notification read: %w", err)
			}
			fmt.Println("✓ Notification marked read")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().BoolVar(&all, "all", false, "Mark every notification as read")

	return cmd
}

// notificationPoller tracks which notifications have already been shown so
// a watch prints each one once. The scheduler runs every invocation in its
// own goroutine, so the seen set is mutex-guarded.
type notificationPoller struct {
	api *client.Client
	out io.Writer

	mu   sync.Mutex
	seen map[string]bool
}

func newNotificationPoller(api *client.Client, out io.Writer) *notificationPoller {
	return &notificationPoller{
		api:  api,
		out:  out,
		seen: map[string]bool{},
	}
}

func (p *notificationPoller) poll(ctx context.Context) {
	list, err := p.api.ListNotifications(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poll failed: %v\n", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range list.Notifications {
		if p.seen[n.ID] || n.IsRead {
			p.seen[n.ID] = true
			continue
		}
		p.seen[n.ID] = true
		printNotifications(p.out, []notificationLine{{n.CreatedAt, n.Title, n.Message, n.IsRead}})
	}
}

func newNotificationsWatchCmd() *cobra.Command {
	var serverAlias, interval string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for new notifications until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			poller := newNotificationPoller(api, os.Stdout)

			// Show the current state, then poll on a schedule. Slow
			// polls are skipped rather than stacked so runs never
			// overlap.
			poller.poll(cmd.Context())

			scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
			if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", interval), func() {
				poller.poll(cmd.Context())
			}); err != nil {
				return fmt.Errorf("invalid interval %q: %w", interval, err)
			}
			scheduler.Start()
			defer scheduler.Stop()

			fmt.Printf("Watching for notifications every %s (Ctrl-C to stop)\n", interval)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigChan:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&interval, "interval", "60s", "Polling interval")

	return cmd
}
