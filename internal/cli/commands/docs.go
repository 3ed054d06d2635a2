package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/arkiv-dev/arkiv/internal/cli/client"
)

// NewDocsCmd creates the docs command group
func NewDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"documents"},
		Short:   "Manage archived documents",
	}

	cmd.AddCommand(newDocsListCmd())
	cmd.AddCommand(newDocsGetCmd())
	cmd.AddCommand(newDocsUploadCmd())
	cmd.AddCommand(newDocsEditCmd())
	cmd.AddCommand(newDocsDownloadCmd())
	cmd.AddCommand(newDocsRmCmd())

	return cmd
}

func newDocsListCmd() *cobra.Command {
	var serverAlias, search, categoryID string
	var page int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			result, err := api.ListDocuments(cmd.Context(), client.DocumentFilter{
				Page:       page,
				Search:     search,
				CategoryID: categoryID,
			})
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}

			if len(result.Items) == 0 {
				fmt.Println("No documents found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tTITLE\tCATEGORY\tSTATUS\tSIZE")
			for _, doc := range result.Items {
				category := doc.CategoryID
				if doc.Category != nil {
					category = doc.Category.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					doc.ID, doc.DocumentNumber, doc.Title, category, doc.Status, doc.FileSize)
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
	cmd.Flags().StringVar(&search, "search", "", "Search query")
	cmd.Flags().StringVar(&categoryID, "category", "", "Filter by category ID")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")

	return cmd
}

func newDocsGetCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "get <document-id>",
		Short: "Show a document's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			doc, err := api.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get document: %w", err)
			}

			fmt.Printf("ID:       %s\n", doc.ID)
			fmt.Printf("Number:   %s\n", doc.DocumentNumber)
			fmt.Printf("Title:    %s\n", doc.Title)
			if doc.Description != "" {
				fmt.Printf("About:    %s\n", doc.Description)
			}
			fmt.Printf("File:     %s (%s, %d bytes)\n", doc.FileName, doc.FileType, doc.FileSize)
			if doc.Category != nil {
				fmt.Printf("Category: %s\n", doc.Category.Name)
			}
			if doc.Uploader != nil {
				fmt.Printf("Uploader: %s\n", doc.Uploader.Name)
			}
			fmt.Printf("Status:   %s\n", doc.Status)
			fmt.Printf("Date:     %s\n", doc.DocumentDate)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func newDocsUploadCmd() *cobra.Command {
	var serverAlias, title, description, categoryID, date string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("title is required (use --title flag)")
			}
			if categoryID == "" {
				return fmt.Errorf("category is required (use --category flag)")
			}

			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			doc, err := api.UploadDocument(cmd.Context(), client.UploadDocumentRequest{
				Title:        title,
				Description:  description,
				CategoryID:   categoryID,
				DocumentDate: date,
			}, args[0])
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			fmt.Println("✓ Document uploaded!")
			fmt.Printf("  ID:     %s\n", doc.ID)
			fmt.Printf("  Number: %s\n", doc.DocumentNumber)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().StringVar(&description, "description", "", "Document description")
	cmd.Flags().StringVar(&categoryID, "category", "", "Category ID")
	cmd.Flags().StringVar(&date, "date", "", "Document date (YYYY-MM-DD)")

	return cmd
}

func newDocsEditCmd() *cobra.Command {
	var serverAlias, title, description, categoryID, documentDate, status string

	cmd := &cobra.Command{
		Use:   "edit <document-id>",
		Short: "Update a document's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			// Only flags the user actually set are sent.
			var req client.UpdateDocumentRequest
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("category") {
				req.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("date") {
				req.DocumentDate = &documentDate
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}

			doc, err := api.UpdateDocument(cmd.Context(), args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update document: %w", err)
			}

			fmt.Printf("✓ Document updated: %s (%s)\n", doc.Title, doc.DocumentNumber)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&categoryID, "category", "", "New category ID")
	cmd.Flags().StringVar(&documentDate, "date", "", "New document date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "New status (active, archived)")

	return cmd
}

func newDocsDownloadCmd() *cobra.Command {
	var serverAlias, outDir string

	cmd := &cobra.Command{
		Use:   "download <document-id>",
		Short: "Download a document's file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			path, err := api.DownloadDocument(cmd.Context(), args[0], outDir)
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}

			fmt.Printf("✓ Saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to save the file into")

	return cmd
}

func newDocsRmCmd() *cobra.Command {
	var serverAlias string
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			if !force {
				confirm := promptui.Prompt{
					Label:     fmt.Sprintf("Permanently delete document %s", args[0]),
					IsConfirm: true,
				}
				if _, err := confirm.Run(); err != nil {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := api.DeleteDocument(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete document: %w", err)
			}

			fmt.Println("✓ Document deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
