package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/arkiv-dev/arkiv/internal/cli/client"
)

// NewCategoriesCmd creates the categories command group
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage document categories",
	}

	cmd.AddCommand(newCategoriesListCmd())
	cmd.AddCommand(newCategoriesAddCmd())
	cmd.AddCommand(newCategoriesEditCmd())
	cmd.AddCommand(newCategoriesRmCmd())

	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAuth(cmd, mgr); err != nil {
				return err
			}

			categories, err := api.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println("No categories found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSLUG\tDESCRIPTION")
			for _, cat := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Slug, cat.Description)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")

	return cmd
}

func newCategoriesAddCmd() *cobra.Command {
	var serverAlias, description, parentID string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAdmin(cmd, mgr); err != nil {
				return err
			}

			cat, err := api.CreateCategory(cmd.Context(), client.CategoryRequest{
				Name:        args[0],
				Description: description,
				ParentID:    parentID,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Printf("✓ Category created: %s (%s)\n", cat.Name, cat.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent category ID")

	return cmd
}

func newCategoriesEditCmd() *cobra.Command {
	var serverAlias, description, parentID string

	cmd := &cobra.Command{
		Use:   "edit <category-id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, api, err := newSession(serverAlias)
			if err != nil {
				return err
			}
			if _, err := requireAdmin(cmd, mgr); err != nil {
				return err
			}

			cat, err := api.UpdateCategory(cmd.Context(), args[0], client.CategoryRequest{
				Name:        args[1],
				Description: description,
				ParentID:    parentID,
			})
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Printf("✓ Category updated: %s (%s)\n", cat.Name, cat.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent category ID")

	return cmd
}

func newCategoriesRmCmd() *cobra.Command {
	var serverAlias string
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <category-id>",
		Short: "Delete a category",
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
					Label:     fmt.Sprintf("Delete category %s", args[0]),
					IsConfirm: true,
				}
				if _, err := confirm.Run(); err != nil {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := api.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println("✓ Category deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias from arkiv.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
