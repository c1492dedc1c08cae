package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beritahub/go-portal-client/users"
)

// NewCategoriesCommand groups category browsing (public) and management
// (admin).
func NewCategoriesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse and manage categories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				list, err := app.Categories.All(cmd.Context())
				if err != nil {
					return err
				}
				for _, category := range list {
					fmt.Printf("[%s] %s\n", category.ID, category.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(users.RoleAdmin); err != nil {
					return err
				}
				created, err := app.Categories.Create(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Created %q as %s\n", created.Name, created.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(users.RoleAdmin); err != nil {
					return err
				}
				if err := app.Categories.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Println("Category deleted")
				return nil
			},
		},
	)
	return cmd
}
