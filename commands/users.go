package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beritahub/go-portal-client/users"
)

// NewUsersCommand groups the admin-only user management surface.
func NewUsersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage portal users (admin)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := app.requireRoles(users.RoleAdmin); err != nil {
					return err
				}
				list, err := app.Users.All(cmd.Context())
				if err != nil {
					return err
				}
				for _, user := range list {
					fmt.Printf("[%s] %-12s %-8s %s\n", user.ID, user.Username, user.Role, user.Email)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "role <id> <reader|writer|admin>",
			Short: "Change a user's role",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(users.RoleAdmin); err != nil {
					return err
				}
				role, err := users.ParseRole(args[1])
				if err != nil {
					return err
				}
				updated, err := app.Users.SetRole(cmd.Context(), args[0], role)
				if err != nil {
					return err
				}
				fmt.Printf("%s is now a %s\n", updated.Username, updated.Role)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(users.RoleAdmin); err != nil {
					return err
				}
				if err := app.Users.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Println("User deleted")
				return nil
			},
		},
	)
	return cmd
}
