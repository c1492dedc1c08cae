package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/beritahub/go-portal-client/users"
)

// NewLoginCommand signs the user in and persists the session.
func NewLoginCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in to the portal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := app.Session.Login(cmd.Context(), args[0], args[1])
			if !result.Success {
				return errors.New(result.Message)
			}
			user := app.Session.User()
			fmt.Printf("Logged in as %s (%s)\n", user.DisplayName(), user.Role)
			return nil
		},
	}
}

// NewLogoutCommand ends the session. Local state is cleared even when the
// server cannot be reached.
func NewLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Session.Logout(cmd.Context())
			fmt.Println("Logged out")
			return nil
		},
	}
}

// NewWhoamiCommand shows the verified identity.
func NewWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := app.requireRoles(); err != nil {
				return err
			}
			user := app.Session.User()
			fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			fmt.Printf("  id:   %s\n", user.ID)
			fmt.Printf("  role: %s\n", user.Role)
			return nil
		},
	}
}

// NewRegisterCommand creates a new reader account.
func NewRegisterCommand(app *App) *cobra.Command {
	var fullName string

	cmd := &cobra.Command{
		Use:   "register <username> <email> <password>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := app.Users.Register(cmd.Context(), users.Registration{
				Username: args[0],
				Email:    args[1],
				Password: args[2],
				FullName: fullName,
			})
			if err != nil {
				return err
			}
			fmt.Println(message)
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name for bylines")
	return cmd
}
