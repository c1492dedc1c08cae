package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/beritahub/go-portal-client/api"
	"github.com/beritahub/go-portal-client/users"
)

// NewProfileCommand shows and edits the logged-in user's profile. A
// successful edit replaces the cached identity without touching the token.
func NewProfileCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your profile",
	}
	cmd.AddCommand(newProfileShowCommand(app), newProfileEditCommand(app))
	return cmd
}

func newProfileShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireRoles(); err != nil {
				return err
			}
			user, err := app.Users.Get(cmd.Context(), app.Session.User().ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			fmt.Printf("  username: %s\n", user.Username)
			fmt.Printf("  role:     %s\n", user.Role)
			if user.ProfilePicture != "" {
				fmt.Printf("  picture:  %s\n", user.ProfilePicture)
			}
			return nil
		},
	}
}

func newProfileEditCommand(app *App) *cobra.Command {
	var (
		username    string
		email       string
		fullName    string
		password    string
		picturePath string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireRoles(); err != nil {
				return err
			}
			current := app.Session.User()

			update := users.ProfileUpdate{
				Username: orDefault(username, current.Username),
				Email:    orDefault(email, current.Email),
				FullName: orDefault(fullName, current.FullName),
				Password: password,
			}
			if picturePath != "" {
				content, err := os.ReadFile(picturePath)
				if err != nil {
					return errors.Wrap(err, "[profile edit] os.ReadFile")
				}
				update.ProfilePicture = &api.FormFile{
					Name:    filepath.Base(picturePath),
					Content: bytes.NewReader(content),
				}
			}

			updated, err := app.Users.Update(cmd.Context(), current.ID, update)
			if err != nil {
				return err
			}
			if err := app.Session.ReplaceIdentity(updated); err != nil {
				return err
			}
			fmt.Printf("Profile updated for %s\n", updated.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "new display name")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&picturePath, "picture", "", "path to a new profile picture")
	return cmd
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
