package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:           "newsctl",
		Short:         "Read and manage the BeritaHub news portal from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		NewLoginCommand(app),
		NewLogoutCommand(app),
		NewWhoamiCommand(app),
		NewRegisterCommand(app),
		NewArticlesCommand(app),
		NewCategoriesCommand(app),
		NewCommentsCommand(app),
		NewUsersCommand(app),
		NewProfileCommand(app),
	)

	return rootCmd
}
