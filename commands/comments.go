package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommentsCommand groups comment operations. Reading is public; writing
// needs any authenticated role (ownership is enforced server-side).
func NewCommentsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write article comments",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <article-id>",
			Short: "List the comments under an article",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := app.Comments.ForArticle(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, comment := range list {
					fmt.Printf("[%s] %s: %s\n", comment.ID, comment.Author.DisplayName(), comment.Content)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <article-id> <content>",
			Short: "Comment on an article",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(); err != nil {
					return err
				}
				created, err := app.Comments.Create(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("Posted comment %s\n", created.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit <id> <content>",
			Short: "Edit a comment",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(); err != nil {
					return err
				}
				if _, err := app.Comments.Edit(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Println("Comment updated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a comment",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireRoles(); err != nil {
					return err
				}
				if err := app.Comments.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Println("Comment deleted")
				return nil
			},
		},
	)
	return cmd
}
