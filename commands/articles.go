package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/beritahub/go-portal-client/articles"
	"github.com/beritahub/go-portal-client/internal/utils"
	"github.com/beritahub/go-portal-client/users"
)

// NewArticlesCommand groups article browsing (public) and authoring
// (writer/admin, guarded the way the dashboard route is).
func NewArticlesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Browse and manage articles",
	}
	cmd.AddCommand(
		newArticlesListCommand(app),
		newArticlesShowCommand(app),
		newArticlesMineCommand(app),
		newArticlesByCategoryCommand(app),
		newArticlesNewCommand(app),
		newArticlesEditCommand(app),
		newArticlesDeleteCommand(app),
	)
	return cmd
}

func newArticlesListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all published articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := app.Articles.List(cmd.Context())
			if err != nil {
				return err
			}
			printArticles(list)
			return nil
		},
	}
}

func newArticlesShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one article with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := app.Articles.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", article.Title)
			fmt.Printf("By %s | %s | %s\n\n", article.Byline(),
				utils.Value(article.Category).Name,
				article.CreatedAt.Format("2 Jan 2006 15:04"))
			fmt.Println(article.Content)

			list, err := app.Comments.ForArticle(cmd.Context(), article.ID)
			if err != nil {
				return err
			}
			fmt.Printf("\nComments (%d):\n", len(list))
			for _, comment := range list {
				fmt.Printf("  [%s] %s: %s\n", comment.ID, comment.Author.DisplayName(), comment.Content)
			}
			return nil
		},
	}
}

func newArticlesMineCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireRoles(users.RoleWriter, users.RoleAdmin); err != nil {
				return err
			}
			list, err := app.Articles.ByAuthor(cmd.Context(), app.Session.User().ID)
			if err != nil {
				return err
			}
			printArticles(list)
			return nil
		},
	}
}

func newArticlesByCategoryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "by-category <category-id>",
		Short: "List articles in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Articles.ByCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printArticles(list)
			return nil
		},
	}
}

func newArticlesNewCommand(app *App) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "new <title> <content> <category-id>",
		Short: "Publish a new article",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireRoles(users.RoleWriter, users.RoleAdmin); err != nil {
				return err
			}
			draft := articles.Draft{Title: args[0], Content: args[1], CategoryID: args[2]}
			if imagePath != "" {
				image, err := loadImage(imagePath)
				if err != nil {
					return err
				}
				draft.Image = image
			}
			created, err := app.Articles.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Printf("Published %q as %s\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a cover image")
	return cmd
}

func newArticlesEditCommand(app *App) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "edit <id> <title> <content> <category-id>",
		Short: "Edit an article",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireRoles(users.RoleWriter, users.RoleAdmin); err != nil {
				return err
			}
			draft := articles.Draft{Title: args[1], Content: args[2], CategoryID: args[3]}
			if imagePath != "" {
				image, err := loadImage(imagePath)
				if err != nil {
					return err
				}
				draft.Image = image
			}
			updated, err := app.Articles.Update(cmd.Context(), args[0], draft)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %q\n", updated.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a replacement cover image")
	return cmd
}

func newArticlesDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireRoles(users.RoleWriter, users.RoleAdmin); err != nil {
				return err
			}
			if err := app.Articles.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Article deleted")
			return nil
		},
	}
}

func printArticles(list []articles.Article) {
	if len(list) == 0 {
		fmt.Println("No articles")
		return
	}
	for _, article := range list {
		fmt.Printf("[%s] %s - %s (%s)\n", article.ID, article.Title,
			article.Byline(), utils.Value(article.Category).Name)
	}
}

func loadImage(path string) (*articles.Image, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "[loadImage] os.ReadFile")
	}
	return &articles.Image{Name: filepath.Base(path), Content: content}, nil
}
